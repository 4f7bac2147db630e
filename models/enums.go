package models

import (
	"errors"
	"strings"
)

type BillType string

const (
	BillTypeSale     BillType = "sale"
	BillTypePurchase BillType = "purchase"
)

func (t BillType) IsValid() bool {
	return t == BillTypeSale || t == BillTypePurchase
}

// SettlementEntityType is the payment-side counterpart of a bill type:
// sales settle against customers, purchases against wholesalers.
func (t BillType) SettlementEntityType() EntityType {
	if t == BillTypePurchase {
		return EntityTypeWholesaler
	}
	return EntityTypeCustomer
}

type EntityType string

var ErrInvalidEntityType = errors.New("invalid entity type")

const (
	EntityTypeCustomer   EntityType = "customer"
	EntityTypeWholesaler EntityType = "wholesaler"
)

func (t EntityType) IsValid() bool {
	return t == EntityTypeCustomer || t == EntityTypeWholesaler
}

func ParseEntityType(s string) (EntityType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer", "customers":
		return EntityTypeCustomer, nil
	case "wholesaler", "wholesalers":
		return EntityTypeWholesaler, nil
	}
	return "", ErrInvalidEntityType
}

// Bill counterparty kinds as recorded on the bill itself.
const (
	CounterpartyDueCustomer = "due_customer"
	CounterpartyWalkIn      = "walk_in"
	CounterpartyWholesaler  = "wholesaler"
)

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodOnline PaymentMethod = "online"
	// PaymentMethodUnknown marks bills with no recorded method. It is never folded into cash.
	PaymentMethodUnknown PaymentMethod = "pending"
)

var PaymentMethods = []PaymentMethod{PaymentMethodCash, PaymentMethodCard, PaymentMethodOnline}

// ParsePaymentMethod reports ok=false for non-empty values it does not recognise.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	v := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range PaymentMethods {
		if v == m {
			return v, true
		}
	}
	switch v {
	case "", PaymentMethodUnknown, "unknown":
		return PaymentMethodUnknown, true
	}
	return PaymentMethodUnknown, false
}

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPending PaymentStatus = "pending"
)

// ClassifyPaymentStatus partitions (due, paid) pairs: paid when nothing is due,
// partial when something is due and something was paid, pending otherwise.
func ClassifyPaymentStatus(due Money, paid Money) PaymentStatus {
	if !due.IsPositive() {
		return PaymentStatusPaid
	}
	if paid.IsPositive() {
		return PaymentStatusPartial
	}
	return PaymentStatusPending
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch v := PaymentStatus(strings.ToLower(strings.TrimSpace(s))); v {
	case PaymentStatusPaid, PaymentStatusPartial, PaymentStatusPending:
		return v, nil
	}
	return "", errors.New("invalid payment status")
}
