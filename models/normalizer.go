package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	recordKindBill    = "bill"
	recordKindPayment = "payment"
)

// Normalizer shapes raw records into engine records. It is safe for concurrent use.
type Normalizer struct {
	currency string
	validate *validator.Validate
}

func NewNormalizer(currency string) *Normalizer {
	return &Normalizer{
		currency: currency,
		validate: validator.New(),
	}
}

// NormalizeBill returns ErrInvalidRecord (wrapped) when the record shape is unusable.
// Recoverable anomalies are corrected and reported as warnings.
func (n *Normalizer) NormalizeBill(raw RawBill) (Bill, []DataIntegrityWarning, error) {
	if err := n.validate.Struct(raw); err != nil {
		return Bill{}, nil, fmt.Errorf("%w: bill %q: %s", ErrInvalidRecord, raw.ID, describeValidation(err))
	}

	var warnings []DataIntegrityWarning
	warn := func(code WarningCode, field, msg string) {
		warnings = append(warnings, DataIntegrityWarning{
			RecordKind: recordKindBill,
			RecordID:   raw.ID,
			Code:       code,
			Field:      field,
			Message:    msg,
		})
	}

	total := n.nonNegative(raw.TotalAmount, "totalAmount", warn)
	paid := n.nonNegative(raw.PaidAmount, "paidAmount", warn)
	if paid.Cmp(total) > 0 {
		warn(WarningPaidExceedsTotal, "paidAmount", fmt.Sprintf("paid %s exceeds total %s", paid.Amount, total.Amount))
	}

	computedDue := total.Sub(paid).ClampZero()
	due := computedDue
	dueSupplied := raw.DueAmount != nil
	if dueSupplied {
		due = n.nonNegative(*raw.DueAmount, "dueAmount", warn)
		if !due.Equal(computedDue) {
			warn(WarningDueMismatch, "dueAmount", fmt.Sprintf("due %s differs from total - paid %s; keeping supplied due", due.Amount, computedDue.Amount))
		}
	}

	method := PaymentMethodUnknown
	if raw.PaymentMethod != nil {
		m, ok := ParsePaymentMethod(*raw.PaymentMethod)
		if !ok {
			warn(WarningUnknownPaymentMethod, "paymentMethod", fmt.Sprintf("unrecognised payment method %q", *raw.PaymentMethod))
		}
		method = m
	}

	return Bill{
		ID:            raw.ID,
		BillNumber:    raw.BillNumber,
		BillType:      BillType(raw.BillType),
		EntityID:      raw.EntityID,
		EntityName:    raw.EntityName,
		EntityType:    raw.EntityType,
		TotalAmount:   total,
		PaidAmount:    paid,
		DueAmount:     due,
		DueSupplied:   dueSupplied,
		PaymentMethod: method,
		CreatedAt:     raw.CreatedAt,
		IsDeleted:     raw.IsDeleted,
		IsEdited:      raw.IsEdited,
	}, warnings, nil
}

func (n *Normalizer) NormalizePayment(raw RawPayment) (Payment, []DataIntegrityWarning, error) {
	if err := n.validate.Struct(raw); err != nil {
		return Payment{}, nil, fmt.Errorf("%w: payment %q: %s", ErrInvalidRecord, raw.ID, describeValidation(err))
	}

	var warnings []DataIntegrityWarning
	warn := func(code WarningCode, field, msg string) {
		warnings = append(warnings, DataIntegrityWarning{
			RecordKind: recordKindPayment,
			RecordID:   raw.ID,
			Code:       code,
			Field:      field,
			Message:    msg,
		})
	}

	amount := n.nonNegative(raw.Amount, "amount", warn)
	method, ok := ParsePaymentMethod(raw.PaymentMethod)
	if !ok || method == PaymentMethodUnknown {
		warn(WarningUnknownPaymentMethod, "paymentMethod", fmt.Sprintf("payment method %q is not one of cash, card, online", raw.PaymentMethod))
	}

	return Payment{
		ID:            raw.ID,
		EntityID:      raw.EntityID,
		EntityType:    EntityType(raw.EntityType),
		Amount:        amount,
		PaymentMethod: method,
		CreatedAt:     raw.CreatedAt,
	}, warnings, nil
}

// NormalizeBills keeps every usable record. Unusable ones are dropped with an invalid_record warning;
// one bad record never aborts the batch.
func (n *Normalizer) NormalizeBills(raws []RawBill) ([]Bill, []DataIntegrityWarning) {
	bills := make([]Bill, 0, len(raws))
	var warnings []DataIntegrityWarning
	for _, raw := range raws {
		b, w, err := n.NormalizeBill(raw)
		if err != nil {
			warnings = append(warnings, invalidRecordWarning(recordKindBill, raw.ID, err))
			continue
		}
		warnings = append(warnings, w...)
		bills = append(bills, b)
	}
	return bills, warnings
}

func (n *Normalizer) NormalizePayments(raws []RawPayment) ([]Payment, []DataIntegrityWarning) {
	payments := make([]Payment, 0, len(raws))
	var warnings []DataIntegrityWarning
	for _, raw := range raws {
		p, w, err := n.NormalizePayment(raw)
		if err != nil {
			warnings = append(warnings, invalidRecordWarning(recordKindPayment, raw.ID, err))
			continue
		}
		warnings = append(warnings, w...)
		payments = append(payments, p)
	}
	return payments, warnings
}

func (n *Normalizer) nonNegative(d decimal.Decimal, field string, warn func(WarningCode, string, string)) Money {
	m := NewMoney(d, n.currency)
	if m.IsNegative() {
		warn(WarningNegativeAmount, field, fmt.Sprintf("negative %s %s clamped to 0", field, d))
		return m.ClampZero()
	}
	return m
}

func invalidRecordWarning(kind, id string, err error) DataIntegrityWarning {
	return DataIntegrityWarning{
		RecordKind: kind,
		RecordID:   id,
		Code:       WarningInvalidRecord,
		Message:    err.Error(),
	}
}

// describeValidation flattens validator errors into "field:tag" pairs.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+":"+fe.Tag())
	}
	return strings.Join(parts, ", ")
}
