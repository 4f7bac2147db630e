package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawPayment is a standalone settlement record, independent of any bill.
type RawPayment struct {
	ID            string          `json:"id" validate:"required"`
	EntityID      string          `json:"entityId"`
	EntityType    string          `json:"entityType" validate:"required,oneof=customer wholesaler"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt" validate:"required"`
}

type Payment struct {
	ID            string        `json:"id"`
	EntityID      string        `json:"entityId"`
	EntityType    EntityType    `json:"entityType"`
	Amount        Money         `json:"amount"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type PaymentRecord struct {
	ID            string          `gorm:"primaryKey;size:64" json:"id"`
	BusinessId    string          `gorm:"index:idx_payments_biz_created,priority:1;size:64;not null" json:"business_id"`
	EntityId      string          `gorm:"size:64;index" json:"entity_id"`
	EntityType    string          `gorm:"size:16;index;not null" json:"entity_type"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	PaymentMethod string          `gorm:"size:16" json:"payment_method"`
	CreatedAt     time.Time       `gorm:"index:idx_payments_biz_created,priority:2;not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PaymentRecord) TableName() string {
	return "payments"
}

func (r PaymentRecord) ToRaw() RawPayment {
	return RawPayment{
		ID:            r.ID,
		EntityID:      r.EntityId,
		EntityType:    r.EntityType,
		Amount:        r.Amount,
		PaymentMethod: r.PaymentMethod,
		CreatedAt:     r.CreatedAt,
	}
}
