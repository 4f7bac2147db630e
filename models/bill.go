package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawBill is a bill as delivered by the store, before normalization.
// DueAmount and PaymentMethod are optional; nil means "not recorded".
type RawBill struct {
	ID            string           `json:"id" validate:"required"`
	BillNumber    string           `json:"billNumber"`
	BillType      string           `json:"billType" validate:"required,oneof=sale purchase"`
	EntityID      string           `json:"entityId"`
	EntityName    string           `json:"entityName"`
	EntityType    string           `json:"entityType"`
	TotalAmount   decimal.Decimal  `json:"totalAmount"`
	PaidAmount    decimal.Decimal  `json:"paidAmount"`
	DueAmount     *decimal.Decimal `json:"dueAmount,omitempty"`
	PaymentMethod *string          `json:"paymentMethod,omitempty"`
	CreatedAt     time.Time        `json:"createdAt" validate:"required"`
	IsDeleted     bool             `json:"isDeleted"`
	IsEdited      bool             `json:"isEdited"`
}

// Bill is the engine's read-only view of a sale or purchase.
// DueAmount is already the effective due: the supplied due when present, otherwise max(0, total - paid).
type Bill struct {
	ID            string        `json:"id"`
	BillNumber    string        `json:"billNumber"`
	BillType      BillType      `json:"billType"`
	EntityID      string        `json:"entityId"`
	EntityName    string        `json:"entityName"`
	EntityType    string        `json:"entityType"`
	TotalAmount   Money         `json:"totalAmount"`
	PaidAmount    Money         `json:"paidAmount"`
	DueAmount     Money         `json:"dueAmount"`
	DueSupplied   bool          `json:"dueSupplied"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CreatedAt     time.Time     `json:"createdAt"`
	IsDeleted     bool          `json:"isDeleted"`
	IsEdited      bool          `json:"isEdited"`
}

// EffectiveDue is the normalized due: the supplied due when present, else total minus paid.
func (b Bill) EffectiveDue() Money {
	return b.DueAmount
}

func (b Bill) Status() PaymentStatus {
	return ClassifyPaymentStatus(b.EffectiveDue(), b.PaidAmount)
}

// BillRecord is the persisted row the store reads bills from.
type BillRecord struct {
	ID            string              `gorm:"primaryKey;size:64" json:"id"`
	BusinessId    string              `gorm:"index:idx_bills_biz_created,priority:1;size:64;not null" json:"business_id"`
	BillNumber    string              `gorm:"size:64;index" json:"bill_number"`
	BillType      string              `gorm:"size:16;index;not null" json:"bill_type"`
	EntityId      string              `gorm:"size:64;index" json:"entity_id"`
	EntityName    string              `gorm:"size:255" json:"entity_name"`
	EntityType    string              `gorm:"size:32" json:"entity_type"`
	TotalAmount   decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	PaidAmount    decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"paid_amount"`
	DueAmount     decimal.NullDecimal `gorm:"type:decimal(20,4);default:null" json:"due_amount"`
	PaymentMethod *string             `gorm:"size:16;default:null" json:"payment_method"`
	IsDeleted     bool                `gorm:"index;default:false" json:"is_deleted"`
	IsEdited      bool                `gorm:"default:false" json:"is_edited"`
	CreatedAt     time.Time           `gorm:"index:idx_bills_biz_created,priority:2;not null" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BillRecord) TableName() string {
	return "bills"
}

func (r BillRecord) ToRaw() RawBill {
	raw := RawBill{
		ID:            r.ID,
		BillNumber:    r.BillNumber,
		BillType:      r.BillType,
		EntityID:      r.EntityId,
		EntityName:    r.EntityName,
		EntityType:    r.EntityType,
		TotalAmount:   r.TotalAmount,
		PaidAmount:    r.PaidAmount,
		PaymentMethod: r.PaymentMethod,
		CreatedAt:     r.CreatedAt,
		IsDeleted:     r.IsDeleted,
		IsEdited:      r.IsEdited,
	}
	if r.DueAmount.Valid {
		due := r.DueAmount.Decimal
		raw.DueAmount = &due
	}
	return raw
}
