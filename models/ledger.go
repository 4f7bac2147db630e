package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CounterpartyLedgerSnapshot holds lifetime figures owned outside the engine.
// Lifetime totals already include the pre-system opening portion.
type CounterpartyLedgerSnapshot struct {
	EntityID             string     `json:"entityId"`
	Name                 string     `json:"name"`
	TotalLifetimeAmount  Money      `json:"totalLifetimeAmount"`
	TotalLifetimeSettled Money      `json:"totalLifetimeSettled"`
	OpeningAmount        Money      `json:"openingAmount"`
	OpeningSettled       Money      `json:"openingSettled"`
	LastTransactionDate  *time.Time `json:"lastTransactionDate,omitempty"`
}

// CustomerLedger: lifetime amount = sales, settled = collected.
type CustomerLedger struct {
	CounterpartyLedgerSnapshot
	OutstandingDue ReceivableBalance `json:"outstandingDue"`
}

// WholesalerLedger: lifetime amount = purchases, settled = paid.
type WholesalerLedger struct {
	CounterpartyLedgerSnapshot
	OutstandingDue PayableBalance `json:"outstandingDue"`
}

type LedgerSnapshots struct {
	Customers   []CustomerLedger   `json:"customers"`
	Wholesalers []WholesalerLedger `json:"wholesalers"`
}

type CustomerRecord struct {
	ID                string          `gorm:"primaryKey;size:64" json:"id"`
	BusinessId        string          `gorm:"index;size:64;not null" json:"business_id"`
	Name              string          `gorm:"size:255;not null" json:"name"`
	CustomerType      string          `gorm:"size:32" json:"customer_type"`
	TotalSales        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_sales"`
	TotalPaid         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_paid"`
	OutstandingDue    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"outstanding_due"`
	OpeningSales      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"opening_sales"`
	OpeningPayments   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"opening_payments"`
	LastTransactionAt *time.Time      `gorm:"default:null" json:"last_transaction_at"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CustomerRecord) TableName() string {
	return "customers"
}

func (r CustomerRecord) ToLedger(currency string) CustomerLedger {
	return CustomerLedger{
		CounterpartyLedgerSnapshot: CounterpartyLedgerSnapshot{
			EntityID:             r.ID,
			Name:                 r.Name,
			TotalLifetimeAmount:  NewMoney(r.TotalSales, currency),
			TotalLifetimeSettled: NewMoney(r.TotalPaid, currency),
			OpeningAmount:        NewMoney(r.OpeningSales, currency),
			OpeningSettled:       NewMoney(r.OpeningPayments, currency),
			LastTransactionDate:  r.LastTransactionAt,
		},
		OutstandingDue: NewReceivableBalance(NewMoney(r.OutstandingDue, currency)),
	}
}

type WholesalerRecord struct {
	ID                string          `gorm:"primaryKey;size:64" json:"id"`
	BusinessId        string          `gorm:"index;size:64;not null" json:"business_id"`
	Name              string          `gorm:"size:255;not null" json:"name"`
	TotalPurchased    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_purchased"`
	TotalPaid         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_paid"`
	OutstandingDue    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"outstanding_due"`
	OpeningPurchases  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"opening_purchases"`
	OpeningPayments   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"opening_payments"`
	LastTransactionAt *time.Time      `gorm:"default:null" json:"last_transaction_at"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WholesalerRecord) TableName() string {
	return "wholesalers"
}

func (r WholesalerRecord) ToLedger(currency string) WholesalerLedger {
	return WholesalerLedger{
		CounterpartyLedgerSnapshot: CounterpartyLedgerSnapshot{
			EntityID:             r.ID,
			Name:                 r.Name,
			TotalLifetimeAmount:  NewMoney(r.TotalPurchased, currency),
			TotalLifetimeSettled: NewMoney(r.TotalPaid, currency),
			OpeningAmount:        NewMoney(r.OpeningPurchases, currency),
			OpeningSettled:       NewMoney(r.OpeningPayments, currency),
			LastTransactionDate:  r.LastTransactionAt,
		},
		OutstandingDue: NewPayableBalance(NewMoney(r.OutstandingDue, currency)),
	}
}
