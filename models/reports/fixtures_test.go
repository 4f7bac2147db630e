package reports

import (
	"testing"
	"time"

	"github.com/mmdatafocus/shop_ledger/models"
)

var day0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func money(v int64) models.Money {
	return models.MoneyFromInt(v, "MMK")
}

type billOpt func(*models.Bill)

func onDay(d int) billOpt {
	return func(b *models.Bill) { b.CreatedAt = day0.AddDate(0, 0, d) }
}

func withMethod(m models.PaymentMethod) billOpt {
	return func(b *models.Bill) { b.PaymentMethod = m }
}

func deleted() billOpt {
	return func(b *models.Bill) { b.IsDeleted = true }
}

func named(number, entity string) billOpt {
	return func(b *models.Bill) {
		b.BillNumber = number
		b.EntityName = entity
	}
}

func bill(id string, typ models.BillType, total, paid int64, opts ...billOpt) models.Bill {
	due := total - paid
	if due < 0 {
		due = 0
	}
	b := models.Bill{
		ID:            id,
		BillType:      typ,
		TotalAmount:   money(total),
		PaidAmount:    money(paid),
		DueAmount:     money(due),
		PaymentMethod: models.PaymentMethodUnknown,
		CreatedAt:     day0,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func sale(id string, total, paid int64, opts ...billOpt) models.Bill {
	return bill(id, models.BillTypeSale, total, paid, opts...)
}

func purchase(id string, total, paid int64, opts ...billOpt) models.Bill {
	return bill(id, models.BillTypePurchase, total, paid, opts...)
}

func payment(id string, entity models.EntityType, amount int64, method models.PaymentMethod, d int) models.Payment {
	return models.Payment{
		ID:            id,
		EntityType:    entity,
		Amount:        money(amount),
		PaymentMethod: method,
		CreatedAt:     day0.AddDate(0, 0, d),
	}
}

func assertMoney(t testing.TB, name string, got models.Money, want int64) {
	t.Helper()
	if !got.Amount.Equal(money(want).Amount) {
		t.Fatalf("%s: expected %d, got %s", name, want, got.Amount)
	}
}
