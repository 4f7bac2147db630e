package reports

import (
	"testing"
	"time"

	"github.com/mmdatafocus/shop_ledger/models"
)

func TestByDay_SumsMatchPeriodTotals(t *testing.T) {
	bills := []models.Bill{
		sale("s1", 1000, 1000, onDay(0)),
		sale("s2", 400, 0, onDay(0)),
		sale("s3", 250, 50, onDay(2)),
		purchase("b1", 600, 600, onDay(1)),
		sale("s4", 999, 999, onDay(1), deleted()),
	}
	payments := []models.Payment{
		payment("p1", models.EntityTypeCustomer, 100, models.PaymentMethodCash, 3),
	}
	agg := NewAggregator(WithCurrency("MMK"))
	days := agg.ByDay(bills, payments)
	period := agg.Aggregate(bills, payments)

	if len(days) != 4 {
		t.Fatalf("expected 4 days with activity, got %d", len(days))
	}
	sales := money(0)
	purchases := money(0)
	transactions := 0
	for _, d := range days {
		sales = sales.Add(d.Sales)
		purchases = purchases.Add(d.Purchases)
		transactions += d.Transactions
	}
	if !sales.Equal(period.TotalSalesAmount) {
		t.Fatalf("day sales %s != period sales %s", sales.Amount, period.TotalSalesAmount.Amount)
	}
	if !purchases.Equal(period.TotalPurchasesAmount) {
		t.Fatalf("day purchases %s != period purchases %s", purchases.Amount, period.TotalPurchasesAmount.Amount)
	}
	if transactions != 4 {
		t.Fatalf("expected 4 non-deleted bills, got %d", transactions)
	}
}

func TestByDay_MostRecentFirstAndPaymentOnlyDay(t *testing.T) {
	bills := []models.Bill{sale("s1", 100, 0, onDay(0)), sale("s2", 100, 0, onDay(1))}
	payments := []models.Payment{payment("p1", models.EntityTypeCustomer, 70, models.PaymentMethodCard, 2)}
	days := NewAggregator().ByDay(bills, payments)

	want := []string{"2025-03-12", "2025-03-11", "2025-03-10"}
	if len(days) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(days))
	}
	for i, d := range days {
		if d.Date != want[i] {
			t.Fatalf("day %d expected %s, got %s", i, want[i], d.Date)
		}
	}
	if days[0].Transactions != 0 {
		t.Fatalf("payments are not transactions, got %d", days[0].Transactions)
	}
	assertMoney(t, "payment-only day collected", days[0].Collected, 70)
}

func TestByDay_BucketsInShopZone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Yangon")
	if err != nil {
		t.Skipf("zone unavailable: %v", err)
	}
	late := sale("s1", 100, 100)
	late.CreatedAt = time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC) // 02:30 on the 11th in Yangon

	if d := NewAggregator().ByDay([]models.Bill{late}, nil); d[0].Date != "2025-03-10" {
		t.Fatalf("UTC bucket expected 2025-03-10, got %s", d[0].Date)
	}
	if d := NewAggregator(WithLocation(loc)).ByDay([]models.Bill{late}, nil); d[0].Date != "2025-03-11" {
		t.Fatalf("Yangon bucket expected 2025-03-11, got %s", d[0].Date)
	}
}
