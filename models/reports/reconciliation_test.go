package reports

import (
	"testing"

	"github.com/mmdatafocus/shop_ledger/models"
)

func TestMaxOfSources_TakesLargerNeverSum(t *testing.T) {
	cases := []struct {
		name       string
		billPaid   []int64
		payments   []int64
		wantTotal  int64
		wantSource SettlementSource
	}{
		{"bills only", []int64{300, 200}, nil, 500, SettlementFromBills},
		{"payments only", []int64{0}, []int64{600}, 600, SettlementFromPayments},
		{"bills larger", []int64{800}, []int64{500}, 800, SettlementFromBills},
		{"payments larger", []int64{100}, []int64{250, 250}, 500, SettlementFromPayments},
		{"tie goes to bills", []int64{400}, []int64{400}, 400, SettlementFromBills},
		{"nothing", nil, nil, 0, SettlementFromBills},
	}
	for _, tc := range cases {
		var bills []models.Bill
		for i, p := range tc.billPaid {
			bills = append(bills, sale(string(rune('a'+i)), 1000, p, withMethod(models.PaymentMethodCash)))
		}
		var payments []models.Payment
		for i, p := range tc.payments {
			payments = append(payments, payment(string(rune('p'+i)), models.EntityTypeCustomer, p, models.PaymentMethodOnline, 0))
		}
		s := MaxOfSourcesStrategy{}.Reconcile(models.BillTypeSale, bills, payments)
		assertMoney(t, tc.name, s.Total, tc.wantTotal)
		if s.Source != tc.wantSource {
			t.Fatalf("%s: expected source %s, got %s", tc.name, tc.wantSource, s.Source)
		}
		if s.Total.Cmp(s.FromBills) < 0 || s.Total.Cmp(s.FromPayments) < 0 {
			t.Fatalf("%s: total below one of its sources", tc.name)
		}
		if !s.ByMethod.Total().Equal(s.Total) {
			t.Fatalf("%s: breakdown %s does not sum to total %s", tc.name, s.ByMethod.Total().Amount, s.Total.Amount)
		}
	}
}

func TestMaxOfSources_IgnoresOtherSide(t *testing.T) {
	bills := []models.Bill{
		sale("s1", 100, 100),
		purchase("b1", 900, 900),
	}
	payments := []models.Payment{
		payment("p1", models.EntityTypeWholesaler, 5000, models.PaymentMethodCash, 0),
	}
	s := MaxOfSourcesStrategy{}.Reconcile(models.BillTypeSale, bills, payments)
	assertMoney(t, "sales total", s.Total, 100)
	assertMoney(t, "sales from payments", s.FromPayments, 0)

	p := MaxOfSourcesStrategy{}.Reconcile(models.BillTypePurchase, bills, payments)
	assertMoney(t, "purchase total", p.Total, 5000)
	if p.Source != SettlementFromPayments {
		t.Fatalf("expected payments source, got %s", p.Source)
	}
}

func TestMaxOfSources_UnknownMethodBucket(t *testing.T) {
	bills := []models.Bill{
		sale("s1", 100, 60, withMethod(models.PaymentMethodCard)),
		sale("s2", 100, 40),
	}
	s := MaxOfSourcesStrategy{}.Reconcile(models.BillTypeSale, bills, nil)
	assertMoney(t, "card", s.ByMethod.Card, 60)
	assertMoney(t, "unknown", s.ByMethod.Unknown, 40)
	assertMoney(t, "cash", s.ByMethod.Cash, 0)
}
