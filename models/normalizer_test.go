package models

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func rawSale(id string, total, paid int64) RawBill {
	return RawBill{
		ID:          id,
		BillType:    string(BillTypeSale),
		TotalAmount: decimal.NewFromInt(total),
		PaidAmount:  decimal.NewFromInt(paid),
		CreatedAt:   time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func hasWarning(warnings []DataIntegrityWarning, code WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

func TestNormalizeBill_ComputesDueWhenAbsent(t *testing.T) {
	n := NewNormalizer("MMK")
	b, warnings, err := n.NormalizeBill(rawSale("b1", 1000, 400))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	if b.DueAmount.Amount.IntPart() != 600 || b.DueSupplied {
		t.Fatalf("expected computed due 600, got %s (supplied=%v)", b.DueAmount.Amount, b.DueSupplied)
	}
	if b.PaymentMethod != PaymentMethodUnknown {
		t.Fatalf("missing method should be %s, got %s", PaymentMethodUnknown, b.PaymentMethod)
	}
	if b.TotalAmount.Currency != "MMK" {
		t.Fatalf("expected MMK currency, got %q", b.TotalAmount.Currency)
	}
	if b.Status() != PaymentStatusPartial {
		t.Fatalf("expected partial, got %s", b.Status())
	}
}

func TestNormalizeBill_KeepsSuppliedDueWithMismatchWarning(t *testing.T) {
	raw := rawSale("b2", 1000, 400)
	due := decimal.NewFromInt(500)
	raw.DueAmount = &due
	b, warnings, err := NewNormalizer("MMK").NormalizeBill(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.EffectiveDue().Amount.IntPart() != 500 || !b.DueSupplied {
		t.Fatalf("expected supplied due 500, got %s", b.EffectiveDue().Amount)
	}
	if !hasWarning(warnings, WarningDueMismatch) {
		t.Fatalf("expected due_mismatch warning, got %v", warnings)
	}
}

func TestNormalizeBill_ClampsNegativesAndFlagsOverpayment(t *testing.T) {
	raw := rawSale("b3", -100, 50)
	b, warnings, err := NewNormalizer("").NormalizeBill(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.TotalAmount.IsZero() {
		t.Fatalf("expected total clamped to 0, got %s", b.TotalAmount.Amount)
	}
	if !hasWarning(warnings, WarningNegativeAmount) || !hasWarning(warnings, WarningPaidExceedsTotal) {
		t.Fatalf("expected negative_amount and paid_exceeds_total, got %v", warnings)
	}
	if !b.DueAmount.IsZero() {
		t.Fatalf("due must never be negative, got %s", b.DueAmount.Amount)
	}
}

func TestNormalizeBill_UnknownMethodWarns(t *testing.T) {
	raw := rawSale("b4", 100, 100)
	method := "cheque"
	raw.PaymentMethod = &method
	b, warnings, err := NewNormalizer("").NormalizeBill(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.PaymentMethod != PaymentMethodUnknown || !hasWarning(warnings, WarningUnknownPaymentMethod) {
		t.Fatalf("expected pending with warning, got %s %v", b.PaymentMethod, warnings)
	}
}

func TestNormalizeBill_RejectsBadShape(t *testing.T) {
	raw := rawSale("b5", 100, 0)
	raw.BillType = "refund"
	if _, _, err := NewNormalizer("").NormalizeBill(raw); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestNormalizeBills_SkipsInvalidRecords(t *testing.T) {
	bad := rawSale("", 100, 0)
	bills, warnings := NewNormalizer("").NormalizeBills([]RawBill{rawSale("ok1", 100, 0), bad, rawSale("ok2", 50, 50)})
	if len(bills) != 2 {
		t.Fatalf("expected 2 bills, got %d", len(bills))
	}
	if len(warnings) != 1 || warnings[0].Code != WarningInvalidRecord {
		t.Fatalf("expected one invalid_record warning, got %v", warnings)
	}
}

func TestNormalizePayments(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	raws := []RawPayment{
		{ID: "p1", EntityType: "customer", Amount: decimal.NewFromInt(600), PaymentMethod: "card", CreatedAt: at},
		{ID: "p2", EntityType: "wholesaler", Amount: decimal.NewFromInt(-5), PaymentMethod: "", CreatedAt: at},
		{ID: "p3", EntityType: "bank", Amount: decimal.NewFromInt(5), PaymentMethod: "cash", CreatedAt: at},
	}
	payments, warnings := NewNormalizer("MMK").NormalizePayments(raws)
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(payments))
	}
	if payments[0].PaymentMethod != PaymentMethodCard || payments[0].EntityType != EntityTypeCustomer {
		t.Fatalf("unexpected first payment %+v", payments[0])
	}
	if !payments[1].Amount.IsZero() || payments[1].PaymentMethod != PaymentMethodUnknown {
		t.Fatalf("expected clamped amount with pending method, got %+v", payments[1])
	}
	for _, code := range []WarningCode{WarningNegativeAmount, WarningUnknownPaymentMethod, WarningInvalidRecord} {
		if !hasWarning(warnings, code) {
			t.Fatalf("expected %s warning, got %v", code, warnings)
		}
	}
}
