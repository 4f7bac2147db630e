package models

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func dryRunStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/ledger?parseTime=true",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return NewStore(db, "MMK")
}

func TestBillsQuery_AppliesFilters(t *testing.T) {
	s := dryRunStore(t)
	sale := BillTypeSale
	card := PaymentMethodCard
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)

	var records []BillRecord
	stmt := s.billsQuery(context.Background(), BillQuery{
		BusinessId:    "biz-1",
		BillType:      &sale,
		PaymentMethod: &card,
		From:          &from,
		To:            &to,
		EditedOnly:    true,
		Search:        "S-00",
	}).Find(&records).Statement
	sql := stmt.SQL.String()

	for _, fragment := range []string{
		"`bills`",
		"business_id = ?",
		"bill_type = ?",
		"payment_method = ?",
		"created_at >= ?",
		"created_at <= ?",
		"is_deleted = ?",
		"is_edited = ?",
		"bill_number LIKE ?",
		"ORDER BY created_at DESC",
	} {
		if !strings.Contains(sql, fragment) {
			t.Fatalf("expected %q in %s", fragment, sql)
		}
	}
}

func TestBillsQuery_SearchIsLiteral(t *testing.T) {
	s := dryRunStore(t)
	var records []BillRecord
	stmt := s.billsQuery(context.Background(), BillQuery{BusinessId: "biz-1", Search: `50%_off\!`, IncludeDeleted: true}).
		Find(&records).Statement
	if sql := stmt.SQL.String(); !strings.Contains(sql, "LIKE ? ESCAPE '!'") {
		t.Fatalf("expected an ESCAPE clause, got %s", sql)
	}
	want := `%50!%!_off\!!%`
	found := false
	for _, v := range stmt.Vars {
		if v == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected escaped pattern %q in %v", want, stmt.Vars)
	}
}

func TestBillsQuery_PendingMethodMeansNull(t *testing.T) {
	s := dryRunStore(t)
	pending := PaymentMethodUnknown
	var records []BillRecord
	sql := s.billsQuery(context.Background(), BillQuery{BusinessId: "biz-1", PaymentMethod: &pending, IncludeDeleted: true}).
		Find(&records).Statement.SQL.String()
	if !strings.Contains(sql, "payment_method IS NULL") {
		t.Fatalf("expected IS NULL filter, got %s", sql)
	}
	if strings.Contains(sql, "is_deleted") {
		t.Fatalf("includeDeleted must drop the is_deleted filter, got %s", sql)
	}
}

func TestPaymentsQuery_FiltersEntityType(t *testing.T) {
	s := dryRunStore(t)
	customer := EntityTypeCustomer
	var records []PaymentRecord
	sql := s.paymentsQuery(context.Background(), PaymentQuery{BusinessId: "biz-1", EntityType: &customer}).
		Find(&records).Statement.SQL.String()
	for _, fragment := range []string{"`payments`", "business_id = ?", "entity_type = ?"} {
		if !strings.Contains(sql, fragment) {
			t.Fatalf("expected %q in %s", fragment, sql)
		}
	}
}

func TestStore_RequiresBusinessId(t *testing.T) {
	s := dryRunStore(t)
	if _, err := s.ListBills(context.Background(), BillQuery{}); err != ErrBusinessIdRequired {
		t.Fatalf("expected ErrBusinessIdRequired, got %v", err)
	}
	if _, err := s.ListPayments(context.Background(), PaymentQuery{}); err != ErrBusinessIdRequired {
		t.Fatalf("expected ErrBusinessIdRequired, got %v", err)
	}
	if _, err := s.ListCustomerLedgers(context.Background(), ""); err != ErrBusinessIdRequired {
		t.Fatalf("expected ErrBusinessIdRequired, got %v", err)
	}
}

func TestBillRecordToRaw_KeepsNullDue(t *testing.T) {
	r := BillRecord{ID: "b1", BillType: "sale"}
	if raw := r.ToRaw(); raw.DueAmount != nil {
		t.Fatalf("null due must stay nil, got %s", raw.DueAmount)
	}
	r.DueAmount.Valid = true
	if raw := r.ToRaw(); raw.DueAmount == nil {
		t.Fatalf("valid due must be carried over")
	}
}
