package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var ErrBusinessIdRequired = errors.New("business id is required")

// BillQuery mirrors the fetch filters the reporting layer supports.
// Nil pointers mean "no filter".
type BillQuery struct {
	BusinessId     string
	BillType       *BillType
	PaymentMethod  *PaymentMethod
	From           *time.Time
	To             *time.Time
	IncludeDeleted bool
	EditedOnly     bool
	Search         string
}

type PaymentQuery struct {
	BusinessId string
	EntityType *EntityType
	From       *time.Time
	To         *time.Time
}

// Store reads source-of-truth records. It never writes them.
type Store struct {
	db       *gorm.DB
	currency string
}

// likeEscaper makes a search term literal inside LIKE ... ESCAPE '!'. A '!' escape
// behaves the same with or without NO_BACKSLASH_ESCAPES.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func NewStore(db *gorm.DB, currency string) *Store {
	return &Store{db: db, currency: currency}
}

func (s *Store) billsQuery(ctx context.Context, q BillQuery) *gorm.DB {
	dbCtx := s.db.WithContext(ctx).Model(&BillRecord{}).Where("business_id = ?", q.BusinessId)
	if q.BillType != nil {
		dbCtx = dbCtx.Where("bill_type = ?", string(*q.BillType))
	}
	if q.PaymentMethod != nil {
		if *q.PaymentMethod == PaymentMethodUnknown {
			dbCtx = dbCtx.Where("payment_method IS NULL")
		} else {
			dbCtx = dbCtx.Where("payment_method = ?", string(*q.PaymentMethod))
		}
	}
	if q.From != nil {
		dbCtx = dbCtx.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		dbCtx = dbCtx.Where("created_at <= ?", *q.To)
	}
	if !q.IncludeDeleted {
		dbCtx = dbCtx.Where("is_deleted = ?", false)
	}
	if q.EditedOnly {
		dbCtx = dbCtx.Where("is_edited = ?", true)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		like := "%" + likeEscaper.Replace(search) + "%"
		dbCtx = dbCtx.Where("(bill_number LIKE ? ESCAPE '!' OR entity_name LIKE ? ESCAPE '!')", like, like)
	}
	return dbCtx.Order("created_at DESC").Order("id")
}

func (s *Store) paymentsQuery(ctx context.Context, q PaymentQuery) *gorm.DB {
	dbCtx := s.db.WithContext(ctx).Model(&PaymentRecord{}).Where("business_id = ?", q.BusinessId)
	if q.EntityType != nil {
		dbCtx = dbCtx.Where("entity_type = ?", string(*q.EntityType))
	}
	if q.From != nil {
		dbCtx = dbCtx.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		dbCtx = dbCtx.Where("created_at <= ?", *q.To)
	}
	return dbCtx.Order("created_at DESC").Order("id")
}

func (s *Store) ListBills(ctx context.Context, q BillQuery) ([]RawBill, error) {
	if q.BusinessId == "" {
		return nil, ErrBusinessIdRequired
	}
	var records []BillRecord
	if err := s.billsQuery(ctx, q).Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]RawBill, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToRaw())
	}
	return out, nil
}

func (s *Store) ListPayments(ctx context.Context, q PaymentQuery) ([]RawPayment, error) {
	if q.BusinessId == "" {
		return nil, ErrBusinessIdRequired
	}
	var records []PaymentRecord
	if err := s.paymentsQuery(ctx, q).Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]RawPayment, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToRaw())
	}
	return out, nil
}

func (s *Store) ListCustomerLedgers(ctx context.Context, businessId string) ([]CustomerLedger, error) {
	if businessId == "" {
		return nil, ErrBusinessIdRequired
	}
	var records []CustomerRecord
	if err := s.db.WithContext(ctx).Where("business_id = ?", businessId).Order("name").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]CustomerLedger, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToLedger(s.currency))
	}
	return out, nil
}

func (s *Store) ListWholesalerLedgers(ctx context.Context, businessId string) ([]WholesalerLedger, error) {
	if businessId == "" {
		return nil, ErrBusinessIdRequired
	}
	var records []WholesalerRecord
	if err := s.db.WithContext(ctx).Where("business_id = ?", businessId).Order("name").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]WholesalerLedger, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToLedger(s.currency))
	}
	return out, nil
}
