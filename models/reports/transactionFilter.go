package reports

import (
	"errors"
	"sort"
	"strings"

	"github.com/mmdatafocus/shop_ledger/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// TransactionFilter: nil pointers match everything.
type TransactionFilter struct {
	Search         string                `json:"search,omitempty"`
	Type           *models.BillType      `json:"type,omitempty"`
	Method         *models.PaymentMethod `json:"method,omitempty"`
	Status         *models.PaymentStatus `json:"status,omitempty"`
	IncludeDeleted bool                  `json:"includeDeleted,omitempty"`
	EditedOnly     bool                  `json:"editedOnly,omitempty"`
}

func (f TransactionFilter) match(b models.Bill) bool {
	if b.IsDeleted && !f.IncludeDeleted {
		return false
	}
	if f.EditedOnly && !b.IsEdited {
		return false
	}
	if f.Type != nil && b.BillType != *f.Type {
		return false
	}
	if f.Method != nil && b.PaymentMethod != *f.Method {
		return false
	}
	if f.Status != nil && b.Status() != *f.Status {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(b.BillNumber), q) && !strings.Contains(strings.ToLower(b.EntityName), q) {
			return false
		}
	}
	return true
}

// FilterTransactions returns matching bills newest first. The sort is stable so equal
// timestamps keep input order and repeated calls paginate identically.
func FilterTransactions(bills []models.Bill, f TransactionFilter) []models.Bill {
	out := make([]models.Bill, 0, len(bills))
	for _, b := range bills {
		if f.match(b) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// CountByStatus counts bills per payment status. Every bill lands in exactly one bucket.
func CountByStatus(bills []models.Bill) map[models.PaymentStatus]int {
	counts := map[models.PaymentStatus]int{
		models.PaymentStatusPaid:    0,
		models.PaymentStatusPartial: 0,
		models.PaymentStatusPending: 0,
	}
	for _, b := range bills {
		counts[b.Status()]++
	}
	return counts
}

type TransactionPage struct {
	Items      []models.Bill `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	Total      int           `json:"total"`
	TotalPages int           `json:"totalPages"`
}

// Paginate slices an already sorted list. Pages are 1-based; out-of-range pages are empty.
func Paginate(bills []models.Bill, page, pageSize int) TransactionPage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}
	total := len(bills)
	p := TransactionPage{
		Items:      []models.Bill{},
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
	start := (page - 1) * pageSize
	if start >= total {
		return p
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	p.Items = bills[start:end]
	return p
}

// ParseBillTypeFilter maps "" and "all" to no filter.
func ParseBillTypeFilter(s string) (*models.BillType, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "all":
		return nil, nil
	case string(models.BillTypeSale), string(models.BillTypePurchase):
		t := models.BillType(v)
		return &t, nil
	}
	return nil, errors.New("invalid bill type")
}

func ParseMethodFilter(s string) (*models.PaymentMethod, error) {
	if v := strings.ToLower(strings.TrimSpace(s)); v == "" || v == "all" {
		return nil, nil
	}
	m, ok := models.ParsePaymentMethod(s)
	if !ok {
		return nil, errors.New("invalid payment method")
	}
	return &m, nil
}

func ParseStatusFilter(s string) (*models.PaymentStatus, error) {
	if v := strings.ToLower(strings.TrimSpace(s)); v == "" || v == "all" {
		return nil, nil
	}
	st, err := models.ParsePaymentStatus(s)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
