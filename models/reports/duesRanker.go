package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/utils"
)

type DueSortKey string

const (
	SortByDue             DueSortKey = "due"
	SortByName            DueSortKey = "name"
	SortByLastTransaction DueSortKey = "last_transaction"
)

const DefaultOverdueDays = 7

func ParseDueSortKey(s string) (DueSortKey, bool) {
	switch k := DueSortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortByDue, true
	case SortByDue, SortByName, SortByLastTransaction:
		return k, true
	}
	return SortByDue, false
}

type DuesOptions struct {
	Days        int
	SortBy      DueSortKey
	Limit       int
	OverdueOnly bool
	// MinDue keeps only entries owing at least this much; advances never qualify.
	MinDue   *models.Money
	Now      time.Time
	Location *time.Location
}

func NewDuesOptions() DuesOptions {
	return DuesOptions{
		Days:   DefaultOverdueDays,
		SortBy: SortByDue,
	}
}

type DueEntry struct {
	EntityID                 string            `json:"entityId"`
	Name                     string            `json:"name"`
	Kind                     models.EntityType `json:"kind"`
	OutstandingDue           models.Money      `json:"outstandingDue"`
	LastTransactionDate      *time.Time        `json:"lastTransactionDate,omitempty"`
	DaysSinceLastTransaction *int              `json:"daysSinceLastTransaction,omitempty"`
	IsOverdue                bool              `json:"isOverdue"`
	IsAdvance                bool              `json:"isAdvance"`
}

func RankCustomerDues(customers []models.CustomerLedger, opts DuesOptions) []DueEntry {
	entries := make([]DueEntry, 0, len(customers))
	for _, c := range customers {
		if e, ok := dueEntry(c.CounterpartyLedgerSnapshot, c.OutstandingDue, opts); ok {
			entries = append(entries, e)
		}
	}
	return rankEntries(entries, opts)
}

func RankWholesalerDues(wholesalers []models.WholesalerLedger, opts DuesOptions) []DueEntry {
	entries := make([]DueEntry, 0, len(wholesalers))
	for _, w := range wholesalers {
		if e, ok := dueEntry(w.CounterpartyLedgerSnapshot, w.OutstandingDue, opts); ok {
			entries = append(entries, e)
		}
	}
	return rankEntries(entries, opts)
}

// dueEntry skips settled counterparties. Advances are listed but never overdue.
func dueEntry(snap models.CounterpartyLedgerSnapshot, due models.DueBalance, opts DuesOptions) (DueEntry, bool) {
	if due.IsSettled() {
		return DueEntry{}, false
	}
	e := DueEntry{
		EntityID:            snap.EntityID,
		Name:                snap.Name,
		Kind:                due.Kind(),
		OutstandingDue:      due.Money(),
		LastTransactionDate: snap.LastTransactionDate,
		IsAdvance:           due.IsAdvance(),
	}
	if snap.LastTransactionDate != nil {
		days := utils.DaysBetween(*snap.LastTransactionDate, opts.now(), opts.Location)
		e.DaysSinceLastTransaction = &days
	}
	if due.IsDue() {
		e.IsOverdue = e.DaysSinceLastTransaction == nil || *e.DaysSinceLastTransaction > opts.Days
	}
	return e, true
}

func (o DuesOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

func rankEntries(entries []DueEntry, opts DuesOptions) []DueEntry {
	if opts.OverdueOnly || opts.MinDue != nil {
		kept := entries[:0]
		for _, e := range entries {
			if opts.OverdueOnly && !e.IsOverdue {
				continue
			}
			if opts.MinDue != nil && (e.IsAdvance || e.OutstandingDue.Cmp(*opts.MinDue) < 0) {
				continue
			}
			kept = append(kept, e)
		}
		entries = kept
	}

	var less func(a, b DueEntry) bool
	switch opts.SortBy {
	case SortByName:
		less = func(a, b DueEntry) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortByLastTransaction:
		// most recent first, never-transacted last
		less = func(a, b DueEntry) bool {
			if a.LastTransactionDate == nil || b.LastTransactionDate == nil {
				return a.LastTransactionDate != nil && b.LastTransactionDate == nil
			}
			return a.LastTransactionDate.After(*b.LastTransactionDate)
		}
	default:
		less = func(a, b DueEntry) bool {
			return a.OutstandingDue.Cmp(b.OutstandingDue) > 0
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return less(entries[i], entries[j]) })

	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}
	return entries
}
