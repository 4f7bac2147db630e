package reports

import (
	"sort"

	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/utils"
)

// DayWiseSummary is one calendar day of activity. Transactions counts bills only;
// payments never count as transactions.
type DayWiseSummary struct {
	Date         string       `json:"date"`
	Sales        models.Money `json:"sales"`
	Purchases    models.Money `json:"purchases"`
	Collected    models.Money `json:"collected"`
	Paid         models.Money `json:"paid"`
	Profit       models.Money `json:"profit"`
	CashFlow     models.Money `json:"cashFlow"`
	Transactions int          `json:"transactions"`
	Stats        *Stats       `json:"stats"`
}

type dayBucket struct {
	bills    []models.Bill
	payments []models.Payment
}

// ByDay returns one entry per calendar date (in the aggregator's zone) that has at least one
// in-scope bill or payment, most recent date first.
func (a *Aggregator) ByDay(bills []models.Bill, payments []models.Payment) []*DayWiseSummary {
	active, _ := a.activeBills(bills)

	buckets := map[string]*dayBucket{}
	bucket := func(key string) *dayBucket {
		b, ok := buckets[key]
		if !ok {
			b = &dayBucket{}
			buckets[key] = b
		}
		return b
	}
	for _, b := range active {
		key := utils.DateKey(b.CreatedAt, a.location)
		bucket(key).bills = append(bucket(key).bills, b)
	}
	for _, p := range payments {
		key := utils.DateKey(p.CreatedAt, a.location)
		bucket(key).payments = append(bucket(key).payments, p)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	// YYYY-MM-DD keys sort chronologically as strings.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	out := make([]*DayWiseSummary, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		stats := a.Aggregate(b.bills, b.payments)
		out = append(out, &DayWiseSummary{
			Date:         k,
			Sales:        stats.TotalSalesAmount,
			Purchases:    stats.TotalPurchasesAmount,
			Collected:    stats.TotalSalesCollected,
			Paid:         stats.TotalPurchasesPaid,
			Profit:       stats.GrossProfit,
			CashFlow:     stats.NetCashFlow,
			Transactions: stats.SalesCount + stats.PurchasesCount,
			Stats:        stats,
		})
	}
	return out
}
