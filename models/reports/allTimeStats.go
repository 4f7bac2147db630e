package reports

import (
	"github.com/mmdatafocus/shop_ledger/models"
)

// AllTimeStats merges in-system period figures with externally supplied lifetime snapshots.
type AllTimeStats struct {
	Period *Stats `json:"period"`

	LifetimeSales     models.Money `json:"lifetimeSales"`
	LifetimeCollected models.Money `json:"lifetimeCollected"`
	LifetimePurchases models.Money `json:"lifetimePurchases"`
	LifetimePaid      models.Money `json:"lifetimePaid"`

	OpeningSales     models.Money `json:"openingSales"`
	OpeningCollected models.Money `json:"openingCollected"`
	OpeningPurchases models.Money `json:"openingPurchases"`
	OpeningPaid      models.Money `json:"openingPaid"`

	InSystemSales     models.Money `json:"inSystemSales"`
	InSystemCollected models.Money `json:"inSystemCollected"`
	InSystemPurchases models.Money `json:"inSystemPurchases"`
	InSystemPaid      models.Money `json:"inSystemPaid"`

	AllTimeNetCashFlow models.Money `json:"allTimeNetCashFlow"`
	AllTimeGrossProfit models.Money `json:"allTimeGrossProfit"`

	TotalReceivable      models.Money             `json:"totalReceivable"`
	TotalCustomerAdvance models.Money             `json:"totalCustomerAdvance"`
	NetReceivable        models.ReceivableBalance `json:"netReceivable"`
	CustomersWithDue     int                      `json:"customersWithDue"`

	TotalPayable           models.Money          `json:"totalPayable"`
	TotalWholesalerAdvance models.Money          `json:"totalWholesalerAdvance"`
	NetPayable             models.PayableBalance `json:"netPayable"`
	WholesalersWithDue     int                   `json:"wholesalersWithDue"`
}

// MergeAllTime takes lifetime totals straight from the snapshots instead of re-aggregating,
// since they include opening balances that have no bill or payment records. Outstanding dues
// are used as supplied and keep their own sign convention: receivable for customers,
// payable for wholesalers.
//
// The snapshot can drift from a fresh aggregation of in-system records; no attempt is made
// to reconcile the two.
func MergeAllTime(period *Stats, snapshots models.LedgerSnapshots) *AllTimeStats {
	currency := ""
	if period != nil {
		currency = period.Currency
	}
	zero := models.ZeroMoney(currency)

	out := &AllTimeStats{
		Period:                 period,
		LifetimeSales:          zero,
		LifetimeCollected:      zero,
		LifetimePurchases:      zero,
		LifetimePaid:           zero,
		OpeningSales:           zero,
		OpeningCollected:       zero,
		OpeningPurchases:       zero,
		OpeningPaid:            zero,
		TotalReceivable:        zero,
		TotalCustomerAdvance:   zero,
		NetReceivable:          models.NewReceivableBalance(zero),
		TotalPayable:           zero,
		TotalWholesalerAdvance: zero,
		NetPayable:             models.NewPayableBalance(zero),
	}

	for _, c := range snapshots.Customers {
		out.LifetimeSales = out.LifetimeSales.Add(c.TotalLifetimeAmount)
		out.LifetimeCollected = out.LifetimeCollected.Add(c.TotalLifetimeSettled)
		out.OpeningSales = out.OpeningSales.Add(c.OpeningAmount)
		out.OpeningCollected = out.OpeningCollected.Add(c.OpeningSettled)

		out.NetReceivable = out.NetReceivable.Add(c.OutstandingDue)
		switch {
		case c.OutstandingDue.IsDue():
			out.TotalReceivable = out.TotalReceivable.Add(c.OutstandingDue.Money())
			out.CustomersWithDue++
		case c.OutstandingDue.IsAdvance():
			out.TotalCustomerAdvance = out.TotalCustomerAdvance.Add(c.OutstandingDue.Money().Neg())
		}
	}

	for _, w := range snapshots.Wholesalers {
		out.LifetimePurchases = out.LifetimePurchases.Add(w.TotalLifetimeAmount)
		out.LifetimePaid = out.LifetimePaid.Add(w.TotalLifetimeSettled)
		out.OpeningPurchases = out.OpeningPurchases.Add(w.OpeningAmount)
		out.OpeningPaid = out.OpeningPaid.Add(w.OpeningSettled)

		out.NetPayable = out.NetPayable.Add(w.OutstandingDue)
		switch {
		case w.OutstandingDue.IsDue():
			out.TotalPayable = out.TotalPayable.Add(w.OutstandingDue.Money())
			out.WholesalersWithDue++
		case w.OutstandingDue.IsAdvance():
			out.TotalWholesalerAdvance = out.TotalWholesalerAdvance.Add(w.OutstandingDue.Money().Neg())
		}
	}

	out.InSystemSales = out.LifetimeSales.Sub(out.OpeningSales)
	out.InSystemCollected = out.LifetimeCollected.Sub(out.OpeningCollected)
	out.InSystemPurchases = out.LifetimePurchases.Sub(out.OpeningPurchases)
	out.InSystemPaid = out.LifetimePaid.Sub(out.OpeningPaid)

	out.AllTimeNetCashFlow = out.LifetimeCollected.Sub(out.LifetimePaid)
	out.AllTimeGrossProfit = out.LifetimeSales.Sub(out.LifetimePurchases)
	return out
}
