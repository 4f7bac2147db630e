package reports

import (
	"time"

	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/shopspring/decimal"
)

type PaymentBreakdownEntry struct {
	Sales     models.Money `json:"sales"`
	Purchases models.Money `json:"purchases"`
}

type PaymentBreakdown struct {
	Cash    PaymentBreakdownEntry `json:"cash"`
	Card    PaymentBreakdownEntry `json:"card"`
	Online  PaymentBreakdownEntry `json:"online"`
	Unknown PaymentBreakdownEntry `json:"unknown"`
}

// Stats is the summary of one record set. Due figures are not clamped: a negative due
// means more was collected than billed and points at an upstream data problem.
type Stats struct {
	Currency string `json:"currency"`

	TotalSalesAmount    models.Money `json:"totalSalesAmount"`
	TotalSalesCollected models.Money `json:"totalSalesCollected"`
	TotalSalesDue       models.Money `json:"totalSalesDue"`

	TotalPurchasesAmount models.Money `json:"totalPurchasesAmount"`
	TotalPurchasesPaid   models.Money `json:"totalPurchasesPaid"`
	TotalPurchasesDue    models.Money `json:"totalPurchasesDue"`

	NetCashFlow models.Money `json:"netCashFlow"`
	GrossProfit models.Money `json:"grossProfit"`

	SalesCount     int `json:"salesCount"`
	PurchasesCount int `json:"purchasesCount"`
	DeletedCount   int `json:"deletedCount"`

	CollectionRate decimal.Decimal `json:"collectionRate"`
	PaymentRate    decimal.Decimal `json:"paymentRate"`
	ProfitMargin   decimal.Decimal `json:"profitMargin"`

	SalesStatus     models.PaymentStatus `json:"salesStatus"`
	PurchasesStatus models.PaymentStatus `json:"purchasesStatus"`

	SalesSettlementSource     SettlementSource `json:"salesSettlementSource"`
	PurchasesSettlementSource SettlementSource `json:"purchasesSettlementSource"`

	PaymentBreakdown PaymentBreakdown `json:"paymentBreakdown"`
}

// Aggregator computes Stats and day-wise summaries. It holds configuration only and is
// safe to share between goroutines.
type Aggregator struct {
	strategy       SettlementReconciliationStrategy
	includeDeleted bool
	location       *time.Location
	currency       string
}

type Option func(*Aggregator)

func WithStrategy(s SettlementReconciliationStrategy) Option {
	return func(a *Aggregator) {
		if s != nil {
			a.strategy = s
		}
	}
}

// WithIncludeDeleted makes soft-deleted bills count. Off by default.
func WithIncludeDeleted(include bool) Option {
	return func(a *Aggregator) { a.includeDeleted = include }
}

// WithLocation sets the zone calendar days are bucketed in.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) {
		if loc != nil {
			a.location = loc
		}
	}
}

func WithCurrency(currency string) Option {
	return func(a *Aggregator) { a.currency = currency }
}

func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		strategy: MaxOfSourcesStrategy{},
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) zero() models.Money {
	return models.ZeroMoney(a.currency)
}

// activeBills drops soft-deleted bills unless the aggregator includes them.
func (a *Aggregator) activeBills(bills []models.Bill) ([]models.Bill, int) {
	if a.includeDeleted {
		deleted := 0
		for _, b := range bills {
			if b.IsDeleted {
				deleted++
			}
		}
		return bills, deleted
	}
	active := make([]models.Bill, 0, len(bills))
	deleted := 0
	for _, b := range bills {
		if b.IsDeleted {
			deleted++
			continue
		}
		active = append(active, b)
	}
	return active, deleted
}

func partitionBills(bills []models.Bill) (sales, purchases []models.Bill) {
	for _, b := range bills {
		switch b.BillType {
		case models.BillTypeSale:
			sales = append(sales, b)
		case models.BillTypePurchase:
			purchases = append(purchases, b)
		}
	}
	return sales, purchases
}

func partitionPayments(payments []models.Payment) (customer, wholesaler []models.Payment) {
	for _, p := range payments {
		switch p.EntityType {
		case models.EntityTypeCustomer:
			customer = append(customer, p)
		case models.EntityTypeWholesaler:
			wholesaler = append(wholesaler, p)
		}
	}
	return customer, wholesaler
}

// Aggregate is a pure function of its inputs. Sales and purchases are partitioned before
// either side is reconciled, so their cash figures never mix.
func (a *Aggregator) Aggregate(bills []models.Bill, payments []models.Payment) *Stats {
	active, deleted := a.activeBills(bills)
	sales, purchases := partitionBills(active)
	customerPayments, wholesalerPayments := partitionPayments(payments)

	stats := &Stats{
		Currency:       a.currency,
		SalesCount:     len(sales),
		PurchasesCount: len(purchases),
		DeletedCount:   deleted,
	}

	stats.TotalSalesAmount = a.zero()
	for _, b := range sales {
		stats.TotalSalesAmount = stats.TotalSalesAmount.Add(b.TotalAmount)
	}
	stats.TotalPurchasesAmount = a.zero()
	for _, b := range purchases {
		stats.TotalPurchasesAmount = stats.TotalPurchasesAmount.Add(b.TotalAmount)
	}

	salesSettlement := a.strategy.Reconcile(models.BillTypeSale, sales, customerPayments)
	purchaseSettlement := a.strategy.Reconcile(models.BillTypePurchase, purchases, wholesalerPayments)

	stats.TotalSalesCollected = a.zero().Add(salesSettlement.Total)
	stats.TotalPurchasesPaid = a.zero().Add(purchaseSettlement.Total)
	stats.SalesSettlementSource = salesSettlement.Source
	stats.PurchasesSettlementSource = purchaseSettlement.Source

	stats.TotalSalesDue = stats.TotalSalesAmount.Sub(stats.TotalSalesCollected)
	stats.TotalPurchasesDue = stats.TotalPurchasesAmount.Sub(stats.TotalPurchasesPaid)
	stats.NetCashFlow = stats.TotalSalesCollected.Sub(stats.TotalPurchasesPaid)
	stats.GrossProfit = stats.TotalSalesAmount.Sub(stats.TotalPurchasesAmount)

	stats.CollectionRate = models.Percent(stats.TotalSalesCollected, stats.TotalSalesAmount)
	stats.PaymentRate = models.Percent(stats.TotalPurchasesPaid, stats.TotalPurchasesAmount)
	stats.ProfitMargin = models.Percent(stats.GrossProfit, stats.TotalSalesAmount)

	stats.SalesStatus = models.ClassifyPaymentStatus(stats.TotalSalesDue, stats.TotalSalesCollected)
	stats.PurchasesStatus = models.ClassifyPaymentStatus(stats.TotalPurchasesDue, stats.TotalPurchasesPaid)

	stats.PaymentBreakdown = a.breakdown(salesSettlement.ByMethod, purchaseSettlement.ByMethod)
	return stats
}

func (a *Aggregator) breakdown(sales, purchases MethodBreakdown) PaymentBreakdown {
	entry := func(s, p models.Money) PaymentBreakdownEntry {
		return PaymentBreakdownEntry{Sales: a.zero().Add(s), Purchases: a.zero().Add(p)}
	}
	return PaymentBreakdown{
		Cash:    entry(sales.Cash, purchases.Cash),
		Card:    entry(sales.Card, purchases.Card),
		Online:  entry(sales.Online, purchases.Online),
		Unknown: entry(sales.Unknown, purchases.Unknown),
	}
}
