package reports

import (
	"context"
	"io"
	"time"

	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const moduleName = "reports"

type BillSource interface {
	ListBills(ctx context.Context, q models.BillQuery) ([]models.RawBill, error)
}

type PaymentSource interface {
	ListPayments(ctx context.Context, q models.PaymentQuery) ([]models.RawPayment, error)
}

type LedgerSource interface {
	ListCustomerLedgers(ctx context.Context, businessId string) ([]models.CustomerLedger, error)
	ListWholesalerLedgers(ctx context.Context, businessId string) ([]models.WholesalerLedger, error)
}

type ServiceConfig struct {
	Location *time.Location
	Currency string
	// OverdueDays nil means DefaultOverdueDays; 0 flags any positive due older than today.
	OverdueDays           *int
	IncludeDeletedDefault bool
	// DisplayPlaces is the rounding used by spreadsheet exports.
	DisplayPlaces int32
	Now           func() time.Time
	Strategy      SettlementReconciliationStrategy
	Tracer        trace.Tracer
}

func DefaultServiceConfig() ServiceConfig {
	overdueDays := config.DueOverdueDays()
	return ServiceConfig{
		Location:              config.ShopLocation(),
		Currency:              config.ShopCurrency(),
		OverdueDays:           &overdueDays,
		IncludeDeletedDefault: config.IncludeDeletedDefault(),
		DisplayPlaces:         2,
		Now:                   time.Now,
		Strategy:              MaxOfSourcesStrategy{},
	}
}

// LedgerService runs the reporting engine over records fetched for the business in ctx.
type LedgerService struct {
	bills      BillSource
	payments   PaymentSource
	ledgers    LedgerSource
	normalizer *models.Normalizer
	cfg        ServiceConfig
	tracer     trace.Tracer
}

func NewLedgerService(bills BillSource, payments PaymentSource, ledgers LedgerSource, cfg ServiceConfig) *LedgerService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Strategy == nil {
		cfg.Strategy = MaxOfSourcesStrategy{}
	}
	if cfg.OverdueDays == nil || *cfg.OverdueDays < 0 {
		days := DefaultOverdueDays
		cfg.OverdueDays = &days
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer("shop-ledger/reports")
	}
	return &LedgerService{
		bills:      bills,
		payments:   payments,
		ledgers:    ledgers,
		normalizer: models.NewNormalizer(cfg.Currency),
		cfg:        cfg,
		tracer:     tracer,
	}
}

func (s *LedgerService) Location() *time.Location {
	return s.cfg.Location
}

func (s *LedgerService) aggregator(includeDeleted bool) *Aggregator {
	return NewAggregator(
		WithStrategy(s.cfg.Strategy),
		WithIncludeDeleted(includeDeleted),
		WithLocation(s.cfg.Location),
		WithCurrency(s.cfg.Currency),
	)
}

func (s *LedgerService) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, string, error) {
	ctx, span := s.tracer.Start(ctx, "reports."+name, trace.WithAttributes(attrs...))
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		span.SetStatus(codes.Error, models.ErrBusinessIdRequired.Error())
		return ctx, span, "", models.ErrBusinessIdRequired
	}
	span.SetAttributes(attribute.String("business_id", businessId))
	return ctx, span, businessId, nil
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *LedgerService) logWarnings(funcName string, warnings []models.DataIntegrityWarning) {
	if len(warnings) == 0 {
		return
	}
	logger := config.GetLogger()
	for _, w := range warnings {
		config.LogWarning(logger, moduleName, funcName, string(w.Code), w)
	}
}

// fetch loads and normalizes every bill (deleted included) and payment in window.
func (s *LedgerService) fetch(ctx context.Context, businessId string, window utils.TimeWindow) ([]models.Bill, []models.Payment, []models.DataIntegrityWarning, error) {
	bq := models.BillQuery{BusinessId: businessId, IncludeDeleted: true}
	pq := models.PaymentQuery{BusinessId: businessId}
	if !window.Unbounded {
		bq.From, bq.To = &window.Start, &window.End
		pq.From, pq.To = &window.Start, &window.End
	}
	rawBills, err := s.bills.ListBills(ctx, bq)
	if err != nil {
		return nil, nil, nil, err
	}
	rawPayments, err := s.payments.ListPayments(ctx, pq)
	if err != nil {
		return nil, nil, nil, err
	}
	bills, warnings := s.normalizer.NormalizeBills(rawBills)
	payments, paymentWarnings := s.normalizer.NormalizePayments(rawPayments)
	warnings = append(warnings, paymentWarnings...)

	// sources are not trusted to honour the range
	bills = scopeBills(bills, window)
	payments = scopePayments(payments, window)
	return bills, payments, warnings, nil
}

func scopeBills(bills []models.Bill, window utils.TimeWindow) []models.Bill {
	if window.Unbounded {
		return bills
	}
	out := bills[:0]
	for _, b := range bills {
		if window.Contains(b.CreatedAt) {
			out = append(out, b)
		}
	}
	return out
}

func scopePayments(payments []models.Payment, window utils.TimeWindow) []models.Payment {
	if window.Unbounded {
		return payments
	}
	out := payments[:0]
	for _, p := range payments {
		if window.Contains(p.CreatedAt) {
			out = append(out, p)
		}
	}
	return out
}

func (s *LedgerService) includeDeleted(v *bool) bool {
	if v != nil {
		return *v
	}
	return s.cfg.IncludeDeletedDefault
}

type PeriodQuery struct {
	Period         utils.PeriodOption `json:"period"`
	From           *time.Time         `json:"from,omitempty"`
	To             *time.Time         `json:"to,omitempty"`
	IncludeDeleted *bool              `json:"includeDeleted,omitempty"`
}

type PeriodReport struct {
	Window   utils.TimeWindow              `json:"window"`
	Stats    *Stats                        `json:"stats"`
	Days     []*DayWiseSummary             `json:"days"`
	Warnings []models.DataIntegrityWarning `json:"warnings"`
}

func (s *LedgerService) PeriodReport(ctx context.Context, q PeriodQuery) (*PeriodReport, error) {
	started := time.Now()
	ctx, span, businessId, err := s.startSpan(ctx, "PeriodReport", attribute.String("period", string(q.Period)))
	defer span.End()
	if err != nil {
		return nil, err
	}
	if q.Period == "" {
		q.Period = utils.PeriodAll
	}
	window, err := utils.ResolveTimeWindow(q.Period, q.From, q.To, s.cfg.Now(), s.cfg.Location)
	if err != nil {
		return nil, failSpan(span, err)
	}
	includeDeleted := s.includeDeleted(q.IncludeDeleted)

	key := struct {
		Window         utils.TimeWindow
		IncludeDeleted bool
	}{window, includeDeleted}
	report, err := cached(ctx, "period", businessId, key, func() (*PeriodReport, error) {
		bills, payments, warnings, err := s.fetch(ctx, businessId, window)
		if err != nil {
			config.LogError(config.GetLogger(), moduleName, "PeriodReport", "fetch records", key, err)
			return nil, err
		}
		s.logWarnings("PeriodReport", warnings)
		agg := s.aggregator(includeDeleted)
		return &PeriodReport{
			Window:   window,
			Stats:    agg.Aggregate(bills, payments),
			Days:     agg.ByDay(bills, payments),
			Warnings: warnings,
		}, nil
	})
	if err != nil {
		return nil, failSpan(span, err)
	}
	logSlowReport(ctx, "period", started, map[string]any{"period": q.Period})
	return report, nil
}

type AllTimeReport struct {
	Stats    *AllTimeStats                 `json:"stats"`
	Warnings []models.DataIntegrityWarning `json:"warnings"`
}

// AllTimeReport aggregates every in-system record and merges the result with the
// counterparty lifetime snapshots.
func (s *LedgerService) AllTimeReport(ctx context.Context) (*AllTimeReport, error) {
	started := time.Now()
	ctx, span, businessId, err := s.startSpan(ctx, "AllTimeReport")
	defer span.End()
	if err != nil {
		return nil, err
	}
	includeDeleted := s.cfg.IncludeDeletedDefault
	report, err := cached(ctx, "all_time", businessId, includeDeleted, func() (*AllTimeReport, error) {
		window, _ := utils.ResolveTimeWindow(utils.PeriodAll, nil, nil, s.cfg.Now(), s.cfg.Location)
		bills, payments, warnings, err := s.fetch(ctx, businessId, window)
		if err != nil {
			config.LogError(config.GetLogger(), moduleName, "AllTimeReport", "fetch records", businessId, err)
			return nil, err
		}
		snapshots, err := s.snapshots(ctx, businessId)
		if err != nil {
			config.LogError(config.GetLogger(), moduleName, "AllTimeReport", "fetch ledgers", businessId, err)
			return nil, err
		}
		s.logWarnings("AllTimeReport", warnings)
		period := s.aggregator(includeDeleted).Aggregate(bills, payments)
		return &AllTimeReport{
			Stats:    MergeAllTime(period, snapshots),
			Warnings: warnings,
		}, nil
	})
	if err != nil {
		return nil, failSpan(span, err)
	}
	logSlowReport(ctx, "all_time", started, nil)
	return report, nil
}

func (s *LedgerService) snapshots(ctx context.Context, businessId string) (models.LedgerSnapshots, error) {
	customers, err := s.ledgers.ListCustomerLedgers(ctx, businessId)
	if err != nil {
		return models.LedgerSnapshots{}, err
	}
	wholesalers, err := s.ledgers.ListWholesalerLedgers(ctx, businessId)
	if err != nil {
		return models.LedgerSnapshots{}, err
	}
	return models.LedgerSnapshots{Customers: customers, Wholesalers: wholesalers}, nil
}

type TransactionQuery struct {
	Filter   TransactionFilter
	Period   utils.PeriodOption
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

type TransactionsResult struct {
	Window       utils.TimeWindow              `json:"window"`
	Page         TransactionPage               `json:"page"`
	StatusCounts map[models.PaymentStatus]int  `json:"statusCounts"`
	Warnings     []models.DataIntegrityWarning `json:"warnings"`
}

// Transactions lists bills only. Standalone payments are not transactions.
func (s *LedgerService) Transactions(ctx context.Context, q TransactionQuery) (*TransactionsResult, error) {
	ctx, span, businessId, err := s.startSpan(ctx, "Transactions", attribute.String("period", string(q.Period)))
	defer span.End()
	if err != nil {
		return nil, err
	}
	if q.Period == "" {
		q.Period = utils.PeriodAll
	}
	window, err := utils.ResolveTimeWindow(q.Period, q.From, q.To, s.cfg.Now(), s.cfg.Location)
	if err != nil {
		return nil, failSpan(span, err)
	}

	bq := models.BillQuery{
		BusinessId:     businessId,
		BillType:       q.Filter.Type,
		IncludeDeleted: q.Filter.IncludeDeleted,
		EditedOnly:     q.Filter.EditedOnly,
		Search:         q.Filter.Search,
	}
	// unrecognised stored methods normalize to pending, so that filter runs in-engine only
	if q.Filter.Method != nil && *q.Filter.Method != models.PaymentMethodUnknown {
		bq.PaymentMethod = q.Filter.Method
	}
	if !window.Unbounded {
		bq.From, bq.To = &window.Start, &window.End
	}
	raws, err := s.bills.ListBills(ctx, bq)
	if err != nil {
		config.LogError(config.GetLogger(), moduleName, "Transactions", "fetch bills", bq, err)
		return nil, failSpan(span, err)
	}
	bills, warnings := s.normalizer.NormalizeBills(raws)
	s.logWarnings("Transactions", warnings)
	bills = scopeBills(bills, window)

	statusFilter := q.Filter
	statusFilter.Status = nil
	visible := FilterTransactions(bills, statusFilter)
	filtered := FilterTransactions(visible, q.Filter)

	return &TransactionsResult{
		Window:       window,
		Page:         Paginate(filtered, q.Page, q.PageSize),
		StatusCounts: CountByStatus(visible),
		Warnings:     warnings,
	}, nil
}

type DuesQuery struct {
	Kind        models.EntityType
	SortBy      DueSortKey
	Days        *int
	Limit       int
	OverdueOnly bool
	MinDue      *models.Money
}

func (s *LedgerService) Dues(ctx context.Context, q DuesQuery) ([]DueEntry, error) {
	ctx, span, businessId, err := s.startSpan(ctx, "Dues", attribute.String("kind", string(q.Kind)))
	defer span.End()
	if err != nil {
		return nil, err
	}
	opts := NewDuesOptions()
	opts.Days = *s.cfg.OverdueDays
	if q.Days != nil && *q.Days >= 0 {
		opts.Days = *q.Days
	}
	if q.SortBy != "" {
		opts.SortBy = q.SortBy
	}
	opts.Limit = q.Limit
	opts.OverdueOnly = q.OverdueOnly
	opts.MinDue = q.MinDue
	opts.Now = s.cfg.Now()
	opts.Location = s.cfg.Location

	switch q.Kind {
	case models.EntityTypeCustomer:
		customers, err := s.ledgers.ListCustomerLedgers(ctx, businessId)
		if err != nil {
			config.LogError(config.GetLogger(), moduleName, "Dues", "fetch customers", businessId, err)
			return nil, failSpan(span, err)
		}
		return RankCustomerDues(customers, opts), nil
	case models.EntityTypeWholesaler:
		wholesalers, err := s.ledgers.ListWholesalerLedgers(ctx, businessId)
		if err != nil {
			config.LogError(config.GetLogger(), moduleName, "Dues", "fetch wholesalers", businessId, err)
			return nil, failSpan(span, err)
		}
		return RankWholesalerDues(wholesalers, opts), nil
	}
	return nil, failSpan(span, models.ErrInvalidEntityType)
}

// ExportDayWise writes the period's day-wise workbook to w. One export per business runs at a time.
func (s *LedgerService) ExportDayWise(ctx context.Context, q PeriodQuery, w io.Writer) error {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return models.ErrBusinessIdRequired
	}
	return utils.WithBusinessLock(ctx, businessId, "export_day_wise", moduleName, "ExportDayWise", func() error {
		report, err := s.PeriodReport(ctx, q)
		if err != nil {
			return err
		}
		return WriteDayWiseWorkbook(w, report, s.cfg.DisplayPlaces)
	})
}

// ExportDues writes the ranked dues of q.Kind as a workbook.
func (s *LedgerService) ExportDues(ctx context.Context, q DuesQuery, w io.Writer) error {
	entries, err := s.Dues(ctx, q)
	if err != nil {
		return err
	}
	return WriteDuesWorkbook(w, q.Kind, entries, s.cfg.DisplayPlaces)
}
