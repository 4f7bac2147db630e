package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/models/reports"
	"github.com/mmdatafocus/shop_ledger/utils"
)

type fakeReports struct {
	periodQuery reports.PeriodQuery
	txQuery     reports.TransactionQuery
	duesQuery   reports.DuesQuery
	err         error
}

func (f *fakeReports) Location() *time.Location { return time.UTC }

func (f *fakeReports) PeriodReport(ctx context.Context, q reports.PeriodQuery) (*reports.PeriodReport, error) {
	f.periodQuery = q
	if f.err != nil {
		return nil, f.err
	}
	window, err := utils.ResolveTimeWindow(q.Period, q.From, q.To, time.Now(), time.UTC)
	if err != nil {
		return nil, err
	}
	agg := reports.NewAggregator(reports.WithCurrency("MMK"))
	return &reports.PeriodReport{Window: window, Stats: agg.Aggregate(nil, nil), Days: []*reports.DayWiseSummary{}}, nil
}

func (f *fakeReports) AllTimeReport(ctx context.Context) (*reports.AllTimeReport, error) {
	return &reports.AllTimeReport{Stats: reports.MergeAllTime(nil, models.LedgerSnapshots{})}, f.err
}

func (f *fakeReports) Transactions(ctx context.Context, q reports.TransactionQuery) (*reports.TransactionsResult, error) {
	f.txQuery = q
	return &reports.TransactionsResult{Page: reports.Paginate(nil, q.Page, q.PageSize)}, f.err
}

func (f *fakeReports) Dues(ctx context.Context, q reports.DuesQuery) ([]reports.DueEntry, error) {
	f.duesQuery = q
	return []reports.DueEntry{}, f.err
}

func (f *fakeReports) ExportDayWise(ctx context.Context, q reports.PeriodQuery, w io.Writer) error {
	_, err := w.Write([]byte("xlsx"))
	return err
}

func (f *fakeReports) ExportDues(ctx context.Context, q reports.DuesQuery, w io.Writer) error {
	_, err := w.Write([]byte("xlsx"))
	return err
}

func testRouter(fake *fakeReports, upload uploadFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(utils.SetBusinessIdInContext(c.Request.Context(), "biz-1"))
		c.Next()
	})
	h := &reportHandlers{service: func() ledgerReports { return fake }, upload: upload}
	h.register(r.Group("/api/v1"))
	return r
}

func get(r *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestSummaryHandler(t *testing.T) {
	fake := &fakeReports{}
	w := get(testRouter(fake, nil), "/api/v1/reports/summary?period=this_month&includeDeleted=true")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if fake.periodQuery.Period != utils.PeriodThisMonth || fake.periodQuery.IncludeDeleted == nil || !*fake.periodQuery.IncludeDeleted {
		t.Fatalf("unexpected query %+v", fake.periodQuery)
	}
	var body reports.PeriodReport
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Stats == nil || body.Stats.Currency != "MMK" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestHandlers_BadRequests(t *testing.T) {
	r := testRouter(&fakeReports{}, nil)
	for _, url := range []string{
		"/api/v1/reports/summary?period=fortnight",
		"/api/v1/reports/summary?period=custom&from=2025-03-05&to=2025-03-01",
		"/api/v1/reports/summary?period=custom&from=2025-03-05",
		"/api/v1/reports/day-wise?from=05/03/2025",
		"/api/v1/reports/summary?includeDeleted=maybe",
		"/api/v1/transactions?type=refund",
		"/api/v1/transactions?page=two",
		"/api/v1/dues/suppliers",
		"/api/v1/dues/customers?sortBy=age",
		"/api/v1/dues/customers?minDue=5-3",
		"/api/v1/reports/summary?period=today&from=2025-01-01&to=2025-01-31",
	} {
		if w := get(r, url); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", url, w.Code, w.Body.String())
		}
	}
}

func TestHandlers_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{models.ErrBusinessIdRequired, http.StatusUnauthorized},
		{utils.ErrLockNotObtained, http.StatusConflict},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := get(testRouter(&fakeReports{err: tc.err}, nil), "/api/v1/reports/all-time")
		if w.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, w.Code)
		}
	}
}

func TestTransactionsHandler_ParsesFilters(t *testing.T) {
	fake := &fakeReports{}
	w := get(testRouter(fake, nil), "/api/v1/transactions?search=daw&type=sale&method=card&status=partial&page=2&pageSize=5&editedOnly=true")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	q := fake.txQuery
	if q.Filter.Search != "daw" || *q.Filter.Type != models.BillTypeSale || *q.Filter.Method != models.PaymentMethodCard ||
		*q.Filter.Status != models.PaymentStatusPartial || !q.Filter.EditedOnly || q.Page != 2 || q.PageSize != 5 {
		t.Fatalf("unexpected query %+v", q)
	}
}

func TestDuesHandler_ParsesOptions(t *testing.T) {
	fake := &fakeReports{}
	w := get(testRouter(fake, nil), "/api/v1/dues/wholesalers?days=14&sortBy=name&limit=5&overdueOnly=true")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	q := fake.duesQuery
	if q.Kind != models.EntityTypeWholesaler || q.Days == nil || *q.Days != 14 || q.SortBy != reports.SortByName || q.Limit != 5 || !q.OverdueOnly {
		t.Fatalf("unexpected query %+v", q)
	}
}

func TestExportHandler_DownloadAndUpload(t *testing.T) {
	var uploaded string
	upload := func(ctx context.Context, objectName, contentType string, content io.Reader) (string, error) {
		uploaded = objectName
		return "https://storage.googleapis.com/exports/" + objectName, nil
	}
	r := testRouter(&fakeReports{}, upload)

	w := get(r, "/api/v1/reports/day-wise/export?period=today")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != utils.XlsxContentType || w.Body.String() != "xlsx" {
		t.Fatalf("unexpected download %d %q %q", w.Code, w.Header().Get("Content-Type"), w.Body.String())
	}

	w = get(r, "/api/v1/dues/customers/export?upload=true")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if uploaded == "" || body["url"] != "https://storage.googleapis.com/exports/"+uploaded {
		t.Fatalf("unexpected upload result %v (object %q)", body, uploaded)
	}
}

func TestSummaryHandler_BoundsWithoutPeriodAreCustom(t *testing.T) {
	fake := &fakeReports{}
	w := get(testRouter(fake, nil), "/api/v1/reports/summary?from=2025-01-01&to=2025-01-31")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if fake.periodQuery.Period != utils.PeriodCustom {
		t.Fatalf("expected custom period, got %q", fake.periodQuery.Period)
	}
	var body reports.PeriodReport
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Window.Unbounded || body.Window.Start.Format(utils.DateKeyLayout) != "2025-01-01" || body.Window.End.Format(utils.DateKeyLayout) != "2025-01-31" {
		t.Fatalf("expected the January window, got %+v", body.Window)
	}
}

func TestDuesHandler_ParsesMinDue(t *testing.T) {
	fake := &fakeReports{}
	w := get(testRouter(fake, nil), "/api/v1/dues/customers?minDue=50,000")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if fake.duesQuery.MinDue == nil || fake.duesQuery.MinDue.Amount.IntPart() != 50000 {
		t.Fatalf("unexpected minDue %+v", fake.duesQuery.MinDue)
	}
}
