package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/models/reports"
	"github.com/mmdatafocus/shop_ledger/utils"
)

type ledgerReports interface {
	PeriodReport(ctx context.Context, q reports.PeriodQuery) (*reports.PeriodReport, error)
	AllTimeReport(ctx context.Context) (*reports.AllTimeReport, error)
	Transactions(ctx context.Context, q reports.TransactionQuery) (*reports.TransactionsResult, error)
	Dues(ctx context.Context, q reports.DuesQuery) ([]reports.DueEntry, error)
	ExportDayWise(ctx context.Context, q reports.PeriodQuery, w io.Writer) error
	ExportDues(ctx context.Context, q reports.DuesQuery, w io.Writer) error
	Location() *time.Location
}

type uploadFunc func(ctx context.Context, objectName string, contentType string, content io.Reader) (string, error)

var (
	ledgerOnce sync.Once
	ledgerSvc  *reports.LedgerService
)

// defaultLedgerService is built on first use, after the database is connected.
func defaultLedgerService() ledgerReports {
	ledgerOnce.Do(func() {
		store := models.NewStore(config.GetDB(), config.ShopCurrency())
		ledgerSvc = reports.NewLedgerService(store, store, store, reports.DefaultServiceConfig())
	})
	return ledgerSvc
}

type reportHandlers struct {
	service func() ledgerReports
	upload  uploadFunc
}

func newReportHandlers() *reportHandlers {
	return &reportHandlers{service: defaultLedgerService, upload: utils.UploadExportToGCS}
}

func (h *reportHandlers) register(r gin.IRouter) {
	r.GET("/reports/summary", h.summary)
	r.GET("/reports/day-wise", h.dayWise)
	r.GET("/reports/day-wise/export", h.exportDayWise)
	r.GET("/reports/all-time", h.allTime)
	r.GET("/transactions", h.transactions)
	r.GET("/dues/:kind", h.dues)
	r.GET("/dues/:kind/export", h.exportDues)
}

type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

func badRequest(err error) error { return badRequestError{err: err} }

func respondError(c *gin.Context, funcName string, err error) {
	var rangeErr *utils.InvalidRangeError
	var reqErr badRequestError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &reqErr), errors.As(err, &rangeErr),
		errors.Is(err, utils.ErrUnknownPeriod), errors.Is(err, models.ErrInvalidEntityType):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrBusinessIdRequired):
		status = http.StatusUnauthorized
	case errors.Is(err, utils.ErrLockNotObtained):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		config.LogError(config.GetLogger(), "server", funcName, c.Request.URL.String(), nil, err)
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func optionalBool(c *gin.Context, key string) (*bool, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, badRequest(fmt.Errorf("%s: expected true or false", key))
	}
	return &b, nil
}

func optionalInt(c *gin.Context, key string) (*int, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, badRequest(fmt.Errorf("%s: expected an integer", key))
	}
	return &n, nil
}

func (h *reportHandlers) periodQuery(c *gin.Context) (reports.PeriodQuery, error) {
	loc := h.service().Location()
	from, err := utils.ParseDateParam(c.Query("from"), loc)
	if err != nil {
		return reports.PeriodQuery{}, badRequest(err)
	}
	to, err := utils.ParseDateParam(c.Query("to"), loc)
	if err != nil {
		return reports.PeriodQuery{}, badRequest(err)
	}
	period, err := utils.ParsePeriodParams(c.Query("period"), from, to)
	if err != nil {
		return reports.PeriodQuery{}, err
	}
	includeDeleted, err := optionalBool(c, "includeDeleted")
	if err != nil {
		return reports.PeriodQuery{}, err
	}
	return reports.PeriodQuery{Period: period, From: from, To: to, IncludeDeleted: includeDeleted}, nil
}

func (h *reportHandlers) summary(c *gin.Context) {
	q, err := h.periodQuery(c)
	if err != nil {
		respondError(c, "summary", err)
		return
	}
	report, err := h.service().PeriodReport(c.Request.Context(), q)
	if err != nil {
		respondError(c, "summary", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportHandlers) dayWise(c *gin.Context) {
	q, err := h.periodQuery(c)
	if err != nil {
		respondError(c, "dayWise", err)
		return
	}
	report, err := h.service().PeriodReport(c.Request.Context(), q)
	if err != nil {
		respondError(c, "dayWise", err)
		return
	}
	c.JSON(http.StatusOK, report.Days)
}

func (h *reportHandlers) allTime(c *gin.Context) {
	report, err := h.service().AllTimeReport(c.Request.Context())
	if err != nil {
		respondError(c, "allTime", err)
		return
	}
	c.JSON(http.StatusOK, report.Stats)
}

func (h *reportHandlers) transactions(c *gin.Context) {
	pq, err := h.periodQuery(c)
	if err != nil {
		respondError(c, "transactions", err)
		return
	}
	q := reports.TransactionQuery{Period: pq.Period, From: pq.From, To: pq.To}
	q.Filter.Search = c.Query("search")
	if q.Filter.Type, err = reports.ParseBillTypeFilter(c.Query("type")); err != nil {
		respondError(c, "transactions", badRequest(err))
		return
	}
	if q.Filter.Method, err = reports.ParseMethodFilter(c.Query("method")); err != nil {
		respondError(c, "transactions", badRequest(err))
		return
	}
	if q.Filter.Status, err = reports.ParseStatusFilter(c.Query("status")); err != nil {
		respondError(c, "transactions", badRequest(err))
		return
	}
	q.Filter.IncludeDeleted = utils.DereferencePtr(pq.IncludeDeleted, false)
	editedOnly, err := optionalBool(c, "editedOnly")
	if err != nil {
		respondError(c, "transactions", err)
		return
	}
	q.Filter.EditedOnly = utils.DereferencePtr(editedOnly, false)
	page, err := optionalInt(c, "page")
	if err != nil {
		respondError(c, "transactions", err)
		return
	}
	pageSize, err := optionalInt(c, "pageSize")
	if err != nil {
		respondError(c, "transactions", err)
		return
	}
	q.Page = utils.DereferencePtr(page, 1)
	q.PageSize = utils.DereferencePtr(pageSize, reports.DefaultPageSize)

	result, err := h.service().Transactions(c.Request.Context(), q)
	if err != nil {
		respondError(c, "transactions", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func duesQuery(c *gin.Context) (reports.DuesQuery, error) {
	kind, err := models.ParseEntityType(c.Param("kind"))
	if err != nil {
		return reports.DuesQuery{}, err
	}
	sortBy, ok := reports.ParseDueSortKey(c.Query("sortBy"))
	if !ok {
		return reports.DuesQuery{}, badRequest(errors.New("sortBy: expected due, name or last_transaction"))
	}
	days, err := optionalInt(c, "days")
	if err != nil {
		return reports.DuesQuery{}, err
	}
	limit, err := optionalInt(c, "limit")
	if err != nil {
		return reports.DuesQuery{}, err
	}
	overdueOnly, err := optionalBool(c, "overdueOnly")
	if err != nil {
		return reports.DuesQuery{}, err
	}
	q := reports.DuesQuery{
		Kind:        kind,
		SortBy:      sortBy,
		Days:        days,
		Limit:       utils.DereferencePtr(limit, 0),
		OverdueOnly: utils.DereferencePtr(overdueOnly, false),
	}
	if v := strings.TrimSpace(c.Query("minDue")); v != "" {
		minDue, err := models.ParseMoney(v, config.ShopCurrency())
		if err != nil {
			return reports.DuesQuery{}, badRequest(fmt.Errorf("minDue: %w", err))
		}
		q.MinDue = &minDue
	}
	return q, nil
}

func (h *reportHandlers) dues(c *gin.Context) {
	q, err := duesQuery(c)
	if err != nil {
		respondError(c, "dues", err)
		return
	}
	entries, err := h.service().Dues(c.Request.Context(), q)
	if err != nil {
		respondError(c, "dues", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// sendWorkbook streams the file, or with upload=true stores it in the export bucket and returns its URL.
func (h *reportHandlers) sendWorkbook(c *gin.Context, funcName string, filename string, write func(w io.Writer) error) {
	upload, err := optionalBool(c, "upload")
	if err != nil {
		respondError(c, funcName, err)
		return
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		respondError(c, funcName, err)
		return
	}
	if utils.DereferencePtr(upload, false) {
		businessId, _ := utils.GetBusinessIdFromContext(c.Request.Context())
		objectName := fmt.Sprintf("%s/%s", businessId, filename)
		url, err := h.upload(c.Request.Context(), objectName, utils.XlsxContentType, &buf)
		if err != nil {
			respondError(c, funcName, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, utils.XlsxContentType, buf.Bytes())
}

func (h *reportHandlers) exportDayWise(c *gin.Context) {
	q, err := h.periodQuery(c)
	if err != nil {
		respondError(c, "exportDayWise", err)
		return
	}
	filename := fmt.Sprintf("day-wise-%s-%d.xlsx", q.Period, time.Now().Unix())
	h.sendWorkbook(c, "exportDayWise", filename, func(w io.Writer) error {
		return h.service().ExportDayWise(c.Request.Context(), q, w)
	})
}

func (h *reportHandlers) exportDues(c *gin.Context) {
	q, err := duesQuery(c)
	if err != nil {
		respondError(c, "exportDues", err)
		return
	}
	filename := fmt.Sprintf("dues-%s-%d.xlsx", q.Kind, time.Now().Unix())
	h.sendWorkbook(c, "exportDues", filename, func(w io.Writer) error {
		return h.service().ExportDues(c.Request.Context(), q, w)
	})
}
