package reports

import (
	"fmt"
	"io"

	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	dailySheet   = "Daily"
	duesSheet    = "Dues"
)

type ExcelExporter interface {
	GetCellValues(places int32) []interface{}
}

func moneyCell(m models.Money, places int32) float64 {
	return m.Amount.Round(places).InexactFloat64()
}

func (d *DayWiseSummary) GetCellValues(places int32) []interface{} {
	return []interface{}{
		d.Date,
		moneyCell(d.Sales, places),
		moneyCell(d.Purchases, places),
		moneyCell(d.Collected, places),
		moneyCell(d.Paid, places),
		moneyCell(d.Profit, places),
		moneyCell(d.CashFlow, places),
		d.Transactions,
	}
}

func (e DueEntry) GetCellValues(places int32) []interface{} {
	last := ""
	if e.LastTransactionDate != nil {
		last = e.LastTransactionDate.Format("2006-01-02")
	}
	days := ""
	if e.DaysSinceLastTransaction != nil {
		days = fmt.Sprint(*e.DaysSinceLastTransaction)
	}
	return []interface{}{
		e.Name,
		moneyCell(e.OutstandingDue, places),
		last,
		days,
		e.IsOverdue,
		e.IsAdvance,
	}
}

func writeRows(f *excelize.File, sheetName string, headings []string, data []ExcelExporter, places int32) error {
	for i, h := range headings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}
	for r, d := range data {
		for c, value := range d.GetCellValues(places) {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func summaryRows(report *PeriodReport, places int32) [][2]interface{} {
	st := report.Stats
	period := string(report.Window.Option)
	if !report.Window.Unbounded {
		period = fmt.Sprintf("%s (%s to %s)", period, report.Window.Start.Format("2006-01-02"), report.Window.End.Format("2006-01-02"))
	}
	return [][2]interface{}{
		{"Period", period},
		{"Currency", st.Currency},
		{"Total Sales", moneyCell(st.TotalSalesAmount, places)},
		{"Collected", moneyCell(st.TotalSalesCollected, places)},
		{"Sales Due", moneyCell(st.TotalSalesDue, places)},
		{"Total Purchases", moneyCell(st.TotalPurchasesAmount, places)},
		{"Paid", moneyCell(st.TotalPurchasesPaid, places)},
		{"Purchases Due", moneyCell(st.TotalPurchasesDue, places)},
		{"Net Cash Flow", moneyCell(st.NetCashFlow, places)},
		{"Gross Profit", moneyCell(st.GrossProfit, places)},
		{"Sales Count", st.SalesCount},
		{"Purchases Count", st.PurchasesCount},
		{"Collection Rate %", st.CollectionRate.InexactFloat64()},
		{"Payment Rate %", st.PaymentRate.InexactFloat64()},
		{"Profit Margin %", st.ProfitMargin.InexactFloat64()},
		{"Sales Settled From", string(st.SalesSettlementSource)},
		{"Purchases Settled From", string(st.PurchasesSettlementSource)},
	}
}

// WriteDayWiseWorkbook writes a Summary sheet with the period stats and a Daily sheet with one
// row per day, most recent first.
func WriteDayWiseWorkbook(w io.Writer, report *PeriodReport, places int32) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	for i, row := range summaryRows(report, places) {
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+1), row[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), row[1]); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(dailySheet); err != nil {
		return err
	}
	data := make([]ExcelExporter, 0, len(report.Days))
	for _, d := range report.Days {
		data = append(data, d)
	}
	headings := []string{"Date", "Sales", "Purchases", "Collected", "Paid", "Profit", "Cash Flow", "Transactions"}
	if err := writeRows(f, dailySheet, headings, data, places); err != nil {
		return err
	}
	return f.Write(w)
}

func WriteDuesWorkbook(w io.Writer, kind models.EntityType, entries []DueEntry, places int32) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", duesSheet); err != nil {
		return err
	}
	data := make([]ExcelExporter, 0, len(entries))
	for _, e := range entries {
		data = append(data, e)
	}
	name := "Customer"
	if kind == models.EntityTypeWholesaler {
		name = "Wholesaler"
	}
	headings := []string{name, "Outstanding Due", "Last Transaction", "Days Since", "Overdue", "Advance"}
	if err := writeRows(f, duesSheet, headings, data, places); err != nil {
		return err
	}
	return f.Write(w)
}
