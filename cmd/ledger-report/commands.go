package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/models/reports"
	"github.com/mmdatafocus/shop_ledger/utils"
	"github.com/spf13/cobra"
)

func addPeriodFlags(cmd *cobra.Command) {
	cmd.Flags().String("period", "", "all, today, yesterday, this_week, this_month, last_month, this_year or custom (default all, or custom with --from/--to)")
	cmd.Flags().String("from", "", "Custom range start (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Custom range end (YYYY-MM-DD)")
	cmd.Flags().Bool("include-deleted", false, "Count soft-deleted bills")
}

func periodQueryFromFlags(cmd *cobra.Command, svc *reports.LedgerService) (reports.PeriodQuery, error) {
	periodStr, _ := cmd.Flags().GetString("period")
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	from, err := utils.ParseDateParam(fromStr, svc.Location())
	if err != nil {
		return reports.PeriodQuery{}, err
	}
	to, err := utils.ParseDateParam(toStr, svc.Location())
	if err != nil {
		return reports.PeriodQuery{}, err
	}
	period, err := utils.ParsePeriodParams(periodStr, from, to)
	if err != nil {
		return reports.PeriodQuery{}, err
	}
	q := reports.PeriodQuery{Period: period, From: from, To: to}
	if cmd.Flags().Changed("include-deleted") {
		v, _ := cmd.Flags().GetBool("include-deleted")
		q.IncludeDeleted = &v
	}
	return q, nil
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Period totals: sales, purchases, settled cash, dues, profit",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := newService()
		if err != nil {
			return err
		}
		q, err := periodQueryFromFlags(cmd, svc)
		if err != nil {
			return err
		}
		report, err := svc.PeriodReport(ctx, q)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(report)
		}
		st := report.Stats
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		rows := [][2]string{
			{"Sales", st.TotalSalesAmount.Format(places)},
			{"Collected", st.TotalSalesCollected.Format(places) + " (" + string(st.SalesSettlementSource) + ")"},
			{"Sales due", st.TotalSalesDue.Format(places)},
			{"Purchases", st.TotalPurchasesAmount.Format(places)},
			{"Paid", st.TotalPurchasesPaid.Format(places) + " (" + string(st.PurchasesSettlementSource) + ")"},
			{"Purchases due", st.TotalPurchasesDue.Format(places)},
			{"Net cash flow", st.NetCashFlow.Format(places)},
			{"Gross profit", st.GrossProfit.Format(places)},
			{"Bills", fmt.Sprintf("%d sales, %d purchases", st.SalesCount, st.PurchasesCount)},
		}
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\n", r[0], r[1])
		}
		for _, warning := range report.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", warning.String())
		}
		return w.Flush()
	},
}

var dayWiseCmd = &cobra.Command{
	Use:   "day-wise",
	Short: "One row per day with activity, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := newService()
		if err != nil {
			return err
		}
		q, err := periodQueryFromFlags(cmd, svc)
		if err != nil {
			return err
		}
		report, err := svc.PeriodReport(ctx, q)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(report.Days)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "Date\tSales\tPurchases\tCollected\tPaid\tProfit\tCash flow\tBills\t")
		for _, d := range report.Days {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t\n", d.Date,
				d.Sales.Format(places), d.Purchases.Format(places),
				d.Collected.Format(places), d.Paid.Format(places),
				d.Profit.Format(places), d.CashFlow.Format(places), d.Transactions)
		}
		return w.Flush()
	},
}

var allTimeCmd = &cobra.Command{
	Use:   "all-time",
	Short: "Lifetime totals including opening balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := newService()
		if err != nil {
			return err
		}
		report, err := svc.AllTimeReport(ctx)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(report.Stats)
		}
		st := report.Stats
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Lifetime sales\t%s\n", st.LifetimeSales.Format(places))
		fmt.Fprintf(w, "Lifetime collected\t%s\n", st.LifetimeCollected.Format(places))
		fmt.Fprintf(w, "Lifetime purchases\t%s\n", st.LifetimePurchases.Format(places))
		fmt.Fprintf(w, "Lifetime paid\t%s\n", st.LifetimePaid.Format(places))
		fmt.Fprintf(w, "Net cash flow\t%s\n", st.AllTimeNetCashFlow.Format(places))
		fmt.Fprintf(w, "Receivable\t%s (%d customers)\n", st.TotalReceivable.Format(places), st.CustomersWithDue)
		fmt.Fprintf(w, "Payable\t%s (%d wholesalers)\n", st.TotalPayable.Format(places), st.WholesalersWithDue)
		return w.Flush()
	},
}

func duesQueryFromFlags(cmd *cobra.Command, args []string) (reports.DuesQuery, error) {
	kind, err := models.ParseEntityType(args[0])
	if err != nil {
		return reports.DuesQuery{}, err
	}
	sortStr, _ := cmd.Flags().GetString("sort-by")
	sortBy, ok := reports.ParseDueSortKey(sortStr)
	if !ok {
		return reports.DuesQuery{}, fmt.Errorf("invalid --sort-by %q", sortStr)
	}
	limit, _ := cmd.Flags().GetInt("limit")
	overdueOnly, _ := cmd.Flags().GetBool("overdue-only")
	q := reports.DuesQuery{Kind: kind, SortBy: sortBy, Limit: limit, OverdueOnly: overdueOnly}
	if cmd.Flags().Changed("days") {
		days, _ := cmd.Flags().GetInt("days")
		q.Days = &days
	}
	if v, _ := cmd.Flags().GetString("min-due"); strings.TrimSpace(v) != "" {
		minDue, err := models.ParseMoney(v, config.ShopCurrency())
		if err != nil {
			return reports.DuesQuery{}, fmt.Errorf("invalid --min-due %q: %w", v, err)
		}
		q.MinDue = &minDue
	}
	return q, nil
}

var duesCmd = &cobra.Command{
	Use:       "dues customers|wholesalers",
	Short:     "Counterparties with a non-zero balance, ranked",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"customers", "wholesalers"},
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := duesQueryFromFlags(cmd, args)
		if err != nil {
			return err
		}
		svc, ctx, err := newService()
		if err != nil {
			return err
		}
		entries, err := svc.Dues(ctx, q)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(entries)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Name\tDue\tLast\tFlag")
		for _, e := range entries {
			last := "-"
			if e.LastTransactionDate != nil {
				last = utils.DateKey(*e.LastTransactionDate, svc.Location())
			}
			flag := ""
			switch {
			case e.IsOverdue:
				flag = "overdue"
			case e.IsAdvance:
				flag = "advance"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.OutstandingDue.Format(places), last, flag)
		}
		return w.Flush()
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Write the day-wise workbook for a period",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, ctx, err := newService()
		if err != nil {
			return err
		}
		q, err := periodQueryFromFlags(cmd, svc)
		if err != nil {
			return err
		}
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		if err := svc.ExportDayWise(ctx, q, f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", args[0])
		return nil
	},
}

func init() {
	addPeriodFlags(summaryCmd)
	addPeriodFlags(dayWiseCmd)
	addPeriodFlags(exportCmd)

	duesCmd.Flags().Int("days", reports.DefaultOverdueDays, "Days without activity before a due counts as overdue")
	duesCmd.Flags().String("sort-by", "due", "due, name or last_transaction")
	duesCmd.Flags().Int("limit", 0, "Top N (0 = all)")
	duesCmd.Flags().Bool("overdue-only", false, "Only overdue counterparties")
	duesCmd.Flags().String("min-due", "", `Only dues of at least this amount, e.g. "MMK 50,000"`)

	rootCmd.AddCommand(summaryCmd, dayWiseCmd, allTimeCmd, duesCmd, exportCmd)
}
