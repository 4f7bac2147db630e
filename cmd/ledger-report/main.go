package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/models/reports"
	"github.com/mmdatafocus/shop_ledger/utils"
	"github.com/spf13/cobra"
)

var (
	businessID string
	asJSON     bool
	places     int32
)

var rootCmd = &cobra.Command{
	Use:   "ledger-report",
	Short: "Shop ledger reports from the command line",
	Long: `ledger-report runs the same reports the HTTP API serves, directly against MySQL.

Connection settings come from the usual env (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME),
shop settings from SHOP_TIMEZONE, SHOP_CURRENCY and DUE_OVERDUE_DAYS.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if businessID == "" {
			return fmt.Errorf("--business-id is required")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&businessID, "business-id", "", "Business to report on (required)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	rootCmd.PersistentFlags().Int32Var(&places, "places", 2, "Decimal places for amounts")
}

// connectAttempts bounds the MySQL connect so an unreachable database fails the command.
const connectAttempts = 3

// newService connects to MySQL and returns the report service with the business id in ctx.
func newService() (*reports.LedgerService, context.Context, error) {
	if err := config.ConnectDatabase(connectAttempts); err != nil {
		return nil, nil, err
	}
	db := config.GetDB()
	if db == nil {
		return nil, nil, fmt.Errorf("database not initialized")
	}
	store := models.NewStore(db, config.ShopCurrency())
	svc := reports.NewLedgerService(store, store, store, reports.DefaultServiceConfig())
	ctx := utils.SetBusinessIdInContext(context.Background(), businessID)
	ctx = utils.SetCorrelationIdInContext(ctx, "ledger-report")
	return svc, ctx, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		config.LogError(config.GetLogger(), "ledger-report", "main", "command failed", os.Args, err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
