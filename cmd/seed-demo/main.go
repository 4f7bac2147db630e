// seed-demo loads a small demo ledger (bills, payments, customers, wholesalers) for one business
// and prints a bearer token for it.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... TOKEN_HOUR_LIFESPAN=24 go run ./cmd/seed-demo -business-id demo
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/shop_ledger/config"
	"github.com/mmdatafocus/shop_ledger/models"
	"github.com/mmdatafocus/shop_ledger/models/reports"
	"github.com/mmdatafocus/shop_ledger/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func main() {
	businessID := flag.String("business-id", "", "Business id to seed (required)")
	userID := flag.Int("user-id", 1, "User id carried in the printed token")
	reset := flag.Bool("reset", false, "Delete the business's existing demo rows first")
	flag.Parse()

	biz := strings.TrimSpace(*businessID)
	if biz == "" {
		fmt.Fprintln(os.Stderr, "-business-id is required")
		os.Exit(2)
	}

	ctx := context.Background()
	if err := config.ConnectDatabase(3); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	if err := models.MigrateTable(db); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if *reset {
			for _, m := range []any{&models.BillRecord{}, &models.PaymentRecord{}, &models.CustomerRecord{}, &models.WholesalerRecord{}} {
				if err := tx.Where("business_id = ?", biz).Delete(m).Error; err != nil {
					return err
				}
			}
		}
		return seed(tx, biz, config.ShopLocation())
	})
	if err != nil {
		config.LogError(config.GetLogger(), "seed-demo", "main", "seed", biz, err)
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}

	// Cached reports of this business are stale now; Redis is optional here.
	if err := config.ConnectRedis(1); err == nil {
		if n, err := reports.InvalidateReportCache(ctx, biz); err != nil {
			fmt.Fprintf(os.Stderr, "could not clear cached reports: %v\n", err)
		} else if n > 0 {
			fmt.Printf("cleared %d cached reports\n", n)
		}
	}

	token, err := utils.JwtGenerate(*userID, biz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seeded, but could not issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded business %s\nAuthorization: Bearer %s\n", biz, token)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func seed(tx *gorm.DB, biz string, loc *time.Location) error {
	today := utils.StartOfDay(time.Now(), loc)
	at := func(daysAgo int, hour int) time.Time {
		return today.AddDate(0, 0, -daysAgo).Add(time.Duration(hour) * time.Hour)
	}
	method := func(m models.PaymentMethod) *string { s := string(m); return &s }

	customer := models.CustomerRecord{
		ID: uuid.NewString(), BusinessId: biz, Name: "Daw Hla", CustomerType: models.CounterpartyDueCustomer,
		TotalSales: dec(150000), TotalPaid: dec(90000), OutstandingDue: dec(60000),
		OpeningSales: dec(50000), OpeningPayments: dec(20000),
	}
	regular := models.CustomerRecord{
		ID: uuid.NewString(), BusinessId: biz, Name: "Ko Aung", CustomerType: models.CounterpartyDueCustomer,
		TotalSales: dec(20000), TotalPaid: dec(25000), OutstandingDue: dec(-5000),
	}
	wholesaler := models.WholesalerRecord{
		ID: uuid.NewString(), BusinessId: biz, Name: "Golden Rice Trading",
		TotalPurchased: dec(300000), TotalPaid: dec(200000), OutstandingDue: dec(100000),
		OpeningPurchases: dec(100000), OpeningPayments: dec(50000),
	}
	lastCustomer, lastRegular, lastWholesaler := at(12, 10), at(1, 15), at(3, 9)
	customer.LastTransactionAt = &lastCustomer
	regular.LastTransactionAt = &lastRegular
	wholesaler.LastTransactionAt = &lastWholesaler

	if err := tx.Create(&customer).Error; err != nil {
		return err
	}
	if err := tx.Create(&regular).Error; err != nil {
		return err
	}
	if err := tx.Create(&wholesaler).Error; err != nil {
		return err
	}

	bills := []models.BillRecord{
		{BillNumber: "S-0001", BillType: string(models.BillTypeSale), EntityId: customer.ID, EntityName: customer.Name, EntityType: models.CounterpartyDueCustomer,
			TotalAmount: dec(100000), PaidAmount: dec(70000), PaymentMethod: method(models.PaymentMethodCash), CreatedAt: at(12, 10)},
		{BillNumber: "S-0002", BillType: string(models.BillTypeSale), EntityName: "Walk-in", EntityType: models.CounterpartyWalkIn,
			TotalAmount: dec(15000), PaidAmount: dec(15000), PaymentMethod: method(models.PaymentMethodOnline), CreatedAt: at(0, 11)},
		{BillNumber: "S-0003", BillType: string(models.BillTypeSale), EntityId: regular.ID, EntityName: regular.Name, EntityType: models.CounterpartyDueCustomer,
			TotalAmount: dec(20000), PaidAmount: dec(0), CreatedAt: at(1, 15)},
		{BillNumber: "P-0001", BillType: string(models.BillTypePurchase), EntityId: wholesaler.ID, EntityName: wholesaler.Name, EntityType: models.CounterpartyWholesaler,
			TotalAmount: dec(200000), PaidAmount: dec(150000), PaymentMethod: method(models.PaymentMethodCard), CreatedAt: at(3, 9)},
		{BillNumber: "S-0004", BillType: string(models.BillTypeSale), EntityName: "Walk-in", EntityType: models.CounterpartyWalkIn,
			TotalAmount: dec(8000), PaidAmount: dec(8000), PaymentMethod: method(models.PaymentMethodCash), CreatedAt: at(0, 9), IsDeleted: true},
	}
	for i := range bills {
		bills[i].ID = uuid.NewString()
		bills[i].BusinessId = biz
	}
	if err := tx.Create(&bills).Error; err != nil {
		return err
	}

	payments := []models.PaymentRecord{
		{EntityId: regular.ID, EntityType: string(models.EntityTypeCustomer), Amount: dec(25000), PaymentMethod: string(models.PaymentMethodCash), CreatedAt: at(1, 16)},
		{EntityId: wholesaler.ID, EntityType: string(models.EntityTypeWholesaler), Amount: dec(50000), PaymentMethod: string(models.PaymentMethodOnline), CreatedAt: at(3, 12)},
	}
	for i := range payments {
		payments[i].ID = uuid.NewString()
		payments[i].BusinessId = biz
	}
	return tx.Create(&payments).Error
}
