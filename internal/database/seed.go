package database

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sandeepkv93/product-inventory-admin/internal/domain"
	"github.com/sandeepkv93/product-inventory-admin/internal/observability"
)

type SeedReport struct {
	CreatedProducts int      `json:"created_products"`
	SkippedProducts int      `json:"skipped_products"`
	Created         []string `json:"created"`
	Noop            bool     `json:"noop"`
}

func strPtr(s string) *string { return &s }

func SampleProducts() []domain.Product {
	return []domain.Product{
		{ProductName: "Ballpoint Pen", Description: strPtr("Blue ink, medium tip"), Price: decimal.RequireFromString("15.00"), Quantity: 250, Category: strPtr("Office Supplies")},
		{ProductName: "Bond Paper A4", Description: strPtr("500 sheets, 70gsm"), Price: decimal.RequireFromString("245.50"), Quantity: 40, Category: strPtr("Office Supplies")},
		{ProductName: "Claw Hammer", Description: strPtr("16 oz steel head"), Price: decimal.RequireFromString("389.00"), Quantity: 12, Category: strPtr("Tools")},
		{ProductName: "LED Bulb 9W", Price: decimal.RequireFromString("120.75"), Quantity: 80, Category: strPtr("Electronics")},
		{ProductName: "USB-C Cable", Description: strPtr("1 meter, braided"), Price: decimal.RequireFromString("199.00"), Quantity: 0, Category: strPtr("Electronics")},
		{ProductName: "Packing Tape", Price: decimal.RequireFromString("55.25"), Quantity: 60},
	}
}

// PlanSeed reports which sample products are missing by name.
func PlanSeed(db *gorm.DB) (*SeedReport, error) {
	return seed(db, true)
}

// Seed inserts the sample products that are missing by name. Running it
// twice creates nothing the second time.
func Seed(db *gorm.DB) (*SeedReport, error) {
	return seed(db, false)
}

func seed(db *gorm.DB, dryRun bool) (*SeedReport, error) {
	ctx := context.Background()
	start := time.Now()
	defer func() { observability.RecordDatabaseStartupDuration(ctx, "seed", time.Since(start)) }()

	report := &SeedReport{Created: []string{}}
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, p := range SampleProducts() {
			var count int64
			if err := tx.Model(&domain.Product{}).Where("product_name = ?", p.ProductName).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				report.SkippedProducts++
				continue
			}
			if !dryRun {
				if err := tx.Create(&p).Error; err != nil {
					return err
				}
			}
			report.CreatedProducts++
			report.Created = append(report.Created, p.ProductName)
		}
		return nil
	})
	if err != nil {
		observability.RecordDatabaseStartupEvent(ctx, "seed", "error")
		return nil, err
	}
	report.Noop = report.CreatedProducts == 0
	observability.RecordDatabaseStartupEvent(ctx, "seed", "success")
	return report, nil
}
