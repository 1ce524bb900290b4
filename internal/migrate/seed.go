package migrate

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sales-engine/internal/models"
)

func strPtr(s string) *string { return &s }

// SeedOperational loads a small demo dataset. Idempotent: skips when
// customers already exist.
func SeedOperational(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.Customer{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		log.Info("operational store already seeded", zap.Int64("customers", n))
		return nil
	}

	now := time.Now()
	customers := []models.Customer{
		{FirstName: "John", LastName: "Doe", FullName: "John Doe", Email: strPtr("john.doe@example.com"), CreatedAt: now},
		{FirstName: "Jane", LastName: "Smith", FullName: "Jane Smith", Email: strPtr("jane.smith@example.com"), CreatedAt: now},
		{FirstName: "Carlos", LastName: "Rivera", FullName: "Carlos Rivera", CreatedAt: now},
	}
	if err := db.WithContext(ctx).Create(&customers).Error; err != nil {
		return err
	}

	mirror := []models.ProductCache{
		{ID: 1, Name: "Widget", Price: 9.99, Description: strPtr("Standard widget"), SyncedAt: now},
		{ID: 2, Name: "Gadget", Price: 24.50, SyncedAt: now},
	}
	if err := db.WithContext(ctx).Create(&mirror).Error; err != nil {
		return err
	}

	sales := []models.Sale{
		{CustomerID: customers[0].ID, ProductID: 1, Quantity: 2, UnitPrice: 9.99, TotalPrice: 19.98, SaleDate: now},
		{CustomerID: customers[1].ID, ProductID: 2, Quantity: 1, UnitPrice: 24.50, TotalPrice: 24.50, SaleDate: now},
	}
	if err := db.WithContext(ctx).Create(&sales).Error; err != nil {
		return err
	}

	logs := []models.CallLog{
		{CustomerID: customers[0].ID, Subject: "Delivery inquiry", Notes: "Asked about widget shipment", CalledAt: now},
	}
	if err := db.WithContext(ctx).Create(&logs).Error; err != nil {
		return err
	}

	log.Info("operational store seeded")
	return nil
}

// SeedProduct loads the authoritative catalog matching the mirror rows that
// SeedOperational writes. quantity_on_hand and sales_amount already reflect
// the seeded sales.
func SeedProduct(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		log.Info("product store already seeded", zap.Int64("products", n))
		return nil
	}

	products := []models.Product{
		{ID: 1, Name: "Widget", Price: 9.99, Description: strPtr("Standard widget"), QuantityOnHand: 98, SalesAmount: 19.98},
		{ID: 2, Name: "Gadget", Price: 24.50, QuantityOnHand: 49, SalesAmount: 24.50},
	}
	if err := db.WithContext(ctx).Create(&products).Error; err != nil {
		return err
	}

	log.Info("product store seeded")
	return nil
}

// SeedCarePlan loads one demo plan.
func SeedCarePlan(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.CarePlan{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		log.Info("care plan store already seeded", zap.Int64("plans", n))
		return nil
	}

	plan := models.CarePlan{
		NameOfYouth:       "Alex Johnson",
		RaceEthnicity:     "Hispanic",
		MediCalID:         "MC-0001",
		Telephone:         "555-0100",
		MediCalHealthPlan: "Community Health Plan",
		ChronicConditions: "Asthma",
	}
	if err := db.WithContext(ctx).Create(&plan).Error; err != nil {
		return err
	}

	log.Info("care plan store seeded")
	return nil
}
