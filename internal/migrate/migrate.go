package migrate

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sales-engine/internal/models"
)

type MigrateOptions struct {
	CreateChecks  bool // CHECK constraints via raw SQL
	CreateIndexes bool // lookup indexes beyond what AutoMigrate emits
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateChecks:  true,
		CreateIndexes: true,
	}
}

// MigrateOperational prepares the MySQL store: customers, sales, call logs,
// the product mirror and the pending-sync ledger.
func MigrateOperational(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("migrating operational store")

	if err := db.WithContext(ctx).AutoMigrate(
		&models.Customer{},
		&models.Sale{},
		&models.CallLog{},
		&models.ProductCache{},
		&models.PendingSync{},
	); err != nil {
		log.Error("automigrate operational", zap.Error(err))
		return err
	}

	if opt.CreateChecks {
		log.Info("creating operational CHECK constraints")
		if err := db.Exec(`
ALTER TABLE sales
	ADD CONSTRAINT chk_sales_quantity_gt_zero
	CHECK (quantity > 0)
`).Error; err != nil {
			log.Warn("chk sales.quantity", zap.Error(err))
		}
		if err := db.Exec(`
ALTER TABLE sales
	ADD CONSTRAINT chk_sales_prices_non_negative
	CHECK (unit_price >= 0 AND total_price >= 0)
`).Error; err != nil {
			log.Warn("chk sales.prices", zap.Error(err))
		}
	}

	if opt.CreateIndexes {
		log.Info("creating operational lookup indexes")
		// resolution probes full_name, first_name and last_name with LIKE
		if err := db.Exec(`CREATE INDEX ix_customers_full_name ON customers (full_name)`).Error; err != nil {
			log.Warn("ix customers.full_name", zap.Error(err))
		}
		if err := db.Exec(`CREATE INDEX ix_sales_customer_product ON sales (customer_id, product_id)`).Error; err != nil {
			log.Warn("ix sales.customer_product", zap.Error(err))
		}
	}

	log.Info("operational store migrated")
	return nil
}

// MigrateProduct prepares the PostgreSQL catalog store.
func MigrateProduct(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("migrating product store")

	if err := db.WithContext(ctx).AutoMigrate(&models.Product{}); err != nil {
		log.Error("automigrate product", zap.Error(err))
		return err
	}

	if opt.CreateChecks {
		log.Info("creating product CHECK constraints")
		if err := db.Exec(`
ALTER TABLE products
	DROP CONSTRAINT IF EXISTS chk_products_price_non_negative,
	ADD CONSTRAINT chk_products_price_non_negative
	CHECK (price >= 0)
`).Error; err != nil {
			log.Error("chk products.price", zap.Error(err))
			return err
		}
	}

	if opt.CreateIndexes {
		log.Info("creating product lookup indexes")
		if err := db.Exec(`CREATE INDEX IF NOT EXISTS ix_products_lower_name ON products (lower(name))`).Error; err != nil {
			log.Error("ix products.lower_name", zap.Error(err))
			return err
		}
	}

	log.Info("product store migrated")
	return nil
}

// MigrateCarePlan prepares the SQL Server store. Plain AutoMigrate, the
// care-plan table carries no constraints beyond the primary key.
func MigrateCarePlan(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	log.Info("migrating care plan store")
	if err := db.WithContext(ctx).AutoMigrate(&models.CarePlan{}); err != nil {
		log.Error("automigrate care plan", zap.Error(err))
		return err
	}
	log.Info("care plan store migrated")
	return nil
}
