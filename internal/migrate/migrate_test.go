package migrate_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"sales-engine/internal/migrate"
	"sales-engine/internal/models"
	"sales-engine/internal/testdb"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	operational := testdb.Open(t)
	product := testdb.Open(t)
	if err := migrate.MigrateOperational(ctx, operational, zap.NewNop(), migrate.MigrateOptions{}); err != nil {
		t.Fatalf("operational migration failed: %v", err)
	}
	if err := migrate.MigrateProduct(ctx, product, zap.NewNop(), migrate.MigrateOptions{}); err != nil {
		t.Fatalf("product migration failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := migrate.SeedOperational(ctx, operational, zap.NewNop()); err != nil {
			t.Fatalf("seeding operational (pass %d): %v", i, err)
		}
		if err := migrate.SeedProduct(ctx, product, zap.NewNop()); err != nil {
			t.Fatalf("seeding product (pass %d): %v", i, err)
		}
	}

	var customers, products, mirror int64
	if err := operational.Model(&models.Customer{}).Count(&customers).Error; err != nil {
		t.Fatalf("counting customers: %v", err)
	}
	if err := product.Model(&models.Product{}).Count(&products).Error; err != nil {
		t.Fatalf("counting products: %v", err)
	}
	if err := operational.Model(&models.ProductCache{}).Count(&mirror).Error; err != nil {
		t.Fatalf("counting mirror: %v", err)
	}
	if customers != 3 || products != 2 || mirror != 2 {
		t.Fatalf("unexpected seed counts: %d customers, %d products, %d mirror", customers, products, mirror)
	}
}

func TestSeedMirrorMatchesCatalog(t *testing.T) {
	ctx := context.Background()
	operational := testdb.Open(t)
	product := testdb.Open(t)
	if err := migrate.MigrateOperational(ctx, operational, zap.NewNop(), migrate.MigrateOptions{}); err != nil {
		t.Fatalf("operational migration failed: %v", err)
	}
	if err := migrate.MigrateProduct(ctx, product, zap.NewNop(), migrate.MigrateOptions{}); err != nil {
		t.Fatalf("product migration failed: %v", err)
	}
	if err := migrate.SeedOperational(ctx, operational, zap.NewNop()); err != nil {
		t.Fatalf("seeding operational: %v", err)
	}
	if err := migrate.SeedProduct(ctx, product, zap.NewNop()); err != nil {
		t.Fatalf("seeding product: %v", err)
	}

	var rows []models.ProductCache
	if err := operational.Order("id").Find(&rows).Error; err != nil {
		t.Fatalf("loading mirror: %v", err)
	}
	for _, m := range rows {
		var p models.Product
		if err := product.First(&p, "id = ?", m.ID).Error; err != nil {
			t.Fatalf("mirror id %d has no catalog row: %v", m.ID, err)
		}
		if p.Name != m.Name || p.Price != m.Price {
			t.Fatalf("mirror diverges from catalog: %+v vs %+v", m, p)
		}
	}
}
