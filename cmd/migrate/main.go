package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"sales-engine/config"
	"sales-engine/internal/logger"
	"sales-engine/internal/migrate"
	"sales-engine/internal/stores"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	seed := os.Getenv("SEED") == "true"

	dial := &stores.Dial{
		OperationalCfg: cfg.OperationalStore(),
		ProductCfg:     cfg.ProductStore(),
		Log:            log,
	}
	if cfg.CarePlanEnabled {
		careCfg := cfg.CarePlanStore()
		dial.CarePlanCfg = &careCfg
	}

	ctx := context.Background()
	opts := migrate.DefaultMigrateOptions()

	operational, releaseOp, err := dial.Operational(ctx)
	if err != nil {
		log.Fatal("connecting operational store", zap.Error(err))
	}
	defer releaseOp()
	if err := migrate.MigrateOperational(ctx, operational, log, opts); err != nil {
		log.Fatal("migrating operational store", zap.Error(err))
	}
	if seed {
		if err := migrate.SeedOperational(ctx, operational, log); err != nil {
			log.Fatal("seeding operational store", zap.Error(err))
		}
	}

	product, releaseProd, err := dial.Product(ctx)
	if err != nil {
		log.Fatal("connecting product store", zap.Error(err))
	}
	defer releaseProd()
	if err := migrate.MigrateProduct(ctx, product, log, opts); err != nil {
		log.Fatal("migrating product store", zap.Error(err))
	}
	if seed {
		if err := migrate.SeedProduct(ctx, product, log); err != nil {
			log.Fatal("seeding product store", zap.Error(err))
		}
	}

	if cfg.CarePlanEnabled {
		care, releaseCare, err := dial.CarePlan(ctx)
		if err != nil {
			log.Fatal("connecting care plan store", zap.Error(err))
		}
		defer releaseCare()
		if err := migrate.MigrateCarePlan(ctx, care, log); err != nil {
			log.Fatal("migrating care plan store", zap.Error(err))
		}
		if seed {
			if err := migrate.SeedCarePlan(ctx, care, log); err != nil {
				log.Fatal("seeding care plan store", zap.Error(err))
			}
		}
	}

	log.Info("migration finished")
}
