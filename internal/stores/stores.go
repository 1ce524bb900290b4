// Package stores owns connections to the three independently-administered
// databases. Every tool invocation dials fresh handles and releases them
// before returning; no pool or state is shared across invocations.
package stores

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var ErrCarePlanDisabled = errors.New("care plan store is not configured")

const (
	DriverMySQL     = "mysql"
	DriverPostgres  = "postgres"
	DriverSQLServer = "sqlserver"
	DriverSQLite    = "sqlite"
)

type Config struct {
	Driver string // mysql | postgres | sqlserver | sqlite
	DSN    string
}

func (c Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverMySQL:
		return mysql.Open(c.DSN), nil
	case DriverPostgres:
		return postgres.Open(c.DSN), nil
	case DriverSQLServer:
		return sqlserver.Open(c.DSN), nil
	case DriverSQLite:
		return sqlite.Open(c.DSN), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", c.Driver)
	}
}

// Set hands out a store handle plus its release func for one invocation.
type Set interface {
	Operational(ctx context.Context) (*gorm.DB, func(), error)
	Product(ctx context.Context) (*gorm.DB, func(), error)
	CarePlan(ctx context.Context) (*gorm.DB, func(), error)
}

// Dial opens a fresh connection per call.
type Dial struct {
	OperationalCfg Config
	ProductCfg     Config
	CarePlanCfg    *Config // nil disables the care plan tool
	Log            *zap.Logger
}

func (d *Dial) open(ctx context.Context, cfg Config, name string) (*gorm.DB, func(), error) {
	dial, err := cfg.dialector()
	if err != nil {
		return nil, nil, err
	}
	db, err := gorm.Open(dial, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, nil, fmt.Errorf("connect %s store: %w", name, err)
	}
	release := func() {
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			d.Log.Warn("closing store connection", zap.String("store", name), zap.Error(err))
		}
	}
	return db.WithContext(ctx), release, nil
}

func (d *Dial) Operational(ctx context.Context) (*gorm.DB, func(), error) {
	return d.open(ctx, d.OperationalCfg, "operational")
}

func (d *Dial) Product(ctx context.Context) (*gorm.DB, func(), error) {
	return d.open(ctx, d.ProductCfg, "product")
}

func (d *Dial) CarePlan(ctx context.Context) (*gorm.DB, func(), error) {
	if d.CarePlanCfg == nil {
		return nil, nil, ErrCarePlanDisabled
	}
	return d.open(ctx, *d.CarePlanCfg, "careplan")
}

// Static wraps already-open handles (tests, embedded use); release is a
// no-op so the same handles survive across calls.
type Static struct {
	OperationalDB *gorm.DB
	ProductDB     *gorm.DB
	CarePlanDB    *gorm.DB
}

func noop() {}

func (s *Static) Operational(ctx context.Context) (*gorm.DB, func(), error) {
	return s.OperationalDB.WithContext(ctx), noop, nil
}

func (s *Static) Product(ctx context.Context) (*gorm.DB, func(), error) {
	return s.ProductDB.WithContext(ctx), noop, nil
}

func (s *Static) CarePlan(ctx context.Context) (*gorm.DB, func(), error) {
	if s.CarePlanDB == nil {
		return nil, nil, ErrCarePlanDisabled
	}
	return s.CarePlanDB.WithContext(ctx), noop, nil
}
