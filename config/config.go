package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"sales-engine/internal/stores"
)

type Config struct {
	Port string

	Operational DB
	Product     DB
	CarePlan    DB

	CarePlanEnabled bool
}

type DB struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func Load(log *zap.Logger) *Config {
	cfg := &Config{
		Port: getEnv("APP_PORT", log),
		Operational: DB{
			Host:     getEnv("OPERATIONAL_DB_HOST", log),
			Port:     getEnv("OPERATIONAL_DB_PORT", log),
			User:     getEnv("OPERATIONAL_DB_USER", log),
			Password: getEnv("OPERATIONAL_DB_PASSWORD", log),
			Name:     getEnv("OPERATIONAL_DB_NAME", log),
		},
		Product: DB{
			Host:     getEnv("PRODUCT_DB_HOST", log),
			Port:     getEnv("PRODUCT_DB_PORT", log),
			User:     getEnv("PRODUCT_DB_USER", log),
			Password: getEnv("PRODUCT_DB_PASSWORD", log),
			Name:     getEnv("PRODUCT_DB_NAME", log),
			SSLMode:  getEnv("PRODUCT_DB_SSLMODE", log),
		},
		CarePlanEnabled: os.Getenv("CAREPLAN_DB_ENABLED") == "true",
	}
	if cfg.CarePlanEnabled {
		cfg.CarePlan = DB{
			Host:     getEnv("CAREPLAN_DB_HOST", log),
			Port:     getEnv("CAREPLAN_DB_PORT", log),
			User:     getEnv("CAREPLAN_DB_USER", log),
			Password: getEnv("CAREPLAN_DB_PASSWORD", log),
			Name:     getEnv("CAREPLAN_DB_NAME", log),
		}
	}
	return cfg
}

// OperationalStore is the MySQL DSN for customers, sales and the mirror.
func (c *Config) OperationalStore() stores.Config {
	return stores.Config{
		Driver: stores.DriverMySQL,
		DSN: fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4",
			c.Operational.User, c.Operational.Password,
			c.Operational.Host, c.Operational.Port, c.Operational.Name),
	}
}

// ProductStore is the PostgreSQL DSN for the authoritative catalog.
func (c *Config) ProductStore() stores.Config {
	return stores.Config{
		Driver: stores.DriverPostgres,
		DSN: fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Product.Host, c.Product.Port, c.Product.User,
			c.Product.Password, c.Product.Name, c.Product.SSLMode),
	}
}

// CarePlanStore is the SQL Server DSN, zero-valued when the store is
// disabled.
func (c *Config) CarePlanStore() stores.Config {
	if !c.CarePlanEnabled {
		return stores.Config{}
	}
	return stores.Config{
		Driver: stores.DriverSQLServer,
		DSN: fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			c.CarePlan.User, c.CarePlan.Password,
			c.CarePlan.Host, c.CarePlan.Port, c.CarePlan.Name),
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("required environment variable is not set", zap.String("key", key))
	panic("missing required environment variable: " + key)
}
