package models

import "time"

// Operational store (MySQL): customers, sales, call logs, the product
// mirror and the pending-sync ledger.

type Customer struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"`
	FirstName string  `gorm:"type:varchar(100);not null"`
	LastName  string  `gorm:"type:varchar(100);not null"`
	FullName  string  `gorm:"type:varchar(201);index"` // first + " " + last, trimmed
	Email     *string `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"not null"`
}

func (Customer) TableName() string { return "customers" }

type Sale struct {
	ID         uint    `gorm:"primaryKey;autoIncrement"`
	CustomerID uint    `gorm:"not null;index"`
	ProductID  uint    `gorm:"not null;index"`
	Quantity   int     `gorm:"not null"` // CHECK > 0 added in migration
	UnitPrice  float64 `gorm:"not null"`
	TotalPrice float64 `gorm:"not null"` // quantity * unit_price, recomputed on edit

	SaleDate time.Time `gorm:"not null;index"`
}

func (Sale) TableName() string { return "sales" }

type CallLog struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	CustomerID uint   `gorm:"not null;index"`
	Subject    string `gorm:"type:varchar(255)"`
	Notes      string `gorm:"type:text"`

	CalledAt time.Time `gorm:"not null"`
}

func (CallLog) TableName() string { return "call_logs" }

// ProductCache mirrors the authoritative products table from the product
// store. The id is copied 1:1, never generated here. SyncedAt marks when the
// row last matched the authoritative copy.
type ProductCache struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"type:varchar(255);not null;index"`
	Price       float64 `gorm:"not null"`
	Description *string `gorm:"type:text"`

	SyncedAt time.Time `gorm:"not null"`
}

func (ProductCache) TableName() string { return "products_cache" }

type SyncStage string

const (
	SyncStageAuthoritative SyncStage = "AUTHORITATIVE"
	SyncStageMirror        SyncStage = "MIRROR"
)

// PendingSync records a propagation step that failed after the primary
// write committed. Rows are never consumed by the engine itself; they make
// the inconsistency queryable instead of silent.
type PendingSync struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	ProductID     uint      `gorm:"not null;index"`
	QuantityDelta int       `gorm:"not null"`
	RevenueDelta  float64   `gorm:"not null"`
	Stage         SyncStage `gorm:"type:varchar(16);not null"`
	LastError     string    `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
}

func (PendingSync) TableName() string { return "pending_syncs" }

// Product store (PostgreSQL): the authoritative product catalog.

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"type:varchar(255);not null;index"`
	Price       float64 `gorm:"not null"` // CHECK >= 0 added in migration
	Description *string `gorm:"type:text"`

	QuantityOnHand int     `gorm:"not null;default:0"`
	SalesAmount    float64 `gorm:"not null;default:0"` // running revenue total
}

func (Product) TableName() string { return "products" }
