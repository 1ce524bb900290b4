// Package propagate keeps the operational store's product mirror and the
// authoritative product counters consistent after a sale commits. The two
// writes hit two independent engines with no two-phase commit: a failed step
// leaves the stores detectably inconsistent, recorded as a PendingSync row
// rather than healed.
package propagate

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sales-engine/internal/models"
)

type Propagator struct {
	log *zap.Logger
	now func() time.Time
}

func New(log *zap.Logger) *Propagator {
	return &Propagator{log: log, now: time.Now}
}

// StepError identifies which half of the propagation failed.
type StepError struct {
	Stage models.SyncStage
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("propagation failed at %s step: %v", e.Stage, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Propagate applies the sale deltas to the authoritative product row and
// refreshes the mirror in the operational store. quantityDelta is added to
// quantity_on_hand (negative for stock sold), revenueDelta to sales_amount.
// The primary sale write has already committed; nothing here rolls it back.
func (p *Propagator) Propagate(ctx context.Context, operational, product *gorm.DB, productID uint, quantityDelta int, revenueDelta decimal.Decimal) error {
	var row models.Product
	if err := product.WithContext(ctx).First(&row, "id = ?", productID).Error; err != nil {
		p.recordPending(ctx, operational, productID, quantityDelta, revenueDelta, models.SyncStageAuthoritative, err)
		return &StepError{Stage: models.SyncStageAuthoritative, Err: err}
	}

	newAmount := decimal.NewFromFloat(row.SalesAmount).Add(revenueDelta).Round(2)
	err := product.WithContext(ctx).Model(&models.Product{}).Where("id = ?", productID).Updates(map[string]any{
		"quantity_on_hand": row.QuantityOnHand + quantityDelta,
		"sales_amount":     newAmount.InexactFloat64(),
	}).Error
	if err != nil {
		p.recordPending(ctx, operational, productID, quantityDelta, revenueDelta, models.SyncStageAuthoritative, err)
		return &StepError{Stage: models.SyncStageAuthoritative, Err: err}
	}

	mirror := models.ProductCache{
		ID:          row.ID,
		Name:        row.Name,
		Price:       row.Price,
		Description: row.Description,
		SyncedAt:    p.now(),
	}
	err = operational.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "price", "description", "synced_at"}),
	}).Create(&mirror).Error
	if err != nil {
		p.recordPending(ctx, operational, productID, quantityDelta, revenueDelta, models.SyncStageMirror, err)
		return &StepError{Stage: models.SyncStageMirror, Err: err}
	}

	return nil
}

// recordPending is best effort; when even the ledger write fails the
// failure is only logged.
func (p *Propagator) recordPending(ctx context.Context, operational *gorm.DB, productID uint, quantityDelta int, revenueDelta decimal.Decimal, stage models.SyncStage, cause error) {
	rec := models.PendingSync{
		ProductID:     productID,
		QuantityDelta: quantityDelta,
		RevenueDelta:  revenueDelta.InexactFloat64(),
		Stage:         stage,
		LastError:     cause.Error(),
		CreatedAt:     p.now(),
	}
	if err := operational.WithContext(ctx).Create(&rec).Error; err != nil {
		p.log.Error("failed to record pending sync",
			zap.Uint("product_id", productID),
			zap.String("stage", string(stage)),
			zap.Error(err),
		)
		return
	}
	p.log.Warn("propagation step failed, pending sync recorded",
		zap.Uint("product_id", productID),
		zap.String("stage", string(stage)),
		zap.Error(cause),
	)
}

// Pending lists the recorded reconciliation backlog, oldest first.
func Pending(ctx context.Context, operational *gorm.DB) ([]models.PendingSync, error) {
	var rows []models.PendingSync
	err := operational.WithContext(ctx).Order("id").Find(&rows).Error
	return rows, err
}
