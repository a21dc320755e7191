package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/trufas-inventario-api/internal/application/dto"
	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/repository"
)

const reconcilePageSize = 500

type ledgerKey struct {
	productID string
	variantID string
}

// ReconcileUseCase compara los contadores agregados con la suma del libro y, para productos
// simples, con el número de artículos available. Con fix reescribe el contador al valor del libro.
type ReconcileUseCase struct {
	txRunner TxRunner
	reader   Repos
	audit    AuditLogger
	metrics  Metrics
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(txRunner TxRunner, reader Repos, audit AuditLogger, metrics Metrics) *ReconcileUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if audit == nil {
		audit = NopAuditLogger{}
	}
	return &ReconcileUseCase{txRunner: txRunner, reader: reader, audit: audit, metrics: metrics}
}

// Run recorre todos los productos y variantes y devuelve las diferencias encontradas.
func (uc *ReconcileUseCase) Run(ctx context.Context, fix bool, actor Actor) (*dto.ReconcileReport, error) {
	sums, err := uc.reader.Movements.SumByProductAndVariant(ctx)
	if err != nil {
		return nil, err
	}
	ledger := indexLedger(sums)

	report := &dto.ReconcileReport{Drifts: []dto.ReconcileDrift{}}
	for offset := 0; ; offset += reconcilePageSize {
		products, err := uc.reader.Products.List(ctx, reconcilePageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			report.CheckedProducts++
			if p.IsVariableWeight() {
				variants, err := uc.reader.Variants.ListByProduct(ctx, p.ID)
				if err != nil {
					return nil, err
				}
				for _, v := range variants {
					report.CheckedVariants++
					sum := ledger[ledgerKey{p.ID, v.ID}]
					if sum == v.AggregateStockQuantity {
						continue
					}
					report.Drifts = append(report.Drifts, dto.ReconcileDrift{
						ProductCode: p.Code,
						VariantSKU:  v.SKU,
						Counter:     v.AggregateStockQuantity,
						LedgerSum:   sum,
					})
				}
				continue
			}
			sum := ledger[ledgerKey{p.ID, ""}]
			count, err := uc.reader.Items.CountAvailableWithoutVariant(ctx, p.ID)
			if err != nil {
				return nil, err
			}
			if sum == p.StockQuantity && count == p.StockQuantity {
				continue
			}
			c := count
			report.Drifts = append(report.Drifts, dto.ReconcileDrift{
				ProductCode: p.Code,
				Counter:     p.StockQuantity,
				LedgerSum:   sum,
				ItemCount:   &c,
			})
		}
		if len(products) < reconcilePageSize {
			break
		}
	}

	if fix {
		for i := range report.Drifts {
			d := &report.Drifts[i]
			if d.Counter == d.LedgerSum {
				continue
			}
			if err := uc.fixDrift(ctx, d); err != nil {
				return nil, err
			}
			d.Fixed = true
		}
	}

	uc.metrics.ReconcileDrift(len(report.Drifts))
	if len(report.Drifts) > 0 {
		log.Warn().Int("drifts", len(report.Drifts)).Bool("fix", fix).Msg("conciliación de stock con diferencias")
	}
	uc.audit.Log(ctx, entity.AuditLog{
		Action:     "inventory.reconcile",
		UserID:     actor.UserID,
		TargetType: "stock",
		Details:    map[string]any{"fix": fix, "drifts": len(report.Drifts), "checked_products": report.CheckedProducts},
		Status:     entity.AuditStatusSuccess,
		IPAddress:  actor.IP,
	})
	return report, nil
}

// fixDrift bloquea la fila y fija el contador a la suma del libro leída dentro de la misma tx.
func (uc *ReconcileUseCase) fixDrift(ctx context.Context, d *dto.ReconcileDrift) error {
	return uc.txRunner.Run(ctx, func(r Repos) error {
		product, variant, err := resolveTarget(ctx, r, d.ProductCode, d.VariantSKU)
		if err != nil {
			return err
		}
		sums, err := r.Movements.SumByProductAndVariant(ctx)
		if err != nil {
			return err
		}
		sum := indexLedger(sums)[ledgerKey{product.ID, variantID(variant)}]
		if sum < 0 {
			return fmt.Errorf("%w: la suma del libro de %s es negativa (%d)", domain.ErrConflict, d.ProductCode, sum)
		}
		log.Info().Str("product_code", d.ProductCode).Str("variant_sku", d.VariantSKU).
			Int("counter", currentStock(product, variant)).Int("ledger_sum", sum).Msg("corrigiendo contador")
		d.LedgerSum = sum
		if variant != nil {
			return r.Variants.SetStock(ctx, variant.ID, sum)
		}
		return r.Products.SetStock(ctx, product.ID, sum)
	})
}

// StartPeriodic ejecuta la verificación (sin corregir) cada interval hasta que ctx termine.
// El canal devuelto se cierra cuando no queda ninguna ejecución en curso.
func (uc *ReconcileUseCase) StartPeriodic(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := uc.Run(ctx, false, Actor{UserID: "system"}); err != nil && ctx.Err() == nil {
					log.Error().Err(err).Msg("conciliación periódica fallida")
				}
			}
		}
	}()
	return done
}

func indexLedger(sums []repository.LedgerSum) map[ledgerKey]int {
	out := make(map[ledgerKey]int, len(sums))
	for _, s := range sums {
		out[ledgerKey{s.ProductID, s.VariantID}] = s.Quantity
	}
	return out
}
