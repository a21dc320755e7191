package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, variant_id, serialized_item_id, related_order_id, related_user_id,
	movement_type, quantity_change, weight_change_grams, adjustment_type, reason, notes, created_at`

// StockMovementRepo persistencia del libro de stock. La tabla rechaza UPDATE y DELETE por trigger.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador del libro.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta una fila del libro. El CHECK de signo de la tabla se traduce a ErrInvalidInput.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO stock_movements (`+movementColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		m.ID, m.ProductID, nullIfEmpty(m.VariantID), nullIfEmpty(m.SerializedItemID),
		nullIfEmpty(m.RelatedOrderID), nullIfEmpty(m.RelatedUserID), string(m.MovementType),
		m.QuantityChange, m.WeightChangeGrams, nullIfEmpty(m.AdjustmentType), m.Reason, m.Notes, m.CreatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: signo de %s con delta %d", domain.ErrInvalidInput, m.MovementType, m.QuantityChange)
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct lista movimientos del producto, los más recientes primero.
// variantID vacío incluye todas las variantes.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID, variantID string, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+movementColumns+` FROM stock_movements
		 WHERE product_id = $1 AND ($2::uuid IS NULL OR variant_id = $2::uuid)
		 ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		productID, nullIfEmpty(variantID), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	list := []*entity.StockMovement{}
	for rows.Next() {
		var (
			m                                           entity.StockMovement
			variant, item, order, user, adjustment, typ *string
		)
		if err := rows.Scan(&m.ID, &m.ProductID, &variant, &item, &order, &user, &typ,
			&m.QuantityChange, &m.WeightChangeGrams, &adjustment, &m.Reason, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		m.VariantID = derefString(variant)
		m.SerializedItemID = derefString(item)
		m.RelatedOrderID = derefString(order)
		m.RelatedUserID = derefString(user)
		m.AdjustmentType = derefString(adjustment)
		m.MovementType = entity.MovementType(derefString(typ))
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByProductAndVariant suma quantity_change por (producto, variante).
func (r *StockMovementRepo) SumByProductAndVariant(ctx context.Context) ([]repository.LedgerSum, error) {
	rows, err := r.q.Query(ctx,
		`SELECT product_id, variant_id, COALESCE(SUM(quantity_change), 0)::int
		 FROM stock_movements GROUP BY product_id, variant_id`)
	if err != nil {
		return nil, fmt.Errorf("sum stock movements: %w", err)
	}
	defer rows.Close()

	out := []repository.LedgerSum{}
	for rows.Next() {
		var (
			s       repository.LedgerSum
			variant *string
		)
		if err := rows.Scan(&s.ProductID, &variant, &s.Quantity); err != nil {
			return nil, fmt.Errorf("scan ledger sum: %w", err)
		}
		s.VariantID = derefString(variant)
		out = append(out, s)
	}
	return out, rows.Err()
}
