package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

const variantColumns = `id, product_id, sku, sku_suffix, weight_grams, price, aggregate_stock_quantity,
	active, created_at, updated_at`

// VariantRepo persistencia de product_weight_options.
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador de variantes.
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

// Create persiste una variante.
func (r *VariantRepo) Create(ctx context.Context, v *entity.ProductWeightOption) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO product_weight_options (`+variantColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		v.ID, v.ProductID, v.SKU, v.SKUSuffix, v.WeightGrams, v.Price, v.AggregateStockQuantity,
		v.Active, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: variante %s", domain.ErrDuplicate, v.SKU)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("%w: peso de variante %s", domain.ErrInvalidInput, v.SKU)
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

// GetByID obtiene una variante por ID.
func (r *VariantRepo) GetByID(ctx context.Context, id string) (*entity.ProductWeightOption, error) {
	return r.getOne(ctx, `SELECT `+variantColumns+` FROM product_weight_options WHERE id = $1`, id)
}

// GetBySKU obtiene una variante por SKU completo.
func (r *VariantRepo) GetBySKU(ctx context.Context, sku string) (*entity.ProductWeightOption, error) {
	return r.getOne(ctx, `SELECT `+variantColumns+` FROM product_weight_options WHERE sku = $1`, sku)
}

// GetBySKUForUpdate obtiene la variante bloqueando su fila.
func (r *VariantRepo) GetBySKUForUpdate(ctx context.Context, sku string) (*entity.ProductWeightOption, error) {
	return r.getOne(ctx, `SELECT `+variantColumns+` FROM product_weight_options WHERE sku = $1 FOR UPDATE`, sku)
}

// GetByProductAndSuffix obtiene la variante por producto y sufijo.
func (r *VariantRepo) GetByProductAndSuffix(ctx context.Context, productID, suffix string) (*entity.ProductWeightOption, error) {
	v, err := scanVariant(r.q.QueryRow(ctx,
		`SELECT `+variantColumns+` FROM product_weight_options WHERE product_id = $1 AND sku_suffix = $2`,
		productID, suffix))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant by suffix: %w", err)
	}
	return v, nil
}

// ListByProduct lista las variantes del producto por peso ascendente.
func (r *VariantRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductWeightOption, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+variantColumns+` FROM product_weight_options WHERE product_id = $1 ORDER BY weight_grams, sku`,
		productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductWeightOption
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// AddStock suma delta al contador de la variante y devuelve el nuevo valor.
func (r *VariantRepo) AddStock(ctx context.Context, variantID string, delta int) (int, error) {
	var qty int
	err := r.q.QueryRow(ctx,
		`UPDATE product_weight_options
		 SET aggregate_stock_quantity = aggregate_stock_quantity + $2, updated_at = now()
		 WHERE id = $1 RETURNING aggregate_stock_quantity`, variantID, delta,
	).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: variante %s", domain.ErrNotFound, variantID)
		}
		return 0, fmt.Errorf("add variant stock: %w", err)
	}
	return qty, nil
}

// SetStock fija el contador de la variante (solo reconciliación).
func (r *VariantRepo) SetStock(ctx context.Context, variantID string, quantity int) error {
	return r.exec(ctx, variantID,
		`UPDATE product_weight_options SET aggregate_stock_quantity = $2, updated_at = now() WHERE id = $1`,
		quantity)
}

// SetActive activa o desactiva la variante.
func (r *VariantRepo) SetActive(ctx context.Context, variantID string, active bool) error {
	return r.exec(ctx, variantID,
		`UPDATE product_weight_options SET active = $2, updated_at = now() WHERE id = $1`, active)
}

// SumActiveStock suma los contadores de las variantes activas.
func (r *VariantRepo) SumActiveStock(ctx context.Context, productID string) (int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(aggregate_stock_quantity), 0)::int
		 FROM product_weight_options WHERE product_id = $1 AND active`, productID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum variant stock: %w", err)
	}
	return total, nil
}

func (r *VariantRepo) exec(ctx context.Context, variantID, query string, arg any) error {
	tag, err := r.q.Exec(ctx, query, variantID, arg)
	if err != nil {
		return fmt.Errorf("update variant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: variante %s", domain.ErrNotFound, variantID)
	}
	return nil
}

func (r *VariantRepo) getOne(ctx context.Context, query string, arg any) (*entity.ProductWeightOption, error) {
	v, err := scanVariant(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return v, nil
}

func scanVariant(row rowScanner) (*entity.ProductWeightOption, error) {
	var v entity.ProductWeightOption
	if err := row.Scan(&v.ID, &v.ProductID, &v.SKU, &v.SKUSuffix, &v.WeightGrams, &v.Price,
		&v.AggregateStockQuantity, &v.Active, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}
