package repository

import (
	"context"

	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

// VariantRepository define el puerto de persistencia para ProductWeightOption.
type VariantRepository interface {
	Create(ctx context.Context, variant *entity.ProductWeightOption) error
	GetByID(ctx context.Context, id string) (*entity.ProductWeightOption, error)
	GetBySKU(ctx context.Context, sku string) (*entity.ProductWeightOption, error)
	// GetBySKUForUpdate bloquea la fila de la variante (SELECT FOR UPDATE).
	GetBySKUForUpdate(ctx context.Context, sku string) (*entity.ProductWeightOption, error)
	GetByProductAndSuffix(ctx context.Context, productID, suffix string) (*entity.ProductWeightOption, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.ProductWeightOption, error)
	AddStock(ctx context.Context, variantID string, delta int) (int, error)
	SetStock(ctx context.Context, variantID string, quantity int) error
	SetActive(ctx context.Context, variantID string, active bool) error
	// SumActiveStock suma los contadores de las variantes activas del producto.
	SumActiveStock(ctx context.Context, productID string) (int, error)
}
