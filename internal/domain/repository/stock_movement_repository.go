package repository

import (
	"context"

	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

// LedgerSum suma de deltas del libro por producto y variante (VariantID vacío = sin variante).
type LedgerSum struct {
	ProductID string
	VariantID string
	Quantity  int
}

// StockMovementRepository define el puerto del libro de stock.
// Solo inserción y lectura: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID, variantID string, limit, offset int) ([]*entity.StockMovement, error)
	SumByProductAndVariant(ctx context.Context) ([]LedgerSum, error)
}
