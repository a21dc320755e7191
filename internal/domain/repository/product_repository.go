package repository

import (
	"context"

	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get devuelven (nil, nil) cuando el registro no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetByCodeForUpdate bloquea la fila (SELECT FOR UPDATE); solo dentro de una transacción.
	GetByCodeForUpdate(ctx context.Context, code string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// AddStock suma delta al contador agregado y devuelve el nuevo valor.
	AddStock(ctx context.Context, productID string, delta int) (int, error)
	SetStock(ctx context.Context, productID string, quantity int) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
