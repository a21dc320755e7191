package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

// ItemFilter filtros de listado de artículos serializados.
type ItemFilter struct {
	ProductID string
	Status    entity.ItemStatus
	Limit     int
	Offset    int
}

// ItemExportRow fila cruda de exportación: artículo + metadatos de producto y variante.
type ItemExportRow struct {
	ItemUID            string
	ProductCode        string
	ProductNameFR      string
	ProductNameEN      string
	VariantSKUSuffix   string
	VariantWeightGrams *decimal.Decimal
	Status             entity.ItemStatus
	BatchNumber        string
	ProductionDate     *time.Time
	ExpiryDate         *time.Time
	CostPrice          *decimal.Decimal
	ActualWeightGrams  *decimal.Decimal
	Notes              string
	ReceivedAt         time.Time
}

// SerializedItemRepository define el puerto de persistencia para SerializedInventoryItem.
// No existe Delete: el ciclo de vida se lleva por estado.
type SerializedItemRepository interface {
	Create(ctx context.Context, item *entity.SerializedInventoryItem) error
	GetByUID(ctx context.Context, uid string) (*entity.SerializedInventoryItem, error)
	// GetByUIDForUpdate bloquea la fila del artículo (SELECT FOR UPDATE).
	GetByUIDForUpdate(ctx context.Context, uid string) (*entity.SerializedInventoryItem, error)
	ExistsUID(ctx context.Context, uid string) (bool, error)
	Update(ctx context.Context, item *entity.SerializedInventoryItem) error
	List(ctx context.Context, filter ItemFilter) ([]*entity.SerializedInventoryItem, error)
	CountByStatus(ctx context.Context, productID string) (map[entity.ItemStatus]int, error)
	// CountAvailableWithoutVariant cuenta los artículos available sin variante (stock de productos simples).
	CountAvailableWithoutVariant(ctx context.Context, productID string) (int, error)
	ListForExport(ctx context.Context) ([]ItemExportRow, error)
}
