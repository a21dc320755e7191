package inventory

import (
	"context"
	"io"

	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/repository"
)

// Repos agrupa los repositorios del motor de inventario. El mismo struct sirve para
// lecturas (repos atados al pool) y para escrituras (repos atados a una transacción).
type Repos struct {
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Variants   repository.VariantRepository
	Items      repository.SerializedItemRepository
	Movements  repository.StockMovementRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que contador agregado y fila del libro se confirmen juntos o no se confirmen.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// AssetInput datos necesarios para generar los activos de un artículo.
type AssetInput struct {
	Item     *entity.SerializedInventoryItem
	Product  *entity.Product
	Variant  *entity.ProductWeightOption // nil si no aplica
	Category *entity.Category            // nil si el producto no tiene categoría
}

// AssetPaths rutas relativas de los activos generados.
type AssetPaths struct {
	QRCode   string
	Passport string
	Label    string
}

// All devuelve las rutas no vacías.
func (p AssetPaths) All() []string {
	out := make([]string, 0, 3)
	for _, s := range []string{p.QRCode, p.Passport, p.Label} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// AssetGenerator genera QR, pasaporte y etiqueta de un artículo.
// Si Generate falla, elimina lo que haya escrito para ese artículo antes de devolver el error.
type AssetGenerator interface {
	Generate(ctx context.Context, in AssetInput) (AssetPaths, error)
	// Remove elimina rutas ya escritas (best-effort, usado en rollback).
	Remove(paths ...string)
	Read(path string) ([]byte, error)
}

// AuditLogger registra acciones administrativas sin bloquear la operación principal.
type AuditLogger interface {
	Log(ctx context.Context, entry entity.AuditLog)
}

// Metrics contadores del motor de inventario.
type Metrics interface {
	MovementRecorded(t entity.MovementType)
	ItemsReceived(n int)
	ImportRow(result string)
	ReconcileDrift(n int)
}

// TableCodec lee y escribe tablas (CSV o XLSX) para la transferencia masiva.
type TableCodec interface {
	Encode(w io.Writer, format string, header []string, rows [][]string) error
	Decode(data []byte, format string) ([][]string, error)
}

// Actor identifica quién ejecuta una operación (usuario del token y su IP).
type Actor struct {
	UserID string
	IP     string
}

// NopMetrics implementación vacía de Metrics.
type NopMetrics struct{}

func (NopMetrics) MovementRecorded(entity.MovementType) {}
func (NopMetrics) ItemsReceived(int)                    {}
func (NopMetrics) ImportRow(string)                     {}
func (NopMetrics) ReconcileDrift(int)                   {}

// NopAuditLogger implementación vacía de AuditLogger.
type NopAuditLogger struct{}

func (NopAuditLogger) Log(context.Context, entity.AuditLog) {}
