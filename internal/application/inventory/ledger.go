package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/repository"
)

// MovementInput datos de una fila del libro de stock.
type MovementInput struct {
	ProductID         string
	VariantID         string
	SerializedItemID  string
	RelatedOrderID    string
	RelatedUserID     string
	Type              entity.MovementType
	QuantityChange    int
	WeightChangeGrams *decimal.Decimal
	AdjustmentType    string
	Reason            string
	Notes             string
}

// Ledger registra movimientos en el libro de stock. Siempre se invoca con el repositorio
// de la transacción que modifica el contador; nunca confirma por su cuenta. Las
// transacciones que escriben en el libro pasan por Run.
type Ledger struct {
	metrics Metrics
}

// NewLedger construye el libro.
func NewLedger(metrics Metrics) *Ledger {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Ledger{metrics: metrics}
}

// Record valida tipo y signo e inserta la fila. Devuelve el ID del movimiento.
func (l *Ledger) Record(ctx context.Context, movRepo repository.StockMovementRepository, in MovementInput) (string, error) {
	if in.ProductID == "" {
		return "", fmt.Errorf("%w: movimiento sin producto", domain.ErrInvalidInput)
	}
	if !in.Type.IsValid() {
		return "", fmt.Errorf("%w: tipo de movimiento %q desconocido", domain.ErrInvalidInput, in.Type)
	}
	if !in.Type.AcceptsDelta(in.QuantityChange) {
		return "", fmt.Errorf("%w: cantidad %d incompatible con el tipo %s", domain.ErrInvalidInput, in.QuantityChange, in.Type)
	}
	mov := &entity.StockMovement{
		ID:                uuid.New().String(),
		ProductID:         in.ProductID,
		VariantID:         in.VariantID,
		SerializedItemID:  in.SerializedItemID,
		RelatedOrderID:    in.RelatedOrderID,
		RelatedUserID:     in.RelatedUserID,
		MovementType:      in.Type,
		QuantityChange:    in.QuantityChange,
		WeightChangeGrams: in.WeightChangeGrams,
		AdjustmentType:    in.AdjustmentType,
		Reason:            in.Reason,
		Notes:             in.Notes,
		CreatedAt:         time.Now().UTC(),
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return "", err
	}
	return mov.ID, nil
}

// Run ejecuta fn en una transacción de tx. Las métricas de los movimientos insertados
// se publican solo si la transacción confirma.
func (l *Ledger) Run(ctx context.Context, tx TxRunner, fn func(Repos) error) error {
	var recorded []entity.MovementType
	err := tx.Run(ctx, func(r Repos) error {
		recorded = recorded[:0]
		r.Movements = &observedMovements{StockMovementRepository: r.Movements, recorded: &recorded}
		return fn(r)
	})
	if err != nil {
		return err
	}
	for _, t := range recorded {
		l.metrics.MovementRecorded(t)
	}
	return nil
}

// observedMovements anota el tipo de cada fila insertada en la transacción en curso.
type observedMovements struct {
	repository.StockMovementRepository
	recorded *[]entity.MovementType
}

func (o *observedMovements) Create(ctx context.Context, movement *entity.StockMovement) error {
	if err := o.StockMovementRepository.Create(ctx, movement); err != nil {
		return err
	}
	*o.recorded = append(*o.recorded, movement.MovementType)
	return nil
}
