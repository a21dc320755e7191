package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del libro de stock (enumeración cerrada).
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementInitialStock      MovementType = "initial_stock"
	MovementSale              MovementType = "sale"
	MovementReturn            MovementType = "return"
	MovementAdjustmentIn      MovementType = "adjustment_in"
	MovementAdjustmentOut     MovementType = "adjustment_out"
	MovementDamage            MovementType = "damage"
	MovementProduction        MovementType = "production"
	MovementRecall            MovementType = "recall"
	MovementTransferIn        MovementType = "transfer_in"
	MovementTransferOut       MovementType = "transfer_out"
	MovementReceiveSerialized MovementType = "receive_serialized"
	MovementImportCSVNew      MovementType = "import_csv_new"
)

// movementSigns: +1 entradas (delta >= 0), -1 salidas (delta <= 0).
var movementSigns = map[MovementType]int{
	MovementInitialStock:      1,
	MovementSale:              -1,
	MovementReturn:            1,
	MovementAdjustmentIn:      1,
	MovementAdjustmentOut:     -1,
	MovementDamage:            -1,
	MovementProduction:        1,
	MovementRecall:            -1,
	MovementTransferIn:        1,
	MovementTransferOut:       -1,
	MovementReceiveSerialized: 1,
	MovementImportCSVNew:      1,
}

// ParseMovementType valida s contra la enumeración.
func ParseMovementType(s string) (MovementType, bool) {
	t := MovementType(s)
	_, ok := movementSigns[t]
	return t, ok
}

// IsValid indica si el tipo pertenece a la enumeración.
func (t MovementType) IsValid() bool {
	_, ok := movementSigns[t]
	return ok
}

// AcceptsDelta indica si el signo de delta es coherente con el tipo.
// Un delta cero se acepta en cualquier tipo (p. ej. importación de un artículo no disponible).
func (t MovementType) AcceptsDelta(delta int) bool {
	sign, ok := movementSigns[t]
	if !ok {
		return false
	}
	return delta == 0 || (delta > 0) == (sign > 0)
}

// StockMovement fila del libro de stock. Solo se inserta; las correcciones son filas compensatorias.
type StockMovement struct {
	ID                string
	ProductID         string
	VariantID         string
	SerializedItemID  string
	RelatedOrderID    string
	RelatedUserID     string
	MovementType      MovementType
	QuantityChange    int
	WeightChangeGrams *decimal.Decimal
	AdjustmentType    string // código de ajuste manual, si aplica
	Reason            string
	Notes             string
	CreatedAt         time.Time
}
