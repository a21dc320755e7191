package entity

// AdjustmentType código de ajuste manual permitido en el panel de administración.
type AdjustmentType string

// Códigos de ajuste manual.
const (
	AdjustmentManual          AdjustmentType = "ajustement_manuel"
	AdjustmentCorrection      AdjustmentType = "correction"
	AdjustmentLoss            AdjustmentType = "perte"
	AdjustmentUnorderedReturn AdjustmentType = "retour_non_commande"
	AdjustmentAddition        AdjustmentType = "addition"
	AdjustmentBatchCreation   AdjustmentType = "creation_lot"
	AdjustmentStockDiscovery  AdjustmentType = "decouverte_stock"
	AdjustmentCustomerReturn  AdjustmentType = "retour_client"
)

// adjustmentSigns: 0 = ambos signos, +1 solo positivo, -1 solo negativo.
var adjustmentSigns = map[AdjustmentType]int{
	AdjustmentManual:          0,
	AdjustmentCorrection:      0,
	AdjustmentLoss:            -1,
	AdjustmentUnorderedReturn: 1,
	AdjustmentAddition:        1,
	AdjustmentBatchCreation:   1,
	AdjustmentStockDiscovery:  1,
	AdjustmentCustomerReturn:  1,
}

// ParseAdjustmentType valida s contra la lista permitida.
func ParseAdjustmentType(s string) (AdjustmentType, bool) {
	t := AdjustmentType(s)
	_, ok := adjustmentSigns[t]
	return t, ok
}

// AcceptsDelta indica si delta (distinto de cero) es coherente con el código.
func (t AdjustmentType) AcceptsDelta(delta int) bool {
	sign, ok := adjustmentSigns[t]
	if !ok || delta == 0 {
		return false
	}
	return sign == 0 || (delta > 0) == (sign > 0)
}

// MovementType traduce el código de ajuste al tipo de movimiento del libro.
func (t AdjustmentType) MovementType(delta int) MovementType {
	switch t {
	case AdjustmentLoss:
		return MovementDamage
	case AdjustmentBatchCreation:
		return MovementProduction
	case AdjustmentCustomerReturn:
		return MovementReturn
	}
	if delta < 0 {
		return MovementAdjustmentOut
	}
	return MovementAdjustmentIn
}
