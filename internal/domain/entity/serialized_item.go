package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemStatus estado del ciclo de vida de un artículo serializado.
type ItemStatus string

// Estados de SerializedInventoryItem. Nunca se borra un artículo: se retira vía estado.
const (
	ItemStatusAvailable        ItemStatus = "available"
	ItemStatusDamaged          ItemStatus = "damaged"
	ItemStatusRecalled         ItemStatus = "recalled"
	ItemStatusReservedInternal ItemStatus = "reserved_internal"
	ItemStatusMissing          ItemStatus = "missing"
	ItemStatusAllocated        ItemStatus = "allocated" // solo vía pedidos
	ItemStatusSold             ItemStatus = "sold"      // terminal
)

// adminStatuses son los estados que el endpoint de administración puede fijar.
var adminStatuses = map[ItemStatus]bool{
	ItemStatusAvailable:        true,
	ItemStatusDamaged:          true,
	ItemStatusRecalled:         true,
	ItemStatusReservedInternal: true,
	ItemStatusMissing:          true,
}

// itemTransitions tabla central de transiciones: origen -> destinos permitidos.
// Entre los estados de administración el grafo es completo; allocated y sold solo
// se alcanzan por el flujo de pedidos; desde sold no hay salida.
var itemTransitions = map[ItemStatus][]ItemStatus{
	ItemStatusAvailable: {
		ItemStatusDamaged, ItemStatusRecalled, ItemStatusReservedInternal, ItemStatusMissing,
		ItemStatusAllocated, ItemStatusSold,
	},
	ItemStatusDamaged:          {ItemStatusAvailable, ItemStatusRecalled, ItemStatusReservedInternal, ItemStatusMissing},
	ItemStatusRecalled:         {ItemStatusAvailable, ItemStatusDamaged, ItemStatusReservedInternal, ItemStatusMissing},
	ItemStatusReservedInternal: {ItemStatusAvailable, ItemStatusDamaged, ItemStatusRecalled, ItemStatusMissing},
	ItemStatusMissing:          {ItemStatusAvailable, ItemStatusDamaged, ItemStatusRecalled, ItemStatusReservedInternal},
	ItemStatusAllocated:        {ItemStatusAvailable, ItemStatusSold},
	ItemStatusSold:             nil,
}

// ParseItemStatus valida s contra el conjunto cerrado de estados.
func ParseItemStatus(s string) (ItemStatus, bool) {
	st := ItemStatus(s)
	_, ok := itemTransitions[st]
	return st, ok
}

// IsAdminSettable indica si el estado puede fijarse desde el panel de administración.
func (s ItemStatus) IsAdminSettable() bool {
	return adminStatuses[s]
}

// CanTransition indica si from -> to está permitido. from == to no es una transición.
func CanTransition(from, to ItemStatus) bool {
	for _, next := range itemTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AvailabilityDelta devuelve el efecto sobre el contador agregado al pasar de from a to:
// +1 al entrar en available, -1 al salir, 0 si no cruza la frontera.
func AvailabilityDelta(from, to ItemStatus) int {
	switch {
	case from == to:
		return 0
	case to == ItemStatusAvailable:
		return 1
	case from == ItemStatusAvailable:
		return -1
	}
	return 0
}

// SerializedInventoryItem es una unidad física identificada individualmente.
type SerializedInventoryItem struct {
	ID                string
	ItemUID           string // {product_code}-{sufijo aleatorio}, único global
	ProductID         string
	VariantID         string // vacío si no tiene variante
	Status            ItemStatus
	BatchNumber       string
	ProductionDate    *time.Time
	ExpiryDate        *time.Time
	CostPrice         *decimal.Decimal
	ActualWeightGrams *decimal.Decimal
	QRCodePath        string
	PassportPath      string
	LabelPath         string
	Notes             string // bitácora de notas, solo se agregan líneas
	OrderID           string
	ReceivedAt        time.Time
	UpdatedAt         time.Time
}
