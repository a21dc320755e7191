package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto.
const (
	ProductTypeSimple         = "simple"          // stock = artículos serializados sin variante
	ProductTypeVariableWeight = "variable_weight" // stock = suma de variantes activas
)

// IsValidProductType indica si t es un tipo de producto conocido.
func IsValidProductType(t string) bool {
	return t == ProductTypeSimple || t == ProductTypeVariableWeight
}

// Product representa una entrada del catálogo.
// StockQuantity es el contador agregado de productos simples; para variable_weight
// el stock se deriva de ProductWeightOption.AggregateStockQuantity.
type Product struct {
	ID            string
	Code          string // código único, prefijo de los item_uid (ej. TRF-001)
	CategoryID    string
	Type          string // simple, variable_weight
	NameFR        string
	NameEN        string
	DescriptionFR string
	DescriptionEN string
	Origin        string
	Price         decimal.Decimal
	StockQuantity int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsVariableWeight indica si el stock se lleva por variante.
func (p *Product) IsVariableWeight() bool {
	return p.Type == ProductTypeVariableWeight
}
