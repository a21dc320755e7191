package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductWeightOption es una variante (SKU con peso y precio) de un producto variable_weight.
// AggregateStockQuantity se modifica en la misma transacción que el movimiento que lo justifica.
type ProductWeightOption struct {
	ID                     string
	ProductID              string
	SKU                    string // {product_code}-{sku_suffix}
	SKUSuffix              string
	WeightGrams            decimal.Decimal
	Price                  decimal.Decimal
	AggregateStockQuantity int
	Active                 bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// VariantSKU compone el SKU de una variante a partir del código de producto y el sufijo.
func VariantSKU(productCode, suffix string) string {
	return productCode + "-" + suffix
}
