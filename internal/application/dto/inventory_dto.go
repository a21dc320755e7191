package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveSerializedRequest body para POST /api/inventory/serialized/receive.
// Fechas en formato YYYY-MM-DD.
type ReceiveSerializedRequest struct {
	ProductCode       string           `json:"product_code"`
	Quantity          int              `json:"quantity"`
	VariantSKU        string           `json:"variant_sku,omitempty"`
	BatchNumber       string           `json:"batch_number,omitempty"`
	ProductionDate    string           `json:"production_date,omitempty"`
	ExpiryDate        string           `json:"expiry_date,omitempty"`
	CostPrice         *decimal.Decimal `json:"cost_price,omitempty"`
	ActualWeightGrams *decimal.Decimal `json:"actual_weight_grams,omitempty"`
}

// ReceiveSerializedResponse UIDs generados en la recepción.
type ReceiveSerializedResponse struct {
	ProductCode string   `json:"product_code"`
	Received    int      `json:"received"`
	ItemUIDs    []string `json:"item_uids"`
}

// UpdateItemStatusRequest body para PUT /api/inventory/serialized/items/:uid/status.
type UpdateItemStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// StockAdjustRequest body para POST /api/inventory/stock/adjust.
type StockAdjustRequest struct {
	ProductCode    string `json:"product_code"`
	VariantSKU     string `json:"variant_sku,omitempty"`
	QuantityChange int    `json:"quantity_change"`
	MovementType   string `json:"movement_type"` // código de ajuste manual (ajustement_manuel, perte, ...)
	Reason         string `json:"reason"`
}

// StockAdjustResponse resultado de un ajuste manual.
type StockAdjustResponse struct {
	MovementID  string `json:"movement_id"`
	NewQuantity int    `json:"new_quantity"`
}

// SerializedItemResponse salida de un artículo serializado.
type SerializedItemResponse struct {
	ItemUID           string           `json:"item_uid"`
	ProductID         string           `json:"product_id"`
	VariantID         string           `json:"variant_id,omitempty"`
	Status            string           `json:"status"`
	BatchNumber       string           `json:"batch_number,omitempty"`
	ProductionDate    *time.Time       `json:"production_date,omitempty"`
	ExpiryDate        *time.Time       `json:"expiry_date,omitempty"`
	CostPrice         *decimal.Decimal `json:"cost_price,omitempty"`
	ActualWeightGrams *decimal.Decimal `json:"actual_weight_grams,omitempty"`
	QRCodePath        string           `json:"qr_code_path,omitempty"`
	PassportPath      string           `json:"passport_path,omitempty"`
	LabelPath         string           `json:"label_path,omitempty"`
	Notes             string           `json:"notes,omitempty"`
	OrderID           string           `json:"order_id,omitempty"`
	ReceivedAt        time.Time        `json:"received_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// SerializedItemListResponse lista paginada de artículos.
type SerializedItemListResponse struct {
	Items []SerializedItemResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}

// StockMovementResponse salida de una fila del libro.
type StockMovementResponse struct {
	ID                string           `json:"id"`
	ProductID         string           `json:"product_id"`
	VariantID         string           `json:"variant_id,omitempty"`
	SerializedItemID  string           `json:"serialized_item_id,omitempty"`
	RelatedOrderID    string           `json:"related_order_id,omitempty"`
	RelatedUserID     string           `json:"related_user_id,omitempty"`
	MovementType      string           `json:"movement_type"`
	QuantityChange    int              `json:"quantity_change"`
	WeightChangeGrams *decimal.Decimal `json:"weight_change_grams,omitempty"`
	AdjustmentType    string           `json:"adjustment_type,omitempty"`
	Reason            string           `json:"reason,omitempty"`
	Notes             string           `json:"notes,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

// StockMovementListResponse lista paginada de movimientos.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// VariantStockDTO contador de una variante.
type VariantStockDTO struct {
	SKU                    string          `json:"sku"`
	SKUSuffix              string          `json:"sku_suffix"`
	WeightGrams            decimal.Decimal `json:"weight_grams"`
	Active                 bool            `json:"active"`
	AggregateStockQuantity int             `json:"aggregate_stock_quantity"`
}

// ProductStockResponse vista de stock de un producto (GET /api/inventory/product/:code).
type ProductStockResponse struct {
	ProductCode     string                  `json:"product_code"`
	ProductType     string                  `json:"product_type"`
	AggregateStock  int                     `json:"aggregate_stock"`
	Variants        []VariantStockDTO       `json:"variants,omitempty"`
	ItemsByStatus   map[string]int          `json:"items_by_status"`
	Valuation       *StockValuationDTO      `json:"valuation,omitempty"`
	RecentMovements []StockMovementResponse `json:"recent_movements"`
}

// StockValuationDTO valor de los artículos available con costo registrado.
type StockValuationDTO struct {
	CostedUnits int             `json:"costed_units"`
	AverageCost decimal.Decimal `json:"average_cost"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// ImportFailure fila rechazada en la importación.
type ImportFailure struct {
	Row     int    `json:"row"`
	ItemUID string `json:"item_uid,omitempty"`
	Error   string `json:"error"`
}

// ImportResult resultado de la importación masiva (éxito parcial).
type ImportResult struct {
	Imported int             `json:"imported"`
	Updated  int             `json:"updated"`
	Failed   []ImportFailure `json:"failed"`
}

// ReconcileDrift diferencia detectada entre el contador y sus fuentes.
type ReconcileDrift struct {
	ProductCode string `json:"product_code"`
	VariantSKU  string `json:"variant_sku,omitempty"`
	Counter     int    `json:"counter"`
	LedgerSum   int    `json:"ledger_sum"`
	// ItemCount solo aplica a productos simples (artículos available sin variante).
	ItemCount *int `json:"item_count,omitempty"`
	Fixed     bool `json:"fixed"`
}

// ReconcileReport resultado de la conciliación.
type ReconcileReport struct {
	CheckedProducts int              `json:"checked_products"`
	CheckedVariants int              `json:"checked_variants"`
	Drifts          []ReconcileDrift `json:"drifts"`
}

// OrderVariantRequest body para venta/devolución de una variante.
type OrderVariantRequest struct {
	Quantity int `json:"quantity"`
}
