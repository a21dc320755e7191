package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Code          string `json:"code"`
	NameFR        string `json:"name_fr"`
	NameEN        string `json:"name_en"`
	DescriptionFR string `json:"description_fr"`
	DescriptionEN string `json:"description_en"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	NameFR        string    `json:"name_fr"`
	NameEN        string    `json:"name_en"`
	DescriptionFR string    `json:"description_fr,omitempty"`
	DescriptionEN string    `json:"description_en,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code          string          `json:"code"`
	CategoryCode  string          `json:"category_code"`
	Type          string          `json:"type"` // simple | variable_weight
	NameFR        string          `json:"name_fr"`
	NameEN        string          `json:"name_en"`
	DescriptionFR string          `json:"description_fr"`
	DescriptionEN string          `json:"description_en"`
	Origin        string          `json:"origin"`
	Price         decimal.Decimal `json:"price"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock: se maneja vía movimientos).
type UpdateProductRequest struct {
	NameFR        *string          `json:"name_fr"`
	NameEN        *string          `json:"name_en"`
	DescriptionFR *string          `json:"description_fr"`
	DescriptionEN *string          `json:"description_en"`
	Origin        *string          `json:"origin"`
	Price         *decimal.Decimal `json:"price"`
	Active        *bool            `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string            `json:"id"`
	Code          string            `json:"code"`
	CategoryID    string            `json:"category_id"`
	Type          string            `json:"type"`
	NameFR        string            `json:"name_fr"`
	NameEN        string            `json:"name_en"`
	DescriptionFR string            `json:"description_fr,omitempty"`
	DescriptionEN string            `json:"description_en,omitempty"`
	Origin        string            `json:"origin,omitempty"`
	Price         decimal.Decimal   `json:"price"`
	StockQuantity int               `json:"stock_quantity"`
	Active        bool              `json:"active"`
	Variants      []VariantResponse `json:"variants,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateVariantRequest entrada para crear una variante de peso.
type CreateVariantRequest struct {
	SKUSuffix    string          `json:"sku_suffix"`
	WeightGrams  decimal.Decimal `json:"weight_grams"`
	Price        decimal.Decimal `json:"price"`
	InitialStock int             `json:"initial_stock"`
}

// SetVariantActiveRequest activa o desactiva una variante.
type SetVariantActiveRequest struct {
	Active bool `json:"active"`
}

// VariantResponse salida de una variante.
type VariantResponse struct {
	ID                     string          `json:"id"`
	SKU                    string          `json:"sku"`
	SKUSuffix              string          `json:"sku_suffix"`
	WeightGrams            decimal.Decimal `json:"weight_grams"`
	Price                  decimal.Decimal `json:"price"`
	AggregateStockQuantity int             `json:"aggregate_stock_quantity"`
	Active                 bool            `json:"active"`
}
