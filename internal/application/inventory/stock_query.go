package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/trufas-inventario-api/internal/application/dto"
	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/repository"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/valuation"
)

const (
	recentMovementsLimit = 20
	valuationPageSize    = 500
)

// Tipos de activo descargables de un artículo.
const (
	AssetQRCode   = "qr"
	AssetPassport = "passport"
	AssetLabel    = "label"
)

// StockQueryUseCase lecturas de stock, artículos, libro y activos.
type StockQueryUseCase struct {
	repos  Repos
	assets AssetGenerator
}

// NewStockQueryUseCase construye el caso de uso con repositorios atados al pool.
func NewStockQueryUseCase(repos Repos, assets AssetGenerator) *StockQueryUseCase {
	return &StockQueryUseCase{repos: repos, assets: assets}
}

// ProductStock devuelve el stock agregado (simple: contador del producto; variable_weight:
// suma de variantes activas), los contadores por variante, conteo por estado y últimos movimientos.
// En un producto simple el agregado coincide con sus artículos available sin variante solo
// mientras no se haya aplicado un ajuste manual; los ajustes mueven el contador sin artículos.
func (uc *StockQueryUseCase) ProductStock(ctx context.Context, code string) (*dto.ProductStockResponse, error) {
	product, err := uc.getProduct(ctx, code)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductStockResponse{
		ProductCode: product.Code,
		ProductType: product.Type,
		Variants:    []dto.VariantStockDTO{},
	}
	if product.IsVariableWeight() {
		variants, err := uc.repos.Variants.ListByProduct(ctx, product.ID)
		if err != nil {
			return nil, err
		}
		for _, v := range variants {
			out.Variants = append(out.Variants, dto.VariantStockDTO{
				SKU:                    v.SKU,
				SKUSuffix:              v.SKUSuffix,
				WeightGrams:            v.WeightGrams,
				Active:                 v.Active,
				AggregateStockQuantity: v.AggregateStockQuantity,
			})
		}
		if out.AggregateStock, err = uc.repos.Variants.SumActiveStock(ctx, product.ID); err != nil {
			return nil, err
		}
	} else {
		out.AggregateStock = product.StockQuantity
	}

	counts, err := uc.repos.Items.CountByStatus(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	out.ItemsByStatus = make(map[string]int, len(counts))
	for st, n := range counts {
		out.ItemsByStatus[string(st)] = n
	}
	if out.Valuation, err = uc.valuate(ctx, product.ID); err != nil {
		return nil, err
	}
	movs, err := uc.repos.Movements.ListByProduct(ctx, product.ID, "", recentMovementsLimit, 0)
	if err != nil {
		return nil, err
	}
	out.RecentMovements = toMovementResponses(movs)
	return out, nil
}

// valuate recorre los artículos available del producto y acumula el costo promedio ponderado.
// Sin artículos con costo devuelve nil.
func (uc *StockQueryUseCase) valuate(ctx context.Context, productID string) (*dto.StockValuationDTO, error) {
	var sum valuation.Summary
	filter := repository.ItemFilter{ProductID: productID, Status: entity.ItemStatusAvailable, Limit: valuationPageSize}
	for {
		items, err := uc.repos.Items.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if it.CostPrice != nil {
				sum = sum.Accumulate(*it.CostPrice)
			}
		}
		if len(items) < filter.Limit {
			break
		}
		filter.Offset += filter.Limit
	}
	if sum.Units == 0 {
		return nil, nil
	}
	return &dto.StockValuationDTO{
		CostedUnits: sum.Units,
		AverageCost: sum.AverageCost.Round(2),
		TotalValue:  sum.TotalValue,
	}, nil
}

// ListMovements pagina el libro de un producto; variantSKU opcional filtra por variante.
func (uc *StockQueryUseCase) ListMovements(ctx context.Context, productCode, variantSKU string, page dto.PageRequest) (*dto.StockMovementListResponse, error) {
	page.DefaultPage()
	product, err := uc.getProduct(ctx, productCode)
	if err != nil {
		return nil, err
	}
	var vID string
	if variantSKU = strings.TrimSpace(variantSKU); variantSKU != "" {
		v, err := uc.repos.Variants.GetBySKU(ctx, variantSKU)
		if err != nil {
			return nil, err
		}
		if v == nil || v.ProductID != product.ID {
			return nil, fmt.Errorf("%w: variante %s del producto %s", domain.ErrNotFound, variantSKU, product.Code)
		}
		vID = v.ID
	}
	movs, err := uc.repos.Movements.ListByProduct(ctx, product.ID, vID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.StockMovementListResponse{
		Items: toMovementResponses(movs),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// GetItem devuelve un artículo por UID.
func (uc *StockQueryUseCase) GetItem(ctx context.Context, uid string) (*dto.SerializedItemResponse, error) {
	item, err := uc.getItem(ctx, uid)
	if err != nil {
		return nil, err
	}
	resp := ToItemResponse(item)
	return &resp, nil
}

// ListItems lista artículos con filtros opcionales por producto y estado.
func (uc *StockQueryUseCase) ListItems(ctx context.Context, productCode, status string, page dto.PageRequest) (*dto.SerializedItemListResponse, error) {
	page.DefaultPage()
	filter := repository.ItemFilter{Limit: page.Limit, Offset: page.Offset}
	if productCode = strings.TrimSpace(productCode); productCode != "" {
		product, err := uc.getProduct(ctx, productCode)
		if err != nil {
			return nil, err
		}
		filter.ProductID = product.ID
	}
	if status = strings.TrimSpace(status); status != "" {
		st, ok := entity.ParseItemStatus(status)
		if !ok {
			return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, status)
		}
		filter.Status = st
	}
	items, err := uc.repos.Items.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SerializedItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ToItemResponse(it))
	}
	return &dto.SerializedItemListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ItemAsset devuelve el contenido de un activo (qr, passport, label) y su content-type.
func (uc *StockQueryUseCase) ItemAsset(ctx context.Context, uid, kind string) ([]byte, string, error) {
	item, err := uc.getItem(ctx, uid)
	if err != nil {
		return nil, "", err
	}
	var path, contentType string
	switch kind {
	case AssetQRCode:
		path, contentType = item.QRCodePath, "image/png"
	case AssetPassport:
		path, contentType = item.PassportPath, "text/html; charset=utf-8"
	case AssetLabel:
		path, contentType = item.LabelPath, "application/pdf"
	default:
		return nil, "", fmt.Errorf("%w: activo %q desconocido", domain.ErrInvalidInput, kind)
	}
	if path == "" {
		return nil, "", fmt.Errorf("%w: el artículo %s no tiene %s", domain.ErrNotFound, uid, kind)
	}
	data, err := uc.assets.Read(path)
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}

func (uc *StockQueryUseCase) getProduct(ctx context.Context, code string) (*entity.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: product_code requerido", domain.ErrInvalidInput)
	}
	p, err := uc.repos.Products.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, code)
	}
	return p, nil
}

func (uc *StockQueryUseCase) getItem(ctx context.Context, uid string) (*entity.SerializedInventoryItem, error) {
	item, err := uc.repos.Items.GetByUID(ctx, strings.TrimSpace(uid))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: artículo %s", domain.ErrNotFound, uid)
	}
	return item, nil
}
