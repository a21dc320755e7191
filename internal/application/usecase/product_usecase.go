package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/trufas-inventario-api/internal/application/dto"
	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{1,31}$`)

// ProductUseCase casos de uso del catálogo de productos y variantes de peso.
// El stock no se modifica aquí salvo el initial_stock de una variante nueva, que pasa por el libro.
type ProductUseCase struct {
	repos    inventory.Repos
	txRunner inventory.TxRunner
	ledger   *inventory.Ledger
	audit    inventory.AuditLogger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repos inventory.Repos, txRunner inventory.TxRunner, ledger *inventory.Ledger, audit inventory.AuditLogger) *ProductUseCase {
	if audit == nil {
		audit = inventory.NopAuditLogger{}
	}
	return &ProductUseCase{repos: repos, txRunner: txRunner, ledger: ledger, audit: audit}
}

// Create crea un producto. El stock inicia en 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if !codePattern.MatchString(code) {
		return nil, fmt.Errorf("%w: code debe ser alfanumérico en mayúsculas (ej. TRF-001)", domain.ErrInvalidInput)
	}
	if in.Type == "" {
		in.Type = entity.ProductTypeSimple
	}
	if !entity.IsValidProductType(in.Type) {
		return nil, fmt.Errorf("%w: type debe ser simple o variable_weight", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.NameFR) == "" && strings.TrimSpace(in.NameEN) == "" {
		return nil, fmt.Errorf("%w: se requiere name_fr o name_en", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price negativo", domain.ErrInvalidInput)
	}
	existing, err := uc.repos.Products.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrDuplicate, code)
	}
	var categoryID string
	if cc := strings.TrimSpace(in.CategoryCode); cc != "" {
		cat, err := uc.repos.Categories.GetByCode(ctx, cc)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, cc)
		}
		categoryID = cat.ID
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Code:          code,
		CategoryID:    categoryID,
		Type:          in.Type,
		NameFR:        strings.TrimSpace(in.NameFR),
		NameEN:        strings.TrimSpace(in.NameEN),
		DescriptionFR: in.DescriptionFR,
		DescriptionEN: in.DescriptionEN,
		Origin:        in.Origin,
		Price:         in.Price,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repos.Products.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product, nil), nil
}

// GetByCode obtiene un producto con sus variantes.
func (uc *ProductUseCase) GetByCode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	product, err := uc.getProduct(ctx, code)
	if err != nil {
		return nil, err
	}
	variants, err := uc.repos.Variants.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, variants), nil
}

// Update actualiza textos, origen, precio y estado. No permite modificar stock ni tipo.
func (uc *ProductUseCase) Update(ctx context.Context, code string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.getProduct(ctx, code)
	if err != nil {
		return nil, err
	}
	if in.NameFR != nil {
		product.NameFR = strings.TrimSpace(*in.NameFR)
	}
	if in.NameEN != nil {
		product.NameEN = strings.TrimSpace(*in.NameEN)
	}
	if in.DescriptionFR != nil {
		product.DescriptionFR = *in.DescriptionFR
	}
	if in.DescriptionEN != nil {
		product.DescriptionEN = *in.DescriptionEN
	}
	if in.Origin != nil {
		product.Origin = *in.Origin
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price negativo", domain.ErrInvalidInput)
		}
		product.Price = *in.Price
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repos.Products.Update(ctx, product); err != nil {
		return nil, err
	}
	return uc.GetByCode(ctx, product.Code)
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repos.Products.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p, nil))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// CreateVariant crea una variante de peso. Un initial_stock positivo agrega una fila
// initial_stock al libro en la misma transacción.
func (uc *ProductUseCase) CreateVariant(ctx context.Context, productCode string, in dto.CreateVariantRequest, actor inventory.Actor) (*dto.VariantResponse, error) {
	suffix := strings.ToUpper(strings.TrimSpace(in.SKUSuffix))
	if !codePattern.MatchString(suffix) {
		return nil, fmt.Errorf("%w: sku_suffix inválido", domain.ErrInvalidInput)
	}
	if !in.WeightGrams.IsPositive() {
		return nil, fmt.Errorf("%w: weight_grams debe ser > 0", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price negativo", domain.ErrInvalidInput)
	}
	if in.InitialStock < 0 {
		return nil, fmt.Errorf("%w: initial_stock negativo", domain.ErrInvalidInput)
	}

	var variant *entity.ProductWeightOption
	err := uc.ledger.Run(ctx, uc.txRunner, func(r inventory.Repos) error {
		product, err := r.Products.GetByCodeForUpdate(ctx, strings.TrimSpace(productCode))
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productCode)
		}
		if !product.IsVariableWeight() {
			return fmt.Errorf("%w: el producto %s no es variable_weight", domain.ErrInvalidInput, product.Code)
		}
		sku := entity.VariantSKU(product.Code, suffix)
		existing, err := r.Variants.GetBySKU(ctx, sku)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: variante %s", domain.ErrDuplicate, sku)
		}
		now := time.Now().UTC()
		variant = &entity.ProductWeightOption{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			SKU:         sku,
			SKUSuffix:   suffix,
			WeightGrams: in.WeightGrams,
			Price:       in.Price,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.Variants.Create(ctx, variant); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		_, qty, err := inventory.ApplyMovement(ctx, r, uc.ledger, inventory.MovementInput{
			ProductID:      product.ID,
			VariantID:      variant.ID,
			RelatedUserID:  actor.UserID,
			Type:           entity.MovementInitialStock,
			QuantityChange: in.InitialStock,
			Reason:         "stock inicial de variante",
		})
		variant.AggregateStockQuantity = qty
		return err
	})
	status := entity.AuditStatusSuccess
	details := map[string]any{"sku_suffix": suffix, "initial_stock": in.InitialStock}
	if err != nil {
		status = entity.AuditStatusFailure
		details["error"] = err.Error()
	}
	uc.audit.Log(ctx, entity.AuditLog{
		Action:     "catalog.create_variant",
		UserID:     actor.UserID,
		TargetType: "product",
		TargetID:   productCode,
		Details:    details,
		Status:     status,
		IPAddress:  actor.IP,
	})
	if err != nil {
		return nil, err
	}
	resp := toVariantResponse(variant)
	return &resp, nil
}

// SetVariantActive activa o desactiva una variante. Una variante inactiva deja de sumar
// al stock agregado del producto; su contador no cambia.
func (uc *ProductUseCase) SetVariantActive(ctx context.Context, sku string, active bool, actor inventory.Actor) (*dto.VariantResponse, error) {
	var variant *entity.ProductWeightOption
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		v, err := r.Variants.GetBySKUForUpdate(ctx, strings.TrimSpace(sku))
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("%w: variante %s", domain.ErrNotFound, sku)
		}
		if v.Active == active {
			variant = v
			return nil
		}
		if err := r.Variants.SetActive(ctx, v.ID, active); err != nil {
			return err
		}
		v.Active = active
		variant = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Log(ctx, entity.AuditLog{
		Action:     "catalog.variant_active",
		UserID:     actor.UserID,
		TargetType: "variant",
		TargetID:   variant.SKU,
		Details:    map[string]any{"active": active},
		Status:     entity.AuditStatusSuccess,
		IPAddress:  actor.IP,
	})
	resp := toVariantResponse(variant)
	return &resp, nil
}

func (uc *ProductUseCase) getProduct(ctx context.Context, code string) (*entity.Product, error) {
	product, err := uc.repos.Products.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, code)
	}
	return product, nil
}

func toProductResponse(p *entity.Product, variants []*entity.ProductWeightOption) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	resp := &dto.ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		CategoryID:    p.CategoryID,
		Type:          p.Type,
		NameFR:        p.NameFR,
		NameEN:        p.NameEN,
		DescriptionFR: p.DescriptionFR,
		DescriptionEN: p.DescriptionEN,
		Origin:        p.Origin,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for _, v := range variants {
		resp.Variants = append(resp.Variants, toVariantResponse(v))
	}
	return resp
}

func toVariantResponse(v *entity.ProductWeightOption) dto.VariantResponse {
	return dto.VariantResponse{
		ID:                     v.ID,
		SKU:                    v.SKU,
		SKUSuffix:              v.SKUSuffix,
		WeightGrams:            v.WeightGrams,
		Price:                  v.Price,
		AggregateStockQuantity: v.AggregateStockQuantity,
		Active:                 v.Active,
	}
}
