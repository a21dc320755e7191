package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/trufas-inventario-api/internal/application/dto"
	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// ReceiveInput entrada para recibir unidades serializadas.
type ReceiveInput struct {
	ProductCode       string
	VariantSKU        string
	Quantity          int
	BatchNumber       string
	ProductionDate    *time.Time
	ExpiryDate        *time.Time
	CostPrice         *decimal.Decimal
	ActualWeightGrams *decimal.Decimal
	Actor             Actor
}

// ReceiveUseCase crea artículos serializados con sus activos (QR, pasaporte, etiqueta)
// y una fila receive_serialized por unidad, todo en una transacción.
type ReceiveUseCase struct {
	txRunner TxRunner
	assets   AssetGenerator
	ledger   *Ledger
	audit    AuditLogger
	metrics  Metrics
	maxBatch int
}

// NewReceiveUseCase construye el caso de uso. maxBatch limita las unidades por petición.
func NewReceiveUseCase(txRunner TxRunner, assets AssetGenerator, ledger *Ledger, audit AuditLogger, metrics Metrics, maxBatch int) *ReceiveUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if audit == nil {
		audit = NopAuditLogger{}
	}
	return &ReceiveUseCase{
		txRunner: txRunner,
		assets:   assets,
		ledger:   ledger,
		audit:    audit,
		metrics:  metrics,
		maxBatch: maxBatch,
	}
}

// ReceiveFromRequest adapta el request HTTP (fechas en texto) a Receive.
func (uc *ReceiveUseCase) ReceiveFromRequest(ctx context.Context, actor Actor, in dto.ReceiveSerializedRequest) (*dto.ReceiveSerializedResponse, error) {
	prod, err := parseDate(in.ProductionDate, "production_date")
	if err != nil {
		return nil, err
	}
	exp, err := parseDate(in.ExpiryDate, "expiry_date")
	if err != nil {
		return nil, err
	}
	uids, err := uc.Receive(ctx, ReceiveInput{
		ProductCode:       in.ProductCode,
		VariantSKU:        in.VariantSKU,
		Quantity:          in.Quantity,
		BatchNumber:       in.BatchNumber,
		ProductionDate:    prod,
		ExpiryDate:        exp,
		CostPrice:         in.CostPrice,
		ActualWeightGrams: in.ActualWeightGrams,
		Actor:             actor,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ReceiveSerializedResponse{
		ProductCode: strings.TrimSpace(in.ProductCode),
		Received:    len(uids),
		ItemUIDs:    uids,
	}, nil
}

// Receive genera quantity artículos. Si la generación de activos de cualquier unidad falla,
// se hace Rollback de la transacción y se eliminan todos los archivos escritos por el lote.
func (uc *ReceiveUseCase) Receive(ctx context.Context, in ReceiveInput) ([]string, error) {
	if err := uc.validate(in); err != nil {
		return nil, err
	}

	var written []string
	var uids []string
	err := uc.ledger.Run(ctx, uc.txRunner, func(r Repos) error {
		written, uids = written[:0], uids[:0]

		product, variant, err := resolveTarget(ctx, r, in.ProductCode, in.VariantSKU)
		if err != nil {
			return err
		}
		if variant != nil && !variant.Active {
			return fmt.Errorf("%w: la variante %s está inactiva", domain.ErrInvalidInput, variant.SKU)
		}
		var category *entity.Category
		if product.CategoryID != "" {
			if category, err = r.Categories.GetByID(ctx, product.CategoryID); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		taken := make(map[string]bool, in.Quantity)
		for i := 0; i < in.Quantity; i++ {
			uid, err := mintItemUID(ctx, r.Items, product.Code, taken)
			if err != nil {
				return err
			}
			item := &entity.SerializedInventoryItem{
				ID:                uuid.New().String(),
				ItemUID:           uid,
				ProductID:         product.ID,
				VariantID:         variantID(variant),
				Status:            entity.ItemStatusAvailable,
				BatchNumber:       strings.TrimSpace(in.BatchNumber),
				ProductionDate:    in.ProductionDate,
				ExpiryDate:        in.ExpiryDate,
				CostPrice:         in.CostPrice,
				ActualWeightGrams: in.ActualWeightGrams,
				ReceivedAt:        now,
				UpdatedAt:         now,
			}
			paths, err := uc.assets.Generate(ctx, AssetInput{Item: item, Product: product, Variant: variant, Category: category})
			if err != nil {
				return fmt.Errorf("generar activos de %s: %w", uid, err)
			}
			written = append(written, paths.All()...)
			item.QRCodePath = paths.QRCode
			item.PassportPath = paths.Passport
			item.LabelPath = paths.Label

			if err := r.Items.Create(ctx, item); err != nil {
				return err
			}
			if _, err := uc.ledger.Record(ctx, r.Movements, MovementInput{
				ProductID:         product.ID,
				VariantID:         item.VariantID,
				SerializedItemID:  item.ID,
				RelatedUserID:     in.Actor.UserID,
				Type:              entity.MovementReceiveSerialized,
				QuantityChange:    1,
				WeightChangeGrams: in.ActualWeightGrams,
				Reason:            "recepción serializada",
				Notes:             item.BatchNumber,
			}); err != nil {
				return err
			}
			uids = append(uids, uid)
		}

		if variant != nil {
			_, err = r.Variants.AddStock(ctx, variant.ID, in.Quantity)
		} else {
			_, err = r.Products.AddStock(ctx, product.ID, in.Quantity)
		}
		return err
	})
	if err != nil {
		if len(written) > 0 {
			log.Warn().Err(err).Int("files", len(written)).Str("product_code", in.ProductCode).
				Msg("recepción revertida, eliminando activos generados")
			uc.assets.Remove(written...)
		}
		uc.audit.Log(ctx, entity.AuditLog{
			Action:     "inventory.receive",
			UserID:     in.Actor.UserID,
			TargetType: "product",
			TargetID:   in.ProductCode,
			Details:    map[string]any{"quantity": in.Quantity, "variant_sku": in.VariantSKU, "error": err.Error()},
			Status:     entity.AuditStatusFailure,
			IPAddress:  in.Actor.IP,
		})
		return nil, err
	}

	uc.metrics.ItemsReceived(len(uids))
	uc.audit.Log(ctx, entity.AuditLog{
		Action:     "inventory.receive",
		UserID:     in.Actor.UserID,
		TargetType: "product",
		TargetID:   in.ProductCode,
		Details:    map[string]any{"quantity": in.Quantity, "variant_sku": in.VariantSKU, "item_uids": uids},
		Status:     entity.AuditStatusSuccess,
		IPAddress:  in.Actor.IP,
	})
	return uids, nil
}

func (uc *ReceiveUseCase) validate(in ReceiveInput) error {
	if strings.TrimSpace(in.ProductCode) == "" {
		return fmt.Errorf("%w: product_code requerido", domain.ErrInvalidInput)
	}
	if in.Quantity < 1 {
		return fmt.Errorf("%w: quantity debe ser >= 1", domain.ErrInvalidInput)
	}
	if uc.maxBatch > 0 && in.Quantity > uc.maxBatch {
		return fmt.Errorf("%w: quantity máxima por recepción es %d", domain.ErrInvalidInput, uc.maxBatch)
	}
	if in.CostPrice != nil && in.CostPrice.IsNegative() {
		return fmt.Errorf("%w: cost_price negativo", domain.ErrInvalidInput)
	}
	if in.ActualWeightGrams != nil && !in.ActualWeightGrams.IsPositive() {
		return fmt.Errorf("%w: actual_weight_grams debe ser > 0", domain.ErrInvalidInput)
	}
	if in.ProductionDate != nil && in.ExpiryDate != nil && in.ExpiryDate.Before(*in.ProductionDate) {
		return fmt.Errorf("%w: expiry_date anterior a production_date", domain.ErrInvalidInput)
	}
	return nil
}

// parseDate interpreta YYYY-MM-DD; vacío devuelve nil.
func parseDate(s, field string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s debe tener formato YYYY-MM-DD", domain.ErrInvalidInput, field)
	}
	return &t, nil
}
