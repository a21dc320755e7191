package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/trufas-inventario-api/internal/application/dto"
	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

// AdjustInput entrada para un ajuste manual de stock.
type AdjustInput struct {
	ProductCode    string
	VariantSKU     string
	QuantityChange int
	AdjustmentType string
	Reason         string
	Actor          Actor
}

// AdjustUseCase aplica correcciones manuales del contador agregado con su fila en el libro.
type AdjustUseCase struct {
	txRunner TxRunner
	ledger   *Ledger
	audit    AuditLogger
}

// NewAdjustUseCase construye el caso de uso.
func NewAdjustUseCase(txRunner TxRunner, ledger *Ledger, audit AuditLogger) *AdjustUseCase {
	if audit == nil {
		audit = NopAuditLogger{}
	}
	return &AdjustUseCase{txRunner: txRunner, ledger: ledger, audit: audit}
}

// AdjustFromRequest adapta el request HTTP a Adjust.
func (uc *AdjustUseCase) AdjustFromRequest(ctx context.Context, actor Actor, in dto.StockAdjustRequest) (*dto.StockAdjustResponse, error) {
	return uc.Adjust(ctx, AdjustInput{
		ProductCode:    in.ProductCode,
		VariantSKU:     in.VariantSKU,
		QuantityChange: in.QuantityChange,
		AdjustmentType: in.MovementType,
		Reason:         in.Reason,
		Actor:          actor,
	})
}

// Adjust bloquea el producto/variante, verifica que el resultado no sea negativo,
// registra el movimiento y aplica el delta al contador.
func (uc *AdjustUseCase) Adjust(ctx context.Context, in AdjustInput) (*dto.StockAdjustResponse, error) {
	at, ok := entity.ParseAdjustmentType(strings.TrimSpace(in.AdjustmentType))
	if !ok {
		return nil, fmt.Errorf("%w: movement_type %q no permitido para ajustes manuales", domain.ErrInvalidInput, in.AdjustmentType)
	}
	if in.QuantityChange == 0 {
		return nil, fmt.Errorf("%w: quantity_change no puede ser 0", domain.ErrInvalidInput)
	}
	if !at.AcceptsDelta(in.QuantityChange) {
		return nil, fmt.Errorf("%w: %s no admite quantity_change %d", domain.ErrInvalidInput, at, in.QuantityChange)
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason requerido", domain.ErrInvalidInput)
	}

	var out dto.StockAdjustResponse
	err := uc.ledger.Run(ctx, uc.txRunner, func(r Repos) error {
		product, variant, err := resolveTarget(ctx, r, in.ProductCode, in.VariantSKU)
		if err != nil {
			return err
		}
		if currentStock(product, variant)+in.QuantityChange < 0 {
			return fmt.Errorf("%w: stock actual %d, ajuste %d", domain.ErrInsufficientStock, currentStock(product, variant), in.QuantityChange)
		}
		id, qty, err := ApplyMovement(ctx, r, uc.ledger, MovementInput{
			ProductID:      product.ID,
			VariantID:      variantID(variant),
			RelatedUserID:  in.Actor.UserID,
			Type:           at.MovementType(in.QuantityChange),
			QuantityChange: in.QuantityChange,
			AdjustmentType: string(at),
			Reason:         reason,
		})
		if err != nil {
			return err
		}
		out = dto.StockAdjustResponse{MovementID: id, NewQuantity: qty}
		return nil
	})

	entry := entity.AuditLog{
		Action:     "inventory.adjust",
		UserID:     in.Actor.UserID,
		TargetType: "product",
		TargetID:   in.ProductCode,
		Details: map[string]any{
			"variant_sku":     in.VariantSKU,
			"quantity_change": in.QuantityChange,
			"movement_type":   string(at),
			"reason":          reason,
		},
		Status:    entity.AuditStatusSuccess,
		IPAddress: in.Actor.IP,
	}
	if err != nil {
		entry.Status = entity.AuditStatusFailure
		entry.Details["error"] = err.Error()
		uc.audit.Log(ctx, entry)
		return nil, err
	}
	uc.audit.Log(ctx, entry)
	return &out, nil
}
