package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

// OrderStockUseCase efectos de stock del flujo de pedidos: asignación y venta de artículos
// serializados, y venta/devolución de variantes por peso.
type OrderStockUseCase struct {
	txRunner TxRunner
	ledger   *Ledger
	audit    AuditLogger
}

// NewOrderStockUseCase construye el caso de uso.
func NewOrderStockUseCase(txRunner TxRunner, ledger *Ledger, audit AuditLogger) *OrderStockUseCase {
	if audit == nil {
		audit = NopAuditLogger{}
	}
	return &OrderStockUseCase{txRunner: txRunner, ledger: ledger, audit: audit}
}

// AllocateItem reserva un artículo available para un pedido (contador -1, movimiento sale).
func (uc *OrderStockUseCase) AllocateItem(ctx context.Context, uid, orderID string, actor Actor) (*entity.SerializedInventoryItem, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, fmt.Errorf("%w: order_id requerido", domain.ErrInvalidInput)
	}
	return uc.itemTransition(ctx, "order.allocate", uid, actor, transition{
		To:      entity.ItemStatusAllocated,
		Actor:   actor.UserID,
		OrderID: orderID,
		Notes:   "pedido " + orderID,
	})
}

// ReleaseItem devuelve un artículo asignado a available (contador +1, movimiento return).
func (uc *OrderStockUseCase) ReleaseItem(ctx context.Context, uid, orderID string, actor Actor) (*entity.SerializedInventoryItem, error) {
	return uc.itemTransitionFrom(ctx, "order.release", uid, actor, entity.ItemStatusAllocated, orderID, transition{
		To:       entity.ItemStatusAvailable,
		Actor:    actor.UserID,
		OrderID:  orderID,
		Notes:    "liberado del pedido " + orderID,
		Movement: entity.MovementReturn,
	})
}

// SellItem marca un artículo como vendido. Desde allocated no cambia el contador
// (ya se descontó al asignar); desde available descuenta 1 con movimiento sale.
func (uc *OrderStockUseCase) SellItem(ctx context.Context, uid, orderID string, actor Actor) (*entity.SerializedInventoryItem, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, fmt.Errorf("%w: order_id requerido", domain.ErrInvalidInput)
	}
	return uc.itemTransition(ctx, "order.sell", uid, actor, transition{
		To:      entity.ItemStatusSold,
		Actor:   actor.UserID,
		OrderID: orderID,
		Notes:   "vendido en pedido " + orderID,
	})
}

func (uc *OrderStockUseCase) itemTransition(ctx context.Context, action, uid string, actor Actor, tr transition) (*entity.SerializedInventoryItem, error) {
	return uc.itemTransitionFrom(ctx, action, uid, actor, "", tr.OrderID, tr)
}

// itemTransitionFrom aplica tr; si required no es vacío el artículo debe estar en ese estado
// y, si orderID no es vacío, pertenecer a ese pedido.
func (uc *OrderStockUseCase) itemTransitionFrom(ctx context.Context, action, uid string, actor Actor, required entity.ItemStatus, orderID string, tr transition) (*entity.SerializedInventoryItem, error) {
	uid = strings.TrimSpace(uid)
	var result *entity.SerializedInventoryItem
	err := uc.ledger.Run(ctx, uc.txRunner, func(r Repos) error {
		item, err := r.Items.GetByUIDForUpdate(ctx, uid)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, uid)
		}
		if item.Status == tr.To {
			return fmt.Errorf("%w: el artículo ya está en estado %s", domain.ErrConflict, tr.To)
		}
		if required != "" && item.Status != required {
			return fmt.Errorf("%w: el artículo está en estado %s", domain.ErrInvalidTransition, item.Status)
		}
		if item.Status == entity.ItemStatusAllocated && item.OrderID != "" && orderID != "" && item.OrderID != orderID {
			return fmt.Errorf("%w: el artículo está asignado al pedido %s", domain.ErrConflict, item.OrderID)
		}
		result = item
		return transitionItem(ctx, r, uc.ledger, item, tr)
	})
	uc.logOrder(ctx, action, "serialized_item", uid, orderID, actor, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SellVariant descuenta qty del contador de la variante (movimiento sale).
func (uc *OrderStockUseCase) SellVariant(ctx context.Context, sku, orderID string, qty int, actor Actor) (int, error) {
	return uc.moveVariant(ctx, "order.sell_variant", sku, orderID, -qty, entity.MovementSale, actor)
}

// ReturnVariant suma qty al contador de la variante (movimiento return).
func (uc *OrderStockUseCase) ReturnVariant(ctx context.Context, sku, orderID string, qty int, actor Actor) (int, error) {
	return uc.moveVariant(ctx, "order.return_variant", sku, orderID, qty, entity.MovementReturn, actor)
}

func (uc *OrderStockUseCase) moveVariant(ctx context.Context, action, sku, orderID string, delta int, mt entity.MovementType, actor Actor) (int, error) {
	if delta == 0 {
		return 0, fmt.Errorf("%w: quantity debe ser >= 1", domain.ErrInvalidInput)
	}
	if mt == entity.MovementSale && delta > 0 || mt == entity.MovementReturn && delta < 0 {
		return 0, fmt.Errorf("%w: quantity debe ser >= 1", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(orderID) == "" {
		return 0, fmt.Errorf("%w: order_id requerido", domain.ErrInvalidInput)
	}
	var newQty int
	err := uc.ledger.Run(ctx, uc.txRunner, func(r Repos) error {
		variant, err := r.Variants.GetBySKUForUpdate(ctx, strings.TrimSpace(sku))
		if err != nil {
			return err
		}
		if variant == nil {
			return fmt.Errorf("%w: variante %s", domain.ErrNotFound, sku)
		}
		if variant.AggregateStockQuantity+delta < 0 {
			return fmt.Errorf("%w: variante %s tiene %d unidades", domain.ErrInsufficientStock, sku, variant.AggregateStockQuantity)
		}
		_, newQty, err = ApplyMovement(ctx, r, uc.ledger, MovementInput{
			ProductID:      variant.ProductID,
			VariantID:      variant.ID,
			RelatedOrderID: orderID,
			RelatedUserID:  actor.UserID,
			Type:           mt,
			QuantityChange: delta,
			Reason:         "pedido " + orderID,
		})
		return err
	})
	uc.logOrder(ctx, action, "variant", sku, orderID, actor, err)
	if err != nil {
		return 0, err
	}
	return newQty, nil
}

func (uc *OrderStockUseCase) logOrder(ctx context.Context, action, targetType, targetID, orderID string, actor Actor, err error) {
	entry := entity.AuditLog{
		Action:     action,
		UserID:     actor.UserID,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    map[string]any{"order_id": orderID},
		Status:     entity.AuditStatusSuccess,
		IPAddress:  actor.IP,
	}
	if err != nil {
		entry.Status = entity.AuditStatusFailure
		entry.Details["error"] = err.Error()
	}
	uc.audit.Log(ctx, entry)
}
