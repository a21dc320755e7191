package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

// SetStatusInput entrada para cambiar el estado de un artículo desde administración.
type SetStatusInput struct {
	ItemUID string
	Status  string
	Notes   string
	Actor   Actor
}

// ItemStatusUseCase gestiona los cambios de estado administrativos de artículos serializados.
type ItemStatusUseCase struct {
	txRunner TxRunner
	ledger   *Ledger
	audit    AuditLogger
}

// NewItemStatusUseCase construye el caso de uso.
func NewItemStatusUseCase(txRunner TxRunner, ledger *Ledger, audit AuditLogger) *ItemStatusUseCase {
	if audit == nil {
		audit = NopAuditLogger{}
	}
	return &ItemStatusUseCase{txRunner: txRunner, ledger: ledger, audit: audit}
}

// SetStatus valida el estado destino y aplica la transición. Si el estado no cambia
// es un no-op exitoso. Cruzar la frontera de available mueve el contador ±1. Los
// artículos asignados a un pedido no se modifican desde aquí.
func (uc *ItemStatusUseCase) SetStatus(ctx context.Context, in SetStatusInput) (*entity.SerializedInventoryItem, error) {
	target, ok := entity.ParseItemStatus(strings.TrimSpace(in.Status))
	if !ok || !target.IsAdminSettable() {
		return nil, fmt.Errorf("%w: estado %q no permitido", domain.ErrInvalidInput, in.Status)
	}
	uid := strings.TrimSpace(in.ItemUID)
	if uid == "" {
		return nil, fmt.Errorf("%w: item_uid requerido", domain.ErrInvalidInput)
	}

	var result *entity.SerializedInventoryItem
	var from entity.ItemStatus
	err := uc.ledger.Run(ctx, uc.txRunner, func(r Repos) error {
		item, err := r.Items.GetByUIDForUpdate(ctx, uid)
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("%w: artículo %s", domain.ErrNotFound, uid)
		}
		from = item.Status
		// Un artículo asignado solo sale por el flujo del pedido (release o sell)
		if item.Status == entity.ItemStatusAllocated {
			return fmt.Errorf("%w: el artículo está asignado al pedido %s", domain.ErrInvalidTransition, item.OrderID)
		}
		result = item
		return transitionItem(ctx, r, uc.ledger, item, transition{
			To:    target,
			Actor: in.Actor.UserID,
			Notes: in.Notes,
		})
	})

	entry := entity.AuditLog{
		Action:     "inventory.item_status",
		UserID:     in.Actor.UserID,
		TargetType: "serialized_item",
		TargetID:   uid,
		Details:    map[string]any{"from": string(from), "to": string(target)},
		Status:     entity.AuditStatusSuccess,
		IPAddress:  in.Actor.IP,
	}
	if err != nil {
		entry.Status = entity.AuditStatusFailure
		entry.Details["error"] = err.Error()
		uc.audit.Log(ctx, entry)
		return nil, err
	}
	if from != target {
		uc.audit.Log(ctx, entry)
	}
	return result, nil
}
