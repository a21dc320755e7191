package inventory

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/trufas-inventario-api/internal/domain"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/repository"
)

const (
	uidSuffixLen   = 8
	uidAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	uidMaxAttempts = 10
)

// ApplyMovement registra la fila del libro y aplica el mismo delta al contador
// (variante si in.VariantID no es vacío, producto en otro caso). Devuelve el nuevo contador.
func ApplyMovement(ctx context.Context, r Repos, ledger *Ledger, in MovementInput) (string, int, error) {
	id, err := ledger.Record(ctx, r.Movements, in)
	if err != nil {
		return "", 0, err
	}
	if in.QuantityChange == 0 {
		return id, 0, nil
	}
	var qty int
	if in.VariantID != "" {
		qty, err = r.Variants.AddStock(ctx, in.VariantID, in.QuantityChange)
	} else {
		qty, err = r.Products.AddStock(ctx, in.ProductID, in.QuantityChange)
	}
	if err != nil {
		return "", 0, err
	}
	return id, qty, nil
}

// statusMovementType tipo de movimiento para un cambio de estado que cruza available.
func statusMovementType(to entity.ItemStatus) entity.MovementType {
	switch to {
	case entity.ItemStatusAvailable:
		return entity.MovementAdjustmentIn
	case entity.ItemStatusDamaged:
		return entity.MovementDamage
	case entity.ItemStatusRecalled:
		return entity.MovementRecall
	case entity.ItemStatusAllocated, entity.ItemStatusSold:
		return entity.MovementSale
	}
	return entity.MovementAdjustmentOut
}

// transition describe un cambio de estado de un artículo.
type transition struct {
	To      entity.ItemStatus
	Actor   string
	Notes   string
	OrderID string
	// Movement fuerza el tipo de movimiento; vacío = derivado del estado destino.
	Movement entity.MovementType
}

// transitionItem cambia el estado de un artículo bloqueado, agrega la nota y, si cruza la
// frontera de available, mueve el contador ±1 con su fila en el libro.
func transitionItem(ctx context.Context, r Repos, ledger *Ledger, item *entity.SerializedInventoryItem, tr transition) error {
	from := item.Status
	if from == tr.To {
		return nil
	}
	if !entity.CanTransition(from, tr.To) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, tr.To)
	}
	now := time.Now().UTC()
	item.Notes = appendNote(item.Notes, now, tr.Actor, fmt.Sprintf("%s -> %s", from, tr.To), tr.Notes)
	item.Status = tr.To
	item.UpdatedAt = now
	if tr.OrderID != "" {
		item.OrderID = tr.OrderID
	}
	if tr.To == entity.ItemStatusAvailable {
		item.OrderID = ""
	}
	if err := r.Items.Update(ctx, item); err != nil {
		return err
	}

	delta := entity.AvailabilityDelta(from, tr.To)
	if delta == 0 {
		return nil
	}
	mt := tr.Movement
	if mt == "" {
		mt = statusMovementType(tr.To)
	}
	_, _, err := ApplyMovement(ctx, r, ledger, MovementInput{
		ProductID:        item.ProductID,
		VariantID:        item.VariantID,
		SerializedItemID: item.ID,
		RelatedOrderID:   tr.OrderID,
		RelatedUserID:    tr.Actor,
		Type:             mt,
		QuantityChange:   delta,
		Reason:           fmt.Sprintf("estado %s -> %s", from, tr.To),
		Notes:            tr.Notes,
	})
	return err
}

// appendNote agrega una línea con marca de tiempo y actor a la bitácora del artículo.
func appendNote(existing string, at time.Time, actor, event, notes string) string {
	if actor == "" {
		actor = "system"
	}
	line := fmt.Sprintf("[%s] %s: %s", at.UTC().Format("2006-01-02 15:04:05 UTC"), actor, event)
	if notes = strings.TrimSpace(notes); notes != "" {
		line += " - " + notes
	}
	if existing == "" {
		return line
	}
	return existing + "\n" + line
}

// newItemUID genera {product_code}-{8 caracteres [A-Z0-9]}.
func newItemUID(productCode string) (string, error) {
	buf := make([]byte, uidSuffixLen)
	out := make([]byte, 0, uidSuffixLen)
	limit := byte(256 - 256%len(uidAlphabet))
	for len(out) < uidSuffixLen {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generar uid: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, uidAlphabet[int(b)%len(uidAlphabet)])
			if len(out) == uidSuffixLen {
				break
			}
		}
	}
	return productCode + "-" + string(out), nil
}

// mintItemUID genera un UID que no exista en BD ni en el lote en curso; re-sortea ante colisión.
func mintItemUID(ctx context.Context, items repository.SerializedItemRepository, productCode string, taken map[string]bool) (string, error) {
	for i := 0; i < uidMaxAttempts; i++ {
		uid, err := newItemUID(productCode)
		if err != nil {
			return "", err
		}
		if taken[uid] {
			continue
		}
		exists, err := items.ExistsUID(ctx, uid)
		if err != nil {
			return "", err
		}
		if !exists {
			if taken != nil {
				taken[uid] = true
			}
			return uid, nil
		}
	}
	return "", fmt.Errorf("%w: no se pudo generar un item_uid único para %s", domain.ErrConflict, productCode)
}

// resolveTarget resuelve producto y variante (bloqueados) para un cambio de stock.
// Un producto variable_weight exige variante; uno simple la rechaza.
func resolveTarget(ctx context.Context, r Repos, productCode, variantSKU string) (*entity.Product, *entity.ProductWeightOption, error) {
	productCode = strings.TrimSpace(productCode)
	if productCode == "" {
		return nil, nil, fmt.Errorf("%w: product_code requerido", domain.ErrInvalidInput)
	}
	product, err := r.Products.GetByCodeForUpdate(ctx, productCode)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productCode)
	}
	variantSKU = strings.TrimSpace(variantSKU)
	if variantSKU == "" {
		if product.IsVariableWeight() {
			return nil, nil, fmt.Errorf("%w: el producto %s requiere variant_sku", domain.ErrInvalidInput, productCode)
		}
		return product, nil, nil
	}
	if !product.IsVariableWeight() {
		return nil, nil, fmt.Errorf("%w: el producto %s no tiene variantes", domain.ErrInvalidInput, productCode)
	}
	variant, err := r.Variants.GetBySKUForUpdate(ctx, variantSKU)
	if err != nil {
		return nil, nil, err
	}
	if variant == nil || variant.ProductID != product.ID {
		return nil, nil, fmt.Errorf("%w: variante %s del producto %s", domain.ErrNotFound, variantSKU, productCode)
	}
	return product, variant, nil
}

// currentStock contador que modificaría un cambio sobre (product, variant).
func currentStock(product *entity.Product, variant *entity.ProductWeightOption) int {
	if variant != nil {
		return variant.AggregateStockQuantity
	}
	return product.StockQuantity
}

func variantID(v *entity.ProductWeightOption) string {
	if v == nil {
		return ""
	}
	return v.ID
}
