package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trufas-inventario-api/internal/application/dto"
	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
	"github.com/jhoicas/trufas-inventario-api/internal/domain/entity"
)

// OrderHandler expone el flujo de stock de pedidos: reserva, liberación y venta.
type OrderHandler struct {
	uc *inventory.OrderStockUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *inventory.OrderStockUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// VariantStockResult resultado de una venta o devolución por variante.
type VariantStockResult struct {
	SKU         string `json:"sku"`
	OrderID     string `json:"order_id"`
	NewQuantity int    `json:"new_quantity"`
}

type itemOp func(ctx context.Context, uid, orderID string, actor inventory.Actor) (*entity.SerializedInventoryItem, error)

type variantOp func(ctx context.Context, sku, orderID string, qty int, actor inventory.Actor) (int, error)

// AllocateItem godoc
// @Summary      Reservar un artículo para un pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        order_id  path  string  true  "ID del pedido"
// @Param        uid       path  string  true  "item_uid"
// @Success      200  {object}  dto.SerializedItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/orders/{order_id}/items/{uid}/allocate [post]
func (h *OrderHandler) AllocateItem(c *fiber.Ctx) error {
	return h.itemAction(c, h.uc.AllocateItem)
}

// ReleaseItem godoc
// @Summary      Liberar la reserva de un artículo
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        order_id  path  string  true  "ID del pedido"
// @Param        uid       path  string  true  "item_uid"
// @Success      200  {object}  dto.SerializedItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/orders/{order_id}/items/{uid}/release [post]
func (h *OrderHandler) ReleaseItem(c *fiber.Ctx) error {
	return h.itemAction(c, h.uc.ReleaseItem)
}

// SellItem godoc
// @Summary      Vender un artículo (reservado o disponible)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        order_id  path  string  true  "ID del pedido"
// @Param        uid       path  string  true  "item_uid"
// @Success      200  {object}  dto.SerializedItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/orders/{order_id}/items/{uid}/sell [post]
func (h *OrderHandler) SellItem(c *fiber.Ctx) error {
	return h.itemAction(c, h.uc.SellItem)
}

func (h *OrderHandler) itemAction(c *fiber.Ctx, op itemOp) error {
	item, err := op(c.UserContext(), c.Params("uid"), c.Params("order_id"), actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToItemResponse(item))
}

// SellVariant godoc
// @Summary      Vender unidades de una variante
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        order_id  path  string  true  "ID del pedido"
// @Param        sku       path  string  true  "SKU de la variante"
// @Param        body      body  dto.OrderVariantRequest  false  "quantity (por defecto 1)"
// @Success      200  {object}  VariantStockResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/orders/{order_id}/variants/{sku}/sell [post]
func (h *OrderHandler) SellVariant(c *fiber.Ctx) error {
	return h.variantAction(c, h.uc.SellVariant)
}

// ReturnVariant godoc
// @Summary      Devolver unidades de una variante
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        order_id  path  string  true  "ID del pedido"
// @Param        sku       path  string  true  "SKU de la variante"
// @Param        body      body  dto.OrderVariantRequest  false  "quantity (por defecto 1)"
// @Success      200  {object}  VariantStockResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/orders/{order_id}/variants/{sku}/return [post]
func (h *OrderHandler) ReturnVariant(c *fiber.Ctx) error {
	return h.variantAction(c, h.uc.ReturnVariant)
}

func (h *OrderHandler) variantAction(c *fiber.Ctx, op variantOp) error {
	in := dto.OrderVariantRequest{Quantity: 1}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	sku, orderID := c.Params("sku"), c.Params("order_id")
	qty, err := op(c.UserContext(), sku, orderID, in.Quantity, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(VariantStockResult{SKU: sku, OrderID: orderID, NewQuantity: qty})
}
