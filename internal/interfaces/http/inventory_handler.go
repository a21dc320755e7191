package http

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trufas-inventario-api/internal/application/dto"
	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
)

// InventoryHandler maneja artículos serializados, ajustes, consultas de stock,
// transferencia masiva y reconciliación (protegido).
type InventoryHandler struct {
	receive   *inventory.ReceiveUseCase
	status    *inventory.ItemStatusUseCase
	adjust    *inventory.AdjustUseCase
	query     *inventory.StockQueryUseCase
	bulk      *inventory.BulkTransferUseCase
	reconcile *inventory.ReconcileUseCase
}

// InventoryUseCases casos de uso que atiende InventoryHandler.
type InventoryUseCases struct {
	Receive   *inventory.ReceiveUseCase
	Status    *inventory.ItemStatusUseCase
	Adjust    *inventory.AdjustUseCase
	Query     *inventory.StockQueryUseCase
	Bulk      *inventory.BulkTransferUseCase
	Reconcile *inventory.ReconcileUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc InventoryUseCases) *InventoryHandler {
	return &InventoryHandler{
		receive:   uc.Receive,
		status:    uc.Status,
		adjust:    uc.Adjust,
		query:     uc.Query,
		bulk:      uc.Bulk,
		reconcile: uc.Reconcile,
	}
}

// Receive godoc
// @Summary      Recibir artículos serializados
// @Description  Crea N artículos available con sus activos (QR, pasaporte, etiqueta) y las filas del libro.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveSerializedRequest  true  "product_code, quantity, variant_sku, lote y fechas"
// @Success      201   {object}  dto.ReceiveSerializedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/serialized/receive [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveSerializedRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.receive.ReceiveFromRequest(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListItems godoc
// @Summary      Listar artículos serializados
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_code  query  string  false  "Filtrar por producto"
// @Param        status        query  string  false  "Filtrar por estado"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SerializedItemListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/serialized/items [get]
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	out, err := h.query.ListItems(c.UserContext(), c.Query("product_code"), c.Query("status"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetItem godoc
// @Summary      Obtener artículo serializado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        uid  path  string  true  "item_uid"
// @Success      200  {object}  dto.SerializedItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/serialized/items/{uid} [get]
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	out, err := h.query.GetItem(c.UserContext(), c.Params("uid"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de un artículo
// @Description  Solo estados administrativos; allocated y sold se alcanzan por el flujo de pedidos.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        uid   path  string  true  "item_uid"
// @Param        body  body  dto.UpdateItemStatusRequest  true  "status, notes"
// @Success      200   {object}  dto.SerializedItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/serialized/items/{uid}/status [put]
func (h *InventoryHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateItemStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	item, err := h.status.SetStatus(c.UserContext(), inventory.SetStatusInput{
		ItemUID: c.Params("uid"),
		Status:  in.Status,
		Notes:   in.Notes,
		Actor:   actorFrom(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToItemResponse(item))
}

// Label godoc
// @Summary      Descargar etiqueta PDF del artículo
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        uid  path  string  true  "item_uid"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/serialized/items/{uid}/label [get]
func (h *InventoryHandler) Label(c *fiber.Ctx) error {
	return h.sendAsset(c, inventory.AssetLabel, ".pdf")
}

// QRCode godoc
// @Summary      Descargar QR del artículo
// @Tags         inventory
// @Security     Bearer
// @Produce      image/png
// @Param        uid  path  string  true  "item_uid"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/serialized/items/{uid}/qr [get]
func (h *InventoryHandler) QRCode(c *fiber.Ctx) error {
	return h.sendAsset(c, inventory.AssetQRCode, ".png")
}

func (h *InventoryHandler) sendAsset(c *fiber.Ctx, kind, ext string) error {
	uid := c.Params("uid")
	data, contentType, err := h.query.ItemAsset(c.UserContext(), uid, kind)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s%s"`, uid, ext))
	return c.Send(data)
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  movement_type es el código de ajuste (ajustement_manuel, perte, addition, creation_lot,
//
//	decouverte_stock, retour_client, retour_non_commande, correction).
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustRequest  true  "product_code, variant_sku, quantity_change, movement_type, reason"
// @Success      200   {object}  dto.StockAdjustResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.StockAdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.adjust.AdjustFromRequest(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ProductStock godoc
// @Summary      Stock agregado de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código del producto"
// @Success      200   {object}  dto.ProductStockResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/product/{code} [get]
func (h *InventoryHandler) ProductStock(c *fiber.Ctx) error {
	out, err := h.query.ProductStock(c.UserContext(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial del libro de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_code  query  string  true   "Código del producto"
// @Param        variant_sku   query  string  false  "SKU de variante"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockMovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	out, err := h.query.ListMovements(c.UserContext(), c.Query("product_code"), c.Query("variant_sku"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar artículos serializados
// @Tags         inventory
// @Security     Bearer
// @Produce      text/csv
// @Param        format  query  string  false  "csv | xlsx"  default(csv)
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/export/serialized_items [get]
func (h *InventoryHandler) Export(c *fiber.Ctx) error {
	format, err := inventory.ParseFormat(c.Query("format"))
	if err != nil {
		return respondError(c, err)
	}
	var buf bytes.Buffer
	if _, err := h.bulk.Export(c.UserContext(), &buf, format); err != nil {
		return respondError(c, err)
	}
	contentType := "text/csv; charset=utf-8"
	if format == inventory.FormatXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	filename := fmt.Sprintf("serialized_items_%s.%s", time.Now().UTC().Format("20060102"), format)
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// Import godoc
// @Summary      Importar artículos serializados
// @Description  Una transacción por fila; las filas fallidas se devuelven con su número y mensaje.
// @Tags         inventory
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file    formData  file    true   "Archivo CSV o XLSX"
// @Param        format  query     string  false  "csv | xlsx (por defecto según extensión)"
// @Success      200  {object}  dto.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/import/serialized_items [post]
func (h *InventoryHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "campo multipart \"file\" requerido"})
	}
	formatParam := c.Query("format")
	if formatParam == "" {
		formatParam = formatFromFilename(fh.Filename)
	}
	format, err := inventory.ParseFormat(formatParam)
	if err != nil {
		return respondError(c, err)
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.bulk.Import(c.UserContext(), data, format, actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar contadores contra el libro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        fix  query  bool  false  "Reescribir los contadores desviados"  default(false)
// @Success      200  {object}  dto.ReconcileReport
// @Router       /api/inventory/reconcile [post]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.reconcile.Run(c.UserContext(), c.QueryBool("fix", false), actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func formatFromFilename(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return inventory.FormatXLSX
	}
	return inventory.FormatCSV
}
