package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trufas-inventario-api/internal/application/inventory"
)

// PassportHandler sirve el pasaporte público de cada artículo (sin auth): es el destino del QR.
type PassportHandler struct {
	query *inventory.StockQueryUseCase
}

// NewPassportHandler construye el handler.
func NewPassportHandler(query *inventory.StockQueryUseCase) *PassportHandler {
	return &PassportHandler{query: query}
}

// Get godoc
// @Summary      Pasaporte público del artículo
// @Tags         passport
// @Produce      html
// @Param        uid  path  string  true  "item_uid"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /passport/{uid} [get]
func (h *PassportHandler) Get(c *fiber.Ctx) error {
	data, contentType, err := h.query.ItemAsset(c.UserContext(), c.Params("uid"), inventory.AssetPassport)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=300")
	return c.Send(data)
}
