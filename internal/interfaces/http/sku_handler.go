package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-ops-api/internal/application/dto"
	"github.com/jhoicas/warehouse-ops-api/internal/application/skus"
	"github.com/jhoicas/warehouse-ops-api/internal/domain"
)

// SkuHandler maneja el CRUD de mapeos de SKU (protegido).
type SkuHandler struct {
	uc *skus.SkuUseCase
}

// NewSkuHandler construye el handler.
func NewSkuHandler(uc *skus.SkuUseCase) *SkuHandler {
	return &SkuHandler{uc: uc}
}

// Create godoc
// @Summary      Crear mapeo SKU local -> SKU de marketplace
// @Tags         skus
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SkuMappingRequest  true  "local_sku, amz_sku, marketplace, country"
// @Success      201   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/skus [post]
func (h *SkuHandler) Create(c *fiber.Ctx) error {
	var in dto.SkuMappingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mapping, err := h.uc.Create(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "local_sku, amz_sku y marketplace son requeridos"})
		}
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el mapeo ya existe para ese marketplace"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": mapping.ID})
}

// List godoc
// @Summary      Listar mapeos de SKU
// @Tags         skus
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "tamaño de página (def. 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200   {array}  map[string]string
// @Router       /api/skus [get]
func (h *SkuHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(list), "mappings": list})
}

// Delete godoc
// @Summary      Eliminar un mapeo de SKU
// @Tags         skus
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del mapeo"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/skus/{id} [delete]
func (h *SkuHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "mapeo no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "mapeo eliminado"})
}
