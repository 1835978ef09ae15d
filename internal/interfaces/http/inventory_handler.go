package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-ops-api/internal/application/dto"
	"github.com/jhoicas/warehouse-ops-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-ops-api/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP de unidades de inventario (protegido).
type InventoryHandler struct {
	uc     *inventory.InventoryUseCase
	repair *inventory.RepairUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.InventoryUseCase, repair *inventory.RepairUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, repair: repair}
}

// CreateUnit godoc
// @Summary      Registrar una unidad empacada de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUnitRequest  true  "sku, country, box_type, total_quantity, total_boxes"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/units [post]
func (h *InventoryHandler) CreateUnit(c *fiber.Ctx) error {
	var in dto.CreateUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	unit, err := h.uc.CreateUnit(c.Context(), in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": unit.ID, "status": unit.Status})
}

// GetAvailability godoc
// @Summary      Disponibilidad de un SKU en un país
// @Description  Recalculada sobre estado vivo en cada petición; separa caja completa
//
//	de caja mixta y cuenta cajas completas disponibles.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        sku      query  string  true  "SKU local"
// @Param        country  query  string  true  "país de destino"
// @Success      200   {object}  dto.AvailabilityDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/availability [get]
func (h *InventoryHandler) GetAvailability(c *fiber.Ctx) error {
	av, err := h.uc.GetAvailability(c.Context(), c.Query("sku"), c.Query("country"))
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sku y country son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(av)
}

// CancelUnit godoc
// @Summary      Cancelar una unidad de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la unidad"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/units/{id} [delete]
func (h *InventoryHandler) CancelUnit(c *fiber.Ctx) error {
	if err := h.uc.CancelUnit(c.Context(), c.Params("id")); err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "unidad no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "unidad cancelada"})
}

// Repair godoc
// @Summary      Ejecutar el pase de reparación de consistencia
// @Description  Corrige, en una transacción, los status de unidades que no coincidan
//
//	con el derivado de sus cantidades. Idempotente.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200   {object}  dto.RepairResultDTO
// @Router       /api/inventory/repair [post]
func (h *InventoryHandler) Repair(c *fiber.Ctx) error {
	result, err := h.repair.Repair(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(result)
}
