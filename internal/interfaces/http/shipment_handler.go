package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-ops-api/internal/application/dto"
	"github.com/jhoicas/warehouse-ops-api/internal/application/shipment"
	"github.com/jhoicas/warehouse-ops-api/internal/domain"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/repository"
)

// ShipmentHandler maneja las peticiones HTTP del libro de envíos (protegido).
type ShipmentHandler struct {
	uc *shipment.ShipmentUseCase
}

// NewShipmentHandler construye el handler.
func NewShipmentHandler(uc *shipment.ShipmentUseCase) *ShipmentHandler {
	return &ShipmentHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar un envío
// @Description  Transaccional: asigna inventario agotando caja completa antes que
//
//	mixta, descuenta unidades con bloqueo de fila y escribe líneas y
//	relaciones con los lotes de demanda. order_item_id <= 0 marca línea
//	manual (lote sintético MANUAL-<timestamp>).
//
// @Tags         shipments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShipmentRequest  true  "lines, shipping_method, remark"
// @Success      201   {object}  dto.ShipmentDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shipments [post]
func (h *ShipmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rec, err := h.uc.CreateShipment(c.Context(), shipment.CreateInput{
		Operator:       GetUserID(c),
		Lines:          in.Lines,
		ShippingMethod: in.ShippingMethod,
		Remark:         in.Remark,
	})
	if err != nil {
		return shipmentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ShipmentDTO{
		ID:             rec.ID,
		ShipmentNumber: rec.ShipmentNumber,
		Operator:       rec.Operator,
		TotalBoxes:     rec.TotalBoxes,
		TotalItems:     rec.TotalItems,
		Status:         rec.Status,
		ShippingMethod: rec.ShippingMethod,
		Remark:         rec.Remark,
		CreatedAt:      rec.CreatedAt,
		ShippedAt:      rec.ShippedAt,
	})
}

// Delete godoc
// @Summary      Revertir un envío
// @Description  Inverso exacto de la creación: restaura el inventario descontado
//
//	usando las asignaciones por unidad y borra el envío. Idempotente
//	frente a reintentos: la segunda invocación devuelve 404.
//
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del envío"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/shipments/{id} [delete]
func (h *ShipmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteShipment(c.Context(), c.Params("id")); err != nil {
		return shipmentError(c, err)
	}
	return c.JSON(fiber.Map{"message": "envío revertido"})
}

// MarkShipped godoc
// @Summary      Marcar un envío como despachado
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del envío"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/shipments/{id}/ship [post]
func (h *ShipmentHandler) MarkShipped(c *fiber.Ctx) error {
	if err := h.uc.MarkShipped(c.Context(), c.Params("id")); err != nil {
		return shipmentError(c, err)
	}
	return c.JSON(fiber.Map{"message": "envío despachado"})
}

// List godoc
// @Summary      Historial de envíos
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        from      query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        to        query  string  false  "YYYY-MM-DD (exclusivo)"
// @Param        operator  query  string  false  "filtrar por operador"
// @Param        status    query  string  false  "preparing | shipped | cancelled"
// @Param        limit     query  int     false  "tamaño de página (def. 20)"
// @Param        offset    query  int     false  "desplazamiento"
// @Success      200   {array}   dto.ShipmentDTO
// @Router       /api/shipments [get]
func (h *ShipmentHandler) List(c *fiber.Ctx) error {
	var in dto.ListShipmentsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	in.DefaultPage()

	filter := repository.ShipmentFilter{Operator: in.Operator, Status: in.Status}
	if in.From != "" {
		from, err := time.Parse("2006-01-02", in.From)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (YYYY-MM-DD)"})
		}
		filter.From = &from
	}
	if in.To != "" {
		to, err := time.Parse("2006-01-02", in.To)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (YYYY-MM-DD)"})
		}
		filter.To = &to
	}

	list, err := h.uc.ListShipments(c.Context(), filter, in.Limit, in.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(list), "shipments": list})
}

// GetDetail godoc
// @Summary      Detalle de un envío
// @Tags         shipments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del envío"
// @Success      200   {object}  dto.ShipmentDetailDTO
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/shipments/{id} [get]
func (h *ShipmentHandler) GetDetail(c *fiber.Ctx) error {
	detail, err := h.uc.GetShipmentDetail(c.Context(), c.Params("id"))
	if err != nil {
		return shipmentError(c, err)
	}
	return c.JSON(detail)
}

func shipmentError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case domain.ErrInvalidQuantity:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "la cantidad supera el pendiente de la demanda"})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
