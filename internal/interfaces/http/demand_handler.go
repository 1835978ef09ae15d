package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-ops-api/internal/application/demand"
	"github.com/jhoicas/warehouse-ops-api/internal/application/dto"
	"github.com/jhoicas/warehouse-ops-api/internal/domain"
)

// DemandHandler maneja las peticiones HTTP del libro de demanda (protegido).
type DemandHandler struct {
	uc *demand.DemandUseCase
}

// NewDemandHandler construye el handler.
func NewDemandHandler(uc *demand.DemandUseCase) *DemandHandler {
	return &DemandHandler{uc: uc}
}

// Submit godoc
// @Summary      Enviar demanda (con protocolo de resolución de conflictos)
// @Description  Sin conflictos crea el lote. Con conflictos y sin resoluciones devuelve
//
//	409 con la lista; el caller reenvía con una resolución (add/replace/new)
//	por SKU. Las resoluciones se aplican una a una y el reporte distingue
//	éxito parcial de fallo total.
//
// @Tags         demand
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitDemandRequest  true  "lines, country, marketplace, shipping_method, resolutions"
// @Success      201   {object}  dto.SubmitDemandResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.SubmitDemandResponse
// @Router       /api/demand [post]
func (h *DemandHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitDemandRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.Submit(c.Context(), demand.SubmitInput{
		Lines:          in.Lines,
		Country:        in.Country,
		Marketplace:    in.Marketplace,
		ShippingMethod: in.ShippingMethod,
		Deadline:       in.Deadline,
		Resolutions:    in.Resolutions,
		CreatedBy:      GetUserID(c),
	})
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if err == domain.ErrConflictUnresolved {
			return c.Status(fiber.StatusConflict).JSON(toSubmitResponse(result))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(toSubmitResponse(result))
}

// SetQuantity godoc
// @Summary      Editar la cantidad de una línea de demanda
// @Description  El piso es lo ya enviado: bajar por debajo devuelve 409 INVALID_QUANTITY.
// @Tags         demand
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        record_num  path  int  true  "record_num de la línea"
// @Param        body  body  dto.SetQuantityRequest  true  "quantity"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/demand/lines/{record_num}/quantity [put]
func (h *DemandHandler) SetQuantity(c *fiber.Ctx) error {
	recordNum, err := strconv.ParseInt(c.Params("record_num"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "record_num inválido"})
	}
	var in dto.SetQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetQuantity(c.Context(), recordNum, in.Quantity); err != nil {
		return demandError(c, err)
	}
	return c.JSON(fiber.Map{"message": "cantidad actualizada"})
}

// DeleteLine godoc
// @Summary      Borrar una línea de demanda
// @Description  Con envíos vinculados degrada a cierre suave (cantidad = enviado).
// @Tags         demand
// @Security     Bearer
// @Produce      json
// @Param        record_num  path  int  true  "record_num de la línea"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/demand/lines/{record_num} [delete]
func (h *DemandHandler) DeleteLine(c *fiber.Ctx) error {
	recordNum, err := strconv.ParseInt(c.Params("record_num"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "record_num inválido"})
	}
	if err := h.uc.DeleteLine(c.Context(), recordNum); err != nil {
		return demandError(c, err)
	}
	return c.JSON(fiber.Map{"message": "línea eliminada"})
}

// DeleteBatch godoc
// @Summary      Borrar un lote de demanda completo
// @Tags         demand
// @Security     Bearer
// @Produce      json
// @Param        need_num  path  string  true  "need_num del lote"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/demand/{need_num} [delete]
func (h *DemandHandler) DeleteBatch(c *fiber.Ctx) error {
	if err := h.uc.DeleteBatch(c.Context(), c.Params("need_num")); err != nil {
		return demandError(c, err)
	}
	return c.JSON(fiber.Map{"message": "lote eliminado"})
}

// ListBatches godoc
// @Summary      Listar lotes de demanda
// @Tags         demand
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | partially-fulfilled | fully-fulfilled"
// @Param        limit   query  int     false  "tamaño de página (def. 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200   {array}   dto.DemandBatchDTO
// @Router       /api/demand [get]
func (h *DemandHandler) ListBatches(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()
	batches, err := h.uc.ListBatches(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(batches), "batches": batches})
}

// GetBatchDetail godoc
// @Summary      Detalle de un lote con vista de asignación
// @Description  Cada línea incluye disponibilidad por empaque, faltante y porcentaje
//
//	de cumplimiento, recalculados sobre estado vivo.
//
// @Tags         demand
// @Security     Bearer
// @Produce      json
// @Param        need_num  path  string  true  "need_num del lote"
// @Success      200   {object}  dto.DemandBatchDetailDTO
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/demand/{need_num} [get]
func (h *DemandHandler) GetBatchDetail(c *fiber.Ctx) error {
	detail, err := h.uc.GetBatchDetail(c.Context(), c.Params("need_num"))
	if err != nil {
		return demandError(c, err)
	}
	return c.JSON(detail)
}

func demandError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "demanda no encontrada"})
	case domain.ErrInvalidQuantity:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "cantidad menor a lo ya enviado"})
	case domain.ErrHasShipments:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "HAS_SHIPMENTS", Message: "el lote tiene envíos vinculados"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func toSubmitResponse(r *demand.SubmitResult) dto.SubmitDemandResponse {
	if r == nil {
		return dto.SubmitDemandResponse{}
	}
	out := dto.SubmitDemandResponse{NeedNum: r.NeedNum}
	for _, cf := range r.Conflicts {
		out.Conflicts = append(out.Conflicts, dto.ConflictDTO{
			SKU:               cf.SKU,
			ExistingRecordNum: cf.ExistingRecordNum,
			ExistingRemaining: cf.ExistingRemaining,
			CandidateQuantity: cf.CandidateQuantity,
		})
	}
	for _, a := range r.Applied {
		out.Applied = append(out.Applied, dto.ResolutionOutcomeDTO{
			SKU: a.SKU, Action: a.Action, RecordNum: a.RecordNum,
		})
	}
	for _, f := range r.Failed {
		out.Failed = append(out.Failed, dto.ResolutionOutcomeDTO{
			SKU: f.SKU, Action: f.Action, RecordNum: f.RecordNum, Error: f.Err,
		})
	}
	return out
}
