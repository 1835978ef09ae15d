package shipment

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-ops-api/internal/application/dto"
	"github.com/jhoicas/warehouse-ops-api/internal/domain"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/repository"
)

// MarkShipped transiciona un envío de preparing a shipped (marcador de auditoría).
func (uc *ShipmentUseCase) MarkShipped(ctx context.Context, shipmentID string) error {
	rec, err := uc.shipmentRepo.GetRecord(shipmentID)
	if err != nil {
		return err
	}
	if rec == nil {
		return domain.ErrNotFound
	}
	if rec.Status != entity.ShipmentStatusPreparing {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return uc.shipmentRepo.UpdateStatus(shipmentID, entity.ShipmentStatusShipped, &now)
}

// ListShipments historial de envíos con paginación y filtros por fecha/operador/estado.
func (uc *ShipmentUseCase) ListShipments(ctx context.Context, filter repository.ShipmentFilter, limit, offset int) ([]dto.ShipmentDTO, error) {
	records, err := uc.shipmentRepo.List(filter, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShipmentDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, toShipmentDTO(rec))
	}
	return out, nil
}

// GetShipmentDetail devuelve un envío completo: registro, líneas y relaciones
// con los lotes de demanda que tocó.
func (uc *ShipmentUseCase) GetShipmentDetail(ctx context.Context, shipmentID string) (*dto.ShipmentDetailDTO, error) {
	rec, err := uc.shipmentRepo.GetRecord(shipmentID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.shipmentRepo.ListLines(shipmentID)
	if err != nil {
		return nil, err
	}
	relations, err := uc.shipmentRepo.ListRelations(shipmentID)
	if err != nil {
		return nil, err
	}

	detail := &dto.ShipmentDetailDTO{Shipment: toShipmentDTO(rec)}
	for _, line := range lines {
		detail.Lines = append(detail.Lines, dto.ShipmentLineDTO{
			ID:                line.ID,
			OrderItemNum:      line.OrderItemNum,
			SourceRef:         line.SourceRef,
			NeedNum:           line.NeedNum,
			LocalSKU:          line.LocalSKU,
			AmzSKU:            line.AmzSKU,
			RequestedQuantity: line.RequestedQuantity,
			ShippedQuantity:   line.ShippedQuantity,
			WholeBoxes:        line.WholeBoxes,
			MixedBoxQuantity:  line.MixedBoxQuantity,
		})
	}
	for _, rel := range relations {
		detail.Relations = append(detail.Relations, dto.ShipmentRelationDTO{
			NeedNum:          rel.NeedNum,
			TotalRequested:   rel.TotalRequested,
			TotalShipped:     rel.TotalShipped,
			CompletionStatus: rel.CompletionStatus,
			SourceRef:        rel.SourceRef,
		})
	}
	return detail, nil
}

func toShipmentDTO(rec *entity.ShipmentRecord) dto.ShipmentDTO {
	return dto.ShipmentDTO{
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
	}
}
