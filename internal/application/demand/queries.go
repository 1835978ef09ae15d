package demand

import (
	"context"

	"github.com/jhoicas/warehouse-ops-api/internal/application/dto"
	"github.com/jhoicas/warehouse-ops-api/internal/domain"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/allocation"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
)

// ListBatches lista lotes de demanda con paginación y filtro por estado derivado.
func (uc *DemandUseCase) ListBatches(ctx context.Context, status string, limit, offset int) ([]dto.DemandBatchDTO, error) {
	batches, err := uc.demandRepo.ListBatches(status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DemandBatchDTO, 0, len(batches))
	for _, b := range batches {
		out = append(out, toBatchDTO(b))
	}
	return out, nil
}

// GetBatchDetail devuelve un lote con sus líneas y la vista de asignación:
// disponibilidad por empaque, faltante y porcentaje de cumplimiento, todo
// recalculado sobre estado vivo en cada petición.
func (uc *DemandUseCase) GetBatchDetail(ctx context.Context, needNum string) (*dto.DemandBatchDetailDTO, error) {
	lines, err := uc.demandRepo.ListLines(needNum)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrNotFound
	}

	batch := entity.DemandBatch{
		NeedNum:        needNum,
		Country:        lines[0].Country,
		Marketplace:    lines[0].Marketplace,
		ShippingMethod: lines[0].ShippingMethod,
		Deadline:       lines[0].Deadline,
		CreatedBy:      lines[0].CreatedBy,
		CreatedAt:      lines[0].CreatedAt,
		LineCount:      len(lines),
	}

	detail := &dto.DemandBatchDetailDTO{Lines: make([]dto.DemandLineDTO, 0, len(lines))}
	for _, line := range lines {
		units, err := uc.unitRepo.ListAllocatable(line.SKU, line.Country)
		if err != nil {
			return nil, err
		}
		av := allocation.ComputeAvailability(units)
		detail.Lines = append(detail.Lines, dto.DemandLineDTO{
			RecordNum:        line.RecordNum,
			NeedNum:          line.NeedNum,
			SKU:              line.SKU,
			Quantity:         line.Quantity,
			ShippedQuantity:  line.ShippedQuantity,
			Remaining:        line.Remaining(),
			EffectiveStatus:  entity.EffectiveStatus(line.Quantity, line.ShippedQuantity),
			CompletionPct:    allocation.CompletionPercent(line.ShippedQuantity, line.Quantity),
			WholeBoxQuantity: av.WholeBoxQuantity,
			WholeBoxCount:    av.WholeBoxCount,
			MixedBoxQuantity: av.MixedBoxQuantity,
			TotalAvailable:   av.TotalAvailable,
			Shortage:         allocation.ComputeShortage(line.Remaining(), av.TotalAvailable),
		})
		batch.TotalQuantity = batch.TotalQuantity.Add(line.Quantity)
		batch.TotalShipped = batch.TotalShipped.Add(line.ShippedQuantity)
	}
	detail.Batch = toBatchDTO(&batch)
	return detail, nil
}

func toBatchDTO(b *entity.DemandBatch) dto.DemandBatchDTO {
	return dto.DemandBatchDTO{
		NeedNum:         b.NeedNum,
		Country:         b.Country,
		Marketplace:     b.Marketplace,
		ShippingMethod:  b.ShippingMethod,
		LineCount:       b.LineCount,
		TotalQuantity:   b.TotalQuantity,
		TotalShipped:    b.TotalShipped,
		EffectiveStatus: b.EffectiveStatus(),
		Deadline:        b.Deadline,
		CreatedBy:       b.CreatedBy,
		CreatedAt:       b.CreatedAt,
	}
}
