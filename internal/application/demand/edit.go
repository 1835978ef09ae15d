package demand

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ops-api/internal/domain"
)

// SetQuantity fija la cantidad solicitada de una línea. El piso es lo ya enviado:
// bajar por debajo devuelve ErrInvalidQuantity sin tocar estado.
func (uc *DemandUseCase) SetQuantity(ctx context.Context, recordNum int64, quantity decimal.Decimal) error {
	if !quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	line, err := uc.demandRepo.GetByRecordNum(recordNum)
	if err != nil {
		return err
	}
	if line == nil {
		return domain.ErrNotFound
	}
	if quantity.LessThan(line.ShippedQuantity) {
		return domain.ErrInvalidQuantity
	}
	return uc.demandRepo.SetQuantity(recordNum, quantity)
}

// DeleteLine borra una línea solo si no tiene envíos; con envíos degrada a cierre
// suave: cantidad = enviado, con lo que el pendiente queda en cero.
func (uc *DemandUseCase) DeleteLine(ctx context.Context, recordNum int64) error {
	line, err := uc.demandRepo.GetByRecordNum(recordNum)
	if err != nil {
		return err
	}
	if line == nil {
		return domain.ErrNotFound
	}
	if line.ShippedQuantity.GreaterThan(decimal.Zero) {
		return uc.demandRepo.SetQuantity(recordNum, line.ShippedQuantity)
	}
	return uc.demandRepo.DeleteLine(recordNum)
}

// DeleteBatch borra un lote completo. Si cualquier línea tiene envíos vinculados
// falla con ErrHasShipments: el caller debe usar el cierre suave por línea.
func (uc *DemandUseCase) DeleteBatch(ctx context.Context, needNum string) error {
	lines, err := uc.demandRepo.ListLines(needNum)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return domain.ErrNotFound
	}
	for _, line := range lines {
		if line.ShippedQuantity.GreaterThan(decimal.Zero) {
			return domain.ErrHasShipments
		}
	}
	return uc.demandRepo.DeleteBatch(needNum)
}
