package shipment

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-ops-api/internal/domain"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/repository"
)

// DeleteShipment revierte un envío: es el inverso exacto de la creación, en una
// sola transacción. Restaura shipped_quantity de cada unidad usando las
// asignaciones registradas, y borra líneas, relaciones y el registro. Una
// segunda invocación falla con ErrNotFound: nunca hay doble decremento.
func (uc *ShipmentUseCase) DeleteShipment(ctx context.Context, shipmentID string) error {
	err := uc.txRunner.Run(ctx, func(
		_ repository.DemandRepository,
		unitRepo repository.InventoryUnitRepository,
		shipmentRepo repository.ShipmentRepository,
	) error {
		rec, err := shipmentRepo.GetRecord(shipmentID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}

		allocs, err := shipmentRepo.ListAllocations(shipmentID)
		if err != nil {
			return err
		}
		for _, alloc := range allocs {
			// El bloqueo de fila frena reintentos concurrentes sobre la misma unidad.
			unit, err := unitRepo.GetByIDForUpdate(alloc.UnitID)
			if err != nil {
				return err
			}
			if unit == nil {
				return domain.ErrNotFound
			}
			restored := unit.ShippedQuantity.Sub(alloc.Quantity)
			status := entity.DeriveUnitStatus(restored, unit.TotalQuantity)
			var shippedAt *time.Time
			if status == entity.UnitStatusShipped {
				shippedAt = unit.ShippedAt
			}
			if err := unitRepo.UpdateShipped(unit.ID, restored, status, shippedAt); err != nil {
				return err
			}
		}
		return shipmentRepo.DeleteShipment(shipmentID)
	})
	if err != nil {
		return err
	}

	uc.log.Info().Str("shipment_id", shipmentID).Msg("envío revertido")
	return nil
}
