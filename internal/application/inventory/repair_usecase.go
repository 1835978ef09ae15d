package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/warehouse-ops-api/internal/application/dto"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-ops-api/pkg/logger"
)

// RepairUseCase pase de reparación de consistencia: corrige status de unidades
// que hayan derivado respecto del valor que dictan sus cantidades.
type RepairUseCase struct {
	txRunner RepairTxRunner
	log      *logger.Logger
}

// NewRepairUseCase construye el caso de uso.
func NewRepairUseCase(txRunner RepairTxRunner, log *logger.Logger) *RepairUseCase {
	return &RepairUseCase{txRunner: txRunner, log: log}
}

// Repair escanea todas las unidades no canceladas (con bloqueo de fila) y, en la
// misma transacción, reescribe todo status que no coincida con la función pura de
// (shipped_quantity, total_quantity). Ajusta shipped_at al entrar o salir de
// fully-outbound. Solo escribe valores derivables de las cantidades actuales
// (last-writer-wins), así que es seguro frente a tráfico concurrente, e
// idempotente: una segunda pasada sin envíos de por medio no cambia nada.
func (uc *RepairUseCase) Repair(ctx context.Context) (*dto.RepairResultDTO, error) {
	now := time.Now()
	result := &dto.RepairResultDTO{RanAt: now}

	err := uc.txRunner.RunInventory(ctx, func(unitRepo repository.InventoryUnitRepository) error {
		units, err := unitRepo.ListForRepair()
		if err != nil {
			return err
		}
		result.Scanned = len(units)

		for _, unit := range units {
			expected := entity.DeriveUnitStatus(unit.ShippedQuantity, unit.TotalQuantity)
			shippedAt := unit.ShippedAt
			switch {
			case expected == entity.UnitStatusShipped && shippedAt == nil:
				shippedAt = &now
			case expected != entity.UnitStatusShipped:
				shippedAt = nil
			}
			if unit.Status == expected && equalTimePtr(unit.ShippedAt, shippedAt) {
				continue
			}
			if err := unitRepo.UpdateShipped(unit.ID, unit.ShippedQuantity, expected, shippedAt); err != nil {
				return err
			}
			result.Changes = append(result.Changes, dto.RepairChangeDTO{
				UnitID:     unit.ID,
				SKU:        unit.SKU,
				FromStatus: unit.Status,
				ToStatus:   expected,
			})
		}
		result.Updated = len(result.Changes)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int("scanned", result.Scanned).
		Int("updated", result.Updated).
		Msg("pase de reparación de consistencia completado")
	return result, nil
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
