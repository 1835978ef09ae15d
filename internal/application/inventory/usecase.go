package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ops-api/internal/application/dto"
	"github.com/jhoicas/warehouse-ops-api/internal/domain"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/allocation"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/repository"
)

// InventoryUseCase alta y consulta de unidades empacadas de inventario.
type InventoryUseCase struct {
	unitRepo repository.InventoryUnitRepository
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(unitRepo repository.InventoryUnitRepository) *InventoryUseCase {
	return &InventoryUseCase{unitRepo: unitRepo}
}

// CreateUnit registra una unidad empacada (entrada de stock enviable).
func (uc *InventoryUseCase) CreateUnit(ctx context.Context, in dto.CreateUnitRequest) (*entity.InventoryUnit, error) {
	if in.SKU == "" || in.Country == "" || !in.TotalQuantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.BoxType != entity.BoxTypeWhole && in.BoxType != entity.BoxTypeMixed {
		return nil, domain.ErrInvalidInput
	}
	if in.BoxType == entity.BoxTypeWhole && in.TotalBoxes <= 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	unit := &entity.InventoryUnit{
		ID:              uuid.New().String(),
		SKU:             in.SKU,
		Country:         in.Country,
		BoxType:         in.BoxType,
		TotalQuantity:   in.TotalQuantity,
		TotalBoxes:      in.TotalBoxes,
		ShippedQuantity: decimal.Zero,
		Status:          entity.UnitStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.unitRepo.Create(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// GetAvailability calcula el stock asignable de un SKU en un país. Siempre
// sobre estado vivo: nada se cachea entre mutaciones.
func (uc *InventoryUseCase) GetAvailability(ctx context.Context, sku, country string) (*dto.AvailabilityDTO, error) {
	if sku == "" || country == "" {
		return nil, domain.ErrInvalidInput
	}
	units, err := uc.unitRepo.ListAllocatable(sku, country)
	if err != nil {
		return nil, err
	}
	av := allocation.ComputeAvailability(units)
	return &dto.AvailabilityDTO{
		SKU:              sku,
		Country:          country,
		WholeBoxQuantity: av.WholeBoxQuantity,
		WholeBoxCount:    av.WholeBoxCount,
		MixedBoxQuantity: av.MixedBoxQuantity,
		TotalAvailable:   av.TotalAvailable,
	}, nil
}

// CancelUnit marca una unidad como cancelada (terminal, fuera de asignación).
func (uc *InventoryUseCase) CancelUnit(ctx context.Context, id string) error {
	unit, err := uc.unitRepo.GetByID(id)
	if err != nil {
		return err
	}
	if unit == nil {
		return domain.ErrNotFound
	}
	return uc.unitRepo.Cancel(id)
}
