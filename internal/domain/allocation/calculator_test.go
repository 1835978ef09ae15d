package allocation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ops-api/internal/domain"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/allocation"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
)

func unit(id, boxType string, total, shipped int64, boxes int) *entity.InventoryUnit {
	u := &entity.InventoryUnit{
		ID:              id,
		SKU:             "AGXB362D1",
		Country:         "美国",
		BoxType:         boxType,
		TotalQuantity:   decimal.NewFromInt(total),
		TotalBoxes:      boxes,
		ShippedQuantity: decimal.NewFromInt(shipped),
	}
	u.Status = entity.DeriveUnitStatus(u.ShippedQuantity, u.TotalQuantity)
	return u
}

// Acumula por tipo de empaque y descarta unidades agotadas o canceladas.
func TestComputeAvailability_SeparaPorEmpaque(t *testing.T) {
	units := []*entity.InventoryUnit{
		unit("u1", entity.BoxTypeWhole, 100, 40, 4), // 60 disponibles
		unit("u2", entity.BoxTypeMixed, 30, 10, 0),  // 20 disponibles
		unit("u3", entity.BoxTypeWhole, 50, 50, 2),  // agotada: no cuenta
	}

	av := allocation.ComputeAvailability(units)

	assert.True(t, decimal.NewFromInt(60).Equal(av.WholeBoxQuantity), "caja completa debe sumar 60")
	assert.Equal(t, 4, av.WholeBoxCount, "solo cuentan cajas de unidades con disponible > 0")
	assert.True(t, decimal.NewFromInt(20).Equal(av.MixedBoxQuantity))
	assert.True(t, decimal.NewFromInt(80).Equal(av.TotalAvailable))
}

func TestComputeAvailability_ExcluyeCanceladas(t *testing.T) {
	cancelled := unit("u1", entity.BoxTypeWhole, 100, 0, 4)
	cancelled.Status = entity.UnitStatusCancelled

	av := allocation.ComputeAvailability([]*entity.InventoryUnit{cancelled})

	assert.True(t, av.TotalAvailable.IsZero(), "unidad cancelada no debe aportar disponible")
	assert.Equal(t, 0, av.WholeBoxCount)
}

func TestComputeShortage(t *testing.T) {
	// Pendiente 50, disponible 30 => faltante 20
	shortage := allocation.ComputeShortage(decimal.NewFromInt(50), decimal.NewFromInt(30))
	assert.True(t, decimal.NewFromInt(20).Equal(shortage))

	// Disponible de sobra => faltante 0, nunca negativo
	shortage = allocation.ComputeShortage(decimal.NewFromInt(10), decimal.NewFromInt(30))
	assert.True(t, shortage.IsZero())
}

func TestCompletionPercent(t *testing.T) {
	pct := allocation.CompletionPercent(decimal.NewFromInt(10), decimal.NewFromInt(40))
	assert.True(t, decimal.NewFromFloat(25).Equal(pct))

	// Solicitado cero: sin división por cero
	pct = allocation.CompletionPercent(decimal.NewFromInt(10), decimal.Zero)
	assert.True(t, pct.IsZero())
}

// PlanAllocation debe agotar caja completa antes de tocar caja mixta.
func TestPlanAllocation_CajaCompletaPrimero(t *testing.T) {
	whole := unit("whole", entity.BoxTypeWhole, 50, 0, 2)
	mixed := unit("mixed", entity.BoxTypeMixed, 50, 0, 0)

	// Orden de entrada con la mixta primero: aun así debe salir primero la completa.
	takes, err := allocation.PlanAllocation([]*entity.InventoryUnit{mixed, whole}, decimal.NewFromInt(60))
	require.NoError(t, err)
	require.Len(t, takes, 2)

	assert.Equal(t, "whole", takes[0].Unit.ID)
	assert.True(t, decimal.NewFromInt(50).Equal(takes[0].Quantity), "la caja completa se agota primero")
	assert.Equal(t, "mixed", takes[1].Unit.ID)
	assert.True(t, decimal.NewFromInt(10).Equal(takes[1].Quantity))
}

func TestPlanAllocation_StockInsuficiente(t *testing.T) {
	units := []*entity.InventoryUnit{unit("u1", entity.BoxTypeWhole, 10, 5, 1)}

	_, err := allocation.PlanAllocation(units, decimal.NewFromInt(6))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestPlanAllocation_CantidadNoPositiva(t *testing.T) {
	_, err := allocation.PlanAllocation(nil, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// El estado de una unidad es función pura de sus cantidades.
func TestDeriveUnitStatus(t *testing.T) {
	cases := []struct {
		shipped, total int64
		want           string
	}{
		{0, 100, entity.UnitStatusPending},
		{40, 100, entity.UnitStatusPartial},
		{100, 100, entity.UnitStatusShipped},
	}
	for _, c := range cases {
		got := entity.DeriveUnitStatus(decimal.NewFromInt(c.shipped), decimal.NewFromInt(c.total))
		assert.Equal(t, c.want, got)
	}
}

// El estado efectivo de una línea de demanda se deriva siempre de cantidades.
func TestEffectiveStatus(t *testing.T) {
	assert.Equal(t, entity.EffectivePending, entity.EffectiveStatus(decimal.NewFromInt(44), decimal.Zero))
	assert.Equal(t, entity.EffectivePartial, entity.EffectiveStatus(decimal.NewFromInt(44), decimal.NewFromInt(10)))
	assert.Equal(t, entity.EffectiveFulfilled, entity.EffectiveStatus(decimal.NewFromInt(44), decimal.NewFromInt(44)))
}
