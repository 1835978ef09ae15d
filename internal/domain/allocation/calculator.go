package allocation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ops-api/internal/domain"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
)

// Availability resume el stock asignable de un SKU en un país, separado por empaque.
// Es una vista de solo lectura: se recalcula en cada petición sobre estado vivo,
// nunca se cachea entre mutaciones.
type Availability struct {
	WholeBoxQuantity decimal.Decimal
	WholeBoxCount    int
	MixedBoxQuantity decimal.Decimal
	TotalAvailable   decimal.Decimal
}

// ComputeAvailability acumula el disponible (total - enviado) de las unidades
// asignables (pending/partially-outbound), separando caja completa y caja mixta.
// Unidades con disponible <= 0 no cuentan; WholeBoxCount solo suma cajas de
// unidades de caja completa con disponible > 0.
func ComputeAvailability(units []*entity.InventoryUnit) Availability {
	av := Availability{
		WholeBoxQuantity: decimal.Zero,
		MixedBoxQuantity: decimal.Zero,
		TotalAvailable:   decimal.Zero,
	}
	for _, u := range units {
		if !u.Allocatable() {
			continue
		}
		available := u.Available()
		if available.LessThanOrEqual(decimal.Zero) {
			continue
		}
		switch u.BoxType {
		case entity.BoxTypeWhole:
			av.WholeBoxQuantity = av.WholeBoxQuantity.Add(available)
			av.WholeBoxCount += u.TotalBoxes
		case entity.BoxTypeMixed:
			av.MixedBoxQuantity = av.MixedBoxQuantity.Add(available)
		}
		av.TotalAvailable = av.TotalAvailable.Add(available)
	}
	return av
}

// ComputeShortage devuelve el faltante: max(0, pendiente - disponible).
func ComputeShortage(remaining, available decimal.Decimal) decimal.Decimal {
	shortage := remaining.Sub(available)
	if shortage.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return shortage
}

// CompletionPercent devuelve el porcentaje de cumplimiento (enviado/solicitado*100)
// redondeado a 2 decimales. Solicitado <= 0 devuelve 0.
func CompletionPercent(shipped, quantity decimal.Decimal) decimal.Decimal {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return shipped.Mul(decimal.NewFromInt(100)).Div(quantity).Round(2)
}

// Take es la cantidad a descontar de una unidad concreta.
type Take struct {
	Unit     *entity.InventoryUnit
	Quantity decimal.Decimal
}

// PlanAllocation reparte qty entre las unidades asignables, agotando caja completa
// antes que caja mixta para minimizar la fragmentación de cajas mixtas. Dentro de
// cada tipo respeta el orden de entrada. Devuelve ErrInsufficientStock si el
// disponible no alcanza; en ese caso no se debe escribir nada.
func PlanAllocation(units []*entity.InventoryUnit, qty decimal.Decimal) ([]Take, error) {
	if qty.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var takes []Take
	remaining := qty
	for _, boxType := range []string{entity.BoxTypeWhole, entity.BoxTypeMixed} {
		for _, u := range units {
			if remaining.LessThanOrEqual(decimal.Zero) {
				break
			}
			if u.BoxType != boxType || !u.Allocatable() {
				continue
			}
			available := u.Available()
			if available.LessThanOrEqual(decimal.Zero) {
				continue
			}
			take := decimal.Min(available, remaining)
			takes = append(takes, Take{Unit: u, Quantity: take})
			remaining = remaining.Sub(take)
		}
	}
	if remaining.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInsufficientStock
	}
	return takes, nil
}
