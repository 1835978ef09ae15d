package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de empaque de una unidad de inventario.
const (
	BoxTypeWhole = "whole-box" // un solo SKU por caja física
	BoxTypeMixed = "mixed-box" // varios SKUs comparten la caja
)

// Estados de salida de una unidad de inventario.
const (
	UnitStatusPending   = "pending-outbound"
	UnitStatusPartial   = "partially-outbound"
	UnitStatusShipped   = "fully-outbound"
	UnitStatusCancelled = "cancelled" // terminal; excluida de asignación
)

// InventoryUnit es una cantidad empacada y enviable de un SKU en un país.
// Invariante: ShippedQuantity <= TotalQuantity, y Status debe ser siempre
// la función pura DeriveUnitStatus de esas dos cantidades (salvo cancelled).
type InventoryUnit struct {
	ID              string
	SKU             string
	Country         string
	BoxType         string
	TotalQuantity   decimal.Decimal
	TotalBoxes      int // solo aplica a caja completa
	ShippedQuantity decimal.Decimal
	Status          string
	ShippedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Available devuelve la cantidad disponible para asignar (total - enviado).
func (u *InventoryUnit) Available() decimal.Decimal {
	return u.TotalQuantity.Sub(u.ShippedQuantity)
}

// Allocatable indica si la unidad cuenta para asignación de stock.
func (u *InventoryUnit) Allocatable() bool {
	return u.Status == UnitStatusPending || u.Status == UnitStatusPartial
}

// DeriveUnitStatus calcula el estado que DEBE tener una unidad según sus cantidades.
// 0 -> pending-outbound; 0 < enviado < total -> partially-outbound; enviado >= total -> fully-outbound.
func DeriveUnitStatus(shipped, total decimal.Decimal) string {
	switch {
	case shipped.LessThanOrEqual(decimal.Zero):
		return UnitStatusPending
	case shipped.GreaterThanOrEqual(total):
		return UnitStatusShipped
	default:
		return UnitStatusPartial
	}
}
