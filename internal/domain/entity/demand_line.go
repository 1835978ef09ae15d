package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados almacenados de una línea de demanda. Son solo marcador de auditoría:
// la lógica de negocio usa siempre el estado derivado (EffectiveStatus).
const (
	DemandStatusPending   = "pending"
	DemandStatusShipped   = "shipped"
	DemandStatusCancelled = "cancelled"
)

// Estados derivados de cumplimiento, calculados de cantidad vs cantidad enviada.
const (
	EffectivePending   = "pending"
	EffectivePartial   = "partially-fulfilled"
	EffectiveFulfilled = "fully-fulfilled"
)

// DemandLine es la solicitud de un SKU dentro de un lote de demanda.
// Todas las líneas creadas juntas comparten NeedNum; RecordNum es único y monotónico.
type DemandLine struct {
	RecordNum      int64
	NeedNum        string
	SKU            string
	Quantity       decimal.Decimal // solicitado; solo puede subir, o bajar hasta lo ya enviado
	Country        string
	Marketplace    string
	ShippingMethod string
	Status         string // pending, shipped, cancelled (auditoría)
	Deadline       *time.Time
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// ShippedQuantity es derivado: suma de las shipment_lines vinculadas.
	// No se persiste en demand_lines; los repositorios lo calculan al leer.
	ShippedQuantity decimal.Decimal
}

// Remaining devuelve la cantidad pendiente de enviar (Quantity - ShippedQuantity).
func (d *DemandLine) Remaining() decimal.Decimal {
	return d.Quantity.Sub(d.ShippedQuantity)
}

// EffectiveStatus deriva el estado real de cumplimiento a partir de cantidades.
// El campo Status almacenado nunca decide lógica: derivar siempre, almacenar nunca manda.
func EffectiveStatus(quantity, shipped decimal.Decimal) string {
	switch {
	case shipped.LessThanOrEqual(decimal.Zero):
		return EffectivePending
	case shipped.GreaterThanOrEqual(quantity):
		return EffectiveFulfilled
	default:
		return EffectivePartial
	}
}
