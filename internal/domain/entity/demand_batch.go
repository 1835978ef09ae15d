package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemandBatch es la vista agregada de un lote de demanda (need_num) para listados.
// Los totales enviados son derivados de shipment_lines en la lectura.
type DemandBatch struct {
	NeedNum        string
	Country        string
	Marketplace    string
	ShippingMethod string
	LineCount      int
	TotalQuantity  decimal.Decimal
	TotalShipped   decimal.Decimal
	Deadline       *time.Time
	CreatedBy      string
	CreatedAt      time.Time
}

// EffectiveStatus del lote completo, derivado de sus totales.
func (b *DemandBatch) EffectiveStatus() string {
	return EffectiveStatus(b.TotalQuantity, b.TotalShipped)
}
