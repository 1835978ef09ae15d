package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un envío.
const (
	ShipmentStatusPreparing = "preparing"
	ShipmentStatusShipped   = "shipped"
	ShipmentStatusCancelled = "cancelled"
)

// Estado de cumplimiento de un lote de demanda dentro de un envío.
const (
	CompletionPartial  = "partial"
	CompletionComplete = "complete"
)

// ShipmentRecord es el evento de envío; puede abarcar varios lotes de demanda.
type ShipmentRecord struct {
	ID             string
	ShipmentNumber string // número legible, secuencia diaria
	Operator       string
	TotalBoxes     int
	TotalItems     decimal.Decimal
	Status         string
	ShippingMethod string
	Remark         string
	CreatedAt      time.Time
	ShippedAt      *time.Time
}

// ShipmentTarget identifica el destino de una línea de envío: vinculada a una
// DemandLine existente, o manual (stock enviado sin demanda formal previa).
// Sustituye el viejo patrón de pasar un order_item_id negativo como centinela;
// RawRef conserva el valor recibido para trazabilidad de auditoría.
type ShipmentTarget struct {
	RecordNum     int64 // > 0 solo cuando la línea está vinculada
	Manual        bool
	ManualNeedNum string // opcional en manuales; vacío => se sintetiza MANUAL-<timestamp>
	RawRef        int64  // order_item_id tal como llegó (cero o negativo en manuales)
}

// LinkedTarget construye un destino vinculado a una DemandLine.
func LinkedTarget(recordNum int64) ShipmentTarget {
	return ShipmentTarget{RecordNum: recordNum, RawRef: recordNum}
}

// ManualTarget construye un destino manual/temporal conservando el ref original.
func ManualTarget(rawRef int64, needNum string) ShipmentTarget {
	return ShipmentTarget{Manual: true, ManualNeedNum: needNum, RawRef: rawRef}
}

// ShipmentLine es una línea de envío. OrderItemNum es nil en líneas manuales.
type ShipmentLine struct {
	ID                string
	ShipmentID        string
	OrderItemNum      *int64 // record_num de la DemandLine vinculada, nil si manual
	SourceRef         int64  // ref original recibido (auditoría; negativo/0 en manuales)
	NeedNum           string
	LocalSKU          string
	AmzSKU            string
	RequestedQuantity decimal.Decimal
	ShippedQuantity   decimal.Decimal
	WholeBoxes        int
	MixedBoxQuantity  decimal.Decimal
}

// OrderShipmentRelation vincula un envío con cada lote de demanda que tocó:
// un envío puede cumplir partes de N lotes distintos.
type OrderShipmentRelation struct {
	NeedNum          string
	ShipmentID       string
	TotalRequested   decimal.Decimal
	TotalShipped     decimal.Decimal
	CompletionStatus string // partial | complete
	SourceRef        int64  // centinela original en lotes sintéticos (auditoría)
}

// UnitAllocation registra cuánto tomó una línea de envío de cada unidad de
// inventario. Imprescindible para revertir un envío de forma exacta.
type UnitAllocation struct {
	ShipmentID string
	LineID     string
	UnitID     string
	Quantity   decimal.Decimal
}
