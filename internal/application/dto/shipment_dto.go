package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentLineInput línea de envío. OrderItemID > 0 vincula a una DemandLine;
// cero o negativo marca envío manual/temporal (se conserva el valor para auditoría)
// y ManualNeedNum permite aportar un identificador propio de lote sintético.
type ShipmentLineInput struct {
	OrderItemID      int64           `json:"order_item_id"`
	ManualNeedNum    string          `json:"manual_need_num,omitempty"`
	SKU              string          `json:"sku"`
	Country          string          `json:"country"`
	Quantity         decimal.Decimal `json:"quantity"`
	WholeBoxes       int             `json:"whole_boxes"`
	MixedBoxQuantity decimal.Decimal `json:"mixed_box_quantity"`
}

// CreateShipmentRequest body para POST /api/shipments.
type CreateShipmentRequest struct {
	Lines          []ShipmentLineInput `json:"lines"`
	ShippingMethod string              `json:"shipping_method"`
	Remark         string              `json:"remark,omitempty"`
}

// ShipmentDTO registro de envío para listados.
type ShipmentDTO struct {
	ID             string          `json:"id"`
	ShipmentNumber string          `json:"shipment_number"`
	Operator       string          `json:"operator"`
	TotalBoxes     int             `json:"total_boxes"`
	TotalItems     decimal.Decimal `json:"total_items"`
	Status         string          `json:"status"`
	ShippingMethod string          `json:"shipping_method"`
	Remark         string          `json:"remark,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	ShippedAt      *time.Time      `json:"shipped_at,omitempty"`
}

// ShipmentLineDTO línea de un envío.
type ShipmentLineDTO struct {
	ID                string          `json:"id"`
	OrderItemNum      *int64          `json:"order_item_id,omitempty"`
	SourceRef         int64           `json:"source_ref"`
	NeedNum           string          `json:"need_num"`
	LocalSKU          string          `json:"local_sku"`
	AmzSKU            string          `json:"amz_sku,omitempty"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	ShippedQuantity   decimal.Decimal `json:"shipped_quantity"`
	WholeBoxes        int             `json:"whole_boxes"`
	MixedBoxQuantity  decimal.Decimal `json:"mixed_box_quantity"`
}

// ShipmentRelationDTO relación envío <-> lote de demanda.
type ShipmentRelationDTO struct {
	NeedNum          string          `json:"need_num"`
	TotalRequested   decimal.Decimal `json:"total_requested"`
	TotalShipped     decimal.Decimal `json:"total_shipped"`
	CompletionStatus string          `json:"completion_status"`
	SourceRef        int64           `json:"source_ref,omitempty"`
}

// ShipmentDetailDTO envío completo: registro + líneas + relaciones.
type ShipmentDetailDTO struct {
	Shipment  ShipmentDTO           `json:"shipment"`
	Lines     []ShipmentLineDTO     `json:"lines"`
	Relations []ShipmentRelationDTO `json:"relations"`
}

// ListShipmentsRequest filtros del historial de envíos.
type ListShipmentsRequest struct {
	From     string `query:"from"` // YYYY-MM-DD
	To       string `query:"to"`
	Operator string `query:"operator"`
	Status   string `query:"status"`
	PageRequest
}
