package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemandLineInput una línea candidata (sku + cantidad) al enviar demanda.
type DemandLineInput struct {
	SKU      string          `json:"sku"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ResolutionInput elección del caller para un SKU en conflicto.
// Action: add (suma al existente), replace (sustituye cantidad), new (lote nuevo).
type ResolutionInput struct {
	SKU    string `json:"sku"`
	Action string `json:"action"`
}

// SubmitDemandRequest body para POST /api/demand.
// Resolutions va vacío en el primer intento; si hay conflictos la API los devuelve
// y el caller reenvía con una resolución por SKU.
type SubmitDemandRequest struct {
	Lines          []DemandLineInput `json:"lines"`
	Country        string            `json:"country"`
	Marketplace    string            `json:"marketplace"`
	ShippingMethod string            `json:"shipping_method"`
	Deadline       *time.Time        `json:"deadline,omitempty"`
	Resolutions    []ResolutionInput `json:"resolutions,omitempty"`
}

// ConflictDTO demanda existente sin resolver que choca con una candidata.
type ConflictDTO struct {
	SKU               string          `json:"sku"`
	ExistingRecordNum int64           `json:"existing_record_num"`
	ExistingRemaining decimal.Decimal `json:"existing_remaining_quantity"`
	CandidateQuantity decimal.Decimal `json:"candidate_quantity"`
}

// ResolutionOutcomeDTO resultado de aplicar una resolución a un SKU.
type ResolutionOutcomeDTO struct {
	SKU       string `json:"sku"`
	Action    string `json:"action"`
	RecordNum int64  `json:"record_num,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SubmitDemandResponse respuesta de POST /api/demand. Con conflictos sin resolver
// solo viene Conflicts; con resoluciones viene el reporte aplicado/fallido
// (éxito parcial explícito, distinto de un fallo total) y el need_num del lote nuevo.
type SubmitDemandResponse struct {
	NeedNum   string                 `json:"need_num,omitempty"`
	Conflicts []ConflictDTO          `json:"conflicts,omitempty"`
	Applied   []ResolutionOutcomeDTO `json:"applied,omitempty"`
	Failed    []ResolutionOutcomeDTO `json:"failed,omitempty"`
}

// SetQuantityRequest body para PUT /api/demand/lines/:record_num/quantity.
type SetQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// DemandBatchDTO resumen de un lote para listados.
type DemandBatchDTO struct {
	NeedNum         string          `json:"need_num"`
	Country         string          `json:"country"`
	Marketplace     string          `json:"marketplace"`
	ShippingMethod  string          `json:"shipping_method"`
	LineCount       int             `json:"line_count"`
	TotalQuantity   decimal.Decimal `json:"total_quantity"`
	TotalShipped    decimal.Decimal `json:"total_shipped"`
	EffectiveStatus string          `json:"effective_status"`
	Deadline        *time.Time      `json:"deadline,omitempty"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// DemandLineDTO línea con derivados y vista de asignación calculada en la lectura.
type DemandLineDTO struct {
	RecordNum        int64           `json:"record_num"`
	NeedNum          string          `json:"need_num"`
	SKU              string          `json:"sku"`
	Quantity         decimal.Decimal `json:"quantity"`
	ShippedQuantity  decimal.Decimal `json:"shipped_quantity"`
	Remaining        decimal.Decimal `json:"remaining_quantity"`
	EffectiveStatus  string          `json:"effective_status"`
	CompletionPct    decimal.Decimal `json:"completion_pct"`
	WholeBoxQuantity decimal.Decimal `json:"whole_box_quantity"`
	WholeBoxCount    int             `json:"whole_box_count"`
	MixedBoxQuantity decimal.Decimal `json:"mixed_box_quantity"`
	TotalAvailable   decimal.Decimal `json:"total_available"`
	Shortage         decimal.Decimal `json:"shortage"`
}

// DemandBatchDetailDTO lote + líneas con disponibilidad.
type DemandBatchDetailDTO struct {
	Batch DemandBatchDTO  `json:"batch"`
	Lines []DemandLineDTO `json:"lines"`
}
