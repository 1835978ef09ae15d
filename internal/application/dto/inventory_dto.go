package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateUnitRequest body para POST /api/inventory/units (alta de stock empacado).
type CreateUnitRequest struct {
	SKU           string          `json:"sku"`
	Country       string          `json:"country"`
	BoxType       string          `json:"box_type"` // whole-box | mixed-box
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalBoxes    int             `json:"total_boxes,omitempty"`
}

// AvailabilityDTO stock asignable de un SKU en un país, recalculado en cada petición.
type AvailabilityDTO struct {
	SKU              string          `json:"sku"`
	Country          string          `json:"country"`
	WholeBoxQuantity decimal.Decimal `json:"whole_box_quantity"`
	WholeBoxCount    int             `json:"whole_box_count"`
	MixedBoxQuantity decimal.Decimal `json:"mixed_box_quantity"`
	TotalAvailable   decimal.Decimal `json:"total_available"`
}

// RepairChangeDTO una corrección aplicada por el pase de reparación.
type RepairChangeDTO struct {
	UnitID     string `json:"unit_id"`
	SKU        string `json:"sku"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// RepairResultDTO resumen del pase de reparación de consistencia.
type RepairResultDTO struct {
	Scanned int               `json:"scanned"`
	Updated int               `json:"updated"`
	Changes []RepairChangeDTO `json:"changes,omitempty"`
	RanAt   time.Time         `json:"ran_at"`
}

// SkuMappingRequest body para POST /api/skus.
type SkuMappingRequest struct {
	LocalSKU    string `json:"local_sku"`
	AmzSKU      string `json:"amz_sku"`
	Marketplace string `json:"marketplace"`
	Country     string `json:"country,omitempty"`
}
