package entity

import "time"

// SkuMapping relaciona un SKU local con su SKU de marketplace (ej. Amazon).
// Tabla de enlace de producto; el motor de envíos la consulta para rellenar AmzSKU.
type SkuMapping struct {
	ID          string
	LocalSKU    string
	AmzSKU      string
	Marketplace string
	Country     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
