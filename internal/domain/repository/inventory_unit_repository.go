package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
)

// InventoryUnitRepository define el puerto para las unidades empacadas de inventario.
// Usado dentro de transacciones para garantizar consistencia en los descuentos.
type InventoryUnitRepository interface {
	Create(unit *entity.InventoryUnit) error
	GetByID(id string) (*entity.InventoryUnit, error)

	// GetByIDForUpdate obtiene la unidad bloqueando la fila (SELECT FOR UPDATE).
	GetByIDForUpdate(id string) (*entity.InventoryUnit, error)

	// ListAllocatable devuelve las unidades asignables (pending/partially-outbound)
	// de un SKU en un país, caja completa antes que mixta.
	ListAllocatable(sku, country string) ([]*entity.InventoryUnit, error)

	// ListAllocatableForUpdate igual que ListAllocatable pero bloqueando filas
	// (SELECT FOR UPDATE). Solo tiene sentido dentro de una transacción.
	ListAllocatableForUpdate(sku, country string) ([]*entity.InventoryUnit, error)

	// UpdateShipped persiste shipped_quantity, status y shipped_at con guarda
	// shipped_quantity <= total_quantity; si la guarda falla devuelve
	// domain.ErrInsufficientStock sin modificar la fila.
	UpdateShipped(id string, shipped decimal.Decimal, status string, shippedAt *time.Time) error

	// ListForRepair devuelve todas las unidades no canceladas con bloqueo de fila,
	// para el pase de reparación de consistencia.
	ListForRepair() ([]*entity.InventoryUnit, error)

	Cancel(id string) error
}
