package inventory

import (
	"context"

	"github.com/jhoicas/warehouse-ops-api/internal/domain/repository"
)

// RepairTxRunner ejecuta el pase de reparación dentro de una transacción de BD,
// con el repositorio de unidades atado a esa tx. Garantiza que el escaneo y las
// correcciones se confirman juntos.
type RepairTxRunner interface {
	RunInventory(ctx context.Context, fn func(unitRepo repository.InventoryUnitRepository) error) error
}
