package shipment

import (
	"context"

	"github.com/jhoicas/warehouse-ops-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la unidad de atomicidad del libro de envíos:
// registro + líneas + relaciones + descuentos de inventario entran o salen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		demandRepo repository.DemandRepository,
		unitRepo repository.InventoryUnitRepository,
		shipmentRepo repository.ShipmentRepository,
	) error) error
}
