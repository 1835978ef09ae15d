package repository

import (
	"time"

	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
)

// ShipmentFilter filtros de listado del historial de envíos.
type ShipmentFilter struct {
	From     *time.Time
	To       *time.Time
	Operator string
	Status   string
}

// ShipmentRepository define el puerto de persistencia del libro de envíos:
// registro + líneas + relaciones con lotes de demanda + asignaciones por unidad.
type ShipmentRepository interface {
	// NextShipmentNumber genera el número legible: prefijo de fecha + secuencia del día.
	NextShipmentNumber(day time.Time) (string, error)

	CreateRecord(rec *entity.ShipmentRecord) error
	CreateLine(line *entity.ShipmentLine) error
	CreateRelation(rel *entity.OrderShipmentRelation) error

	// CreateAllocation registra cuánto tomó una línea de cada unidad de inventario;
	// es lo que permite revertir el envío de forma exacta.
	CreateAllocation(alloc *entity.UnitAllocation) error

	GetRecord(id string) (*entity.ShipmentRecord, error)
	ListLines(shipmentID string) ([]*entity.ShipmentLine, error)
	ListRelations(shipmentID string) ([]*entity.OrderShipmentRelation, error)
	ListAllocations(shipmentID string) ([]*entity.UnitAllocation, error)

	// DeleteShipment borra registro, líneas, relaciones y asignaciones.
	// La restauración de inventario la hace el caso de uso antes de llamar aquí.
	DeleteShipment(shipmentID string) error

	UpdateStatus(id, status string, shippedAt *time.Time) error

	List(filter ShipmentFilter, limit, offset int) ([]*entity.ShipmentRecord, error)
}
