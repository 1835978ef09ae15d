package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
)

// DemandRepository define el puerto de persistencia del libro de demanda.
// Los métodos de lectura devuelven líneas con ShippedQuantity derivado
// (suma de shipment_lines vinculadas), nunca almacenado.
type DemandRepository interface {
	// NextNeedNum genera el identificador de lote: prefijo de fecha + secuencia
	// única del día (ej. REQ20260830003).
	NextNeedNum(day time.Time) (string, error)

	// CreateBatch inserta todas las líneas de un lote (mismo NeedNum) y rellena
	// RecordNum en cada una (bigserial, monotónico).
	CreateBatch(lines []*entity.DemandLine) error

	GetByRecordNum(recordNum int64) (*entity.DemandLine, error)

	// GetByRecordNumForUpdate obtiene la línea bloqueando la fila (SELECT FOR
	// UPDATE). Solo tiene sentido dentro de una transacción.
	GetByRecordNumForUpdate(recordNum int64) (*entity.DemandLine, error)

	// FindOpenLines busca líneas sin resolver de un SKU en país+marketplace:
	// no canceladas y con cantidad pendiente > 0. Base de la detección de conflictos.
	FindOpenLines(sku, country, marketplace string) ([]*entity.DemandLine, error)

	// SetQuantity fija la cantidad solicitada (el caso de uso valida el piso de enviado).
	SetQuantity(recordNum int64, quantity decimal.Decimal) error

	// AddQuantity incrementa la cantidad de forma atómica (resolución "add").
	AddQuantity(recordNum int64, delta decimal.Decimal) error

	DeleteLine(recordNum int64) error
	DeleteBatch(needNum string) error

	ListLines(needNum string) ([]*entity.DemandLine, error)

	// ListBatches lista lotes con paginación; status filtra por estado derivado
	// del lote ("" = todos, pending, partially-fulfilled, fully-fulfilled).
	ListBatches(status string, limit, offset int) ([]*entity.DemandBatch, error)
}
