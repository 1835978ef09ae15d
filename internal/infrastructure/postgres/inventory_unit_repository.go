package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ops-api/internal/domain"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/repository"
)

var _ repository.InventoryUnitRepository = (*InventoryUnitRepo)(nil)

// InventoryUnitRepo implementación de InventoryUnitRepository sobre PostgreSQL
// (usable con pool o tx).
type InventoryUnitRepo struct {
	q Querier
}

// NewInventoryUnitRepository construye el adaptador de unidades. Pasar pool o tx (Querier).
func NewInventoryUnitRepository(q Querier) *InventoryUnitRepo {
	return &InventoryUnitRepo{q: q}
}

const unitSelect = `
	SELECT id, sku, country, box_type, total_quantity, total_boxes,
	       shipped_quantity, status, shipped_at, created_at, updated_at
	FROM inventory_units`

// Create inserta una unidad empacada.
func (r *InventoryUnitRepo) Create(unit *entity.InventoryUnit) error {
	const query = `
		INSERT INTO inventory_units
			(id, sku, country, box_type, total_quantity, total_boxes,
			 shipped_quantity, status, shipped_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		unit.ID, unit.SKU, unit.Country, unit.BoxType, unit.TotalQuantity,
		unit.TotalBoxes, unit.ShippedQuantity, unit.Status, unit.ShippedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory_unit: %w", err)
	}
	return nil
}

// GetByID obtiene una unidad por ID; nil si no existe.
func (r *InventoryUnitRepo) GetByID(id string) (*entity.InventoryUnit, error) {
	return r.getByID(id, "")
}

// GetByIDForUpdate obtiene la unidad bloqueando la fila (SELECT FOR UPDATE).
func (r *InventoryUnitRepo) GetByIDForUpdate(id string) (*entity.InventoryUnit, error) {
	return r.getByID(id, " FOR UPDATE")
}

func (r *InventoryUnitRepo) getByID(id, suffix string) (*entity.InventoryUnit, error) {
	query := unitSelect + ` WHERE id = $1` + suffix
	unit, err := scanInventoryUnit(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory_unit: %w", err)
	}
	return unit, nil
}

// ListAllocatable devuelve las unidades asignables de un SKU en un país.
// Caja completa antes que mixta; dentro de cada tipo, la más antigua primero.
func (r *InventoryUnitRepo) ListAllocatable(sku, country string) ([]*entity.InventoryUnit, error) {
	return r.listAllocatable(sku, country, "")
}

// ListAllocatableForUpdate igual que ListAllocatable pero con bloqueo de fila.
// Solo tiene sentido dentro de una transacción.
func (r *InventoryUnitRepo) ListAllocatableForUpdate(sku, country string) ([]*entity.InventoryUnit, error) {
	return r.listAllocatable(sku, country, " FOR UPDATE")
}

func (r *InventoryUnitRepo) listAllocatable(sku, country, suffix string) ([]*entity.InventoryUnit, error) {
	query := unitSelect + `
		WHERE sku = $1 AND country = $2
		  AND status IN ('pending-outbound', 'partially-outbound')
		  AND shipped_quantity < total_quantity
		ORDER BY CASE box_type WHEN 'whole-box' THEN 0 ELSE 1 END, created_at, id` + suffix
	rows, err := r.q.Query(context.Background(), query, sku, country)
	if err != nil {
		return nil, fmt.Errorf("list allocatable units: %w", err)
	}
	defer rows.Close()
	return collectInventoryUnits(rows)
}

// UpdateShipped persiste cantidades y status con la guarda shipped <= total en SQL.
// Si la guarda rechaza la escritura devuelve ErrInsufficientStock sin tocar la fila.
func (r *InventoryUnitRepo) UpdateShipped(id string, shipped decimal.Decimal, status string, shippedAt *time.Time) error {
	const query = `
		UPDATE inventory_units
		SET shipped_quantity = $2, status = $3, shipped_at = $4, updated_at = now()
		WHERE id = $1 AND $2 <= total_quantity`
	tag, err := r.q.Exec(context.Background(), query, id, shipped, status, shippedAt)
	if err != nil {
		return fmt.Errorf("update inventory_unit shipped: %w", err)
	}
	if tag.RowsAffected() == 0 {
		exists, err := r.GetByID(id)
		if err != nil {
			return err
		}
		if exists == nil {
			return domain.ErrNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

// ListForRepair devuelve todas las unidades no canceladas con bloqueo de fila,
// para el pase de reparación de consistencia.
func (r *InventoryUnitRepo) ListForRepair() ([]*entity.InventoryUnit, error) {
	query := unitSelect + ` WHERE status <> 'cancelled' ORDER BY id FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list units for repair: %w", err)
	}
	defer rows.Close()
	return collectInventoryUnits(rows)
}

// Cancel marca la unidad como cancelada (terminal).
func (r *InventoryUnitRepo) Cancel(id string) error {
	const query = `UPDATE inventory_units SET status = 'cancelled', updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("cancel inventory_unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func scanInventoryUnit(row pgx.Row) (*entity.InventoryUnit, error) {
	var u entity.InventoryUnit
	err := row.Scan(
		&u.ID, &u.SKU, &u.Country, &u.BoxType, &u.TotalQuantity, &u.TotalBoxes,
		&u.ShippedQuantity, &u.Status, &u.ShippedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func collectInventoryUnits(rows pgx.Rows) ([]*entity.InventoryUnit, error) {
	var units []*entity.InventoryUnit
	for rows.Next() {
		unit, err := scanInventoryUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory_unit: %w", err)
		}
		units = append(units, unit)
	}
	return units, rows.Err()
}
