package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-ops-api/internal/domain"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo implementación de ShipmentRepository sobre PostgreSQL (usable con pool o tx).
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador de envíos. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

// NextShipmentNumber genera el número legible del día (ej. SHP20260830002).
func (r *ShipmentRepo) NextShipmentNumber(day time.Time) (string, error) {
	return nextDailySequence(r.q, "shipment_number", "SHP", day)
}

// CreateRecord inserta el registro de envío.
func (r *ShipmentRepo) CreateRecord(rec *entity.ShipmentRecord) error {
	const query = `
		INSERT INTO shipments
			(id, shipment_number, operator, total_boxes, total_items,
			 status, shipping_method, remark, created_at, shipped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, rec.ShipmentNumber, rec.Operator, rec.TotalBoxes, rec.TotalItems,
		rec.Status, rec.ShippingMethod, rec.Remark, rec.CreatedAt, rec.ShippedAt,
	)
	if err != nil {
		return fmt.Errorf("insert shipment: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de envío.
func (r *ShipmentRepo) CreateLine(line *entity.ShipmentLine) error {
	const query = `
		INSERT INTO shipment_lines
			(id, shipment_id, order_item_num, source_ref, need_num, local_sku, amz_sku,
			 requested_quantity, shipped_quantity, whole_boxes, mixed_box_quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.ShipmentID, line.OrderItemNum, line.SourceRef, line.NeedNum,
		line.LocalSKU, line.AmzSKU, line.RequestedQuantity, line.ShippedQuantity,
		line.WholeBoxes, line.MixedBoxQuantity,
	)
	if err != nil {
		return fmt.Errorf("insert shipment_line: %w", err)
	}
	return nil
}

// CreateRelation inserta la relación envío <-> lote de demanda.
func (r *ShipmentRepo) CreateRelation(rel *entity.OrderShipmentRelation) error {
	const query = `
		INSERT INTO order_shipment_relations
			(need_num, shipment_id, total_requested, total_shipped, completion_status, source_ref)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		rel.NeedNum, rel.ShipmentID, rel.TotalRequested, rel.TotalShipped,
		rel.CompletionStatus, rel.SourceRef,
	)
	if err != nil {
		return fmt.Errorf("insert order_shipment_relation: %w", err)
	}
	return nil
}

// CreateAllocation registra cuánto tomó una línea de cada unidad de inventario.
func (r *ShipmentRepo) CreateAllocation(alloc *entity.UnitAllocation) error {
	const query = `
		INSERT INTO shipment_allocations (shipment_id, line_id, unit_id, quantity)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		alloc.ShipmentID, alloc.LineID, alloc.UnitID, alloc.Quantity,
	)
	if err != nil {
		return fmt.Errorf("insert shipment_allocation: %w", err)
	}
	return nil
}

const shipmentSelect = `
	SELECT id, shipment_number, operator, total_boxes, total_items,
	       status, shipping_method, remark, created_at, shipped_at
	FROM shipments`

// GetRecord obtiene un envío por ID; nil si no existe.
func (r *ShipmentRepo) GetRecord(id string) (*entity.ShipmentRecord, error) {
	query := shipmentSelect + ` WHERE id = $1`
	rec, err := scanShipmentRecord(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return rec, nil
}

// ListLines lista las líneas de un envío en orden de inserción.
func (r *ShipmentRepo) ListLines(shipmentID string) ([]*entity.ShipmentLine, error) {
	const query = `
		SELECT id, shipment_id, order_item_num, source_ref, need_num, local_sku, amz_sku,
		       requested_quantity, shipped_quantity, whole_boxes, mixed_box_quantity
		FROM shipment_lines WHERE shipment_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list shipment_lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.ShipmentLine
	for rows.Next() {
		var l entity.ShipmentLine
		if err := rows.Scan(
			&l.ID, &l.ShipmentID, &l.OrderItemNum, &l.SourceRef, &l.NeedNum,
			&l.LocalSKU, &l.AmzSKU, &l.RequestedQuantity, &l.ShippedQuantity,
			&l.WholeBoxes, &l.MixedBoxQuantity,
		); err != nil {
			return nil, fmt.Errorf("scan shipment_line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// ListRelations lista las relaciones de un envío con sus lotes de demanda.
func (r *ShipmentRepo) ListRelations(shipmentID string) ([]*entity.OrderShipmentRelation, error) {
	const query = `
		SELECT need_num, shipment_id, total_requested, total_shipped, completion_status, source_ref
		FROM order_shipment_relations WHERE shipment_id = $1 ORDER BY need_num`
	rows, err := r.q.Query(context.Background(), query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list order_shipment_relations: %w", err)
	}
	defer rows.Close()

	var rels []*entity.OrderShipmentRelation
	for rows.Next() {
		var rel entity.OrderShipmentRelation
		if err := rows.Scan(
			&rel.NeedNum, &rel.ShipmentID, &rel.TotalRequested, &rel.TotalShipped,
			&rel.CompletionStatus, &rel.SourceRef,
		); err != nil {
			return nil, fmt.Errorf("scan order_shipment_relation: %w", err)
		}
		rels = append(rels, &rel)
	}
	return rels, rows.Err()
}

// ListAllocations lista las tomas por unidad de un envío (base de la reversión).
func (r *ShipmentRepo) ListAllocations(shipmentID string) ([]*entity.UnitAllocation, error) {
	const query = `
		SELECT shipment_id, line_id, unit_id, quantity
		FROM shipment_allocations WHERE shipment_id = $1 ORDER BY line_id, unit_id`
	rows, err := r.q.Query(context.Background(), query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list shipment_allocations: %w", err)
	}
	defer rows.Close()

	var allocs []*entity.UnitAllocation
	for rows.Next() {
		var a entity.UnitAllocation
		if err := rows.Scan(&a.ShipmentID, &a.LineID, &a.UnitID, &a.Quantity); err != nil {
			return nil, fmt.Errorf("scan shipment_allocation: %w", err)
		}
		allocs = append(allocs, &a)
	}
	return allocs, rows.Err()
}

// DeleteShipment borra registro, líneas, relaciones y asignaciones del envío.
// La restauración de inventario ya la hizo el caso de uso dentro de la misma tx.
func (r *ShipmentRepo) DeleteShipment(shipmentID string) error {
	ctx := context.Background()
	for _, query := range []string{
		`DELETE FROM shipment_allocations WHERE shipment_id = $1`,
		`DELETE FROM order_shipment_relations WHERE shipment_id = $1`,
		`DELETE FROM shipment_lines WHERE shipment_id = $1`,
	} {
		if _, err := r.q.Exec(ctx, query, shipmentID); err != nil {
			return fmt.Errorf("delete shipment rows: %w", err)
		}
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM shipments WHERE id = $1`, shipmentID)
	if err != nil {
		return fmt.Errorf("delete shipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus actualiza status y shipped_at del envío.
func (r *ShipmentRepo) UpdateStatus(id, status string, shippedAt *time.Time) error {
	const query = `UPDATE shipments SET status = $2, shipped_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status, shippedAt)
	if err != nil {
		return fmt.Errorf("update shipment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List historial de envíos con filtros opcionales, el más reciente primero.
func (r *ShipmentRepo) List(filter repository.ShipmentFilter, limit, offset int) ([]*entity.ShipmentRecord, error) {
	query := shipmentSelect + ` WHERE 1=1`
	args := []any{}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += ` AND created_at >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += ` AND created_at < $` + strconv.Itoa(len(args))
	}
	if filter.Operator != "" {
		args = append(args, filter.Operator)
		query += ` AND operator = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	args = append(args, limit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()

	var records []*entity.ShipmentRecord
	for rows.Next() {
		rec, err := scanShipmentRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipment: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanShipmentRecord(row pgx.Row) (*entity.ShipmentRecord, error) {
	var rec entity.ShipmentRecord
	err := row.Scan(
		&rec.ID, &rec.ShipmentNumber, &rec.Operator, &rec.TotalBoxes, &rec.TotalItems,
		&rec.Status, &rec.ShippingMethod, &rec.Remark, &rec.CreatedAt, &rec.ShippedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
