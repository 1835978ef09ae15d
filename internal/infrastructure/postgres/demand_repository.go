package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ops-api/internal/domain"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/repository"
)

var _ repository.DemandRepository = (*DemandRepo)(nil)

// DemandRepo implementación de DemandRepository sobre PostgreSQL (usable con pool o tx).
// ShippedQuantity nunca se almacena en demand_lines: se deriva en cada lectura
// sumando las shipment_lines vinculadas por order_item_num.
type DemandRepo struct {
	q Querier
}

// NewDemandRepository construye el adaptador de demanda. Pasar pool o tx (Querier).
func NewDemandRepository(q Querier) *DemandRepo {
	return &DemandRepo{q: q}
}

// Columnas base + subconsulta del enviado derivado.
const demandSelect = `
	SELECT d.record_num, d.need_num, d.sku, d.quantity, d.country, d.marketplace,
	       d.shipping_method, d.status, d.deadline, d.created_by, d.created_at, d.updated_at,
	       COALESCE((SELECT SUM(sl.shipped_quantity)
	                 FROM shipment_lines sl
	                 WHERE sl.order_item_num = d.record_num), 0) AS shipped_quantity
	FROM demand_lines d`

// NextNeedNum genera el identificador de lote del día (ej. REQ20260830003).
func (r *DemandRepo) NextNeedNum(day time.Time) (string, error) {
	return nextDailySequence(r.q, "need_num", "REQ", day)
}

// CreateBatch inserta todas las líneas del lote y rellena RecordNum (bigserial).
// Un solo INSERT multifila: el lote entero entra o nada entra, también cuando el
// repo va atado al pool en vez de a una transacción.
func (r *DemandRepo) CreateBatch(lines []*entity.DemandLine) error {
	if len(lines) == 0 {
		return domain.ErrInvalidInput
	}
	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO demand_lines
			(need_num, sku, quantity, country, marketplace, shipping_method,
			 status, deadline, created_by, created_at, updated_at)
		VALUES `)
	args := make([]any, 0, len(lines)*9)
	for i, line := range lines {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 9
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, now(), now())",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9)
		args = append(args,
			line.NeedNum, line.SKU, line.Quantity, line.Country, line.Marketplace,
			line.ShippingMethod, line.Status, line.Deadline, line.CreatedBy)
	}
	sb.WriteString(" RETURNING record_num")

	rows, err := r.q.Query(context.Background(), sb.String(), args...)
	if err != nil {
		return fmt.Errorf("insert demand batch: %w", err)
	}
	defer rows.Close()
	for i := 0; rows.Next(); i++ {
		if i >= len(lines) {
			break
		}
		if err := rows.Scan(&lines[i].RecordNum); err != nil {
			return fmt.Errorf("scan record_num: %w", err)
		}
	}
	return rows.Err()
}

// GetByRecordNum obtiene una línea con su enviado derivado; nil si no existe.
func (r *DemandRepo) GetByRecordNum(recordNum int64) (*entity.DemandLine, error) {
	return r.getByRecordNum(recordNum, "")
}

// GetByRecordNumForUpdate igual que GetByRecordNum pero bloqueando la fila
// (SELECT FOR UPDATE). Solo tiene sentido dentro de una transacción.
func (r *DemandRepo) GetByRecordNumForUpdate(recordNum int64) (*entity.DemandLine, error) {
	return r.getByRecordNum(recordNum, " FOR UPDATE OF d")
}

func (r *DemandRepo) getByRecordNum(recordNum int64, suffix string) (*entity.DemandLine, error) {
	query := demandSelect + ` WHERE d.record_num = $1` + suffix
	line, err := scanDemandLine(r.q.QueryRow(context.Background(), query, recordNum))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get demand_line: %w", err)
	}
	return line, nil
}

// FindOpenLines busca líneas sin resolver de un SKU: no canceladas y con
// pendiente > 0. Orden por record_num para que el conflicto apunte a la más antigua.
func (r *DemandRepo) FindOpenLines(sku, country, marketplace string) ([]*entity.DemandLine, error) {
	query := demandSelect + `
		WHERE d.sku = $1 AND d.country = $2 AND d.marketplace = $3
		  AND d.status <> 'cancelled'
		  AND d.quantity > COALESCE((SELECT SUM(sl.shipped_quantity)
		                             FROM shipment_lines sl
		                             WHERE sl.order_item_num = d.record_num), 0)
		ORDER BY d.record_num`
	rows, err := r.q.Query(context.Background(), query, sku, country, marketplace)
	if err != nil {
		return nil, fmt.Errorf("find open demand_lines: %w", err)
	}
	defer rows.Close()
	return collectDemandLines(rows)
}

// SetQuantity fija la cantidad solicitada. El piso de enviado lo valida el caso de uso.
func (r *DemandRepo) SetQuantity(recordNum int64, quantity decimal.Decimal) error {
	const query = `UPDATE demand_lines SET quantity = $2, updated_at = now() WHERE record_num = $1`
	tag, err := r.q.Exec(context.Background(), query, recordNum, quantity)
	if err != nil {
		return fmt.Errorf("set demand quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddQuantity incrementa la cantidad de forma atómica (resolución "add").
func (r *DemandRepo) AddQuantity(recordNum int64, delta decimal.Decimal) error {
	const query = `UPDATE demand_lines SET quantity = quantity + $2, updated_at = now() WHERE record_num = $1`
	tag, err := r.q.Exec(context.Background(), query, recordNum, delta)
	if err != nil {
		return fmt.Errorf("add demand quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteLine elimina una línea (el caso de uso ya verificó que no tiene envíos).
func (r *DemandRepo) DeleteLine(recordNum int64) error {
	const query = `DELETE FROM demand_lines WHERE record_num = $1`
	tag, err := r.q.Exec(context.Background(), query, recordNum)
	if err != nil {
		return fmt.Errorf("delete demand_line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteBatch elimina todas las líneas de un lote.
func (r *DemandRepo) DeleteBatch(needNum string) error {
	const query = `DELETE FROM demand_lines WHERE need_num = $1`
	tag, err := r.q.Exec(context.Background(), query, needNum)
	if err != nil {
		return fmt.Errorf("delete demand batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListLines lista las líneas de un lote en orden de creación.
func (r *DemandRepo) ListLines(needNum string) ([]*entity.DemandLine, error) {
	query := demandSelect + ` WHERE d.need_num = $1 ORDER BY d.record_num`
	rows, err := r.q.Query(context.Background(), query, needNum)
	if err != nil {
		return nil, fmt.Errorf("list demand_lines: %w", err)
	}
	defer rows.Close()
	return collectDemandLines(rows)
}

// ListBatches agrega las líneas por need_num; status filtra por estado derivado
// de los totales del lote ("" = todos).
func (r *DemandRepo) ListBatches(status string, limit, offset int) ([]*entity.DemandBatch, error) {
	query := `
		SELECT need_num, country, marketplace, shipping_method,
		       COUNT(*), SUM(quantity), SUM(shipped_quantity),
		       MIN(deadline), MIN(created_by), MIN(created_at)
		FROM (` + demandSelect + `) d
		WHERE d.status <> 'cancelled'
		GROUP BY need_num, country, marketplace, shipping_method`
	switch status {
	case entity.EffectivePending:
		query += ` HAVING SUM(shipped_quantity) <= 0`
	case entity.EffectivePartial:
		query += ` HAVING SUM(shipped_quantity) > 0 AND SUM(shipped_quantity) < SUM(quantity)`
	case entity.EffectiveFulfilled:
		query += ` HAVING SUM(shipped_quantity) >= SUM(quantity)`
	}
	query += ` ORDER BY MIN(created_at) DESC LIMIT $1 OFFSET $2`

	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list demand batches: %w", err)
	}
	defer rows.Close()

	var batches []*entity.DemandBatch
	for rows.Next() {
		var b entity.DemandBatch
		if err := rows.Scan(
			&b.NeedNum, &b.Country, &b.Marketplace, &b.ShippingMethod,
			&b.LineCount, &b.TotalQuantity, &b.TotalShipped,
			&b.Deadline, &b.CreatedBy, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan demand batch: %w", err)
		}
		batches = append(batches, &b)
	}
	return batches, rows.Err()
}

// ── helpers ───────────────────────────────────────────────────────────────────

func scanDemandLine(row pgx.Row) (*entity.DemandLine, error) {
	var d entity.DemandLine
	err := row.Scan(
		&d.RecordNum, &d.NeedNum, &d.SKU, &d.Quantity, &d.Country, &d.Marketplace,
		&d.ShippingMethod, &d.Status, &d.Deadline, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
		&d.ShippedQuantity,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDemandLines(rows pgx.Rows) ([]*entity.DemandLine, error) {
	var lines []*entity.DemandLine
	for rows.Next() {
		line, err := scanDemandLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan demand_line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
