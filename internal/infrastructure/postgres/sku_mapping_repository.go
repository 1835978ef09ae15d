package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/warehouse-ops-api/internal/domain"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/repository"
)

var _ repository.SkuMappingRepository = (*SkuMappingRepo)(nil)

// SkuMappingRepo implementación de SkuMappingRepository sobre PostgreSQL.
type SkuMappingRepo struct {
	q Querier
}

// NewSkuMappingRepository construye el adaptador de mapeos de SKU.
func NewSkuMappingRepository(q Querier) *SkuMappingRepo {
	return &SkuMappingRepo{q: q}
}

// Create inserta un mapeo; ErrDuplicate si ya existe (local_sku, marketplace).
func (r *SkuMappingRepo) Create(mapping *entity.SkuMapping) error {
	const query = `
		INSERT INTO sku_mappings (id, local_sku, amz_sku, marketplace, country, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.q.Exec(context.Background(), query,
		mapping.ID, mapping.LocalSKU, mapping.AmzSKU, mapping.Marketplace, mapping.Country,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sku_mapping: %w", err)
	}
	return nil
}

// GetByLocalSKU devuelve el mapeo para un SKU local en un marketplace; nil si no existe.
func (r *SkuMappingRepo) GetByLocalSKU(localSKU, marketplace string) (*entity.SkuMapping, error) {
	const query = `
		SELECT id, local_sku, amz_sku, marketplace, country, created_at, updated_at
		FROM sku_mappings WHERE local_sku = $1 AND marketplace = $2`
	var m entity.SkuMapping
	err := r.q.QueryRow(context.Background(), query, localSKU, marketplace).Scan(
		&m.ID, &m.LocalSKU, &m.AmzSKU, &m.Marketplace, &m.Country, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sku_mapping: %w", err)
	}
	return &m, nil
}

// List lista mapeos con paginación.
func (r *SkuMappingRepo) List(limit, offset int) ([]*entity.SkuMapping, error) {
	const query = `
		SELECT id, local_sku, amz_sku, marketplace, country, created_at, updated_at
		FROM sku_mappings ORDER BY local_sku, marketplace LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sku_mappings: %w", err)
	}
	defer rows.Close()

	var list []*entity.SkuMapping
	for rows.Next() {
		var m entity.SkuMapping
		if err := rows.Scan(
			&m.ID, &m.LocalSKU, &m.AmzSKU, &m.Marketplace, &m.Country, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sku_mapping: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Delete elimina un mapeo por ID.
func (r *SkuMappingRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM sku_mappings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sku_mapping: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
