package repository

import "github.com/jhoicas/warehouse-ops-api/internal/domain/entity"

// SkuMappingRepository define el puerto para la tabla de enlace SKU local <-> SKU marketplace.
type SkuMappingRepository interface {
	Create(mapping *entity.SkuMapping) error
	// GetByLocalSKU devuelve el mapeo para un SKU local en un marketplace, nil si no existe.
	GetByLocalSKU(localSKU, marketplace string) (*entity.SkuMapping, error)
	List(limit, offset int) ([]*entity.SkuMapping, error)
	Delete(id string) error
}
