package skus

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/warehouse-ops-api/internal/application/dto"
	"github.com/jhoicas/warehouse-ops-api/internal/domain"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/repository"
)

// SkuUseCase CRUD de la tabla de enlace SKU local <-> SKU de marketplace.
type SkuUseCase struct {
	repo repository.SkuMappingRepository
}

// NewSkuUseCase construye el caso de uso.
func NewSkuUseCase(repo repository.SkuMappingRepository) *SkuUseCase {
	return &SkuUseCase{repo: repo}
}

// Create registra un mapeo de SKU.
func (uc *SkuUseCase) Create(ctx context.Context, in dto.SkuMappingRequest) (*entity.SkuMapping, error) {
	if in.LocalSKU == "" || in.AmzSKU == "" || in.Marketplace == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	mapping := &entity.SkuMapping{
		ID:          uuid.New().String(),
		LocalSKU:    in.LocalSKU,
		AmzSKU:      in.AmzSKU,
		Marketplace: in.Marketplace,
		Country:     in.Country,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

// List lista mapeos con paginación.
func (uc *SkuUseCase) List(ctx context.Context, limit, offset int) ([]*entity.SkuMapping, error) {
	return uc.repo.List(limit, offset)
}

// Delete elimina un mapeo.
func (uc *SkuUseCase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.repo.Delete(id)
}
