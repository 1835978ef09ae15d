package demand

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ops-api/internal/application/dto"
	"github.com/jhoicas/warehouse-ops-api/internal/domain"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-ops-api/pkg/logger"
)

// DemandUseCase gestiona el libro de demanda: creación de lotes vía protocolo de
// resolución de conflictos, edición de cantidades, borrado y consultas.
type DemandUseCase struct {
	demandRepo repository.DemandRepository
	unitRepo   repository.InventoryUnitRepository
	notifier   Notifier
	log        *logger.Logger
}

// NewDemandUseCase construye el caso de uso. notifier puede ser nil (sin notificaciones).
func NewDemandUseCase(
	demandRepo repository.DemandRepository,
	unitRepo repository.InventoryUnitRepository,
	notifier Notifier,
	log *logger.Logger,
) *DemandUseCase {
	return &DemandUseCase{
		demandRepo: demandRepo,
		unitRepo:   unitRepo,
		notifier:   notifier,
		log:        log,
	}
}

// SubmitInput entrada del protocolo de envío de demanda.
type SubmitInput struct {
	Lines          []dto.DemandLineInput
	Country        string
	Marketplace    string
	ShippingMethod string
	Deadline       *time.Time
	Resolutions    []dto.ResolutionInput
	CreatedBy      string
}

// Submit ejecuta el protocolo de resolución de conflictos:
//  1. Detecta, por candidata y en orden de entrada, demanda abierta del mismo
//     SKU+país+marketplace con pendiente > 0.
//  2. Sin conflictos: crea el lote directo.
//  3. Con conflictos y sin resoluciones: devuelve la lista y ErrConflictUnresolved.
//  4. Con resoluciones: las aplica una a una en orden de entrada; cada una es su
//     propia escritura atómica y las ya aplicadas no se revierten si otra falla
//     (mejor esfuerzo secuencial con reporte de éxito parcial).
//  5. Crea un lote nuevo con las candidatas sin conflicto más las resueltas como
//     "new"; si ese conjunto queda vacío no se crea lote.
func (uc *DemandUseCase) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if len(in.Lines) == 0 || in.Country == "" || in.Marketplace == "" || in.ShippingMethod == "" {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(in.Lines))
	for _, cand := range in.Lines {
		if cand.SKU == "" || !cand.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		// Un SKU repetido en la misma petición haría ambigua la resolución
		// (las resoluciones se aplican por SKU).
		if seen[cand.SKU] {
			return nil, domain.ErrInvalidInput
		}
		seen[cand.SKU] = true
	}

	// Detección: una Conflict por candidata contra la línea abierta más antigua.
	var conflicts []Conflict
	var nonConflicted []dto.DemandLineInput
	for _, cand := range in.Lines {
		open, err := uc.demandRepo.FindOpenLines(cand.SKU, in.Country, in.Marketplace)
		if err != nil {
			return nil, err
		}
		if len(open) == 0 {
			nonConflicted = append(nonConflicted, cand)
			continue
		}
		existing := open[0]
		conflicts = append(conflicts, Conflict{
			SKU:               cand.SKU,
			ExistingRecordNum: existing.RecordNum,
			ExistingRemaining: existing.Remaining(),
			CandidateQuantity: cand.Quantity,
		})
	}

	if len(conflicts) == 0 {
		needNum, err := uc.createBatch(ctx, in, in.Lines)
		if err != nil {
			return nil, err
		}
		return &SubmitResult{NeedNum: needNum}, nil
	}

	if len(in.Resolutions) == 0 {
		return &SubmitResult{Conflicts: conflicts}, domain.ErrConflictUnresolved
	}

	actionFor := make(map[string]string, len(in.Resolutions))
	for _, r := range in.Resolutions {
		actionFor[r.SKU] = r.Action
	}

	result := &SubmitResult{Conflicts: conflicts}
	var newCandidates []dto.DemandLineInput
	for _, cf := range conflicts {
		action, ok := actionFor[cf.SKU]
		if !ok {
			result.Failed = append(result.Failed, ResolutionOutcome{
				SKU: cf.SKU, RecordNum: cf.ExistingRecordNum, Err: "sin resolución para el SKU",
			})
			continue
		}
		outcome := uc.applyResolution(cf, action, &newCandidates)
		if outcome.Err != "" {
			result.Failed = append(result.Failed, outcome)
		} else {
			result.Applied = append(result.Applied, outcome)
		}
	}

	combined := append(nonConflicted, newCandidates...)
	if len(combined) > 0 {
		needNum, err := uc.createBatch(ctx, in, combined)
		if err != nil {
			// Las resoluciones ya aplicadas quedan; el reporte acompaña al error.
			return result, err
		}
		result.NeedNum = needNum
	}
	return result, nil
}

// applyResolution aplica una resolución individual. Cada escritura es atómica por
// sí misma; un fallo se reporta y no interrumpe las siguientes.
func (uc *DemandUseCase) applyResolution(cf Conflict, action string, newCandidates *[]dto.DemandLineInput) ResolutionOutcome {
	out := ResolutionOutcome{SKU: cf.SKU, Action: action, RecordNum: cf.ExistingRecordNum}
	switch action {
	case ResolutionAdd:
		if err := uc.demandRepo.AddQuantity(cf.ExistingRecordNum, cf.CandidateQuantity); err != nil {
			out.Err = err.Error()
		}
	case ResolutionReplace:
		line, err := uc.demandRepo.GetByRecordNum(cf.ExistingRecordNum)
		if err != nil {
			out.Err = err.Error()
			return out
		}
		if line == nil {
			out.Err = domain.ErrNotFound.Error()
			return out
		}
		// replace debe respetar el piso: cantidad >= ya enviado
		if cf.CandidateQuantity.LessThan(line.ShippedQuantity) {
			out.Err = domain.ErrInvalidQuantity.Error()
			return out
		}
		if err := uc.demandRepo.SetQuantity(cf.ExistingRecordNum, cf.CandidateQuantity); err != nil {
			out.Err = err.Error()
		}
	case ResolutionNew:
		*newCandidates = append(*newCandidates, dto.DemandLineInput{SKU: cf.SKU, Quantity: cf.CandidateQuantity})
		out.RecordNum = 0 // no toca la línea existente
	default:
		out.Err = "acción de resolución desconocida: " + action
	}
	return out
}

// createBatch genera el need_num del día, inserta las líneas y dispara la
// notificación post-commit (mejor esfuerzo: un fallo solo se loguea).
func (uc *DemandUseCase) createBatch(ctx context.Context, in SubmitInput, lines []dto.DemandLineInput) (string, error) {
	needNum, err := uc.demandRepo.NextNeedNum(time.Now())
	if err != nil {
		return "", err
	}
	now := time.Now()
	total := decimal.Zero
	entities := make([]*entity.DemandLine, 0, len(lines))
	for _, cand := range lines {
		entities = append(entities, &entity.DemandLine{
			NeedNum:        needNum,
			SKU:            cand.SKU,
			Quantity:       cand.Quantity,
			Country:        in.Country,
			Marketplace:    in.Marketplace,
			ShippingMethod: in.ShippingMethod,
			Status:         entity.DemandStatusPending,
			Deadline:       in.Deadline,
			CreatedBy:      in.CreatedBy,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		total = total.Add(cand.Quantity)
	}
	if err := uc.demandRepo.CreateBatch(entities); err != nil {
		return "", err
	}

	if uc.notifier != nil {
		summary := BatchSummary{
			NeedNum:        needNum,
			Country:        in.Country,
			Marketplace:    in.Marketplace,
			ShippingMethod: in.ShippingMethod,
			LineCount:      len(entities),
			TotalQuantity:  total,
			CreatedBy:      in.CreatedBy,
		}
		if err := uc.notifier.NotifyBatchCreated(ctx, summary); err != nil {
			uc.log.Warn().Err(err).Str("need_num", needNum).Msg("notificación de lote no entregada")
		}
	}
	return needNum, nil
}
