package shipment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/warehouse-ops-api/internal/application/dto"
	"github.com/jhoicas/warehouse-ops-api/internal/domain"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/allocation"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-ops-api/pkg/logger"
)

// ShipmentUseCase registra y revierte envíos de forma transaccional, con bloqueo
// de fila (SELECT FOR UPDATE) sobre las unidades de inventario descontadas.
type ShipmentUseCase struct {
	txRunner     TxRunner
	shipmentRepo repository.ShipmentRepository
	skuRepo      repository.SkuMappingRepository
	log          *logger.Logger
}

// NewShipmentUseCase construye el caso de uso. shipmentRepo va atado al pool
// (solo consultas fuera de transacción); las escrituras pasan por txRunner.
func NewShipmentUseCase(
	txRunner TxRunner,
	shipmentRepo repository.ShipmentRepository,
	skuRepo repository.SkuMappingRepository,
	log *logger.Logger,
) *ShipmentUseCase {
	return &ShipmentUseCase{
		txRunner:     txRunner,
		shipmentRepo: shipmentRepo,
		skuRepo:      skuRepo,
		log:          log,
	}
}

// CreateInput entrada para registrar un envío.
type CreateInput struct {
	Operator       string
	Lines          []dto.ShipmentLineInput
	ShippingMethod string
	Remark         string
}

// CreateShipment registra un envío en una sola transacción:
//   - Resuelve el destino de cada línea: vinculada (order_item_id > 0) o manual
//     (cero/negativo), sintetizando un need_num "MANUAL-<timestamp>" cuando el
//     caller no aporta uno; el ref original se conserva para auditoría.
//   - Bloquea las unidades asignables del SKU+país y reparte la cantidad agotando
//     caja completa antes que mixta; revalida dentro de la transacción que ningún
//     descuento supere total_quantity.
//   - Escribe registro, líneas, asignaciones por unidad (para reversión exacta) y
//     una relación por cada lote de demanda tocado, con su estado de cumplimiento.
//
// Todo entra o nada entra: cualquier fallo revierte la transacción completa.
func (uc *ShipmentUseCase) CreateShipment(ctx context.Context, in CreateInput) (*entity.ShipmentRecord, error) {
	if in.Operator == "" || len(in.Lines) == 0 || in.ShippingMethod == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Lines {
		if line.SKU == "" || line.Country == "" || !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	rec := &entity.ShipmentRecord{
		ID:             uuid.New().String(),
		Operator:       in.Operator,
		Status:         entity.ShipmentStatusPreparing,
		ShippingMethod: in.ShippingMethod,
		Remark:         in.Remark,
		TotalItems:     decimal.Zero,
		CreatedAt:      now,
	}
	// Lote sintético compartido por las líneas manuales sin need_num propio.
	syntheticNeedNum := "MANUAL-" + now.Format("20060102150405")

	err := uc.txRunner.Run(ctx, func(
		demandRepo repository.DemandRepository,
		unitRepo repository.InventoryUnitRepository,
		shipmentRepo repository.ShipmentRepository,
	) error {
		number, err := shipmentRepo.NextShipmentNumber(now)
		if err != nil {
			return err
		}
		rec.ShipmentNumber = number

		type relAgg struct {
			requested decimal.Decimal
			shipped   decimal.Decimal
			sourceRef int64
		}
		relations := make(map[string]*relAgg)
		var relOrder []string
		var lines []*entity.ShipmentLine
		var allocs []*entity.UnitAllocation

		for _, input := range in.Lines {
			target, requested, err := uc.resolveTarget(demandRepo, input, syntheticNeedNum)
			if err != nil {
				return err
			}
			needNum := target.needNum

			// Bloquea y reparte: caja completa antes que mixta.
			units, err := unitRepo.ListAllocatableForUpdate(input.SKU, input.Country)
			if err != nil {
				return err
			}
			takes, err := allocation.PlanAllocation(units, input.Quantity)
			if err != nil {
				return err
			}

			line := &entity.ShipmentLine{
				ID:                uuid.New().String(),
				ShipmentID:        rec.ID,
				OrderItemNum:      target.orderItemNum,
				SourceRef:         input.OrderItemID,
				NeedNum:           needNum,
				LocalSKU:          input.SKU,
				AmzSKU:            uc.lookupAmzSKU(input.SKU, target.marketplace),
				RequestedQuantity: requested,
				ShippedQuantity:   input.Quantity,
				WholeBoxes:        input.WholeBoxes,
			}

			mixedTaken := decimal.Zero
			for _, take := range takes {
				newShipped := take.Unit.ShippedQuantity.Add(take.Quantity)
				status := entity.DeriveUnitStatus(newShipped, take.Unit.TotalQuantity)
				var shippedAt *time.Time
				if status == entity.UnitStatusShipped {
					shippedAt = &now
				}
				// Revalidación final: la guarda SQL rechaza shipped > total.
				if err := unitRepo.UpdateShipped(take.Unit.ID, newShipped, status, shippedAt); err != nil {
					return err
				}
				if take.Unit.BoxType == entity.BoxTypeMixed {
					mixedTaken = mixedTaken.Add(take.Quantity)
				}
				allocs = append(allocs, &entity.UnitAllocation{
					ShipmentID: rec.ID,
					LineID:     line.ID,
					UnitID:     take.Unit.ID,
					Quantity:   take.Quantity,
				})
			}
			line.MixedBoxQuantity = mixedTaken
			lines = append(lines, line)

			agg, ok := relations[needNum]
			if !ok {
				agg = &relAgg{requested: decimal.Zero, shipped: decimal.Zero, sourceRef: target.relationRef}
				relations[needNum] = agg
				relOrder = append(relOrder, needNum)
			}
			agg.requested = agg.requested.Add(requested)
			agg.shipped = agg.shipped.Add(input.Quantity)

			rec.TotalItems = rec.TotalItems.Add(input.Quantity)
			rec.TotalBoxes += input.WholeBoxes
		}

		if err := shipmentRepo.CreateRecord(rec); err != nil {
			return err
		}
		for _, line := range lines {
			if err := shipmentRepo.CreateLine(line); err != nil {
				return err
			}
		}
		for _, alloc := range allocs {
			if err := shipmentRepo.CreateAllocation(alloc); err != nil {
				return err
			}
		}
		for _, needNum := range relOrder {
			agg := relations[needNum]
			completion := entity.CompletionPartial
			if agg.shipped.GreaterThanOrEqual(agg.requested) {
				completion = entity.CompletionComplete
			}
			rel := &entity.OrderShipmentRelation{
				NeedNum:          needNum,
				ShipmentID:       rec.ID,
				TotalRequested:   agg.requested,
				TotalShipped:     agg.shipped,
				CompletionStatus: completion,
				SourceRef:        agg.sourceRef,
			}
			if err := shipmentRepo.CreateRelation(rel); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("shipment_id", rec.ID).
		Str("shipment_number", rec.ShipmentNumber).
		Str("operator", rec.Operator).
		Msg("envío registrado")
	return rec, nil
}

type resolvedTarget struct {
	needNum      string
	orderItemNum *int64 // nil en manuales
	relationRef  int64  // centinela original para la relación en lotes sintéticos
	marketplace  string
}

// resolveTarget resuelve el destino de una línea a través de la variante
// ShipmentTarget: vinculada cuando el ref es positivo, manual/temporal en caso
// contrario (el viejo centinela negativo solo sobrevive como source_ref).
func (uc *ShipmentUseCase) resolveTarget(
	demandRepo repository.DemandRepository,
	input dto.ShipmentLineInput,
	syntheticNeedNum string,
) (resolvedTarget, decimal.Decimal, error) {
	target := entity.LinkedTarget(input.OrderItemID)
	if input.OrderItemID <= 0 {
		target = entity.ManualTarget(input.OrderItemID, input.ManualNeedNum)
	}

	if target.Manual {
		needNum := target.ManualNeedNum
		if needNum == "" {
			needNum = syntheticNeedNum
		}
		return resolvedTarget{
			needNum:     needNum,
			relationRef: target.RawRef,
		}, input.Quantity, nil
	}

	// Vinculada: la DemandLine debe existir y la cantidad no puede superar su
	// pendiente. La fila se bloquea para que dos envíos concurrentes contra la
	// misma línea no pasen ambos la validación.
	line, err := demandRepo.GetByRecordNumForUpdate(target.RecordNum)
	if err != nil {
		return resolvedTarget{}, decimal.Zero, err
	}
	if line == nil {
		return resolvedTarget{}, decimal.Zero, domain.ErrNotFound
	}
	remaining := line.Remaining()
	if input.Quantity.GreaterThan(remaining) {
		return resolvedTarget{}, decimal.Zero, domain.ErrInvalidQuantity
	}
	recordNum := line.RecordNum
	return resolvedTarget{
		needNum:      line.NeedNum,
		orderItemNum: &recordNum,
		marketplace:  line.Marketplace,
	}, remaining, nil
}

// lookupAmzSKU consulta la tabla de enlace; un SKU sin mapeo no es error.
func (uc *ShipmentUseCase) lookupAmzSKU(localSKU, marketplace string) string {
	if uc.skuRepo == nil {
		return ""
	}
	mapping, err := uc.skuRepo.GetByLocalSKU(localSKU, marketplace)
	if err != nil || mapping == nil {
		return ""
	}
	return mapping.AmzSKU
}
