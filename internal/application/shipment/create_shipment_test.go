package shipment

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ops-api/internal/application/dto"
	"github.com/jhoicas/warehouse-ops-api/internal/domain"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-ops-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con semántica transaccional (snapshot + restore en fallo)
// ──────────────────────────────────────────────────────────────────────────────

type fakeDemandRepo struct {
	lines       map[int64]*entity.DemandLine
	lockedReads int // lecturas con bloqueo de fila
}

func (f *fakeDemandRepo) NextNeedNum(time.Time) (string, error) { return "", nil }
func (f *fakeDemandRepo) CreateBatch([]*entity.DemandLine) error {
	return nil
}
func (f *fakeDemandRepo) GetByRecordNum(recordNum int64) (*entity.DemandLine, error) {
	line, ok := f.lines[recordNum]
	if !ok {
		return nil, nil
	}
	cp := *line
	return &cp, nil
}
func (f *fakeDemandRepo) GetByRecordNumForUpdate(recordNum int64) (*entity.DemandLine, error) {
	f.lockedReads++
	return f.GetByRecordNum(recordNum)
}
func (f *fakeDemandRepo) FindOpenLines(string, string, string) ([]*entity.DemandLine, error) {
	return nil, nil
}
func (f *fakeDemandRepo) SetQuantity(int64, decimal.Decimal) error    { return nil }
func (f *fakeDemandRepo) AddQuantity(int64, decimal.Decimal) error    { return nil }
func (f *fakeDemandRepo) DeleteLine(int64) error                      { return nil }
func (f *fakeDemandRepo) DeleteBatch(string) error                    { return nil }
func (f *fakeDemandRepo) ListLines(string) ([]*entity.DemandLine, error) {
	return nil, nil
}
func (f *fakeDemandRepo) ListBatches(string, int, int) ([]*entity.DemandBatch, error) {
	return nil, nil
}

type fakeUnitRepo struct {
	units map[string]*entity.InventoryUnit
	order []string // orden de inserción
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{units: make(map[string]*entity.InventoryUnit)}
}

func (f *fakeUnitRepo) add(id, sku, country, boxType string, total string) {
	f.units[id] = &entity.InventoryUnit{
		ID:              id,
		SKU:             sku,
		Country:         country,
		BoxType:         boxType,
		TotalQuantity:   decimal.RequireFromString(total),
		ShippedQuantity: decimal.Zero,
		Status:          entity.UnitStatusPending,
	}
	f.order = append(f.order, id)
}

func (f *fakeUnitRepo) Create(unit *entity.InventoryUnit) error {
	cp := *unit
	f.units[unit.ID] = &cp
	f.order = append(f.order, unit.ID)
	return nil
}

func (f *fakeUnitRepo) GetByID(id string) (*entity.InventoryUnit, error) {
	unit, ok := f.units[id]
	if !ok {
		return nil, nil
	}
	cp := *unit
	return &cp, nil
}

func (f *fakeUnitRepo) GetByIDForUpdate(id string) (*entity.InventoryUnit, error) {
	return f.GetByID(id)
}

func (f *fakeUnitRepo) ListAllocatable(sku, country string) ([]*entity.InventoryUnit, error) {
	// Caja completa antes que mixta, como el ORDER BY del repo real.
	var whole, mixed []*entity.InventoryUnit
	for _, id := range f.order {
		unit := f.units[id]
		if unit.SKU != sku || unit.Country != country || !unit.Allocatable() {
			continue
		}
		cp := *unit
		if unit.BoxType == entity.BoxTypeWhole {
			whole = append(whole, &cp)
		} else {
			mixed = append(mixed, &cp)
		}
	}
	return append(whole, mixed...), nil
}

func (f *fakeUnitRepo) ListAllocatableForUpdate(sku, country string) ([]*entity.InventoryUnit, error) {
	return f.ListAllocatable(sku, country)
}

func (f *fakeUnitRepo) UpdateShipped(id string, shipped decimal.Decimal, status string, shippedAt *time.Time) error {
	unit, ok := f.units[id]
	if !ok {
		return domain.ErrNotFound
	}
	if shipped.GreaterThan(unit.TotalQuantity) {
		return domain.ErrInsufficientStock
	}
	unit.ShippedQuantity = shipped
	unit.Status = status
	unit.ShippedAt = shippedAt
	return nil
}

func (f *fakeUnitRepo) ListForRepair() ([]*entity.InventoryUnit, error) { return nil, nil }
func (f *fakeUnitRepo) Cancel(id string) error                          { return nil }

type fakeShipmentRepo struct {
	seq       int
	records   map[string]*entity.ShipmentRecord
	lines     []*entity.ShipmentLine
	relations []*entity.OrderShipmentRelation
	allocs    []*entity.UnitAllocation
}

func newFakeShipmentRepo() *fakeShipmentRepo {
	return &fakeShipmentRepo{records: make(map[string]*entity.ShipmentRecord)}
}

func (f *fakeShipmentRepo) NextShipmentNumber(day time.Time) (string, error) {
	f.seq++
	return fmt.Sprintf("SHP%s%03d", day.Format("20060102"), f.seq), nil
}

func (f *fakeShipmentRepo) CreateRecord(rec *entity.ShipmentRecord) error {
	cp := *rec
	f.records[rec.ID] = &cp
	return nil
}

func (f *fakeShipmentRepo) CreateLine(line *entity.ShipmentLine) error {
	cp := *line
	f.lines = append(f.lines, &cp)
	return nil
}

func (f *fakeShipmentRepo) CreateRelation(rel *entity.OrderShipmentRelation) error {
	cp := *rel
	f.relations = append(f.relations, &cp)
	return nil
}

func (f *fakeShipmentRepo) CreateAllocation(alloc *entity.UnitAllocation) error {
	cp := *alloc
	f.allocs = append(f.allocs, &cp)
	return nil
}

func (f *fakeShipmentRepo) GetRecord(id string) (*entity.ShipmentRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeShipmentRepo) ListLines(shipmentID string) ([]*entity.ShipmentLine, error) {
	var out []*entity.ShipmentLine
	for _, line := range f.lines {
		if line.ShipmentID == shipmentID {
			cp := *line
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeShipmentRepo) ListRelations(shipmentID string) ([]*entity.OrderShipmentRelation, error) {
	var out []*entity.OrderShipmentRelation
	for _, rel := range f.relations {
		if rel.ShipmentID == shipmentID {
			cp := *rel
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeShipmentRepo) ListAllocations(shipmentID string) ([]*entity.UnitAllocation, error) {
	var out []*entity.UnitAllocation
	for _, alloc := range f.allocs {
		if alloc.ShipmentID == shipmentID {
			cp := *alloc
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeShipmentRepo) DeleteShipment(shipmentID string) error {
	if _, ok := f.records[shipmentID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.records, shipmentID)
	keepLines := f.lines[:0]
	for _, line := range f.lines {
		if line.ShipmentID != shipmentID {
			keepLines = append(keepLines, line)
		}
	}
	f.lines = keepLines
	keepRels := f.relations[:0]
	for _, rel := range f.relations {
		if rel.ShipmentID != shipmentID {
			keepRels = append(keepRels, rel)
		}
	}
	f.relations = keepRels
	keepAllocs := f.allocs[:0]
	for _, alloc := range f.allocs {
		if alloc.ShipmentID != shipmentID {
			keepAllocs = append(keepAllocs, alloc)
		}
	}
	f.allocs = keepAllocs
	return nil
}

func (f *fakeShipmentRepo) UpdateStatus(id, status string, shippedAt *time.Time) error {
	rec, ok := f.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Status = status
	rec.ShippedAt = shippedAt
	return nil
}

func (f *fakeShipmentRepo) List(repository.ShipmentFilter, int, int) ([]*entity.ShipmentRecord, error) {
	return nil, nil
}

// fakeTxRunner llama fn con los fakes y, si falla, restaura el snapshot previo
// (equivalente al rollback de la transacción real).
type fakeTxRunner struct {
	demand *fakeDemandRepo
	units  *fakeUnitRepo
	store  *fakeShipmentRepo
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	repository.DemandRepository,
	repository.InventoryUnitRepository,
	repository.ShipmentRepository,
) error) error {
	unitsSnap := make(map[string]entity.InventoryUnit, len(f.units.units))
	for id, unit := range f.units.units {
		unitsSnap[id] = *unit
	}
	linesBefore := len(f.store.lines)
	relsBefore := len(f.store.relations)
	allocsBefore := len(f.store.allocs)
	recordsSnap := make(map[string]entity.ShipmentRecord, len(f.store.records))
	for id, rec := range f.store.records {
		recordsSnap[id] = *rec
	}

	if err := fn(f.demand, f.units, f.store); err != nil {
		for id := range f.units.units {
			snap := unitsSnap[id]
			f.units.units[id] = &snap
		}
		f.store.lines = f.store.lines[:linesBefore]
		f.store.relations = f.store.relations[:relsBefore]
		f.store.allocs = f.store.allocs[:allocsBefore]
		f.store.records = make(map[string]*entity.ShipmentRecord, len(recordsSnap))
		for id := range recordsSnap {
			snap := recordsSnap[id]
			f.store.records[id] = &snap
		}
		return err
	}
	return nil
}

type testEnv struct {
	demand *fakeDemandRepo
	units  *fakeUnitRepo
	store  *fakeShipmentRepo
	uc     *ShipmentUseCase
}

func newTestEnv() *testEnv {
	env := &testEnv{
		demand: &fakeDemandRepo{lines: make(map[int64]*entity.DemandLine)},
		units:  newFakeUnitRepo(),
		store:  newFakeShipmentRepo(),
	}
	runner := &fakeTxRunner{demand: env.demand, units: env.units, store: env.store}
	env.uc = NewShipmentUseCase(runner, env.store, nil, logger.Nop())
	return env
}

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateShipment
// ──────────────────────────────────────────────────────────────────────────────

// Línea manual con ref negativo: lote sintético MANUAL-<timestamp>, OrderItemNum
// nil y el centinela original conservado en source_ref de línea y relación.
func TestCreateShipment_ManualConRefNegativo(t *testing.T) {
	env := newTestEnv()
	env.units.add("u1", "AGXB362D1", "美国", entity.BoxTypeWhole, "50")

	rec, err := env.uc.CreateShipment(context.Background(), CreateInput{
		Operator:       "operador-1",
		ShippingMethod: "air",
		Lines: []dto.ShipmentLineInput{
			{OrderItemID: -4, SKU: "AGXB362D1", Country: "美国", Quantity: qty("10"), WholeBoxes: 1},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, strings.HasPrefix(rec.ShipmentNumber, "SHP"))

	lines, _ := env.store.ListLines(rec.ID)
	require.Len(t, lines, 1)
	assert.Nil(t, lines[0].OrderItemNum, "línea manual no vincula demanda")
	assert.Equal(t, int64(-4), lines[0].SourceRef, "el ref original se conserva")
	assert.True(t, strings.HasPrefix(lines[0].NeedNum, "MANUAL-"), "lote sintético con prefijo MANUAL-")

	rels, _ := env.store.ListRelations(rec.ID)
	require.Len(t, rels, 1)
	assert.Equal(t, int64(-4), rels[0].SourceRef)
	assert.Equal(t, entity.CompletionComplete, rels[0].CompletionStatus)

	unit, _ := env.units.GetByID("u1")
	assert.True(t, qty("10").Equal(unit.ShippedQuantity))
	assert.Equal(t, entity.UnitStatusPartial, unit.Status)
}

// Dos líneas manuales sin need_num propio comparten el mismo lote sintético.
func TestCreateShipment_ManualesCompartenLoteSintetico(t *testing.T) {
	env := newTestEnv()
	env.units.add("u1", "SKU-A", "美国", entity.BoxTypeWhole, "50")
	env.units.add("u2", "SKU-B", "美国", entity.BoxTypeWhole, "50")

	rec, err := env.uc.CreateShipment(context.Background(), CreateInput{
		Operator:       "operador-1",
		ShippingMethod: "air",
		Lines: []dto.ShipmentLineInput{
			{OrderItemID: 0, SKU: "SKU-A", Country: "美国", Quantity: qty("5")},
			{OrderItemID: -1, SKU: "SKU-B", Country: "美国", Quantity: qty("5")},
		},
	})
	require.NoError(t, err)

	lines, _ := env.store.ListLines(rec.ID)
	require.Len(t, lines, 2)
	assert.Equal(t, lines[0].NeedNum, lines[1].NeedNum, "mismo lote sintético para todo el envío")

	rels, _ := env.store.ListRelations(rec.ID)
	assert.Len(t, rels, 1, "una sola relación para el lote sintético compartido")
}

// Línea vinculada: requested = pendiente de la demanda y la relación marca
// cumplimiento completo cuando se envía todo.
func TestCreateShipment_VinculadoCompleto(t *testing.T) {
	env := newTestEnv()
	env.demand.lines[7] = &entity.DemandLine{
		RecordNum: 7, NeedNum: "REQ20260830001", SKU: "AGXB362D1",
		Quantity: qty("44"), Country: "美国", Marketplace: "amazon-us",
	}
	env.units.add("u1", "AGXB362D1", "美国", entity.BoxTypeWhole, "100")

	rec, err := env.uc.CreateShipment(context.Background(), CreateInput{
		Operator:       "operador-1",
		ShippingMethod: "sea",
		Lines: []dto.ShipmentLineInput{
			{OrderItemID: 7, SKU: "AGXB362D1", Country: "美国", Quantity: qty("44")},
		},
	})
	require.NoError(t, err)

	lines, _ := env.store.ListLines(rec.ID)
	require.Len(t, lines, 1)
	require.NotNil(t, lines[0].OrderItemNum)
	assert.Equal(t, int64(7), *lines[0].OrderItemNum)
	assert.Equal(t, "REQ20260830001", lines[0].NeedNum)
	assert.True(t, qty("44").Equal(lines[0].RequestedQuantity))

	rels, _ := env.store.ListRelations(rec.ID)
	require.Len(t, rels, 1)
	assert.Equal(t, entity.CompletionComplete, rels[0].CompletionStatus)
	assert.Equal(t, 1, env.demand.lockedReads, "la línea vinculada se lee con bloqueo de fila")
}

// Enviar más que el pendiente de la demanda vinculada rompe el invariante y se rechaza.
func TestCreateShipment_VinculadoSobreEnvio_Rechaza(t *testing.T) {
	env := newTestEnv()
	env.demand.lines[7] = &entity.DemandLine{
		RecordNum: 7, NeedNum: "REQ20260830001", SKU: "AGXB362D1",
		Quantity: qty("44"), ShippedQuantity: qty("40"), Country: "美国", Marketplace: "amazon-us",
	}
	env.units.add("u1", "AGXB362D1", "美国", entity.BoxTypeWhole, "100")

	_, err := env.uc.CreateShipment(context.Background(), CreateInput{
		Operator:       "operador-1",
		ShippingMethod: "sea",
		Lines: []dto.ShipmentLineInput{
			{OrderItemID: 7, SKU: "AGXB362D1", Country: "美国", Quantity: qty("10")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	unit, _ := env.units.GetByID("u1")
	assert.True(t, unit.ShippedQuantity.IsZero(), "el rollback no deja descuentos")
}

// La asignación agota caja completa antes que mixta aunque la mixta sea más antigua.
func TestCreateShipment_CajaCompletaAntesQueMixta(t *testing.T) {
	env := newTestEnv()
	env.units.add("mixta", "AGXB362D1", "美国", entity.BoxTypeMixed, "30")
	env.units.add("completa", "AGXB362D1", "美国", entity.BoxTypeWhole, "40")

	rec, err := env.uc.CreateShipment(context.Background(), CreateInput{
		Operator:       "operador-1",
		ShippingMethod: "sea",
		Lines: []dto.ShipmentLineInput{
			{OrderItemID: 0, SKU: "AGXB362D1", Country: "美国", Quantity: qty("50")},
		},
	})
	require.NoError(t, err)

	completa, _ := env.units.GetByID("completa")
	assert.True(t, qty("40").Equal(completa.ShippedQuantity), "la caja completa se agota primero")
	assert.Equal(t, entity.UnitStatusShipped, completa.Status)
	assert.NotNil(t, completa.ShippedAt)

	mixta, _ := env.units.GetByID("mixta")
	assert.True(t, qty("10").Equal(mixta.ShippedQuantity), "la mixta solo cubre el resto")
	assert.Equal(t, entity.UnitStatusPartial, mixta.Status)

	lines, _ := env.store.ListLines(rec.ID)
	require.Len(t, lines, 1)
	assert.True(t, qty("10").Equal(lines[0].MixedBoxQuantity))
}

// Stock insuficiente revierte la transacción completa: todo entra o nada entra.
func TestCreateShipment_StockInsuficiente_RevierteTodo(t *testing.T) {
	env := newTestEnv()
	env.units.add("u1", "SKU-A", "美国", entity.BoxTypeWhole, "50")
	env.units.add("u2", "SKU-B", "美国", entity.BoxTypeWhole, "3")

	_, err := env.uc.CreateShipment(context.Background(), CreateInput{
		Operator:       "operador-1",
		ShippingMethod: "sea",
		Lines: []dto.ShipmentLineInput{
			{OrderItemID: 0, SKU: "SKU-A", Country: "美国", Quantity: qty("10")},
			{OrderItemID: 0, SKU: "SKU-B", Country: "美国", Quantity: qty("5")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	u1, _ := env.units.GetByID("u1")
	assert.True(t, u1.ShippedQuantity.IsZero(), "la primera línea también se revierte")
	assert.Empty(t, env.store.records)
	assert.Empty(t, env.store.lines)
}

func TestCreateShipment_EntradaInvalida(t *testing.T) {
	env := newTestEnv()
	_, err := env.uc.CreateShipment(context.Background(), CreateInput{
		Operator: "", ShippingMethod: "sea",
		Lines: []dto.ShipmentLineInput{{SKU: "X", Country: "美国", Quantity: qty("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// DeleteShipment — reversión exacta
// ──────────────────────────────────────────────────────────────────────────────

// Crear y revertir deja el inventario exactamente como estaba.
func TestDeleteShipment_RestauraInventario(t *testing.T) {
	env := newTestEnv()
	env.units.add("mixta", "AGXB362D1", "美国", entity.BoxTypeMixed, "30")
	env.units.add("completa", "AGXB362D1", "美国", entity.BoxTypeWhole, "40")

	rec, err := env.uc.CreateShipment(context.Background(), CreateInput{
		Operator:       "operador-1",
		ShippingMethod: "sea",
		Lines: []dto.ShipmentLineInput{
			{OrderItemID: 0, SKU: "AGXB362D1", Country: "美国", Quantity: qty("50")},
		},
	})
	require.NoError(t, err)

	require.NoError(t, env.uc.DeleteShipment(context.Background(), rec.ID))

	for _, id := range []string{"mixta", "completa"} {
		unit, _ := env.units.GetByID(id)
		assert.True(t, unit.ShippedQuantity.IsZero(), "unidad %s restaurada", id)
		assert.Equal(t, entity.UnitStatusPending, unit.Status)
		assert.Nil(t, unit.ShippedAt)
	}
	assert.Empty(t, env.store.records)
	assert.Empty(t, env.store.lines)
	assert.Empty(t, env.store.relations)
	assert.Empty(t, env.store.allocs)
}

// La segunda reversión no encuentra el envío: nunca hay doble decremento.
func TestDeleteShipment_Reintento_NoDuplicaReversion(t *testing.T) {
	env := newTestEnv()
	env.units.add("u1", "AGXB362D1", "美国", entity.BoxTypeWhole, "40")

	rec, err := env.uc.CreateShipment(context.Background(), CreateInput{
		Operator:       "operador-1",
		ShippingMethod: "sea",
		Lines: []dto.ShipmentLineInput{
			{OrderItemID: 0, SKU: "AGXB362D1", Country: "美国", Quantity: qty("10")},
		},
	})
	require.NoError(t, err)

	require.NoError(t, env.uc.DeleteShipment(context.Background(), rec.ID))
	err = env.uc.DeleteShipment(context.Background(), rec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	unit, _ := env.units.GetByID("u1")
	assert.True(t, unit.ShippedQuantity.IsZero(), "sin doble incremento del stock")
}

// ──────────────────────────────────────────────────────────────────────────────
// MarkShipped
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkShipped_TransicionaYRechazaRepetido(t *testing.T) {
	env := newTestEnv()
	env.units.add("u1", "AGXB362D1", "美国", entity.BoxTypeWhole, "40")

	rec, err := env.uc.CreateShipment(context.Background(), CreateInput{
		Operator:       "operador-1",
		ShippingMethod: "sea",
		Lines: []dto.ShipmentLineInput{
			{OrderItemID: 0, SKU: "AGXB362D1", Country: "美国", Quantity: qty("10")},
		},
	})
	require.NoError(t, err)

	require.NoError(t, env.uc.MarkShipped(context.Background(), rec.ID))
	stored, _ := env.store.GetRecord(rec.ID)
	assert.Equal(t, entity.ShipmentStatusShipped, stored.Status)
	assert.NotNil(t, stored.ShippedAt)

	err = env.uc.MarkShipped(context.Background(), rec.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "solo preparing puede despacharse")
}
