package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/warehouse-ops-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-ops-api/internal/application/shipment"
	"github.com/jhoicas/warehouse-ops-api/internal/domain/repository"
)

// Ensure TxRunner implements shipment.TxRunner and inventory.RepairTxRunner.
var _ shipment.TxRunner = (*TxRunner)(nil)
var _ inventory.RepairTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Es el sobre transaccional de crear/borrar envíos: asignación, descuento de
// inventario y filas del envío se confirman o revierten juntos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	demandRepo repository.DemandRepository,
	unitRepo repository.InventoryUnitRepository,
	shipmentRepo repository.ShipmentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	demandRepo := NewDemandRepository(tx)
	unitRepo := NewInventoryUnitRepository(tx)
	shipmentRepo := NewShipmentRepository(tx)

	if err := fn(demandRepo, unitRepo, shipmentRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunInventory inicia una transacción solo con el repo de unidades (pase de reparación).
func (r *TxRunner) RunInventory(ctx context.Context, fn func(
	unitRepo repository.InventoryUnitRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInventoryUnitRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
