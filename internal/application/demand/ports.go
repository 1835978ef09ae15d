package demand

import (
	"context"

	"github.com/shopspring/decimal"
)

// BatchSummary resumen de un lote creado, entregado al colaborador de notificaciones.
type BatchSummary struct {
	NeedNum        string
	Country        string
	Marketplace    string
	ShippingMethod string
	LineCount      int
	TotalQuantity  decimal.Decimal
	CreatedBy      string
}

// Notifier entrega el resumen de un lote recién creado. Es mejor esfuerzo y
// post-commit: el motor registra el fallo en el log y nunca lo propaga al caller.
type Notifier interface {
	NotifyBatchCreated(ctx context.Context, batch BatchSummary) error
}
