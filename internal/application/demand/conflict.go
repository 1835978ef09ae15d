package demand

import "github.com/shopspring/decimal"

// Acciones de resolución de un conflicto de demanda.
const (
	ResolutionAdd     = "add"     // suma la cantidad candidata a la línea existente
	ResolutionReplace = "replace" // sustituye la cantidad de la línea existente
	ResolutionNew     = "new"     // la candidata va a un lote nuevo, sin fusionar
)

// Conflict es una demanda existente sin resolver que choca con una candidata:
// mismo SKU, país y marketplace, con cantidad pendiente > 0.
type Conflict struct {
	SKU               string
	ExistingRecordNum int64
	ExistingRemaining decimal.Decimal
	CandidateQuantity decimal.Decimal
}

// ResolutionOutcome resultado de aplicar (o fallar) una resolución para un SKU.
type ResolutionOutcome struct {
	SKU       string
	Action    string
	RecordNum int64
	Err       string // vacío si se aplicó
}

// SubmitResult resultado del protocolo de envío de demanda.
// Con conflictos sin resolver solo viene Conflicts (junto a ErrConflictUnresolved).
// Con resoluciones, Applied/Failed forman el reporte de éxito parcial: las
// resoluciones ya aplicadas no se revierten aunque otras fallen.
type SubmitResult struct {
	NeedNum   string // "" si no se creó lote nuevo
	Conflicts []Conflict
	Applied   []ResolutionOutcome
	Failed    []ResolutionOutcome
}

// PartialFailure indica éxito parcial: algo se aplicó y algo falló.
func (r *SubmitResult) PartialFailure() bool {
	return len(r.Failed) > 0 && (len(r.Applied) > 0 || r.NeedNum != "")
}
