package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// ErrInvalidQuantity: editar la cantidad por debajo de lo ya enviado,
	// o una resolución replace con cantidad menor a lo enviado.
	ErrInvalidQuantity = errors.New("cantidad inválida: menor a lo ya enviado")

	// ErrConflictUnresolved: se intentó crear demanda con conflictos pendientes
	// y sin resoluciones; el caller debe resolver SKU por SKU.
	ErrConflictUnresolved = errors.New("demanda en conflicto sin resolver")

	// ErrHasShipments: borrado duro de demanda con envíos vinculados;
	// la alternativa es el cierre suave (cantidad = enviado).
	ErrHasShipments = errors.New("la demanda tiene envíos vinculados")
)
