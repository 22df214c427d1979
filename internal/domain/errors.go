package domain

import "errors"

// Errores de dominio (sin dependencias externas).
//
// Taxonomía del motor de stock:
//   - ErrInvalidInput: cantidad no positiva, enum desconocido, transición de estado inválida.
//   - ErrNotFound: producto, alerta u operación inexistente.
//   - ErrInsufficientStock: la salida o reserva excede lo disponible. Nunca se reintenta.
//   - ErrConflict: colisión de concurrencia. El ledger la reintenta antes de devolverla.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)
