package inventory

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// DefaultMaxAttempts intentos por operación ante domain.ErrConflict.
const DefaultMaxAttempts = 3

// retryOnConflict reejecuta fn mientras falle con domain.ErrConflict, hasta attempts veces.
// Cada intento relee el estado dentro de su propia transacción. El resto de errores
// (validación, no encontrado, stock insuficiente) se devuelven de inmediato.
func retryOnConflict(ctx context.Context, log zerolog.Logger, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, domain.ErrConflict) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Warn().Err(err).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Msg("conflicto de concurrencia")
	}
	return err
}
