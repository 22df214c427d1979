package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// Códigos SQLSTATE usados por los adaptadores.
const (
	sqlStateUniqueViolation      = "23505"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == sqlStateUniqueViolation
}

// isConcurrencyFailure serialización, deadlock o lock no disponible: el intento puede repetirse.
func isConcurrencyFailure(err error) bool {
	switch pgCode(err) {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateLockNotAvailable:
		return true
	}
	return false
}

// mapTxError traduce fallas de concurrencia a domain.ErrConflict para que el ledger reintente.
func mapTxError(err error) error {
	if err == nil || errors.Is(err, domain.ErrConflict) {
		return err
	}
	if isConcurrencyFailure(err) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}
