package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func TestMapTxError(t *testing.T) {
	plain := errors.New("conexión cerrada")

	tests := []struct {
		name     string
		err      error
		conflict bool
	}{
		{"nil", nil, false},
		{"serialización", &pgconn.PgError{Code: sqlStateSerializationFailure}, true},
		{"deadlock", &pgconn.PgError{Code: sqlStateDeadlockDetected}, true},
		{"lock no disponible", fmt.Errorf("update: %w", &pgconn.PgError{Code: sqlStateLockNotAvailable}), true},
		{"unique", &pgconn.PgError{Code: sqlStateUniqueViolation}, false},
		{"ya es conflicto", fmt.Errorf("%w: versión", domain.ErrConflict), true},
		{"otro", plain, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapTxError(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.conflict, errors.Is(got, domain.ErrConflict))
		})
	}
	assert.Same(t, plain, mapTxError(plain))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("x")))
}
