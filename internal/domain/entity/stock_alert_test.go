package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func TestCanTransition(t *testing.T) {
	allowed := map[entity.AlertStatus][]entity.AlertStatus{
		entity.AlertStatusActive:       {entity.AlertStatusAcknowledged, entity.AlertStatusResolved, entity.AlertStatusDismissed},
		entity.AlertStatusAcknowledged: {entity.AlertStatusResolved},
	}
	all := []entity.AlertStatus{
		entity.AlertStatusActive, entity.AlertStatusAcknowledged,
		entity.AlertStatusResolved, entity.AlertStatusDismissed,
	}
	for _, from := range all {
		for _, to := range all {
			want := contains(allowed[from], to)
			assert.Equal(t, want, entity.CanTransition(from, to), "%s → %s", from, to)
		}
	}
}

func contains(list []entity.AlertStatus, s entity.AlertStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestAlertRecord_Transition(t *testing.T) {
	t0 := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	a := &entity.AlertRecord{ID: 1, ProductID: "P1", Type: entity.AlertLowStock, Status: entity.AlertStatusActive}
	require.NoError(t, a.Transition(entity.AlertStatusAcknowledged, "ana", "", t0))
	assert.Equal(t, "ana", a.AcknowledgedBy)
	require.NotNil(t, a.AcknowledgedAt)
	assert.Equal(t, t0, *a.AcknowledgedAt)
	assert.Nil(t, a.ResolvedAt)

	require.NoError(t, a.Transition(entity.AlertStatusResolved, "luis", "repuesto", t1))
	assert.Equal(t, entity.AlertStatusResolved, a.Status)
	assert.Equal(t, "luis", a.ResolvedBy)
	assert.Equal(t, "repuesto", a.ResolutionNotes)
	assert.Equal(t, t1, a.UpdatedAt)

	err := a.Transition(entity.AlertStatusActive, "ana", "", t1)
	assert.Error(t, err)
	assert.Equal(t, entity.AlertStatusResolved, a.Status)

	d := &entity.AlertRecord{Status: entity.AlertStatusActive}
	require.NoError(t, d.Transition(entity.AlertStatusDismissed, "ana", "falso positivo", t0))
	assert.Equal(t, "ana", d.ResolvedBy)
	require.NotNil(t, d.ResolvedAt)
}

func TestAlertRecord_Clone(t *testing.T) {
	at := time.Now()
	a := &entity.AlertRecord{ID: 3, AcknowledgedAt: &at}
	c := a.Clone()
	require.NotNil(t, c.AcknowledgedAt)
	assert.NotSame(t, a.AcknowledgedAt, c.AcknowledgedAt)
	assert.Nil(t, (*entity.AlertRecord)(nil).Clone())
}

func TestParseEnums(t *testing.T) {
	typ, err := entity.ParseAlertType("expiry_warning")
	require.NoError(t, err)
	assert.Equal(t, entity.AlertExpiryWarning, typ)
	_, err = entity.ParseAlertType("incendio")
	assert.Error(t, err)

	st, err := entity.ParseAlertStatus("dismissed")
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusDismissed, st)
	_, err = entity.ParseAlertStatus("closed")
	assert.Error(t, err)

	sv, err := entity.ParseAlertSeverity("critical")
	require.NoError(t, err)
	assert.Equal(t, entity.SeverityCritical, sv)
	_, err = entity.ParseAlertSeverity("urgente")
	assert.Error(t, err)

	op, err := entity.ParseOperationType("return_stock")
	require.NoError(t, err)
	assert.Equal(t, entity.OperationReturnStock, op)
	_, err = entity.ParseOperationType("STOCK_IN")
	assert.Error(t, err)
}

func TestStockRecord_Helpers(t *testing.T) {
	in := time.Now()
	s := &entity.StockRecord{CurrentStock: 10, ReservedStock: 4, LowStockThreshold: 10, ReorderPoint: 12, MaxStock: 9, LastStockIn: &in}
	s.Recompute()
	assert.Equal(t, int64(6), s.AvailableStock)
	assert.True(t, s.IsLowStock())
	assert.False(t, s.IsOutOfStock())
	assert.True(t, s.IsOverstock())
	assert.True(t, s.BelowReorderPoint())

	c := s.Clone()
	assert.NotSame(t, s.LastStockIn, c.LastStockIn)
	c.CurrentStock = 0
	assert.Equal(t, int64(10), s.CurrentStock)
}
