package inventory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

// flakyRunner devuelve domain.ErrConflict en las próximas failNext llamadas y luego
// delega en el runner real.
type flakyRunner struct {
	next     inventory.TxRunner
	failNext int
	calls    int
}

func (r *flakyRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	opRepo repository.StockOperationRepository,
	alertRepo repository.StockAlertRepository,
) error) error {
	r.calls++
	if r.failNext > 0 {
		r.failNext--
		return fmt.Errorf("%w: serialización simulada", domain.ErrConflict)
	}
	return r.next.Run(ctx, fn)
}

type retryFixture struct {
	runner  *flakyRunner
	ledger  *inventory.StockLedger
	oplog   *inventory.OperationLog
	stocks  *memory.StockRepo
	reserve *inventory.ReservationManager
}

func newRetryFixture(t *testing.T, maxAttempts int) *retryFixture {
	t.Helper()
	store, err := memory.NewStore()
	require.NoError(t, err)

	cfg := inventory.DefaultLedgerConfig()
	cfg.MaxAttempts = maxAttempts
	log := zerolog.Nop()
	base := memory.NewTxRunner(store)
	runner := &flakyRunner{next: base}
	stocks := memory.NewStockRepository(store)

	alerts := inventory.NewAlertEngine(base, memory.NewAlertRepository(store), &recordingNotifier{}, maxAttempts, log)
	oplog := inventory.NewOperationLog(memory.NewOperationRepository(store))
	ledger := inventory.NewStockLedger(runner, stocks, oplog, alerts, cfg, log)

	_, err = ledger.RegisterProduct(context.Background(), inventory.RegisterProductInput{
		ProductID: "P1", InitialStock: 20, LowStockThreshold: 5, MaxStock: 100,
	})
	require.NoError(t, err)
	runner.calls = 0
	return &retryFixture{
		runner:  runner,
		ledger:  ledger,
		oplog:   oplog,
		stocks:  stocks,
		reserve: inventory.NewReservationManager(ledger, log),
	}
}

func (f *retryFixture) current(t *testing.T) int64 {
	t.Helper()
	rec, err := f.stocks.Get(context.Background(), "P1")
	require.NoError(t, err)
	return rec.CurrentStock
}

func TestRetry_ConflictoTransitorio(t *testing.T) {
	f := newRetryFixture(t, 3)
	f.runner.failNext = 2

	op, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: "P1", OperationType: entity.OperationStockIn, Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, f.runner.calls)
	assert.Equal(t, int64(25), op.NewStock)
	assert.Equal(t, int64(25), f.current(t), "el efecto se aplica una sola vez")

	ops, err := f.oplog.Query(context.Background(), inventory.OperationQuery{ProductID: "P1"})
	require.NoError(t, err)
	assert.Len(t, ops, 2)
}

func TestRetry_AgotaIntentos(t *testing.T) {
	f := newRetryFixture(t, 3)
	f.runner.failNext = 3

	_, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: "P1", OperationType: entity.OperationStockOut, Quantity: 5,
	})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 3, f.runner.calls)
	assert.Equal(t, int64(20), f.current(t))
}

func TestRetry_ReservaConConflicto(t *testing.T) {
	f := newRetryFixture(t, 4)
	f.runner.failNext = 3

	rec, err := f.reserve.Reserve(context.Background(), inventory.ReservationInput{ProductID: "P1", Quantity: 8})
	require.NoError(t, err)
	assert.Equal(t, 4, f.runner.calls)
	assert.Equal(t, int64(8), rec.ReservedStock)
}

func TestRetry_StockInsuficienteNoSeReintenta(t *testing.T) {
	f := newRetryFixture(t, 3)

	_, err := f.ledger.Adjust(context.Background(), inventory.AdjustInput{
		ProductID: "P1", OperationType: entity.OperationStockOut, Quantity: 21,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, f.runner.calls)

	_, err = f.reserve.Reserve(context.Background(), inventory.ReservationInput{ProductID: "P1", Quantity: 21})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, f.runner.calls)
}

func TestRetry_ContextoCanceladoCorta(t *testing.T) {
	f := newRetryFixture(t, 5)
	f.runner.failNext = 5
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.ledger.Adjust(ctx, inventory.AdjustInput{
		ProductID: "P1", OperationType: entity.OperationStockIn, Quantity: 1,
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.runner.calls)
}
