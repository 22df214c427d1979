package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	inv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

// recordingNotifier guarda las alertas notificadas; err simula un broker caído.
type recordingNotifier struct {
	mu     sync.Mutex
	alerts []*entity.AlertRecord
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, alerts []*entity.AlertRecord) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alerts...)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}

type harness struct {
	ledger       *inventory.StockLedger
	reservations *inventory.ReservationManager
	oplog        *inventory.OperationLog
	alerts       *inventory.AlertEngine
	summary      *inventory.SummaryReporter
	products     *memory.ProductRepo
	stocks       *memory.StockRepo
	notifier     *recordingNotifier
}

// newHarness arma los casos de uso sobre el backend go-memdb.
func newHarness(t *testing.T, opts ...func(*inventory.LedgerConfig)) *harness {
	t.Helper()
	store, err := memory.NewStore()
	require.NoError(t, err)

	cfg := inventory.DefaultLedgerConfig()
	for _, o := range opts {
		o(&cfg)
	}
	log := zerolog.Nop()
	txRunner := memory.NewTxRunner(store)
	stocks := memory.NewStockRepository(store)
	alertRepo := memory.NewAlertRepository(store)
	products := memory.NewProductRepository(store)
	notifier := &recordingNotifier{}

	alerts := inventory.NewAlertEngine(txRunner, alertRepo, notifier, cfg.MaxAttempts, log)
	oplog := inventory.NewOperationLog(memory.NewOperationRepository(store))
	ledger := inventory.NewStockLedger(txRunner, stocks, oplog, alerts, cfg, log)
	return &harness{
		ledger:       ledger,
		reservations: inventory.NewReservationManager(ledger, log),
		oplog:        oplog,
		alerts:       alerts,
		summary:      inventory.NewSummaryReporter(stocks, alertRepo, products, nil, log),
		products:     products,
		stocks:       stocks,
		notifier:     notifier,
	}
}

func withAutoCreate(cfg *inventory.LedgerConfig) { cfg.AutoCreateStock = true }

func (h *harness) register(t *testing.T, productID string, stock, low, reorder, maxStock int64) *entity.StockRecord {
	t.Helper()
	rec, err := h.ledger.RegisterProduct(context.Background(), inventory.RegisterProductInput{
		ProductID:         productID,
		InitialStock:      stock,
		LowStockThreshold: low,
		ReorderPoint:      reorder,
		MaxStock:          maxStock,
		ActorID:           "catalogo",
	})
	require.NoError(t, err)
	return rec
}

func (h *harness) adjust(productID string, op entity.OperationType, qty int64) (*entity.OperationRecord, error) {
	return h.ledger.Adjust(context.Background(), inventory.AdjustInput{
		ProductID:     productID,
		OperationType: op,
		Quantity:      qty,
		ActorID:       "bodega",
	})
}

func (h *harness) stock(t *testing.T, productID string) *entity.StockRecord {
	t.Helper()
	rec, err := h.ledger.GetStock(context.Background(), productID)
	require.NoError(t, err)
	require.NoError(t, inv.CheckInvariant(rec))
	return rec
}

func (h *harness) operations(t *testing.T, productID string) []*entity.OperationRecord {
	t.Helper()
	ops, err := h.oplog.Query(context.Background(), inventory.OperationQuery{
		ProductID: productID,
		Page:      dto.PageRequest{Page: 1, Limit: 100},
	})
	require.NoError(t, err)
	return ops
}

func (h *harness) activeAlerts(t *testing.T, productID string) []*entity.AlertRecord {
	t.Helper()
	list, err := h.alerts.ListAlerts(context.Background(), inventory.AlertQuery{
		Status:    string(entity.AlertStatusActive),
		ProductID: productID,
		Page:      dto.PageRequest{Page: 1, Limit: 100},
	})
	require.NoError(t, err)
	return list
}

func alertTypes(list []*entity.AlertRecord) []entity.AlertType {
	out := make([]entity.AlertType, 0, len(list))
	for _, a := range list {
		out = append(out, a.Type)
	}
	return out
}
