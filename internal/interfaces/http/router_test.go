package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
)

// newTestAPI arma la API completa sobre el backend en memoria.
func newTestAPI(t *testing.T) *fiber.App {
	t.Helper()
	store, err := memory.NewStore()
	require.NoError(t, err)

	log := zerolog.Nop()
	txRunner := memory.NewTxRunner(store)
	stockRepo := memory.NewStockRepository(store)
	alertRepo := memory.NewAlertRepository(store)

	alerts := inventory.NewAlertEngine(txRunner, alertRepo, nil, inventory.DefaultMaxAttempts, log)
	oplog := inventory.NewOperationLog(memory.NewOperationRepository(store))
	ledger := inventory.NewStockLedger(txRunner, stockRepo, oplog, alerts, inventory.DefaultLedgerConfig(), log)
	summary := inventory.NewSummaryReporter(stockRepo, alertRepo, memory.NewProductRepository(store),
		pdf.NewMarotoPDFGenerator("Resumen de inventario"), log)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3creto"), bcrypt.MinCost)
	require.NoError(t, err)
	authUC, err := auth.NewAuthUseCase(
		[]config.ServiceClient{{ID: "consola", Role: auth.RoleOperator, SecretHash: string(hash)}},
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
		log,
	)
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:       ledger,
		Reservations: inventory.NewReservationManager(ledger, log),
		OperationLog: oplog,
		Alerts:       alerts,
		Summary:      summary,
		AuthUC:       authUC,
		JWTSecret:    testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAPI_FlujoReservaYSalida(t *testing.T) {
	app := newTestAPI(t)
	operator := tokenForRole(t, auth.RoleOperator)
	workflow := tokenForRole(t, auth.RoleWorkflow)

	resp := call(t, app, http.MethodPost, "/api/inventory/products", operator,
		dto.RegisterProductRequest{ProductID: "P1", InitialStock: 100})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	stock := decode[dto.StockResponse](t, resp)
	assert.Equal(t, int64(100), stock.CurrentStock)
	assert.Equal(t, int64(100), stock.AvailableStock)

	resp = call(t, app, http.MethodPost, "/api/inventory/stock/P1/reserve", workflow,
		dto.ReservationRequest{Quantity: 30, ReferenceNumber: "ORD-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stock = decode[dto.StockResponse](t, resp)
	assert.Equal(t, int64(30), stock.ReservedStock)
	assert.Equal(t, int64(70), stock.AvailableStock)

	// La salida no puede dejar current por debajo de lo reservado.
	resp = call(t, app, http.MethodPost, "/api/inventory/stock/P1/adjust", workflow,
		dto.AdjustStockRequest{OperationType: "stock_out", Quantity: 80})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)

	resp = call(t, app, http.MethodPost, "/api/inventory/stock/P1/release", workflow,
		dto.ReservationRequest{Quantity: 50})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rel := decode[dto.ReleaseResponse](t, resp)
	assert.Equal(t, int64(50), rel.Requested)
	assert.Equal(t, int64(30), rel.Released)
	assert.Equal(t, int64(0), rel.Stock.ReservedStock)

	resp = call(t, app, http.MethodPost, "/api/inventory/stock/P1/adjust", workflow,
		dto.AdjustStockRequest{OperationType: "stock_out", Quantity: 80, ReferenceNumber: "ORD-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	op := decode[dto.OperationResponse](t, resp)
	assert.Equal(t, int64(100), op.PreviousStock)
	assert.Equal(t, int64(20), op.NewStock)
	assert.Equal(t, testUserID, op.ActorID)
	assert.Equal(t, inventory.SourceAPI, op.Source)

	resp = call(t, app, http.MethodGet, "/api/inventory/operations?product_id=P1", operator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ops := decode[struct {
		Items []dto.OperationResponse `json:"items"`
	}](t, resp)
	require.Len(t, ops.Items, 2)

	resp = call(t, app, http.MethodGet, "/api/inventory/stock/P1/replay", operator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	replay := decode[dto.ReplayResponse](t, resp)
	assert.True(t, replay.Consistent)
	assert.Equal(t, int64(20), replay.ReplayedStock)
}

func TestAPI_RolesPorRuta(t *testing.T) {
	app := newTestAPI(t)
	operator := tokenForRole(t, auth.RoleOperator)
	workflow := tokenForRole(t, auth.RoleWorkflow)

	resp := call(t, app, http.MethodPost, "/api/inventory/products", workflow,
		dto.RegisterProductRequest{ProductID: "P1", InitialStock: 5})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/inventory/products", operator,
		dto.RegisterProductRequest{ProductID: "P1", InitialStock: 5})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/inventory/stock/P1/reserve", operator,
		dto.ReservationRequest{Quantity: 1})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/inventory/stock/P1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_Errores(t *testing.T) {
	app := newTestAPI(t)
	operator := tokenForRole(t, auth.RoleOperator)

	resp := call(t, app, http.MethodGet, "/api/inventory/stock/NOPE", operator, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/inventory/products", operator,
		dto.RegisterProductRequest{ProductID: "P1", InitialStock: 5})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = call(t, app, http.MethodPost, "/api/inventory/products", operator,
		dto.RegisterProductRequest{ProductID: "P1", InitialStock: 5})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodPost, "/api/inventory/stock/P1/adjust", operator,
		dto.AdjustStockRequest{OperationType: "stock_out", Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/inventory/stock/P1/adjust", operator,
		dto.AdjustStockRequest{OperationType: "teleport", Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/inventory/operations/999", operator, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/inventory/operations/abc", operator, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_Alertas(t *testing.T) {
	app := newTestAPI(t)
	operator := tokenForRole(t, auth.RoleOperator)

	resp := call(t, app, http.MethodPost, "/api/inventory/products", operator,
		dto.RegisterProductRequest{ProductID: "P1", InitialStock: 100})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Bajar a 3 dispara low_stock (umbral por defecto 10).
	resp = call(t, app, http.MethodPost, "/api/inventory/stock/P1/adjust", operator,
		dto.AdjustStockRequest{OperationType: "adjustment", Quantity: 3})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/inventory/alerts?status=active&product_id=P1", operator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[struct {
		Items []dto.AlertResponse `json:"items"`
	}](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "low_stock", list.Items[0].AlertType)
	assert.Equal(t, int64(3), list.Items[0].StockLevel)

	resp = call(t, app, http.MethodPost, "/api/inventory/alerts", operator,
		dto.RaiseAlertRequest{ProductID: "P1", AlertType: "expiry_warning"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	raised := decode[dto.AlertResponse](t, resp)
	assert.Equal(t, "high", raised.Severity)

	resp = call(t, app, http.MethodPost, "/api/inventory/alerts", operator,
		dto.RaiseAlertRequest{ProductID: "P1", AlertType: "expiry_warning"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, raised.ID, decode[dto.AlertResponse](t, resp).ID)

	path := "/api/inventory/alerts/" + strconv.FormatInt(raised.ID, 10)
	resp = call(t, app, http.MethodPatch, path, operator, dto.UpdateAlertRequest{Status: "acknowledged"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ack := decode[dto.AlertResponse](t, resp)
	assert.Equal(t, "acknowledged", ack.Status)
	assert.Equal(t, testUserID, ack.AcknowledgedBy)

	resp = call(t, app, http.MethodPatch, path, operator, dto.UpdateAlertRequest{Status: "active"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPatch, path, operator, dto.UpdateAlertRequest{Status: "resolved", ResolutionNotes: "retirado"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resolved := decode[dto.AlertResponse](t, resp)
	assert.Equal(t, "resolved", resolved.Status)
	assert.Equal(t, "retirado", resolved.ResolutionNotes)
}

func TestAPI_ResumenYPDF(t *testing.T) {
	app := newTestAPI(t)
	operator := tokenForRole(t, auth.RoleOperator)

	for _, in := range []dto.RegisterProductRequest{
		{ProductID: "A", InitialStock: 50},
		{ProductID: "B", InitialStock: 2},
	} {
		resp := call(t, app, http.MethodPost, "/api/inventory/products", operator, in)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := call(t, app, http.MethodGet, "/api/inventory/summary", operator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[dto.InventorySummaryDTO](t, resp)
	assert.Equal(t, 2, summary.TotalProducts)
	assert.Equal(t, 1, summary.LowStockItems)

	resp = call(t, app, http.MethodGet, "/api/inventory/low-stock", operator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	low := decode[[]dto.StockResponse](t, resp)
	require.Len(t, low, 1)
	assert.Equal(t, "B", low[0].ProductID)

	resp = call(t, app, http.MethodGet, "/api/inventory/summary/pdf", operator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestAPI_Token(t *testing.T) {
	app := newTestAPI(t)

	resp := call(t, app, http.MethodPost, "/api/auth/token", "",
		dto.TokenRequest{ClientID: "consola", ClientSecret: "s3creto"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok := decode[dto.TokenResponse](t, resp)
	assert.Equal(t, auth.RoleOperator, tok.Role)

	resp = call(t, app, http.MethodGet, "/api/inventory/stock", "Bearer "+tok.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/auth/token", "",
		dto.TokenRequest{ClientID: "consola", ClientSecret: "otro"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
