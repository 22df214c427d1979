package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	inv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var tracer = otel.Tracer("github.com/jhoicas/inventario-ledger/internal/application/inventory")

// Orígenes de operación registrados en OperationDetails.Source.
const (
	SourceRegistration = "registration"
	SourceAPI          = "api"
)

// LedgerConfig parámetros del ledger.
type LedgerConfig struct {
	// AutoCreateStock crea un registro en cero al primer uso de un producto desconocido.
	// Apagado, las operaciones sobre productos no registrados devuelven domain.ErrNotFound.
	AutoCreateStock          bool
	DefaultLowStockThreshold int64
	DefaultReorderPoint      int64
	DefaultMaxStock          int64
	MaxAttempts              int // intentos ante domain.ErrConflict
}

// DefaultLedgerConfig valores por defecto.
func DefaultLedgerConfig() LedgerConfig {
	return LedgerConfig{
		DefaultLowStockThreshold: 10,
		DefaultReorderPoint:      5,
		DefaultMaxStock:          1000,
		MaxAttempts:              DefaultMaxAttempts,
	}
}

// StockLedger único escritor de current/reserved/available_stock.
//
// Cada mutación sobre un producto corre en una transacción que bloquea su fila
// (SELECT FOR UPDATE), aplica el cambio, agrega el registro al log de operaciones y
// evalúa alertas; todo se confirma o descarta junto. Productos distintos no compiten.
// Las lecturas van contra el último estado confirmado, sin bloqueo.
type StockLedger struct {
	txRunner  TxRunner
	stockRepo repository.StockRepository
	oplog     *OperationLog
	alerts    *AlertEngine
	cfg       LedgerConfig
	log       zerolog.Logger
	now       func() time.Time
}

// NewStockLedger construye el ledger. stockRepo se usa solo para lecturas fuera de transacción.
func NewStockLedger(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	oplog *OperationLog,
	alerts *AlertEngine,
	cfg LedgerConfig,
	log zerolog.Logger,
) *StockLedger {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	return &StockLedger{
		txRunner:  txRunner,
		stockRepo: stockRepo,
		oplog:     oplog,
		alerts:    alerts,
		cfg:       cfg,
		log:       log.With().Str("component", "stock_ledger").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RegisterProductInput alta explícita de un producto en el ledger (llamada por el catálogo).
type RegisterProductInput struct {
	ProductID         string
	InitialStock      int64
	LowStockThreshold int64 // 0 = valor por defecto
	ReorderPoint      int64 // 0 = valor por defecto
	MaxStock          int64 // 0 = valor por defecto
	ActorID           string
}

// RegisterProduct crea el StockRecord de un producto. Un InitialStock positivo queda
// registrado como stock_in para que la historia se pueda reproducir desde cero.
func (l *StockLedger) RegisterProduct(ctx context.Context, in RegisterProductInput) (*entity.StockRecord, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	if in.InitialStock < 0 {
		return nil, fmt.Errorf("%w: initial_stock no puede ser negativo", domain.ErrInvalidInput)
	}
	low := orDefault(in.LowStockThreshold, l.cfg.DefaultLowStockThreshold)
	reorder := orDefault(in.ReorderPoint, l.cfg.DefaultReorderPoint)
	maxStock := orDefault(in.MaxStock, l.cfg.DefaultMaxStock)
	if err := inv.ValidateSettings(low, reorder, maxStock); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "inventory.RegisterProduct",
		trace.WithAttributes(attribute.String("inventory.product_id", productID)))
	defer span.End()

	var (
		result  *entity.StockRecord
		created []*entity.AlertRecord
	)
	err := l.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		opRepo repository.StockOperationRepository,
		alertRepo repository.StockAlertRepository,
	) error {
		existing, err := stockRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: el producto %s ya está registrado", domain.ErrDuplicate, productID)
		}
		now := l.now()
		rec := &entity.StockRecord{
			ProductID:         productID,
			LowStockThreshold: low,
			ReorderPoint:      reorder,
			MaxStock:          maxStock,
			Version:           1,
			LastUpdated:       now,
			CreatedAt:         now,
		}
		var op *entity.OperationRecord
		if in.InitialStock > 0 {
			prev, next, err := inv.ApplyOperation(rec, entity.OperationStockIn, in.InitialStock, now)
			if err != nil {
				return err
			}
			op = &entity.OperationRecord{
				ProductID:     productID,
				Type:          entity.OperationStockIn,
				Quantity:      in.InitialStock,
				PreviousStock: prev,
				NewStock:      next,
				ActorID:       in.ActorID,
				Notes:         "stock inicial",
				Details:       entity.OperationDetails{Source: SourceRegistration},
				CreatedAt:     now,
			}
		}
		rec.Recompute()
		if err := inv.CheckInvariant(rec); err != nil {
			return err
		}
		if err := stockRepo.Create(ctx, rec); err != nil {
			return err
		}
		if op != nil {
			if err := l.oplog.append(ctx, opRepo, op); err != nil {
				return err
			}
		}
		alerts, err := l.alerts.evaluate(ctx, alertRepo, rec, now)
		if err != nil {
			return err
		}
		result, created = rec, alerts
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	l.alerts.notify(ctx, created)
	l.log.Info().
		Str("product_id", productID).
		Int64("initial_stock", in.InitialStock).
		Str("actor_id", in.ActorID).
		Msg("producto registrado en el ledger")
	return result, nil
}

// GetStock devuelve el último estado confirmado del producto.
// Sin registro: domain.ErrNotFound, o un registro en cero si AutoCreateStock está activo.
func (l *StockLedger) GetStock(ctx context.Context, productID string) (*entity.StockRecord, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	rec, err := l.stockRepo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return rec, nil
	}
	if !l.cfg.AutoCreateStock {
		return nil, fmt.Errorf("%w: producto %s sin registro de stock", domain.ErrNotFound, productID)
	}

	log := l.log.With().Str("product_id", productID).Logger()
	err = retryOnConflict(ctx, log, l.cfg.MaxAttempts, func() error {
		return l.txRunner.Run(ctx, func(
			stockRepo repository.StockRepository,
			_ repository.StockOperationRepository,
			_ repository.StockAlertRepository,
		) error {
			var err error
			rec, _, err = l.lockStock(ctx, stockRepo, productID, l.now())
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListStock lista los registros de stock paginados.
func (l *StockLedger) ListStock(ctx context.Context, page dto.PageRequest) ([]*entity.StockRecord, error) {
	page.DefaultPage()
	return l.stockRepo.List(ctx, page.Limit, page.Offset())
}

// AdjustInput entrada de Adjust. ActorID y ReferenceNumber son opacos para el ledger.
type AdjustInput struct {
	ProductID       string
	OperationType   entity.OperationType
	Quantity        int64
	ActorID         string
	Notes           string
	ReferenceNumber string
	Details         entity.OperationDetails
}

// Adjust aplica una operación física sobre el stock y devuelve el registro agregado al log.
// Errores: domain.ErrInvalidInput, domain.ErrNotFound, domain.ErrInsufficientStock
// y domain.ErrConflict si se agotan los reintentos.
func (l *StockLedger) Adjust(ctx context.Context, in AdjustInput) (*entity.OperationRecord, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	opType, err := entity.ParseOperationType(string(in.OperationType))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}

	var op *entity.OperationRecord
	_, err = l.mutate(ctx, "inventory.Adjust", in.ProductID, func(s *mutationScope) error {
		prev, next, err := inv.ApplyOperation(s.rec, opType, in.Quantity, s.now)
		if err != nil {
			return err
		}
		op = &entity.OperationRecord{
			ProductID:       in.ProductID,
			Type:            opType,
			Quantity:        in.Quantity,
			PreviousStock:   prev,
			NewStock:        next,
			ActorID:         in.ActorID,
			ReferenceNumber: in.ReferenceNumber,
			Notes:           in.Notes,
			Details:         in.Details,
			CreatedAt:       s.now,
		}
		return l.oplog.append(ctx, s.opRepo, op)
	})
	if err != nil {
		return nil, err
	}
	l.log.Info().
		Str("product_id", op.ProductID).
		Str("operation_type", string(op.Type)).
		Int64("quantity", op.Quantity).
		Int64("previous_stock", op.PreviousStock).
		Int64("new_stock", op.NewStock).
		Int64("operation_id", op.ID).
		Msg("operación de stock aplicada")
	return op, nil
}

// ThresholdsInput nuevos umbrales de un producto.
type ThresholdsInput struct {
	LowStockThreshold int64
	ReorderPoint      int64
	MaxStock          int64
}

// UpdateThresholds cambia los umbrales bajo el bloqueo del producto y reevalúa alertas.
func (l *StockLedger) UpdateThresholds(ctx context.Context, productID string, in ThresholdsInput) (*entity.StockRecord, error) {
	if err := inv.ValidateSettings(in.LowStockThreshold, in.ReorderPoint, in.MaxStock); err != nil {
		return nil, err
	}
	return l.mutate(ctx, "inventory.UpdateThresholds", productID, func(s *mutationScope) error {
		s.rec.LowStockThreshold = in.LowStockThreshold
		s.rec.ReorderPoint = in.ReorderPoint
		s.rec.MaxStock = in.MaxStock
		s.rec.LastUpdated = s.now
		return nil
	})
}

// ReplayStock reconstruye current_stock desde el log bajo el bloqueo del producto
// y lo compara con el contador del ledger.
func (l *StockLedger) ReplayStock(ctx context.Context, productID string) (*dto.ReplayResponse, error) {
	var out *dto.ReplayResponse
	err := l.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		opRepo repository.StockOperationRepository,
		_ repository.StockAlertRepository,
	) error {
		rec, err := stockRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("%w: producto %s sin registro de stock", domain.ErrNotFound, productID)
		}
		ops, err := opRepo.ListByProductChronological(ctx, productID)
		if err != nil {
			return err
		}
		replayed := inv.ReplayStock(ops)
		out = &dto.ReplayResponse{
			ProductID:     productID,
			LedgerStock:   rec.CurrentStock,
			ReplayedStock: replayed,
			Operations:    len(ops),
			Consistent:    replayed == rec.CurrentStock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !out.Consistent {
		l.log.Error().
			Str("product_id", productID).
			Int64("ledger_stock", out.LedgerStock).
			Int64("replayed_stock", out.ReplayedStock).
			Msg("el log de operaciones no reproduce el stock del ledger")
	}
	return out, nil
}

// mutationScope estado disponible para una mutación dentro de la transacción.
type mutationScope struct {
	rec    *entity.StockRecord
	opRepo repository.StockOperationRepository
	now    time.Time
}

// mutate bloquea el registro del producto, aplica fn, verifica el invariante, persiste
// y evalúa alertas en la misma transacción. Reintenta ante domain.ErrConflict.
// Las alertas creadas se notifican después del commit.
func (l *StockLedger) mutate(ctx context.Context, spanName, productID string, fn func(s *mutationScope) error) (*entity.StockRecord, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	ctx, span := tracer.Start(ctx, spanName,
		trace.WithAttributes(attribute.String("inventory.product_id", productID)))
	defer span.End()

	var (
		result  *entity.StockRecord
		created []*entity.AlertRecord
	)
	log := l.log.With().Str("product_id", productID).Str("op", spanName).Logger()
	err := retryOnConflict(ctx, log, l.cfg.MaxAttempts, func() error {
		result, created = nil, nil
		return l.txRunner.Run(ctx, func(
			stockRepo repository.StockRepository,
			opRepo repository.StockOperationRepository,
			alertRepo repository.StockAlertRepository,
		) error {
			now := l.now()
			rec, fresh, err := l.lockStock(ctx, stockRepo, productID, now)
			if err != nil {
				return err
			}
			before := alertInputsOf(rec)
			if err := fn(&mutationScope{rec: rec, opRepo: opRepo, now: now}); err != nil {
				return err
			}
			if err := inv.CheckInvariant(rec); err != nil {
				return err
			}
			if err := stockRepo.Update(ctx, rec); err != nil {
				return err
			}
			result = rec
			// Reservas y liberaciones no mueven current_stock: no reabren alertas atendidas.
			if !fresh && alertInputsOf(rec) == before {
				return nil
			}
			alerts, err := l.alerts.evaluate(ctx, alertRepo, rec, now)
			if err != nil {
				return err
			}
			created = alerts
			return nil
		})
	})
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.Int64("inventory.current_stock", result.CurrentStock),
		attribute.Int64("inventory.reserved_stock", result.ReservedStock),
	)
	l.alerts.notify(ctx, created)
	return result, nil
}

// alertInputs campos de los que dependen las condiciones de alerta.
type alertInputs struct {
	current, low, maxStock int64
}

func alertInputsOf(rec *entity.StockRecord) alertInputs {
	return alertInputs{current: rec.CurrentStock, low: rec.LowStockThreshold, maxStock: rec.MaxStock}
}

// lockStock obtiene el registro bloqueado, creándolo en cero si AutoCreateStock está activo.
// fresh indica que el registro se creó en esta transacción.
func (l *StockLedger) lockStock(ctx context.Context, stockRepo repository.StockRepository, productID string, now time.Time) (rec *entity.StockRecord, fresh bool, err error) {
	rec, err = stockRepo.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, false, err
	}
	if rec != nil {
		return rec, false, nil
	}
	if !l.cfg.AutoCreateStock {
		return nil, false, fmt.Errorf("%w: producto %s sin registro de stock", domain.ErrNotFound, productID)
	}
	rec = &entity.StockRecord{
		ProductID:         productID,
		LowStockThreshold: l.cfg.DefaultLowStockThreshold,
		ReorderPoint:      l.cfg.DefaultReorderPoint,
		MaxStock:          l.cfg.DefaultMaxStock,
		Version:           1,
		LastUpdated:       now,
		CreatedAt:         now,
	}
	if err := stockRepo.Create(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, false, fmt.Errorf("%w: creación concurrente del registro de %s", domain.ErrConflict, productID)
		}
		return nil, false, err
	}
	l.log.Warn().Str("product_id", productID).Msg("registro de stock creado implícitamente")
	return rec, true, nil
}

func orDefault(v, def int64) int64 {
	if v == 0 {
		return def
	}
	return v
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
