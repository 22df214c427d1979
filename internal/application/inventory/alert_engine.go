package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	inv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// AlertEngine deriva alertas del estado del stock y gestiona su ciclo de vida.
// A lo sumo existe una alerta active por (producto, tipo).
type AlertEngine struct {
	txRunner    TxRunner
	repo        repository.StockAlertRepository
	notifier    AlertNotifier
	maxAttempts int
	log         zerolog.Logger
	now         func() time.Time
}

// NewAlertEngine construye el motor de alertas. notifier puede ser nil.
func NewAlertEngine(txRunner TxRunner, repo repository.StockAlertRepository, notifier AlertNotifier, maxAttempts int, log zerolog.Logger) *AlertEngine {
	return &AlertEngine{
		txRunner:    txRunner,
		repo:        repo,
		notifier:    notifier,
		maxAttempts: maxAttempts,
		log:         log.With().Str("component", "alert_engine").Logger(),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// evaluate corre dentro de la transacción del ledger sobre el estado ya mutado.
// Devuelve solo las alertas creadas en esta evaluación.
func (e *AlertEngine) evaluate(ctx context.Context, alertRepo repository.StockAlertRepository, rec *entity.StockRecord, now time.Time) ([]*entity.AlertRecord, error) {
	var created []*entity.AlertRecord
	for _, cond := range inv.EvaluateConditions(*rec) {
		alert, isNew, err := e.findActiveOrCreate(ctx, alertRepo, rec.ProductID, cond, now)
		if err != nil {
			return nil, err
		}
		if isNew {
			created = append(created, alert)
		}
	}
	return created, nil
}

func (e *AlertEngine) findActiveOrCreate(
	ctx context.Context,
	alertRepo repository.StockAlertRepository,
	productID string,
	cond inv.AlertCondition,
	now time.Time,
) (*entity.AlertRecord, bool, error) {
	active, err := alertRepo.FindActive(ctx, productID, cond.Type)
	if err != nil {
		return nil, false, err
	}
	if active != nil {
		return active, false, nil
	}
	alert := &entity.AlertRecord{
		ProductID: productID,
		Type:      cond.Type,
		Status:    entity.AlertStatusActive,
		Severity:  cond.Severity,
		Message:   cond.Message,
		Details:   cond.Details,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := alertRepo.Create(ctx, alert); err != nil {
		return nil, false, err
	}
	return alert, true, nil
}

// notify entrega las alertas creadas después del commit. Un fallo se registra y no
// afecta la mutación ya confirmada.
func (e *AlertEngine) notify(ctx context.Context, alerts []*entity.AlertRecord) {
	if len(alerts) == 0 {
		return
	}
	for _, a := range alerts {
		e.log.Info().
			Int64("alert_id", a.ID).
			Str("product_id", a.ProductID).
			Str("alert_type", string(a.Type)).
			Str("severity", string(a.Severity)).
			Msg("alerta creada")
	}
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Notify(context.WithoutCancel(ctx), alerts); err != nil {
		e.log.Error().Err(err).Int("alerts", len(alerts)).Msg("error notificando alertas")
	}
}

// UpdateAlertInput transición solicitada sobre una alerta.
type UpdateAlertInput struct {
	AlertID int64
	Status  string
	ActorID string
	Notes   string
}

// UpdateAlert aplica una transición de estado. Transiciones inválidas devuelven
// domain.ErrInvalidInput sin modificar la alerta.
func (e *AlertEngine) UpdateAlert(ctx context.Context, in UpdateAlertInput) (*entity.AlertRecord, error) {
	status, err := entity.ParseAlertStatus(in.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	var result *entity.AlertRecord
	log := e.log.With().Int64("alert_id", in.AlertID).Logger()
	err = retryOnConflict(ctx, log, e.maxAttempts, func() error {
		return e.txRunner.Run(ctx, func(
			_ repository.StockRepository,
			_ repository.StockOperationRepository,
			alertRepo repository.StockAlertRepository,
		) error {
			alert, err := alertRepo.GetForUpdate(ctx, in.AlertID)
			if err != nil {
				return err
			}
			if alert == nil {
				return fmt.Errorf("%w: alerta %d", domain.ErrNotFound, in.AlertID)
			}
			from := alert.Status
			if err := alert.Transition(status, in.ActorID, in.Notes, e.now()); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			if err := alertRepo.Update(ctx, alert); err != nil {
				return err
			}
			log.Info().
				Str("from", string(from)).
				Str("to", string(status)).
				Str("actor_id", in.ActorID).
				Msg("alerta actualizada")
			result = alert
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RaiseAlertInput alerta levantada manualmente (p. ej. theft_suspicion tras un conteo).
type RaiseAlertInput struct {
	ProductID string
	Type      string
	Severity  string // vacío = severidad por defecto del tipo
	Message   string
	ActorID   string
}

// RaiseAlert crea una alerta manual bajo el bloqueo del producto. Si ya existe una
// active del mismo tipo se devuelve esa y created es false.
func (e *AlertEngine) RaiseAlert(ctx context.Context, in RaiseAlertInput) (alert *entity.AlertRecord, created bool, err error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, false, fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	alertType, err := entity.ParseAlertType(in.Type)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	severity := inv.DefaultSeverity(alertType)
	if in.Severity != "" {
		if severity, err = entity.ParseAlertSeverity(in.Severity); err != nil {
			return nil, false, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}

	log := e.log.With().Str("product_id", productID).Logger()
	err = retryOnConflict(ctx, log, e.maxAttempts, func() error {
		return e.txRunner.Run(ctx, func(
			stockRepo repository.StockRepository,
			_ repository.StockOperationRepository,
			alertRepo repository.StockAlertRepository,
		) error {
			rec, err := stockRepo.GetForUpdate(ctx, productID)
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("%w: producto %s sin registro de stock", domain.ErrNotFound, productID)
			}
			msg := in.Message
			if msg == "" {
				msg = fmt.Sprintf("Alerta %s reportada para %s", alertType, productID)
			}
			cond := inv.AlertCondition{
				Type:     alertType,
				Severity: severity,
				Message:  msg,
				Details:  entity.AlertDetails{StockLevel: rec.CurrentStock},
			}
			alert, created, err = e.findActiveOrCreate(ctx, alertRepo, productID, cond, e.now())
			return err
		})
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		e.notify(ctx, []*entity.AlertRecord{alert})
	}
	return alert, created, nil
}

// AlertQuery filtros de listado de alertas. Los campos vacíos no filtran.
type AlertQuery struct {
	Status    string
	Type      string
	ProductID string
	Page      dto.PageRequest
}

// ListAlerts lista alertas de la más reciente a la más antigua.
func (e *AlertEngine) ListAlerts(ctx context.Context, q AlertQuery) ([]*entity.AlertRecord, error) {
	filter := repository.AlertFilter{ProductID: q.ProductID}
	if q.Status != "" {
		s, err := entity.ParseAlertStatus(q.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		filter.Status = s
	}
	if q.Type != "" {
		t, err := entity.ParseAlertType(q.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		filter.Type = t
	}
	q.Page.DefaultPage()
	filter.Limit = q.Page.Limit
	filter.Offset = q.Page.Offset()
	return e.repo.List(ctx, filter)
}

// GetAlert devuelve una alerta por ID.
func (e *AlertEngine) GetAlert(ctx context.Context, id int64) (*entity.AlertRecord, error) {
	alert, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, fmt.Errorf("%w: alerta %d", domain.ErrNotFound, id)
	}
	return alert, nil
}
