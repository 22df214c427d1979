package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockAlertRepository = (*AlertRepo)(nil)

const alertColumns = `id, product_id, alert_type, status, severity, message, details,
	acknowledged_by, acknowledged_at, resolved_by, resolved_at, resolution_notes, created_at, updated_at`

// AlertRepo alertas sobre PostgreSQL. El índice único parcial
// stock_alerts_one_active garantiza una sola active por (producto, tipo).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// FindActive alerta active del par o (nil, nil).
func (r *AlertRepo) FindActive(ctx context.Context, productID string, alertType entity.AlertType) (*entity.AlertRecord, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts
		WHERE product_id = $1 AND alert_type = $2 AND status = 'active'`
	a, err := scanAlert(r.q.QueryRow(ctx, query, productID, string(alertType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active alert: %w", err)
	}
	return a, nil
}

// Create inserta la alerta y asigna ID. Una segunda active para el par es domain.ErrConflict.
func (r *AlertRepo) Create(ctx context.Context, a *entity.AlertRecord) error {
	details, err := json.Marshal(a.Details)
	if err != nil {
		return fmt.Errorf("encode alert details: %w", err)
	}
	query := `
		INSERT INTO stock_alerts (product_id, alert_type, status, severity, message, details,
			acknowledged_by, acknowledged_at, resolved_by, resolved_at, resolution_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err = r.q.QueryRow(ctx, query,
		a.ProductID, string(a.Type), string(a.Status), string(a.Severity), a.Message, details,
		a.AcknowledgedBy, a.AcknowledgedAt, a.ResolvedBy, a.ResolvedAt, a.ResolutionNotes, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: alerta %s activa para %s", domain.ErrConflict, a.Type, a.ProductID)
		}
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

// GetByID alerta por ID o (nil, nil).
func (r *AlertRepo) GetByID(ctx context.Context, id int64) (*entity.AlertRecord, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts WHERE id = $1`
	return r.getOne(ctx, "get alert", query, id)
}

// GetForUpdate alerta por ID con la fila bloqueada.
func (r *AlertRepo) GetForUpdate(ctx context.Context, id int64) (*entity.AlertRecord, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, "get alert for update", query, id)
}

// Update persiste estado y campos de ciclo de vida.
func (r *AlertRepo) Update(ctx context.Context, a *entity.AlertRecord) error {
	query := `
		UPDATE stock_alerts
		SET status = $2, acknowledged_by = $3, acknowledged_at = $4, resolved_by = $5, resolved_at = $6,
			resolution_notes = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		a.ID, string(a.Status), a.AcknowledgedBy, a.AcknowledgedAt, a.ResolvedBy, a.ResolvedAt,
		a.ResolutionNotes, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: alerta %s activa para %s", domain.ErrConflict, a.Type, a.ProductID)
		}
		return fmt.Errorf("update alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: alerta %d", domain.ErrNotFound, a.ID)
	}
	return nil
}

// List alertas filtradas, de la más reciente a la más antigua.
func (r *AlertRepo) List(ctx context.Context, filter repository.AlertFilter) ([]*entity.AlertRecord, error) {
	query := `SELECT ` + alertColumns + ` FROM stock_alerts WHERE 1=1`
	var args []any
	pos := 1
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, string(filter.Status))
		pos++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND alert_type = $%d", pos)
		args = append(args, string(filter.Type))
		pos++
	}
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.AlertRecord
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// CountActiveByType conteo de alertas active por tipo.
func (r *AlertRepo) CountActiveByType(ctx context.Context) (map[entity.AlertType]int, error) {
	rows, err := r.q.Query(ctx, `
		SELECT alert_type, COUNT(*) FROM stock_alerts WHERE status = 'active' GROUP BY alert_type`)
	if err != nil {
		return nil, fmt.Errorf("count active alerts: %w", err)
	}
	defer rows.Close()
	out := make(map[entity.AlertType]int)
	for rows.Next() {
		var (
			t string
			n int64
		)
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scan alert count: %w", err)
		}
		out[entity.AlertType(t)] = int(n)
	}
	return out, rows.Err()
}

func (r *AlertRepo) getOne(ctx context.Context, op, query string, id int64) (*entity.AlertRecord, error) {
	a, err := scanAlert(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func scanAlert(row pgx.Row) (*entity.AlertRecord, error) {
	var (
		a                        entity.AlertRecord
		alertType, status, sever string
		details                  []byte
	)
	if err := row.Scan(&a.ID, &a.ProductID, &alertType, &status, &sever, &a.Message, &details,
		&a.AcknowledgedBy, &a.AcknowledgedAt, &a.ResolvedBy, &a.ResolvedAt, &a.ResolutionNotes,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Type = entity.AlertType(alertType)
	a.Status = entity.AlertStatus(status)
	a.Severity = entity.AlertSeverity(sever)
	if len(details) > 0 {
		if err := json.Unmarshal(details, &a.Details); err != nil {
			return nil, fmt.Errorf("decode alert details: %w", err)
		}
	}
	return &a, nil
}
