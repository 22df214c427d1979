package entity

import (
	"fmt"
	"time"
)

// AlertType tipo de condición vigilada.
type AlertType string

// Tipos de alerta.
const (
	AlertLowStock       AlertType = "low_stock"
	AlertOutOfStock     AlertType = "out_of_stock"
	AlertOverstock      AlertType = "overstock"
	AlertExpiryWarning  AlertType = "expiry_warning"
	AlertTheftSuspicion AlertType = "theft_suspicion"
)

// AlertStatus estado del ciclo de vida de una alerta.
type AlertStatus string

// Estados de alerta. acknowledged, resolved y dismissed no vuelven a active.
const (
	AlertStatusActive       AlertStatus = "active"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusResolved     AlertStatus = "resolved"
	AlertStatusDismissed    AlertStatus = "dismissed"
)

// AlertSeverity severidad de una alerta.
type AlertSeverity string

// Severidades.
const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// ParseAlertType valida un tipo de alerta.
func ParseAlertType(s string) (AlertType, error) {
	switch t := AlertType(s); t {
	case AlertLowStock, AlertOutOfStock, AlertOverstock, AlertExpiryWarning, AlertTheftSuspicion:
		return t, nil
	}
	return "", fmt.Errorf("tipo de alerta desconocido %q", s)
}

// ParseAlertStatus valida un estado de alerta.
func ParseAlertStatus(s string) (AlertStatus, error) {
	switch st := AlertStatus(s); st {
	case AlertStatusActive, AlertStatusAcknowledged, AlertStatusResolved, AlertStatusDismissed:
		return st, nil
	}
	return "", fmt.Errorf("estado de alerta desconocido %q", s)
}

// ParseAlertSeverity valida una severidad.
func ParseAlertSeverity(s string) (AlertSeverity, error) {
	switch sv := AlertSeverity(s); sv {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return sv, nil
	}
	return "", fmt.Errorf("severidad desconocida %q", s)
}

// AlertDetails campos opcionales tipados de una alerta.
type AlertDetails struct {
	StockLevel int64 `json:"stock_level"`
	Threshold  int64 `json:"threshold"`
}

// AlertRecord instancia de alerta por (producto, tipo).
// Como máximo una instancia active por par en todo momento.
type AlertRecord struct {
	ID              int64
	ProductID       string
	Type            AlertType
	Status          AlertStatus
	Severity        AlertSeverity
	Message         string
	Details         AlertDetails
	AcknowledgedBy  string
	AcknowledgedAt  *time.Time
	ResolvedBy      string
	ResolvedAt      *time.Time
	ResolutionNotes string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CanTransition indica si el paso from → to es válido:
// active → acknowledged | resolved | dismissed, acknowledged → resolved.
func CanTransition(from, to AlertStatus) bool {
	switch from {
	case AlertStatusActive:
		return to == AlertStatusAcknowledged || to == AlertStatusResolved || to == AlertStatusDismissed
	case AlertStatusAcknowledged:
		return to == AlertStatusResolved
	}
	return false
}

// Transition aplica el cambio de estado y sella actor y fecha.
// dismissed cierra la alerta igual que resolved (resolved_by/at + notas).
func (a *AlertRecord) Transition(to AlertStatus, actor, notes string, now time.Time) error {
	if !CanTransition(a.Status, to) {
		return fmt.Errorf("transición %s → %s no permitida", a.Status, to)
	}
	switch to {
	case AlertStatusAcknowledged:
		a.AcknowledgedBy = actor
		a.AcknowledgedAt = &now
	case AlertStatusResolved, AlertStatusDismissed:
		a.ResolvedBy = actor
		a.ResolvedAt = &now
	}
	if notes != "" {
		a.ResolutionNotes = notes
	}
	a.Status = to
	a.UpdatedAt = now
	return nil
}

// Clone devuelve una copia profunda.
func (a *AlertRecord) Clone() *AlertRecord {
	if a == nil {
		return nil
	}
	c := *a
	if a.AcknowledgedAt != nil {
		t := *a.AcknowledgedAt
		c.AcknowledgedAt = &t
	}
	if a.ResolvedAt != nil {
		t := *a.ResolvedAt
		c.ResolvedAt = &t
	}
	return &c
}
