package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// RegisterProductRequest body para POST /api/inventory/products.
type RegisterProductRequest struct {
	ProductID         string `json:"product_id"`
	InitialStock      int64  `json:"initial_stock"`
	LowStockThreshold int64  `json:"low_stock_threshold"`
	ReorderPoint      int64  `json:"reorder_point"`
	MaxStock          int64  `json:"max_stock"`
}

// UpdateThresholdsRequest body para PUT /api/inventory/stock/:productId/thresholds.
type UpdateThresholdsRequest struct {
	LowStockThreshold int64 `json:"low_stock_threshold"`
	ReorderPoint      int64 `json:"reorder_point"`
	MaxStock          int64 `json:"max_stock"`
}

// AdjustStockRequest body para POST /api/inventory/stock/:productId/adjust.
type AdjustStockRequest struct {
	OperationType       string `json:"operation_type"`
	Quantity            int64  `json:"quantity"`
	Notes               string `json:"notes,omitempty"`
	ReferenceNumber     string `json:"reference_number,omitempty"`
	ReasonCode          string `json:"reason_code,omitempty"`
	TransferDestination string `json:"transfer_destination,omitempty"`
}

// ReservationRequest body para reserve/release.
type ReservationRequest struct {
	Quantity        int64  `json:"quantity"`
	ReferenceNumber string `json:"reference_number,omitempty"`
}

// UpdateAlertRequest body para PATCH /api/inventory/alerts/:id.
type UpdateAlertRequest struct {
	Status          string `json:"status"`
	ResolutionNotes string `json:"resolution_notes,omitempty"`
}

// RaiseAlertRequest body para POST /api/inventory/alerts.
type RaiseAlertRequest struct {
	ProductID string `json:"product_id"`
	AlertType string `json:"alert_type"`
	Severity  string `json:"severity,omitempty"`
	Message   string `json:"message,omitempty"`
}

// StockResponse salida de un registro de stock.
type StockResponse struct {
	ProductID         string     `json:"product_id"`
	CurrentStock      int64      `json:"current_stock"`
	ReservedStock     int64      `json:"reserved_stock"`
	AvailableStock    int64      `json:"available_stock"`
	LowStockThreshold int64      `json:"low_stock_threshold"`
	ReorderPoint      int64      `json:"reorder_point"`
	MaxStock          int64      `json:"max_stock"`
	LastUpdated       time.Time  `json:"last_updated"`
	LastStockIn       *time.Time `json:"last_stock_in,omitempty"`
	LastStockOut      *time.Time `json:"last_stock_out,omitempty"`
}

// ReleaseResponse salida de una liberación: cuánto se liberó realmente.
type ReleaseResponse struct {
	Stock     StockResponse `json:"stock"`
	Requested int64         `json:"requested"`
	Released  int64         `json:"released"`
}

// OperationResponse salida de un registro del log de operaciones.
type OperationResponse struct {
	ID                  int64     `json:"id"`
	ProductID           string    `json:"product_id"`
	OperationType       string    `json:"operation_type"`
	Quantity            int64     `json:"quantity"`
	PreviousStock       int64     `json:"previous_stock"`
	NewStock            int64     `json:"new_stock"`
	ActorID             string    `json:"actor_id"`
	ReferenceNumber     string    `json:"reference_number,omitempty"`
	Notes               string    `json:"notes,omitempty"`
	Source              string    `json:"source,omitempty"`
	ReasonCode          string    `json:"reason_code,omitempty"`
	TransferDestination string    `json:"transfer_destination,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// AlertResponse salida de una alerta.
type AlertResponse struct {
	ID              int64      `json:"id"`
	ProductID       string     `json:"product_id"`
	AlertType       string     `json:"alert_type"`
	Status          string     `json:"status"`
	Severity        string     `json:"severity"`
	Message         string     `json:"message"`
	StockLevel      int64      `json:"stock_level"`
	Threshold       int64      `json:"threshold"`
	AcknowledgedBy  string     `json:"acknowledged_by,omitempty"`
	AcknowledgedAt  *time.Time `json:"acknowledged_at,omitempty"`
	ResolvedBy      string     `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ReplayResponse auditoría: stock reconstruido desde el log vs. contador del ledger.
type ReplayResponse struct {
	ProductID     string `json:"product_id"`
	LedgerStock   int64  `json:"ledger_stock"`
	ReplayedStock int64  `json:"replayed_stock"`
	Operations    int    `json:"operations"`
	Consistent    bool   `json:"consistent"`
}

// InventorySummaryDTO resumen agregado del inventario (eventualmente consistente).
type InventorySummaryDTO struct {
	TotalProducts          int             `json:"total_products"`
	TotalStockValue        decimal.Decimal `json:"total_stock_value"`
	LowStockItems          int             `json:"low_stock_items"`
	OutOfStockItems        int             `json:"out_of_stock_items"`
	OverstockItems         int             `json:"overstock_items"`
	BelowReorderPointItems int             `json:"below_reorder_point_items"`
	ReservedUnits          int64           `json:"reserved_units"`
	ActiveAlerts           int             `json:"active_alerts"`
	ActiveAlertsByType     map[string]int  `json:"active_alerts_by_type"`
	GeneratedAt            time.Time       `json:"generated_at"`
}

// NewStockResponse mapea un StockRecord.
func NewStockResponse(s *entity.StockRecord) StockResponse {
	return StockResponse{
		ProductID:         s.ProductID,
		CurrentStock:      s.CurrentStock,
		ReservedStock:     s.ReservedStock,
		AvailableStock:    s.AvailableStock,
		LowStockThreshold: s.LowStockThreshold,
		ReorderPoint:      s.ReorderPoint,
		MaxStock:          s.MaxStock,
		LastUpdated:       s.LastUpdated,
		LastStockIn:       s.LastStockIn,
		LastStockOut:      s.LastStockOut,
	}
}

// NewStockList mapea una lista de StockRecord.
func NewStockList(list []*entity.StockRecord) []StockResponse {
	out := make([]StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, NewStockResponse(s))
	}
	return out
}

// NewOperationResponse mapea un OperationRecord.
func NewOperationResponse(o *entity.OperationRecord) OperationResponse {
	return OperationResponse{
		ID:                  o.ID,
		ProductID:           o.ProductID,
		OperationType:       string(o.Type),
		Quantity:            o.Quantity,
		PreviousStock:       o.PreviousStock,
		NewStock:            o.NewStock,
		ActorID:             o.ActorID,
		ReferenceNumber:     o.ReferenceNumber,
		Notes:               o.Notes,
		Source:              o.Details.Source,
		ReasonCode:          o.Details.ReasonCode,
		TransferDestination: o.Details.TransferDestination,
		CreatedAt:           o.CreatedAt,
	}
}

// NewOperationList mapea una lista de OperationRecord.
func NewOperationList(list []*entity.OperationRecord) []OperationResponse {
	out := make([]OperationResponse, 0, len(list))
	for _, o := range list {
		out = append(out, NewOperationResponse(o))
	}
	return out
}

// NewAlertResponse mapea un AlertRecord.
func NewAlertResponse(a *entity.AlertRecord) AlertResponse {
	return AlertResponse{
		ID:              a.ID,
		ProductID:       a.ProductID,
		AlertType:       string(a.Type),
		Status:          string(a.Status),
		Severity:        string(a.Severity),
		Message:         a.Message,
		StockLevel:      a.Details.StockLevel,
		Threshold:       a.Details.Threshold,
		AcknowledgedBy:  a.AcknowledgedBy,
		AcknowledgedAt:  a.AcknowledgedAt,
		ResolvedBy:      a.ResolvedBy,
		ResolvedAt:      a.ResolvedAt,
		ResolutionNotes: a.ResolutionNotes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// NewAlertList mapea una lista de AlertRecord.
func NewAlertList(list []*entity.AlertRecord) []AlertResponse {
	out := make([]AlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, NewAlertResponse(a))
	}
	return out
}
