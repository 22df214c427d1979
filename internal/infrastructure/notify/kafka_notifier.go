// Package notify entrega las alertas creadas a consumidores externos.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var (
	_ inventory.AlertNotifier = (*KafkaNotifier)(nil)
	_ inventory.AlertNotifier = (*LogNotifier)(nil)
)

// AlertEvent mensaje publicado por cada alerta creada.
type AlertEvent struct {
	AlertID    int64     `json:"alert_id"`
	ProductID  string    `json:"product_id"`
	AlertType  string    `json:"alert_type"`
	Severity   string    `json:"severity"`
	Message    string    `json:"message"`
	StockLevel int64     `json:"stock_level"`
	Threshold  int64     `json:"threshold"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewAlertEvent mapea una alerta al evento publicado.
func NewAlertEvent(a *entity.AlertRecord) AlertEvent {
	return AlertEvent{
		AlertID:    a.ID,
		ProductID:  a.ProductID,
		AlertType:  string(a.Type),
		Severity:   string(a.Severity),
		Message:    a.Message,
		StockLevel: a.Details.StockLevel,
		Threshold:  a.Details.Threshold,
		CreatedAt:  a.CreatedAt,
	}
}

// MessageWriter subconjunto de *kafka.Writer usado por el notificador.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publica alertas en un tópico, con el product_id como clave
// para conservar el orden por producto.
type KafkaNotifier struct {
	writer MessageWriter
	log    zerolog.Logger
}

// NewKafkaWriter writer síncrono hacia topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}

// NewKafkaNotifier construye el notificador sobre writer.
func NewKafkaNotifier(writer MessageWriter, log zerolog.Logger) *KafkaNotifier {
	return &KafkaNotifier{writer: writer, log: log.With().Str("component", "kafka_notifier").Logger()}
}

// Notify publica un mensaje por alerta.
func (n *KafkaNotifier) Notify(ctx context.Context, alerts []*entity.AlertRecord) error {
	msgs := make([]kafka.Message, 0, len(alerts))
	for _, a := range alerts {
		payload, err := json.Marshal(NewAlertEvent(a))
		if err != nil {
			return fmt.Errorf("encode alert event: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(a.ProductID),
			Value: payload,
			Headers: []kafka.Header{
				{Key: "alert_type", Value: []byte(a.Type)},
			},
		})
	}
	if err := n.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish alerts: %w", err)
	}
	n.log.Debug().Int("alerts", len(msgs)).Msg("alertas publicadas")
	return nil
}

// Close cierra el writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// LogNotifier notificador sin brokers: solo registra las alertas.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier construye el notificador de log.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "log_notifier").Logger()}
}

// Notify registra cada alerta en nivel warn.
func (n *LogNotifier) Notify(_ context.Context, alerts []*entity.AlertRecord) error {
	for _, a := range alerts {
		n.log.Warn().
			Int64("alert_id", a.ID).
			Str("product_id", a.ProductID).
			Str("alert_type", string(a.Type)).
			Str("severity", string(a.Severity)).
			Msg(a.Message)
	}
	return nil
}
