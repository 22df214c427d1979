package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/notify"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaNotifier_Notify(t *testing.T) {
	w := &fakeWriter{}
	n := notify.NewKafkaNotifier(w, zerolog.Nop())
	alert := &entity.AlertRecord{
		ID: 7, ProductID: "p-1", Type: entity.AlertLowStock, Severity: entity.SeverityMedium,
		Message: "Stock bajo", Details: entity.AlertDetails{StockLevel: 3, Threshold: 10},
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, n.Notify(context.Background(), []*entity.AlertRecord{alert}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "p-1", string(w.msgs[0].Key))

	var ev notify.AlertEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &ev))
	assert.Equal(t, int64(7), ev.AlertID)
	assert.Equal(t, "low_stock", ev.AlertType)
	assert.Equal(t, int64(3), ev.StockLevel)
}

func TestKafkaNotifier_WriteError(t *testing.T) {
	n := notify.NewKafkaNotifier(&fakeWriter{err: errors.New("broker caído")}, zerolog.Nop())
	err := n.Notify(context.Background(), []*entity.AlertRecord{{ID: 1, ProductID: "p", Type: entity.AlertOverstock}})
	assert.Error(t, err)
}
