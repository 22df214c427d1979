package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]string) *viper.Viper {
	v := viper.New()
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.False(t, cfg.Ledger.AutoCreateStock)
	assert.Equal(t, int64(10), cfg.Ledger.DefaultLowStockThreshold)
	assert.Equal(t, int64(5), cfg.Ledger.DefaultReorderPoint)
	assert.Equal(t, int64(1000), cfg.Ledger.DefaultMaxStock)
	assert.Equal(t, 3, cfg.Ledger.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Cache.PriceTTL)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "inventory.alerts", cfg.Kafka.AlertTopic)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]string{
		"STORAGE_DRIVER":           "MEMORY",
		"LEDGER_AUTO_CREATE_STOCK": "true",
		"LEDGER_MAX_ATTEMPTS":      "5",
		"PRICE_CACHE_TTL":          "30s",
		"KAFKA_BROKERS":            "kafka-1:9092, kafka-2:9092",
		"AUTH_CLIENTS":             "orders:workflow:$2a$10$abc,ops:operator:$2a$10$def",
	}))
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.True(t, cfg.Ledger.AutoCreateStock)
	assert.Equal(t, 5, cfg.Ledger.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Cache.PriceTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	require.Len(t, cfg.Auth.Clients, 2)
	assert.Equal(t, ServiceClient{ID: "orders", Role: "workflow", SecretHash: "$2a$10$abc"}, cfg.Auth.Clients[0])
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"driver desconocido", map[string]string{"STORAGE_DRIVER": "redis"}},
		{"cliente sin hash", map[string]string{"AUTH_CLIENTS": "orders:workflow"}},
		{"intentos en cero", map[string]string{"LEDGER_MAX_ATTEMPTS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fromViper(newViper(tt.values))
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/ledger?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
