package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "freshmart-pos", cfg.App.Name)
	assert.Equal(t, CatalogStatic, cfg.Catalog.Source)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, 12*time.Hour, cfg.JWT.ExpiryHours)
	assert.Equal(t, 20, cfg.Session.RecentBills)
	assert.Equal(t, "none", cfg.Printer.Type)
	assert.Equal(t, 32, cfg.Printer.Width)
	assert.Equal(t, "Grocery Store", cfg.Store.Name)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}, cfg.CORS.AllowedMethods)
	assert.Nil(t, cfg.CORS.AllowedHeaders)
	assert.False(t, cfg.Kafka.Enabled())
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	v.Set("CATALOG_SOURCE", "Postgres")
	v.Set("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	v.Set("PRINTER_TYPE", "NETWORK")
	v.Set("SESSION_IDLE_TTL_MINUTES", 5)

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, CatalogPostgres, cfg.Catalog.Source)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, "network", cfg.Printer.Type)
	assert.Equal(t, 5*time.Minute, cfg.Session.IdleTTL)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  interface{}
	}{
		{"unknown catalog source", "CATALOG_SOURCE", "mongo"},
		{"zero idle ttl", "SESSION_IDLE_TTL_MINUTES", 0},
		{"zero token ttl", "SESSION_TOKEN_TTL_HOURS", 0},
		{"zero rate limit", "RATE_LIMIT_REQUESTS", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", Name: "pos", User: "u", Password: "p", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=pos port=5432 sslmode=disable TimeZone=UTC", db.DSN())
}
