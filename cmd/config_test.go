package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("should fall back to defaults", func(t *testing.T) {
		cfg, err := configFromEnv(envOf(nil))

		require.NoError(t, err)
		assert.Equal(t, "8082", cfg.HTTPPort)
		assert.Equal(t, "0.05", cfg.CommissionRate.String())
		assert.Equal(t, "20.00", cfg.DefaultDeliveryFee.String())
		assert.Equal(t, 4*time.Hour, cfg.ConfirmationWindow)
		assert.Equal(t, 100, cfg.AutoConfirmBatchSize)
		assert.Empty(t, cfg.KafkaBrokers())
	})

	t.Run("should read overrides", func(t *testing.T) {
		cfg, err := configFromEnv(envOf(map[string]string{
			"KAFKA_HOST":              "kafka-1:9092, kafka-2:9092",
			"COMMISSION_RATE":         "0.08",
			"CONFIRMATION_WINDOW":     "30m",
			"AUTO_CONFIRM_BATCH_SIZE": "25",
		}))

		require.NoError(t, err)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers())
		assert.Equal(t, "0.08", cfg.CommissionRate.String())
		assert.Equal(t, 30*time.Minute, cfg.ConfirmationWindow)
		assert.Equal(t, 25, cfg.AutoConfirmBatchSize)
	})

	t.Run("should report every invalid value", func(t *testing.T) {
		_, err := configFromEnv(envOf(map[string]string{
			"COMMISSION_RATE":         "1.5",
			"CONFIRMATION_WINDOW":     "-1h",
			"AUTO_CONFIRM_BATCH_SIZE": "many",
		}))

		require.Error(t, err)
		assert.ErrorContains(t, err, "COMMISSION_RATE")
		assert.ErrorContains(t, err, "CONFIRMATION_WINDOW")
		assert.ErrorContains(t, err, "many")
	})
}
