package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/domain/model/pricing"
	"escrow/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// KafkaHost is a comma separated broker list. Empty disables both the
	// payment consumer and event publishing.
	KafkaHost                  string
	KafkaConsumerGroup         string
	KafkaPaymentConfirmedTopic string
	KafkaOrderChangedTopic     string
	KafkaLedgerTopic           string
	KafkaDisputeTopic          string

	// RedisAddress enables the auto-confirm lease. Empty runs the sweep
	// without one.
	RedisAddress string
	InstanceID   string

	CommissionRate       decimal.Decimal
	DefaultDeliveryFee   kernel.Money
	ConfirmationWindow   time.Duration
	AutoConfirmSchedule  string
	AutoConfirmBatchSize int
	AutoConfirmLeaseTTL  time.Duration
}

// KafkaBrokers splits KafkaHost.
func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	hostname, _ := os.Hostname()
	cfg := Config{
		HTTPPort:                   get("HTTP_PORT", "8082"),
		DBHost:                     get("DB_HOST", "localhost"),
		DBPort:                     get("DB_PORT", "5432"),
		DBUser:                     get("DB_USER", "postgres"),
		DBPassword:                 get("DB_PASSWORD", ""),
		DBName:                     get("DB_NAME", "escrow"),
		DBSslMode:                  get("DB_SSLMODE", "disable"),
		KafkaHost:                  get("KAFKA_HOST", ""),
		KafkaConsumerGroup:         get("KAFKA_CONSUMER_GROUP", "escrow"),
		KafkaPaymentConfirmedTopic: get("KAFKA_PAYMENT_CONFIRMED_TOPIC", "payment.confirmed"),
		KafkaOrderChangedTopic:     get("KAFKA_ORDER_CHANGED_TOPIC", "order.changed"),
		KafkaLedgerTopic:           get("KAFKA_LEDGER_TOPIC", "ledger.recorded"),
		KafkaDisputeTopic:          get("KAFKA_DISPUTE_TOPIC", "dispute.changed"),
		RedisAddress:               get("REDIS_ADDRESS", ""),
		InstanceID:                 get("INSTANCE_ID", hostname),
		AutoConfirmSchedule:        get("AUTO_CONFIRM_SCHEDULE", jobs.DefaultAutoConfirmSchedule),
	}

	var rateErr, feeErr, windowErr, batchErr, ttlErr error
	cfg.CommissionRate, rateErr = decimal.NewFromString(get("COMMISSION_RATE", pricing.DefaultCommissionRate.String()))
	if rateErr == nil && (cfg.CommissionRate.IsNegative() || cfg.CommissionRate.GreaterThanOrEqual(decimal.NewFromInt(1))) {
		rateErr = fmt.Errorf("COMMISSION_RATE must be in [0, 1), got %s", cfg.CommissionRate)
	}
	cfg.DefaultDeliveryFee, feeErr = kernel.MoneyFromString(get("DEFAULT_DELIVERY_FEE", pricing.DefaultDeliveryFee.String()))
	cfg.ConfirmationWindow, windowErr = time.ParseDuration(get("CONFIRMATION_WINDOW", order.DefaultConfirmationWindow.String()))
	if windowErr == nil && cfg.ConfirmationWindow <= 0 {
		windowErr = errors.New("CONFIRMATION_WINDOW must be positive")
	}
	cfg.AutoConfirmBatchSize, batchErr = strconv.Atoi(get("AUTO_CONFIRM_BATCH_SIZE", "100"))
	cfg.AutoConfirmLeaseTTL, ttlErr = time.ParseDuration(get("AUTO_CONFIRM_LEASE_TTL", jobs.DefaultAutoConfirmLeaseTTL.String()))

	if err := errors.Join(rateErr, feeErr, windowErr, batchErr, ttlErr); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
