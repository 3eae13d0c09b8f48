package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"escrow/cmd"
	httpin "escrow/internal/adapters/in/http"
	kafkain "escrow/internal/adapters/in/kafka"
	kafkaout "escrow/internal/adapters/out/kafka"
	postgresout "escrow/internal/adapters/out/postgres"
	redisout "escrow/internal/adapters/out/redis"
	"escrow/internal/core/domain/model/dispute"
	"escrow/internal/core/domain/model/ledger"
	"escrow/internal/core/ports"
	"escrow/internal/metrics"

	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, configs, logger); err != nil {
		logger.Error("Service stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configs cmd.Config, logger *slog.Logger) error {
	gormDB, err := gorm.Open(postgres.Open(configs.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err = postgresout.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	brokers := configs.KafkaBrokers()
	var publisher ports.EventPublisher
	if len(brokers) > 0 {
		kafkaPublisher, err := kafkaout.NewEventPublisher(brokers, configs.KafkaOrderChangedTopic, map[string]string{
			ledger.RecordedEventName:  configs.KafkaLedgerTopic,
			dispute.RaisedEventName:   configs.KafkaDisputeTopic,
			dispute.ResolvedEventName: configs.KafkaDisputeTopic,
		})
		if err != nil {
			return fmt.Errorf("kafka publisher: %w", err)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		logger.Warn("KAFKA_HOST not set, domain events will not be published")
	}

	app := cmd.NewCompositionRoot(configs, gormDB, publisher, m, logger)

	var lease ports.JobLease
	if configs.RedisAddress != "" {
		client, err := redisout.Connect(ctx, configs.RedisAddress)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer client.Close()
		lease = redisout.NewJobLease(client, configs.InstanceID)
	}

	jobManager := app.CreateJobManager(lease)
	if err = jobManager.StartAll(); err != nil {
		return fmt.Errorf("start jobs: %w", err)
	}
	defer jobManager.StopAll()

	errCh := make(chan error, 2)

	if len(brokers) > 0 {
		reader, err := kafkain.NewReader(brokers, configs.KafkaConsumerGroup, configs.KafkaPaymentConfirmedTopic)
		if err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}
		consumer := kafkain.NewPaymentConfirmedConsumer(reader, app.CreateConfirmPaymentCommandHandler(), m, logger)
		go func() {
			defer reader.Close()
			if err := consumer.Run(ctx); err != nil {
				errCh <- fmt.Errorf("payment consumer: %w", err)
			}
		}()
	}

	doc, err := httpin.LoadOpenAPI(ctx)
	if err != nil {
		return err
	}
	e, err := httpin.NewEcho(httpin.NewServer(app.CreateHTTPHandlers(), logger), m, reg, doc)
	if err != nil {
		return err
	}
	e.Logger.SetLevel(log.INFO)
	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	logger.Info("Service started", "port", configs.HTTPPort, "instance", configs.InstanceID)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("http shutdown: %w", err))
	}
	return runErr
}
