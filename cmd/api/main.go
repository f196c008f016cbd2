package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tonymorry/uniparty/internal/app"
	"github.com/tonymorry/uniparty/internal/clock"
	"github.com/tonymorry/uniparty/internal/config"
	"github.com/tonymorry/uniparty/internal/notify"
	"github.com/tonymorry/uniparty/internal/obs"
	"github.com/tonymorry/uniparty/internal/payment"
	"github.com/tonymorry/uniparty/internal/payout"
	"github.com/tonymorry/uniparty/internal/storage/postgres"
	transporthttp "github.com/tonymorry/uniparty/internal/transport/http"
	"github.com/tonymorry/uniparty/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := obs.InitTracer(startupCtx, "uniparty-api", cfg.OTLPEndpoint)
		if err != nil {
			logger.Printf("WARN: tracing disabled: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	var notifier app.Notifier
	if cfg.RabbitURL != "" {
		amqpNotifier, err := notify.NewAMQPNotifier(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			log.Fatalf("connect to rabbitmq: %v", err)
		}
		defer amqpNotifier.Close()
		notifier = amqpNotifier
	} else {
		logger.Printf("WARN: RABBIT_URL not set, ticket notifications are log-only")
		notifier = notify.LogNotifier{Logger: logger}
	}

	var payouts payout.Directory
	if cfg.PayoutBaseURL != "" {
		payouts = payout.NewClient(cfg.PayoutBaseURL)
	} else {
		logger.Printf("WARN: PAYOUT_BASE_URL not set, treating every organizer as onboarded")
		payouts = payout.NewStatic()
	}

	provider := payment.NewClient(cfg.PaymentBaseURL, cfg.PaymentSecretKey, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)

	orderRepo := postgres.NewOrderRepository(pool)
	fulfillmentRepo := postgres.NewFulfillmentRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)
	adminRepo := postgres.NewAdminRepository(pool)

	sysClock := clock.NewSystem()
	orderSvc := app.NewOrderService(orderRepo, sysClock)
	checkoutSvc := app.NewCheckoutService(orderRepo, provider, payouts)
	fulfillmentSvc := app.NewFulfillmentService(fulfillmentRepo, sysClock, notifier, logger)
	scanSvc := app.NewScanService(ticketRepo, sysClock)
	sweepSvc := app.NewSweepService(orderRepo, sysClock, cfg.OrderRetention, logger)
	adminSvc := app.NewAdminService(adminRepo, sysClock)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/orders", transporthttp.HandleCreateOrder(orderSvc))
	mux.Handle("/orders/", transporthttp.HandleOpenCheckout(checkoutSvc))
	mux.Handle("/payments/webhook", transporthttp.HandlePaymentWebhook(fulfillmentSvc, cfg.PaymentWebhookSecret, logger))
	mux.Handle("/scans", transporthttp.HandleScan(scanSvc))
	mux.Handle("/admin/events", transporthttp.HandleAdminEvents(adminSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	corsOrigins := parseCSV(cfg.CORSOrigins)
	handler := transporthttp.RequestLogger(transporthttp.CORS(corsOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepSvc.Run(stopCtx, cfg.SweepInterval)

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}

func parseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
