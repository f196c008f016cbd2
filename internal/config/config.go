package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// App holds the full service configuration, loaded from the environment.
type App struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`

	// Payment provider (hosted checkout). The webhook secret is required: an
	// empty HMAC key would make every forged notification verify.
	PaymentBaseURL       string `envconfig:"PAYMENT_BASE_URL" default:"https://api.payments.example.com"`
	PaymentSecretKey     string `envconfig:"PAYMENT_SECRET_KEY"`
	PaymentWebhookSecret string `envconfig:"PAYMENT_WEBHOOK_SECRET" required:"true"`
	CheckoutSuccessURL   string `envconfig:"CHECKOUT_SUCCESS_URL" default:"http://localhost:5173/checkout/success"`
	CheckoutCancelURL    string `envconfig:"CHECKOUT_CANCEL_URL" default:"http://localhost:5173/checkout/cancel"`

	// Organizer payout directory. Empty means every organizer is treated as
	// onboarded (local development).
	PayoutBaseURL string `envconfig:"PAYOUT_BASE_URL"`

	// Notifications. Empty RabbitURL falls back to a log-only notifier.
	RabbitURL      string `envconfig:"RABBIT_URL"`
	RabbitExchange string `envconfig:"RABBIT_EXCHANGE" default:"uniparty.exchange"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	SweepInterval  time.Duration `envconfig:"SWEEP_INTERVAL" default:"1h"`
	OrderRetention time.Duration `envconfig:"ORDER_RETENTION" default:"24h"`
}

// Load reads .env (if present) and then the process environment.
func Load() (App, error) {
	_ = godotenv.Load()
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
