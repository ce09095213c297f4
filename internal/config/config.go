// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Environment names accepted in APP_ENV.
const (
	EnvLocal       = "local"
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Debug holds the debug feature switches. Every switch is false unless the
// service runs in the local environment.
type Debug struct {
	Enabled         bool
	LogImageMatches bool
	ImageReport     bool
}

// Config holds configuration knobs for the HTTP server, pricing, the order
// worker pool and the external collaborators. It is built once at startup
// and not modified afterwards.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	Environment     string
	Debug           Debug

	DeliveryFee   decimal.Decimal
	TaxRate       decimal.Decimal
	CheckoutDelay time.Duration

	InitialWorkerCount      int
	WorkerMin               int
	WorkerMax               int
	ScaleInterval           time.Duration
	ScaleUpBacklogPerWorker int
	ScaleDownIdleTicks      int
	QueueHighWatermark      int

	SupabaseURL     string
	SupabaseAnonKey string
	BackendTimeout  time.Duration

	DataDir         string
	KafkaBrokers    []string
	KafkaOrderTopic string

	SessionTTL           time.Duration
	SessionSweepInterval time.Duration

	AssetBaseURL      string
	ImageCheckTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func decenv(key, def string) decimal.Decimal {
	d, err := decimal.NewFromString(getenv(key, def))
	if err != nil || d.IsNegative() {
		return decimal.RequireFromString(def)
	}
	return d
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

func listenv(key string) []string {
	var out []string
	for _, part := range strings.Split(getenv(key, ""), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func environment() string {
	switch env := strings.ToLower(getenv("APP_ENV", EnvProduction)); env {
	case EnvLocal, EnvDevelopment:
		return env
	default:
		return EnvProduction
	}
}

// Load collects configuration from environment with defaults.
func Load() Config {
	env := environment()
	local := env == EnvLocal
	minWorkers := atoienv("WORKER_MIN", 1)
	maxWorkers := atoienv("WORKER_MAX", 4)
	if maxWorkers < minWorkers {
		maxWorkers = minWorkers
	}
	initialWorkers := atoienv("WORKER_COUNT", minWorkers)
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
		Environment:     env,
		Debug: Debug{
			Enabled:         local,
			LogImageMatches: local && boolenv("DEBUG_IMAGES", true),
			ImageReport:     local,
		},

		DeliveryFee:   decenv("DELIVERY_FEE", "3.99"),
		TaxRate:       decenv("TAX_RATE", "0.10"),
		CheckoutDelay: durenvms("CHECKOUT_DELAY_MS", 1500),

		InitialWorkerCount:      initialWorkers,
		WorkerMin:               minWorkers,
		WorkerMax:               maxWorkers,
		ScaleInterval:           durenvms("SCALE_INTERVAL_MS", 500),
		ScaleUpBacklogPerWorker: atoienv("SCALE_UP_BACKLOG_PER_WORKER", 10),
		ScaleDownIdleTicks:      atoienv("SCALE_DOWN_IDLE_TICKS", 6),
		QueueHighWatermark:      atoienv("QUEUE_HIGH_WATERMARK", 1000),

		SupabaseURL:     strings.TrimRight(getenv("SUPABASE_URL", ""), "/"),
		SupabaseAnonKey: getenv("SUPABASE_ANON_KEY", ""),
		BackendTimeout:  durenvms("BACKEND_TIMEOUT_MS", 5000),

		DataDir:         getenv("DATA_DIR", ""),
		KafkaBrokers:    listenv("KAFKA_BROKERS"),
		KafkaOrderTopic: getenv("KAFKA_ORDER_TOPIC", "pizzeria.orders"),

		SessionTTL:           durenvs("SESSION_TTL", 7200),
		SessionSweepInterval: durenvs("SESSION_SWEEP_INTERVAL", 60),

		AssetBaseURL:      getenv("ASSET_BASE_URL", "/assets/img/"),
		ImageCheckTimeout: durenvms("IMAGE_CHECK_TIMEOUT_MS", 5000),
	}
}

// BackendConfigured reports whether a hosted backend URL was provided.
func (c Config) BackendConfigured() bool { return c.SupabaseURL != "" }
