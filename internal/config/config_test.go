package config

import (
	"testing"
	"time"
)

var allKeys = []string{
	"HTTP_ADDR", "SHUTDOWN_TIMEOUT", "APP_ENV", "DEBUG_IMAGES",
	"DELIVERY_FEE", "TAX_RATE", "CHECKOUT_DELAY_MS",
	"WORKER_MIN", "WORKER_MAX", "WORKER_COUNT", "SCALE_INTERVAL_MS",
	"SCALE_UP_BACKLOG_PER_WORKER", "SCALE_DOWN_IDLE_TICKS", "QUEUE_HIGH_WATERMARK",
	"SUPABASE_URL", "SUPABASE_ANON_KEY", "BACKEND_TIMEOUT_MS",
	"DATA_DIR", "KAFKA_BROKERS", "KAFKA_ORDER_TOPIC",
	"SESSION_TTL", "SESSION_SWEEP_INTERVAL", "ASSET_BASE_URL", "IMAGE_CHECK_TIMEOUT_MS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	c := Load()
	if c.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr default")
	}
	if c.ShutdownTimeout != 15*time.Second {
		t.Fatalf("ShutdownTimeout default")
	}
	if c.Environment != EnvProduction || c.Debug.Enabled || c.Debug.LogImageMatches {
		t.Fatalf("debug must be off by default: %+v", c.Debug)
	}
	if c.DeliveryFee.String() != "3.99" || c.TaxRate.String() != "0.1" {
		t.Fatalf("pricing default: fee=%s tax=%s", c.DeliveryFee, c.TaxRate)
	}
	if c.CheckoutDelay != 1500*time.Millisecond {
		t.Fatalf("CheckoutDelay default")
	}
	if c.WorkerMin != 1 || c.WorkerMax != 4 || c.InitialWorkerCount != 1 {
		t.Fatalf("worker bounds default")
	}
	if c.BackendConfigured() {
		t.Fatalf("backend must be unconfigured by default")
	}
	if len(c.KafkaBrokers) != 0 || c.KafkaOrderTopic != "pizzeria.orders" {
		t.Fatalf("kafka default")
	}
	if c.SessionTTL != 2*time.Hour {
		t.Fatalf("SessionTTL default")
	}
	if c.AssetBaseURL != "/assets/img/" {
		t.Fatalf("AssetBaseURL default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("APP_ENV", "local")
	t.Setenv("DEBUG_IMAGES", "false")
	t.Setenv("DELIVERY_FEE", "2.50")
	t.Setenv("TAX_RATE", "0.08")
	t.Setenv("WORKER_MIN", "2")
	t.Setenv("WORKER_MAX", "1")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co/")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("CHECKOUT_DELAY_MS", "10")
	c := Load()
	if c.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr env")
	}
	if !c.Debug.Enabled || c.Debug.LogImageMatches || !c.Debug.ImageReport {
		t.Fatalf("debug env: %+v", c.Debug)
	}
	if c.DeliveryFee.String() != "2.5" || c.TaxRate.String() != "0.08" {
		t.Fatalf("pricing env")
	}
	if c.WorkerMax != 2 {
		t.Fatalf("WorkerMax must be raised to WorkerMin, got %d", c.WorkerMax)
	}
	if c.SupabaseURL != "https://example.supabase.co" {
		t.Fatalf("SupabaseURL must drop trailing slash: %q", c.SupabaseURL)
	}
	if len(c.KafkaBrokers) != 2 || c.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("brokers env: %v", c.KafkaBrokers)
	}
	if c.CheckoutDelay != 10*time.Millisecond {
		t.Fatalf("CheckoutDelay env")
	}
}

func TestDevelopmentIsNotDebug(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "development")
	c := Load()
	if c.Environment != EnvDevelopment || c.Debug.Enabled {
		t.Fatalf("development must not enable debug: %+v", c)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("DELIVERY_FEE", "-1")
	t.Setenv("TAX_RATE", "abc")
	t.Setenv("WORKER_MIN", "x")
	c := Load()
	if c.Environment != EnvProduction {
		t.Fatalf("unknown env must map to production")
	}
	if c.DeliveryFee.String() != "3.99" || c.TaxRate.String() != "0.1" {
		t.Fatalf("invalid decimals must fall back")
	}
	if c.WorkerMin != 1 {
		t.Fatalf("invalid int must fall back")
	}
}
