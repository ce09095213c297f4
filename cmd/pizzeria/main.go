// Package main boots the pizzeria storefront HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/pizzeria-storefront/internal/auth"
	"github.com/fairyhunter13/pizzeria-storefront/internal/cart"
	"github.com/fairyhunter13/pizzeria-storefront/internal/catalog"
	"github.com/fairyhunter13/pizzeria-storefront/internal/checkout"
	"github.com/fairyhunter13/pizzeria-storefront/internal/config"
	"github.com/fairyhunter13/pizzeria-storefront/internal/contact"
	httpapi "github.com/fairyhunter13/pizzeria-storefront/internal/http"
	"github.com/fairyhunter13/pizzeria-storefront/internal/images"
	"github.com/fairyhunter13/pizzeria-storefront/internal/obs"
	"github.com/fairyhunter13/pizzeria-storefront/internal/orders"
	"github.com/fairyhunter13/pizzeria-storefront/internal/queue"
	"github.com/fairyhunter13/pizzeria-storefront/internal/session"
	"github.com/fairyhunter13/pizzeria-storefront/internal/store"
	"github.com/fairyhunter13/pizzeria-storefront/internal/supabase"
)

func openStore(cfg config.Config) (store.Store, error) {
	if cfg.DataDir == "" {
		return store.NewMemory(), nil
	}
	return store.NewPebble(cfg.DataDir)
}

// buildPlacer returns the placement chain and the Kafka publisher to close,
// if any.
func buildPlacer(cfg config.Config) (orders.Placer, *orders.KafkaPublisher) {
	chain := orders.Chain{orders.SimulatedPlacer{Delay: cfg.CheckoutDelay}}
	if len(cfg.KafkaBrokers) == 0 {
		return chain, nil
	}
	kp := orders.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
	return append(chain, kp), kp
}

func main() {
	cfg := config.Load()
	obs.InitLogger(cfg.Debug.Enabled)
	obs.Logger.Info("service_starting", "env", cfg.Environment, "backend", cfg.BackendConfigured())

	st, err := openStore(cfg)
	if err != nil {
		obs.Logger.Error("store_open_error", "error", err, "data_dir", cfg.DataDir)
		os.Exit(1)
	}
	placer, kafkaPub := buildPlacer(cfg)

	q := queue.New(128)
	mgr := queue.NewManager(cfg, q, st, placer)
	obs.Metrics = obs.NewRegistry(func() float64 { return float64(mgr.QueueDepth()) })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr.Start(ctx)

	sessions := session.NewManager(cart.Pricing{DeliveryFee: cfg.DeliveryFee, TaxRate: cfg.TaxRate}, cfg.SessionTTL)
	go sessions.Run(ctx, cfg.SessionSweepInterval)

	resolver := images.NewResolver(images.DefaultTable(), obs.NewDebugLogger(cfg.Debug.LogImageMatches, obs.Logger))
	verifier := &images.Verifier{
		BaseURL: cfg.AssetBaseURL,
		Client:  &http.Client{},
		Timeout: cfg.ImageCheckTimeout,
	}

	var src catalog.Source = catalog.StaticSource{}
	authSvc := auth.NewService(nil, nil)
	if cfg.BackendConfigured() {
		sb := supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.BackendTimeout)
		src = catalog.SupabaseSource{Client: sb}
		backend := auth.Supabase{Client: sb}
		authSvc = auth.NewService(backend, backend)
	}

	app := httpapi.NewApp(cfg, httpapi.Services{
		Store:    st,
		Manager:  mgr,
		Sessions: sessions,
		Catalog:  catalog.NewService(src, resolver, verifier.URL),
		Checkout: checkout.NewService(mgr, st),
		Auth:     authSvc,
		Contact:  contact.NewService(st),
		Images:   resolver,
		Verifier: verifier,
	})
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	app.StartShutdown()
	obs.Logger.Info("shutdown_drain_begin", "backlog_size", mgr.BacklogSize(), "worker_count", mgr.WorkerCount())

	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelDrain()
	if drained := mgr.DrainUntil(ctxDrain); !drained {
		obs.Logger.Warn("shutdown_drain_timeout")
	} else {
		obs.Logger.Info("shutdown_drain_complete")
	}

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	mgr.Stop()
	cancel()
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			obs.Logger.Error("kafka_close_error", "error", err)
		}
	}
	if err := st.Close(); err != nil {
		obs.Logger.Error("store_close_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
}
