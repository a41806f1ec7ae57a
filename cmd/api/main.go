package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-relay/catalog"
	"github.com/marcelsud/webhook-relay/config"
	"github.com/marcelsud/webhook-relay/internal/http/chi"
	"github.com/marcelsud/webhook-relay/metrics"
	"github.com/marcelsud/webhook-relay/relay"
	"github.com/marcelsud/webhook-relay/relay/file"
	"github.com/marcelsud/webhook-relay/relay/redis"
)

const TIMEOUT = 30 * time.Second

/* main wires the delivery engine together: config, the log store
 * (Redis when configured, a local file otherwise), the HTTP sender,
 * the metrics exporter and the admin API. Dependencies are initialized
 * here and injected downward; packages never reach back up
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	var store relay.LogStore
	if cfg.RedisAddr != "" {
		redisStore, err := redis.NewStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			fmt.Println(err)
			return
		}
		defer redisStore.Close(ctx)
		store = redisStore
	} else {
		store = file.NewStore(cfg.LogStorePath)
	}

	// A missing endpoint URL is legal: the engine refuses enqueues instead of crashing
	var sender relay.Sender
	if cfg.WebhookURL != "" {
		sender = relay.NewHTTPSender(cfg.WebhookURL)
	} else {
		fmt.Println("WEBHOOK_URL not set, delivery disabled")
	}

	logger := httplog.NewLogger("webhook-relay", httplog.Options{JSON: true})

	engine := relay.NewService(ctx, sender, store, relay.Options{
		DrainInterval:   cfg.DrainInterval(),
		PersistInterval: cfg.PersistInterval(),
		BatchSize:       cfg.BatchSize,
		MaxAttempts:     cfg.MaxAttempts,
		Logger:          &logger,
	})
	engine.Start(ctx)
	defer engine.Stop()

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		if err := cat.Load(cfg.CatalogPath); err != nil {
			fmt.Println(err)
			return
		}
	}

	exporter, err := metrics.NewOTelExporter(metrics.NewRelayCollector(engine))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer exporter.Shutdown(ctx)

	r := chi.Handlers(ctx, engine, cat, exporter.ServeHTTP())
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	fmt.Printf("Listening on port %s\n", cfg.Port)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fmt.Println(err)
		return
	}
	err = <-errShutdown
	if err != nil {
		fmt.Println(err)
		return
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("forcing closing the server")
	}
}
