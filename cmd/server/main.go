package main

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/wildcards/internal/api"
	"github.com/vytor/wildcards/internal/app"
	"github.com/vytor/wildcards/internal/config"
	"github.com/vytor/wildcards/internal/dataset"
	"github.com/vytor/wildcards/internal/db"
	"github.com/vytor/wildcards/internal/jobs"
	"github.com/vytor/wildcards/internal/logger"
	"github.com/vytor/wildcards/internal/repository"
	"github.com/vytor/wildcards/internal/repository/memory"
	"github.com/vytor/wildcards/internal/repository/redis"
	"github.com/vytor/wildcards/internal/repository/sqlite"
	"github.com/vytor/wildcards/internal/storage"
	"github.com/vytor/wildcards/internal/worker"
	"github.com/vytor/wildcards/web"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(cfg.LogFormat),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("WildCards Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("dataset_source=%s", cfg.DatasetSource)
	log.Debug("qcm_dataset_source=%s", cfg.QCMDatasetSource)
	log.Debug("fetch_timeout=%s", cfg.FetchTimeout)
	log.Debug("render_delay=%s", cfg.RenderDelay)
	log.Debug("worker_count=%d", cfg.WorkerCount)
	log.Debug("queue_size=%d", cfg.QueueSize)
	log.Debug("sweep_interval=%s visitor_max_idle=%s", cfg.SweepInterval, cfg.VisitorMaxIdle)

	ctx, cancel := context.WithCancel(logger.NewContext(context.Background(), log))
	defer cancel()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	var session repository.KVRepository
	if cfg.RedisURL != "" {
		rdb, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to redis: %v", err)
			os.Exit(1)
		}
		defer rdb.Close()
		session = redis.NewKVRepository(rdb, cfg.SessionTTL)
	} else {
		log.Info("REDIS_URL not set, session data kept in memory")
		session = memory.NewKVRepository()
	}

	log.Debug("loading templates")
	tmpl, err := api.LoadTemplates(web.FS)
	if err != nil {
		log.Error("failed to load templates: %v", err)
		os.Exit(1)
	}
	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		log.Error("failed to load static assets: %v", err)
		os.Exit(1)
	}

	local := sqlite.NewKVRepository(database.DB)
	loader := dataset.NewLoader(cfg.DatasetSource, cfg.QCMDatasetSource, cfg.FetchTimeout)
	visitors := app.NewManager(loader, local, session,
		app.Options{RenderDelay: cfg.RenderDelay})

	pool := worker.NewPool(cfg.WorkerCount, cfg.QueueSize)
	pool.Start(ctx)
	queue := jobs.NewWorkerQueue(pool, loader, visitors, cfg.VisitorMaxIdle)

	// warm the dataset cache before the first visitor
	if err := queue.EnqueueDatasetReload(); err != nil {
		log.Warn("failed to queue initial dataset load: %v", err)
	}

	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := queue.EnqueueVisitorSweep(); err != nil {
					log.Warn("failed to queue visitor sweep: %v", err)
				}
			}
		}
	}()

	srv := &api.Server{
		Visitors:       visitors,
		Jobs:           queue,
		Templates:      tmpl,
		Static:         static,
		Ready:          database.Ping,
		RequestTimeout: cfg.RequestTimeout,
		SecureCookies:  cfg.SecureCookies,
		Stores: map[string]*storage.Adapter{
			storage.ScopeLocal:   storage.New(local, storage.ScopeLocal, "readyz"),
			storage.ScopeSession: storage.New(session, storage.ScopeSession, "readyz"),
		},
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping worker pool")
	cancel()
	pool.Stop()

	log.Info("===========================================")
	log.Info("WildCards Server Stopped")
	log.Info("===========================================")
}
