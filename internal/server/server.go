// Package server boots the back-office: config, database, cache, storage,
// queue, event listeners, and the HTTP (plus optional gRPC) listeners.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/orderdesk/backoffice/app/jobs"
	"github.com/orderdesk/backoffice/app/routes"
	"github.com/orderdesk/backoffice/app/services"
	"github.com/orderdesk/backoffice/config"
	"github.com/orderdesk/backoffice/pkg/cache"
	"github.com/orderdesk/backoffice/pkg/database"
	"github.com/orderdesk/backoffice/pkg/event"
	"github.com/orderdesk/backoffice/pkg/grpcops"
	"github.com/orderdesk/backoffice/pkg/logger"
	"github.com/orderdesk/backoffice/pkg/metrics"
	"github.com/orderdesk/backoffice/pkg/middleware"
	"github.com/orderdesk/backoffice/pkg/queue"
	"github.com/orderdesk/backoffice/pkg/ratelimit"
	"github.com/orderdesk/backoffice/pkg/reqid"
	"github.com/orderdesk/backoffice/pkg/router"
	"github.com/orderdesk/backoffice/pkg/session"
	"github.com/orderdesk/backoffice/pkg/storage"
	"github.com/orderdesk/backoffice/pkg/workerpool"
)

const (
	shutdownTimeout = 10 * time.Second

	loginAttempts = 10
	loginWindow   = time.Minute

	queueWorkers = 4
)

// Start boots everything and blocks until SIGINT/SIGTERM, then drains the
// HTTP server and queue workers and waits for in-flight event listeners.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.LogMongoURI(); uri != "" {
		mh, err := logger.NewMongoHandler(uri, "backoffice", "logs")
		if err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		} else {
			defer mh.Close()
			logger.L = slog.New(logger.NewMultiHandler(logger.L.Handler(), mh))
		}
	}

	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		// Redis is optional in dev; sessions fall back to cookie-only and
		// the queue runs in memory.
		logger.Warn("redis unavailable, falling back to in-process drivers", "error", err)
	}
	storage.Connect()

	pool := workerpool.New(runtime.NumCPU() * 2)
	event.UsePool(pool)

	registerListeners()

	jobs.Register()
	queue.UseDB(database.DB)
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go routes.OrderFeed.Run()
	queue.StartWorkers(ctx, queueWorkers)

	var loginLimiter ratelimit.Limiter
	if cache.RDB != nil {
		loginLimiter = ratelimit.NewRedis(cache.RDB, loginAttempts, loginWindow)
	} else {
		mem := ratelimit.NewMemory(loginAttempts, loginWindow)
		defer mem.Close()
		loginLimiter = mem
	}

	r := router.New()
	r.Use(
		metrics.Middleware(),
		reqid.Middleware(),
		session.Middleware(session.DefaultOptions()),
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.Recovery,
		middleware.Logger,
		middleware.Authenticate,
	)
	routes.RegisterAPI(r, loginLimiter)

	if port := config.GRPCPort(); port != "" {
		grpcSrv, err := grpcops.Start(port)
		if err != nil {
			return err
		}
		defer grpcops.Stop(grpcSrv)
	}

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}

	// Detach the listeners so nothing new is submitted to the pool, then
	// wait out the listener tasks already running.
	event.Flush()
	pool.Shutdown()
	return nil
}

// registerListeners wires the domain events into their side effects:
// websocket broadcasts for the dashboard and the customer status email.
func registerListeners() {
	event.Listen(services.EventOrderStatusChanged, func(payload interface{}) {
		e, ok := payload.(services.OrderStatusChangedEvent)
		if !ok {
			return
		}

		routes.OrderFeed.BroadcastJSON(map[string]interface{}{
			"event":        "order.status_changed",
			"order_id":     e.Order.ID,
			"order_number": e.Order.OrderNumber,
			"from":         e.From,
			"to":           e.To,
		})

		if err := queue.Dispatch(&jobs.StatusEmailJob{
			OrderNumber:   e.Order.OrderNumber,
			CustomerName:  e.Order.CustomerName,
			CustomerEmail: e.Order.CustomerEmail,
			Status:        string(e.To),
			TrackingNo:    e.Order.TrackingNo,
		}); err != nil {
			logger.Error("dispatch status email", "order", e.Order.OrderNumber, "error", err)
		}
	})

	event.Listen(services.EventOrderAssigned, func(payload interface{}) {
		e, ok := payload.(services.OrderAssignedEvent)
		if !ok {
			return
		}
		routes.OrderFeed.BroadcastJSON(map[string]interface{}{
			"event":        "order.assigned",
			"order_id":     e.Order.ID,
			"order_number": e.Order.OrderNumber,
			"staff_id":     e.StaffID,
		})
	})
}
