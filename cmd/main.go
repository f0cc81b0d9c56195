package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	cancelBookingHandler "github.com/m04kA/SMC-TeeTimeService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-TeeTimeService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-TeeTimeService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-TeeTimeService/internal/api/handlers/get_booking"
	getResourceConfigHandler "github.com/m04kA/SMC-TeeTimeService/internal/api/handlers/get_resource_config"
	getUserBookingsHandler "github.com/m04kA/SMC-TeeTimeService/internal/api/handlers/get_user_bookings"
	regenerateSlotsHandler "github.com/m04kA/SMC-TeeTimeService/internal/api/handlers/regenerate_slots"
	saveResourceConfigHandler "github.com/m04kA/SMC-TeeTimeService/internal/api/handlers/save_resource_config"
	updateBookingHandler "github.com/m04kA/SMC-TeeTimeService/internal/api/handlers/update_booking"
	"github.com/m04kA/SMC-TeeTimeService/internal/api/middleware"
	"github.com/m04kA/SMC-TeeTimeService/internal/app"
	"github.com/m04kA/SMC-TeeTimeService/internal/config"
	"github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-TeeTimeService/internal/scheduler"
	"github.com/m04kA/SMC-TeeTimeService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TeeTimeService/pkg/logger"
	"github.com/m04kA/SMC-TeeTimeService/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-TeeTimeService...")

	// Подключаемся к базе данных
	db, err := app.OpenDB(
		cfg.Database.DSN(),
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		time.Duration(cfg.Database.ConnMaxLifetime)*time.Second,
	)
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.MigrateOnStart {
		if err := migrations.Up(db); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		version, dirty, err := migrations.Version(db)
		if err != nil {
			log.Fatal("Failed to read schema version: %v", err)
		}
		log.Info("Schema is at version %d (dirty=%t)", version, dirty)
	}

	// Метрики и обертка БД (если включены)
	var (
		metricsCollector *metrics.Metrics
		executor         dbmetrics.DBExecutor = db
		recorder         app.Recorder         = metrics.Noop{}
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		executor = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		recorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Репозитории, сервисы и use cases
	a := app.New(executor, recorder, log, app.Options{OperationTimeout: cfg.Booking.Timeout()})

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(a.CreateBooking, log)
	cancelBooking := cancelBookingHandler.NewHandler(a.CancelBooking, log)
	updateBooking := updateBookingHandler.NewHandler(a.UpdateBooking, log)
	getBooking := getBookingHandler.NewHandler(a.BookingService, log)
	getUserBookings := getUserBookingsHandler.NewHandler(a.BookingService, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(a.GetAvailableSlots, log)
	getResourceConfig := getResourceConfigHandler.NewHandler(a.ResourceService, log)
	saveResourceConfig := saveResourceConfigHandler.NewHandler(a.ResourceService, a.RegenerateSlots, log)
	regenerateSlots := regenerateSlotsHandler.NewHandler(a.RegenerateSlots, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Сетка слотов ресурса на дату
	api.HandleFunc("/resources/{resourceId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Конфигурация ресурса
	api.HandleFunc("/resources/{resourceId}/config", getResourceConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}", cancelBooking.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление ресурсом (для площадки) ---
	protected.HandleFunc("/resources/{resourceId}/config", saveResourceConfig.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/resources/{resourceId}/slots/regenerate", regenerateSlots.Handle).Methods(http.MethodPost)

	// Фоновые задачи
	sched, err := scheduler.New(log)
	if err != nil {
		log.Fatal("Failed to create scheduler: %v", err)
	}
	if cfg.Reconciliation.Enabled {
		if err := sched.AddReconciliation(a.ReconcileReleases, cfg.Reconciliation.Interval(), cfg.Reconciliation.BatchSize); err != nil {
			log.Fatal("Failed to schedule reconciliation: %v", err)
		}
		log.Info("Reconciliation scheduled every %s (batch=%d)", cfg.Reconciliation.Interval(), cfg.Reconciliation.BatchSize)
	}
	if cfg.Horizon.Enabled {
		if err := sched.AddHorizon(a.RollHorizon, cfg.Horizon.At); err != nil {
			log.Fatal("Failed to schedule horizon roll: %v", err)
		}
		log.Info("Horizon roll scheduled daily at %s UTC", cfg.Horizon.At)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	sched.Start()

	// Graceful shutdown по сигналу или падению сервера
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		if err := sched.Stop(); err != nil {
			log.Error("Scheduler stopped with error: %v", err)
		}
		close(stopMetricsCh)

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error: %v", err)
		return
	}

	log.Info("Server stopped gracefully")
}
