package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/m04kA/Realty-BookingService/internal/api/handlers/cancel_appointment"
	completeAppointmentHandler "github.com/m04kA/Realty-BookingService/internal/api/handlers/complete_appointment"
	confirmAppointmentHandler "github.com/m04kA/Realty-BookingService/internal/api/handlers/confirm_appointment"
	createAppointmentHandler "github.com/m04kA/Realty-BookingService/internal/api/handlers/create_appointment"
	createPropertyHandler "github.com/m04kA/Realty-BookingService/internal/api/handlers/create_property"
	getAppointmentHandler "github.com/m04kA/Realty-BookingService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/Realty-BookingService/internal/api/handlers/get_availability"
	getClientHandler "github.com/m04kA/Realty-BookingService/internal/api/handlers/get_client"
	getPropertyHandler "github.com/m04kA/Realty-BookingService/internal/api/handlers/get_property"
	listAppointmentsHandler "github.com/m04kA/Realty-BookingService/internal/api/handlers/list_appointments"
	listClientsHandler "github.com/m04kA/Realty-BookingService/internal/api/handlers/list_clients"
	listPropertiesHandler "github.com/m04kA/Realty-BookingService/internal/api/handlers/list_properties"
	"github.com/m04kA/Realty-BookingService/internal/api/middleware"
	"github.com/m04kA/Realty-BookingService/internal/config"
	"github.com/m04kA/Realty-BookingService/internal/infra/slotlock"
	appointmentRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/appointment"
	clientRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/client"
	propertyRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/property"
	slotRepo "github.com/m04kA/Realty-BookingService/internal/infra/storage/slot"
	appointmentsService "github.com/m04kA/Realty-BookingService/internal/service/appointments"
	clientsService "github.com/m04kA/Realty-BookingService/internal/service/clients"
	propertiesService "github.com/m04kA/Realty-BookingService/internal/service/properties"
	getAvailabilityUC "github.com/m04kA/Realty-BookingService/internal/usecase/get_availability"
	reserveSlotUC "github.com/m04kA/Realty-BookingService/internal/usecase/reserve_slot"
	"github.com/m04kA/Realty-BookingService/pkg/dbmetrics"
	"github.com/m04kA/Realty-BookingService/pkg/logger"
	"github.com/m04kA/Realty-BookingService/pkg/metrics"
	"github.com/m04kA/Realty-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/Realty-BookingService/pkg/txmanager"
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

	log.Info("Starting Realty-BookingService...")
	log.Info("Configuration loaded from config.toml")

	defaultAgentID, err := cfg.Booking.DefaultAgentUUID()
	if err != nil {
		log.Fatal("Invalid default agent id: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем блокировку слотов.
	// Redis опционален: корректность бронирования гарантирует БД.
	var locker reserveSlotUC.SlotLocker = slotlock.NewNoopLocker()
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatal("Failed to ping redis: %v", err)
		}
		cancel()

		locker = slotlock.NewRedisLocker(redisClient, time.Duration(cfg.Redis.LockTTLSecs)*time.Second)
		log.Info("Slot locking enabled via redis at %s", cfg.Redis.Addr)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		slotRepository        *slotRepo.Repository
		appointmentRepository *appointmentRepo.Repository
		clientRepository      *clientRepo.Repository
		propertyRepository    *propertyRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		slotRepository = slotRepo.NewRepository(wrappedDB)
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		clientRepository = clientRepo.NewRepository(wrappedDB)
		propertyRepository = propertyRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		slotRepository = slotRepo.NewRepository(db)
		appointmentRepository = appointmentRepo.NewRepository(db)
		clientRepository = clientRepo.NewRepository(db)
		propertyRepository = propertyRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		slotRepository,
		txMgr,
		log,
	)
	clientsSvc := clientsService.NewService(clientRepository, log)
	propertiesSvc := propertiesService.NewService(propertyRepository, log)

	// Инициализируем use cases
	var reservationMetrics reserveSlotUC.ReservationMetrics
	if cfg.Metrics.Enabled {
		reservationMetrics = metricsCollector
	}

	reserveSlotUseCase := reserveSlotUC.NewUseCase(
		slotRepository,
		appointmentRepository,
		clientRepository,
		locker,
		txMgr,
		reservationMetrics,
		log,
		defaultAgentID,
		cfg.Booking.DurationMinutes,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		slotRepository,
		log,
		defaultAgentID,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(reserveSlotUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	confirmAppointment := confirmAppointmentHandler.NewHandler(appointmentsSvc, log)
	completeAppointment := completeAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	listClients := listClientsHandler.NewHandler(clientsSvc, log)
	getClient := getClientHandler.NewHandler(clientsSvc, log)
	createProperty := createPropertyHandler.NewHandler(propertiesSvc, log)
	listProperties := listPropertiesHandler.NewHandler(propertiesSvc, log)
	getProperty := getPropertyHandler.NewHandler(propertiesSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (виджет бронирования на сайте)
	// ============================================================

	// Календарь доступности агента
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Создание или перенос встречи
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Каталог объектов недвижимости
	api.HandleFunc("/properties", listProperties.Handle).Methods(http.MethodGet)
	api.HandleFunc("/properties/{propertyId}", getProperty.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (дашборд агентства, требуют X-User-ID)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Встречи ---
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/confirm", confirmAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/complete", completeAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// --- CRM клиенты ---
	protected.HandleFunc("/clients", listClients.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/clients/{clientId}", getClient.Handle).Methods(http.MethodGet)

	// --- Управление каталогом ---
	protected.HandleFunc("/properties", createProperty.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
