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

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CourtBooking/internal/api"
	cancelBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/create_booking"
	getAdminBookingsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_admin_bookings"
	getAvailableSlotsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_booking"
	getBookingHistoryHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_booking_history"
	getCourtTypesHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_court_types"
	getCourtsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_courts"
	getUserBookingsHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/get_user_bookings"
	updateBookingHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/update_booking"
	updateCourtHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/update_court"
	updateCourtTypeHandler "github.com/m04kA/SMC-CourtBooking/internal/api/handlers/update_court_type"
	"github.com/m04kA/SMC-CourtBooking/internal/config"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/cache"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/lock"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/redisclient"
	bookingRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/booking"
	courtRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/court"
	historyRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/history"
	"github.com/m04kA/SMC-CourtBooking/internal/infra/storage/memory"
	bookingsService "github.com/m04kA/SMC-CourtBooking/internal/service/bookings"
	courtsService "github.com/m04kA/SMC-CourtBooking/internal/service/courts"
	createBookingUC "github.com/m04kA/SMC-CourtBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-CourtBooking/internal/usecase/get_available_slots"
	updateBookingUC "github.com/m04kA/SMC-CourtBooking/internal/usecase/update_booking"
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/logger"
	"github.com/m04kA/SMC-CourtBooking/pkg/metrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/txmanager"
)

// Интерфейсы хранилища: postgres и memory реализуют одни и те же контракты
type (
	bookingStore interface {
		createBookingUC.BookingRepository
		updateBookingUC.BookingRepository
		getAvailableSlotsUC.BookingRepository
		bookingsService.BookingRepository
	}
	courtStore interface {
		createBookingUC.CourtRepository
		updateBookingUC.CourtRepository
		courtsService.CourtRepository
	}
	historyStore interface {
		createBookingUC.HistoryRepository
		bookingsService.HistoryRepository
	}
	txManager interface {
		createBookingUC.TransactionManager
		bookingsService.TransactionManager
	}
	availabilityCache interface {
		getAvailableSlotsUC.AvailabilityCache
		createBookingUC.AvailabilityCache
		courtsService.AvailabilityCache
	}
)

type storage struct {
	bookings bookingStore
	courts   courtStore
	history  historyStore
	tx       txManager
	close    func()
}

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

	log.Info("Starting SMC-CourtBooking...")

	hours, err := cfg.Business.Hours()
	if err != nil {
		log.Fatal("Invalid business hours: %v", err)
	}
	log.Info("Business hours %02d:00-%02d:00, slot %dh, timezone %s",
		hours.StartHour, hours.EndHour, hours.SlotLengthHours, hours.Location)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	store, err := openStorage(cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to open storage: %v", err)
	}
	defer store.close()

	// Redis: распределённая блокировка и кэш доступности
	var (
		locker       createBookingUC.Locker = lock.NoopLocker{}
		availability availabilityCache      = cache.Noop{}
		redisClient  *redis.Client
	)

	if cfg.UsesRedis() {
		redisClient, err = redisclient.NewClient(context.Background(), redisclient.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		log.Info("Connected to redis at %s", cfg.Redis.Addr)

		if cfg.Lock.Backend == config.LockBackendRedis {
			locker = lock.NewRedisLocker(redisClient, cfg.Lock.TTL(), cfg.Lock.WaitTimeout())
			log.Info("Redis lock enabled (ttl=%s, wait=%s)", cfg.Lock.TTL(), cfg.Lock.WaitTimeout())
		}
		if cfg.Cache.Enabled {
			availability = cache.NewRedisAvailabilityCache(redisClient, cfg.Cache.TTL())
			log.Info("Availability cache enabled (ttl=%s)", cfg.Cache.TTL())
		}
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		store.bookings,
		store.history,
		store.tx,
		availability,
		hours,
		cfg.Business.PageSize,
		log,
	)
	courtSvc := courtsService.NewService(store.courts, availability, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		store.courts,
		store.bookings,
		store.history,
		store.tx,
		locker,
		availability,
		hours,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		store.courts,
		store.bookings,
		store.tx,
		locker,
		availability,
		hours,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		store.courts,
		store.bookings,
		availability,
		hours,
		log,
	)

	// Инициализируем handlers и роутер
	router := api.NewRouter(api.Handlers{
		CreateBooking:     createBookingHandler.NewHandler(createBookingUseCase, hours.Location, log),
		UpdateBooking:     updateBookingHandler.NewHandler(updateBookingUseCase, hours.Location, log),
		GetAvailableSlots: getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log),
		GetBooking:        getBookingHandler.NewHandler(bookingSvc, log),
		GetBookingHistory: getBookingHistoryHandler.NewHandler(bookingSvc, log),
		CancelBooking:     cancelBookingHandler.NewHandler(bookingSvc, log),
		ConfirmBooking:    confirmBookingHandler.NewHandler(bookingSvc, log),
		GetAdminBookings:  getAdminBookingsHandler.NewHandler(bookingSvc, log),
		GetUserBookings:   getUserBookingsHandler.NewHandler(bookingSvc, log),
		GetCourts:         getCourtsHandler.NewHandler(courtSvc, log),
		GetCourtTypes:     getCourtTypesHandler.NewHandler(courtSvc, log),
		UpdateCourt:       updateCourtHandler.NewHandler(courtSvc, log),
		UpdateCourtType:   updateCourtTypeHandler.NewHandler(courtSvc, log),
	}, api.Options{
		Metrics:     metricsCollector,
		MetricsPath: cfg.Metrics.Path,
		Logger:      log,
	})

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
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
	close(stopMetricsCh)

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

// openStorage подключает PostgreSQL или поднимает хранилище в памяти
func openStorage(cfg *config.Config, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn("Using in-memory storage: data is lost on restart, court types and courts are seeded")
		store := memory.New()
		if err := seedMemory(store); err != nil {
			return nil, err
		}
		return &storage{
			bookings: store.Bookings(),
			courts:   store.Courts(),
			history:  store.History(),
			tx:       store.TxManager(),
			close:    func() {},
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Обёртка собирает метрики запросов, если metrics != nil
	wrappedDB := dbmetrics.WrapWithDefault(db, m, stopCh)

	return &storage{
		bookings: bookingRepo.NewRepository(wrappedDB),
		courts:   courtRepo.NewRepository(wrappedDB),
		history:  historyRepo.NewRepository(wrappedDB),
		tx:       txmanager.NewTransactionManager(wrappedDB),
		close:    func() { _ = db.Close() },
	}, nil
}

// seedMemory заполняет хранилище в памяти кортами, чтобы сервисом можно было пользоваться сразу
func seedMemory(store *memory.Store) error {
	indoor := store.AddCourtType("Indoor", decimal.NewFromInt(600000))
	outdoor := store.AddCourtType("Outdoor", decimal.NewFromInt(400000))

	for i, typeID := range []int64{indoor.ID, indoor.ID, outdoor.ID, outdoor.ID} {
		slug := fmt.Sprintf("court-%d", i+1)
		if _, err := store.AddCourt(slug, fmt.Sprintf("Court %d", i+1), typeID); err != nil {
			return fmt.Errorf("seed memory court %s: %w", slug, err)
		}
	}
	return nil
}
