package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/hotel-pms/config"
	"github.com/Eursukkul/hotel-pms/internal/consumer"
	"github.com/Eursukkul/hotel-pms/internal/handler"
	"github.com/Eursukkul/hotel-pms/internal/middleware"
	"github.com/Eursukkul/hotel-pms/internal/models"
	"github.com/Eursukkul/hotel-pms/internal/repository"
	"github.com/Eursukkul/hotel-pms/internal/service"
	"github.com/Eursukkul/hotel-pms/pkg/database"
	"github.com/Eursukkul/hotel-pms/pkg/logger"
	"github.com/Eursukkul/hotel-pms/pkg/obs"
	"github.com/Eursukkul/hotel-pms/pkg/rabbitmq"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, cfg.ServiceName, cfg.Env, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	db, err := database.NewPostgresDB(cfg.DSN(), database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Repositories
	tx := repository.NewTransactor(db)
	roomRepo := repository.NewRoomRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	loyaltyRepo := repository.NewLoyaltyRepository(db)

	// RabbitMQ: optional, bookings work without it
	var publisher service.EventPublisher
	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, log)
		if err != nil {
			log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
		}
		defer pub.Close()
		publisher = pub

		housekeeping := service.NewHousekeepingService(tx, roomRepo, repository.NewCleaningTaskRepository(db), log)
		startHousekeeping(ctx, cfg.RabbitURL, housekeeping, log)
	} else {
		log.Info("RABBITMQ_URL not set, events are not published")
	}

	// Services
	deps := service.BookingDeps{
		Tx:           tx,
		Rooms:        roomRepo,
		Guests:       repository.NewGuestRepository(db),
		Reservations: reservationRepo,
		Payments:     paymentRepo,
		Members:      loyaltyRepo,
		Checker:      service.NewAvailabilityChecker(reservationRepo),
		Loyalty:      service.NewLoyaltyCalculator(reservationRepo, cfg.Loyalty.SpendStep, cfg.Loyalty.PointsPerStep),
		Publisher:    publisher,
		Log:          log,
	}
	bookingSvc := service.NewBookingService(deps)
	reservationSvc := service.NewReservationService(deps)
	paymentSvc := service.NewPaymentService(paymentRepo, reservationRepo, publisher, log)
	financeSvc := service.NewFinanceService(repository.NewFinanceRepository(db), roomRepo, log)
	memberSvc := service.NewMemberService(loyaltyRepo, log)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	e.Use(echoMw.RequestIDWithConfig(echoMw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMw.Recover())

	e.GET("/health", handler.Health(cfg.ServiceName))

	api := e.Group("/api/v1", middleware.RateLimit(cfg.RateLimit, newRedis(ctx, cfg, log), log))
	handler.NewBookingHandler(bookingSvc).RegisterRoutes(api)
	handler.NewReservationHandler(reservationSvc).RegisterRoutes(api)
	handler.NewPaymentHandler(paymentSvc).RegisterRoutes(api)
	handler.NewFinanceHandler(financeSvc).RegisterRoutes(api)
	handler.NewMemberHandler(memberSvc).RegisterRoutes(api)
	registerCatalog(api, db, log)

	go func() {
		log.Info("hotel-pms starting", zap.String("port", cfg.ServerPort))
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func registerCatalog(api *echo.Group, db *gorm.DB, log *zap.Logger) {
	rooms := service.NewCatalogService("room", repository.NewStore[models.Room](db), service.PrepareRoom, log)
	handler.NewCatalogHandler[models.Room](rooms, "id ASC",
		handler.StringFilter("status"), handler.StringFilter("type")).RegisterRoutes(api, "/rooms")

	guests := service.NewCatalogService("guest", repository.NewStore[models.Guest](db), service.PrepareGuest, log)
	handler.NewCatalogHandler[models.Guest](guests, "id DESC",
		handler.StringFilter("email"), handler.StringFilter("phone")).RegisterRoutes(api, "/guests")

	expenses := service.NewCatalogService("expense", repository.NewStore[models.Expense](db), service.PrepareExpense, log)
	handler.NewCatalogHandler[models.Expense](expenses, "expense_date DESC",
		handler.StringFilter("category"), handler.DateFilter("expense_date")).RegisterRoutes(api, "/expenses")

	inventory := service.NewCatalogService("inventory item", repository.NewStore[models.InventoryItem](db), service.PrepareInventoryItem, log)
	handler.NewCatalogHandler[models.InventoryItem](inventory, "name ASC",
		handler.StringFilter("category")).RegisterRoutes(api, "/inventory")

	tickets := service.NewCatalogService("maintenance ticket", repository.NewStore[models.MaintenanceTicket](db), service.PrepareMaintenanceTicket, log)
	handler.NewCatalogHandler[models.MaintenanceTicket](tickets, "created_at DESC",
		handler.StringFilter("status"), handler.StringFilter("priority"), handler.UintFilter("room_id")).RegisterRoutes(api, "/maintenance")

	cleaning := service.NewCatalogService("cleaning task", repository.NewStore[models.CleaningTask](db), service.PrepareCleaningTask, log)
	handler.NewCatalogHandler[models.CleaningTask](cleaning, "scheduled_for DESC",
		handler.StringFilter("status"), handler.UintFilter("room_id"), handler.StringFilter("assigned_to")).RegisterRoutes(api, "/cleaning-tasks")

	shifts := service.NewCatalogService("staff shift", repository.NewStore[models.StaffShift](db), service.PrepareStaffShift, log)
	handler.NewCatalogHandler[models.StaffShift](shifts, "shift_date DESC, start_time ASC",
		handler.DateFilter("shift_date"), handler.StringFilter("role")).RegisterRoutes(api, "/staff-shifts")

	campaigns := service.NewCatalogService("campaign", repository.NewStore[models.Campaign](db), service.PrepareCampaign, log)
	handler.NewCatalogHandler[models.Campaign](campaigns, "start_date DESC",
		handler.StringFilter("status"), handler.StringFilter("channel")).RegisterRoutes(api, "/campaigns")
}

// newRedis returns nil when no address is configured or the server does
// not answer; the rate limiter then lets everything through.
func newRedis(ctx context.Context, cfg config.Config, log *zap.Logger) redis.Scripter {
	if cfg.RedisAddr == "" || !cfg.RateLimit.Enabled {
		log.Info("rate limiting disabled")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, rate limiting disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		rdb.Close()
		return nil
	}
	return rdb
}

func startHousekeeping(ctx context.Context, url string, svc service.HousekeepingService, log *zap.Logger) {
	mqConsumer, err := rabbitmq.NewConsumer(url, rabbitmq.HousekeepingQueue, rabbitmq.HousekeepingBinding, log)
	if err != nil {
		log.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatal("failed to start consuming", zap.Error(err))
	}

	consumer.NewHousekeepingConsumer(svc, log).Start(ctx, msgs)
	go func() {
		<-ctx.Done()
		mqConsumer.Close()
	}()
}
