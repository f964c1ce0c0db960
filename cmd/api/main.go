package main

import (
	"log"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"spotsense/internal/config"
	"spotsense/internal/database"
	"spotsense/internal/events"
	"spotsense/internal/logger"
	"spotsense/internal/middleware"
	"spotsense/internal/modules/auth"
	"spotsense/internal/modules/availability"
	"spotsense/internal/modules/booking"
	"spotsense/internal/modules/facility"
	"spotsense/internal/modules/notify"
	"spotsense/internal/modules/payment"
	"spotsense/internal/modules/vehicle"
	jwtsvc "spotsense/internal/pkg/jwt"
	"spotsense/internal/redis"
	"spotsense/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog := logger.New(cfg.Environment)
	defer func() { _ = zlog.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	facilityRepo := repository.NewFacilityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	// optional slot lock
	var locker booking.SlotLocker
	if cfg.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		locker = redis.NewSlotLock(client)
		zlog.Info("slot locking enabled", zap.String("redis", cfg.RedisAddr))
	} else {
		zlog.Warn("REDIS_ADDR not set, slot locking disabled")
	}

	hub := notify.NewHub()
	defer hub.Close()

	dispatcher := events.NewDispatcher(zlog,
		events.NewFacilityStats(facilityRepo, bookingRepo),
		events.NewVehicleStats(vehicleRepo),
		notify.NewStatusPush(hub, bookingRepo),
	)
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() { _ = publisher.Close() }()
		dispatcher.Subscribe(publisher)
		zlog.Info("kafka publishing enabled",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic),
		)
	}

	availabilityService := availability.NewService(bookingRepo, facilityRepo)
	bookingService := booking.NewService(
		bookingRepo,
		facilityRepo,
		vehicleRepo,
		availabilityService,
		locker,
		dispatcher,
		zlog,
		cfg.QRBaseURL,
	)
	paymentService := payment.NewService(bookingRepo, dispatcher, cfg.QRBaseURL)
	facilityService := facility.NewService(facilityRepo)
	vehicleService := vehicle.NewService(vehicleRepo)
	authService := auth.NewService(userRepo, j)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS(), middleware.RequestLogger(zlog))

	v1 := r.Group("/api/v1")
	{
		// public
		auth.NewHandler(authService).RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			facility.NewHandler(facilityService).RegisterRoutes(protected, middleware.AdminOnly())
			availability.NewHandler(availabilityService).RegisterRoutes(protected)
			vehicle.NewHandler(vehicleService).RegisterRoutes(protected)
			booking.NewHandler(bookingService).RegisterRoutes(protected, middleware.StaffOnly())
			payment.NewHandler(paymentService).RegisterRoutes(protected)
			notify.NewHandler(hub, zlog).RegisterRoutes(protected)
		}
	}

	zlog.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
