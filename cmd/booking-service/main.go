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

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"trip-booking/internal/auth"
	"trip-booking/internal/booking"
	"trip-booking/internal/booking/booking_api"
	bookingdb "trip-booking/internal/booking/db"
	"trip-booking/internal/booking/voucher"
	"trip-booking/internal/capacity"
	capacitydb "trip-booking/internal/capacity/db"
	"trip-booking/internal/config"
	"trip-booking/internal/database/migrations"
	"trip-booking/internal/kafka"
	"trip-booking/internal/leads"
	leaddb "trip-booking/internal/leads/db"
	"trip-booking/internal/leads/lead_api"
	"trip-booking/internal/leads/ratelimit"
	"trip-booking/internal/logger"
	"trip-booking/internal/notify"
	"trip-booking/internal/trips"
	tripdb "trip-booking/internal/trips/db"
	"trip-booking/internal/trips/trip_api"
)

func connectPostgres(cfg config.DatabaseConfig, log *logger.Logger) *bun.DB {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	connector := pgdriver.NewConnector(pgdriver.WithDSN(dsn))
	sqldb := sql.OpenDB(connector)
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	maxRetries := 5
	var err error
	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		err = sqldb.Ping()
		if err == nil {
			break
		}
		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	log.Info("DATABASE", "✅ PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Addr))
	return client
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Booking Service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	bunDB := connectPostgres(cfg.Database, log)
	defer bunDB.Close()

	redisClient := connectRedis(ctx, cfg.Redis, log)
	defer redisClient.Close()

	runner := migrations.NewRunner(bunDB, migrations.Options{
		MigrationsDir: "./migrations",
		SeedData:      os.Getenv("SEED_DATA") == "true",
	}, log)
	if err := runner.Run(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migration failed: %v", err))
	}

	var dispatcher booking.Publisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		log.Info("KAFKA", "Kafka producer initialized successfully")

		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, []string{notify.TopicNotifications}); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}
		dispatcher = notify.NewDispatcher(producer, log)
	} else {
		log.Warn("KAFKA", "Kafka disabled, notifications will not be delivered")
		dispatcher = &notify.Discard{Logger: log}
	}

	ledger := &capacity.Ledger{
		Store:  &capacitydb.DB{Bun: bunDB},
		Logger: log,
	}

	tripService := trips.NewTripService(&tripdb.DB{Bun: bunDB})
	bookingService := booking.NewBookingService(&bookingdb.DB{Bun: bunDB}, ledger, dispatcher, log)

	limiter := &ratelimit.Limiter{
		Client: redisClient,
		Limit:  cfg.Leads.RateLimit,
		Window: cfg.Leads.RateWindow,
	}
	leadService := leads.NewLeadService(
		&leaddb.DB{Bun: bunDB},
		&tripdb.DB{Bun: bunDB},
		limiter,
		dispatcher,
		leads.NewClassifier(cfg.Leads.SpamKeywords),
		log,
	)

	voucherGen := voucher.NewGenerator(os.Getenv("VOUCHER_SECRET"))

	bookingHandler := booking_api.NewHandler(bookingService, voucherGen, log)
	leadHandler := lead_api.NewHandler(leadService, log)
	tripHandler := trip_api.NewHandler(tripService, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes ---
	r.Route("/api/trips", func(r chi.Router) {
		r.Get("/{tripId}", tripHandler.GetTrip)
		r.Get("/{tripId}/dates", tripHandler.GetTripDates)
	})
	r.Post("/api/leads", leadHandler.SubmitLead)
	log.Info("ROUTER", "Public trip and lead endpoints registered")

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware())
		log.Info("AUTH", "JWT middleware applied to protected API routes")

		r.Route("/api/bookings", func(r chi.Router) {
			r.Post("/", bookingHandler.PlaceBooking)
			r.Get("/", bookingHandler.GetUserBookings)
			r.Get("/{bookingId}", bookingHandler.GetBooking)
			r.Post("/{bookingId}/confirm", bookingHandler.ConfirmBooking)
			r.Post("/{bookingId}/cancel", bookingHandler.CancelBooking)
			r.Post("/{bookingId}/complete", bookingHandler.CompleteBooking)
			r.Post("/{bookingId}/payments", bookingHandler.RecordPayment)
			r.Get("/{bookingId}/payments", bookingHandler.GetPayments)
			r.Get("/{bookingId}/voucher", bookingHandler.GetVoucher)
		})
		log.Info("ROUTER", "Booking routes registered under /api/bookings")

		r.Get("/api/trips/{tripId}/leads", leadHandler.GetTripLeads)
		log.Info("ROUTER", "Lead listing registered under /api/trips/{tripId}/leads")
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("🚀 Booking Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("APP", "Shutdown signal received. Cleaning up...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal("HTTP", fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	log.Info("APP", "✅ Server exited gracefully")
}
