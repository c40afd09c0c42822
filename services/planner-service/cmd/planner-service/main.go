package main

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/planwerk/interviewplanner/libs/auth"
	"github.com/planwerk/interviewplanner/libs/config"
	"github.com/planwerk/interviewplanner/libs/db"
	"github.com/planwerk/interviewplanner/libs/httpx"
	"github.com/planwerk/interviewplanner/libs/kafkax"
	otelx "github.com/planwerk/interviewplanner/libs/otel"
	"github.com/planwerk/interviewplanner/libs/runtime"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/directory"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/handlers"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/outbox"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/planner"
	"github.com/planwerk/interviewplanner/services/planner-service/internal/storage"
)

func main() {
	service := config.String("SERVICE_NAME", "planner-service")
	port, err := config.Port("PORT", "8081")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	jwtSecret, err := config.RequiredString("JWT_SECRET")
	if err != nil {
		panic(err)
	}

	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	users, err := directory.NewUserDirectory(logger, storage.NewUserRepository(pool), config.String("IDENTITY_GRPC_ADDR", ""))
	if err != nil {
		logger.Error("user directory init failed", "err", err)
		users = storage.NewUserRepository(pool)
	}
	outboxRepo := outbox.NewRepository(pool)

	svc := planner.New(planner.Deps{
		Users:            users,
		InterviewerSlots: storage.NewInterviewerSlotRepository(pool),
		CandidateSlots:   storage.NewCandidateSlotRepository(pool),
		Bookings:         storage.NewBookingRepository(pool),
		Limits:           storage.NewBookingLimitRepository(pool),
		Events:           outboxRepo,
		Tx:               storage.NewTxManager(pool),
	})

	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	limitPerMinute := 120
	if v, err := strconv.Atoi(config.String("RATE_LIMIT_PER_MINUTE", "120")); err == nil && v > 0 {
		limitPerMinute = v
	}
	var rateLimitMW httpx.Middleware
	if addr := strings.TrimSpace(config.String("REDIS_ADDR", "")); addr != "" {
		redisDB := 0
		if v, err := strconv.Atoi(config.String("REDIS_DB", "0")); err == nil && v >= 0 {
			redisDB = v
		}
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       redisDB,
		})
		defer func() { _ = rdb.Close() }()

		rl := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute, config.String("RATE_LIMIT_PREFIX", "rl"))
		rateLimitMW = rl.Middleware(logger, config.String("RATE_LIMIT_FAIL_OPEN", "true") == "true")
		logger.Info("rate limiting enabled (redis)", "per_minute", limitPerMinute, "redis_addr", addr)
	} else {
		rl := httpx.NewRateLimiter(limitPerMinute, time.Minute)
		rateLimitMW = rl.Middleware()
		logger.Info("rate limiting enabled (in-memory)", "per_minute", limitPerMinute)
	}

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	)

	verify := handlers.HS256Verifier(jwtSecret)
	if jwksURL := strings.TrimSpace(config.String("JWKS_URL", "")); jwksURL != "" {
		jwksTTL := 300
		if v, err := strconv.Atoi(config.String("JWKS_CACHE_SECONDS", "300")); err == nil && v > 0 {
			jwksTTL = v
		}
		verify = handlers.JWKSVerifier(auth.NewJWKSClient(jwksURL, time.Duration(jwksTTL)*time.Second), jwtSecret)
		logger.Info("jwks verification enabled", "url", jwksURL)
	}

	api := http.NewServeMux()
	handlers.New(svc, logger).Register(api)
	mux.Handle("/api/v1/", httpx.Chain(api, handlers.Authenticate(verify)))

	corsMaxAge := 600
	if v, err := strconv.Atoi(config.String("CORS_MAX_AGE_SECONDS", "600")); err == nil && v > 0 {
		corsMaxAge = v
	}
	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins:   parseList(config.String("CORS_ALLOWED_ORIGINS", "")),
			AllowedMethods:   parseList(config.String("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS")),
			AllowedHeaders:   parseList(config.String("CORS_ALLOWED_HEADERS", "Authorization,Content-Type,X-Request-Id")),
			AllowCredentials: config.String("CORS_ALLOW_CREDENTIALS", "false") == "true",
			MaxAge:           time.Duration(corsMaxAge) * time.Second,
		}),
		httpx.WithBodyLimit(1<<20),
		rateLimitMW,
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "planner")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}

func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
