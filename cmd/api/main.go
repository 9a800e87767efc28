package main

import (
	"expvar"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"panmart/internal/cache"
	"panmart/internal/catalog"
	"panmart/internal/content"
	"panmart/internal/db"
	"panmart/internal/orders"
	"panmart/internal/ratelimiter"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment
// variables. Malformed values degrade to the defaults with a warning.
func LoadRateLimiterConfig(logger *zap.SugaredLogger) ratelimiter.Config {
	defaultRequests := 200
	defaultEnabled := false

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			logger.Warnw("invalid RATELIMITER_REQUESTS_COUNT, using default",
				"value", val, "default", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			logger.Warnw("invalid RATE_LIMITER_ENABLED, using default",
				"value", val, "default", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	level := zapcore.InfoLevel
	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	return zap.New(core).Sugar(), nil
}

var version = "1.0.0"

func main() {
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Fatalf("Error loading .env file: %v", err)
	}

	maxConnsStr := os.Getenv("DB_MAX_CONNS")
	maxConns, err := strconv.Atoi(maxConnsStr)
	if err != nil {
		logger.Fatalf("Invalid value for DB_MAX_CONNS: %v", err)
	}

	cacheTTL := 5 * time.Minute
	if val := os.Getenv("CACHE_TTL"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			logger.Fatalf("Invalid value for CACHE_TTL: %v", err)
		}
		cacheTTL = parsed
	}
	cacheEnabled, _ := strconv.ParseBool(os.Getenv("CACHE_ENABLED"))

	cfg := config{
		addr:        os.Getenv("ADDR"),
		env:         os.Getenv("ENV"),
		frontendURL: os.Getenv("FRONTEND_URL"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(maxConns),
			maxIdleTime: os.Getenv("DB_MAX_IDLE_TIME"),
		},
		redis: redisConfig{
			addr:    os.Getenv("REDIS_ADDR"),
			enabled: cacheEnabled,
			ttl:     cacheTTL,
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
		},
		orderRefSalt: os.Getenv("ORDER_REF_SALT"),
		rateLimiter:  LoadRateLimiterConfig(logger),
	}

	// Database
	pool, err := db.New(
		cfg.db.addr,
		cfg.db.maxConns,
		cfg.db.maxIdleTime,
	)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	catalogStore := catalog.NewRepository(pool)

	// Browse cache, optional. The storefront works without redis; it just
	// hits postgres on every request.
	var browseCache *cache.Cache
	if cfg.redis.enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.redis.addr})
		browseCache = cache.New(rdb, "panmart", cfg.redis.ttl)
		logger.Infow("redis browse cache enabled", "addr", cfg.redis.addr, "ttl", cfg.redis.ttl)
	}

	resolver := catalog.NewResolver(catalogStore, catalog.DefaultKnownCategories(), logger)
	filter := catalog.NewFilter(catalogStore, logger)
	browse := catalog.NewService(resolver, filter, browseCache, logger)

	// Cloudinary
	cloudinaryURL := os.Getenv("CLOUDINARY_URL")
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		logger.Fatal(err)
	}

	// Order reference codes
	refCoder, err := orders.NewRefCoder(cfg.orderRefSalt)
	if err != nil {
		logger.Fatal(err)
	}

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	app := &application{
		config:      cfg,
		logger:      logger,
		catalog:     catalogStore,
		browse:      browse,
		cache:       browseCache,
		orders:      orders.NewRepository(pool),
		orderRefs:   refCoder,
		content:     content.NewRepository(pool),
		cld:         cld,
		rateLimiter: rateLimiter,
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]any{
			"total_conns":    s.TotalConns(),
			"acquired_conns": s.AcquiredConns(),
			"idle_conns":     s.IdleConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	if browseCache != nil {
		expvar.Publish("browse_cache", expvar.Func(func() any {
			return browseCache.Snapshot()
		}))
	}

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
