package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sbilibin2017/auction-live/docs"
	"github.com/sbilibin2017/auction-live/internal/facades"
	"github.com/sbilibin2017/auction-live/internal/handlers"
	"github.com/sbilibin2017/auction-live/internal/jwt"
	"github.com/sbilibin2017/auction-live/internal/logger"
	"github.com/sbilibin2017/auction-live/internal/passwords"
	"github.com/sbilibin2017/auction-live/internal/repositories"
	"github.com/sbilibin2017/auction-live/internal/services"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

const (
	storageMongo    = "mongo"
	storagePostgres = "postgres"
	storageMemory   = "memory"
)

// config holds every setting read from the environment.
type config struct {
	AppHost  string
	AppPort  string
	LogLevel string

	StorageDriver string

	MongoURI string
	MongoDB  string

	PGHost         string
	PGPort         int
	PGUser         string
	PGPassword     string
	PGDB           string
	PGMaxOpenConns int
	PGMaxIdleConns int

	RedisHost         string // empty disables the catalog cache
	RedisPort         int
	RedisDB           int
	RedisPassword     string
	RedisPoolSize     int
	RedisMinIdleConns int
	CatalogCacheExp   int

	KafkaBrokers  []string // empty disables bid events
	KafkaBidTopic string

	MinioEndpoint  string // empty disables image storage
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	JWTSecretKey string
	JWTExpSecond int

	BcryptCost int
}

// @title auction-live API
// @version 1.0.0
// @description Auction backend: users, item catalog and bidding
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns
// the application, storage, cache, messaging, image storage and JWT configuration.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getInt := func(key, defaultValue string) (int, error) {
		v, err := strconv.Atoi(getEnv(key, defaultValue))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return v, nil
	}

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")

	cfg.StorageDriver = getEnv("STORAGE_DRIVER", storageMongo)
	switch cfg.StorageDriver {
	case storageMongo, storagePostgres, storageMemory:
	default:
		return config{}, fmt.Errorf("STORAGE_DRIVER: unknown driver %q", cfg.StorageDriver)
	}

	// MongoDB config
	cfg.MongoURI = getEnv("MONGO_URI", "mongodb://localhost:27017")
	cfg.MongoDB = getEnv("MONGO_DB", "auction")

	// PostgreSQL config
	cfg.PGHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.PGUser = getEnv("POSTGRES_USER", "user")
	cfg.PGPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.PGDB = getEnv("POSTGRES_DB", "auction")
	if cfg.PGPort, err = getInt("POSTGRES_PORT", "5432"); err != nil {
		return config{}, err
	}
	if cfg.PGMaxOpenConns, err = getInt("POSTGRES_MAX_OPEN_CONNS", "16"); err != nil {
		return config{}, err
	}
	if cfg.PGMaxIdleConns, err = getInt("POSTGRES_MAX_IDLE_CONNS", "8"); err != nil {
		return config{}, err
	}

	// Redis config
	cfg.RedisHost = getEnv("REDIS_HOST", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisPort, err = getInt("REDIS_PORT", "6379"); err != nil {
		return config{}, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", "0"); err != nil {
		return config{}, err
	}
	if cfg.RedisPoolSize, err = getInt("REDIS_POOL_SIZE", "10"); err != nil {
		return config{}, err
	}
	if cfg.RedisMinIdleConns, err = getInt("REDIS_MIN_IDLE_CONNS", "2"); err != nil {
		return config{}, err
	}
	if cfg.CatalogCacheExp, err = getInt("CATALOG_CACHE_EXP_SECOND", "300"); err != nil {
		return config{}, err
	}

	// Kafka config
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	cfg.KafkaBidTopic = getEnv("KAFKA_BID_TOPIC", "bids")

	// MinIO config
	cfg.MinioEndpoint = getEnv("MINIO_ENDPOINT", "")
	cfg.MinioAccessKey = getEnv("MINIO_ACCESS_KEY", "")
	cfg.MinioSecretKey = getEnv("MINIO_SECRET_KEY", "")
	cfg.MinioBucket = getEnv("MINIO_BUCKET", "item-images")
	if cfg.MinioUseSSL, err = strconv.ParseBool(getEnv("MINIO_USE_SSL", "false")); err != nil {
		return config{}, fmt.Errorf("MINIO_USE_SSL: %w", err)
	}

	// JWT config
	cfg.JWTSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if cfg.JWTExpSecond, err = getInt("JWT_EXP_SECOND", "86400"); err != nil {
		return config{}, err
	}

	if cfg.BcryptCost, err = getInt("BCRYPT_COST", "10"); err != nil {
		return config{}, err
	}

	return cfg, nil
}

// userStore is what the services need from a user backend.
type userStore interface {
	services.UserRepository
	services.BidderReader
}

// itemStore is what the services need from an item backend.
type itemStore interface {
	services.ItemRepository
	services.BidRepository
}

// openStorage connects the configured backend and returns its repositories
// together with a function releasing the connection.
func openStorage(ctx context.Context, cfg config) (userStore, itemStore, func(), error) {
	switch cfg.StorageDriver {
	case storageMongo:
		logger.Log.Infow("connecting to MongoDB", "db", cfg.MongoDB)
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("MongoDB connection error: %w", err)
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Log.Errorw("MongoDB disconnect error", "error", err)
			}
		}
		if err := client.Ping(ctx, nil); err != nil {
			closeFn()
			return nil, nil, nil, fmt.Errorf("MongoDB ping failed: %w", err)
		}

		db := client.Database(cfg.MongoDB)
		users := repositories.NewMongoUserRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		return users, repositories.NewMongoItemRepository(db), closeFn, nil

	case storagePostgres:
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			cfg.PGUser, cfg.PGPassword, cfg.PGHost, cfg.PGPort, cfg.PGDB)
		logger.Log.Infow("connecting to PostgreSQL", "host", cfg.PGHost, "port", cfg.PGPort, "db", cfg.PGDB)

		db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("PostgreSQL connection error: %w", err)
		}
		db.SetMaxOpenConns(cfg.PGMaxOpenConns)
		db.SetMaxIdleConns(cfg.PGMaxIdleConns)
		closeFn := func() { db.Close() }

		if err := repositories.Migrate(ctx, db); err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		return repositories.NewPostgresUserRepository(db), repositories.NewPostgresItemRepository(db), closeFn, nil

	default:
		logger.Log.Warn("using in-memory storage, data is lost on restart")
		db := repositories.NewMemoryDB()
		return repositories.NewMemoryUserRepository(db), repositories.NewMemoryItemRepository(db), func() {}, nil
	}
}

// run initializes the logger, storage, optional Redis, Kafka and MinIO
// collaborators, and the HTTP server. It handles graceful shutdown.
func run(ctx context.Context, cfg config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	users, items, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Log.Errorw("storage initialization failed", "driver", cfg.StorageDriver, "error", err)
		return err
	}
	defer closeStorage()

	tokens := jwt.New(
		jwt.WithSecretKey(cfg.JWTSecretKey),
		jwt.WithExpiration(time.Duration(cfg.JWTExpSecond)*time.Second),
	)
	hasher := passwords.NewBcryptHasher(cfg.BcryptCost)

	var catalogOpts []services.CatalogOpt

	// Connect to Redis
	if cfg.RedisHost != "" {
		rdb, err := repositories.NewRedisClient(ctx, &redis.Options{
			Addr:         fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			PoolSize:     cfg.RedisPoolSize,
			MinIdleConns: cfg.RedisMinIdleConns,
		})
		if err != nil {
			return fmt.Errorf("Redis connection error: %w", err)
		}
		defer rdb.Close()

		cache := repositories.NewCatalogCacheRepository(rdb, time.Duration(cfg.CatalogCacheExp)*time.Second)
		catalogOpts = append(catalogOpts, services.WithFacetCache(cache))
	}

	// Connect to MinIO
	if cfg.MinioEndpoint != "" {
		images, err := facades.NewImagesMinioFacade(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return err
		}
		if err := images.EnsureBucket(ctx); err != nil {
			return err
		}
		catalogOpts = append(catalogOpts, services.WithImageStorage(images, tokens))
	}

	// Kafka writer
	var publisher services.BidPublisher
	if len(cfg.KafkaBrokers) > 0 {
		events := facades.NewBidEventsKafkaFacade(facades.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaBidTopic))
		defer events.Close()
		publisher = events
	}

	// Initialize services
	userService := services.NewUserService(users, tokens, hasher)
	catalogService := services.NewCatalogService(items, catalogOpts...)
	biddingService := services.NewBiddingService(items, users, tokens, publisher)

	docs.SwaggerInfo.Host = fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)
	router := handlers.NewRouter(userService, catalogService, biddingService, tokens,
		fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort))

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
