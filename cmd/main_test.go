package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

// resetEnv clears env vars used by parseConfig and restores them after the test
func resetEnv(t *testing.T) {
	saved := os.Environ()
	os.Clearenv()
	t.Cleanup(func() {
		os.Clearenv()
		for _, kv := range saved {
			if k, v, ok := strings.Cut(kv, "="); ok {
				os.Setenv(k, v)
			}
		}
	})
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	assert.Equal(t, "config.env", parseFlags())
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	assert.Equal(t, "myconfig.env", parseFlags())
}

func TestPrintBuildInfo_Output(t *testing.T) {
	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2025-09-26"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	output := buf.String()
	assert.Contains(t, output, "Build version: v1.0.0")
	assert.Contains(t, output, "Build commit: abcd1234")
	assert.Contains(t, output, "Build date: 2025-09-26")
}

func TestParseConfig_Defaults(t *testing.T) {
	resetEnv(t)

	cfg, err := parseConfig("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.AppHost)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, storageMongo, cfg.StorageDriver)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "auction", cfg.MongoDB)

	assert.Equal(t, "localhost", cfg.PGHost)
	assert.Equal(t, 5432, cfg.PGPort)
	assert.Equal(t, "user", cfg.PGUser)
	assert.Equal(t, "password", cfg.PGPassword)
	assert.Equal(t, "auction", cfg.PGDB)
	assert.Equal(t, 16, cfg.PGMaxOpenConns)
	assert.Equal(t, 8, cfg.PGMaxIdleConns)

	assert.Empty(t, cfg.RedisHost)
	assert.Equal(t, 6379, cfg.RedisPort)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 10, cfg.RedisPoolSize)
	assert.Equal(t, 2, cfg.RedisMinIdleConns)
	assert.Equal(t, 300, cfg.CatalogCacheExp)

	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "bids", cfg.KafkaBidTopic)

	assert.Empty(t, cfg.MinioEndpoint)
	assert.Equal(t, "item-images", cfg.MinioBucket)
	assert.False(t, cfg.MinioUseSSL)

	assert.Equal(t, "my_super_secret_key", cfg.JWTSecretKey)
	assert.Equal(t, 86400, cfg.JWTExpSecond)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestParseConfig_CustomEnv(t *testing.T) {
	resetEnv(t)
	os.Setenv("APP_HOST", "127.0.0.1")
	os.Setenv("APP_PORT", "9090")
	os.Setenv("APP_LOG_LEVEL", "debug")
	os.Setenv("STORAGE_DRIVER", "postgres")

	os.Setenv("POSTGRES_HOST", "pg.example.com")
	os.Setenv("POSTGRES_PORT", "5433")
	os.Setenv("POSTGRES_USER", "admin")
	os.Setenv("POSTGRES_PASSWORD", "secret")
	os.Setenv("POSTGRES_DB", "mydb")
	os.Setenv("POSTGRES_MAX_OPEN_CONNS", "20")
	os.Setenv("POSTGRES_MAX_IDLE_CONNS", "10")

	os.Setenv("REDIS_HOST", "redis.example.com")
	os.Setenv("REDIS_PORT", "6380")
	os.Setenv("REDIS_DB", "2")
	os.Setenv("REDIS_PASSWORD", "redispass")
	os.Setenv("REDIS_POOL_SIZE", "15")
	os.Setenv("REDIS_MIN_IDLE_CONNS", "5")
	os.Setenv("CATALOG_CACHE_EXP_SECOND", "120")

	os.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	os.Setenv("KAFKA_BID_TOPIC", "auction.bids")

	os.Setenv("MINIO_ENDPOINT", "minio:9000")
	os.Setenv("MINIO_ACCESS_KEY", "access")
	os.Setenv("MINIO_SECRET_KEY", "secret")
	os.Setenv("MINIO_BUCKET", "pictures")
	os.Setenv("MINIO_USE_SSL", "true")

	os.Setenv("JWT_SECRET_KEY", "supersecret")
	os.Setenv("JWT_EXP_SECOND", "300")
	os.Setenv("BCRYPT_COST", "4")

	cfg, err := parseConfig("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.AppHost)
	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, storagePostgres, cfg.StorageDriver)

	assert.Equal(t, "pg.example.com", cfg.PGHost)
	assert.Equal(t, 5433, cfg.PGPort)
	assert.Equal(t, "admin", cfg.PGUser)
	assert.Equal(t, "secret", cfg.PGPassword)
	assert.Equal(t, "mydb", cfg.PGDB)
	assert.Equal(t, 20, cfg.PGMaxOpenConns)
	assert.Equal(t, 10, cfg.PGMaxIdleConns)

	assert.Equal(t, "redis.example.com", cfg.RedisHost)
	assert.Equal(t, 6380, cfg.RedisPort)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "redispass", cfg.RedisPassword)
	assert.Equal(t, 15, cfg.RedisPoolSize)
	assert.Equal(t, 5, cfg.RedisMinIdleConns)
	assert.Equal(t, 120, cfg.CatalogCacheExp)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "auction.bids", cfg.KafkaBidTopic)

	assert.Equal(t, "minio:9000", cfg.MinioEndpoint)
	assert.Equal(t, "access", cfg.MinioAccessKey)
	assert.Equal(t, "secret", cfg.MinioSecretKey)
	assert.Equal(t, "pictures", cfg.MinioBucket)
	assert.True(t, cfg.MinioUseSSL)

	assert.Equal(t, "supersecret", cfg.JWTSecretKey)
	assert.Equal(t, 300, cfg.JWTExpSecond)
	assert.Equal(t, 4, cfg.BcryptCost)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown storage driver", "STORAGE_DRIVER", "cassandra"},
		{"bad postgres port", "POSTGRES_PORT", "five"},
		{"bad redis db", "REDIS_DB", "zero"},
		{"bad cache expiration", "CATALOG_CACHE_EXP_SECOND", "soon"},
		{"bad ssl flag", "MINIO_USE_SSL", "maybe"},
		{"bad jwt expiration", "JWT_EXP_SECOND", "1d"},
		{"bad bcrypt cost", "BCRYPT_COST", "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetEnv(t)
			os.Setenv(tt.key, tt.val)

			_, err := parseConfig("nonexistent.env")
			assert.Error(t, err)
		})
	}
}

func TestParseConfig_FromFile(t *testing.T) {
	resetEnv(t)

	path := t.TempDir() + "/config.env"
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT=7070\nSTORAGE_DRIVER=memory\n"), 0o600))

	cfg, err := parseConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.AppPort)
	assert.Equal(t, storageMemory, cfg.StorageDriver)
}

// runAndProbe starts run in the background, waits for /healthz to answer
// and then cancels the context, expecting a graceful stop.
func runAndProbe(t *testing.T, cfg config) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx, cfg) }()

	url := fmt.Sprintf("http://%s:%s/healthz", cfg.AppHost, cfg.AppPort)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 100*time.Millisecond)

	cancel()

	select {
	case <-time.After(15 * time.Second):
		t.Fatal("run did not stop")
	case err := <-errCh:
		assert.NoError(t, err)
	}
}

func testConfig(port string) config {
	return config{
		AppHost:       "127.0.0.1",
		AppPort:       port,
		LogLevel:      "debug",
		StorageDriver: storageMemory,
		JWTSecretKey:  "testsecret",
		JWTExpSecond:  60,
		BcryptCost:    4,
	}
}

func TestRun_Memory(t *testing.T) {
	runAndProbe(t, testConfig("8086"))
}

func TestRun_BadLogLevel(t *testing.T) {
	cfg := testConfig("8087")
	cfg.LogLevel = "loud"

	assert.Error(t, run(context.Background(), cfg))
}

func TestRun_MongoAndRedis(t *testing.T) {
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer mongoC.Terminate(ctx)

	mongoHost, _ := mongoC.Host(ctx)
	mongoPort, _ := mongoC.MappedPort(ctx, "27017")

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer redisC.Terminate(ctx)

	redisHost, _ := redisC.Host(ctx)
	redisPort, _ := redisC.MappedPort(ctx, "6379")

	cfg := testConfig("8088")
	cfg.StorageDriver = storageMongo
	cfg.MongoURI = fmt.Sprintf("mongodb://%s:%d", mongoHost, mongoPort.Int())
	cfg.MongoDB = "auction_test"
	cfg.RedisHost = redisHost
	cfg.RedisPort = redisPort.Int()
	cfg.RedisPoolSize = 10
	cfg.RedisMinIdleConns = 2
	cfg.CatalogCacheExp = 60

	runAndProbe(t, cfg)
}

func TestRun_PostgresUnreachable(t *testing.T) {
	cfg := testConfig("8089")
	cfg.StorageDriver = storagePostgres
	cfg.PGHost = "127.0.0.1"
	cfg.PGPort = 1
	cfg.PGUser = "user"
	cfg.PGPassword = "password"
	cfg.PGDB = "auction"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.Error(t, run(ctx, cfg))
}
