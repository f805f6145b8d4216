package testutils

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/luxiaoxia12138-alt/blog3.0/internal/database"
	"github.com/luxiaoxia12138-alt/blog3.0/internal/model"
)

// openTestDB opens the test database using environment variables,
// skipping the test when it is unavailable, and migrates all tables
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		host := getEnvOrDefault("POSTGRES_HOST", "localhost")
		port := getEnvOrDefault("POSTGRES_PORT", "5433")
		user := getEnvOrDefault("POSTGRES_USER", "test")
		password := getEnvOrDefault("POSTGRES_PASSWORD", "test")
		dbname := getEnvOrDefault("POSTGRES_DB", "blog_test")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // Suppress logs in tests
		TranslateError: true,
	})
	if err != nil {
		t.Skipf("Test database not available: %v", err)
	}

	// Initialize all tables
	if err := model.InitTable(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// SetupTestDB creates a test database connection using environment variables
// Defaults to test database configuration if env vars not set
// Automatically migrates all tables before returning the connection
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := openTestDB(t)

	// Return a transaction for automatic rollback
	tx := db.Begin()
	t.Cleanup(func() {
		tx.Rollback()
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return tx
}

// SetupTestDBConn returns a plain pooled connection instead of a transaction,
// for tests that touch the database from multiple goroutines.
// Callers must clean up the rows they create.
func SetupTestDBConn(t *testing.T) *gorm.DB {
	t.Helper()

	db := openTestDB(t)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return db
}

// SetupTestRedis creates a test Redis connection
// Returns nil if Redis is not available (tests can skip Redis-dependent features)
func SetupTestRedis(t *testing.T) *database.RedisClient {
	t.Helper()

	redisHost := getEnvOrDefault("REDIS_HOST", "localhost")
	redisPortStr := getEnvOrDefault("REDIS_PORT", "6380")
	redisPort, err := strconv.Atoi(redisPortStr)
	if err != nil || redisPort == 0 {
		redisPort = 6380
	}

	// Try to initialize Redis, but don't fail if it's not available
	redisClient, err := database.InitRedis(&database.RedisConfig{
		ServiceName: "blog-service-test",
		Host:        redisHost,
		Port:        redisPort,
		Password:    "",
		DB:          0,
	})
	if err != nil || redisClient == nil {
		return nil
	}

	// Cleanup: flush Redis on test cleanup
	t.Cleanup(func() {
		redisClient.FlushDB(context.Background())
	})
	return redisClient
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
