package testutil

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/musicdb/internal/config"
	"github.com/localnerve/musicdb/internal/database"
	"github.com/localnerve/musicdb/internal/server"
	"github.com/localnerve/musicdb/internal/services"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB creates an in-memory SQLite database with the schema applied.
// The pool is held to one connection so every query sees the same database.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(database.SQLite(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = database.Close(db)
	})

	return db
}

// TestConfig is the configuration the in-memory test app reports
func TestConfig() *config.Config {
	return &config.Config{
		Port:              "3000",
		DBType:            "sqlite",
		DBDatabase:        ":memory:",
		DBConnectionLimit: 1,
		DBLogLevel:        "silent",
		UserEmailPrecheck: true,
	}
}

// NewTestStore creates a Store over a fresh in-memory database
func NewTestStore(t testing.TB, opts services.StoreOptions) *services.Store {
	t.Helper()
	return services.NewStore(NewTestDB(t), opts)
}

// NewTestApp creates the full app over a fresh in-memory database,
// without metrics or request logging
func NewTestApp(t testing.TB, opts services.StoreOptions) (*fiber.App, *services.Store) {
	t.Helper()
	cfg := TestConfig()
	cfg.UserEmailPrecheck = opts.UserEmailPrecheck
	store := NewTestStore(t, opts)
	return server.New(cfg, store, server.Options{}), store
}
