package services

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/localnerve/musicdb/internal/config"
	"github.com/localnerve/musicdb/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Server       string            `json:"server,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck checks database connectivity. When serverURL is not empty the
// HTTP listener is pinged as well.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, serverURL string) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	fail := func(message string) {
		result.Status = "unhealthy"
		if result.ErrorMessage == "" {
			result.ErrorMessage = message
		} else {
			result.ErrorMessage += "; " + message
		}
		log.Printf("Health check failed - %s", message)
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		fail(fmt.Sprintf("Database connection error: %v", err))
	} else {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			fail(fmt.Sprintf("Database ping failed: %v", err))
		} else {
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBDatabase
		}
	}

	if serverURL != "" {
		if err := utils.PingService(serverURL, 1500*time.Millisecond); err != nil {
			result.Server = "unreachable"
			result.Details["server_error"] = err.Error()
			fail(fmt.Sprintf("Server ping failed: %v", err))
		} else {
			result.Server = "ok"
			result.Details["server_url"] = serverURL
		}
	}

	if result.Status == "healthy" {
		log.Println("Health check passed - all systems operational")
	}

	return result
}

// LocalServerURL is the address the gateway listens on inside its own host
func LocalServerURL(cfg *config.Config) string {
	return "http://" + net.JoinHostPort("127.0.0.1", cfg.Port)
}
