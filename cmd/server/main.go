package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/localnerve/musicdb/internal/config"
	"github.com/localnerve/musicdb/internal/database"
	"github.com/localnerve/musicdb/internal/server"
	"github.com/localnerve/musicdb/internal/services"
)

// @title MusicDB API
// @version 1.0.0
// @description Go Fiber CRUD service for users, playlists, albums and songs
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/musicdb
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Create the schema if absent
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	store := services.NewStore(db, services.StoreOptions{
		UserEmailPrecheck: cfg.UserEmailPrecheck,
	})
	if !cfg.UserEmailPrecheck {
		log.Printf("User email precheck disabled, duplicate emails fail on the unique index")
	}

	app := server.New(cfg, store, server.Options{
		Metrics:    true,
		RequestLog: true,
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}
