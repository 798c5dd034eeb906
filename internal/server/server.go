package server

import (
	"errors"
	"log"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/localnerve/musicdb/internal/config"
	"github.com/localnerve/musicdb/internal/handlers"
	"github.com/localnerve/musicdb/internal/middleware"
	"github.com/localnerve/musicdb/internal/services"
	"github.com/localnerve/musicdb/internal/types"
	"github.com/localnerve/musicdb/internal/utils"

	_ "github.com/localnerve/musicdb/docs/api" // Swagger docs
)

// Options controls the optional outer surfaces of the app
type Options struct {
	// Metrics registers the Prometheus middleware and /metrics
	Metrics bool
	// RequestLog enables the per-request access log
	RequestLog bool
}

// New builds the Fiber app with every route bound to store
func New(cfg *config.Config, store *services.Store, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
		// cmd/server logs its own startup line
		DisableStartupMessage: true,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	if opts.RequestLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(compress.New())

	// Prometheus metrics
	if opts.Metrics {
		prometheus := fiberprometheus.New("musicdb")
		prometheus.RegisterAt(app, "/metrics")
		app.Use(prometheus.Middleware)
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		result := services.HealthCheck(c.UserContext(), cfg, store.DB(), "")
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	app.Use(middleware.VersionMiddleware())
	Register(app, store)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	return app
}

// Register binds the CRUD routes to router
func Register(router fiber.Router, store *services.Store) {
	userHandler := &handlers.UserHandler{Store: store}
	playlistHandler := &handlers.PlaylistHandler{Store: store}
	albumHandler := &handlers.AlbumHandler{Store: store}
	songHandler := &handlers.SongHandler{Store: store}

	// Users
	router.Get("/users", userHandler.ListUsers)
	router.Post("/user", userHandler.CreateUser)
	router.Get("/user/:user_id", userHandler.GetUser)
	router.Patch("/user/:user_id", userHandler.UpdateUser)
	router.Delete("/user/:user_id", userHandler.DeleteUser)

	// Playlists, scoped to their owner
	router.Get("/user/:user_id/playlists", playlistHandler.ListPlaylists)
	router.Post("/user/:user_id/playlist", playlistHandler.CreatePlaylist)
	router.Get("/user/:user_id/playlist/:playlist_id", playlistHandler.GetPlaylist)
	router.Patch("/user/:user_id/playlist/:playlist_id", playlistHandler.UpdatePlaylist)
	router.Delete("/user/:user_id/playlist/:playlist_id", playlistHandler.DeletePlaylist)
	router.Post("/user/:user_id/playlist/:playlist_id/song/:song_id", playlistHandler.AddSong)
	router.Delete("/user/:user_id/playlist/:playlist_id/song/:song_id", playlistHandler.RemoveSong)

	// Albums
	router.Post("/user/:user_id/album", albumHandler.CreateAlbum)
	router.Get("/albums", albumHandler.ListAlbums)
	router.Get("/album/:album_id", albumHandler.GetAlbum)
	router.Patch("/album/:album_id", albumHandler.UpdateAlbum)
	router.Delete("/album/:album_id", albumHandler.DeleteAlbum)
	router.Get("/album/:album_id/songs", albumHandler.ListAlbumSongs)
	router.Post("/album/:album_id/song", albumHandler.CreateAlbumSong)

	// Songs
	router.Get("/songs", songHandler.ListSongs)
	router.Post("/song", songHandler.CreateSong)
	router.Get("/song/:song_id", songHandler.GetSong)
	router.Patch("/song/:song_id", songHandler.UpdateSong)
	router.Delete("/song/:song_id", songHandler.DeleteSong)
}

// ErrorHandler renders every error returned by a handler in the common envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	// Check if it's a Fiber error
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
		errorType = "http"
	}

	var customErr *types.CustomError
	if errors.As(err, &customErr) {
		code = customErr.Code
		message = customErr.Message
		errorType = customErr.Type
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Method(), c.OriginalURL(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
