package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/musicdb/internal/services"
	"github.com/localnerve/musicdb/internal/utils"
)

// SongHandler handles song routes
type SongHandler struct {
	Store *services.Store
}

// ListSongs handles GET /songs
// @Summary List songs
// @Tags Songs
// @Produce json
// @Param limit query int false "Page size (default 100, max 100)"
// @Param offset query int false "Rows to skip (default 0)"
// @Success 200 {object} map[string]interface{}
// @Router /songs [get]
func (h *SongHandler) ListSongs(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	songs, total, err := h.Store.ListSongs(c.UserContext(), page)
	if err != nil {
		return err
	}

	return utils.ListResponse(c, "songs", songs, total)
}

// GetSong handles GET /song/:song_id
// @Summary Get a song
// @Tags Songs
// @Produce json
// @Param song_id path int true "Song ID"
// @Success 200 {object} models.Song
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /song/{song_id} [get]
func (h *SongHandler) GetSong(c *fiber.Ctx) error {
	songID, err := parseID(c, "song_id")
	if err != nil {
		return err
	}

	song, err := h.Store.GetSong(c.UserContext(), songID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, song, fiber.StatusOK)
}

// CreateSong handles POST /song
// @Summary Create a song outside any album
// @Tags Songs
// @Accept json
// @Produce json
// @Param body body services.SongCreate true "Song"
// @Success 201 {object} models.Song
// @Failure 422 {object} utils.ErrorResponseStruct
// @Router /song [post]
func (h *SongHandler) CreateSong(c *fiber.Ctx) error {
	var body services.SongCreate
	if err := parseBody(c, &body); err != nil {
		return err
	}
	if err := requireString(body.Name, "name"); err != nil {
		return err
	}

	song, err := h.Store.CreateSong(c.UserContext(), body)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, song, fiber.StatusCreated)
}

// UpdateSong handles PATCH /song/:song_id
// @Summary Update a song
// @Tags Songs
// @Accept json
// @Produce json
// @Param song_id path int true "Song ID"
// @Param body body services.SongUpdate true "Fields to change"
// @Success 200 {object} models.Song
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /song/{song_id} [patch]
func (h *SongHandler) UpdateSong(c *fiber.Ctx) error {
	songID, err := parseID(c, "song_id")
	if err != nil {
		return err
	}

	var body services.SongUpdate
	if err := parseBody(c, &body); err != nil {
		return err
	}

	song, err := h.Store.UpdateSong(c.UserContext(), songID, body)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, song, fiber.StatusOK)
}

// DeleteSong handles DELETE /song/:song_id
// @Summary Delete a song
// @Tags Songs
// @Produce json
// @Param song_id path int true "Song ID"
// @Success 200 {object} utils.StatusResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /song/{song_id} [delete]
func (h *SongHandler) DeleteSong(c *fiber.Ctx) error {
	songID, err := parseID(c, "song_id")
	if err != nil {
		return err
	}

	if err := h.Store.DeleteSong(c.UserContext(), songID); err != nil {
		return err
	}

	return utils.StatusResponse(c)
}
