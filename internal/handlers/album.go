package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/musicdb/internal/services"
	"github.com/localnerve/musicdb/internal/utils"
)

// AlbumHandler handles album routes
type AlbumHandler struct {
	Store *services.Store
}

// ListAlbums handles GET /albums
// @Summary List albums
// @Tags Albums
// @Produce json
// @Param limit query int false "Page size (default 100, max 100)"
// @Param offset query int false "Rows to skip (default 0)"
// @Success 200 {object} map[string]interface{}
// @Router /albums [get]
func (h *AlbumHandler) ListAlbums(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	albums, total, err := h.Store.ListAlbums(c.UserContext(), page)
	if err != nil {
		return err
	}

	return utils.ListResponse(c, "albums", albums, total)
}

// GetAlbum handles GET /album/:album_id
// @Summary Get an album with its songs
// @Tags Albums
// @Produce json
// @Param album_id path int true "Album ID"
// @Success 200 {object} models.AlbumDetail
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /album/{album_id} [get]
func (h *AlbumHandler) GetAlbum(c *fiber.Ctx) error {
	albumID, err := parseID(c, "album_id")
	if err != nil {
		return err
	}

	album, err := h.Store.GetAlbum(c.UserContext(), albumID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, album, fiber.StatusOK)
}

// ListAlbumSongs handles GET /album/:album_id/songs
// @Summary List the songs of an album
// @Tags Albums
// @Produce json
// @Param album_id path int true "Album ID"
// @Param limit query int false "Page size (default 100, max 100)"
// @Param offset query int false "Rows to skip (default 0)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /album/{album_id}/songs [get]
func (h *AlbumHandler) ListAlbumSongs(c *fiber.Ctx) error {
	albumID, err := parseID(c, "album_id")
	if err != nil {
		return err
	}
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	songs, total, err := h.Store.ListAlbumSongs(c.UserContext(), albumID, page)
	if err != nil {
		return err
	}

	return utils.ListResponse(c, "songs", songs, total)
}

// CreateAlbum handles POST /user/:user_id/album
// @Summary Create an album owned by a user
// @Tags Albums
// @Accept json
// @Produce json
// @Param user_id path int true "Owner ID"
// @Param body body services.AlbumCreate true "Album"
// @Success 201 {object} models.Album
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user/{user_id}/album [post]
func (h *AlbumHandler) CreateAlbum(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return err
	}

	var body services.AlbumCreate
	if err := parseBody(c, &body); err != nil {
		return err
	}
	if err := requireString(body.Name, "name"); err != nil {
		return err
	}

	album, err := h.Store.CreateAlbum(c.UserContext(), userID, body)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, album, fiber.StatusCreated)
}

// CreateAlbumSong handles POST /album/:album_id/song
// @Summary Create a song in an album
// @Tags Albums
// @Accept json
// @Produce json
// @Param album_id path int true "Album ID"
// @Param body body services.SongCreate true "Song"
// @Success 201 {object} models.Song
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /album/{album_id}/song [post]
func (h *AlbumHandler) CreateAlbumSong(c *fiber.Ctx) error {
	albumID, err := parseID(c, "album_id")
	if err != nil {
		return err
	}

	var body services.SongCreate
	if err := parseBody(c, &body); err != nil {
		return err
	}
	if err := requireString(body.Name, "name"); err != nil {
		return err
	}

	song, err := h.Store.CreateAlbumSong(c.UserContext(), albumID, body)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, song, fiber.StatusCreated)
}

// UpdateAlbum handles PATCH /album/:album_id
// @Summary Update an album
// @Tags Albums
// @Accept json
// @Produce json
// @Param album_id path int true "Album ID"
// @Param body body services.AlbumUpdate true "Fields to change"
// @Success 200 {object} models.Album
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /album/{album_id} [patch]
func (h *AlbumHandler) UpdateAlbum(c *fiber.Ctx) error {
	albumID, err := parseID(c, "album_id")
	if err != nil {
		return err
	}

	var body services.AlbumUpdate
	if err := parseBody(c, &body); err != nil {
		return err
	}

	album, err := h.Store.UpdateAlbum(c.UserContext(), albumID, body)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, album, fiber.StatusOK)
}

// DeleteAlbum handles DELETE /album/:album_id
// @Summary Delete an album
// @Description Songs of the album are kept without an album
// @Tags Albums
// @Produce json
// @Param album_id path int true "Album ID"
// @Success 200 {object} utils.StatusResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /album/{album_id} [delete]
func (h *AlbumHandler) DeleteAlbum(c *fiber.Ctx) error {
	albumID, err := parseID(c, "album_id")
	if err != nil {
		return err
	}

	if err := h.Store.DeleteAlbum(c.UserContext(), albumID); err != nil {
		return err
	}

	return utils.StatusResponse(c)
}
