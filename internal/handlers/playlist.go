// playlist.go
//
// A relational music catalog service for users, playlists, albums and songs
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of musicdb.
// musicdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// musicdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with musicdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/musicdb/internal/services"
	"github.com/localnerve/musicdb/internal/utils"
)

// PlaylistHandler handles playlist routes. Every route is scoped to the
// owning user in the path.
type PlaylistHandler struct {
	Store *services.Store
}

// ListPlaylists handles GET /user/:user_id/playlists
// @Summary List a user's playlists
// @Tags Playlists
// @Produce json
// @Param user_id path int true "User ID"
// @Param limit query int false "Page size (default 100, max 100)"
// @Param offset query int false "Rows to skip (default 0)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user/{user_id}/playlists [get]
func (h *PlaylistHandler) ListPlaylists(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return err
	}
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	playlists, total, err := h.Store.ListUserPlaylists(c.UserContext(), userID, page)
	if err != nil {
		return err
	}

	return utils.ListResponse(c, "playlists", playlists, total)
}

// GetPlaylist handles GET /user/:user_id/playlist/:playlist_id
// @Summary Get a playlist
// @Tags Playlists
// @Produce json
// @Param user_id path int true "Owner ID"
// @Param playlist_id path int true "Playlist ID"
// @Success 200 {object} models.PlaylistDetail
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user/{user_id}/playlist/{playlist_id} [get]
func (h *PlaylistHandler) GetPlaylist(c *fiber.Ctx) error {
	ids, err := parseIDs(c, "user_id", "playlist_id")
	if err != nil {
		return err
	}

	playlist, err := h.Store.GetOwnedPlaylist(c.UserContext(), ids[0], ids[1])
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, playlist, fiber.StatusOK)
}

// CreatePlaylist handles POST /user/:user_id/playlist
// @Summary Create a playlist
// @Tags Playlists
// @Accept json
// @Produce json
// @Param user_id path int true "Owner ID"
// @Param body body services.PlaylistCreate true "Playlist"
// @Success 201 {object} models.Playlist
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 422 {object} utils.ErrorResponseStruct
// @Router /user/{user_id}/playlist [post]
func (h *PlaylistHandler) CreatePlaylist(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return err
	}

	var body services.PlaylistCreate
	if err := parseBody(c, &body); err != nil {
		return err
	}
	if err := requireString(body.Name, "name"); err != nil {
		return err
	}

	playlist, err := h.Store.CreatePlaylist(c.UserContext(), userID, body)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, playlist, fiber.StatusCreated)
}

// UpdatePlaylist handles PATCH /user/:user_id/playlist/:playlist_id
// @Summary Update a playlist
// @Tags Playlists
// @Accept json
// @Produce json
// @Param user_id path int true "Owner ID"
// @Param playlist_id path int true "Playlist ID"
// @Param body body services.PlaylistUpdate true "Fields to change"
// @Success 200 {object} models.Playlist
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user/{user_id}/playlist/{playlist_id} [patch]
func (h *PlaylistHandler) UpdatePlaylist(c *fiber.Ctx) error {
	ids, err := parseIDs(c, "user_id", "playlist_id")
	if err != nil {
		return err
	}

	var body services.PlaylistUpdate
	if err := parseBody(c, &body); err != nil {
		return err
	}

	playlist, err := h.Store.UpdateOwnedPlaylist(c.UserContext(), ids[0], ids[1], body)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, playlist, fiber.StatusOK)
}

// DeletePlaylist handles DELETE /user/:user_id/playlist/:playlist_id
// @Summary Delete a playlist
// @Tags Playlists
// @Produce json
// @Param user_id path int true "Owner ID"
// @Param playlist_id path int true "Playlist ID"
// @Success 200 {object} utils.StatusResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user/{user_id}/playlist/{playlist_id} [delete]
func (h *PlaylistHandler) DeletePlaylist(c *fiber.Ctx) error {
	ids, err := parseIDs(c, "user_id", "playlist_id")
	if err != nil {
		return err
	}

	if err := h.Store.DeleteOwnedPlaylist(c.UserContext(), ids[0], ids[1]); err != nil {
		return err
	}

	return utils.StatusResponse(c)
}

// AddSong handles POST /user/:user_id/playlist/:playlist_id/song/:song_id
// @Summary Add a song to a playlist
// @Tags Playlists
// @Produce json
// @Param user_id path int true "Owner ID"
// @Param playlist_id path int true "Playlist ID"
// @Param song_id path int true "Song ID"
// @Success 200 {object} models.PlaylistDetail
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /user/{user_id}/playlist/{playlist_id}/song/{song_id} [post]
func (h *PlaylistHandler) AddSong(c *fiber.Ctx) error {
	ids, err := parseIDs(c, "user_id", "playlist_id", "song_id")
	if err != nil {
		return err
	}

	playlist, err := h.Store.AddSongToPlaylist(c.UserContext(), ids[0], ids[1], ids[2])
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, playlist, fiber.StatusOK)
}

// RemoveSong handles DELETE /user/:user_id/playlist/:playlist_id/song/:song_id
// @Summary Remove a song from a playlist
// @Tags Playlists
// @Produce json
// @Param user_id path int true "Owner ID"
// @Param playlist_id path int true "Playlist ID"
// @Param song_id path int true "Song ID"
// @Success 200 {object} models.PlaylistDetail
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /user/{user_id}/playlist/{playlist_id}/song/{song_id} [delete]
func (h *PlaylistHandler) RemoveSong(c *fiber.Ctx) error {
	ids, err := parseIDs(c, "user_id", "playlist_id", "song_id")
	if err != nil {
		return err
	}

	playlist, err := h.Store.RemoveSongFromPlaylist(c.UserContext(), ids[0], ids[1], ids[2])
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, playlist, fiber.StatusOK)
}
