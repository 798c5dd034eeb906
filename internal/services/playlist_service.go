// playlist_service.go
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

package services

import (
	"context"
	"errors"

	"github.com/localnerve/musicdb/internal/models"
	"github.com/localnerve/musicdb/internal/types"
	"gorm.io/gorm"
)

// PlaylistCreate is the body accepted when creating a playlist
type PlaylistCreate struct {
	Name string `json:"name"`
}

// PlaylistUpdate is a partial playlist update
type PlaylistUpdate struct {
	Name types.Optional[string] `json:"name"`
}

// Changes returns the columns to write, containing only fields present in the payload
func (u PlaylistUpdate) Changes() (map[string]interface{}, error) {
	changes := map[string]interface{}{}
	if u.Name.Set {
		if !u.Name.Valid {
			return nil, types.Unprocessable("name must not be null", "validation.name")
		}
		changes["name"] = u.Name.Value
	}
	return changes, nil
}

func playlistNotFound() *types.CustomError {
	return types.NotFound("Playlist doesn't exist", "playlist.notFound")
}

// ownedPlaylist scopes a playlist lookup by both its id and its owner in one query
func ownedPlaylist(db *gorm.DB, userID, playlistID uint) (*models.Playlist, error) {
	return first[models.Playlist](db.Where("owner_id = ?", userID), playlistNotFound(), playlistID)
}

// GetOwnedPlaylist loads a playlist owned by userID with its songs
func (s *Store) GetOwnedPlaylist(ctx context.Context, userID, playlistID uint) (*models.PlaylistDetail, error) {
	query := s.session(ctx).Preload("Songs", func(db *gorm.DB) *gorm.DB { return db.Order("songs.id") })
	playlist, err := ownedPlaylist(query, userID, playlistID)
	if err != nil {
		return nil, err
	}
	detail := playlist.Detail()
	return &detail, nil
}

// ListUserPlaylists returns a window of the playlists owned by userID
func (s *Store) ListUserPlaylists(ctx context.Context, userID uint, page Page) ([]models.Playlist, int64, error) {
	db := s.session(ctx)
	if err := userExists(db, userID); err != nil {
		return nil, 0, err
	}

	var playlists []models.Playlist
	total, err := list(db.Where("owner_id = ?", userID), page, "playlists.list", &playlists)
	return playlists, total, err
}

// CreatePlaylist creates a playlist owned by userID
func (s *Store) CreatePlaylist(ctx context.Context, userID uint, in PlaylistCreate) (*models.Playlist, error) {
	db := s.session(ctx)
	if err := userExists(db, userID); err != nil {
		return nil, err
	}

	playlist := models.Playlist{Name: in.Name, OwnerID: &userID}
	if err := db.Create(&playlist).Error; err != nil {
		return nil, err
	}
	return &playlist, nil
}

// UpdateOwnedPlaylist applies the fields present in the update to a playlist owned by userID
func (s *Store) UpdateOwnedPlaylist(ctx context.Context, userID, playlistID uint, in PlaylistUpdate) (*models.Playlist, error) {
	changes, err := in.Changes()
	if err != nil {
		return nil, err
	}

	db := s.session(ctx)
	playlist, err := ownedPlaylist(db, userID, playlistID)
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		if err := db.Model(playlist).Updates(changes).Error; err != nil {
			return nil, err
		}
	}

	return ownedPlaylist(db, userID, playlistID)
}

// DeleteOwnedPlaylist removes a playlist owned by userID together with its
// membership rows. The songs themselves are kept.
func (s *Store) DeleteOwnedPlaylist(ctx context.Context, userID, playlistID uint) error {
	return s.session(ctx).Transaction(func(tx *gorm.DB) error {
		playlist, err := ownedPlaylist(tx, userID, playlistID)
		if err != nil {
			return err
		}
		if err := tx.Where("playlist_id = ?", playlist.ID).Delete(&models.PlaylistSong{}).Error; err != nil {
			return err
		}
		return tx.Delete(playlist).Error
	})
}

// linkState loads the owned playlist and the song, and reports whether they are linked
func linkState(tx *gorm.DB, userID, playlistID, songID uint) (bool, error) {
	if _, err := ownedPlaylist(tx, userID, playlistID); err != nil {
		return false, err
	}
	if _, err := first[models.Song](tx, songNotFound(), songID); err != nil {
		return false, err
	}

	var link models.PlaylistSong
	err := tx.Where("playlist_id = ? AND song_id = ?", playlistID, songID).Take(&link).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// AddSongToPlaylist links a song into a playlist owned by userID.
// An existing link is a conflict.
func (s *Store) AddSongToPlaylist(ctx context.Context, userID, playlistID, songID uint) (*models.PlaylistDetail, error) {
	err := s.session(ctx).Transaction(func(tx *gorm.DB) error {
		linked, err := linkState(tx, userID, playlistID, songID)
		if err != nil {
			return err
		}
		if linked {
			return types.Conflict("Song is already in playlist", "playlist.songLinked")
		}
		return tx.Create(&models.PlaylistSong{PlaylistID: playlistID, SongID: songID}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetOwnedPlaylist(ctx, userID, playlistID)
}

// RemoveSongFromPlaylist unlinks a song from a playlist owned by userID.
// A missing link is a conflict.
func (s *Store) RemoveSongFromPlaylist(ctx context.Context, userID, playlistID, songID uint) (*models.PlaylistDetail, error) {
	err := s.session(ctx).Transaction(func(tx *gorm.DB) error {
		linked, err := linkState(tx, userID, playlistID, songID)
		if err != nil {
			return err
		}
		if !linked {
			return types.Conflict("Song is not in playlist", "playlist.songNotLinked")
		}
		return tx.Where("playlist_id = ? AND song_id = ?", playlistID, songID).Delete(&models.PlaylistSong{}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetOwnedPlaylist(ctx, userID, playlistID)
}
