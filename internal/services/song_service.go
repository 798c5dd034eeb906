package services

import (
	"context"

	"github.com/localnerve/musicdb/internal/models"
	"github.com/localnerve/musicdb/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// durationPlaces is the fractional precision of the duration_in_sec column
const durationPlaces = 2

// SongCreate is the body accepted when creating a song
type SongCreate struct {
	Name          string          `json:"name"`
	DurationInSec decimal.Decimal `json:"duration_in_sec"`
}

// SongUpdate is a partial song update
type SongUpdate struct {
	Name          types.Optional[string]          `json:"name"`
	DurationInSec types.Optional[decimal.Decimal] `json:"duration_in_sec"`
	AlbumID       types.Optional[uint]            `json:"album_id"`
}

// Changes returns the columns to write, containing only fields present in the payload
func (u SongUpdate) Changes() (map[string]interface{}, error) {
	changes := map[string]interface{}{}
	if u.Name.Set {
		if !u.Name.Valid {
			return nil, types.Unprocessable("name must not be null", "validation.name")
		}
		changes["name"] = u.Name.Value
	}
	if u.DurationInSec.Set {
		if !u.DurationInSec.Valid {
			return nil, types.Unprocessable("duration_in_sec must not be null", "validation.duration")
		}
		changes["duration_in_sec"] = u.DurationInSec.Value.Round(durationPlaces)
	}
	if u.AlbumID.Set {
		changes["album_id"] = u.AlbumID.Ptr()
	}
	return changes, nil
}

func songNotFound() *types.CustomError {
	return types.NotFound("Song doesn't exist", "song.notFound")
}

// GetSong loads a song by id
func (s *Store) GetSong(ctx context.Context, songID uint) (*models.Song, error) {
	return first[models.Song](s.session(ctx), songNotFound(), songID)
}

// ListSongs returns a window of all songs
func (s *Store) ListSongs(ctx context.Context, page Page) ([]models.Song, int64, error) {
	var songs []models.Song
	total, err := list(s.session(ctx), page, "songs.list", &songs)
	return songs, total, err
}

// CreateSong creates a song that belongs to no album
func (s *Store) CreateSong(ctx context.Context, in SongCreate) (*models.Song, error) {
	return createSong(s.session(ctx), in, nil)
}

func createSong(db *gorm.DB, in SongCreate, albumID *uint) (*models.Song, error) {
	song := models.Song{
		Name:          in.Name,
		DurationInSec: in.DurationInSec.Round(durationPlaces),
		AlbumID:       albumID,
	}
	if err := db.Create(&song).Error; err != nil {
		return nil, err
	}
	return &song, nil
}

// UpdateSong applies the fields present in the update. Moving a song to
// another album requires that album to exist.
func (s *Store) UpdateSong(ctx context.Context, songID uint, in SongUpdate) (*models.Song, error) {
	changes, err := in.Changes()
	if err != nil {
		return nil, err
	}

	db := s.session(ctx)
	song, err := first[models.Song](db, songNotFound(), songID)
	if err != nil {
		return nil, err
	}

	if in.AlbumID.Valid {
		if _, err := first[models.Album](db, albumNotFound(), in.AlbumID.Value); err != nil {
			return nil, err
		}
	}

	if len(changes) > 0 {
		if err := db.Model(song).Updates(changes).Error; err != nil {
			return nil, err
		}
	}

	return first[models.Song](db, songNotFound(), songID)
}

// DeleteSong removes a song and its playlist memberships
func (s *Store) DeleteSong(ctx context.Context, songID uint) error {
	return s.session(ctx).Transaction(func(tx *gorm.DB) error {
		song, err := first[models.Song](tx, songNotFound(), songID)
		if err != nil {
			return err
		}
		if err := tx.Where("song_id = ?", song.ID).Delete(&models.PlaylistSong{}).Error; err != nil {
			return err
		}
		return tx.Delete(song).Error
	})
}
