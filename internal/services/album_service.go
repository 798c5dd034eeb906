package services

import (
	"context"

	"github.com/localnerve/musicdb/internal/models"
	"github.com/localnerve/musicdb/internal/types"
	"gorm.io/gorm"
)

// AlbumCreate is the body accepted when creating an album
type AlbumCreate struct {
	Name string `json:"name"`
}

// AlbumUpdate is a partial album update
type AlbumUpdate struct {
	Name    types.Optional[string] `json:"name"`
	OwnerID types.Optional[uint]   `json:"owner_id"`
}

// Changes returns the columns to write, containing only fields present in the payload
func (u AlbumUpdate) Changes() (map[string]interface{}, error) {
	changes := map[string]interface{}{}
	if u.Name.Set {
		if !u.Name.Valid {
			return nil, types.Unprocessable("name must not be null", "validation.name")
		}
		changes["name"] = u.Name.Value
	}
	if u.OwnerID.Set {
		changes["owner_id"] = u.OwnerID.Ptr()
	}
	return changes, nil
}

func albumNotFound() *types.CustomError {
	return types.NotFound("Album doesn't exist", "album.notFound")
}

// GetAlbum loads an album with its songs
func (s *Store) GetAlbum(ctx context.Context, albumID uint) (*models.AlbumDetail, error) {
	query := s.session(ctx).Preload("Songs", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	album, err := first[models.Album](query, albumNotFound(), albumID)
	if err != nil {
		return nil, err
	}
	detail := album.Detail()
	return &detail, nil
}

// ListAlbums returns a window of all albums
func (s *Store) ListAlbums(ctx context.Context, page Page) ([]models.Album, int64, error) {
	var albums []models.Album
	total, err := list(s.session(ctx), page, "albums.list", &albums)
	return albums, total, err
}

// ListAlbumSongs returns a window of the songs in an album
func (s *Store) ListAlbumSongs(ctx context.Context, albumID uint, page Page) ([]models.Song, int64, error) {
	db := s.session(ctx)
	if _, err := first[models.Album](db, albumNotFound(), albumID); err != nil {
		return nil, 0, err
	}

	var songs []models.Song
	total, err := list(db.Where("album_id = ?", albumID), page, "albums.songs", &songs)
	return songs, total, err
}

// CreateAlbum creates an album owned by userID
func (s *Store) CreateAlbum(ctx context.Context, userID uint, in AlbumCreate) (*models.Album, error) {
	db := s.session(ctx)
	if err := userExists(db, userID); err != nil {
		return nil, err
	}

	album := models.Album{Name: in.Name, OwnerID: &userID}
	if err := db.Create(&album).Error; err != nil {
		return nil, err
	}
	return &album, nil
}

// CreateAlbumSong creates a song inside an existing album
func (s *Store) CreateAlbumSong(ctx context.Context, albumID uint, in SongCreate) (*models.Song, error) {
	db := s.session(ctx)
	album, err := first[models.Album](db, albumNotFound(), albumID)
	if err != nil {
		return nil, err
	}
	return createSong(db, in, &album.ID)
}

// UpdateAlbum applies the fields present in the update. A new owner must exist.
func (s *Store) UpdateAlbum(ctx context.Context, albumID uint, in AlbumUpdate) (*models.Album, error) {
	changes, err := in.Changes()
	if err != nil {
		return nil, err
	}

	db := s.session(ctx)
	album, err := first[models.Album](db, albumNotFound(), albumID)
	if err != nil {
		return nil, err
	}

	if in.OwnerID.Valid {
		if err := userExists(db, in.OwnerID.Value); err != nil {
			return nil, err
		}
	}

	if len(changes) > 0 {
		if err := db.Model(album).Updates(changes).Error; err != nil {
			return nil, err
		}
	}

	return first[models.Album](db, albumNotFound(), albumID)
}

// DeleteAlbum removes an album. Its songs are kept with no album.
func (s *Store) DeleteAlbum(ctx context.Context, albumID uint) error {
	return s.session(ctx).Transaction(func(tx *gorm.DB) error {
		album, err := first[models.Album](tx, albumNotFound(), albumID)
		if err != nil {
			return err
		}
		// sqlite does not enforce ON DELETE SET NULL unless foreign keys are enabled
		err = tx.Model(&models.Song{}).Where("album_id = ?", album.ID).Update("album_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(album).Error
	})
}
