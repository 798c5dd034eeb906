package services

import (
	"context"
	"errors"

	"github.com/localnerve/musicdb/internal/models"
	"github.com/localnerve/musicdb/internal/types"
	"gorm.io/gorm"
)

// UserCreate is the body accepted when creating a user
type UserCreate struct {
	Email     string  `json:"email"`
	Role      int     `json:"role"`
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
}

// UserUpdate is a partial user update. Email is not updatable.
type UserUpdate struct {
	Role      types.Optional[int]    `json:"role"`
	Firstname types.Optional[string] `json:"firstname"`
	Lastname  types.Optional[string] `json:"lastname"`
}

// Changes returns the columns to write, containing only fields present in the payload
func (u UserUpdate) Changes() (map[string]interface{}, error) {
	changes := map[string]interface{}{}
	if u.Role.Set {
		if !u.Role.Valid {
			return nil, types.Unprocessable("role must not be null", "validation.role")
		}
		changes["role"] = u.Role.Value
	}
	if u.Firstname.Set {
		changes["firstname"] = u.Firstname.Ptr()
	}
	if u.Lastname.Set {
		changes["lastname"] = u.Lastname.Ptr()
	}
	return changes, nil
}

func userNotFound() *types.CustomError {
	return types.NotFound("User doesn't exist", "user.notFound")
}

// GetUser loads a user with its playlists and owned albums
func (s *Store) GetUser(ctx context.Context, userID uint) (*models.UserDetail, error) {
	query := s.session(ctx).
		Preload("Playlists", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Albums", func(db *gorm.DB) *gorm.DB { return db.Order("id") })

	user, err := first[models.User](query, userNotFound(), userID)
	if err != nil {
		return nil, err
	}
	detail := user.Detail()
	return &detail, nil
}

// ListUsers returns a window of users and the total user count
func (s *Store) ListUsers(ctx context.Context, page Page) ([]models.User, int64, error) {
	var users []models.User
	total, err := list(s.session(ctx), page, "users.list", &users)
	return users, total, err
}

// CreateUser inserts a user. With the email precheck enabled an existing
// email is reported as a conflict; otherwise the unique index decides and
// its violation is returned as a storage error. The check and the insert
// are separate statements, so two concurrent creates can still race.
func (s *Store) CreateUser(ctx context.Context, in UserCreate) (*models.User, error) {
	db := s.session(ctx)

	if s.opts.UserEmailPrecheck {
		var existing models.User
		err := db.Where("email = ?", in.Email).Take(&existing).Error
		if err == nil {
			return nil, types.Conflict("User with this email already exists.", "user.conflict")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	user := models.User{
		Email:     in.Email,
		Role:      in.Role,
		Firstname: in.Firstname,
		Lastname:  in.Lastname,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies the fields present in the update and returns the stored row
func (s *Store) UpdateUser(ctx context.Context, userID uint, in UserUpdate) (*models.User, error) {
	changes, err := in.Changes()
	if err != nil {
		return nil, err
	}

	db := s.session(ctx)
	user, err := first[models.User](db, userNotFound(), userID)
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		if err := db.Model(user).Updates(changes).Error; err != nil {
			return nil, err
		}
	}

	return first[models.User](db, userNotFound(), userID)
}

// DeleteUser removes a user. Owned playlists and albums are kept with no owner.
func (s *Store) DeleteUser(ctx context.Context, userID uint) error {
	return s.session(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := first[models.User](tx, userNotFound(), userID)
		if err != nil {
			return err
		}
		for _, owned := range []interface{}{&models.Playlist{}, &models.Album{}} {
			err := tx.Model(owned).Where("owner_id = ?", user.ID).Update("owner_id", nil).Error
			if err != nil {
				return err
			}
		}
		return tx.Delete(user).Error
	})
}

// userExists is the parent check used by nested creates
func userExists(db *gorm.DB, userID uint) error {
	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return userNotFound()
	}
	return nil
}
