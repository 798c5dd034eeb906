// store.go
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

	"github.com/localnerve/musicdb/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

const (
	// DefaultLimit is the page size when no limit is given
	DefaultLimit = 100
	// MaxLimit is the largest page size; larger limits are truncated to it
	MaxLimit = 100
)

// StoreOptions tunes Store behavior
type StoreOptions struct {
	// UserEmailPrecheck queries for an existing email before inserting a user
	UserEmailPrecheck bool
}

// Store is the storage client handed to the HTTP handlers.
// Every method opens a session bound to the caller's context and releases
// its connections when the statement or transaction completes.
type Store struct {
	db   *gorm.DB
	opts StoreOptions
}

// NewStore wraps a connected database
func NewStore(db *gorm.DB, opts StoreOptions) *Store {
	return &Store{db: db, opts: opts}
}

// DB returns the underlying connection pool
func (s *Store) DB() *gorm.DB {
	return s.db
}

// session scopes the pool to one request
func (s *Store) session(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Page is an offset/limit window over a list
type Page struct {
	Offset int
	Limit  int
}

// NewPage clamps a requested window: limit defaults to DefaultLimit and is
// truncated to MaxLimit. Negative values are rejected.
func NewPage(offset, limit *int) (Page, error) {
	page := Page{Offset: 0, Limit: DefaultLimit}
	if offset != nil {
		if *offset < 0 {
			return page, types.Unprocessable("offset must be greater than or equal to 0", "validation.offset")
		}
		page.Offset = *offset
	}
	if limit != nil {
		if *limit < 0 {
			return page, types.Unprocessable("limit must be greater than or equal to 0", "validation.limit")
		}
		page.Limit = min(*limit, MaxLimit)
	}
	return page, nil
}

// list counts every row matched by query and loads the requested window of it,
// ordered by primary key. The comment tags the statements in database logs.
func list[T any](query *gorm.DB, page Page, tag string, out *[]T) (int64, error) {
	var total int64
	var model T
	query = query.Clauses(hints.CommentBefore("SELECT", "musicdb:"+tag))
	if err := query.Session(&gorm.Session{}).Model(&model).Count(&total).Error; err != nil {
		return 0, err
	}

	*out = []T{}
	if page.Limit == 0 || int64(page.Offset) >= total {
		return total, nil
	}

	err := query.Session(&gorm.Session{}).
		Order("id").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(out).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// first loads one row by conditions, mapping a missing row to notFound
func first[T any](query *gorm.DB, notFound *types.CustomError, conds ...interface{}) (*T, error) {
	var row T
	if err := query.First(&row, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	return &row, nil
}
