//go:build !cgo

package database

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// SQLite opens a sqlite database through the pure Go modernc driver,
// for builds with CGO_ENABLED=0
func SQLite(path string) gorm.Dialector {
	return sqlite.Open(path)
}
