//go:build cgo

package database

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLite opens a sqlite database through the mattn/go-sqlite3 cgo driver
func SQLite(path string) gorm.Dialector {
	return sqlite.Open(path)
}
