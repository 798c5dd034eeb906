package models

import "github.com/shopspring/decimal"

// Song is a track, optionally part of an album. DurationInSec is stored as decimal(10,2).
type Song struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	DurationInSec decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"duration_in_sec"`
	AlbumID       *uint           `gorm:"index" json:"album_id"`
}

// TableName overrides the table name for Song
func (Song) TableName() string {
	return "songs"
}
