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

package models

// Playlist is a set of songs owned by a user
type Playlist struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"size:255;not null" json:"name"`
	OwnerID *uint  `gorm:"index" json:"owner_id"`

	Songs []Song `gorm:"many2many:playlist_songs;" json:"-"`
}

// PlaylistSong is the membership row joining a playlist and a song.
// The composite primary key keeps each pair unique; there is no ordering.
type PlaylistSong struct {
	PlaylistID uint `gorm:"primaryKey;autoIncrement:false"`
	SongID     uint `gorm:"primaryKey;autoIncrement:false"`
}

// PlaylistDetail is a Playlist with its songs embedded
type PlaylistDetail struct {
	Playlist
	Songs []Song `json:"songs"`
}

// TableName overrides the table name for Playlist
func (Playlist) TableName() string {
	return "playlists"
}

// TableName overrides the table name for PlaylistSong
func (PlaylistSong) TableName() string {
	return "playlist_songs"
}

// Detail builds the response view of a Playlist whose songs were preloaded.
func (p Playlist) Detail() PlaylistDetail {
	songs := p.Songs
	if songs == nil {
		songs = []Song{}
	}
	return PlaylistDetail{Playlist: p, Songs: songs}
}
