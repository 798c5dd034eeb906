package models

// User owns playlists and albums
type User struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string  `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Role      int     `gorm:"not null" json:"role"`
	Firstname *string `gorm:"size:255" json:"firstname"`
	Lastname  *string `gorm:"size:255" json:"lastname"`

	Playlists []Playlist `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Albums    []Album    `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}

// UserDetail is a User with its owned collections embedded
type UserDetail struct {
	User
	Playlists []Playlist `json:"playlists"`
	Albums    []Album    `json:"albums"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// Detail builds the response view of a User whose relations were preloaded.
func (u User) Detail() UserDetail {
	detail := UserDetail{
		User:      u,
		Playlists: u.Playlists,
		Albums:    u.Albums,
	}
	if detail.Playlists == nil {
		detail.Playlists = []Playlist{}
	}
	if detail.Albums == nil {
		detail.Albums = []Album{}
	}
	return detail
}
