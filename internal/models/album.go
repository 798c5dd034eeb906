package models

// Album groups songs and optionally belongs to a user
type Album struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"size:255;not null" json:"name"`
	OwnerID *uint  `gorm:"index" json:"owner_id"`

	Songs []Song `gorm:"foreignKey:AlbumID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}

// AlbumDetail is an Album with its songs embedded
type AlbumDetail struct {
	Album
	Songs []Song `json:"songs"`
}

// TableName overrides the table name for Album
func (Album) TableName() string {
	return "albums"
}

// Detail builds the response view of an Album whose songs were preloaded.
func (a Album) Detail() AlbumDetail {
	songs := a.Songs
	if songs == nil {
		songs = []Song{}
	}
	return AlbumDetail{Album: a, Songs: songs}
}
