package model

type Chirp struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint   `gorm:"column:user_id;index:idx_chirps_user_id;not null"`
	Message   string `gorm:"column:message;size:250;not null"`
	CreatedAt int64  `gorm:"column:created_at;autoCreateTime;index:idx_chirps_created_at,sort:desc"`
	UpdatedAt int64  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Chirp) TableName() string { return "chirps" }

// ChirpWithAuthor is the row shape of a chirp joined with its author.
type ChirpWithAuthor struct {
	ID          uint   `gorm:"column:id"`
	Message     string `gorm:"column:message"`
	CreatedAt   int64  `gorm:"column:created_at"`
	UpdatedAt   int64  `gorm:"column:updated_at"`
	UserID      uint   `gorm:"column:user_id"`
	AuthorName  string `gorm:"column:name"`
	AuthorEmail string `gorm:"column:email"`
}

// ChirpOwner is the minimal projection used to check existence and ownership.
type ChirpOwner struct {
	ID     uint `gorm:"column:id"`
	UserID uint `gorm:"column:user_id"`
}
