package model

// User is immutable after registration. Emails are stored as given and
// compared case-insensitively.
type User struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string `gorm:"column:name;size:60;not null"`
	Email     string `gorm:"column:email;not null;uniqueIndex:idx_users_lower_email,expression:lower(email)"`
	Password  string `gorm:"column:password;not null"`
	CreatedAt int64  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt int64  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

// RefreshToken records a refresh token issued at login. Rows are never
// pruned; every login adds one.
type RefreshToken struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint   `gorm:"column:user_id;index:idx_refresh_tokens_user_id;not null"`
	Token     string `gorm:"column:token;type:text;not null"`
	CreatedAt int64  `gorm:"column:created_at;autoCreateTime"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }
