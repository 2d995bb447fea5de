package service

import (
	"context"
	"time"

	"github.com/Payphone-Digital/chirpy/internal/dto"
	"github.com/Payphone-Digital/chirpy/internal/model"
)

// PasswordHasher hashes and compares user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) (bool, error)
}

// TokenIssuer mints and verifies access and refresh tokens. The two kinds
// are signed with different secrets.
type TokenIssuer interface {
	IssueAccessToken(userID uint, email string, ttl time.Duration) (string, error)
	IssueRefreshToken(userID uint, email string) (string, error)
	VerifyAccessToken(token string) (*dto.Identity, error)
	VerifyRefreshToken(token string) (*dto.Identity, error)
}

// SessionStore persists users and the refresh tokens issued to them.
type SessionStore interface {
	// GetByEmail returns gorm.ErrRecordNotFound when no user has the email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// CreateUser returns gorm.ErrDuplicatedKey when the email is taken.
	CreateUser(ctx context.Context, user *model.User) error
	SaveRefreshToken(ctx context.Context, userID uint, token string) error
	IsRefreshTokenValid(ctx context.Context, userID uint, token string) (bool, error)
}

// ChirpStore persists chirps. Lookups that find nothing return nil without error.
type ChirpStore interface {
	Create(ctx context.Context, chirp *model.Chirp) error
	List(ctx context.Context, limit int) ([]model.ChirpWithAuthor, error)
	GetWithAuthor(ctx context.Context, chirpID uint) (*model.ChirpWithAuthor, error)
	IsAuthor(ctx context.Context, chirpID, userID uint) (bool, error)
	Update(ctx context.Context, chirpID, userID uint, message string) (bool, error)
	GetOwner(ctx context.Context, chirpID uint) (*model.ChirpOwner, error)
	Delete(ctx context.Context, chirpID, userID uint) (bool, error)
}
