package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/Payphone-Digital/chirpy/internal/constants"
	"github.com/Payphone-Digital/chirpy/internal/model"
	"github.com/Payphone-Digital/chirpy/pkg/circuit"
	ctxutil "github.com/Payphone-Digital/chirpy/pkg/context"
	"github.com/Payphone-Digital/chirpy/pkg/logger"
	"github.com/Payphone-Digital/chirpy/pkg/redis"
	"gorm.io/gorm"
)

// SessionRepository stores users and refresh tokens in the database. Known
// refresh tokens are also kept in a Redis set per user; the database stays
// the source of truth and Redis failures only cost a database round-trip.
type SessionRepository struct {
	db       *gorm.DB
	cache    redis.Client
	breaker  *circuit.Breaker
	cacheTTL time.Duration
}

func NewSessionRepository(db *gorm.DB, cache redis.Client, breaker *circuit.Breaker, cacheTTL time.Duration) *SessionRepository {
	if cache == nil {
		cache = redis.NewDisabledClient()
	}
	if breaker == nil {
		breaker = circuit.NewBreaker("refresh-token-cache", circuit.DefaultConfig(), logger.GetLogger())
	}
	return &SessionRepository{
		db:       db,
		cache:    cache,
		breaker:  breaker,
		cacheTTL: cacheTTL,
	}
}

func (r *SessionRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetByEmail")

	start := time.Now()
	var user model.User
	result := r.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "User lookup by email failed").
			String("email", email).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved successfully").
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return &user, nil
}

func (r *SessionRepository) CreateUser(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "CreateUser")

	start := time.Now()
	err := r.db.WithContext(ctx).Create(user).Error
	duration := time.Since(start)

	if err != nil {
		logger.DebugWithContext(ctx, "Failed to insert user").
			String("email", user.Email).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "User inserted").
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return nil
}

func (r *SessionRepository) SaveRefreshToken(ctx context.Context, userID uint, token string) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "SaveRefreshToken")

	start := time.Now()
	err := r.db.WithContext(ctx).Create(&model.RefreshToken{UserID: userID, Token: token}).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to insert refresh token").
			Uint("user_id", userID).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	r.remember(ctx, userID, token)
	return nil
}

// IsRefreshTokenValid reports whether token was issued to userID.
func (r *SessionRepository) IsRefreshTokenValid(ctx context.Context, userID uint, token string) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "IsRefreshTokenValid")

	if r.cache.IsEnabled() {
		var hit bool
		err := r.breaker.Execute(ctx, func(ctx context.Context) error {
			var err error
			hit, err = r.cache.SIsMember(ctx, refreshKey(userID), token)
			return err
		})
		if err == nil && hit {
			return true, nil
		}
		if err != nil {
			logger.WarnWithContext(ctx, "Refresh token cache unavailable, using database").
				String("breaker", r.breaker.Name()).
				Err(err).
				Log()
		}
	}

	start := time.Now()
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("user_id = ? AND token = ?", userID, token).
		Count(&count).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to count refresh tokens").
			Uint("user_id", userID).
			Duration(duration).
			Err(err).
			Log()
		return false, err
	}

	if count > 0 {
		r.remember(ctx, userID, token)
	}

	return count > 0, nil
}

// remember adds token to the user's cached set. Failures are logged only.
func (r *SessionRepository) remember(ctx context.Context, userID uint, token string) {
	if !r.cache.IsEnabled() {
		return
	}

	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.cache.SAdd(ctx, refreshKey(userID), token, r.cacheTTL)
	})
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to cache refresh token").
			Uint("user_id", userID).
			Err(err).
			Log()
	}
}

func refreshKey(userID uint) string {
	return constants.CacheKeyRefreshTokens + strconv.FormatUint(uint64(userID), 10)
}
