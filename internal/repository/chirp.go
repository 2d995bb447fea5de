package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Payphone-Digital/chirpy/internal/model"
	ctxutil "github.com/Payphone-Digital/chirpy/pkg/context"
	"github.com/Payphone-Digital/chirpy/pkg/logger"
	"gorm.io/gorm"
)

const chirpWithAuthorColumns = "chirps.id, chirps.message, chirps.created_at, chirps.updated_at, users.id AS user_id, users.name, users.email"

type ChirpRepository struct {
	db *gorm.DB
}

func NewChirpRepository(db *gorm.DB) *ChirpRepository {
	return &ChirpRepository{db: db}
}

func (r *ChirpRepository) withAuthor(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("chirps").
		Select(chirpWithAuthorColumns).
		Joins("JOIN users ON chirps.user_id = users.id")
}

func (r *ChirpRepository) Create(ctx context.Context, chirp *model.Chirp) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "CreateChirp")

	start := time.Now()
	err := r.db.WithContext(ctx).Create(chirp).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to insert chirp").
			Uint("user_id", chirp.UserID).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "Chirp inserted").
		Uint("chirp_id", chirp.ID).
		Duration(duration).
		Log()

	return nil
}

// List returns up to limit chirps with their authors, newest first.
func (r *ChirpRepository) List(ctx context.Context, limit int) ([]model.ChirpWithAuthor, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "ListChirps")

	start := time.Now()
	var rows []model.ChirpWithAuthor
	err := r.withAuthor(ctx).
		Order("chirps.created_at DESC").
		Order("chirps.id DESC").
		Limit(limit).
		Scan(&rows).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list chirps").
			Int("limit", limit).
			Duration(duration).
			Err(err).
			Log()
		return nil, err
	}

	logger.DebugWithContext(ctx, "Chirps listed").
		Int("count", len(rows)).
		Duration(duration).
		Log()

	return rows, nil
}

// GetWithAuthor returns nil, nil when the chirp does not exist.
func (r *ChirpRepository) GetWithAuthor(ctx context.Context, chirpID uint) (*model.ChirpWithAuthor, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetChirpWithAuthor")

	start := time.Now()
	var rows []model.ChirpWithAuthor
	err := r.withAuthor(ctx).
		Where("chirps.id = ?", chirpID).
		Limit(1).
		Scan(&rows).Error
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to get chirp").
			Uint("chirp_id", chirpID).
			Duration(duration).
			Err(err).
			Log()
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *ChirpRepository) IsAuthor(ctx context.Context, chirpID, userID uint) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "IsAuthor")

	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Chirp{}).
		Where("id = ? AND user_id = ?", chirpID, userID).
		Count(&count).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to check chirp author").
			Uint("chirp_id", chirpID).
			Err(err).
			Log()
		return false, err
	}

	return count > 0, nil
}

// Update changes the message of a chirp owned by userID. It reports whether
// a row was changed.
func (r *ChirpRepository) Update(ctx context.Context, chirpID, userID uint, message string) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "UpdateChirp")

	start := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Chirp{}).
		Where("id = ? AND user_id = ?", chirpID, userID).
		Updates(map[string]interface{}{
			"message":    message,
			"updated_at": time.Now().Unix(),
		})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update chirp").
			Uint("chirp_id", chirpID).
			Duration(duration).
			Err(result.Error).
			Log()
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// GetOwner returns nil, nil when the chirp does not exist.
func (r *ChirpRepository) GetOwner(ctx context.Context, chirpID uint) (*model.ChirpOwner, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetChirpOwner")

	var owner model.ChirpOwner
	err := r.db.WithContext(ctx).
		Model(&model.Chirp{}).
		Select("id, user_id").
		Where("id = ?", chirpID).
		Take(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to get chirp owner").
			Uint("chirp_id", chirpID).
			Err(err).
			Log()
		return nil, err
	}

	return &owner, nil
}

func (r *ChirpRepository) Delete(ctx context.Context, chirpID, userID uint) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "DeleteChirp")

	start := time.Now()
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", chirpID, userID).
		Delete(&model.Chirp{})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete chirp").
			Uint("chirp_id", chirpID).
			Duration(duration).
			Err(result.Error).
			Log()
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
