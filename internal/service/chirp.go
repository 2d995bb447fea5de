package service

import (
	"context"
	"strings"

	"github.com/Payphone-Digital/chirpy/internal/constants"
	"github.com/Payphone-Digital/chirpy/internal/dto"
	apperrors "github.com/Payphone-Digital/chirpy/internal/errors"
	"github.com/Payphone-Digital/chirpy/internal/model"
	ctxutil "github.com/Payphone-Digital/chirpy/pkg/context"
	"github.com/Payphone-Digital/chirpy/pkg/logger"
	"github.com/Payphone-Digital/chirpy/pkg/validation"
)

type ChirpService struct {
	store     ChirpStore
	validator *validation.Validator
}

func NewChirpService(store ChirpStore) *ChirpService {
	return &ChirpService{
		store:     store,
		validator: newValidator(),
	}
}

// normalizeMessage trims surrounding whitespace and validates what is left.
func (s *ChirpService) normalizeMessage(message string) (string, error) {
	message = strings.TrimSpace(message)
	if fe := s.validator.Struct(chirpInput{Message: message}); fe != nil {
		return "", validationError(fe)
	}
	return message, nil
}

func (s *ChirpService) CreateChirp(ctx context.Context, user dto.Identity, message string) (*dto.ChirpResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CreateChirp")

	message, err := s.normalizeMessage(message)
	if err != nil {
		return nil, err
	}

	chirp := &model.Chirp{UserID: user.ID, Message: message}
	if err := s.store.Create(ctx, chirp); err != nil {
		logger.ErrorWithContext(ctx, "Failed to create chirp").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	row, err := s.store.GetWithAuthor(ctx, chirp.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if row == nil {
		return nil, apperrors.ErrNotFound
	}

	logger.InfoWithContext(ctx, "Chirp created").
		Uint("chirp_id", row.ID).
		Uint("user_id", user.ID).
		Log()

	return toChirpResponse(row), nil
}

// GetChirpList returns the newest chirps first. The result is never nil.
func (s *ChirpService) GetChirpList(ctx context.Context) ([]dto.ChirpResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetChirpList")

	rows, err := s.store.List(ctx, constants.ChirpListLimit)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list chirps").Err(err).Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	res := make([]dto.ChirpResponse, 0, len(rows))
	for i := range rows {
		res = append(res, *toChirpResponse(&rows[i]))
	}

	logger.DebugWithContext(ctx, "Chirps listed").Int("count", len(res)).Log()

	return res, nil
}

func (s *ChirpService) GetOneChirp(ctx context.Context, chirpID uint) (*dto.ChirpResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetOneChirp")

	row, err := s.store.GetWithAuthor(ctx, chirpID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to get chirp").
			Uint("chirp_id", chirpID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if row == nil {
		return nil, apperrors.ErrNotFound
	}

	return toChirpResponse(row), nil
}

// EditChirp checks ownership before existence: editing a chirp that does
// not exist is reported as forbidden.
func (s *ChirpService) EditChirp(ctx context.Context, user dto.Identity, chirpID uint, message string) (*dto.ChirpResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "EditChirp")

	message, err := s.normalizeMessage(message)
	if err != nil {
		return nil, err
	}

	isAuthor, err := s.store.IsAuthor(ctx, chirpID, user.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !isAuthor {
		logger.WarnWithContext(ctx, "Edit rejected, caller is not the author").
			Uint("chirp_id", chirpID).
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrForbidden
	}

	// the chirp may vanish between the check and the write; the re-fetch below reports that
	if _, err := s.store.Update(ctx, chirpID, user.ID, message); err != nil {
		logger.ErrorWithContext(ctx, "Failed to update chirp").
			Uint("chirp_id", chirpID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	row, err := s.store.GetWithAuthor(ctx, chirpID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if row == nil {
		return nil, apperrors.ErrNotFound
	}

	logger.InfoWithContext(ctx, "Chirp updated").
		Uint("chirp_id", chirpID).
		Uint("user_id", user.ID).
		Log()

	return toChirpResponse(row), nil
}

// DeleteChirp checks existence before ownership.
func (s *ChirpService) DeleteChirp(ctx context.Context, user dto.Identity, chirpID uint) error {
	ctx = ctxutil.WithFunction(ctx, "service", "DeleteChirp")

	owner, err := s.store.GetOwner(ctx, chirpID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if owner == nil {
		return apperrors.ErrNotFound
	}
	if owner.UserID != user.ID {
		logger.WarnWithContext(ctx, "Delete rejected, caller is not the author").
			Uint("chirp_id", chirpID).
			Uint("user_id", user.ID).
			Log()
		return apperrors.ErrForbidden
	}

	if _, err := s.store.Delete(ctx, chirpID, user.ID); err != nil {
		logger.ErrorWithContext(ctx, "Failed to delete chirp").
			Uint("chirp_id", chirpID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Chirp deleted").
		Uint("chirp_id", chirpID).
		Uint("user_id", user.ID).
		Log()

	return nil
}

func toChirpResponse(row *model.ChirpWithAuthor) *dto.ChirpResponse {
	return &dto.ChirpResponse{
		ID:      row.ID,
		Message: row.Message,
		Author: dto.Author{
			ID:    row.UserID,
			Name:  row.AuthorName,
			Email: row.AuthorEmail,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
