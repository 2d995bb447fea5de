package service

import (
	"context"
	"errors"
	"time"

	"github.com/Payphone-Digital/chirpy/internal/constants"
	"github.com/Payphone-Digital/chirpy/internal/dto"
	apperrors "github.com/Payphone-Digital/chirpy/internal/errors"
	"github.com/Payphone-Digital/chirpy/internal/model"
	ctxutil "github.com/Payphone-Digital/chirpy/pkg/context"
	"github.com/Payphone-Digital/chirpy/pkg/logger"
	"github.com/Payphone-Digital/chirpy/pkg/validation"
	"gorm.io/gorm"
)

type SessionService struct {
	store     SessionStore
	hasher    PasswordHasher
	tokens    TokenIssuer
	validator *validation.Validator
	accessTTL time.Duration
}

func NewSessionService(store SessionStore, hasher PasswordHasher, tokens TokenIssuer, accessTTL time.Duration) *SessionService {
	if accessTTL <= 0 {
		accessTTL = constants.DefaultAccessTokenTTL
	}
	return &SessionService{
		store:     store,
		hasher:    hasher,
		tokens:    tokens,
		validator: newValidator(),
		accessTTL: accessTTL,
	}
}

func (s *SessionService) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Login")

	if fe := s.validator.Struct(loginInput{Email: email, Password: password}); fe != nil {
		return nil, validationError(fe)
	}

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.LogAuth(email, "login", false)
			return nil, apperrors.ErrInvalidCredentials
		}
		logger.ErrorWithContext(ctx, "Failed to get user by email").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	ok, err := s.hasher.Compare(password, user.Password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to compare password").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !ok {
		logger.LogAuth(email, "login", false)
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Email, s.accessTTL)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.store.SaveRefreshToken(ctx, user.ID, refreshToken); err != nil {
		logger.ErrorWithContext(ctx, "Failed to save refresh token").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.LogAuth(email, "login", true)

	return &dto.LoginResponse{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *SessionService) Register(ctx context.Context, name, email, password string) (*dto.RegisterResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Register")

	if fe := s.validator.Struct(registerInput{Email: email, Name: name, Password: password}); fe != nil {
		return nil, validationError(fe)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").Err(err).Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: hashed,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.InfoWithContext(ctx, "Email already registered").
				String("email", email).
				Log()
			return nil, apperrors.ErrEmailRegistered
		}
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User registered").
		Uint("user_id", user.ID).
		String("email", user.Email).
		Log()

	return &dto.RegisterResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

// GetNewAccessToken exchanges a recorded refresh token for a fresh access
// token. The refresh token itself stays valid.
func (s *SessionService) GetNewAccessToken(ctx context.Context, refreshToken string) (string, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetNewAccessToken")

	identity, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		if IsTokenValidationError(err) {
			logger.DebugWithContext(ctx, "Refresh token rejected").Err(err).Log()
			return "", apperrors.ErrInvalidRefreshToken
		}
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	valid, err := s.store.IsRefreshTokenValid(ctx, identity.ID, refreshToken)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to look up refresh token").
			Uint("user_id", identity.ID).
			Err(err).
			Log()
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !valid {
		logger.WarnWithContext(ctx, "Refresh token not recorded").
			Uint("user_id", identity.ID).
			Log()
		return "", apperrors.ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.IssueAccessToken(identity.ID, identity.Email, s.accessTTL)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return accessToken, nil
}
