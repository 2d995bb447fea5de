package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/chirpy/internal/dto"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by both token kinds. Access tokens add exp.
type Claims struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

var hmacMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

func NewJWTService(accessSecret, refreshSecret string) *JWTService {
	return &JWTService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}
}

// IssueAccessToken signs a short-lived token for API calls
func (s *JWTService) IssueAccessToken(userID uint, email string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return s.sign(claims, s.accessSecret)
}

// IssueRefreshToken signs a token without expiry, redeemable for new access tokens
func (s *JWTService) IssueRefreshToken(userID uint, email string) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	}
	return s.sign(claims, s.refreshSecret)
}

func (s *JWTService) VerifyAccessToken(token string) (*dto.Identity, error) {
	return s.verify(token, s.accessSecret, jwt.WithExpirationRequired())
}

func (s *JWTService) VerifyRefreshToken(token string) (*dto.Identity, error) {
	return s.verify(token, s.refreshSecret)
}

func (s *JWTService) sign(claims Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) verify(tokenString string, secret []byte, opts ...jwt.ParserOption) (*dto.Identity, error) {
	opts = append(opts,
		jwt.WithValidMethods(hmacMethods),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	if claims.UserID == 0 || claims.Email == "" {
		return nil, fmt.Errorf("%w: missing id or email", jwt.ErrTokenInvalidClaims)
	}

	return &dto.Identity{ID: claims.UserID, Email: claims.Email}, nil
}

// IsTokenValidationError reports whether err means the token itself is bad,
// as opposed to a failure while checking it.
func IsTokenValidationError(err error) bool {
	return errors.Is(err, jwt.ErrTokenMalformed) ||
		errors.Is(err, jwt.ErrTokenSignatureInvalid) ||
		errors.Is(err, jwt.ErrSignatureInvalid) ||
		errors.Is(err, jwt.ErrTokenExpired) ||
		errors.Is(err, jwt.ErrTokenNotValidYet) ||
		errors.Is(err, jwt.ErrTokenUnverifiable) ||
		errors.Is(err, jwt.ErrTokenInvalidClaims) ||
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing) ||
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued)
}
