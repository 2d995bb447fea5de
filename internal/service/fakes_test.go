package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/chirpy/internal/dto"
	"github.com/Payphone-Digital/chirpy/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type fakeHasher struct {
	compareResult bool
	compareErr    error
	hashErr       error
	hashCalls     int
}

func (h *fakeHasher) Hash(password string) (string, error) {
	h.hashCalls++
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h *fakeHasher) Compare(password, hash string) (bool, error) {
	return h.compareResult, h.compareErr
}

type fakeIssuer struct {
	verifyRefreshErr error
	identity         *dto.Identity
	accessTTLs       []time.Duration
}

func (f *fakeIssuer) IssueAccessToken(userID uint, email string, ttl time.Duration) (string, error) {
	f.accessTTLs = append(f.accessTTLs, ttl)
	return fmt.Sprintf("access-%d-%s", userID, email), nil
}

func (f *fakeIssuer) IssueRefreshToken(userID uint, email string) (string, error) {
	return fmt.Sprintf("refresh-%d-%s", userID, email), nil
}

func (f *fakeIssuer) VerifyAccessToken(string) (*dto.Identity, error) {
	return nil, jwt.ErrTokenMalformed
}

func (f *fakeIssuer) VerifyRefreshToken(string) (*dto.Identity, error) {
	if f.verifyRefreshErr != nil {
		return nil, f.verifyRefreshErr
	}
	return f.identity, nil
}

type fakeSessionStore struct {
	users       map[string]*model.User
	tokens      map[uint][]string
	nextID      uint
	getErr      error
	createErr   error
	saveErr     error
	validErr    error
	storeCalls  int
	savedTokens int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		users:  map[string]*model.User{},
		tokens: map[uint][]string{},
		nextID: 1,
	}
}

func (s *fakeSessionStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.storeCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	u, ok := s.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (s *fakeSessionStore) CreateUser(_ context.Context, user *model.User) error {
	s.storeCalls++
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.users[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	user.ID = s.nextID
	s.nextID++
	s.users[user.Email] = user
	return nil
}

func (s *fakeSessionStore) SaveRefreshToken(_ context.Context, userID uint, token string) error {
	s.storeCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.savedTokens++
	s.tokens[userID] = append(s.tokens[userID], token)
	return nil
}

func (s *fakeSessionStore) IsRefreshTokenValid(_ context.Context, userID uint, token string) (bool, error) {
	s.storeCalls++
	if s.validErr != nil {
		return false, s.validErr
	}
	for _, t := range s.tokens[userID] {
		if t == token {
			return true, nil
		}
	}
	return false, nil
}

type fakeChirpStore struct {
	chirps map[uint]*model.Chirp
	users  map[uint]model.User
	nextID uint
	now    int64

	calls     []string
	createErr error
	listErr   error
	// hideAfterWrite makes GetWithAuthor miss, as if the row vanished.
	hideAfterWrite bool
}

func newFakeChirpStore(users ...model.User) *fakeChirpStore {
	s := &fakeChirpStore{
		chirps: map[uint]*model.Chirp{},
		users:  map[uint]model.User{},
		nextID: 1,
		now:    1700000000,
	}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeChirpStore) Create(_ context.Context, chirp *model.Chirp) error {
	s.calls = append(s.calls, "Create")
	if s.createErr != nil {
		return s.createErr
	}
	s.now++
	chirp.ID = s.nextID
	chirp.CreatedAt = s.now
	chirp.UpdatedAt = s.now
	s.nextID++
	c := *chirp
	s.chirps[c.ID] = &c
	return nil
}

func (s *fakeChirpStore) row(c *model.Chirp) model.ChirpWithAuthor {
	u := s.users[c.UserID]
	return model.ChirpWithAuthor{
		ID: c.ID, Message: c.Message, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
		UserID: c.UserID, AuthorName: u.Name, AuthorEmail: u.Email,
	}
}

func (s *fakeChirpStore) List(_ context.Context, limit int) ([]model.ChirpWithAuthor, error) {
	s.calls = append(s.calls, "List")
	if s.listErr != nil {
		return nil, s.listErr
	}
	var rows []model.ChirpWithAuthor
	for id := s.nextID - 1; id >= 1 && len(rows) < limit; id-- {
		if c, ok := s.chirps[id]; ok {
			rows = append(rows, s.row(c))
		}
	}
	return rows, nil
}

func (s *fakeChirpStore) GetWithAuthor(_ context.Context, chirpID uint) (*model.ChirpWithAuthor, error) {
	s.calls = append(s.calls, "GetWithAuthor")
	c, ok := s.chirps[chirpID]
	if !ok || s.hideAfterWrite {
		return nil, nil
	}
	r := s.row(c)
	return &r, nil
}

func (s *fakeChirpStore) IsAuthor(_ context.Context, chirpID, userID uint) (bool, error) {
	s.calls = append(s.calls, "IsAuthor")
	c, ok := s.chirps[chirpID]
	return ok && c.UserID == userID, nil
}

func (s *fakeChirpStore) Update(_ context.Context, chirpID, userID uint, message string) (bool, error) {
	s.calls = append(s.calls, "Update")
	c, ok := s.chirps[chirpID]
	if !ok || c.UserID != userID {
		return false, nil
	}
	s.now++
	c.Message = message
	c.UpdatedAt = s.now
	return true, nil
}

func (s *fakeChirpStore) GetOwner(_ context.Context, chirpID uint) (*model.ChirpOwner, error) {
	s.calls = append(s.calls, "GetOwner")
	c, ok := s.chirps[chirpID]
	if !ok {
		return nil, nil
	}
	return &model.ChirpOwner{ID: c.ID, UserID: c.UserID}, nil
}

func (s *fakeChirpStore) Delete(_ context.Context, chirpID, userID uint) (bool, error) {
	s.calls = append(s.calls, "Delete")
	c, ok := s.chirps[chirpID]
	if !ok || c.UserID != userID {
		return false, nil
	}
	delete(s.chirps, chirpID)
	return true, nil
}

var errStoreDown = errors.New("connection reset by peer")
