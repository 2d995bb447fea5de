package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Payphone-Digital/chirpy/internal/model"
	"github.com/Payphone-Digital/chirpy/pkg/redis"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.RefreshToken{}, &model.Chirp{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) model.User {
	t.Helper()
	u := model.User{Name: name, Email: email, Password: "hash"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

var errCacheDown = errors.New("cache down")

var _ redis.Client = (*memCache)(nil)

// memCache is an in-memory stand-in for the Redis set operations.
type memCache struct {
	mu      sync.Mutex
	sets    map[string]map[string]bool
	ttls    map[string]time.Duration
	fail    bool
	lookups int
}

func newMemCache() *memCache {
	return &memCache{
		sets: make(map[string]map[string]bool),
		ttls: make(map[string]time.Duration),
	}
}

func (m *memCache) IsEnabled() bool            { return true }
func (m *memCache) Ping(context.Context) error { return nil }
func (m *memCache) Close() error               { return nil }

func (m *memCache) SAdd(_ context.Context, key, member string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errCacheDown
	}
	if m.sets[key] == nil {
		m.sets[key] = make(map[string]bool)
	}
	m.sets[key][member] = true
	m.ttls[key] = ttl
	return nil
}

func (m *memCache) SIsMember(_ context.Context, key, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.fail {
		return false, errCacheDown
	}
	return m.sets[key][member], nil
}
