// internal/persistence/local.go
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/marcello-store/storefront-backend/internal/domain/cart"
	"github.com/marcello-store/storefront-backend/internal/domain/favorites"
	"github.com/marcello-store/storefront-backend/internal/domain/recent"
)

// Fixed slot names for the session-scoped snapshots. One slot per store per
// session; saves overwrite, they never append.
const (
	cartSlot      = "cart:session:%s"
	favoritesSlot = "favorites:session:%s"
	recentSlot    = "recently-viewed:session:%s"
)

// DefaultSessionTTL matches the guest session cookie lifetime.
const DefaultSessionTTL = 24 * time.Hour

// LocalCartStore keeps guest cart snapshots in Redis, keyed by session id.
// A corrupt snapshot reads as absent: it is logged and discarded, never
// surfaced as an error.
type LocalCartStore struct {
	rdb *redis.Client
	ttl time.Duration
	log *logrus.Logger
}

// NewLocalCartStore creates a session-scoped cart store.
func NewLocalCartStore(rdb *redis.Client, ttl time.Duration, log *logrus.Logger) *LocalCartStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &LocalCartStore{rdb: rdb, ttl: ttl, log: log}
}

func (s *LocalCartStore) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	var snapshot cart.Cart
	ok, err := loadSlot(ctx, s.rdb, s.log, fmt.Sprintf(cartSlot, sessionID), &snapshot)
	if err != nil || !ok {
		return nil, err
	}
	return &snapshot, nil
}

func (s *LocalCartStore) Save(ctx context.Context, sessionID string, snapshot cart.Cart) error {
	return saveSlot(ctx, s.rdb, fmt.Sprintf(cartSlot, sessionID), snapshot, s.ttl)
}

func (s *LocalCartStore) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, fmt.Sprintf(cartSlot, sessionID)).Err()
}

// LocalFavoritesStore keeps guest favorites snapshots in Redis.
type LocalFavoritesStore struct {
	rdb *redis.Client
	ttl time.Duration
	log *logrus.Logger
}

// NewLocalFavoritesStore creates a session-scoped favorites store.
func NewLocalFavoritesStore(rdb *redis.Client, ttl time.Duration, log *logrus.Logger) *LocalFavoritesStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &LocalFavoritesStore{rdb: rdb, ttl: ttl, log: log}
}

func (s *LocalFavoritesStore) Load(ctx context.Context, sessionID string) (*favorites.Set, error) {
	var snapshot favorites.Set
	ok, err := loadSlot(ctx, s.rdb, s.log, fmt.Sprintf(favoritesSlot, sessionID), &snapshot)
	if err != nil || !ok {
		return nil, err
	}
	return &snapshot, nil
}

func (s *LocalFavoritesStore) Save(ctx context.Context, sessionID string, snapshot favorites.Set) error {
	return saveSlot(ctx, s.rdb, fmt.Sprintf(favoritesSlot, sessionID), snapshot, s.ttl)
}

func (s *LocalFavoritesStore) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, fmt.Sprintf(favoritesSlot, sessionID)).Err()
}

// RecentStore keeps the recently-viewed list in Redis. There is no remote
// counterpart; the list never follows a user account.
type RecentStore struct {
	rdb *redis.Client
	ttl time.Duration
	log *logrus.Logger
}

// NewRecentStore creates a session-scoped recently-viewed store.
func NewRecentStore(rdb *redis.Client, ttl time.Duration, log *logrus.Logger) *RecentStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RecentStore{rdb: rdb, ttl: ttl, log: log}
}

func (s *RecentStore) Load(ctx context.Context, sessionID string) (recent.List, error) {
	var list recent.List
	ok, err := loadSlot(ctx, s.rdb, s.log, fmt.Sprintf(recentSlot, sessionID), &list)
	if err != nil || !ok {
		return nil, err
	}
	return list, nil
}

func (s *RecentStore) Save(ctx context.Context, sessionID string, list recent.List) error {
	return saveSlot(ctx, s.rdb, fmt.Sprintf(recentSlot, sessionID), list, s.ttl)
}

func (s *RecentStore) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, fmt.Sprintf(recentSlot, sessionID)).Err()
}

// loadSlot reads and decodes one snapshot slot. Returns (false, nil) when
// the slot is empty or holds junk; transport failures come back as errors.
func loadSlot(ctx context.Context, rdb *redis.Client, log *logrus.Logger, key string, dest interface{}) (bool, error) {
	data, err := rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		if log != nil {
			log.WithError(err).WithField("key", key).Warn("discarding corrupt session snapshot")
		}
		return false, nil
	}
	return true, nil
}

func saveSlot(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return rdb.Set(ctx, key, data, ttl).Err()
}
