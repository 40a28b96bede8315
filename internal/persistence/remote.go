// internal/persistence/remote.go
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marcello-store/storefront-backend/internal/domain/cart"
	"github.com/marcello-store/storefront-backend/internal/domain/favorites"
)

// RemoteCartStore keeps one cart snapshot row per authenticated user.
// Save is an upsert; a missing row loads as (nil, nil), not an error.
type RemoteCartStore struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewRemoteCartStore creates a per-user cart snapshot store.
func NewRemoteCartStore(db *gorm.DB, log *logrus.Logger) *RemoteCartStore {
	return &RemoteCartStore{db: db, log: log}
}

func (s *RemoteCartStore) Load(ctx context.Context, userID string) (*cart.Cart, error) {
	var rec CartRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for user %s: %w", userID, err)
	}

	var snapshot cart.Cart
	if err := json.Unmarshal([]byte(rec.Payload), &snapshot); err != nil {
		if s.log != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("discarding corrupt cart snapshot")
		}
		return nil, nil
	}
	return &snapshot, nil
}

func (s *RemoteCartStore) Save(ctx context.Context, userID string, snapshot cart.Cart) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode cart for user %s: %w", userID, err)
	}

	rec := CartRecord{
		UserID:    userID,
		Payload:   string(payload),
		UpdatedAt: time.Now().UTC(),
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
}

func (s *RemoteCartStore) Clear(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&CartRecord{}).Error
}

// RemoteFavoritesStore keeps one favorites snapshot row per user, with the
// same contract as RemoteCartStore.
type RemoteFavoritesStore struct {
	db  *gorm.DB
	log *logrus.Logger
}

// NewRemoteFavoritesStore creates a per-user favorites snapshot store.
func NewRemoteFavoritesStore(db *gorm.DB, log *logrus.Logger) *RemoteFavoritesStore {
	return &RemoteFavoritesStore{db: db, log: log}
}

func (s *RemoteFavoritesStore) Load(ctx context.Context, userID string) (*favorites.Set, error) {
	var rec FavoritesRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites for user %s: %w", userID, err)
	}

	var snapshot favorites.Set
	if err := json.Unmarshal([]byte(rec.Payload), &snapshot); err != nil {
		if s.log != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("discarding corrupt favorites snapshot")
		}
		return nil, nil
	}
	return &snapshot, nil
}

func (s *RemoteFavoritesStore) Save(ctx context.Context, userID string, snapshot favorites.Set) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode favorites for user %s: %w", userID, err)
	}

	rec := FavoritesRecord{
		UserID:    userID,
		Payload:   string(payload),
		UpdatedAt: time.Now().UTC(),
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
}

func (s *RemoteFavoritesStore) Clear(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&FavoritesRecord{}).Error
}
