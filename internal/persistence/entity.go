// internal/persistence/entity.go
package persistence

import "time"

// CartRecord is the per-user cart snapshot row. At most one row exists per
// user; saves are upserts.
type CartRecord struct {
	UserID    string    `gorm:"primaryKey;size:64" json:"user_id"`
	Payload   string    `gorm:"type:jsonb;not null" json:"payload"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (CartRecord) TableName() string {
	return "cart_snapshots"
}

// FavoritesRecord is the per-user favorites snapshot row.
type FavoritesRecord struct {
	UserID    string    `gorm:"primaryKey;size:64" json:"user_id"`
	Payload   string    `gorm:"type:jsonb;not null" json:"payload"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (FavoritesRecord) TableName() string {
	return "favorites_snapshots"
}
