// internal/session/stores.go
package session

import (
	"context"

	"github.com/marcello-store/storefront-backend/internal/domain/cart"
	"github.com/marcello-store/storefront-backend/internal/domain/favorites"
	"github.com/marcello-store/storefront-backend/internal/domain/recent"
)

// CartStore persists cart snapshots for one owner. The owner is a session
// id for the local (anonymous) adapter and a user id for the remote one.
// Load returns (nil, nil) when no snapshot exists; a corrupt snapshot is
// reported the same way after the adapter logs it.
type CartStore interface {
	Load(ctx context.Context, owner string) (*cart.Cart, error)
	Save(ctx context.Context, owner string, snapshot cart.Cart) error
	Clear(ctx context.Context, owner string) error
}

// FavoritesStore persists favorites snapshots for one owner, with the same
// contract as CartStore.
type FavoritesStore interface {
	Load(ctx context.Context, owner string) (*favorites.Set, error)
	Save(ctx context.Context, owner string, snapshot favorites.Set) error
	Clear(ctx context.Context, owner string) error
}

// RecentStore persists the recently-viewed list. It only ever has a local
// flavor; recently-viewed items are session-scoped and never follow a user
// account.
type RecentStore interface {
	Load(ctx context.Context, owner string) (recent.List, error)
	Save(ctx context.Context, owner string, list recent.List) error
	Clear(ctx context.Context, owner string) error
}

// AuthBridge exposes the login state the sync controller consumes. The
// controller never inspects the credential itself; it re-derives these two
// values whenever the bridge reports a change. Subscribe registers a change
// callback and returns an unsubscribe function.
type AuthBridge interface {
	IsLoggedIn() bool
	CurrentUserID() (string, bool)
	Subscribe(fn func()) (unsubscribe func())
}
