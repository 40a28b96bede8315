// internal/session/sync.go
package session

import (
	"context"

	"github.com/marcello-store/storefront-backend/internal/domain/cart"
	"github.com/marcello-store/storefront-backend/internal/domain/favorites"
)

// SyncOnLogin runs the login merge protocol. It must be called once per
// login event, after the credential is in place. The cart merge is
// winner-takes-all: an existing remote cart beats the guest cart outright,
// and only an empty remote record inherits the guest cart. Favorites merge
// by union on product id. In both cases the guest snapshot is cleared
// afterwards so it cannot resurface in a later anonymous session; a remote
// failure keeps the guest snapshot so nothing is lost.
//
// The cart and favorites merge policies are deliberately different. That
// asymmetry is observable product behavior and is preserved as-is.
func (s *Session) SyncOnLogin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshAuthLocked()
	if !s.loggedIn || s.userID == "" {
		return nil
	}

	s.transitionLocked()

	s.mergeCartLocked(ctx, s.userID)
	s.mergeFavoritesLocked(ctx, s.userID)
	return nil
}

// OnLogout runs the logout purge: in-memory state and the guest snapshots
// are emptied, while the user's remote records are left untouched for the
// next login. Persist scheduling is suppressed for the duration of the
// transition so the emptied state cannot overwrite a valid remote record,
// and the epoch bump drops any write already scheduled.
func (s *Session) OnLogout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.suppress = true
	defer func() { s.suppress = false }()

	s.transitionLocked()

	s.cart = cart.Clear()
	s.favorites = favorites.Clear()

	if err := s.deps.CartLocal.Clear(ctx, s.id); err != nil {
		s.log.WithError(err).Warn("failed to clear session cart on logout")
	}
	if err := s.deps.FavoritesLocal.Clear(ctx, s.id); err != nil {
		s.log.WithError(err).Warn("failed to clear session favorites on logout")
	}

	s.loggedIn = false
	s.userID = ""
}

// transitionLocked marks an anonymous/authenticated boundary: the epoch
// advances so already-scheduled writes land dead, and pending timers are
// cancelled outright.
func (s *Session) transitionLocked() {
	s.epoch++
	s.cartWrite.cancel()
	s.favWrite.cancel()
	s.recentWrite.cancel()
}

func (s *Session) mergeCartLocked(ctx context.Context, userID string) {
	local, err := s.deps.CartLocal.Load(ctx, s.id)
	if err != nil {
		s.log.WithError(err).Warn("failed to read guest cart during login sync")
		local = nil
	}

	remote, err := s.deps.CartRemote.Load(ctx, userID)
	if err != nil {
		// Best effort: keep whatever the guest had, and leave the guest
		// snapshot in place so nothing is lost.
		s.log.WithError(err).Warn("remote cart load failed during login sync")
		if local != nil && !local.IsEmpty() {
			s.cart = cart.ReplaceAll(local.Items)
		}
		return
	}

	if local != nil && !local.IsEmpty() {
		if remote == nil || remote.IsEmpty() {
			// A new or previously-empty account inherits the guest cart.
			if err := s.deps.CartRemote.Save(ctx, userID, *local); err != nil {
				s.log.WithError(err).Warn("failed to adopt guest cart during login sync")
				s.cart = cart.ReplaceAll(local.Items)
				return
			}
			s.cart = cart.ReplaceAll(local.Items)
		} else {
			// Existing remote cart wins outright; the guest cart is
			// discarded without an item-level merge.
			s.cart = cart.ReplaceAll(remote.Items)
		}

		if err := s.deps.CartLocal.Clear(ctx, s.id); err != nil {
			s.log.WithError(err).Warn("failed to clear guest cart after login sync")
		}
		return
	}

	if remote != nil && !remote.IsEmpty() {
		s.cart = cart.ReplaceAll(remote.Items)
	}
}

func (s *Session) mergeFavoritesLocked(ctx context.Context, userID string) {
	local, err := s.deps.FavoritesLocal.Load(ctx, s.id)
	if err != nil {
		s.log.WithError(err).Warn("failed to read guest favorites during login sync")
		local = nil
	}

	remote, err := s.deps.FavoritesRemote.Load(ctx, userID)
	if err != nil {
		s.log.WithError(err).Warn("remote favorites load failed during login sync")
		if local != nil && !local.IsEmpty() {
			s.favorites = favorites.ReplaceAll(local.Items)
		}
		return
	}

	base := favorites.Empty()
	if remote != nil {
		base = favorites.ReplaceAll(remote.Items)
	}

	merged := base
	if local != nil && !local.IsEmpty() {
		merged = favorites.Union(base, *local)
	}

	if !merged.IsEmpty() {
		if err := s.deps.FavoritesRemote.Save(ctx, userID, merged); err != nil {
			s.log.WithError(err).Warn("failed to save merged favorites during login sync")
			if local != nil && !local.IsEmpty() {
				s.favorites = favorites.ReplaceAll(local.Items)
			}
			return
		}
		s.favorites = merged
	}

	if local != nil {
		if err := s.deps.FavoritesLocal.Clear(ctx, s.id); err != nil {
			s.log.WithError(err).Warn("failed to clear guest favorites after login sync")
		}
	}
}
