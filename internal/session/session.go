// internal/session/session.go
package session

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/marcello-store/storefront-backend/internal/domain/cart"
	"github.com/marcello-store/storefront-backend/internal/domain/favorites"
	"github.com/marcello-store/storefront-backend/internal/domain/recent"
)

// DefaultDebounceWindow collapses bursts of mutations into one persist.
const DefaultDebounceWindow = 500 * time.Millisecond

// Deps carries everything a Session needs. The local stores are keyed by
// the session id, the remote ones by the authenticated user id.
type Deps struct {
	CartLocal       CartStore
	CartRemote      CartStore
	FavoritesLocal  FavoritesStore
	FavoritesRemote FavoritesStore
	Recent          RecentStore
	Bridge          AuthBridge
	Window          time.Duration
	Logger          *logrus.Logger
}

// Session is the per-browser-session state container for cart, favorites
// and recently-viewed items. Mutations apply synchronously in memory and
// schedule a debounced persist to whichever adapter is authoritative for
// the current auth state. The login merge and logout purge protocols live
// in sync.go.
type Session struct {
	id     string
	deps   Deps
	window time.Duration
	log    *logrus.Entry

	mu        sync.Mutex
	cart      cart.Cart
	favorites favorites.Set
	recent    recent.List

	loggedIn bool
	userID   string

	// epoch advances on every anonymous/authenticated transition; a
	// scheduled write carries the epoch it was scheduled under and is
	// dropped at execution time if the epoch has moved on.
	epoch uint64

	// suppress blocks new persist scheduling for the duration of the
	// logout transition so an emptied cart cannot overwrite a valid
	// remote record.
	suppress bool

	cartWrite   *pendingWrite
	favWrite    *pendingWrite
	recentWrite *pendingWrite

	unsubscribe func()
	lastSeen    time.Time
}

// New creates a session container and subscribes it to auth changes.
// Call Load before serving reads from it.
func New(id string, deps Deps) *Session {
	window := deps.Window
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	logger := deps.Logger
	if logger == nil {
		logger = logrus.New()
	}

	s := &Session{
		id:        id,
		deps:      deps,
		window:    window,
		log:       logger.WithField("session_id", id),
		cart:      cart.Empty(),
		favorites: favorites.Empty(),
		recent:    recent.List{},
		lastSeen:  time.Now().UTC(),
	}

	if deps.Bridge != nil {
		s.unsubscribe = deps.Bridge.Subscribe(s.onAuthChange)
	}

	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Load hydrates in-memory state from the authoritative adapter: the remote
// store when a valid credential is present, the local session store
// otherwise. A remote failure degrades to the local snapshot with a
// warning. The recently-viewed list is session-scoped and always loads
// locally.
func (s *Session) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshAuthLocked()

	if s.loggedIn && s.userID != "" {
		s.loadRemoteLocked(ctx)
	} else {
		s.loadLocalLocked(ctx)
	}

	if list, err := s.deps.Recent.Load(ctx, s.id); err != nil {
		s.log.WithError(err).Warn("failed to load recently viewed list")
	} else if len(list) > 0 {
		s.recent = list
	}
}

// AddLineItem adds a product/size/color combination to the cart. Returns
// ErrInvalidQuantity when qty is below 1; the cart is left untouched in
// that case.
func (s *Session) AddLineItem(product cart.ProductSummary, size string, color cart.Color, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := cart.Add(s.cart, product, size, color, qty)
	if err != nil {
		return err
	}
	s.cart = next
	s.scheduleCartSaveLocked()
	return nil
}

// RemoveLineItem removes the line item with the given key. Absent keys are
// a no-op.
func (s *Session) RemoveLineItem(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = cart.Remove(s.cart, key)
	s.scheduleCartSaveLocked()
}

// SetQuantity updates a line item's quantity. Quantities of zero or less
// leave the item unchanged.
func (s *Session) SetQuantity(key string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = cart.SetQuantity(s.cart, key, qty)
	s.scheduleCartSaveLocked()
}

// ClearCart empties the cart.
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = cart.Clear()
	s.scheduleCartSaveLocked()
}

// ToggleFavorite adds the product to favorites if absent and removes it if
// present. Returns true when the product ends up favorited.
func (s *Session) ToggleFavorite(item favorites.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.favorites = favorites.Toggle(s.favorites, item)
	s.scheduleFavoritesSaveLocked()
	return s.favorites.Contains(item.ProductID)
}

// IsFavorite reports whether the product is currently favorited.
func (s *Session) IsFavorite(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites.Contains(productID)
}

// ClearFavorites empties the favorites set.
func (s *Session) ClearFavorites() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.favorites = favorites.Clear()
	s.scheduleFavoritesSaveLocked()
}

// AdoptCart replaces the in-memory cart with an externally persisted
// snapshot. Totals are recomputed; no persist is scheduled, the caller has
// already written the snapshot.
func (s *Session) AdoptCart(items []cart.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart.ReplaceAll(items)
}

// AdoptFavorites replaces the in-memory favorites with an externally
// persisted snapshot.
func (s *Session) AdoptFavorites(items []favorites.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites = favorites.ReplaceAll(items)
}

// ClearRecentlyViewed empties the recently-viewed list and removes its
// stored copy right away.
func (s *Session) ClearRecentlyViewed(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = recent.Clear()
	s.recentWrite.cancel()
	if err := s.deps.Recent.Clear(ctx, s.id); err != nil {
		s.log.WithError(err).Warn("failed to clear recently viewed list")
	}
}

// RecordView pushes a product onto the recently-viewed list.
func (s *Session) RecordView(p recent.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = recent.Push(s.recent, p)
	s.scheduleRecentSaveLocked()
}

// Cart returns the current cart snapshot.
func (s *Session) Cart() cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Favorites returns the current favorites snapshot.
func (s *Session) Favorites() favorites.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites
}

// RecentlyViewed returns the current recently-viewed list.
func (s *Session) RecentlyViewed() recent.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recent
}

// Touch records activity for idle eviction.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now().UTC()
}

// Close cancels pending writes and the auth subscription. State already
// persisted stays persisted; an unfired debounce window is dropped, same
// as a closed browser tab.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cartWrite.cancel()
	s.favWrite.cancel()
	s.recentWrite.cancel()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// onAuthChange re-derives the login flags from the bridge. The merge and
// purge protocols are not run here; they are explicit facade calls, the
// way the login flow invokes them.
func (s *Session) onAuthChange() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshAuthLocked()
}

func (s *Session) refreshAuthLocked() {
	if s.deps.Bridge == nil {
		s.loggedIn = false
		s.userID = ""
		return
	}
	s.loggedIn = s.deps.Bridge.IsLoggedIn()
	if id, ok := s.deps.Bridge.CurrentUserID(); ok {
		s.userID = id
	} else {
		s.userID = ""
	}
}

func (s *Session) loadLocalLocked(ctx context.Context) {
	snapshot, err := s.deps.CartLocal.Load(ctx, s.id)
	if err != nil {
		s.log.WithError(err).Warn("failed to load cart from session storage")
	} else if snapshot != nil && !snapshot.IsEmpty() {
		s.cart = cart.ReplaceAll(snapshot.Items)
	}

	favs, err := s.deps.FavoritesLocal.Load(ctx, s.id)
	if err != nil {
		s.log.WithError(err).Warn("failed to load favorites from session storage")
	} else if favs != nil && !favs.IsEmpty() {
		s.favorites = favorites.ReplaceAll(favs.Items)
	}
}

func (s *Session) loadRemoteLocked(ctx context.Context) {
	snapshot, err := s.deps.CartRemote.Load(ctx, s.userID)
	if err != nil {
		s.log.WithError(err).Warn("remote cart load failed, falling back to session storage")
		if local, lerr := s.deps.CartLocal.Load(ctx, s.id); lerr == nil && local != nil && !local.IsEmpty() {
			s.cart = cart.ReplaceAll(local.Items)
		}
	} else if snapshot != nil && !snapshot.IsEmpty() {
		s.cart = cart.ReplaceAll(snapshot.Items)
	}

	favs, err := s.deps.FavoritesRemote.Load(ctx, s.userID)
	if err != nil {
		s.log.WithError(err).Warn("remote favorites load failed, falling back to session storage")
		if local, lerr := s.deps.FavoritesLocal.Load(ctx, s.id); lerr == nil && local != nil && !local.IsEmpty() {
			s.favorites = favorites.ReplaceAll(local.Items)
		}
	} else if favs != nil && !favs.IsEmpty() {
		s.favorites = favorites.ReplaceAll(favs.Items)
	}
}

func (s *Session) scheduleCartSaveLocked() {
	if s.suppress {
		return
	}
	epoch := s.epoch
	s.cartWrite = schedule(s.cartWrite, s.window, func() { s.persistCart(epoch) })
}

func (s *Session) scheduleFavoritesSaveLocked() {
	if s.suppress {
		return
	}
	epoch := s.epoch
	s.favWrite = schedule(s.favWrite, s.window, func() { s.persistFavorites(epoch) })
}

func (s *Session) scheduleRecentSaveLocked() {
	if s.suppress {
		return
	}
	epoch := s.epoch
	s.recentWrite = schedule(s.recentWrite, s.window, func() { s.persistRecent(epoch) })
}

// persistCart runs on the debounce timer. It snapshots state under the
// lock, drops the write if the epoch advanced since scheduling, and writes
// to the adapter matching the auth state at execution time. A remote
// failure degrades to the local adapter for this write.
func (s *Session) persistCart(scheduledEpoch uint64) {
	ctx := context.Background()

	s.mu.Lock()
	if s.epoch != scheduledEpoch {
		s.mu.Unlock()
		s.log.Debug("dropping stale cart write")
		return
	}
	snapshot := s.cart
	loggedIn, userID := s.loggedIn, s.userID
	s.mu.Unlock()

	if loggedIn && userID != "" {
		if err := s.deps.CartRemote.Save(ctx, userID, snapshot); err != nil {
			s.log.WithError(err).Warn("remote cart save failed, keeping session copy")
			if err := s.deps.CartLocal.Save(ctx, s.id, snapshot); err != nil {
				s.log.WithError(err).Warn("session cart save failed")
			}
		}
		return
	}

	if err := s.deps.CartLocal.Save(ctx, s.id, snapshot); err != nil {
		s.log.WithError(err).Warn("session cart save failed")
	}
}

func (s *Session) persistFavorites(scheduledEpoch uint64) {
	ctx := context.Background()

	s.mu.Lock()
	if s.epoch != scheduledEpoch {
		s.mu.Unlock()
		s.log.Debug("dropping stale favorites write")
		return
	}
	snapshot := s.favorites
	loggedIn, userID := s.loggedIn, s.userID
	s.mu.Unlock()

	if loggedIn && userID != "" {
		if err := s.deps.FavoritesRemote.Save(ctx, userID, snapshot); err != nil {
			s.log.WithError(err).Warn("remote favorites save failed, keeping session copy")
			if err := s.deps.FavoritesLocal.Save(ctx, s.id, snapshot); err != nil {
				s.log.WithError(err).Warn("session favorites save failed")
			}
		}
		return
	}

	if err := s.deps.FavoritesLocal.Save(ctx, s.id, snapshot); err != nil {
		s.log.WithError(err).Warn("session favorites save failed")
	}
}

func (s *Session) persistRecent(scheduledEpoch uint64) {
	ctx := context.Background()

	s.mu.Lock()
	if s.epoch != scheduledEpoch {
		s.mu.Unlock()
		return
	}
	snapshot := s.recent
	s.mu.Unlock()

	if err := s.deps.Recent.Save(ctx, s.id, snapshot); err != nil {
		s.log.WithError(err).Warn("recently viewed save failed")
	}
}
