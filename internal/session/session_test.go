// internal/session/session_test.go
package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcello-store/storefront-backend/internal/domain/cart"
	"github.com/marcello-store/storefront-backend/internal/domain/favorites"
	"github.com/marcello-store/storefront-backend/internal/domain/recent"
)

// testWindow keeps debounce timing fast but observable in tests.
const testWindow = 20 * time.Millisecond

var errStoreDown = errors.New("store down")

type fakeCartStore struct {
	mu      sync.Mutex
	data    map[string]cart.Cart
	loadErr error
	saveErr error
	saves   int
	clears  int
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{data: make(map[string]cart.Cart)}
}

func (f *fakeCartStore) Load(_ context.Context, owner string) (*cart.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	snapshot, ok := f.data[owner]
	if !ok {
		return nil, nil
	}
	return &snapshot, nil
}

func (f *fakeCartStore) Save(_ context.Context, owner string, snapshot cart.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.data[owner] = snapshot
	return nil
}

func (f *fakeCartStore) Clear(_ context.Context, owner string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	delete(f.data, owner)
	return nil
}

func (f *fakeCartStore) saved(owner string) (cart.Cart, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot, ok := f.data[owner]
	return snapshot, ok
}

func (f *fakeCartStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

type fakeFavoritesStore struct {
	mu      sync.Mutex
	data    map[string]favorites.Set
	loadErr error
	saveErr error
	saves   int
	clears  int
}

func newFakeFavoritesStore() *fakeFavoritesStore {
	return &fakeFavoritesStore{data: make(map[string]favorites.Set)}
}

func (f *fakeFavoritesStore) Load(_ context.Context, owner string) (*favorites.Set, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	snapshot, ok := f.data[owner]
	if !ok {
		return nil, nil
	}
	return &snapshot, nil
}

func (f *fakeFavoritesStore) Save(_ context.Context, owner string, snapshot favorites.Set) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.data[owner] = snapshot
	return nil
}

func (f *fakeFavoritesStore) Clear(_ context.Context, owner string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	delete(f.data, owner)
	return nil
}

func (f *fakeFavoritesStore) saved(owner string) (favorites.Set, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot, ok := f.data[owner]
	return snapshot, ok
}

type fakeRecentStore struct {
	mu     sync.Mutex
	data   map[string]recent.List
	saves  int
	clears int
}

func newFakeRecentStore() *fakeRecentStore {
	return &fakeRecentStore{data: make(map[string]recent.List)}
}

func (f *fakeRecentStore) Load(_ context.Context, owner string) (recent.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[owner], nil
}

func (f *fakeRecentStore) Save(_ context.Context, owner string, list recent.List) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	f.data[owner] = list
	return nil
}

func (f *fakeRecentStore) Clear(_ context.Context, owner string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	delete(f.data, owner)
	return nil
}

type fakeBridge struct {
	mu       sync.Mutex
	loggedIn bool
	userID   string
	subs     []func()
}

func (b *fakeBridge) IsLoggedIn() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loggedIn
}

func (b *fakeBridge) CurrentUserID() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.loggedIn {
		return "", false
	}
	return b.userID, true
}

func (b *fakeBridge) Subscribe(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
	return func() {}
}

func (b *fakeBridge) login(userID string) {
	b.mu.Lock()
	b.loggedIn = true
	b.userID = userID
	subs := append([]func(){}, b.subs...)
	b.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

type fixture struct {
	cartLocal  *fakeCartStore
	cartRemote *fakeCartStore
	favLocal   *fakeFavoritesStore
	favRemote  *fakeFavoritesStore
	recent     *fakeRecentStore
	bridge     *fakeBridge
	sess       *Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		cartLocal:  newFakeCartStore(),
		cartRemote: newFakeCartStore(),
		favLocal:   newFakeFavoritesStore(),
		favRemote:  newFakeFavoritesStore(),
		recent:     newFakeRecentStore(),
		bridge:     &fakeBridge{},
	}

	f.sess = New("sess-1", Deps{
		CartLocal:       f.cartLocal,
		CartRemote:      f.cartRemote,
		FavoritesLocal:  f.favLocal,
		FavoritesRemote: f.favRemote,
		Recent:          f.recent,
		Bridge:          f.bridge,
		Window:          testWindow,
	})
	t.Cleanup(f.sess.Close)

	return f
}

func testProduct(id string) cart.ProductSummary {
	return cart.ProductSummary{ID: id, Name: "Product " + id, Price: decimal.NewFromInt(10)}
}

func testFavorite(id string) favorites.Item {
	return favorites.Item{ProductID: id, Name: "Product " + id}
}

// waitForWrites gives the debounce timer room to fire.
func waitForWrites() {
	time.Sleep(5 * testWindow)
}

func TestLoad(t *testing.T) {
	t.Run("anonymous session hydrates from session storage", func(t *testing.T) {
		f := newFixture(t)
		stored, err := cart.Add(cart.Empty(), testProduct("p1"), "M", cart.Color{Name: "Black"}, 2)
		require.NoError(t, err)
		f.cartLocal.data["sess-1"] = stored
		f.favLocal.data["sess-1"] = favorites.Add(favorites.Empty(), testFavorite("p2"))

		f.sess.Load(context.Background())

		assert.Equal(t, 2, f.sess.Cart().TotalItems)
		assert.True(t, f.sess.Favorites().Contains("p2"))
	})

	t.Run("authenticated session hydrates from the remote record", func(t *testing.T) {
		f := newFixture(t)
		f.bridge.login("42")
		stored, err := cart.Add(cart.Empty(), testProduct("p1"), "M", cart.Color{Name: "Black"}, 3)
		require.NoError(t, err)
		f.cartRemote.data["42"] = stored

		f.sess.Load(context.Background())

		assert.Equal(t, 3, f.sess.Cart().TotalItems)
	})

	t.Run("remote failure degrades to the session snapshot", func(t *testing.T) {
		f := newFixture(t)
		f.bridge.login("42")
		f.cartRemote.loadErr = errStoreDown
		stored, err := cart.Add(cart.Empty(), testProduct("p1"), "M", cart.Color{Name: "Black"}, 1)
		require.NoError(t, err)
		f.cartLocal.data["sess-1"] = stored

		f.sess.Load(context.Background())

		assert.Equal(t, 1, f.sess.Cart().TotalItems)
	})
}

func TestDebouncedPersistence(t *testing.T) {
	t.Run("a burst of mutations collapses into one save", func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, f.sess.AddLineItem(testProduct("p1"), "M", cart.Color{Name: "Black"}, 1))
		require.NoError(t, f.sess.AddLineItem(testProduct("p1"), "M", cart.Color{Name: "Black"}, 1))
		f.sess.SetQuantity("p1-M-Black", 5)

		waitForWrites()

		assert.Equal(t, 1, f.cartLocal.saveCount())
		saved, ok := f.cartLocal.saved("sess-1")
		require.True(t, ok)
		assert.Equal(t, 5, saved.TotalItems)
	})

	t.Run("a later mutation supersedes an unfired write", func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, f.sess.AddLineItem(testProduct("p1"), "M", cart.Color{Name: "Black"}, 1))
		time.Sleep(testWindow / 2)
		f.sess.RemoveLineItem("p1-M-Black")

		waitForWrites()

		assert.Equal(t, 1, f.cartLocal.saveCount())
		saved, ok := f.cartLocal.saved("sess-1")
		require.True(t, ok)
		assert.True(t, saved.IsEmpty())
	})

	t.Run("authenticated mutations persist to the remote record", func(t *testing.T) {
		f := newFixture(t)
		f.bridge.login("42")
		f.sess.Load(context.Background())

		require.NoError(t, f.sess.AddLineItem(testProduct("p1"), "M", cart.Color{Name: "Black"}, 2))
		waitForWrites()

		saved, ok := f.cartRemote.saved("42")
		require.True(t, ok)
		assert.Equal(t, 2, saved.TotalItems)
		assert.Equal(t, 0, f.cartLocal.saveCount())
	})

	t.Run("a failed remote save keeps the session copy", func(t *testing.T) {
		f := newFixture(t)
		f.bridge.login("42")
		f.sess.Load(context.Background())
		f.cartRemote.saveErr = errStoreDown

		require.NoError(t, f.sess.AddLineItem(testProduct("p1"), "M", cart.Color{Name: "Black"}, 2))
		waitForWrites()

		saved, ok := f.cartLocal.saved("sess-1")
		require.True(t, ok)
		assert.Equal(t, 2, saved.TotalItems)
	})

	t.Run("favorites and recently viewed persist independently", func(t *testing.T) {
		f := newFixture(t)

		f.sess.ToggleFavorite(testFavorite("p1"))
		f.sess.RecordView(recent.Product{ProductID: "p2"})

		waitForWrites()

		favs, ok := f.favLocal.saved("sess-1")
		require.True(t, ok)
		assert.True(t, favs.Contains("p1"))

		f.recent.mu.Lock()
		list := f.recent.data["sess-1"]
		f.recent.mu.Unlock()
		require.Len(t, list, 1)
		assert.Equal(t, "p2", list[0].ProductID)
	})
}

func TestAddLineItem(t *testing.T) {
	f := newFixture(t)

	err := f.sess.AddLineItem(testProduct("p1"), "M", cart.Color{Name: "Black"}, 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	assert.True(t, f.sess.Cart().IsEmpty())

	waitForWrites()
	assert.Equal(t, 0, f.cartLocal.saveCount())
}

func TestToggleFavorite(t *testing.T) {
	f := newFixture(t)

	assert.True(t, f.sess.ToggleFavorite(testFavorite("p1")))
	assert.True(t, f.sess.IsFavorite("p1"))

	assert.False(t, f.sess.ToggleFavorite(testFavorite("p1")))
	assert.False(t, f.sess.IsFavorite("p1"))
}

func TestSyncOnLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous session is a no-op", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.sess.SyncOnLogin(ctx))
		assert.Equal(t, 0, f.cartRemote.saveCount())
	})

	t.Run("empty remote record inherits the guest cart", func(t *testing.T) {
		f := newFixture(t)
		guest, err := cart.Add(cart.Empty(), testProduct("p1"), "M", cart.Color{Name: "Black"}, 2)
		require.NoError(t, err)
		f.cartLocal.data["sess-1"] = guest

		f.bridge.login("42")
		require.NoError(t, f.sess.SyncOnLogin(ctx))

		saved, ok := f.cartRemote.saved("42")
		require.True(t, ok)
		assert.Equal(t, 2, saved.TotalItems)
		assert.Equal(t, 2, f.sess.Cart().TotalItems)

		// Guest snapshot must not resurface in a later anonymous session
		_, ok = f.cartLocal.saved("sess-1")
		assert.False(t, ok)
	})

	t.Run("existing remote cart wins outright", func(t *testing.T) {
		f := newFixture(t)
		guest, err := cart.Add(cart.Empty(), testProduct("guest"), "M", cart.Color{Name: "Black"}, 1)
		require.NoError(t, err)
		f.cartLocal.data["sess-1"] = guest

		remote, err := cart.Add(cart.Empty(), testProduct("acct"), "L", cart.Color{Name: "White"}, 3)
		require.NoError(t, err)
		f.cartRemote.data["42"] = remote

		f.bridge.login("42")
		require.NoError(t, f.sess.SyncOnLogin(ctx))

		state := f.sess.Cart()
		require.Len(t, state.Items, 1)
		assert.Equal(t, "acct", state.Items[0].ProductID)

		// The remote record is not rewritten and the guest copy is gone
		assert.Equal(t, 0, f.cartRemote.saveCount())
		_, ok := f.cartLocal.saved("sess-1")
		assert.False(t, ok)
	})

	t.Run("remote failure keeps the guest snapshot in place", func(t *testing.T) {
		f := newFixture(t)
		guest, err := cart.Add(cart.Empty(), testProduct("p1"), "M", cart.Color{Name: "Black"}, 2)
		require.NoError(t, err)
		f.cartLocal.data["sess-1"] = guest
		f.cartRemote.loadErr = errStoreDown

		f.bridge.login("42")
		require.NoError(t, f.sess.SyncOnLogin(ctx))

		assert.Equal(t, 2, f.sess.Cart().TotalItems)
		_, ok := f.cartLocal.saved("sess-1")
		assert.True(t, ok, "guest snapshot must survive a failed merge")
	})

	t.Run("favorites merge by union on product id", func(t *testing.T) {
		f := newFixture(t)
		f.favLocal.data["sess-1"] = favorites.ReplaceAll([]favorites.Item{
			testFavorite("p2"), testFavorite("p3"),
		})
		f.favRemote.data["42"] = favorites.ReplaceAll([]favorites.Item{
			testFavorite("p1"), testFavorite("p2"),
		})

		f.bridge.login("42")
		require.NoError(t, f.sess.SyncOnLogin(ctx))

		merged := f.sess.Favorites()
		assert.Equal(t, 3, merged.TotalItems)
		for _, id := range []string{"p1", "p2", "p3"} {
			assert.True(t, merged.Contains(id), id)
		}

		saved, ok := f.favRemote.saved("42")
		require.True(t, ok)
		assert.Equal(t, 3, saved.TotalItems)

		_, ok = f.favLocal.saved("sess-1")
		assert.False(t, ok)
	})

	t.Run("login cancels a pending guest write", func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, f.sess.AddLineItem(testProduct("p1"), "M", cart.Color{Name: "Black"}, 1))
		f.bridge.login("42")
		require.NoError(t, f.sess.SyncOnLogin(ctx))

		waitForWrites()

		// The pre-login write was scheduled under the old epoch and must
		// not land after the transition.
		assert.Equal(t, 0, f.cartLocal.saveCount())
	})
}

func TestOnLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("purges session state but leaves the remote record untouched", func(t *testing.T) {
		f := newFixture(t)
		remote, err := cart.Add(cart.Empty(), testProduct("p1"), "M", cart.Color{Name: "Black"}, 2)
		require.NoError(t, err)
		f.cartRemote.data["42"] = remote
		f.bridge.login("42")
		f.sess.Load(ctx)
		require.Equal(t, 2, f.sess.Cart().TotalItems)

		f.sess.OnLogout(ctx)

		assert.True(t, f.sess.Cart().IsEmpty())
		assert.True(t, f.sess.Favorites().IsEmpty())

		saved, ok := f.cartRemote.saved("42")
		require.True(t, ok, "remote record survives logout")
		assert.Equal(t, 2, saved.TotalItems)
	})

	t.Run("drops writes scheduled before the transition", func(t *testing.T) {
		f := newFixture(t)
		f.bridge.login("42")
		f.sess.Load(ctx)

		require.NoError(t, f.sess.AddLineItem(testProduct("p1"), "M", cart.Color{Name: "Black"}, 1))
		f.sess.OnLogout(ctx)

		waitForWrites()

		// The emptied cart must not overwrite the account record, and the
		// pre-logout write must not land anywhere.
		assert.Equal(t, 0, f.cartRemote.saveCount())
		assert.Equal(t, 0, f.cartLocal.saveCount())
	})

	t.Run("clears the guest snapshots", func(t *testing.T) {
		f := newFixture(t)
		f.cartLocal.data["sess-1"] = cart.Empty()
		f.favLocal.data["sess-1"] = favorites.Empty()
		f.bridge.login("42")

		f.sess.OnLogout(ctx)

		_, ok := f.cartLocal.saved("sess-1")
		assert.False(t, ok)
		_, ok = f.favLocal.saved("sess-1")
		assert.False(t, ok)
	})
}

func TestClearRecentlyViewed(t *testing.T) {
	f := newFixture(t)
	f.sess.RecordView(recent.Product{ProductID: "p1"})

	f.sess.ClearRecentlyViewed(context.Background())

	assert.Empty(t, f.sess.RecentlyViewed())

	waitForWrites()
	f.recent.mu.Lock()
	_, ok := f.recent.data["sess-1"]
	f.recent.mu.Unlock()
	assert.False(t, ok)
}

func TestManager(t *testing.T) {
	t.Run("returns the same session for the same id", func(t *testing.T) {
		m := NewManager(ManagerDeps{
			CartLocal:       newFakeCartStore(),
			CartRemote:      newFakeCartStore(),
			FavoritesLocal:  newFakeFavoritesStore(),
			FavoritesRemote: newFakeFavoritesStore(),
			Recent:          newFakeRecentStore(),
			Window:          testWindow,
		})
		defer m.Close()

		ctx := context.Background()
		a := m.Get(ctx, "sess-1")
		b := m.Get(ctx, "sess-1")
		c := m.Get(ctx, "sess-2")

		assert.Same(t, a, b)
		assert.NotSame(t, a, c)
	})

	t.Run("hydrates on first use", func(t *testing.T) {
		cartLocal := newFakeCartStore()
		stored, err := cart.Add(cart.Empty(), testProduct("p1"), "M", cart.Color{Name: "Black"}, 2)
		require.NoError(t, err)
		cartLocal.data["sess-1"] = stored

		m := NewManager(ManagerDeps{
			CartLocal:       cartLocal,
			CartRemote:      newFakeCartStore(),
			FavoritesLocal:  newFakeFavoritesStore(),
			FavoritesRemote: newFakeFavoritesStore(),
			Recent:          newFakeRecentStore(),
			Window:          testWindow,
		})
		defer m.Close()

		s := m.Get(context.Background(), "sess-1")
		assert.Equal(t, 2, s.Cart().TotalItems)
	})
}
