// internal/pkg/auth/credential.go
package auth

import (
	"strconv"
	"sync"
)

// Keyring holds the access token for one browser session. It is the
// server-side stand-in for the credential slot the storefront keeps in web
// storage: the cart/favorites sync layer only ever asks it "is a valid,
// non-expired credential present" and "whose is it", and gets notified
// when the answer may have changed. It never hands the token itself to the
// sync layer.
type Keyring struct {
	jwt *JWTManager

	mu    sync.Mutex
	token string
	subs  map[int]func()
	next  int
}

// NewKeyring creates an empty credential slot.
func NewKeyring(jwt *JWTManager) *Keyring {
	return &Keyring{
		jwt:  jwt,
		subs: make(map[int]func()),
	}
}

// SetToken stores a freshly issued access token and notifies subscribers.
// Re-presenting the token already held is a no-op, so request middleware
// can bind the bearer token on every call without churning subscribers.
func (k *Keyring) SetToken(token string) {
	k.mu.Lock()
	if k.token == token {
		k.mu.Unlock()
		return
	}
	k.token = token
	k.mu.Unlock()
	k.notify()
}

// ClearToken drops the stored credential and notifies subscribers.
func (k *Keyring) ClearToken() {
	k.mu.Lock()
	k.token = ""
	k.mu.Unlock()
	k.notify()
}

// IsLoggedIn reports whether a valid, non-expired access token is present.
func (k *Keyring) IsLoggedIn() bool {
	_, ok := k.claims()
	return ok
}

// CurrentUserID returns the user id carried by the credential, if one is
// present and still valid.
func (k *Keyring) CurrentUserID() (string, bool) {
	claims, ok := k.claims()
	if !ok {
		return "", false
	}
	return strconv.FormatUint(uint64(claims.UserID), 10), true
}

// Subscribe registers a change callback and returns its unsubscribe
// function.
func (k *Keyring) Subscribe(fn func()) func() {
	k.mu.Lock()
	defer k.mu.Unlock()

	id := k.next
	k.next++
	k.subs[id] = fn

	return func() {
		k.mu.Lock()
		defer k.mu.Unlock()
		delete(k.subs, id)
	}
}

func (k *Keyring) claims() (*Claims, bool) {
	k.mu.Lock()
	token := k.token
	k.mu.Unlock()

	if token == "" {
		return nil, false
	}

	// Expiry is checked as part of validation; an expired credential reads
	// the same as no credential.
	claims, err := k.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func (k *Keyring) notify() {
	k.mu.Lock()
	fns := make([]func(), 0, len(k.subs))
	for _, fn := range k.subs {
		fns = append(fns, fn)
	}
	k.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Registry hands out one Keyring per session id.
type Registry struct {
	jwt *JWTManager

	mu    sync.Mutex
	rings map[string]*Keyring
}

// NewRegistry creates a keyring registry.
func NewRegistry(jwt *JWTManager) *Registry {
	return &Registry{
		jwt:   jwt,
		rings: make(map[string]*Keyring),
	}
}

// For returns the keyring for a session, creating it on first use.
func (r *Registry) For(sessionID string) *Keyring {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ring, ok := r.rings[sessionID]; ok {
		return ring
	}
	ring := NewKeyring(r.jwt)
	r.rings[sessionID] = ring
	return ring
}

// Drop removes a session's keyring.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rings, sessionID)
}
