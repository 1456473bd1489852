// Package session adapts the external identity provider to the narrow
// surface the application consumes: who is signed in, and a way to
// observe sign-in/sign-out. The core never computes authentication
// itself.
package session

import (
	"sync"

	"github.com/google/uuid"
)

// Provider resolves bearer tokens to user ids and broadcasts session
// changes to observers.
type Provider interface {
	// CurrentUserID resolves a token; ok is false for unknown tokens.
	CurrentUserID(token string) (userID string, ok bool)

	// Observe registers a callback invoked on sign-in and sign-out.
	// The returned function unsubscribes it.
	Observe(fn func(token, userID string, signedIn bool)) (unsubscribe func())

	// SignOut revokes a token. Unknown tokens are ignored.
	SignOut(token string)
}

// TokenProvider is an in-process Provider issuing opaque bearer tokens.
type TokenProvider struct {
	mu        sync.Mutex
	tokens    map[string]string // token -> user id
	observers map[int]func(token, userID string, signedIn bool)
	nextObs   int
}

// NewTokenProvider returns an empty provider.
func NewTokenProvider() *TokenProvider {
	return &TokenProvider{
		tokens:    make(map[string]string),
		observers: make(map[int]func(string, string, bool)),
	}
}

// SignIn issues a fresh token for the user id.
func (p *TokenProvider) SignIn(userID string) string {
	token := uuid.NewString()

	p.mu.Lock()
	p.tokens[token] = userID
	obs := p.snapshotObservers()
	p.mu.Unlock()

	for _, fn := range obs {
		fn(token, userID, true)
	}

	return token
}

// SignOut revokes the token and notifies observers.
func (p *TokenProvider) SignOut(token string) {
	p.mu.Lock()
	userID, ok := p.tokens[token]
	if ok {
		delete(p.tokens, token)
	}
	obs := p.snapshotObservers()
	p.mu.Unlock()

	if !ok {
		return
	}

	for _, fn := range obs {
		fn(token, userID, false)
	}
}

// CurrentUserID resolves the token to a user id.
func (p *TokenProvider) CurrentUserID(token string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok := p.tokens[token]

	return userID, ok
}

// Observe registers a session-change callback.
func (p *TokenProvider) Observe(fn func(token, userID string, signedIn bool)) func() {
	p.mu.Lock()
	id := p.nextObs
	p.nextObs++
	p.observers[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.observers, id)
		p.mu.Unlock()
	}
}

// snapshotObservers must be called with p.mu held.
func (p *TokenProvider) snapshotObservers() []func(string, string, bool) {
	obs := make([]func(string, string, bool), 0, len(p.observers))
	for _, fn := range p.observers {
		obs = append(obs, fn)
	}

	return obs
}
