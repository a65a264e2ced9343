package provider

import (
	"context"
	"sync"
	"time"

	"hotel-broker/logger"
)

// tokenManager caches the provider credential set. Reads are cheap and
// concurrent; a refresh is performed by at most one caller at a time, with a
// double-check under the lock so waiters reuse the fresh token instead of
// refreshing again.
type tokenManager struct {
	mu           sync.Mutex
	token        string
	refreshToken string
	expiresAt    time.Time

	authenticate func(ctx context.Context) (*AuthResponse, error)
}

func newTokenManager(authenticate func(ctx context.Context) (*AuthResponse, error)) *tokenManager {
	return &tokenManager{authenticate: authenticate}
}

// expirySlack renews tokens slightly early so in-flight requests never carry
// a token that expires mid-call.
const expirySlack = 30 * time.Second

func (tm *tokenManager) Token(ctx context.Context) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.token != "" && time.Now().Add(expirySlack).Before(tm.expiresAt) {
		return tm.token, nil
	}

	resp, err := tm.authenticate(ctx)
	if err != nil {
		return "", err
	}

	tm.token = resp.Token
	tm.refreshToken = resp.RefreshToken
	tm.expiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	logger.Debug("provider token refreshed")

	return tm.token, nil
}

// Invalidate drops the cached token so the next call re-authenticates. Used
// when the provider answers 401 despite an apparently valid token.
func (tm *tokenManager) Invalidate() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.token = ""
	tm.expiresAt = time.Time{}
}
