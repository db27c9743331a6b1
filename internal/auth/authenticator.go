package auth

import (
	"context"
	"time"
)

// DefaultLoginDelay stands in for the round trip of a real authentication call.
const DefaultLoginDelay = 1500 * time.Millisecond

// Authenticator checks a validated email/password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) error
}

// DemoAuthenticator accepts every pair after a fixed delay. There is no
// credential store behind it.
type DemoAuthenticator struct {
	delay time.Duration
}

// NewDemoAuthenticator creates an authenticator that waits delay before succeeding.
func NewDemoAuthenticator(delay time.Duration) *DemoAuthenticator {
	return &DemoAuthenticator{delay: delay}
}

// Authenticate waits out the delay. It fails only if ctx ends first.
func (a *DemoAuthenticator) Authenticate(ctx context.Context, _, _ string) error {
	if a.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(a.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
