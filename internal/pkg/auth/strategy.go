package auth

import "time"

// Strategy issues and verifies bearer tokens carrying a user id.
type Strategy interface {
	IssueToken(userID string) (string, error)
	ParseToken(token string) (string, error)
	Name() string
}

// Options configure token issuing.
type Options struct {
	TTL time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}
