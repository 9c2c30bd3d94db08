package service

import (
	"context"

	"leafside-client/internal/domains/identity/model"
)

type ServiceInterface interface {
	// Hydrate restores a persisted session at app start. A stored token
	// that is expired or rejected by the profile endpoint is discarded
	// and the session stays anonymous; Hydrate itself never fails the
	// startup.
	Hydrate(ctx context.Context) error

	// Login authenticates, persists the token and loads the profile.
	// Any failure leaves the session anonymous with no stored token.
	Login(ctx context.Context, req model.LoginRequest) error

	// Register creates the account, then signs in with the same
	// credentials.
	Register(ctx context.Context, req model.RegisterRequest) error

	// SignOut drops the in-memory session and deletes the stored token.
	SignOut(ctx context.Context) error

	// Profile returns the cached profile, fetching it when absent.
	// Returns model.ErrNotAuthenticated in anonymous mode.
	Profile(ctx context.Context) (*model.Profile, error)

	// UpdateProfile updates the remote profile and the cached copy.
	UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.Profile, error)

	// RefreshToken exchanges the current token for a fresh one.
	RefreshToken(ctx context.Context) error

	// Token returns the current bearer token, empty when anonymous.
	Token() string

	// Authenticated reports whether a token is present.
	Authenticated() bool

	// Watch registers fn to run on every token transition (sign-in,
	// sign-out, refresh). fn receives the new token, empty on sign-out.
	// The returned cancel removes the watcher.
	Watch(fn func(token string)) (cancel func())
}
