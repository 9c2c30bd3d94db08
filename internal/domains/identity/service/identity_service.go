package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"leafside-client/internal/domains/identity/model"
	"leafside-client/internal/storage"
	"leafside-client/pkg/apiclient"
	"leafside-client/pkg/jwt"
	"leafside-client/pkg/logger"
)

const tokenKey = "token"

type IdentityService struct {
	api   *apiclient.Client
	store storage.Store

	mu      sync.RWMutex
	token   string
	profile *model.Profile

	watchMu     sync.Mutex
	watchers    map[int]func(string)
	nextWatcher int
}

func NewIdentityService(api *apiclient.Client, store storage.Store) *IdentityService {
	return &IdentityService{
		api:      api,
		store:    store,
		watchers: make(map[int]func(string)),
	}
}

func (s *IdentityService) Hydrate(ctx context.Context) error {
	stored, ok, err := s.store.Get(ctx, tokenKey)
	if err != nil {
		logger.Warn("reading stored token failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	if !ok {
		return nil
	}

	token := string(stored)

	// Skip the guaranteed 401 round trip when the token is already
	// past its exp claim.
	if expiry, err := jwt.ExpiresAt(token); err != nil || (!expiry.IsZero() && expiry.Before(time.Now())) {
		_ = s.store.Delete(ctx, tokenKey)
		return nil
	}

	s.setSession(token, nil)

	var profile model.Profile
	if err := s.api.Get(ctx, "/api/account/profile", &profile); err != nil {
		// Stored token no longer accepted; back to anonymous.
		_ = s.store.Delete(ctx, tokenKey)
		s.setSession("", nil)
		return nil
	}

	s.setProfile(&profile)
	return nil
}

func (s *IdentityService) Login(ctx context.Context, req model.LoginRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	var resp model.LoginResponse
	if err := s.api.Post(ctx, "/api/account/login", req, &resp); err != nil {
		s.clearSession(ctx)
		return fmt.Errorf("login: %w", err)
	}

	s.setSession(resp.Token, nil)
	if err := s.store.Set(ctx, tokenKey, []byte(resp.Token)); err != nil {
		logger.Warn("persisting token failed", map[string]interface{}{"error": err.Error()})
	}

	var profile model.Profile
	if err := s.api.Get(ctx, "/api/account/profile", &profile); err != nil {
		s.clearSession(ctx)
		return fmt.Errorf("load profile after login: %w", err)
	}

	s.setProfile(&profile)
	return nil
}

func (s *IdentityService) Register(ctx context.Context, req model.RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if err := s.api.Post(ctx, "/api/account/register", req, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	return s.Login(ctx, model.LoginRequest{Email: req.Email, Password: req.Password})
}

func (s *IdentityService) SignOut(ctx context.Context) error {
	s.clearSession(ctx)
	return nil
}

func (s *IdentityService) Profile(ctx context.Context) (*model.Profile, error) {
	if !s.Authenticated() {
		return nil, model.ErrNotAuthenticated
	}

	s.mu.RLock()
	cached := s.profile
	s.mu.RUnlock()
	if cached != nil {
		copied := *cached
		return &copied, nil
	}

	var profile model.Profile
	if err := s.api.Get(ctx, "/api/account/profile", &profile); err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	s.setProfile(&profile)
	return &profile, nil
}

func (s *IdentityService) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.Profile, error) {
	if !s.Authenticated() {
		return nil, model.ErrNotAuthenticated
	}

	var profile model.Profile
	if err := s.api.Put(ctx, "/api/account/profile", req, &profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.setProfile(&profile)
	return &profile, nil
}

func (s *IdentityService) RefreshToken(ctx context.Context) error {
	current := s.Token()
	if current == "" {
		return model.ErrNotAuthenticated
	}

	var resp model.LoginResponse
	body := map[string]string{"token": current}
	if err := s.api.Post(ctx, "/api/account/refresh", body, &resp); err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}

	s.setSession(resp.Token, s.cachedProfile())
	if err := s.store.Set(ctx, tokenKey, []byte(resp.Token)); err != nil {
		logger.Warn("persisting refreshed token failed", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

func (s *IdentityService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *IdentityService) Authenticated() bool {
	return s.Token() != ""
}

func (s *IdentityService) Watch(fn func(token string)) (cancel func()) {
	s.watchMu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = fn
	s.watchMu.Unlock()

	return func() {
		s.watchMu.Lock()
		delete(s.watchers, id)
		s.watchMu.Unlock()
	}
}

func (s *IdentityService) cachedProfile() *model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *IdentityService) setProfile(p *model.Profile) {
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
}

// setSession swaps the token and notifies watchers only when the value
// actually changed.
func (s *IdentityService) setSession(token string, profile *model.Profile) {
	s.mu.Lock()
	changed := s.token != token
	s.token = token
	s.profile = profile
	s.mu.Unlock()

	if changed {
		s.notify(token)
	}
}

func (s *IdentityService) clearSession(ctx context.Context) {
	if err := s.store.Delete(ctx, tokenKey); err != nil {
		logger.Warn("deleting stored token failed", map[string]interface{}{"error": err.Error()})
	}
	s.setSession("", nil)
}

func (s *IdentityService) notify(token string) {
	s.watchMu.Lock()
	fns := make([]func(string), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.watchMu.Unlock()

	for _, fn := range fns {
		fn(token)
	}
}
