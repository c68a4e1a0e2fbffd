// internal/session/service.go
// Session and store resolution. The session object is explicit and injected;
// there is no ambient mutable global. Lifecycle: created on load, mutated
// only by login/logout/store-change, torn down on logout.

package session

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sweepstouch/registration-gateway/internal/backend"
)

// Backend is the slice of the remote API the session layer needs.
type Backend interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResult, error)
	Me(ctx context.Context, credential string) (*backend.User, error)
	StoreByID(ctx context.Context, credential, id string) (*backend.Store, error)
	StoreByOwner(ctx context.Context, credential, ownerID string) (*backend.Store, error)
	SweepstakeStores(ctx context.Context, credential, sweepstakeID string) ([]backend.Store, error)
}

// Config for the session service.
type Config struct {
	JWTSecret           string
	TokenTTL            time.Duration
	LegacyStoreIDs      map[string]string // old store ID -> replacement, for stale QR codes
	DefaultSweepstakeID string            // campaign whose stores feed the picker
}

// Service resolves and mutates sessions.
type Service struct {
	api    Backend
	kv     KVStore
	config *Config
}

// NewService creates a session service.
func NewService(api Backend, kv KVStore, config *Config) *Service {
	if config.TokenTTL <= 0 {
		config.TokenTTL = 12 * time.Hour
	}
	return &Service{api: api, kv: kv, config: config}
}

// Login authenticates against the backend, stashes the backend credential
// under a fresh session key and mints the gateway token the UI will carry.
// Sessions are rejected for any role outside the allow-list.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	result, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if !AllowedRoles[result.User.Role] {
		log.Printf("Login rejected for role %q", result.User.Role)
		return nil, &backend.Error{
			Kind:    backend.KindUnauthorized,
			Message: "This account cannot use the registration app",
		}
	}

	sessionID := uuid.NewString()
	if err := s.kv.SaveCredential(ctx, sessionID, result.Token); err != nil {
		return nil, err
	}

	sess := &Session{ID: sessionID, User: result.User}
	s.attachStore(ctx, sess, result.Token)

	token, err := GenerateToken(sessionID, result.User.ID, result.User.Role, s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{Token: token, Session: sess}, nil
}

// Bootstrap resolves the session for a page load. A store identifier in the
// URL wins: the flow is public and auth lookups are skipped entirely.
// Otherwise the gateway token (when present and valid) is resolved against
// the backend; any failure there means "logged out", never an error.
func (s *Service) Bootstrap(ctx context.Context, claims *Claims, urlStoreID string) (*Session, error) {
	if urlStoreID != "" {
		storeID := s.remapLegacyStore(urlStoreID)
		store, err := s.api.StoreByID(ctx, "", storeID)
		if err != nil {
			return nil, err
		}
		return &Session{Store: store, Public: true}, nil
	}

	if claims == nil {
		return &Session{}, nil
	}
	return s.Resolve(ctx, claims), nil
}

// Resolve rebuilds the session behind a validated gateway token. Every
// failure path degrades to an anonymous session; a dead credential is also
// dropped from the side channel so it is not retried forever.
func (s *Service) Resolve(ctx context.Context, claims *Claims) *Session {
	credential, err := s.kv.Credential(ctx, claims.SessionID)
	if err != nil {
		return &Session{}
	}

	user, err := s.api.Me(ctx, credential)
	if err != nil {
		if backend.IsKind(err, backend.KindUnauthorized) {
			_ = s.kv.Delete(ctx, claims.SessionID)
		}
		return &Session{}
	}

	if !AllowedRoles[user.Role] {
		log.Printf("Session for role %q rejected, clearing", user.Role)
		_ = s.kv.Delete(ctx, claims.SessionID)
		return &Session{}
	}

	sess := &Session{ID: claims.SessionID, User: user}
	s.attachStore(ctx, sess, credential)
	return sess
}

// attachStore resolves the session's active store: merchants own one, so it
// is looked up by owner; promoters keep their last selection in the side
// channel. A missing store is not an error at this point.
func (s *Service) attachStore(ctx context.Context, sess *Session, credential string) {
	switch sess.User.Role {
	case RoleMerchant:
		store, err := s.api.StoreByOwner(ctx, credential, sess.User.ID)
		if err != nil {
			log.Printf("Failed to load merchant store for %s: %v", sess.User.ID, err)
			return
		}
		sess.Store = store
		_ = s.kv.SaveStoreID(ctx, sess.ID, store.ID)
	case RolePromotor:
		storeID, err := s.kv.StoreID(ctx, sess.ID)
		if err != nil || storeID == "" {
			return
		}
		store, err := s.api.StoreByID(ctx, credential, storeID)
		if err != nil {
			log.Printf("Failed to load selected store %s: %v", storeID, err)
			return
		}
		sess.Store = store
	}
}

// SelectStore switches the session's active store.
func (s *Service) SelectStore(ctx context.Context, claims *Claims, storeID string) (*backend.Store, error) {
	credential, err := s.kv.Credential(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	store, err := s.api.StoreByID(ctx, credential, s.remapLegacyStore(storeID))
	if err != nil {
		return nil, err
	}
	if err := s.kv.SaveStoreID(ctx, claims.SessionID, store.ID); err != nil {
		return nil, err
	}
	return store, nil
}

// ListStores returns the stores participating in the default campaign, for
// the promoter's store picker.
func (s *Service) ListStores(ctx context.Context, claims *Claims) ([]backend.Store, error) {
	credential, err := s.kv.Credential(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	return s.api.SweepstakeStores(ctx, credential, s.config.DefaultSweepstakeID)
}

// ChangeStore clears the store selection, sending the UI back to the picker.
func (s *Service) ChangeStore(ctx context.Context, claims *Claims) error {
	return s.kv.DeleteStoreID(ctx, claims.SessionID)
}

// Logout drops the backend credential and the store selection.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	return s.kv.Delete(ctx, claims.SessionID)
}

// Credential exposes the backend credential for other services acting on the
// session's behalf (shift lookups, participant registration).
func (s *Service) Credential(ctx context.Context, sessionID string) (string, error) {
	return s.kv.Credential(ctx, sessionID)
}

// JWTSecret is used by the middleware to validate tokens.
func (s *Service) JWTSecret() string {
	return s.config.JWTSecret
}

// remapLegacyStore rewrites retired store IDs that are still in the wild on
// printed QR codes.
func (s *Service) remapLegacyStore(storeID string) string {
	if replacement, ok := s.config.LegacyStoreIDs[storeID]; ok && replacement != "" {
		return replacement
	}
	return storeID
}
