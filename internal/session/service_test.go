// internal/session/service_test.go

package session

import (
	"context"
	"errors"
	"testing"

	"github.com/sweepstouch/registration-gateway/internal/backend"
)

type fakeBackend struct {
	loginResult *backend.LoginResult
	loginErr    error
	meUser      *backend.User
	meErr       error
	stores      map[string]*backend.Store // by ID
	ownerStores map[string]*backend.Store // by owner ID

	lastStoreID    string
	lastCredential string
}

func (b *fakeBackend) Login(ctx context.Context, email, password string) (*backend.LoginResult, error) {
	return b.loginResult, b.loginErr
}

func (b *fakeBackend) Me(ctx context.Context, credential string) (*backend.User, error) {
	b.lastCredential = credential
	return b.meUser, b.meErr
}

func (b *fakeBackend) StoreByID(ctx context.Context, credential, id string) (*backend.Store, error) {
	b.lastStoreID = id
	b.lastCredential = credential
	store, ok := b.stores[id]
	if !ok {
		return nil, &backend.Error{Kind: backend.KindNotFound, Status: 404, Message: "Store not found"}
	}
	return store, nil
}

func (b *fakeBackend) StoreByOwner(ctx context.Context, credential, ownerID string) (*backend.Store, error) {
	store, ok := b.ownerStores[ownerID]
	if !ok {
		return nil, &backend.Error{Kind: backend.KindNotFound, Status: 404, Message: "Store not found"}
	}
	return store, nil
}

func (b *fakeBackend) SweepstakeStores(ctx context.Context, credential, sweepstakeID string) ([]backend.Store, error) {
	var stores []backend.Store
	for _, store := range b.stores {
		stores = append(stores, *store)
	}
	return stores, nil
}

func newTestService(api *fakeBackend) (*Service, KVStore) {
	kv := NewMemoryStore()
	svc := NewService(api, kv, &Config{
		JWTSecret:      "test-secret",
		LegacyStoreIDs: map[string]string{"old-1": "new-1"},
	})
	return svc, kv
}

func TestLoginMintsTokenForAllowedRole(t *testing.T) {
	api := &fakeBackend{
		loginResult: &backend.LoginResult{
			Token: "backend-cred",
			User:  &backend.User{ID: "u1", Role: RolePromotor},
		},
	}
	svc, kv := newTestService(api)

	resp, err := svc.Login(context.Background(), "p@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("empty gateway token")
	}
	if !resp.Session.Authenticated() || !resp.Session.IsPromotor() {
		t.Errorf("session = %+v, want authenticated promoter", resp.Session)
	}

	claims, err := ValidateToken(resp.Token, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != RolePromotor {
		t.Errorf("claims = %+v, want u1/promotor", claims)
	}

	credential, err := kv.Credential(context.Background(), claims.SessionID)
	if err != nil || credential != "backend-cred" {
		t.Errorf("stored credential = %q, %v; want backend-cred", credential, err)
	}
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	api := &fakeBackend{
		loginResult: &backend.LoginResult{
			Token: "backend-cred",
			User:  &backend.User{ID: "u2", Role: "admin"},
		},
	}
	svc, _ := newTestService(api)

	_, err := svc.Login(context.Background(), "a@example.com", "pw")
	if !backend.IsKind(err, backend.KindUnauthorized) {
		t.Fatalf("err = %v, want unauthorized kind", err)
	}
}

func TestLoginAttachesMerchantStore(t *testing.T) {
	api := &fakeBackend{
		loginResult: &backend.LoginResult{
			Token: "backend-cred",
			User:  &backend.User{ID: "m1", Role: RoleMerchant},
		},
		ownerStores: map[string]*backend.Store{"m1": {ID: "s9", Name: "Corner Market"}},
	}
	svc, _ := newTestService(api)

	resp, err := svc.Login(context.Background(), "m@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Session.Store == nil || resp.Session.Store.ID != "s9" {
		t.Errorf("store = %+v, want the merchant's own store", resp.Session.Store)
	}
}

func TestBootstrapWithURLStoreIsPublic(t *testing.T) {
	api := &fakeBackend{stores: map[string]*backend.Store{"s1": {ID: "s1", Name: "Plaza"}}}
	svc, _ := newTestService(api)

	sess, err := svc.Bootstrap(context.Background(), &Claims{SessionID: "ignored"}, "s1")
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if !sess.Public || sess.Authenticated() {
		t.Errorf("session = %+v, want public without user", sess)
	}
	if sess.Store == nil || sess.Store.ID != "s1" {
		t.Errorf("store = %+v, want s1", sess.Store)
	}
}

func TestBootstrapRemapsLegacyStoreID(t *testing.T) {
	api := &fakeBackend{stores: map[string]*backend.Store{"new-1": {ID: "new-1"}}}
	svc, _ := newTestService(api)

	sess, err := svc.Bootstrap(context.Background(), nil, "old-1")
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if api.lastStoreID != "new-1" {
		t.Errorf("looked up store %q, want remapped new-1", api.lastStoreID)
	}
	if sess.Store == nil || sess.Store.ID != "new-1" {
		t.Errorf("store = %+v, want new-1", sess.Store)
	}
}

func TestBootstrapUnknownStoreSurfacesNotFound(t *testing.T) {
	svc, _ := newTestService(&fakeBackend{})

	_, err := svc.Bootstrap(context.Background(), nil, "missing")
	if !backend.IsKind(err, backend.KindNotFound) {
		t.Fatalf("err = %v, want not-found kind", err)
	}
}

func TestBootstrapWithoutClaimsIsAnonymous(t *testing.T) {
	svc, _ := newTestService(&fakeBackend{})

	sess, err := svc.Bootstrap(context.Background(), nil, "")
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if sess.Authenticated() || sess.Public {
		t.Errorf("session = %+v, want anonymous", sess)
	}
}

func TestResolveDegradesToAnonymousOnDeadCredential(t *testing.T) {
	api := &fakeBackend{meErr: &backend.Error{Kind: backend.KindUnauthorized, Status: 401, Message: "expired"}}
	svc, kv := newTestService(api)

	if err := kv.SaveCredential(context.Background(), "sess1", "stale"); err != nil {
		t.Fatalf("SaveCredential: %v", err)
	}

	sess := svc.Resolve(context.Background(), &Claims{SessionID: "sess1"})
	if sess.Authenticated() {
		t.Errorf("session = %+v, want anonymous", sess)
	}
	if _, err := kv.Credential(context.Background(), "sess1"); !errors.Is(err, ErrNoSession) {
		t.Errorf("credential lookup after 401 = %v, want ErrNoSession (cleared)", err)
	}
}

func TestResolveClearsSessionForDisallowedRole(t *testing.T) {
	api := &fakeBackend{meUser: &backend.User{ID: "u3", Role: "admin"}}
	svc, kv := newTestService(api)

	if err := kv.SaveCredential(context.Background(), "sess2", "cred"); err != nil {
		t.Fatalf("SaveCredential: %v", err)
	}

	sess := svc.Resolve(context.Background(), &Claims{SessionID: "sess2"})
	if sess.Authenticated() {
		t.Errorf("session = %+v, want anonymous for disallowed role", sess)
	}
	if _, err := kv.Credential(context.Background(), "sess2"); !errors.Is(err, ErrNoSession) {
		t.Errorf("credential after role rejection = %v, want ErrNoSession", err)
	}
}

func TestSelectStoreRemembersPromotorChoice(t *testing.T) {
	api := &fakeBackend{
		meUser: &backend.User{ID: "p1", Role: RolePromotor},
		stores: map[string]*backend.Store{"s5": {ID: "s5", Name: "Fifth"}},
	}
	svc, kv := newTestService(api)
	claims := &Claims{SessionID: "sess3"}

	if err := kv.SaveCredential(context.Background(), "sess3", "cred"); err != nil {
		t.Fatalf("SaveCredential: %v", err)
	}

	store, err := svc.SelectStore(context.Background(), claims, "s5")
	if err != nil {
		t.Fatalf("SelectStore: %v", err)
	}
	if store.ID != "s5" {
		t.Errorf("store = %+v, want s5", store)
	}

	sess := svc.Resolve(context.Background(), claims)
	if sess.Store == nil || sess.Store.ID != "s5" {
		t.Errorf("resolved store = %+v, want remembered s5", sess.Store)
	}

	if err := svc.ChangeStore(context.Background(), claims); err != nil {
		t.Fatalf("ChangeStore: %v", err)
	}
	if sess := svc.Resolve(context.Background(), claims); sess.Store != nil {
		t.Errorf("store after ChangeStore = %+v, want nil", sess.Store)
	}
}

func TestLogoutDropsCredential(t *testing.T) {
	svc, kv := newTestService(&fakeBackend{})
	claims := &Claims{SessionID: "sess4"}

	if err := kv.SaveCredential(context.Background(), "sess4", "cred"); err != nil {
		t.Fatalf("SaveCredential: %v", err)
	}
	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := kv.Credential(context.Background(), "sess4"); !errors.Is(err, ErrNoSession) {
		t.Errorf("credential after logout = %v, want ErrNoSession", err)
	}
}
