// internal/session/models.go

package session

import (
	"github.com/sweepstouch/registration-gateway/internal/backend"
)

// Roles the promoter-facing surfaces accept. Any other role is rejected right
// after session resolution.
const (
	RoleMerchant = "merchant"
	RolePromotor = "promotor"
)

// AllowedRoles is the fixed role allow-list.
var AllowedRoles = map[string]bool{
	RoleMerchant: true,
	RolePromotor: true,
}

// Session is the resolved per-visit context. Exactly one of three shapes:
// public (URL-supplied store, no user), authenticated (user + maybe store),
// or anonymous (neither). It is created on load and mutated only through
// Login, Logout and store-change operations.
type Session struct {
	ID     string         `json:"id,omitempty"` // gateway session key, empty for public/anonymous
	User   *backend.User  `json:"user,omitempty"`
	Store  *backend.Store `json:"store,omitempty"`
	Public bool           `json:"public"` // store came from the URL, auth was skipped
}

// Authenticated reports whether a user is attached.
func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}

// IsPromotor reports whether the session belongs to a promoter.
func (s *Session) IsPromotor() bool {
	return s.Authenticated() && s.User.Role == RolePromotor
}

// LoginRequest carries the operator's credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse hands the UI the gateway token and resolved session.
type LoginResponse struct {
	Token   string   `json:"token"`
	Session *Session `json:"session"`
}

// SelectStoreRequest switches the session's active store.
type SelectStoreRequest struct {
	StoreID string `json:"storeId" validate:"required"`
}
