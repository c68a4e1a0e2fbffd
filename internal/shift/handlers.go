// internal/shift/handlers.go

package shift

import (
	"net/http"

	"github.com/sweepstouch/registration-gateway/internal/backend"
	"github.com/sweepstouch/registration-gateway/internal/common/utils"
	"github.com/sweepstouch/registration-gateway/internal/session"
)

// RecentSource supplies the masked recent-registration list and the
// just-registered flash for the dashboard sidebar.
type RecentSource interface {
	Recent() []string
	JustRegistered() bool
}

// Handler exposes the promoter dashboard.
type Handler struct {
	service *Service
	recent  RecentSource
}

// NewHandler creates a shift handler.
func NewHandler(service *Service, recent RecentSource) *Handler {
	return &Handler{service: service, recent: recent}
}

// Dashboard returns the current dashboard snapshot for the authenticated
// promoter.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.ClaimsFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	dashboard, err := h.snapshot(r, claims)
	if err != nil {
		if backend.IsKind(err, backend.KindUnauthorized) {
			utils.ErrorResponse(w, "Session expired", http.StatusUnauthorized)
			return
		}
		utils.ErrorResponse(w, backend.DisplayMessage(err), http.StatusBadGateway)
		return
	}

	utils.SuccessResponse(w, dashboard, http.StatusOK)
}

func (h *Handler) snapshot(r *http.Request, claims *session.Claims) (*Dashboard, error) {
	res, err := h.service.Resolve(r.Context(), claims.SessionID, claims.UserID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Resolution:     *res,
		RecentPhones:   h.recent.Recent(),
		JustRegistered: h.recent.JustRegistered(),
	}, nil
}
