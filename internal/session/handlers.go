// internal/session/handlers.go

package session

import (
	"encoding/json"
	"net/http"

	"github.com/sweepstouch/registration-gateway/internal/backend"
	"github.com/sweepstouch/registration-gateway/internal/common/utils"
)

// Handler exposes login/logout/session-bootstrap endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a session handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login proxies the backend login and mints the gateway token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if backend.IsKind(err, backend.KindUnauthorized) || backend.IsKind(err, backend.KindValidation) {
			utils.ErrorResponse(w, backend.DisplayMessage(err), http.StatusUnauthorized)
			return
		}
		utils.ErrorResponse(w, backend.DisplayMessage(err), http.StatusBadGateway)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

// Bootstrap resolves the session for a page load. ?store=<id> selects the
// public flow and skips auth entirely; auth failures come back as an
// anonymous session, never as an error status.
func (h *Handler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	urlStoreID := r.URL.Query().Get("store")

	claims, _ := ClaimsFromContext(r.Context())
	sess, err := h.service.Bootstrap(r.Context(), claims, urlStoreID)
	if err != nil {
		if backend.IsKind(err, backend.KindNotFound) {
			utils.ErrorResponse(w, "Store not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, backend.DisplayMessage(err), http.StatusBadGateway)
		return
	}

	utils.SuccessResponse(w, sess, http.StatusOK)
}

// SelectStore switches the session's active store.
func (h *Handler) SelectStore(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SelectStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	store, err := h.service.SelectStore(r.Context(), claims, req.StoreID)
	if err != nil {
		if backend.IsKind(err, backend.KindNotFound) {
			utils.ErrorResponse(w, "Store not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, backend.DisplayMessage(err), http.StatusBadGateway)
		return
	}

	utils.SuccessResponse(w, store, http.StatusOK)
}

// ListStores returns the store picker options.
func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	stores, err := h.service.ListStores(r.Context(), claims)
	if err != nil {
		utils.ErrorResponse(w, backend.DisplayMessage(err), http.StatusBadGateway)
		return
	}
	utils.SuccessResponse(w, stores, http.StatusOK)
}

// ChangeStore clears the store selection.
func (h *Handler) ChangeStore(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.service.ChangeStore(r.Context(), claims); err != nil {
		utils.ErrorResponse(w, "Failed to change store", http.StatusInternalServerError)
		return
	}
	utils.MessageResponse(w, "Store selection cleared", http.StatusOK)
}

// Logout tears the session down.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.service.Logout(r.Context(), claims); err != nil {
		utils.ErrorResponse(w, "Failed to log out", http.StatusInternalServerError)
		return
	}
	utils.MessageResponse(w, "Session closed", http.StatusOK)
}
