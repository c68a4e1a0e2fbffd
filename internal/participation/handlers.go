// internal/participation/handlers.go

package participation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sweepstouch/registration-gateway/internal/backend"
	"github.com/sweepstouch/registration-gateway/internal/common/utils"
	"github.com/sweepstouch/registration-gateway/internal/otpflow"
	"github.com/sweepstouch/registration-gateway/internal/phone"
	"github.com/sweepstouch/registration-gateway/internal/session"
)

// Handler exposes direct (no-OTP) participant registration.
type Handler struct {
	service *Service
}

// NewHandler creates a participation handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register records a participation straight from a phone number, used by
// store pages where OTP gating is disabled.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	reg := otpflow.Registration{
		SweepstakeID:  req.SweepstakeID,
		StoreID:       req.StoreID,
		CustomerPhone: phone.Digits(req.Phone),
		Method:        req.Method,
	}

	// A logged-in promoter records under their own ID; everyone else is a
	// public web or QR registration.
	if claims, ok := session.ClaimsFromContext(r.Context()); ok && claims.Role == session.RolePromotor {
		reg.CreatedBy = claims.UserID
		if reg.Method == "" {
			reg.Method = MethodPromotor
		}
	} else if reg.Method == "" || reg.Method == MethodPromotor {
		reg.Method = MethodWeb
	}

	if err := h.service.Register(r.Context(), reg); err != nil {
		switch {
		case errors.Is(err, ErrInvalidPhone), errors.Is(err, ErrNoCampaign):
			utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		case backend.IsKind(err, backend.KindValidation):
			utils.ErrorResponse(w, backend.DisplayMessage(err), http.StatusBadRequest)
		case backend.IsKind(err, backend.KindUnauthorized):
			utils.ErrorResponse(w, "Session expired", http.StatusUnauthorized)
		default:
			utils.ErrorResponse(w, backend.DisplayMessage(err), http.StatusBadGateway)
		}
		return
	}

	utils.SuccessResponse(w, RegisterResponse{
		Phone:  phone.Mask(reg.CustomerPhone),
		Method: reg.Method,
	}, http.StatusCreated)
}
