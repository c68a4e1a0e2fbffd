// internal/otpflow/handlers.go

package otpflow

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sweepstouch/registration-gateway/internal/common/utils"
	"github.com/sweepstouch/registration-gateway/internal/session"
)

// CampaignSource resolves the campaign context a new flow should register
// against; for promoters this comes from the active shift.
type CampaignSource interface {
	CampaignFor(ctx context.Context, promoterID string) (Campaign, error)
}

// ErrNoCampaign is returned by a CampaignSource when the promoter has no
// active shift to register against.
var ErrNoCampaign = errors.New("no active shift to register against")

// Handler exposes the flow operations over HTTP.
type Handler struct {
	store     *Store
	campaigns CampaignSource
}

// NewHandler creates a flow handler.
func NewHandler(store *Store, campaigns CampaignSource) *Handler {
	return &Handler{store: store, campaigns: campaigns}
}

// CreateFlowRequest optionally pins the campaign explicitly (public/QR
// surfaces); promoter surfaces leave it empty and the active shift decides.
type CreateFlowRequest struct {
	SweepstakeID string `json:"sweepstakeId,omitempty"`
	StoreID      string `json:"storeId,omitempty"`
	Method       string `json:"method,omitempty" validate:"omitempty,oneof=promotor qr web"`
}

// SubmitPhoneRequest carries the raw phone input.
type SubmitPhoneRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// CodeRequest carries raw code input (typed or pasted).
type CodeRequest struct {
	Code string `json:"code" validate:"required"`
}

// CreateFlow starts a new OTP flow for the authenticated promoter.
func (h *Handler) CreateFlow(w http.ResponseWriter, r *http.Request) {
	var req CreateFlowRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	userID, _ := session.UserIDFromContext(r.Context())

	var campaign Campaign
	if req.SweepstakeID != "" && req.StoreID != "" {
		method := req.Method
		if method == "" {
			method = "qr"
		}
		campaign = Campaign{
			SweepstakeID: req.SweepstakeID,
			StoreID:      req.StoreID,
			CreatedBy:    userID,
			Method:       method,
		}
	} else {
		var err error
		campaign, err = h.campaigns.CampaignFor(r.Context(), userID)
		if err != nil {
			if errors.Is(err, ErrNoCampaign) {
				utils.ErrorResponse(w, "No active shift", http.StatusConflict)
				return
			}
			utils.ErrorResponse(w, "Failed to resolve campaign", http.StatusBadGateway)
			return
		}
	}

	f := h.store.Create(campaign)
	utils.SuccessResponse(w, f.Snapshot(), http.StatusCreated)
}

// GetFlow returns the current flow snapshot.
func (h *Handler) GetFlow(w http.ResponseWriter, r *http.Request) {
	f, ok := h.flowFromRequest(w, r)
	if !ok {
		return
	}
	utils.SuccessResponse(w, f.Snapshot(), http.StatusOK)
}

// SubmitPhone handles the phone step submission.
func (h *Handler) SubmitPhone(w http.ResponseWriter, r *http.Request) {
	f, ok := h.flowFromRequest(w, r)
	if !ok {
		return
	}

	var req SubmitPhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := f.SubmitPhone(r.Context(), req.Phone)
	h.respondAfterAction(w, f, err)
}

// InputCode handles code input; reaching six digits triggers verification and,
// on success, the participant registration.
func (h *Handler) InputCode(w http.ResponseWriter, r *http.Request) {
	f, ok := h.flowFromRequest(w, r)
	if !ok {
		return
	}

	var req CodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := f.InputCode(r.Context(), req.Code)
	h.respondAfterAction(w, f, err)
}

// Resend re-requests the code for the current phone.
func (h *Handler) Resend(w http.ResponseWriter, r *http.Request) {
	f, ok := h.flowFromRequest(w, r)
	if !ok {
		return
	}
	err := f.Resend(r.Context())
	h.respondAfterAction(w, f, err)
}

// EditPhone returns the flow to the phone step.
func (h *Handler) EditPhone(w http.ResponseWriter, r *http.Request) {
	f, ok := h.flowFromRequest(w, r)
	if !ok {
		return
	}
	f.EditPhone()
	utils.SuccessResponse(w, f.Snapshot(), http.StatusOK)
}

// DeleteFlow tears the flow down.
func (h *Handler) DeleteFlow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.store.Remove(id)
	utils.MessageResponse(w, "Flow closed", http.StatusOK)
}

func (h *Handler) flowFromRequest(w http.ResponseWriter, r *http.Request) (*Flow, bool) {
	id := mux.Vars(r)["id"]
	f, err := h.store.Get(id)
	if err != nil {
		utils.ErrorResponse(w, "Flow not found or expired", http.StatusNotFound)
		return nil, false
	}
	return f, true
}

// respondAfterAction maps the machine's guard errors to statuses. Backend
// failures are already folded into the snapshot's lastError, so the snapshot
// is returned either way: the UI renders from it, not from the status.
func (h *Handler) respondAfterAction(w http.ResponseWriter, f *Flow, err error) {
	status := http.StatusOK
	switch {
	case err == nil:
		status = http.StatusOK
	case errors.Is(err, ErrInvalidPhone):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, ErrLocked),
		errors.Is(err, ErrCooldownActive),
		errors.Is(err, ErrNoResendAttempts),
		errors.Is(err, ErrNoVerifyAttempts),
		errors.Is(err, ErrRequestPending),
		errors.Is(err, ErrWrongStep):
		utils.ErrorResponse(w, err.Error(), http.StatusConflict)
		return
	default:
		// Backend-side failure; surfaced through the snapshot.
		status = http.StatusOK
	}
	utils.SuccessResponse(w, f.Snapshot(), status)
}
