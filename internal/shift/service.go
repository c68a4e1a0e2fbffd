// internal/shift/service.go
// Active-shift resolution for authenticated promoters. A promoter with no
// active shift is a normal state, not an error, regardless of how the
// backend chose to say so.

package shift

import (
	"context"
	"log"
	"time"

	"github.com/sweepstouch/registration-gateway/internal/backend"
	"github.com/sweepstouch/registration-gateway/internal/otpflow"
	"github.com/sweepstouch/registration-gateway/internal/session"
)

// Backend is the slice of the remote API the shift layer needs.
type Backend interface {
	ActiveShift(ctx context.Context, credential, promoterID string) (*backend.ShiftResult, error)
	SweepstakeByID(ctx context.Context, credential, id string) (*backend.Sweepstake, error)
}

// CredentialSource hands out the backend credential for a session.
type CredentialSource interface {
	Credential(ctx context.Context, sessionID string) (string, error)
}

// Service resolves shifts and derives dashboard state.
type Service struct {
	api         Backend
	credentials CredentialSource
}

// NewService creates a shift service.
func NewService(api Backend, credentials CredentialSource) *Service {
	return &Service{api: api, credentials: credentials}
}

// Resolve fetches the promoter's active shift and, when there is one, the
// campaign it is tied to. Shifts in any terminal status are reported as no
// shift at all.
func (s *Service) Resolve(ctx context.Context, sessionID, promoterID string) (*Resolution, error) {
	credential, err := s.credentials.Credential(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.api.ActiveShift(ctx, credential, promoterID)
	if err != nil {
		return nil, err
	}

	res := &Resolution{Stats: result.Stats}
	if result.Shift == nil || result.Shift.Status != backend.ShiftStatusActive {
		return res, nil
	}
	res.Shift = result.Shift
	res.TimeLeft = TimeLeft(result.Shift.EndTime, time.Now())

	if result.Shift.SweepstakeID != "" {
		sweepstake, err := s.api.SweepstakeByID(ctx, credential, result.Shift.SweepstakeID)
		if err != nil {
			// The shift is still usable for display; registration will fail
			// loudly later if the campaign really is gone.
			log.Printf("Failed to load sweepstake %s: %v", result.Shift.SweepstakeID, err)
		} else {
			res.Sweepstake = sweepstake
		}
	}
	return res, nil
}

// CampaignFor implements otpflow.CampaignSource: a new OTP flow registers
// against the promoter's active shift.
func (s *Service) CampaignFor(ctx context.Context, promoterID string) (otpflow.Campaign, error) {
	claims, ok := session.ClaimsFromContext(ctx)
	if !ok {
		return otpflow.Campaign{}, otpflow.ErrNoCampaign
	}

	res, err := s.Resolve(ctx, claims.SessionID, promoterID)
	if err != nil {
		return otpflow.Campaign{}, err
	}
	if !res.HasActiveShift() || res.Shift.SweepstakeID == "" || res.Shift.StoreID == "" {
		return otpflow.Campaign{}, otpflow.ErrNoCampaign
	}

	return otpflow.Campaign{
		SweepstakeID: res.Shift.SweepstakeID,
		StoreID:      res.Shift.StoreID,
		CreatedBy:    promoterID,
		Method:       "promotor",
	}, nil
}
