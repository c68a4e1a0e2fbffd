// internal/participation/service.go

package participation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sweepstouch/registration-gateway/internal/backend"
	"github.com/sweepstouch/registration-gateway/internal/otpflow"
	"github.com/sweepstouch/registration-gateway/internal/phone"
	"github.com/sweepstouch/registration-gateway/internal/session"
)

// Errors returned by the participation service
var (
	ErrInvalidPhone = errors.New("phone must be a complete US number")
	ErrNoCampaign   = errors.New("no sweepstake or store to register against")
)

// Backend is the slice of the remote API the service needs.
type Backend interface {
	RegisterParticipant(ctx context.Context, credential string, input *backend.ParticipantInput) error
}

// CredentialSource resolves the stored backend credential for a session, when
// one exists. Registrations from public store pages carry none.
type CredentialSource interface {
	Credential(ctx context.Context, sessionID string) (string, error)
}

// successWindow is how long a recorded registration counts as "just
// happened" in snapshots.
const successWindow = 3 * time.Second

// Service records participations and keeps the masked recent list.
type Service struct {
	backend     Backend
	credentials CredentialSource

	mu          sync.Mutex
	recent      []string
	lastSuccess time.Time
}

// NewService creates a participation service.
func NewService(b Backend, credentials CredentialSource) *Service {
	return &Service{backend: b, credentials: credentials}
}

// Register implements otpflow.Registrar. It is also the direct-registration
// path for flows that skip OTP verification.
func (s *Service) Register(ctx context.Context, reg otpflow.Registration) error {
	digits := phone.Digits(reg.CustomerPhone)
	if len(digits) != 10 {
		registrationsTotal.WithLabelValues(reg.Method, "rejected").Inc()
		return ErrInvalidPhone
	}
	if reg.SweepstakeID == "" || reg.StoreID == "" {
		registrationsTotal.WithLabelValues(reg.Method, "rejected").Inc()
		return ErrNoCampaign
	}

	input := &backend.ParticipantInput{
		SweepstakeID:  reg.SweepstakeID,
		CustomerPhone: digits,
		CustomerName:  "",
		StoreID:       reg.StoreID,
		Method:        reg.Method,
		CreatedBy:     reg.CreatedBy,
	}

	if err := s.backend.RegisterParticipant(ctx, s.credential(ctx), input); err != nil {
		registrationsTotal.WithLabelValues(reg.Method, "error").Inc()
		return err
	}

	s.record(digits)
	registrationsTotal.WithLabelValues(reg.Method, "success").Inc()
	return nil
}

// credential returns the session's stored backend credential, or empty for
// anonymous registrations.
func (s *Service) credential(ctx context.Context) string {
	claims, ok := session.ClaimsFromContext(ctx)
	if !ok || s.credentials == nil {
		return ""
	}
	credential, err := s.credentials.Credential(ctx, claims.SessionID)
	if err != nil {
		return ""
	}
	return credential
}

func (s *Service) record(digits string) {
	masked := phone.Mask(digits)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.recent = append([]string{masked}, s.recent...)
	if len(s.recent) > recentLimit {
		s.recent = s.recent[:recentLimit]
	}
	s.lastSuccess = time.Now()
}

// Recent returns the masked recent registrations, most recent first.
func (s *Service) Recent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.recent))
	copy(out, s.recent)
	return out
}

// JustRegistered reports whether a registration succeeded within the last
// few seconds, for dashboards that flash a confirmation.
func (s *Service) JustRegistered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.lastSuccess.IsZero() && time.Since(s.lastSuccess) < successWindow
}
