// internal/shift/service_test.go

package shift

import (
	"context"
	"testing"
	"time"

	"github.com/sweepstouch/registration-gateway/internal/backend"
	"github.com/sweepstouch/registration-gateway/internal/otpflow"
	"github.com/sweepstouch/registration-gateway/internal/session"
)

type fakeBackend struct {
	shiftResult *backend.ShiftResult
	shiftErr    error
	sweepstake  *backend.Sweepstake
	sweepErr    error
}

func (b *fakeBackend) ActiveShift(ctx context.Context, credential, promoterID string) (*backend.ShiftResult, error) {
	return b.shiftResult, b.shiftErr
}

func (b *fakeBackend) SweepstakeByID(ctx context.Context, credential, id string) (*backend.Sweepstake, error) {
	if b.sweepErr != nil {
		return nil, b.sweepErr
	}
	return b.sweepstake, nil
}

type staticCredentials string

func (c staticCredentials) Credential(ctx context.Context, sessionID string) (string, error) {
	return string(c), nil
}

func activeShift(end time.Time) *backend.Shift {
	return &backend.Shift{
		ID:           "sh1",
		StoreID:      "st1",
		SweepstakeID: "sw1",
		Status:       backend.ShiftStatusActive,
		EndTime:      end,
	}
}

func TestResolveWithActiveShift(t *testing.T) {
	end := time.Now().Add(90 * time.Minute)
	api := &fakeBackend{
		shiftResult: &backend.ShiftResult{
			Shift: activeShift(end),
			Stats: backend.ShiftStats{TotalParticipants: 7},
		},
		sweepstake: &backend.Sweepstake{ID: "sw1", Name: "Summer Giveaway"},
	}
	svc := NewService(api, staticCredentials("cred"))

	res, err := svc.Resolve(context.Background(), "sess1", "p1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.HasActiveShift() {
		t.Fatal("no active shift resolved")
	}
	if res.Sweepstake == nil || res.Sweepstake.ID != "sw1" {
		t.Errorf("sweepstake = %+v, want sw1", res.Sweepstake)
	}
	if res.TimeLeft != "1h 30min remaining" {
		t.Errorf("timeLeft = %q, want 1h 30min remaining", res.TimeLeft)
	}
	if res.Stats.TotalParticipants != 7 {
		t.Errorf("stats = %+v, want carried through", res.Stats)
	}
}

func TestResolveNoShiftPayload(t *testing.T) {
	// The backend reports "no shift" either as a 404 or as {"shift": null};
	// the client maps both to an empty result.
	api := &fakeBackend{shiftResult: &backend.ShiftResult{}}
	svc := NewService(api, staticCredentials("cred"))

	res, err := svc.Resolve(context.Background(), "sess1", "p1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.HasActiveShift() {
		t.Errorf("resolution = %+v, want no shift", res)
	}
}

func TestResolveIgnoresTerminalShift(t *testing.T) {
	sh := activeShift(time.Now().Add(time.Hour))
	sh.Status = backend.ShiftStatusCompleted
	api := &fakeBackend{shiftResult: &backend.ShiftResult{Shift: sh}}
	svc := NewService(api, staticCredentials("cred"))

	res, err := svc.Resolve(context.Background(), "sess1", "p1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.HasActiveShift() {
		t.Errorf("completed shift treated as active: %+v", res.Shift)
	}
}

func TestResolveKeepsShiftWhenSweepstakeLookupFails(t *testing.T) {
	api := &fakeBackend{
		shiftResult: &backend.ShiftResult{Shift: activeShift(time.Now().Add(time.Hour))},
		sweepErr:    &backend.Error{Kind: backend.KindTransient, Status: 502, Message: "bad gateway"},
	}
	svc := NewService(api, staticCredentials("cred"))

	res, err := svc.Resolve(context.Background(), "sess1", "p1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.HasActiveShift() {
		t.Fatal("shift dropped because of sweepstake lookup failure")
	}
	if res.Sweepstake != nil {
		t.Errorf("sweepstake = %+v, want nil", res.Sweepstake)
	}
}

func TestTimeLeft(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		end  time.Time
		want string
	}{
		{"mid shift", now.Add(2*time.Hour + 5*time.Minute), "2h 5min remaining"},
		{"under an hour", now.Add(45 * time.Minute), "0h 45min remaining"},
		{"exactly over", now, "Shift ended"},
		{"past end", now.Add(-time.Minute), "Shift ended"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimeLeft(tt.end, now); got != tt.want {
				t.Errorf("TimeLeft = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCampaignForActiveShift(t *testing.T) {
	api := &fakeBackend{
		shiftResult: &backend.ShiftResult{Shift: activeShift(time.Now().Add(time.Hour))},
	}
	svc := NewService(api, staticCredentials("cred"))

	ctx := session.ContextWithClaims(context.Background(), &session.Claims{SessionID: "sess1", UserID: "p1"})
	campaign, err := svc.CampaignFor(ctx, "p1")
	if err != nil {
		t.Fatalf("CampaignFor: %v", err)
	}

	want := otpflow.Campaign{SweepstakeID: "sw1", StoreID: "st1", CreatedBy: "p1", Method: "promotor"}
	if campaign != want {
		t.Errorf("campaign = %+v, want %+v", campaign, want)
	}
}

func TestCampaignForWithoutShift(t *testing.T) {
	api := &fakeBackend{shiftResult: &backend.ShiftResult{}}
	svc := NewService(api, staticCredentials("cred"))

	ctx := session.ContextWithClaims(context.Background(), &session.Claims{SessionID: "sess1", UserID: "p1"})
	if _, err := svc.CampaignFor(ctx, "p1"); err != otpflow.ErrNoCampaign {
		t.Errorf("err = %v, want ErrNoCampaign", err)
	}
}
