// internal/otpflow/handlers_test.go

package otpflow

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

type staticCampaigns struct {
	campaign Campaign
	err      error
}

func (c *staticCampaigns) CampaignFor(ctx context.Context, promoterID string) (Campaign, error) {
	return c.campaign, c.err
}

func passthroughAuth(next http.Handler) http.Handler { return next }

func newTestRouter(sender *fakeSender, campaigns CampaignSource) (*mux.Router, *Store) {
	store := NewStore(sender, &fakeRegistrar{}, quietConfig())
	handler := NewHandler(store, campaigns)
	router := mux.NewRouter()
	RegisterRoutes(router, handler, passthroughAuth)
	return router, store
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return rec, env
}

func TestCreateFlowWithExplicitCampaign(t *testing.T) {
	router, store := newTestRouter(&fakeSender{}, &staticCampaigns{err: ErrNoCampaign})

	rec, env := doJSON(t, router, "POST", "/api/otp/flows",
		CreateFlowRequest{SweepstakeID: "sw1", StoreID: "st1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if !env.Success {
		t.Fatalf("success = false: %s", env.Error)
	}

	var snap Snapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Step != StepPhone {
		t.Errorf("step = %q, want phone", snap.Step)
	}
	if _, err := store.Get(snap.ID); err != nil {
		t.Errorf("flow not stored: %v", err)
	}
}

func TestCreateFlowWithoutShiftConflicts(t *testing.T) {
	router, _ := newTestRouter(&fakeSender{}, &staticCampaigns{err: ErrNoCampaign})

	rec, env := doJSON(t, router, "POST", "/api/otp/flows", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if env.Success {
		t.Error("success = true on conflict")
	}
}

func TestSubmitPhoneEndpointAdvancesFlow(t *testing.T) {
	router, store := newTestRouter(&fakeSender{}, &staticCampaigns{campaign: testCampaign()})

	f := store.Create(testCampaign())
	rec, env := doJSON(t, router, "POST", "/api/otp/flows/"+f.ID+"/phone",
		SubmitPhoneRequest{Phone: "3055550123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var snap Snapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Step != StepOtp {
		t.Errorf("step = %q, want otp", snap.Step)
	}
	if snap.MaskedPhone != "(***) ***-0123" {
		t.Errorf("maskedPhone = %q", snap.MaskedPhone)
	}
}

func TestSubmitPhoneEndpointRejectsBadNumber(t *testing.T) {
	router, store := newTestRouter(&fakeSender{}, &staticCampaigns{campaign: testCampaign()})

	f := store.Create(testCampaign())
	rec, _ := doJSON(t, router, "POST", "/api/otp/flows/"+f.ID+"/phone",
		SubmitPhoneRequest{Phone: "12"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUnknownFlowIs404(t *testing.T) {
	router, _ := newTestRouter(&fakeSender{}, &staticCampaigns{campaign: testCampaign()})

	rec, _ := doJSON(t, router, "GET", "/api/otp/flows/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
