// internal/backend/client.go
// HTTP accessor for the remote sweepstakes backend. The backend owns all
// business rules (rate limiting, OTP validity, persistence); this client only
// shapes requests and normalizes failures.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the sweepstakes backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client rooted at baseURL (e.g.
// "https://api.sweepstouch.com/api").
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// do issues one request and decodes the response into out (may be nil).
// credential, when non-empty, is sent as a bearer token.
func (c *Client) do(ctx context.Context, method, path, credential string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return normalizeTransport(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return normalizeTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return normalizeHTTP(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Login exchanges credentials for the backend's opaque session token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload := map[string]string{"email": email, "password": password}

	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", payload, &result); err != nil {
		return nil, err
	}
	if result.Token == "" || result.User == nil {
		return nil, &Error{Kind: KindTransient, Message: "login response missing token or user"}
	}
	return &result, nil
}

// Me resolves the user behind a session credential.
func (c *Client) Me(ctx context.Context, credential string) (*User, error) {
	var result struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", credential, nil, &result); err != nil {
		return nil, err
	}
	if result.User == nil {
		return nil, &Error{Kind: KindUnauthorized, Message: "session lookup returned no user"}
	}
	return result.User, nil
}

// SendOTP asks the backend to deliver a verification code over SMS.
// A 2xx response with success:false is a failure and comes back as an *Error
// carrying the server message, same as a non-2xx response would.
func (c *Client) SendOTP(ctx context.Context, phoneE164 string) (*OTPSendResult, error) {
	payload := map[string]string{"phone": phoneE164, "channel": "sms"}

	var result OTPSendResult
	if err := c.do(ctx, http.MethodPost, "/otp/send", "", payload, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "No se pudo enviar el OTP"
		}
		kind := KindTransient
		if result.Locked {
			kind = KindLocked
		}
		return nil, &Error{Kind: kind, Message: msg}
	}
	return &result, nil
}

// VerifyOTP checks a 6-digit code against the backend.
func (c *Client) VerifyOTP(ctx context.Context, phoneE164, code string) error {
	payload := map[string]string{"phone": phoneE164, "code": code}

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
		Locked  bool   `json:"locked,omitempty"`
	}
	if err := c.do(ctx, http.MethodPost, "/otp/verify", "", payload, &result); err != nil {
		return err
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "Invalid verification code"
		}
		kind := KindValidation
		if result.Locked {
			kind = KindLocked
		}
		return &Error{Kind: kind, Message: msg}
	}
	return nil
}

// RegisterParticipant records one sweepstakes participation.
func (c *Client) RegisterParticipant(ctx context.Context, credential string, input *ParticipantInput) error {
	return c.do(ctx, http.MethodPost, "/sweepstakes/participants/register", credential, input, nil)
}

// ActiveShift fetches the promoter's currently active shift. A 404 and an
// explicit {"shift": null} payload both yield a result with a nil Shift and
// zeroed stats; callers never see the difference.
func (c *Client) ActiveShift(ctx context.Context, credential, promoterID string) (*ShiftResult, error) {
	var result ShiftResult
	err := c.do(ctx, http.MethodGet, "/shifts/active/"+promoterID, credential, nil, &result)
	if err != nil {
		if IsKind(err, KindNotFound) {
			return &ShiftResult{}, nil
		}
		return nil, err
	}
	return &result, nil
}

// SweepstakeByID fetches a campaign descriptor.
func (c *Client) SweepstakeByID(ctx context.Context, credential, id string) (*Sweepstake, error) {
	var result Sweepstake
	if err := c.do(ctx, http.MethodGet, "/sweepstakes/"+id, credential, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StoreByID fetches a store.
func (c *Client) StoreByID(ctx context.Context, credential, id string) (*Store, error) {
	var result Store
	if err := c.do(ctx, http.MethodGet, "/store/"+id, credential, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StoreByOwner fetches the store owned by a merchant user.
func (c *Client) StoreByOwner(ctx context.Context, credential, ownerID string) (*Store, error) {
	var result Store
	if err := c.do(ctx, http.MethodGet, "/store/owner/"+ownerID, credential, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SweepstakeStores lists the stores attached to a campaign.
func (c *Client) SweepstakeStores(ctx context.Context, credential, sweepstakeID string) ([]Store, error) {
	var result []Store
	if err := c.do(ctx, http.MethodGet, "/sweepstakes/"+sweepstakeID+"/stores", credential, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
