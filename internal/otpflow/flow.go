// internal/otpflow/flow.go
// The phone verification state machine: submit phone -> send code ->
// resend with cooldown -> verify -> register participant. One Flow per
// registration screen instance; the remote backend owns all validity rules.

package otpflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sweepstouch/registration-gateway/internal/backend"
	"github.com/sweepstouch/registration-gateway/internal/phone"
)

var (
	ErrInvalidPhone     = errors.New("phone number must match (123) 456-7890 format")
	ErrLocked           = errors.New("verification channel is locked")
	ErrRequestPending   = errors.New("a request for this action is already in flight")
	ErrCooldownActive   = errors.New("resend cooldown has not elapsed")
	ErrNoResendAttempts = errors.New("no resend attempts remaining")
	ErrNoVerifyAttempts = errors.New("no verification attempts remaining")
	ErrWrongStep        = errors.New("action not available in the current step")
)

// Sender issues OTP send/verify calls against the backend.
type Sender interface {
	SendOTP(ctx context.Context, phoneE164 string) (*backend.OTPSendResult, error)
	VerifyOTP(ctx context.Context, phoneE164, code string) error
}

// Registrar records one participation for a verified phone.
type Registrar interface {
	Register(ctx context.Context, reg Registration) error
}

// Flow is the per-screen OTP session. All exported methods are safe for
// concurrent use; the lock is never held across a backend call, so unrelated
// actions (EditPhone, Snapshot) stay responsive while a send or verify is in
// flight.
type Flow struct {
	ID       string
	campaign Campaign

	sender    Sender
	registrar Registrar
	cfg       Config

	mu              sync.Mutex
	step            Step
	phone           string // display form, (123) 456-7890
	code            string
	cooldownSeconds int
	attemptsLeft    *int
	resendLeft      *int
	locked          bool
	verified        bool
	lastError       *FlowError
	sendPending     bool
	verifyPending   bool
	touchedAt       time.Time

	tickerStop      chan struct{}
	tickerStopOnce  sync.Once
	autoReturnTimer *time.Timer
}

// NewFlow creates a flow bound to a campaign context and starts its cooldown
// ticker. Callers must Close the flow when the screen goes away, otherwise
// the ticker keeps running.
func NewFlow(sender Sender, registrar Registrar, campaign Campaign, cfg Config) *Flow {
	f := &Flow{
		ID:         uuid.NewString(),
		campaign:   campaign,
		sender:     sender,
		registrar:  registrar,
		cfg:        cfg.withDefaults(),
		step:       StepPhone,
		touchedAt:  time.Now(),
		tickerStop: make(chan struct{}),
	}
	go f.runTicker()
	return f
}

// runTicker drives the one-second cooldown countdown until Close.
func (f *Flow) runTicker() {
	ticker := time.NewTicker(f.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			f.Tick()
		case <-f.tickerStop:
			return
		}
	}
}

// Tick decrements the resend cooldown by one second, floored at zero. It only
// counts while the flow is on the code step.
func (f *Flow) Tick() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step == StepOtp && f.cooldownSeconds > 0 {
		f.cooldownSeconds--
	}
}

// Close stops the ticker and any scheduled auto-return. Required on teardown
// so a discarded flow never keeps timers alive.
func (f *Flow) Close() {
	f.tickerStopOnce.Do(func() { close(f.tickerStop) })
	f.mu.Lock()
	if f.autoReturnTimer != nil {
		f.autoReturnTimer.Stop()
		f.autoReturnTimer = nil
	}
	f.mu.Unlock()
}

// SubmitPhone validates, normalizes and submits the phone, requesting a code.
// On a successful send the flow advances to StepOtp; on any failure it stays
// on StepPhone with the error recorded. Malformed input never reaches the
// backend.
func (f *Flow) SubmitPhone(ctx context.Context, rawPhone string) error {
	display := phone.FormatUS(rawPhone)

	f.mu.Lock()
	if f.locked {
		f.mu.Unlock()
		return ErrLocked
	}
	if !phone.ValidateUS(display) {
		f.mu.Unlock()
		return ErrInvalidPhone
	}
	if f.sendPending {
		f.mu.Unlock()
		return ErrRequestPending
	}
	f.sendPending = true
	f.phone = display
	f.touchedAt = time.Now()
	f.mu.Unlock()

	result, err := f.sender.SendOTP(ctx, phone.ToE164(display))
	f.applySendResult(result, err, ErrorSourceSend)
	return err
}

// Resend re-issues the send request for the current phone. Available only on
// the code step, once the cooldown hits zero, while attempts remain. The code
// typed so far is kept.
func (f *Flow) Resend(ctx context.Context) error {
	f.mu.Lock()
	if f.step != StepOtp {
		f.mu.Unlock()
		return ErrWrongStep
	}
	if f.locked {
		f.mu.Unlock()
		return ErrLocked
	}
	if f.cooldownSeconds > 0 {
		f.mu.Unlock()
		return ErrCooldownActive
	}
	if f.resendLeft != nil && *f.resendLeft <= 0 {
		f.mu.Unlock()
		return ErrNoResendAttempts
	}
	if f.sendPending {
		f.mu.Unlock()
		return ErrRequestPending
	}
	f.sendPending = true
	f.touchedAt = time.Now()
	display := f.phone
	f.mu.Unlock()

	result, err := f.sender.SendOTP(ctx, phone.ToE164(display))
	f.applySendResult(result, err, ErrorSourceSend)
	return err
}

// applySendResult folds a send/resend outcome back into the flow state.
func (f *Flow) applySendResult(result *backend.OTPSendResult, err error, source ErrorSource) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendPending = false

	if err != nil {
		f.lastError = &FlowError{
			Source:  source,
			Message: backend.DisplayMessage(err),
			Fatal:   backend.IsFatalSend(err),
		}
		if backend.IsKind(err, backend.KindLocked) {
			f.locked = true
		}
		otpSendsTotal.WithLabelValues("failure").Inc()
		return
	}

	seconds := int(f.cfg.InitialCooldown / time.Second)
	if result.SecondsLeft != nil {
		seconds = *result.SecondsLeft
	}
	if seconds < 0 {
		seconds = 0
	}
	f.cooldownSeconds = seconds
	f.attemptsLeft = result.AttemptsLeft
	f.resendLeft = result.ResendLeft
	f.locked = result.Locked
	f.lastError = nil
	f.step = StepOtp
	otpSendsTotal.WithLabelValues("success").Inc()
}

// InputCode accepts typed or pasted code input. Non-digits are stripped and
// the value is truncated to six characters; the moment it reaches exactly six
// a verification attempt fires, unless one is already pending.
func (f *Flow) InputCode(ctx context.Context, raw string) error {
	cleaned := phone.Digits(raw)
	if len(cleaned) > CodeLength {
		cleaned = cleaned[:CodeLength]
	}

	f.mu.Lock()
	if f.step != StepOtp {
		f.mu.Unlock()
		return ErrWrongStep
	}
	f.code = cleaned
	f.touchedAt = time.Now()

	if len(cleaned) != CodeLength || f.verifyPending || f.verified || f.locked {
		f.mu.Unlock()
		return nil
	}
	if f.attemptsLeft != nil && *f.attemptsLeft <= 0 {
		f.mu.Unlock()
		return ErrNoVerifyAttempts
	}
	f.verifyPending = true
	display := f.phone
	code := f.code
	f.mu.Unlock()

	return f.verify(ctx, display, code)
}

// verify checks the code with the backend and, on success, synchronously
// chains the participant registration. A registration failure after a valid
// code rolls verified back and is surfaced under its own source so it is
// never mistaken for a wrong code.
func (f *Flow) verify(ctx context.Context, display, code string) error {
	err := f.sender.VerifyOTP(ctx, phone.ToE164(display), code)
	if err != nil {
		f.mu.Lock()
		f.verifyPending = false
		f.lastError = &FlowError{Source: ErrorSourceVerify, Message: backend.DisplayMessage(err)}
		if backend.IsKind(err, backend.KindLocked) {
			f.locked = true
		}
		// Optimistic local decrement; the server does not echo a fresh count
		// on failures.
		if f.attemptsLeft != nil && *f.attemptsLeft > 0 {
			left := *f.attemptsLeft - 1
			f.attemptsLeft = &left
		}
		f.mu.Unlock()
		otpVerifiesTotal.WithLabelValues("failure").Inc()
		return err
	}

	f.mu.Lock()
	f.verified = true
	f.lastError = nil
	reg := Registration{
		SweepstakeID:  f.campaign.SweepstakeID,
		StoreID:       f.campaign.StoreID,
		CustomerPhone: phone.Digits(display),
		CreatedBy:     f.campaign.CreatedBy,
		Method:        f.campaign.Method,
	}
	f.mu.Unlock()
	otpVerifiesTotal.WithLabelValues("success").Inc()

	if regErr := f.registrar.Register(ctx, reg); regErr != nil {
		f.mu.Lock()
		f.verified = false
		f.verifyPending = false
		f.lastError = &FlowError{Source: ErrorSourceRegistration, Message: backend.DisplayMessage(regErr)}
		f.mu.Unlock()
		return regErr
	}

	f.mu.Lock()
	f.verifyPending = false
	f.phone = ""
	if f.autoReturnTimer != nil {
		f.autoReturnTimer.Stop()
	}
	f.autoReturnTimer = time.AfterFunc(f.cfg.AutoReturnDelay, f.autoReturn)
	f.mu.Unlock()
	return nil
}

// autoReturn brings the flow back to the phone step shortly after a
// successful registration, so the operator can take the next participant
// without a manual reset.
func (f *Flow) autoReturn() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.verified {
		return
	}
	f.resetToPhoneLocked()
}

// EditPhone returns to the phone step at the user's request, discarding the
// typed code and any error. Cooldown bookkeeping is left alone; the next
// successful send overwrites it.
func (f *Flow) EditPhone() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.autoReturnTimer != nil {
		f.autoReturnTimer.Stop()
		f.autoReturnTimer = nil
	}
	f.resetToPhoneLocked()
}

func (f *Flow) resetToPhoneLocked() {
	f.code = ""
	f.lastError = nil
	f.verified = false
	f.step = StepPhone
	f.touchedAt = time.Now()
}

// Snapshot returns the display state.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Snapshot{
		ID:              f.ID,
		Step:            f.step,
		Phone:           f.phone,
		MaskedPhone:     phone.Mask(f.phone),
		Code:            f.code,
		CooldownSeconds: f.cooldownSeconds,
		AttemptsLeft:    f.attemptsLeft,
		ResendLeft:      f.resendLeft,
		Locked:          f.locked,
		Verified:        f.verified,
		Sending:         f.sendPending,
		Verifying:       f.verifyPending,
		CanResend: f.step == StepOtp && !f.locked && !f.sendPending &&
			f.cooldownSeconds == 0 && (f.resendLeft == nil || *f.resendLeft > 0),
		LastError: f.lastError,
	}
}

// LastTouched reports when the flow last saw user activity. Used by the
// store's idle cleanup.
func (f *Flow) LastTouched() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touchedAt
}
