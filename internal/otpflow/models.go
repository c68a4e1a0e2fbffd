// internal/otpflow/models.go

package otpflow

import (
	"time"
)

// Step is the screen the flow is on.
type Step string

const (
	StepPhone Step = "phone" // collecting/confirming the phone number
	StepOtp   Step = "otp"   // collecting the 6-digit code
)

// CodeLength is the number of digits the backend issues.
const CodeLength = 6

// Campaign is the registration context a flow is bound to for its whole
// lifetime: which sweepstake, at which store, recorded by whom.
type Campaign struct {
	SweepstakeID string `json:"sweepstakeId"`
	StoreID      string `json:"storeId"`
	CreatedBy    string `json:"createdBy"`
	Method       string `json:"method"`
}

// Registration is what the flow hands to the registrar after a code is
// verified. CustomerPhone is digits only.
type Registration struct {
	SweepstakeID  string
	StoreID       string
	CustomerPhone string
	CreatedBy     string
	Method        string
}

// ErrorSource distinguishes where a surfaced failure came from, so the UI can
// report a registration failure after a valid code differently from an OTP
// failure.
type ErrorSource string

const (
	ErrorSourceSend         ErrorSource = "send"
	ErrorSourceVerify       ErrorSource = "verify"
	ErrorSourceRegistration ErrorSource = "registration"
)

// FlowError is the last failure the flow observed, shaped for display.
type FlowError struct {
	Source  ErrorSource `json:"source"`
	Message string      `json:"message"`
	Fatal   bool        `json:"fatal"` // send failure that will repeat for the same number
}

// Config tunes flow timing. Zero values fall back to the defaults below.
type Config struct {
	InitialCooldown time.Duration // resend window when the server omits secondsLeft
	AutoReturnDelay time.Duration // pause on the success screen before returning to StepPhone
	TickInterval    time.Duration // cooldown tick period
	IdleTTL         time.Duration // how long an untouched flow survives in the store
}

const (
	defaultInitialCooldown = 60 * time.Second
	defaultAutoReturnDelay = 1200 * time.Millisecond
	defaultTickInterval    = time.Second
	defaultIdleTTL         = 15 * time.Minute
)

func (c Config) withDefaults() Config {
	if c.InitialCooldown <= 0 {
		c.InitialCooldown = defaultInitialCooldown
	}
	if c.AutoReturnDelay <= 0 {
		c.AutoReturnDelay = defaultAutoReturnDelay
	}
	if c.TickInterval <= 0 {
		c.TickInterval = defaultTickInterval
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = defaultIdleTTL
	}
	return c
}

// Snapshot is the flow state handed to the presentation layer. Attempt
// counters are pointers because the backend may never report them.
type Snapshot struct {
	ID              string     `json:"id"`
	Step            Step       `json:"step"`
	Phone           string     `json:"phone"`
	MaskedPhone     string     `json:"maskedPhone"`
	Code            string     `json:"code"`
	CooldownSeconds int        `json:"cooldownSeconds"`
	AttemptsLeft    *int       `json:"attemptsLeft,omitempty"`
	ResendLeft      *int       `json:"resendLeft,omitempty"`
	Locked          bool       `json:"locked"`
	Verified        bool       `json:"verified"`
	Sending         bool       `json:"sending"`
	Verifying       bool       `json:"verifying"`
	CanResend       bool       `json:"canResend"`
	LastError       *FlowError `json:"lastError,omitempty"`
}
