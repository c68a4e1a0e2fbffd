// internal/backend/models.go

package backend

import "time"

// User is the identity the sweepstakes backend attaches to a session.
type User struct {
	ID           string `json:"_id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
	ProfileImage string `json:"profileImage,omitempty"`
	Role         string `json:"role"`
}

// Store is a participating supermarket.
type Store struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	ZipCode string `json:"zipCode,omitempty"`
	OwnerID string `json:"ownerId,omitempty"`
	Image   string `json:"image,omitempty"`
	Active  bool   `json:"active"`
}

// Sweepstake is the promotional campaign participants register into.
type Sweepstake struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Prize       string     `json:"prize,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// ShiftStatus values reported by the backend.
const (
	ShiftStatusActive    = "active"
	ShiftStatusCompleted = "completed"
	ShiftStatusCancelled = "cancelled"
)

// Shift is a promoter work window at a store.
type Shift struct {
	ID           string    `json:"_id"`
	StoreID      string    `json:"storeId"`
	SweepstakeID string    `json:"sweepstakeId"`
	Status       string    `json:"status"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	StoreInfo    *Store    `json:"storeInfo,omitempty"`

	TotalParticipations    int     `json:"totalParticipations,omitempty"`
	NewParticipations      int     `json:"newParticipations,omitempty"`
	ExistingParticipations int     `json:"existingParticipations,omitempty"`
	TotalEarnings          float64 `json:"totalEarnings,omitempty"`
}

// ShiftStats summarize participation during the active shift.
type ShiftStats struct {
	TotalParticipants int     `json:"totalParticipants"`
	TodayParticipants int     `json:"todayParticipants"`
	AvgPerHour        float64 `json:"avgPerHour"`
}

// ShiftResult is the normalized active-shift lookup result. Shift is nil when
// the promoter has no active shift, whether the backend said so with an
// explicit null payload or a 404.
type ShiftResult struct {
	Shift *Shift     `json:"shift"`
	Stats ShiftStats `json:"stats"`
}

// LoginResult carries the opaque session credential issued by the backend.
type LoginResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// OTPSendResult mirrors the send/resend response. The counters are pointers
// because the backend may omit any of them.
type OTPSendResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	SecondsLeft  *int   `json:"secondsLeft,omitempty"`
	AttemptsLeft *int   `json:"attemptsLeft,omitempty"`
	ResendLeft   *int   `json:"resendLeft,omitempty"`
	Locked       bool   `json:"locked,omitempty"`
}

// ParticipantInput is the outbound registration payload. CustomerPhone must
// be digits only; CustomerName is always sent, empty in every current flow.
type ParticipantInput struct {
	SweepstakeID  string `json:"sweepstakeId"`
	CustomerPhone string `json:"customerPhone"`
	CustomerName  string `json:"customerName"`
	StoreID       string `json:"storeId"`
	Method        string `json:"method"`
	CreatedBy     string `json:"createdBy"`
}
