// internal/participation/models.go

package participation

// Method tags distinguish how a participation was recorded.
const (
	MethodPromotor = "promotor"
	MethodQR       = "qr"
	MethodWeb      = "web"
)

// recentLimit caps the masked recent-registration list.
const recentLimit = 12

// RegisterRequest is the direct (no-OTP) registration payload.
type RegisterRequest struct {
	Phone        string `json:"phone" validate:"required"`
	SweepstakeID string `json:"sweepstakeId" validate:"required"`
	StoreID      string `json:"storeId" validate:"required"`
	Method       string `json:"method" validate:"omitempty,oneof=promotor qr web"`
}

// RegisterResponse confirms a recorded participation.
type RegisterResponse struct {
	Phone  string `json:"phone"`
	Method string `json:"method"`
}
