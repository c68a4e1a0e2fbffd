// internal/shift/models.go

package shift

import (
	"fmt"
	"time"

	"github.com/sweepstouch/registration-gateway/internal/backend"
)

// Resolution is the promoter's dashboard state: the active shift (nil when
// there is none), its stats, the campaign the shift registers into and the
// derived countdown string.
type Resolution struct {
	Shift      *backend.Shift      `json:"shift"`
	Stats      backend.ShiftStats  `json:"stats"`
	Sweepstake *backend.Sweepstake `json:"sweepstake,omitempty"`
	TimeLeft   string              `json:"timeLeft,omitempty"`
}

// HasActiveShift reports whether the promoter is on shift.
func (r *Resolution) HasActiveShift() bool {
	return r != nil && r.Shift != nil
}

// Dashboard is the full snapshot pushed to the promoter UI.
type Dashboard struct {
	Resolution
	RecentPhones   []string `json:"recentPhones"`
	JustRegistered bool     `json:"justRegistered"`
}

// TimeLeft renders the countdown shown in the dashboard drawer. It is
// recomputed on every tick rather than counted down locally.
func TimeLeft(endTime, now time.Time) string {
	diff := endTime.Sub(now)
	if diff <= 0 {
		return "Shift ended"
	}
	hours := int(diff.Hours())
	minutes := int(diff.Minutes()) % 60
	return fmt.Sprintf("%dh %dmin remaining", hours, minutes)
}
