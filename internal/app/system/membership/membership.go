// internal/app/system/membership/membership.go

// Package membership holds the pure derivation logic for a member's
// standing: membership state, profile-completion percentage, and the
// display badge for a payment status. Nothing here touches the database.
package membership

import (
	"time"

	"github.com/alumhub/alumhub/internal/domain/models"
)

// StateKind classifies a member's derived standing.
type StateKind string

const (
	StatePendingApproval  StateKind = "pending_approval"
	StateRejected         StateKind = "rejected"
	StateActiveUntil      StateKind = "active_until"
	StateExpired          StateKind = "expired"
	StateApprovedNoExpiry StateKind = "approved_no_expiry"
)

// State is the derived membership standing for a user.
// Until is set only for StateActiveUntil and StateExpired.
type State struct {
	Kind  StateKind
	Until *time.Time
}

// DeriveState classifies a user's membership standing at the given instant.
//
// A user who is not approved is pending (or rejected when a rejection has
// been recorded), regardless of any other field. An approved user with no
// expiry on record is approved without a term. Otherwise the expiry date
// decides active versus expired.
func DeriveState(u *models.User, now time.Time) State {
	if !u.Approved {
		if u.RejectedAt != nil {
			return State{Kind: StateRejected}
		}
		return State{Kind: StatePendingApproval}
	}
	if u.MembershipExpiry == nil {
		return State{Kind: StateApprovedNoExpiry}
	}
	exp := *u.MembershipExpiry
	if exp.After(now) {
		return State{Kind: StateActiveUntil, Until: &exp}
	}
	return State{Kind: StateExpired, Until: &exp}
}

// Label returns the English display label for a state.
func (s State) Label() string {
	switch s.Kind {
	case StatePendingApproval:
		return "Pending Approval"
	case StateRejected:
		return "Rejected"
	case StateActiveUntil:
		return "Active"
	case StateExpired:
		return "Expired"
	case StateApprovedNoExpiry:
		return "Approved"
	default:
		return string(s.Kind)
	}
}

// CompletionPercent computes how much of the optional profile a user has
// filled in, as an integer 0 to 100 rounded to the nearest whole percent.
//
// The enumerated field set is fixed; adding a profile field to the model
// does not change the percentage until it is added here too. A string
// field counts when non-empty, birth date when a value is present.
func CompletionPercent(u *models.User) int {
	fields := []bool{
		u.Phone != "",
		u.ProfileImageURL != "",
		u.Gender != "",
		u.BirthDate != nil,
		u.NationalID != "",
		u.CurrentAddress != "",
		u.PermanentAddress != "",
		u.Occupation != "",
		u.CurrentLocation != "",
		u.StudyYears != "",
		u.PassYear != "",
		u.SecondaryEducation != "",
		u.HigherEducation != "",
		u.CurrentWorkplace != "",
		u.WorkExperience != "",
	}

	filled := 0
	for _, f := range fields {
		if f {
			filled++
		}
	}

	pct := (filled*100 + len(fields)/2) / len(fields)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Badge describes how a payment status renders in lists.
type Badge struct {
	Label string
	Color string // semantic color name used by the templates
	Icon  string
}

// paymentBadges is a total mapping over the known status vocabulary.
var paymentBadges = map[string]Badge{
	models.PaymentPending:   {Label: "Pending", Color: "warning", Icon: "clock"},
	models.PaymentVerified:  {Label: "Verified", Color: "success", Icon: "check-circle"},
	models.PaymentCompleted: {Label: "Completed", Color: "success", Icon: "check-circle"},
	models.PaymentFailed:    {Label: "Failed", Color: "danger", Icon: "x-circle"},
	models.PaymentCancelled: {Label: "Cancelled", Color: "muted", Icon: "slash-circle"},
}

// PaymentBadge maps a payment status to its display badge. Unknown statuses
// fall back to showing the raw string with no icon.
func PaymentBadge(status string) Badge {
	if b, ok := paymentBadges[status]; ok {
		return b
	}
	return Badge{Label: status, Color: "muted"}
}
