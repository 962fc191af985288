// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	auditstore "github.com/alumhub/alumhub/internal/app/store/audit"
	"github.com/alumhub/alumhub/internal/app/system/viewdata"
)

// listItem represents a single audit event row for display.
type listItem struct {
	ID         string
	Timestamp  time.Time
	Category   string
	EventType  string
	ActorName  string // resolved from ActorID
	TargetName string // resolved from UserID
	IP         string
	Success    bool
	Details    map[string]string
}

// listData is the view model for the audit log list page.
type listData struct {
	viewdata.BaseVM

	Items []listItem

	// Filters
	Category  string
	EventType string
	StartDate string
	EndDate   string

	// Filter options
	Categories []categoryOption
	EventTypes []string

	// Pagination
	Page       int
	TotalPages int
	Total      int64
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

// categoryOption represents a category for the filter dropdown.
type categoryOption struct {
	Value string
	Label string
}

// allCategories returns the available categories for filtering.
func allCategories() []categoryOption {
	return []categoryOption{
		{Value: auditstore.CategoryAuth, Label: "Authentication"},
		{Value: auditstore.CategoryAdmin, Label: "Administration"},
		{Value: auditstore.CategoryPayment, Label: "Payments"},
	}
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		auditstore.EventLoginSuccess,
		auditstore.EventLoginFailedUserNotFound,
		auditstore.EventLoginFailedWrongPassword,
		auditstore.EventLoginFailedRateLimit,
		auditstore.EventLogout,
		auditstore.EventRegistered,
		auditstore.EventPasswordChanged,
		auditstore.EventPasswordResetRequested,
		auditstore.EventPasswordResetCompleted,
		auditstore.EventGoogleSignIn,
	}

	adminEvents := []string{
		auditstore.EventMemberApproved,
		auditstore.EventMemberRejected,
		auditstore.EventSettingsUpdated,
	}

	paymentEvents := []string{
		auditstore.EventPaymentSubmitted,
		auditstore.EventPaymentInitiated,
		auditstore.EventPaymentStatusUpdated,
		auditstore.EventPaymentCompleted,
	}

	switch category {
	case auditstore.CategoryAuth:
		return authEvents
	case auditstore.CategoryAdmin:
		return adminEvents
	case auditstore.CategoryPayment:
		return paymentEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents)+len(paymentEvents))
		all = append(all, authEvents...)
		all = append(all, adminEvents...)
		all = append(all, paymentEvents...)
		return all
	default:
		return nil
	}
}
