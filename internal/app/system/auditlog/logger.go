// internal/app/system/auditlog/logger.go

// Package auditlog provides convenience methods for recording audit events
// to MongoDB (via the audit store) and structured logs (via zap), behind a
// per-category on/off configuration.
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/alumhub/alumhub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration. Each category accepts
// "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), or "off".
type Config struct {
	Auth    string
	Admin   string
	Payment string
}

// Logger provides convenience methods for logging audit events.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	case audit.CategoryPayment:
		setting = l.config.Payment
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication events ---

// LoginSuccess logs a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, authMethod, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"auth_method": authMethod,
			"email":       email,
		},
	})
}

// LoginFailed logs a failed login attempt.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType, email, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"email": email},
	})
}

// Logout logs a logout. userID may be empty if the session was stale.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDHex, email string) {
	var uid *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(userIDHex); err == nil {
		uid = &oid
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		UserID:    uid,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"email": email},
	})
}

// Registered logs a successful registration.
func (l *Logger) Registered(ctx context.Context, r *http.Request, userID primitive.ObjectID, authMethod, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventRegistered,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"auth_method": authMethod,
			"email":       email,
		},
	})
}

// PasswordChanged logs a password change from the settings page.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventPasswordChanged,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// PasswordResetRequested logs a reset email dispatch.
func (l *Logger) PasswordResetRequested(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventPasswordResetRequested,
		UserID:    &userID,
		IP:        getClientIP(r),
		Success:   true,
		Details:   map[string]string{"email": email},
	})
}

// PasswordResetCompleted logs a reset token being consumed.
func (l *Logger) PasswordResetCompleted(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventPasswordResetCompleted,
		UserID:    &userID,
		IP:        getClientIP(r),
		Success:   true,
	})
}

// --- Admin events ---

// ApprovalDecision logs an approve/reject decision on a member.
func (l *Logger) ApprovalDecision(ctx context.Context, r *http.Request, memberID, actorID primitive.ObjectID, approved bool) {
	eventType := audit.EventMemberApproved
	if !approved {
		eventType = audit.EventMemberRejected
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		UserID:    &memberID,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// SettingsUpdated logs a site-settings change.
func (l *Logger) SettingsUpdated(ctx context.Context, r *http.Request, actorID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventSettingsUpdated,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		Success:   true,
	})
}

// --- Payment events ---

// PaymentSubmitted logs a manual payment submission.
func (l *Logger) PaymentSubmitted(ctx context.Context, r *http.Request, userID, paymentID primitive.ObjectID, method string, amount int) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryPayment,
		EventType: audit.EventPaymentSubmitted,
		UserID:    &userID,
		IP:        getClientIP(r),
		Success:   true,
		Details: map[string]string{
			"payment_id": paymentID.Hex(),
			"method":     method,
			"amount":     strconv.Itoa(amount),
		},
	})
}

// PaymentInitiated logs a gateway checkout initiation.
func (l *Logger) PaymentInitiated(ctx context.Context, r *http.Request, userID, paymentID primitive.ObjectID, amount int) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryPayment,
		EventType: audit.EventPaymentInitiated,
		UserID:    &userID,
		IP:        getClientIP(r),
		Success:   true,
		Details: map[string]string{
			"payment_id": paymentID.Hex(),
			"amount":     strconv.Itoa(amount),
		},
	})
}

// PaymentCompleted logs a gateway-confirmed payment.
func (l *Logger) PaymentCompleted(ctx context.Context, r *http.Request, paymentID primitive.ObjectID, validationID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryPayment,
		EventType: audit.EventPaymentCompleted,
		IP:        getClientIP(r),
		Success:   true,
		Details: map[string]string{
			"payment_id":    paymentID.Hex(),
			"validation_id": validationID,
		},
	})
}

// PaymentStatusUpdated logs an admin or gateway status transition.
func (l *Logger) PaymentStatusUpdated(ctx context.Context, r *http.Request, paymentID primitive.ObjectID, actorID *primitive.ObjectID, status string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryPayment,
		EventType: audit.EventPaymentStatusUpdated,
		ActorID:   actorID,
		IP:        getClientIP(r),
		Success:   true,
		Details: map[string]string{
			"payment_id": paymentID.Hex(),
			"status":     status,
		},
	})
}

