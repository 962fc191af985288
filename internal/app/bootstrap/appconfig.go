// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request limits. AppConfig is where
// everything specific to AlumHub lives: database connection strings,
// session and CSRF keys, the payment gateway credentials, SMTP settings,
// and so on.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: alumhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // How long a session cookie stays valid

	// CSRF protection
	CSRFKey string // 32-byte key for gorilla/csrf token signing

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty disables auth)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@alumhub.org)
	MailFromName string // From display name (e.g., AlumHub)

	// Base URL for redirects and email links (password reset, OAuth
	// callbacks, gateway return URLs)
	BaseURL string // e.g., "https://alumhub.org" or "http://localhost:3000"

	// Password reset link expiry
	ResetExpiry time.Duration

	// Audit logging settings: "all" (db+log), "db", "log", or "off"
	AuditLogAuth    string
	AuditLogAdmin   string
	AuditLogPayment string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// SSLCommerz payment gateway configuration
	SSLCommerzStoreID       string
	SSLCommerzStorePassword string
	SSLCommerzBaseURL       string // sandbox or live API host

	// JSON API bearer tokens
	TokenSigningKey string
	TokenTTL        time.Duration

	// Admin bootstrap
	AdminEmail string // Email promoted to (or created as) admin on startup
}
