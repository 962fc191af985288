// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	aboutfeature "github.com/alumhub/alumhub/internal/app/features/about"
	adminfeature "github.com/alumhub/alumhub/internal/app/features/admin"
	apifeature "github.com/alumhub/alumhub/internal/app/features/api"
	auditlogfeature "github.com/alumhub/alumhub/internal/app/features/auditlog"
	authgooglefeature "github.com/alumhub/alumhub/internal/app/features/authgoogle"
	contactfeature "github.com/alumhub/alumhub/internal/app/features/contact"
	dashboardfeature "github.com/alumhub/alumhub/internal/app/features/dashboard"
	errorsfeature "github.com/alumhub/alumhub/internal/app/features/errors"
	eventsfeature "github.com/alumhub/alumhub/internal/app/features/events"
	forgotpasswordfeature "github.com/alumhub/alumhub/internal/app/features/forgotpassword"
	healthfeature "github.com/alumhub/alumhub/internal/app/features/health"
	homefeature "github.com/alumhub/alumhub/internal/app/features/home"
	loginfeature "github.com/alumhub/alumhub/internal/app/features/login"
	logoutfeature "github.com/alumhub/alumhub/internal/app/features/logout"
	membersfeature "github.com/alumhub/alumhub/internal/app/features/members"
	paymentfeature "github.com/alumhub/alumhub/internal/app/features/payment"
	paymentsfeature "github.com/alumhub/alumhub/internal/app/features/payments"
	profilefeature "github.com/alumhub/alumhub/internal/app/features/profile"
	registerfeature "github.com/alumhub/alumhub/internal/app/features/register"
	settingsfeature "github.com/alumhub/alumhub/internal/app/features/settings"
	"github.com/alumhub/alumhub/internal/app/gateway/sslcommerz"
	auditstore "github.com/alumhub/alumhub/internal/app/store/audit"
	"github.com/alumhub/alumhub/internal/app/store/oauthstate"
	userstore "github.com/alumhub/alumhub/internal/app/store/users"
	"github.com/alumhub/alumhub/internal/app/system/auditlog"
	"github.com/alumhub/alumhub/internal/app/system/auth"
	"github.com/alumhub/alumhub/internal/app/system/mailer"
	"github.com/alumhub/alumhub/internal/app/system/tokens"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// AlumHub initializes the template engine, applies session middleware, and
// mounts feature routers for the public pages, member areas, and the admin
// console. Browser routes sit behind CSRF protection; the JSON API and the
// gateway IPN callback are mounted outside it because their callers cannot
// carry a CSRF token.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.AlumHubMongoDatabase
	secure := coreCfg.Env == "prod"

	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName,
		appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. Approval decisions and role edits take effect
	// immediately instead of waiting for a re-login.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	audit := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Admin:   appCfg.AuditLogAdmin,
		Payment: appCfg.AuditLogPayment,
	})

	gateway := sslcommerz.New(sslcommerz.Config{
		StoreID:       appCfg.SSLCommerzStoreID,
		StorePassword: appCfg.SSLCommerzStorePassword,
		BaseURL:       appCfg.SSLCommerzBaseURL,
	})

	tokenMgr, err := tokens.New(appCfg.TokenSigningKey, appCfg.TokenTTL)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)

	googleEnabled := appCfg.GoogleClientID != ""

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.AlumHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// JSON API: bearer-token authenticated, no CSRF.
	apiHandler := apifeature.NewHandler(db, audit, tokenMgr, gateway, appCfg.BaseURL, logger)
	r.Mount("/api", apifeature.Routes(apiHandler))

	paymentHandler := paymentfeature.NewHandler(db, errLog, audit, gateway, appCfg.BaseURL, logger)

	// Gateway IPN callback: posted server-to-server by SSLCommerz.
	r.Mount("/payment/ipn", paymentfeature.IPNRoutes(paymentHandler))

	// Browser routes live behind CSRF protection.
	r.Group(func(br chi.Router) {
		br.Use(csrf.Protect([]byte(appCfg.CSRFKey),
			csrf.Secure(secure),
			csrf.Path("/")))

		// Public pages
		homeHandler := homefeature.NewHandler(db, logger)
		br.Mount("/", homefeature.Routes(homeHandler))

		aboutHandler := aboutfeature.NewHandler(db, logger)
		br.Mount("/about", aboutfeature.Routes(aboutHandler))

		contactHandler := contactfeature.NewHandler(db, logger)
		br.Mount("/contact", contactfeature.Routes(contactHandler))

		eventsHandler := eventsfeature.NewHandler(db, logger)
		br.Mount("/events", eventsfeature.Routes(eventsHandler))

		// Authentication
		loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, audit, googleEnabled, logger)
		br.Mount("/login", loginfeature.Routes(loginHandler))

		registerHandler := registerfeature.NewHandler(db, sessionMgr, errLog, audit, logger)
		br.Mount("/register", registerfeature.Routes(registerHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, audit, logger)
		br.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		forgotHandler := forgotpasswordfeature.NewHandler(db, errLog, audit, mail,
			appCfg.BaseURL, appCfg.ResetExpiry, logger)
		br.Mount("/forgot-password", forgotpasswordfeature.Routes(forgotHandler))

		googleHandler := authgooglefeature.NewHandler(userstore.New(db), sessionMgr, errLog,
			audit, oauthstate.New(db), appCfg.GoogleClientID, appCfg.GoogleClientSecret,
			appCfg.BaseURL, logger)
		br.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

		// Error pages
		br.Get("/forbidden", errorsHandler.Forbidden)
		br.Get("/unauthorized", errorsHandler.Unauthorized)

		// Member area
		dashboardHandler := dashboardfeature.NewHandler(db, errLog, logger)
		br.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

		profileHandler := profilefeature.NewHandler(db, errLog, logger)
		br.Mount("/dashboard/profile", profilefeature.Routes(profileHandler, sessionMgr))

		br.Mount("/dashboard/payment", paymentfeature.Routes(paymentHandler, sessionMgr))

		settingsHandler := settingsfeature.NewHandler(db, errLog, audit, logger)
		br.Mount("/dashboard/settings", settingsfeature.Routes(settingsHandler, sessionMgr))

		// Admin console
		adminHandler := adminfeature.NewHandler(db, errLog, audit, logger)
		br.Mount("/admin", adminfeature.Routes(adminHandler, sessionMgr))

		membersHandler := membersfeature.NewHandler(db, errLog, audit, logger)
		br.Mount("/admin/users", membersfeature.Routes(membersHandler, sessionMgr))

		paymentsHandler := paymentsfeature.NewHandler(db, errLog, audit, logger)
		br.Mount("/admin/payments", paymentsfeature.Routes(paymentsHandler, sessionMgr))

		auditlogHandler := auditlogfeature.NewHandler(db, errLog, logger)
		br.Mount("/admin/audit", auditlogfeature.Routes(auditlogHandler, sessionMgr))
	})

	return r, nil
}
