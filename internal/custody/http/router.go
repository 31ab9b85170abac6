package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/custody/internal/custody/metrics"
	"github.com/aussiebroadwan/custody/internal/custody/service"
	"github.com/aussiebroadwan/custody/internal/custody/store"
	"github.com/aussiebroadwan/custody/pkg/httpx"
	"github.com/aussiebroadwan/custody/pkg/slogx"

	_ "github.com/aussiebroadwan/custody/api/custody" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// RateLimits groups the limiter profiles used by the routes.
type RateLimits struct {
	Login  httpx.RateLimitConfig
	Write  httpx.RateLimitConfig
	Read   httpx.RateLimitConfig
	Health httpx.RateLimitConfig
}

// DefaultRateLimits uses the httpx profiles, which honour RATELIMIT_* overrides.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Login:  httpx.StrictLimit,
		Write:  httpx.ModerateLimit,
		Read:   httpx.LenientLimit,
		Health: httpx.LenientLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	SessionService  *service.SessionService
	LedgerService   *service.LedgerService
	RequestService  *service.RequestService
	ActivityService *service.ActivityService

	// Revocations is checked by /readyz when set.
	Revocations Pinger

	Metrics      *metrics.Metrics
	Limits       RateLimits
	SecureCookie bool
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		Limits:       DefaultRateLimits(),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerCertificates()
	r.registerRequests()
	r.registerLogs()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Certificate Custody Service API
//	@version		0.1.0
//	@description	Tracks physical certificates held by the office: who owns them, whether they are in the office,
//	@description	release requests from students and the issue/return activity log.
//	@description
//	@description				Sign in with POST /api/login. The session token is set as the "token" cookie and is also
//	@description				accepted as a bearer token.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/custody
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) authed(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		AuthnMiddleware(r.SessionService),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerSession() {
	h := &SessionHandler{
		SessionService: r.SessionService,
		SecureCookie:   r.SecureCookie,
	}

	// Rate limited by IP + email to slow down password guessing.
	r.Mux.Handle("POST /api/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(r.Limits.Login, "email"),
		),
	)
	r.Mux.Handle("POST /api/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(r.Limits.Write),
		),
	)
	r.Mux.Handle("GET /api/me", r.authed(h.HandleMe, r.Limits.Read))
}

func (r *Router) registerCertificates() {
	h := &CertificatesHandler{LedgerService: r.LedgerService}

	r.Mux.Handle("GET /api/certificates", r.authed(h.HandleList, r.Limits.Read))
	r.Mux.Handle("POST /api/certificates", r.authed(h.HandleCreate, r.Limits.Write))
	r.Mux.Handle("PUT /api/certificates/{id}/present", r.authed(h.HandleSetPresence, r.Limits.Write))
	r.Mux.Handle("POST /api/certificates/{id}/issue", r.authed(h.HandleIssue, r.Limits.Write))
	r.Mux.Handle("POST /api/certificates/{id}/return", r.authed(h.HandleReturn, r.Limits.Write))
}

func (r *Router) registerRequests() {
	h := &RequestsHandler{RequestService: r.RequestService}

	r.Mux.Handle("POST /api/requests", r.authed(h.HandleSubmit, r.Limits.Write))
	r.Mux.Handle("GET /api/requests", r.authed(h.HandleList, r.Limits.Read))
	r.Mux.Handle("POST /api/requests/{id}/decision", r.authed(h.HandleDecide, r.Limits.Write))
}

func (r *Router) registerLogs() {
	h := &LogsHandler{ActivityService: r.ActivityService}

	r.Mux.Handle("GET /api/logs", r.authed(h.ServeHTTP, r.Limits.Read))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.Limits.Health),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Revocations),
			httpx.RateLimitByIP(r.Limits.Health),
		),
	)
	r.Mux.Handle("GET /metrics", r.Metrics.Handler())
}
