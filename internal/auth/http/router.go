package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ordercraft/auth/internal/auth/service"
	"github.com/ordercraft/auth/pkg/httpx"
	"github.com/ordercraft/auth/pkg/jwtx"
	"github.com/ordercraft/auth/pkg/slogx"

	_ "github.com/ordercraft/auth/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	sessionsPing   Pinger
	identitiesPing Pinger

	AuthService      *service.AuthService
	SessionService   *service.SessionService
	AuthorizeService *service.AuthorizeService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	logger *slog.Logger,
	sessionsPing, identitiesPing Pinger,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		verifier:       verifier,
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		logger:         logger,
		sessionsPing:   sessionsPing,
		identitiesPing: identitiesPing,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTokens()
	r.registerValidate()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			OrderCraft Authentication Service API
//	@version		0.1.0
//	@description	Authentication service for the OrderCraft platform: account registration,
//	@description	login with JWT access tokens, server-side refresh sessions, and a
//	@description	forward-auth endpoint for the ingress proxy.
//	@description
//	@description				Access tokens are signed with HS256; refresh tokens are opaque and
//	@description				backed by a server-side session store.
//
//	@contact.name				OrderCraft Platform Team
//	@contact.url				https://github.com/ordercraft/auth
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
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// POST /registration - strict rate limit by IP (account creation)
	r.Mux.Handle("POST /v1/auth/registration",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - strict rate limit by IP (authentication attempts)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /logout - moderate rate limit; carries only an opaque token,
	// so no authentication is required
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// DELETE /sessions - logout everywhere; the account comes from the
	// access token, so this one is authenticated
	r.Mux.Handle("DELETE /v1/auth/sessions",
		httpx.Chain(http.HandlerFunc(h.HandleLogoutAll),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerTokens() {
	h := &TokensHandler{SessionService: r.SessionService}

	// POST /tokens/access - moderate rate limit by IP
	r.Mux.Handle("POST /v1/tokens/access",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// PATCH /tokens/refresh - moderate rate limit by IP
	r.Mux.Handle("PATCH /v1/tokens/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleExtend),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerValidate() {
	h := &ValidateHandler{AuthorizeService: r.AuthorizeService}

	// GET /validate - the ingress calls this for every proxied request,
	// so the limit is the public one
	r.Mux.Handle("GET /v1/auth/validate",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.sessionsPing, r.identitiesPing),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
