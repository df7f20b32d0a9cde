package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/spendtrack/auth/internal/auth/service"
	"github.com/spendtrack/auth/internal/auth/store"
	"github.com/spendtrack/auth/pkg/httpx"
	"github.com/spendtrack/auth/pkg/jwtx"
	"github.com/spendtrack/auth/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	sessions          store.SessionStore
	TokenService      *service.TokenService
	CredentialService *service.CredentialService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	sessions store.SessionStore,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		sessions:     sessions,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	loginHandler := &LoginHandler{
		Credentials: r.CredentialService,
		Tokens:      r.TokenService,
	}

	// POST /login - strict rate limit by IP (authentication attempts)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /refresh - strict rate limit by IP; a replayed stolen token is
	// still an authentication attempt
	refreshHandler := &RefreshHandler{Tokens: r.TokenService}
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /logout - requires a valid access token, moderate limit by user
	logoutHandler := &LogoutHandler{Tokens: r.TokenService}
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(logoutHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.sessions),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
