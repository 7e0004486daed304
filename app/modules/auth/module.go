package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	authhandlers "github.com/Black-And-White-Club/lastman/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/lastman/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/lastman/config"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// Module resolves callers from bearer tokens and rate limits HTTP clients.
type Module struct {
	Provider authjwt.Provider
	Limiter  *authhandlers.IPRateLimiter
	logger   *slog.Logger
}

// NewModule creates a new auth module.
func NewModule(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Module, error) {
	logger.InfoContext(ctx, "Initializing auth module")

	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}

	return &Module{
		Provider: authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience),
		Limiter:  authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst, clockwork.NewRealClock()),
		logger:   logger,
	}, nil
}

// Middleware returns the rate limit and bearer middlewares, in order.
func (m *Module) Middleware() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		authhandlers.RateLimitMiddleware(m.Limiter),
		authhandlers.BearerMiddleware(m.Provider, m.logger),
	}
}

// Authenticated is Middleware followed by a 401 for anonymous callers.
func (m *Module) Authenticated() []func(http.Handler) http.Handler {
	return append(m.Middleware(), authhandlers.RequireCaller)
}
