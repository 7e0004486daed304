package authjwt

import (
	"time"

	authdomain "github.com/Black-And-White-Club/lastman/app/modules/auth/domain"
)

// Provider defines the interface for JWT token operations.
type Provider interface {
	// GenerateToken creates a signed token for the claims' user.
	GenerateToken(claims *authdomain.Claims, ttl time.Duration) (string, error)

	// ValidateToken validates a token and returns the claims if valid.
	ValidateToken(tokenString string) (*authdomain.Claims, error)
}
