package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	coreport "github.com/ownaimerch/merch-credits/internal/domain/port/core"
)

const identityKey = "identity"

// TokenVerifier resolves a bearer token to a caller identity
type TokenVerifier interface {
	Verify(token string) (entity.Identity, error)
}

// IdentityOptions control how callers are identified
type IdentityOptions struct {
	Verifier     TokenVerifier // nil disables bearer tokens
	RequireToken bool          // reject identities taken from the request body or query
}

// Identity resolves bearer tokens; requests without one continue unauthenticated
func Identity(options IdentityOptions, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || options.Verifier == nil {
			c.Next()
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			Abort(c, errs.ErrNotAuthenticated)
			return
		}

		identity, err := options.Verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			logger.Warn("Rejected storefront token", map[string]any{
				"error":      err.Error(),
				"request_id": RequestIDFrom(c),
			})
			if errs.ErrorCode(err) == errs.CodeInvalidIdentity {
				Abort(c, err)
				return
			}
			Abort(c, errs.ErrNotAuthenticated)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// ResolveIdentity prefers the token identity and falls back to the supplied raw customer
// unless tokens are required
func ResolveIdentity(c *gin.Context, requireToken bool, rawCustomerID, email string) (entity.Identity, error) {
	if value, ok := c.Get(identityKey); ok {
		identity := value.(entity.Identity)
		if identity.Email == "" {
			identity.Email = strings.TrimSpace(email)
		}
		return identity, nil
	}
	if requireToken {
		return entity.Identity{}, errs.ErrNotAuthenticated
	}
	return entity.NewIdentity(rawCustomerID, email)
}
