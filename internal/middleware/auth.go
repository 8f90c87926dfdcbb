package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brightsmile/clinic-api/pkg/auth"
	apperrors "github.com/brightsmile/clinic-api/pkg/errors"
	"github.com/brightsmile/clinic-api/pkg/httputil"
)

const ContextPrincipal = "principal"

// Authenticate resolves the bearer token into a principal. Token
// issuance lives with an external identity provider; only verification
// happens here.
func Authenticate(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			httputil.RespondWithError(c, apperrors.Authentication("missing bearer token"))
			c.Abort()
			return
		}

		principal, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			httputil.RespondWithError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextPrincipal, principal)
		c.Next()
	}
}

// RequireRole gates mutations behind the listed roles. It assumes
// Authenticate already ran.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(ContextPrincipal)
		if !ok {
			httputil.RespondWithError(c, apperrors.Authentication("missing principal"))
			c.Abort()
			return
		}

		principal := v.(*auth.Principal)
		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		httputil.RespondWithError(c, apperrors.Unauthorized("insufficient role"))
		c.Abort()
	}
}
