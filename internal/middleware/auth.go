package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"finledger/internal/models"
	"finledger/internal/session"
	"finledger/internal/token"
)

const identityKey = "identity"

// ResolveIdentity reads the session cookie and returns the verified claims.
// A missing cookie is not an error, and expired tokens are treated the same
// as tokens with a bad signature: the caller is simply not authenticated.
func ResolveIdentity(c *gin.Context, tokens *token.Manager) (*models.Claims, bool) {
	tokenString := session.Read(c)
	if tokenString == "" {
		return nil, false
	}
	claims, err := tokens.Verify(tokenString)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// AuthRequired creates a Gin middleware gating protected routes. It resolves
// the caller's identity from the session cookie and aborts with a generic
// 401 when there is none.
func AuthRequired(tokens *token.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ResolveIdentity(c, tokens)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Please log in."})
			c.Abort()
			return
		}

		logger.Debug("Request authenticated", zap.String("email", claims.Email))
		c.Set(identityKey, claims)
		c.Next()
	}
}

// Identity returns the authenticated claims stored by AuthRequired. It must
// only be called from handlers behind that middleware.
func Identity(c *gin.Context) *models.Claims {
	return c.MustGet(identityKey).(*models.Claims)
}
