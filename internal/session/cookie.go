// Package session carries the signed token between client and server as an
// HTTP cookie. There is no server-side session state and no revocation
// list: a stolen token stays valid until its encoded expiry.
package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName is the fixed name of the session cookie.
const CookieName = "auth-token"

// Set attaches the token to the response as an HttpOnly, SameSite=Lax
// cookie on path "/". Secure is enabled only in production-like
// environments. Max-Age matches the token TTL.
func Set(c *gin.Context, tokenString string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, tokenString, int(ttl.Seconds()), "/", "", secure, true)
}

// Clear overwrites the session cookie with an empty value and Max-Age=0,
// expiring it on the client immediately.
func Clear(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}

// Read returns the raw token from the request cookie, or "" if the cookie
// is absent.
func Read(c *gin.Context) string {
	tokenString, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return tokenString
}
