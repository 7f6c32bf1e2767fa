package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Signing configuration, assigned once at startup before routes are built.
var (
	// SigningKey signs and verifies session tokens.
	SigningKey []byte
	// TokenTTL caps the absolute lifetime of a session token, and with it
	// the session itself; non-positive mints tokens that never expire, the
	// same meaning the session manager gives its idle TTL. Idle expiry is
	// the session manager's job.
	TokenTTL = 30 * time.Minute
)

// MintSessionToken signs a token that authorizes operations on the given
// session only.
func MintSessionToken(sessionID string) (string, error) {
	if len(SigningKey) == 0 {
		return "", errors.New("session signing key not configured")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sessionID,
		"iat": now.Unix(),
	}
	if TokenTTL > 0 {
		claims["exp"] = now.Add(TokenTTL).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(SigningKey)
}

// ParseSessionToken verifies a session token and returns the session ID it
// was minted for.
func ParseSessionToken(raw string) (string, error) {
	if len(SigningKey) == 0 {
		return "", errors.New("session signing key not configured")
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return SigningKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("unexpected token claims")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errors.New("token has no session ID")
	}
	return sid, nil
}

// SessionAuth guards the per-session routes: the request must carry a token
// minted for the session named by the :id parameter.
func SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing session token"})
			return
		}
		sid, err := ParseSessionToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session token"})
			return
		}
		if sid != c.Param("id") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token does not match session"})
			return
		}
		c.Set("sessionID", sid)
		c.Next()
	}
}

// bearerToken pulls the session token from the Authorization header, or
// from the token query parameter for clients that cannot set headers on a
// WebSocket upgrade.
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return c.Query("token")
}
