package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"mediform-service/internal/models"
	"mediform-service/internal/seeders"
)

const userContextKey = "current_user"

// sessionClaims carries the full user snapshot so requests never need a user
// lookup.
type sessionClaims struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for the user, valid for 24 hours.
func IssueToken(secret []byte, user models.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Name:       user.Name,
		Role:       user.Role,
		Department: user.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Session resolves the acting user from the Authorization header. A missing,
// expired, or otherwise invalid token falls back to the default demo staff
// user rather than rejecting the request, so a fresh browser session works
// without a login step.
func Session(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := seeders.DefaultUser()
		if token := bearerToken(c); token != "" {
			if parsed, ok := parseToken(secret, token); ok {
				user = parsed
			}
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by the Session middleware.
func CurrentUser(c *gin.Context) models.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(models.User); ok {
			return user
		}
	}
	return seeders.DefaultUser()
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func parseToken(secret []byte, token string) (models.User, bool) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return models.User{}, false
	}
	if !models.IsValidRole(claims.Role) {
		return models.User{}, false
	}
	return models.User{
		ID:         claims.Subject,
		Name:       claims.Name,
		Role:       claims.Role,
		Department: claims.Department,
	}, true
}
