// Package middleware holds the gin middleware shared by every route group.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazaarwale-backend/internal/models"
)

const (
	// Context keys set by the auth middleware.
	CtxUser   = "authUser"
	CtxClaims = "authClaims"
)

// Claims is the payload carried by both access and refresh tokens. Subject
// holds the user id.
type Claims struct {
	Role      string `json:"role"`
	SessionID string `json:"sessionId"`
	jwt.StandardClaims
}

// SignToken issues an HS256 token for the user.
func SignToken(userID primitive.ObjectID, role models.UserRole, sessionID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:      string(role),
		SessionID: sessionID,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID.Hex(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the signature and expiry and returns the claims.
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// UserLoader resolves the authenticated user on every request so revoked or
// soft-deleted accounts lose access immediately.
type UserLoader interface {
	FindActive(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// RequireAuth rejects requests without a valid access token. When roles are
// given, the user's role must be among them.
func RequireAuth(secret string, loader UserLoader, roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, claims, ok := authenticate(c, secret, loader)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}
		if len(roles) > 0 && !roleAllowed(user.Role, roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions"})
			return
		}
		c.Set(CtxUser, user)
		c.Set(CtxClaims, claims)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and lets the
// request through either way.
func OptionalAuth(secret string, loader UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, claims, ok := authenticate(c, secret, loader); ok {
			c.Set(CtxUser, user)
			c.Set(CtxClaims, claims)
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, secret string, loader UserLoader) (*models.User, *Claims, bool) {
	tokenString := extractToken(c)
	if tokenString == "" {
		return nil, nil, false
	}
	claims, err := ParseToken(tokenString, secret)
	if err != nil {
		return nil, nil, false
	}
	userID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, nil, false
	}
	user, err := loader.FindActive(c.Request.Context(), userID)
	if err != nil || user == nil {
		return nil, nil, false
	}
	return user, claims, true
}

// extractToken reads the Bearer header, falling back to the accessToken
// cookie set for browser clients.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie("accessToken"); err == nil {
		return cookie
	}
	return ""
}

func roleAllowed(role models.UserRole, allowed []models.UserRole) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// CurrentUser returns the user stored by RequireAuth. The bool is false on
// routes that only use OptionalAuth and got no token.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// CurrentClaims returns the token claims stored by the auth middleware.
func CurrentClaims(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(CtxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
