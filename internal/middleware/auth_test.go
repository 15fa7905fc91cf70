package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazaarwale-backend/internal/models"
)

const testSecret = "unit-test-secret"

type staticLoader struct {
	users map[primitive.ObjectID]*models.User
}

func (l *staticLoader) FindActive(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if user, ok := l.users[id]; ok {
		return user, nil
	}
	return nil, errors.New("not found")
}

func newTestUser(role models.UserRole) (*models.User, *staticLoader) {
	user := &models.User{ID: primitive.NewObjectID(), Role: role}
	return user, &staticLoader{users: map[primitive.ObjectID]*models.User{user.ID: user}}
}

func TestSignAndParseToken(t *testing.T) {
	userID := primitive.NewObjectID()
	token, err := SignToken(userID, models.RoleVendor, "sess-1", testSecret, time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID.Hex(), claims.Subject)
	assert.Equal(t, "vendor", claims.Role)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestParseTokenRejectsBadSecret(t *testing.T) {
	token, err := SignToken(primitive.NewObjectID(), models.RoleCustomer, "s", testSecret, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := SignToken(primitive.NewObjectID(), models.RoleCustomer, "s", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret)
	assert.Error(t, err)
}

func performRequest(handler gin.HandlerFunc, authz string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", handler, func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": user.ID.Hex()})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	user, loader := newTestUser(models.RoleCustomer)
	token, err := SignToken(user.ID, user.Role, "sess", testSecret, time.Minute)
	require.NoError(t, err)

	t.Run("valid token passes", func(t *testing.T) {
		w := performRequest(RequireAuth(testSecret, loader), "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), user.ID.Hex())
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		w := performRequest(RequireAuth(testSecret, loader), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Authentication required")
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		w := performRequest(RequireAuth(testSecret, loader), "Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		orphan, err := SignToken(primitive.NewObjectID(), models.RoleCustomer, "sess", testSecret, time.Minute)
		require.NoError(t, err)
		w := performRequest(RequireAuth(testSecret, loader), "Bearer "+orphan)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAuthRoles(t *testing.T) {
	customer, loader := newTestUser(models.RoleCustomer)
	token, err := SignToken(customer.ID, customer.Role, "sess", testSecret, time.Minute)
	require.NoError(t, err)

	t.Run("role mismatch is forbidden", func(t *testing.T) {
		w := performRequest(RequireAuth(testSecret, loader, models.RoleAdmin), "Bearer "+token)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Insufficient permissions")
	})

	t.Run("role in allow list passes", func(t *testing.T) {
		w := performRequest(RequireAuth(testSecret, loader, models.RoleAdmin, models.RoleCustomer), "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	user, loader := newTestUser(models.RoleVendor)
	token, err := SignToken(user.ID, user.Role, "sess", testSecret, time.Minute)
	require.NoError(t, err)

	t.Run("token attaches the user", func(t *testing.T) {
		w := performRequest(OptionalAuth(testSecret, loader), "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), user.ID.Hex())
	})

	t.Run("no token still passes", func(t *testing.T) {
		w := performRequest(OptionalAuth(testSecret, loader), "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "anonymous")
	})

	t.Run("invalid token still passes anonymously", func(t *testing.T) {
		w := performRequest(OptionalAuth(testSecret, loader), "Bearer junk")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "anonymous")
	})
}
