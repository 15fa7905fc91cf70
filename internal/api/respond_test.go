package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/config"
	"bazaarwale-backend/internal/upload"
)

func newTestAPI(env string) *API {
	cfg := &config.Config{}
	cfg.App.Env = env
	cfg.Rate.RPS = 100
	cfg.Rate.Burst = 100
	cfg.Razorpay.WebhookSecret = "whsec_test"
	return New(Deps{
		Config:  cfg,
		Log:     zap.NewNop(),
		Uploads: upload.NewStore("/tmp/test-uploads", 1<<20),
	})
}

type bindTarget struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,min=2"`
}

func bindRouter(a *API) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var body bindTarget
		if !a.bindJSON(c, &body) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": body.Email})
	})
	r.GET("/items/:itemId", func(c *gin.Context) {
		id, ok := a.objectIDParam(c, "itemId")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id.Hex()})
	})
	r.GET("/boom", func(c *gin.Context) {
		a.fail(c, apperror.Internal("database exploded"))
	})
	r.GET("/missing", func(c *gin.Context) {
		a.fail(c, apperror.NotFound("Order not found"))
	})
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getPath(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBindJSONValidationErrors(t *testing.T) {
	r := bindRouter(newTestAPI("test"))

	w := postJSON(r, "/bind", `{"email":"not-an-email","name":"x"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Message string `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body.Message)
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "email", body.Errors[0].Field)
	assert.Equal(t, "Must be a valid email address", body.Errors[0].Message)
	assert.Equal(t, "name", body.Errors[1].Field)
	assert.Equal(t, "Must be at least 2", body.Errors[1].Message)
}

func TestBindJSONMalformedBody(t *testing.T) {
	r := bindRouter(newTestAPI("test"))

	w := postJSON(r, "/bind", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestBindJSONValidBody(t *testing.T) {
	r := bindRouter(newTestAPI("test"))

	w := postJSON(r, "/bind", `{"email":"buyer@example.com","name":"Asha"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "buyer@example.com")
}

func TestObjectIDParam(t *testing.T) {
	r := bindRouter(newTestAPI("test"))

	w := getPath(r, "/items/64b0c8f2a4d3e21f98765432")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "64b0c8f2a4d3e21f98765432")

	w = getPath(r, "/items/nope")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid itemId")
}

func TestFailStatusMapping(t *testing.T) {
	r := bindRouter(newTestAPI("test"))

	w := getPath(r, "/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Order not found")
}

func TestFailMasksInternalErrorsInProduction(t *testing.T) {
	t.Run("production hides details", func(t *testing.T) {
		w := getPath(bindRouter(newTestAPI("production")), "/boom")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Internal server error")
		assert.NotContains(t, w.Body.String(), "database exploded")
	})

	t.Run("development keeps details", func(t *testing.T) {
		w := getPath(bindRouter(newTestAPI("development")), "/boom")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "database exploded")
	})
}
