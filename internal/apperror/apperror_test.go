package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestFrom(t *testing.T) {
	t.Run("passes through tagged errors", func(t *testing.T) {
		tagged := NotFound("Order not found")
		got := From(fmt.Errorf("load order: %w", tagged), "fallback")
		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, "Order not found", got.Message)
	})

	t.Run("maps missing documents to 404", func(t *testing.T) {
		got := From(mongo.ErrNoDocuments, "fallback")
		assert.Equal(t, http.StatusNotFound, got.Status)
	})

	t.Run("unknown errors become 500 with the fallback", func(t *testing.T) {
		got := From(errors.New("socket closed"), "Could not load order")
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, "Could not load order", got.Message)
	})
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, StatusOf(Forbidden("no")))
	assert.Equal(t, http.StatusConflict, StatusOf(fmt.Errorf("save: %w", Conflict("dup"))))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, BadRequest("x").Status)
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("x").Status)
	assert.Equal(t, "item 7 missing", Newf(http.StatusNotFound, "item %d missing", 7).Message)
	assert.EqualError(t, New(http.StatusTeapot, "short and stout"), "short and stout")
}
