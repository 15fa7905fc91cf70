package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bazaarwale-backend/internal/apperror"
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// fail writes the JSON error response for err. Binding failures become a 422
// with per-field details; everything else maps through the apperror status.
func (a *API) fail(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldError{
				Field:   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
				Message: validationMessage(fe),
			})
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "Validation failed",
			"errors":  details,
		})
		return
	}

	status := apperror.StatusOf(err)
	message := err.Error()
	if status >= http.StatusInternalServerError || !a.cfg.IsProduction() {
		a.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	if status >= http.StatusInternalServerError && a.cfg.IsProduction() {
		message = "Internal server error"
	}
	c.JSON(status, gin.H{"message": message})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Must be at least " + fe.Param()
	case "max":
		return "Must be at most " + fe.Param()
	case "oneof":
		return "Must be one of: " + fe.Param()
	default:
		return "Invalid value"
	}
}

// bindJSON binds the request body and reports failure via fail. Callers
// should return immediately when it reports false.
func (a *API) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			a.fail(c, err)
		} else {
			a.fail(c, apperror.BadRequest("Invalid request body"))
		}
		return false
	}
	return true
}

// objectIDParam parses a path parameter as a Mongo ObjectID.
func (a *API) objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		a.fail(c, apperror.BadRequest("Invalid "+name))
		return primitive.NilObjectID, false
	}
	return id, true
}
