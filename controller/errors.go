package controller

import (
	"errors"
	"movehub-backend/models"
	"movehub-backend/services"
	"movehub-backend/utils/logger"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// newValidator reports json field names instead of Go field names. Struct fields
// tagged required must be non-zero.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func formatValidationErrors(err error) (string, string) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error(), ""
	}

	var errorMessages []string
	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		switch fieldError.Tag() {
		case "required":
			errorMessages = append(errorMessages, field+" is required")
		case "min":
			errorMessages = append(errorMessages, field+" must be at least "+fieldError.Param()+" characters/items")
		case "max":
			errorMessages = append(errorMessages, field+" must be at most "+fieldError.Param()+" characters/items")
		case "gte":
			errorMessages = append(errorMessages, field+" must be greater than or equal to "+fieldError.Param())
		case "lte":
			errorMessages = append(errorMessages, field+" must be less than or equal to "+fieldError.Param())
		case "oneof":
			errorMessages = append(errorMessages, field+" must be one of: "+strings.ReplaceAll(fieldError.Param(), " ", ", "))
		default:
			errorMessages = append(errorMessages, field+" is invalid")
		}
	}

	return strings.Join(errorMessages, "; "), validationErrors[0].Field()
}

// bind decodes the JSON body into req and runs struct validation.
// It writes the 400 response itself and reports false on failure.
func bind(c *gin.Context, v *validator.Validate, log logger.Logger, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		log.Debugf("Failed to bind JSON: %v", err)
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Invalid request",
			Error: &models.APIError{
				Type:    models.ErrorTypeValidation,
				Details: err.Error(),
			},
		})
		return false
	}

	if err := v.Struct(req); err != nil {
		details, field := formatValidationErrors(err)
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "Validation failed",
			Error: &models.APIError{
				Type:    models.ErrorTypeValidation,
				Details: details,
				Field:   field,
			},
		})
		return false
	}
	return true
}

// respondError maps service errors onto the response envelope.
// Internal errors are logged and answered with a generic message.
func respondError(c *gin.Context, log logger.Logger, message string, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: message,
			Error: &models.APIError{
				Type:    models.ErrorTypeValidation,
				Details: vErr.Message,
				Field:   vErr.Field,
			},
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.APIResponse{
			Status:  "error",
			Code:    http.StatusNotFound,
			Message: message,
			Error: &models.APIError{
				Type:    models.ErrorTypeNotFound,
				Details: err.Error(),
			},
		})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, models.APIResponse{
			Status:  "error",
			Code:    http.StatusConflict,
			Message: message,
			Error: &models.APIError{
				Type:    models.ErrorTypeConflict,
				Details: err.Error(),
			},
		})
	default:
		log.WithFields(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Errorf("%s: %v", message, err)
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Status:  "error",
			Code:    http.StatusInternalServerError,
			Message: message,
			Error: &models.APIError{
				Type:    models.ErrorTypeInternal,
				Details: "An unexpected error occurred",
			},
		})
	}
}

func respond(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, models.APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		Data:    data,
	})
}
