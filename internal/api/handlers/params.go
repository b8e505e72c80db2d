package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"rental-ops-backend/internal/repository"
	"rental-ops-backend/internal/services"
	"rental-ops-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// idParam parses the numeric :id path segment. Every entity table uses
// sequential int64 ids.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryID parses a numeric query value such as cityId. Zero means "all".
func queryID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// serviceError translates service-layer failures into API responses.
func serviceError(c *gin.Context, err error, message string) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		utils.ValidationErrorResponse(c, err)
	case errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrJobNotFound),
		errors.Is(err, repository.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, message, err)
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, message, err)
	}
}
