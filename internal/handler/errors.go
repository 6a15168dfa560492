package handler

import (
	"errors"
	"net/http"

	"bizdesk/internal/postgrest"
	"bizdesk/internal/service"
	"bizdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

// fail maps service and store errors onto HTTP responses. Validation
// problems are the caller's fault; store rejections keep their status
// flavor; anything else is a 500.
func fail(c *gin.Context, err error) {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, validation.Reason))
		return
	}
	if errors.Is(err, postgrest.ErrNotFound) {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Not found"))
		return
	}
	if errors.Is(err, postgrest.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Data store rejected the session"))
		return
	}
	var apiErr *postgrest.APIError
	if errors.As(err, &apiErr) {
		c.JSON(http.StatusBadGateway, response.Error(http.StatusBadGateway, apiErr.Error()))
		return
	}
	c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
}
