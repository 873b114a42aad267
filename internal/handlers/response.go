package handlers

import (
	"errors"
	"net/http"
	"time"

	"plant_buddy/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response constants to avoid magic strings and typos.
const (
	errInvalidBodyPref = "invalid body: "
	errInternal        = "internal error"
)

// errorResponse is the body of every non-2xx JSON reply.
type errorResponse struct {
	Error string `json:"error" example:"plant name is required"`
}

// okResponse acknowledges mutations without a body of their own.
type okResponse struct {
	OK bool `json:"ok" example:"true"`
}

// healthResponse is returned by the health probe.
type healthResponse struct {
	OK bool      `json:"ok"`
	TS time.Time `json:"ts"`
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, errorResponse{Error: userMsg})
}

// respondServiceError maps service sentinels onto status codes. Validation
// messages are shown to the caller; anything else is logged and hidden.
func (h *Handler) respondServiceError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, logKey, err, kv...)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  healthResponse
// @Router       /api/health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{OK: true, TS: time.Now().UTC()})
}
