package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps a photo upload request.
const maxUploadBytes = 10 << 20

// bodyLimit rejects requests that declare a larger body and caps the rest.
func bodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, errorResponse{
				Error: "request body too large",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
