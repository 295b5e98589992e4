package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nziladragao/agenda-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondWithSuccess sends a 200 success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithCreated sends a 201 success response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Status: "success",
		Data:   data,
	})
}

// AbortWithMessage stops the handler chain with an error envelope. Used by
// middleware, which must abort rather than fall through to the handler.
func AbortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{
		Status:  "error",
		Message: message,
	})
}

// RespondWithError translates an error into the boundary JSON shape.
// Unclassified errors never leak internals to the client.
func RespondWithError(c *gin.Context, err error) {
	if appErr, ok := errors.As(err); ok {
		c.JSON(appErr.StatusCode(), Response{
			Status:  "error",
			Message: appErr.Message,
		})
		return
	}

	log.Error().
		Err(err).
		Str("trace_id", c.Writer.Header().Get("X-Request-ID")).
		Str("path", c.Request.URL.Path).
		Str("method", c.Request.Method).
		Msg("unhandled error")

	c.JSON(http.StatusInternalServerError, Response{
		Status:  "error",
		Message: "internal server error",
	})
}
