package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status, echoing the request id
// header so clients can correlate responses with log lines.
func JSON(c *gin.Context, status int, payload interface{}) {
	if id := c.GetString("requestId"); id != "" {
		c.Writer.Header().Set("X-Request-Id", id)
	}
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}
