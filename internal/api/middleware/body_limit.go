package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rahultripathi17/TimeDesk-sub001/pkg/response"
)

// BodyLimit caps request bodies at maxBytes. overrides maps a route's full path
// (as registered, e.g. "/api/v1/profiles/import") to its own cap.
func BodyLimit(maxBytes int64, overrides map[string]int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := maxBytes
		if v, ok := overrides[c.FullPath()]; ok {
			limit = v
		}

		if c.Request.ContentLength > limit {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
			c.Abort()
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}

		c.Next()
	}
}
