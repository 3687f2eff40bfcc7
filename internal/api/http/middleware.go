package apiHttp

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// requestIDMiddleware keeps a caller supplied request id or assigns one.
func requestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	c.Set("request_id", id)
	c.Header(requestIDHeader, id)
	c.Next()
}
