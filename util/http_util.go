// util/http_util.go
package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/permy/logging"
)

// Context keys set by the middleware
const (
	ContextSubjectID = "subjectID"
	ContextRequestID = "requestID"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

// GetSubjectIDFromContext returns the authenticated subject, if any.
func GetSubjectIDFromContext(c *gin.Context) (string, bool) {
	subjectID := c.GetString(ContextSubjectID)
	return subjectID, subjectID != ""
}

func GetRequestIDFromContext(c *gin.Context) string {
	return c.GetString(ContextRequestID)
}
