// middleware/permission_guard.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/permy/logging"
	"github.com/dev-mohitbeniwal/permy/model"
	"github.com/dev-mohitbeniwal/permy/routes"
	"github.com/dev-mohitbeniwal/permy/util"
)

// Authorizer decides whether a subject may call a route.
type Authorizer interface {
	Authorize(ctx context.Context, subjectID string, route model.Route) (bool, error)
}

// PermissionGuard denies the current route unless the authenticated subject
// holds the permission for its handler. Requests without a subject pass
// through untouched; authentication is Auth's job.
func PermissionGuard(authorizer Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		subjectID, ok := util.GetSubjectIDFromContext(c)
		if !ok {
			c.Next()
			return
		}

		route := model.Route{
			Method: c.Request.Method,
			Path:   c.FullPath(),
			Action: routes.HandlerAction(c.HandlerName()),
		}
		allowed, err := authorizer.Authorize(c, subjectID, route)
		if err != nil {
			logger.Error("Permission guard failed", zap.Error(err), zap.String("path", route.Path))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to check permission"})
			return
		}
		if !allowed {
			logger.Info("Permission denied",
				zap.String("subjectID", subjectID),
				zap.String("method", route.Method),
				zap.String("path", route.Path),
				zap.String("action", route.Action))
			deny(c)
			return
		}
		c.Next()
	}
}

func deny(c *gin.Context) {
	if wantsJSON(c.Request) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"status": http.StatusUnauthorized,
			"errors": []string{"Unauthorized"},
		})
		return
	}
	c.Abort()
	c.String(http.StatusUnauthorized, "401 - Forbidden")
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
