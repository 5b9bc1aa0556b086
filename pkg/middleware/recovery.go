package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/blog/backend/go-services/pkg/logger"
	"github.com/inkwell/blog/backend/go-services/pkg/response"
)

// HandlePanics converts a recovered panic into a 500 envelope.
// Use with gin.CustomRecovery.
func HandlePanics() gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		logger.Errorf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		response.Abort(c, http.StatusInternalServerError, "Internal server error")
	}
}
