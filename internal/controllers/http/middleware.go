package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"commission-service/internal/auth"
)

const adminSubjectKey = "adminSubject"

// AdminAuth admits requests carrying a bearer token with the admin role.
func AdminAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "missing bearer token"})
			return
		}

		claims, err := jwtService.VerifyAdmin(token)
		switch {
		case errors.Is(err, auth.ErrForbidden):
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "forbidden", Message: err.Error()})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: err.Error()})
			return
		}

		c.Set(adminSubjectKey, claims.Subject)
		c.Next()
	}
}

func RequestLogger(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// tracking tokens are secrets; log the route template, not the path
		logger.Infow("http request",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
