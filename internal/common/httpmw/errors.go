package httpmw

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/artflow/artflow/internal/common/apperr"
	"github.com/artflow/artflow/internal/common/logger"
	"github.com/artflow/artflow/internal/db/dialect"
)

// ErrorHandler converts errors attached to the gin context into the
// {success:false, error} envelope. Handlers call c.Error(err) and abort;
// this middleware decides the status and message after the chain returns.
//
// In production mode unclassified errors are masked as "Internal server
// error"; in development the real message goes to the client.
func ErrorHandler(log *logger.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, message := classify(err, production)

		if status >= 500 {
			log.WithError(err).Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			)
		}

		c.JSON(status, gin.H{"success": false, "error": message})
	}
}

func classify(err error, production bool) (int, string) {
	if appErr, ok := apperr.As(err); ok {
		return appErr.Status, appErr.Message
	}

	if dialect.IsUniqueViolation(err) {
		return http.StatusConflict, "A record with this value already exists"
	}
	if errors.Is(err, apperr.ErrNoRecord) {
		return http.StatusNotFound, "Record not found"
	}

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired"
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrSignatureInvalid),
		errors.Is(err, jwt.ErrTokenNotValidYet):
		return http.StatusUnauthorized, "Invalid token"
	}

	if production {
		return http.StatusInternalServerError, "Internal server error"
	}
	return http.StatusInternalServerError, err.Error()
}

// NoRoute answers unmatched paths with the standard not-found envelope.
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path),
		})
	}
}
