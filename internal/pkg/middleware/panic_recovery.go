package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/t3-analytics/trucklake/internal/pkg/logger"
)

// PanicRecoveryConfig holds configuration for panic recovery middleware
type PanicRecoveryConfig struct {
	// StackSize is the max stack size to capture in bytes
	StackSize int
	// DisableStackAll disables capturing stack traces of all goroutines
	DisableStackAll bool
	// Logger is the application logger used to report the panic
	Logger *logger.AppLogger
}

// DefaultPanicRecoveryConfig returns a sensible default configuration
func DefaultPanicRecoveryConfig(appLogger *logger.AppLogger) PanicRecoveryConfig {
	return PanicRecoveryConfig{
		StackSize:       4 << 10, // 4 KB
		DisableStackAll: false,
		Logger:          appLogger,
	}
}

// PanicRecoveryMiddleware returns middleware that recovers from panics,
// logs the panic with a stack trace, and responds with a JSON 500.
func PanicRecoveryMiddleware(config PanicRecoveryConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					handlePanic(c, r, config)
				}
			}()
			return next(c)
		}
	}
}

// handlePanic processes a recovered panic
func handlePanic(c echo.Context, recovered interface{}, config PanicRecoveryConfig) {
	stack := debug.Stack()
	if config.StackSize > 0 && len(stack) > config.StackSize {
		stack = stack[:config.StackSize]
	}

	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("%v", recovered)
	}

	requestID, _ := c.Get("request_id").(string)

	if config.Logger != nil {
		config.Logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request().Method,
			"path":       c.Request().URL.Path,
			"client_ip":  c.RealIP(),
			"panic":      fmt.Sprintf("%v", recovered),
			"stack":      string(stack),
		}).WithError(err).Error("Panic recovered in HTTP handler")
	}

	if !c.Response().Committed {
		_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "Internal server error",
		})
	}
}
