package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// LogConfig holds configuration for the request logging middleware
type LogConfig struct {
	// Skip logging for specific paths
	SkipPaths []string
}

// DefaultLogConfig returns a default configuration for the logging middleware
func DefaultLogConfig() LogConfig {
	return LogConfig{
		SkipPaths: []string{"/health"},
	}
}

// RequestLogger logs one structured line per request: method, path, status
// and latency, plus the error if the handler returned one.
func RequestLogger(config ...LogConfig) fiber.Handler {
	cfg := DefaultLogConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *fiber.Ctx) error {
		for _, skipPath := range cfg.SkipPaths {
			if c.Path() == skipPath {
				return c.Next()
			}
		}

		start := time.Now()
		err := c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start).String(),
			"ip":      c.IP(),
		})

		if err != nil {
			entry.WithError(err).Error("Request failed")
			return err
		}

		if c.Response().StatusCode() >= 500 {
			entry.Error("Request completed")
		} else {
			entry.Info("Request completed")
		}
		return nil
	}
}
