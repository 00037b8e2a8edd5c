package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const loggerKey = "logger"

var log = zap.NewNop()

// Init builds the process logger. Production gets JSON output, everything
// else a colored console encoder.
func Init(level, env, service string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.Fields(
		zap.String("service", service),
		zap.String("environment", env),
	))
	if err != nil {
		return err
	}

	log = l
	zap.ReplaceGlobals(l)
	return nil
}

func L() *zap.Logger {
	return log
}

// FromContext returns the request logger set by Middleware, or the process
// logger outside of a request.
func FromContext(c *gin.Context) *zap.Logger {
	if c != nil {
		if l, ok := c.Get(loggerKey); ok {
			if zl, ok := l.(*zap.Logger); ok {
				return zl
			}
		}
	}
	return log
}

// Middleware logs one line per request. It expects RequestID to run first.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqLog := log.With(zap.String("request_id", c.GetString("request_id")))
		c.Set(loggerKey, reqLog)

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if role := c.GetString("role"); role != "" {
			fields = append(fields, zap.String("role", role))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			reqLog.Error("HTTP request", fields...)
		case status >= 400:
			reqLog.Warn("HTTP request", fields...)
		default:
			reqLog.Info("HTTP request", fields...)
		}
	}
}
