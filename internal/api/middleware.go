package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/yakoovad/teamquery/internal/auth"
	"github.com/yakoovad/teamquery/internal/metrics"
	"github.com/yakoovad/teamquery/internal/service"
	"github.com/yakoovad/teamquery/pkg/logger"
)

const (
	loggerKey    = "logger"
	tokenTypeKey = "token_type"
)

func ZapLoggerMiddleware(l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			res := c.Response()

			requestID := res.Header().Get(echo.HeaderXRequestID)

			reqLogger := l.With(
				zap.String("request_id", requestID),
			)

			c.Set(loggerKey, reqLogger)

			ctx := logger.WithLogger(req.Context(), reqLogger)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.String("remote_ip", c.RealIP()),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.Int64("bytes_in", req.ContentLength),
				zap.Int64("bytes_out", res.Size),
			}

			if err != nil {
				fields = append(fields, zap.Error(err))
				reqLogger.Error("request failed", fields...)
			} else {
				reqLogger.Info("request completed", fields...)
			}

			return err
		}
	}
}

func GetLoggerFromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// MetricsMiddleware counts requests per route template, so /members/1 and
// /members/2 share a series.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if err != nil && errors.As(err, &he) {
				status = he.Code
			}

			path := c.Path()
			if path == "" {
				path = "unknown"
			}

			method := c.Request().Method
			metrics.RequestTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			metrics.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// AuthMiddleware requires a bearer token of one of the given types.
func AuthMiddleware(signer *auth.Signer, types ...auth.TokenType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return transportError(c, service.NewError(service.ErrorCodeUnauthorized, "missing bearer token"))
			}

			tokenType, ok := signer.IsValidToken(token)
			if !ok {
				GetLoggerFromContext(c).Warn("rejected token")
				return transportError(c, service.NewError(service.ErrorCodeUnauthorized, "invalid token"))
			}

			for _, t := range types {
				if t == tokenType {
					c.Set(tokenTypeKey, tokenType)
					return next(c)
				}
			}

			return transportError(c, service.NewError(service.ErrorCodeForbidden, "insufficient permissions"))
		}
	}
}

func transportError(e echo.Context, err *service.Error) error {
	response := struct {
		Error *service.Error `json:"error"`
	}{Error: err}

	switch err.Code {
	case service.ErrorCodeNotFound:
		return e.JSON(http.StatusNotFound, response)
	case service.ErrorCodeTeamExists, service.ErrorCodeInvalidBody, service.ErrorCodeInvalidQuery:
		return e.JSON(http.StatusBadRequest, response)
	case service.ErrorCodeNotUnique:
		return e.JSON(http.StatusConflict, response)
	case service.ErrorCodeUnauthorized:
		return e.JSON(http.StatusUnauthorized, response)
	case service.ErrorCodeForbidden:
		return e.JSON(http.StatusForbidden, response)
	default:
		return e.JSON(http.StatusInternalServerError, response)
	}
}
