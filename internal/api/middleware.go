// internal/api/middleware.go
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "pe-insights/internal/common/errors"
	"pe-insights/internal/common/metrics"
)

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		fields := map[string]interface{}{
			"method":     c.Request().Method,
			"uri":        c.Request().RequestURI,
			"status":     c.Response().Status,
			"duration":   time.Since(start).String(),
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		}
		if c.Response().Status >= http.StatusInternalServerError {
			s.logger.Error("http request", fields)
		} else {
			s.logger.Info("http request", fields)
		}
		return nil
	}
}

// requestMetrics labels by route template so path parameters do not blow up
// cardinality.
func requestMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		status := c.Response().Status
		if err != nil {
			status = statusOf(err)
		}
		metrics.HTTPRequestDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
		return err
	}
}

func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return apperrors.HTTPStatus(apperrors.Normalize(err).Code)
}

// handleError writes {success:false, message, code}.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := statusOf(err)
	body := echo.Map{"success": false}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		body["message"] = http.StatusText(he.Code)
		if msg, ok := he.Message.(string); ok {
			body["message"] = msg
		}
		body["code"] = codeForStatus(he.Code)
	} else {
		stdErr := apperrors.Normalize(err)
		body["message"] = stdErr.Message
		body["code"] = stdErr.Code
		if stdErr.Details != "" {
			body["details"] = stdErr.Details
		}
		if status >= http.StatusInternalServerError {
			s.logger.Error("request failed", map[string]interface{}{
				"path":  c.Path(),
				"code":  string(stdErr.Code),
				"error": err.Error(),
			})
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		s.logger.Error("failed to write error response", map[string]interface{}{"error": err.Error()})
	}
}

func codeForStatus(status int) apperrors.ErrorCode {
	switch status {
	case http.StatusNotFound:
		return apperrors.ErrCodeRecordNotFound
	case http.StatusBadRequest:
		return apperrors.ErrCodeInvalidQuery
	default:
		return apperrors.ErrCodeInternal
	}
}
