package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPObserver records served requests.
type HTTPObserver interface {
	ObserveHTTP(method, path string, status int)
}

// Metrics counts every request by method, route template and status.
func Metrics(o HTTPObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = statusOf(err, status)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			o.ObserveHTTP(c.Request().Method, path, status)

			return err
		}
	}
}

// statusOf predicts the status the error handler will write for err.
func statusOf(err error, current int) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	if current >= 400 {
		return current
	}
	return http.StatusInternalServerError
}
