package handler

import (
	"errors"
	"strings"

	"github.com/Alias1177/CryptoPredict/internal/auth"
	"github.com/Alias1177/CryptoPredict/internal/server"
	"github.com/Alias1177/CryptoPredict/models"
	"github.com/labstack/echo/v4"
)

const sessionKey = "session"

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireSession rejects requests without a live session token.
func (h *Handler) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := h.sessions.Current(c.Request().Context(), bearerToken(c))
		if errors.Is(err, auth.ErrSessionNotFound) {
			return server.AppErrorResponse(c, server.UnauthorizedError("Sign in to continue"))
		}
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to load session")
			return server.InternalServerErrorResponse(c)
		}
		c.Set(sessionKey, sess)
		return next(c)
	}
}

func sessionFrom(c echo.Context) *models.Session {
	sess, _ := c.Get(sessionKey).(*models.Session)
	return sess
}
