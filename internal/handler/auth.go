package handler

import (
	"errors"
	"time"

	"github.com/Alias1177/CryptoPredict/internal/auth"
	"github.com/Alias1177/CryptoPredict/internal/server"
	"github.com/Alias1177/CryptoPredict/models"
	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

func newSessionResponse(s *models.Session) sessionResponse {
	return sessionResponse{Token: s.Token, User: s.User, ExpiresAt: s.ExpiresAt}
}

// Login starts a session.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if errs := server.ReadAndValidateRequest(c, &req); errs != nil {
		return server.BadRequestResponse(c, errs)
	}

	sess, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.authError(c, err)
	}
	return server.SuccessResponse(c, newSessionResponse(sess))
}

// Register creates an account and starts a session for it.
func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if errs := server.ReadAndValidateRequest(c, &req); errs != nil {
		return server.BadRequestResponse(c, errs)
	}

	sess, err := h.sessions.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return h.authError(c, err)
	}
	return server.CreatedResponse(c, newSessionResponse(sess))
}

// Logout ends the caller's session, if any.
func (h *Handler) Logout(c echo.Context) error {
	if token := bearerToken(c); token != "" {
		if err := h.sessions.Logout(c.Request().Context(), token); err != nil {
			return h.authError(c, err)
		}
	}
	return server.SuccessResponse(c, map[string]bool{"loggedOut": true})
}

// Me returns the signed-in user.
func (h *Handler) Me(c echo.Context) error {
	return server.SuccessResponse(c, sessionFrom(c).User)
}

func (h *Handler) authError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return server.AppErrorResponse(c, server.UnauthorizedError("Invalid email or password"))
	case errors.Is(err, auth.ErrAccountExists):
		return server.AppErrorResponse(c, server.ConflictError(err.Error()))
	case errors.Is(err, auth.ErrEmailRequired):
		return server.AppErrorResponse(c, server.BadRequestError(err.Error()))
	}
	h.logger.Error().Err(err).Msg("Auth request failed")
	return server.InternalServerErrorResponse(c)
}
