package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "warden/internal/delivery/context"
	"warden/internal/delivery/http/response"
	"warden/internal/domain/entity"
	"warden/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SessionHandler holds dependencies for login and session handlers.
type SessionHandler struct {
	uc     usecase.SessionUsecase
	logger *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler, injected by Fx.
func NewSessionHandler(uc usecase.SessionUsecase, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		uc:     uc,
		logger: logger,
	}
}

type loginRequest struct {
	// Identity accepts an email address or a username. Email is kept as a
	// fallback field for clients that still send it separately.
	Identity string `json:"identity"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

// Login handles the login request and issues a bearer token.
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	identity := req.Identity
	if identity == "" {
		identity = req.Email
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Identity: identity,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// Logout revokes the session behind the bearer token that authenticated this
// request. Requires the Authenticate middleware.
func (h *SessionHandler) Logout(c echo.Context) error {
	token, _ := c.Get(string(deliverycontext.KeyToken)).(string)

	if err := h.uc.Logout(c.Request().Context(), token); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Successfully logged out"}, "Logout successful")
}

// Me returns the account resolved by the Authenticate middleware.
func (h *SessionHandler) Me(c echo.Context) error {
	account, ok := c.Get(string(deliverycontext.KeyAccount)).(*entity.Account)
	if !ok {
		return response.Unauthorized(c, "NOT_AUTHENTICATED", "Not authenticated")
	}

	return response.Success(c, http.StatusOK, account, "Current account retrieved")
}
