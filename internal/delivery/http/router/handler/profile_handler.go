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

// ProfileHandler holds dependencies for profile and directory handlers.
type ProfileHandler struct {
	uc     usecase.ProfileUsecase
	logger *slog.Logger
}

// NewProfileHandler is the constructor for ProfileHandler, injected by Fx.
func NewProfileHandler(uc usecase.ProfileUsecase, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		uc:     uc,
		logger: logger,
	}
}

// GetProfile returns the authenticated account's profile.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	account, ok := c.Get(string(deliverycontext.KeyAccount)).(*entity.Account)
	if !ok {
		return response.Unauthorized(c, "NOT_AUTHENTICATED", "Not authenticated")
	}

	profile, err := h.uc.GetProfile(c.Request().Context(), account.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile, "Profile retrieved successfully")
}

type completeProfileRequest struct {
	DisplayName  *string `json:"display_name"`
	Organization *string `json:"organization"`
}

// CompleteProfile merges the supplied profile fields into the authenticated
// account and clears its setup flag. Omitted fields stay untouched.
func (h *ProfileHandler) CompleteProfile(c echo.Context) error {
	account, ok := c.Get(string(deliverycontext.KeyAccount)).(*entity.Account)
	if !ok {
		return response.Unauthorized(c, "NOT_AUTHENTICATED", "Not authenticated")
	}

	var req completeProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	profile, err := h.uc.CompleteProfile(c.Request().Context(), account.ID, &usecase.CompleteProfileInput{
		DisplayName:  req.DisplayName,
		Organization: req.Organization,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile, "Profile completed successfully")
}

// ListAccounts returns the sanitized account directory. The router guards
// this with the admin role.
func (h *ProfileHandler) ListAccounts(c echo.Context) error {
	accounts, err := h.uc.ListAccounts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"accounts": accounts,
		"total":    len(accounts),
	}, "Accounts retrieved successfully")
}
