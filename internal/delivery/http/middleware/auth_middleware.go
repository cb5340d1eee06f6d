// Package middleware contains the HTTP middleware for the delivery layer.
package middleware

import (
	"strings"

	deliverycontext "warden/internal/delivery/context"
	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthMiddleware authenticates requests by resolving the bearer token through
// the session usecase, so a token is only honored while its session record is
// still alive. A revoked or expired session fails here even if the token's
// signature is still valid.
type AuthMiddleware struct {
	sessionUsecase usecase.SessionUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(sessionUsecase usecase.SessionUsecase) *AuthMiddleware {
	return &AuthMiddleware{sessionUsecase: sessionUsecase}
}

// Authenticate validates the bearer token and stores the resolved account on
// the context for handlers to use.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return errors.WithStack(domainerrors.ErrNotAuthenticated.WithDetails("Authorization header is missing"))
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			return errors.WithStack(domainerrors.ErrNotAuthenticated.WithDetails("Invalid token format, must be Bearer token"))
		}

		account, err := m.sessionUsecase.CurrentAccount(c.Request().Context(), token)
		if err != nil {
			return errors.WithStack(err)
		}

		// Handlers read these back via deliverycontext keys.
		c.Set(string(deliverycontext.KeyAccount), account)
		c.Set(string(deliverycontext.KeyToken), token)

		return next(c)
	}
}

// RequireRole is a middleware factory that checks if the authenticated account
// has a specific role. It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, ok := c.Get(string(deliverycontext.KeyAccount)).(*entity.Account)
			if !ok {
				return errors.WithStack(domainerrors.ErrForbidden.WithDetails("Role information missing from request"))
			}

			if account.Role != requiredRole {
				return errors.WithStack(domainerrors.ErrForbidden.WithDetails("Requires '" + requiredRole.String() + "' role"))
			}

			return next(c)
		}
	}
}
