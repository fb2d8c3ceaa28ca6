package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

var (
	contextUserKey  = "user"
	contextTokenKey = "sessionToken"
)

// sessionMiddleware resolves the Bearer token to a fresh user record and
// stores both on the request context. Requests without a valid live
// session never reach the handler.
func sessionMiddleware(sessMgr *user.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, err := extractToken(ctx)
			if err != nil {
				return err
			}
			usr, err := sessMgr.Resolve(ctx.Request().Context(), token)
			if err != nil {
				if errors.Cause(err) == user.ErrNoSession {
					return errUnauthorized
				}
				return errors.Wrap(err, "resolving session")
			}
			ctx.Set(contextUserKey, usr)
			ctx.Set(contextTokenKey, token)
			return next(ctx)
		}
	}
}

func extractToken(ctx echo.Context) (string, error) {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", errUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errUnauthorized
	}
	return parts[1], nil
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errUnauthorized
}

func getContextToken(ctx echo.Context) (string, error) {
	if token, ok := ctx.Get(contextTokenKey).(string); ok {
		return token, nil
	}
	return "", errUnauthorized
}
