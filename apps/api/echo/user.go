package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

type authApi struct {
	svc      user.ServiceInterface
	sessMgr  *user.SessionManager
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, auth echo.MiddlewareFunc, opts *Options) {
	api := authApi{
		svc:      opts.UserSvc,
		sessMgr:  opts.SessionMgr,
		validate: opts.Validate,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)

	// authed endpoints
	sg := ag.Group("", auth)
	sg.POST("/logout", api.logout)
	sg.GET("/user", api.retrieve)
}

// Handlers

func (api *authApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}

	// a fresh account starts with a live session
	sess, err := api.sessMgr.Open(ctx.Request().Context(), usr)
	if err != nil {
		return errors.Wrap(err, "opening session")
	}

	return ctx.JSON(http.StatusCreated, AuthResponse{User: usr, Token: sess.Token, ExpiresAt: sess.ExpiresAt})
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	usr, err := api.svc.Authenticate(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		if errors.Cause(err) == user.ErrInvalidCredentials {
			return core.NewValidationError(errors.New("invalid credentials"))
		}
		return errors.Wrap(err, "authenticating")
	}

	sess, err := api.sessMgr.Open(ctx.Request().Context(), usr)
	if err != nil {
		return errors.Wrap(err, "opening session")
	}

	return ctx.JSON(http.StatusOK, AuthResponse{User: usr, Token: sess.Token, ExpiresAt: sess.ExpiresAt})
}

func (api *authApi) logout(ctx echo.Context) error {
	token, err := getContextToken(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context token")
	}
	if err = api.sessMgr.Close(ctx.Request().Context(), token); err != nil {
		return errors.Wrap(err, "closing session")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr)
}
