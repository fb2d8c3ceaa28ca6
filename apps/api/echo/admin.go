package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/billing"
	"github.com/trezcool/darasa/core/user"
)

type adminApi struct {
	userSvc    user.ServiceInterface
	billingSvc billing.ServiceInterface
}

func registerAdminAPI(g *echo.Group, auth echo.MiddlewareFunc, opts *Options) {
	api := adminApi{
		userSvc:    opts.UserSvc,
		billingSvc: opts.BillingSvc,
	}

	ag := g.Group("/admin", auth, adminMiddleware())
	ag.GET("/creators", api.queryCreators)
	ag.POST("/creators/:id/toggle", api.toggleCreator)
	ag.GET("/creator-plans", api.queryCreatorPlans)
	ag.GET("/stats", api.stats)
}

func (api *adminApi) queryCreators(ctx echo.Context) error {
	creators, err := api.userSvc.QueryCreators(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying creators")
	}
	if creators == nil {
		creators = []user.User{}
	}
	return ctx.JSON(http.StatusOK, creators)
}

func (api *adminApi) toggleCreator(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	usr, err := api.userSvc.ToggleAccess(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "toggling creator access")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *adminApi) queryCreatorPlans(ctx echo.Context) error {
	subs, err := api.billingSvc.QueryAllCreatorPlans(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying creator plans")
	}
	if subs == nil {
		subs = []billing.CreatorPlan{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *adminApi) stats(ctx echo.Context) error {
	stats, err := api.billingSvc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}
