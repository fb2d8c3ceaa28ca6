package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/billing"
)

type billingApi struct {
	svc      billing.ServiceInterface
	validate *validator.Validate
}

func registerBillingAPI(g *echo.Group, auth echo.MiddlewareFunc, opts *Options) {
	api := billingApi{
		svc:      opts.BillingSvc,
		validate: opts.Validate,
	}

	pg := g.Group("/pricing")

	// the catalog is public
	pg.GET("/plans", api.queryPlans)

	// authed endpoints
	sg := pg.Group("", auth)
	sg.GET("/active-plan", api.activePlan)
	sg.POST("/upgrade", api.upgrade)
}

func (api *billingApi) queryPlans(ctx echo.Context) error {
	plans, err := api.svc.QueryPlans(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying pricing plans")
	}
	if plans == nil {
		plans = []billing.PricingPlan{}
	}
	return ctx.JSON(http.StatusOK, plans)
}

func (api *billingApi) activePlan(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	plan, err := api.svc.ActivePlan(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "getting active plan")
	}
	return ctx.JSON(http.StatusOK, plan)
}

func (api *billingApi) upgrade(ctx echo.Context) error {
	var data billing.Upgrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Upgrade")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	sub, err := api.svc.Upgrade(ctx.Request().Context(), ctxUsr.ID, data.PlanID)
	if err != nil {
		return errors.Wrap(err, "upgrading plan")
	}
	return ctx.JSON(http.StatusOK, sub)
}
