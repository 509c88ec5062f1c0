package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core/dashboard"
)

func registerDashboardAPI(g *echo.Group, svc *dashboard.Service) {
	g.GET("/dashboard", func(ctx echo.Context) error {
		month, err := monthQuery(ctx)
		if err != nil {
			return err
		}
		stats, err := svc.Stats(ctx.Request().Context(), month)
		if err != nil {
			return errors.Wrap(err, "computing dashboard")
		}
		return ctx.JSON(http.StatusOK, stats)
	})
}
