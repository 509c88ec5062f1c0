package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core/settings"
)

func registerSettingsAPI(g *echo.Group, svc *settings.Service) {
	g.GET("/settings", func(ctx echo.Context) error {
		prefs, err := svc.Get(ctx.Request().Context())
		if err != nil {
			return errors.Wrap(err, "loading preferences")
		}
		return ctx.JSON(http.StatusOK, prefs)
	})

	g.PUT("/settings", func(ctx echo.Context) error {
		var data settings.UpdatePreferences
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to UpdatePreferences")
		}
		prefs, err := svc.Update(ctx.Request().Context(), data)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, prefs)
	})
}
