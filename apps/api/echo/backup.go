package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/backup"
)

func registerBackupAPI(g *echo.Group, svc *backup.Service) {
	g.GET("/backup", func(ctx echo.Context) error {
		b, err := svc.Export(ctx.Request().Context())
		if err != nil {
			return errors.Wrap(err, "exporting backup")
		}
		attachment(ctx, "jyoti-backup-"+core.Today().String()+".json")
		return ctx.JSON(http.StatusOK, b)
	})

	g.POST("/backup", func(ctx echo.Context) error {
		var b backup.Bundle
		if err := ctx.Bind(&b); err != nil {
			return core.NewValidationError(errors.New("invalid backup file"))
		}
		keys, err := svc.Import(ctx.Request().Context(), b)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, echo.Map{"restored": keys})
	})
}
