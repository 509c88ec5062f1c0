package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/announcement"
)

type announcementApi struct {
	svc      *announcement.Service
	notifier *announcement.DueChecker
}

func registerAnnouncementAPI(g *echo.Group, svc *announcement.Service, notifier *announcement.DueChecker) {
	api := announcementApi{svc: svc, notifier: notifier}

	ag := g.Group("/announcements")
	ag.GET("", api.query)
	ag.POST("", api.create)
	ag.GET("/upcoming", api.upcoming)
	ag.GET("/notification", api.notification)
	ag.DELETE("/notification", api.dismiss)

	dg := ag.Group("/:id")
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/broadcast", api.broadcast)
}

func (api *announcementApi) query(ctx echo.Context) error {
	filter := announcement.QueryFilter{
		Status: announcement.Status(ctx.QueryParam("status")),
		Sort:   announcement.SortOrder(ctx.QueryParam("sort")),
	}
	list, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *announcementApi) create(ctx echo.Context) error {
	var data announcement.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	a, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *announcementApi) update(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	var data announcement.UpdateAnnouncement
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAnnouncement")
	}
	a, err := api.svc.Edit(ctx.Request().Context(), id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *announcementApi) destroy(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *announcementApi) broadcast(ctx echo.Context) error {
	id, err := idParam(ctx, "id")
	if err != nil {
		return err
	}
	a, err := api.svc.MarkBroadcast(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *announcementApi) upcoming(ctx echo.Context) error {
	a, ok, err := api.svc.Upcoming(ctx.Request().Context(), core.Now())
	if err != nil {
		return errors.Wrap(err, "finding upcoming announcement")
	}
	if !ok {
		return ctx.NoContent(http.StatusNoContent)
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *announcementApi) notification(ctx echo.Context) error {
	n, ok := api.notifier.Current(core.Now())
	if !ok {
		return ctx.NoContent(http.StatusNoContent)
	}
	return ctx.JSON(http.StatusOK, n)
}

func (api *announcementApi) dismiss(ctx echo.Context) error {
	api.notifier.Dismiss()
	return ctx.NoContent(http.StatusNoContent)
}
