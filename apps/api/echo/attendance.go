package echoapi

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/attendance"
	"github.com/Aastha-hs1d/JyotiPortal/core/student"
)

type attendanceApi struct {
	svc      *attendance.Service
	students *student.Service
}

type (
	// MarkRequest selects students by id or, when StudentIDs is empty, by batch.
	// With neither set every student is selected.
	MarkRequest struct {
		StudentIDs []int64 `json:"studentIds"`
		Batch      string  `json:"batch"`
		Present    bool    `json:"present"`
	}

	TodayResponse struct {
		Date       core.Date        `json:"date"`
		Attendance attendance.Daily `json:"attendance"`
	}
)

func registerAttendanceAPI(g *echo.Group, svc *attendance.Service, students *student.Service) {
	api := attendanceApi{svc: svc, students: students}

	ag := g.Group("/attendance")
	ag.GET("/today", api.today)
	ag.DELETE("/today", api.clearToday)
	ag.POST("/today/:studentId/toggle", api.toggleToday)
	ag.POST("/bulk", api.bulkMark)
	ag.POST("/history/:studentId/:date/toggle", api.toggleHistoricalDay)
	ag.GET("/calendar/:studentId", api.calendar)
	ag.GET("/stats/:studentId", api.stats)
	ag.GET("/summary", api.summary)
	ag.GET("/export", api.export)
}

func (api *attendanceApi) selectIDs(ctx echo.Context, req MarkRequest) ([]int64, error) {
	if len(req.StudentIDs) > 0 {
		return req.StudentIDs, nil
	}
	students, err := api.students.Filter(ctx.Request().Context(), student.QueryFilter{Batch: req.Batch})
	if err != nil {
		return nil, errors.Wrap(err, "filtering students")
	}
	ids := make([]int64, 0, len(students))
	for _, std := range students {
		ids = append(ids, std.ID)
	}
	return ids, nil
}

func (api *attendanceApi) today(ctx echo.Context) error {
	daily, err := api.svc.Today(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "loading today's attendance")
	}
	return ctx.JSON(http.StatusOK, TodayResponse{Date: core.Today(), Attendance: daily})
}

func (api *attendanceApi) toggleToday(ctx echo.Context) error {
	id, err := idParam(ctx, "studentId")
	if err != nil {
		return err
	}
	present, err := api.svc.ToggleToday(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "toggling attendance")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"studentId": id, "present": present})
}

func (api *attendanceApi) bulkMark(ctx echo.Context) error {
	var data MarkRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkRequest")
	}
	ids, err := api.selectIDs(ctx, data)
	if err != nil {
		return err
	}
	if err = api.svc.BulkMark(ctx.Request().Context(), ids, data.Present); err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return api.today(ctx)
}

func (api *attendanceApi) clearToday(ctx echo.Context) error {
	var data MarkRequest
	if ctx.Request().ContentLength > 0 {
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to MarkRequest")
		}
	}
	ids, err := api.selectIDs(ctx, data)
	if err != nil {
		return err
	}
	if err = api.svc.ClearToday(ctx.Request().Context(), ids); err != nil {
		return errors.Wrap(err, "clearing attendance")
	}
	return api.today(ctx)
}

func (api *attendanceApi) toggleHistoricalDay(ctx echo.Context) error {
	id, err := idParam(ctx, "studentId")
	if err != nil {
		return err
	}
	date, err := core.ParseDate(ctx.Param("date"))
	if err != nil {
		return invalidParam("date", err)
	}
	status, err := api.svc.ToggleHistoricalDay(ctx.Request().Context(), id, date)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, attendance.Day{Date: date, Status: status})
}

func (api *attendanceApi) calendar(ctx echo.Context) error {
	id, err := idParam(ctx, "studentId")
	if err != nil {
		return err
	}
	month, err := monthQuery(ctx)
	if err != nil {
		return err
	}
	days, err := api.svc.Calendar(ctx.Request().Context(), id, month)
	if err != nil {
		return errors.Wrap(err, "building calendar")
	}
	return ctx.JSON(http.StatusOK, days)
}

func (api *attendanceApi) stats(ctx echo.Context) error {
	id, err := idParam(ctx, "studentId")
	if err != nil {
		return err
	}
	month, err := monthQuery(ctx)
	if err != nil {
		return err
	}
	stats, err := api.svc.MonthlyStats(ctx.Request().Context(), id, month)
	if err != nil {
		return errors.Wrap(err, "computing attendance stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *attendanceApi) summaryRows(ctx echo.Context) ([]attendance.SummaryRow, core.Month, error) {
	month, err := monthQuery(ctx)
	if err != nil {
		return nil, "", err
	}
	rctx := ctx.Request().Context()
	students, err := api.students.Filter(rctx, student.QueryFilter{Batch: ctx.QueryParam("batch")})
	if err != nil {
		return nil, "", errors.Wrap(err, "filtering students")
	}
	rows, err := api.svc.Summary(rctx, month, students)
	if err != nil {
		return nil, "", errors.Wrap(err, "summarising attendance")
	}
	return rows, month, nil
}

func (api *attendanceApi) summary(ctx echo.Context) error {
	rows, _, err := api.summaryRows(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *attendanceApi) export(ctx echo.Context) error {
	rows, month, err := api.summaryRows(ctx)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err = attendance.WriteCSV(&buf, rows); err != nil {
		return errors.Wrap(err, "writing attendance report")
	}
	attachment(ctx, "attendance-"+string(month)+".csv")
	return ctx.Blob(http.StatusOK, "text/csv", buf.Bytes())
}
