package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

func invalidParam(field string, err error) error {
	return core.InvalidField(field, err.Error())
}

// idParam parses the int64 path parameter `name`.
func idParam(ctx echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, core.InvalidField(name, "invalid id")
	}
	return id, nil
}

// monthParam parses the path parameter `name` as a month.
func monthParam(ctx echo.Context, name string) (core.Month, error) {
	m, err := core.ParseMonth(ctx.Param(name))
	if err != nil {
		return "", invalidParam(name, err)
	}
	return m, nil
}

// monthQuery parses the `month` query parameter, defaulting to the current month.
func monthQuery(ctx echo.Context) (core.Month, error) {
	s := core.CleanString(ctx.QueryParam("month"))
	if s == "" {
		return core.DateOf(core.NowFunc()).CalendarMonth(), nil
	}
	m, err := core.ParseMonth(s)
	if err != nil {
		return "", invalidParam("month", err)
	}
	return m, nil
}

func attachment(ctx echo.Context, fileName string) {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
}
