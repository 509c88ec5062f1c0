package echoapi

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/fee"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type feeApi struct {
	svc *fee.Service
}

// GenerateRequest generates one month, or every month from From to To when both are set.
type GenerateRequest struct {
	Month string `json:"month"`
	From  string `json:"from"`
	To    string `json:"to"`
}

func registerFeeAPI(g *echo.Group, svc *fee.Service) {
	api := feeApi{svc: svc}

	fg := g.Group("/fees")
	fg.GET("", api.query)
	fg.POST("/generate", api.generate)
	fg.GET("/export", api.export)
	fg.GET("/:studentId", api.ledger)
	fg.PUT("/:studentId/:month/payment", api.recordPayment)
	fg.POST("/:studentId/:month/toggle", api.toggle)
}

func (api *feeApi) query(ctx echo.Context) error {
	month, err := monthQuery(ctx)
	if err != nil {
		return err
	}
	rows, err := api.svc.MonthRows(ctx.Request().Context(), month)
	if err != nil {
		return errors.Wrap(err, "listing fee rows")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *feeApi) generate(ctx echo.Context) error {
	var data GenerateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateRequest")
	}
	data.Month = core.CleanString(data.Month)
	data.From = core.CleanString(data.From)
	data.To = core.CleanString(data.To)

	var err error
	rctx := ctx.Request().Context()
	if data.From != "" || data.To != "" {
		_, err = api.svc.GenerateRange(rctx, core.Month(data.From), core.Month(data.To))
	} else {
		month := core.Month(data.Month)
		if month == "" {
			month = core.DateOf(core.NowFunc()).CalendarMonth()
		}
		data.To = string(month)
		_, err = api.svc.Generate(rctx, month)
	}
	if err != nil {
		return err
	}

	rows, err := api.svc.MonthRows(rctx, core.Month(data.To))
	if err != nil {
		return errors.Wrap(err, "listing fee rows")
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *feeApi) export(ctx echo.Context) error {
	month, err := monthQuery(ctx)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	rctx := ctx.Request().Context()
	switch format := ctx.QueryParam("format"); format {
	case "", "csv":
		if err = api.svc.ExportCSV(rctx, string(month), &buf); err != nil {
			return err
		}
		attachment(ctx, "fees-"+string(month)+".csv")
		return ctx.Blob(http.StatusOK, "text/csv", buf.Bytes())
	case "xlsx":
		if err = api.svc.ExportXLSX(rctx, string(month), &buf); err != nil {
			return err
		}
		attachment(ctx, "fees-"+string(month)+".xlsx")
		return ctx.Blob(http.StatusOK, mimeXLSX, buf.Bytes())
	default:
		return core.InvalidField("format", "format must be one of [csv xlsx]")
	}
}

func (api *feeApi) ledger(ctx echo.Context) error {
	id, err := idParam(ctx, "studentId")
	if err != nil {
		return err
	}
	acc, err := api.svc.Ledger(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, acc)
}

func (api *feeApi) recordPayment(ctx echo.Context) error {
	id, err := idParam(ctx, "studentId")
	if err != nil {
		return err
	}
	month, err := monthParam(ctx, "month")
	if err != nil {
		return err
	}
	var data fee.PaymentInput
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PaymentInput")
	}
	rec, err := api.svc.RecordPayment(ctx.Request().Context(), id, month, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *feeApi) toggle(ctx echo.Context) error {
	id, err := idParam(ctx, "studentId")
	if err != nil {
		return err
	}
	month, err := monthParam(ctx, "month")
	if err != nil {
		return err
	}
	rec, err := api.svc.ToggleStatus(ctx.Request().Context(), id, month)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}
