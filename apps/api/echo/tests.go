package echoapi

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/testgen"
)

const previewLength = 500

type testApi struct {
	svc *testgen.Service
}

type ExtractResponse struct {
	FileName string `json:"fileName"`
	Text     string `json:"text"`
	Preview  string `json:"preview"`
}

func registerTestAPI(g *echo.Group, svc *testgen.Service) {
	api := testApi{svc: svc}

	tg := g.Group("/tests")
	tg.GET("", api.query)
	tg.POST("", api.generate)
	tg.POST("/extract", api.extract)
	tg.GET("/:id/pdf", api.pdf)
}

func (api *testApi) extract(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.InvalidField("file", "upload a PDF file")
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer f.Close()

	text := testgen.ExtractText(f, fh.Size)
	return ctx.JSON(http.StatusOK, ExtractResponse{
		FileName: fh.Filename,
		Text:     text,
		Preview:  testgen.Preview(text, previewLength),
	})
}

func (api *testApi) generate(ctx echo.Context) error {
	var data testgen.Options
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Options")
	}
	test, err := api.svc.Generate(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, test)
}

func (api *testApi) query(ctx echo.Context) error {
	tests, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying tests")
	}
	return ctx.JSON(http.StatusOK, tests)
}

func (api *testApi) pdf(ctx echo.Context) error {
	showAnswers, _ := strconv.ParseBool(ctx.QueryParam("answers"))
	id := ctx.Param("id")

	var buf bytes.Buffer
	if err := api.svc.ExportPDF(ctx.Request().Context(), id, showAnswers, &buf); err != nil {
		return err
	}
	attachment(ctx, "test-"+id+".pdf")
	return ctx.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}
