package fee

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

var reportHeader = []string{
	"Name", "Grade", "Monthly Fee", "Carry Forward", "Total Due", "Amount Paid", "Remaining", "Due Date", "Paid On", "Status",
}

func reportLine(row Row) []string {
	return []string{
		row.Name,
		row.Grade,
		row.Record.MonthlyFee.String(),
		row.Record.CarryForward.String(),
		row.TotalDue.String(),
		row.Record.AmountPaid.String(),
		row.Remaining.String(),
		row.Record.DueDate.String(),
		row.Record.PaidDate.String(),
		string(row.Status),
	}
}

// WriteCSV writes the fees report of rows to w.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for _, row := range rows {
		if err := cw.Write(reportLine(row)); err != nil {
			return errors.Wrap(err, "writing csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

// WriteXLSX writes the fees report of rows to w as a single sheet workbook.
func WriteXLSX(w io.Writer, sheet string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Fees"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}

	header := make([]interface{}, len(reportHeader))
	for i, h := range reportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		line := []interface{}{
			row.Name,
			row.Grade,
			row.Record.MonthlyFee.InexactFloat64(),
			row.Record.CarryForward.InexactFloat64(),
			row.TotalDue.InexactFloat64(),
			row.Record.AmountPaid.InexactFloat64(),
			row.Remaining.InexactFloat64(),
			row.Record.DueDate.String(),
			row.Record.PaidDate.String(),
			string(row.Status),
		}
		if err = f.SetSheetRow(sheet, cell, &line); err != nil {
			return errors.Wrap(err, "writing row")
		}
	}
	return errors.Wrap(f.Write(w), "writing workbook")
}

// ExportCSV writes the fees report of month as CSV.
func (svc *Service) ExportCSV(ctx context.Context, month string, w io.Writer) error {
	rows, err := svc.exportRows(ctx, month)
	if err != nil {
		return err
	}
	return WriteCSV(w, rows)
}

// ExportXLSX writes the fees report of month as an Excel workbook.
func (svc *Service) ExportXLSX(ctx context.Context, month string, w io.Writer) error {
	rows, err := svc.exportRows(ctx, month)
	if err != nil {
		return err
	}
	return WriteXLSX(w, month, rows)
}
