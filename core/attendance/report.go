package attendance

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

var reportHeader = []string{"Name", "Class", "Batch", "Days Present", "Total Days", "Attendance %"}

// WriteCSV writes the attendance report of rows to w.
func WriteCSV(w io.Writer, rows []SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	for _, row := range rows {
		batch := row.Batch
		if batch == "" {
			batch = "—"
		}
		line := []string{
			row.Name,
			row.Grade,
			batch,
			strconv.Itoa(row.Stats.PresentDays),
			strconv.Itoa(row.Stats.TotalDays),
			row.Stats.PercentageLabel(),
		}
		if err := cw.Write(line); err != nil {
			return errors.Wrap(err, "writing csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}
