package fee

import (
	"time"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/student"
)

// BuildRows joins the month's records with the students they belong to.
// Students without a record for month are left out.
func BuildRows(month core.Month, students []student.Student, accounts []Account, now time.Time) []Row {
	byStudent := make(map[int64]Account, len(accounts))
	for _, acc := range accounts {
		byStudent[acc.StudentID] = acc
	}

	rows := make([]Row, 0, len(students))
	for _, std := range students {
		r, ok := byStudent[std.ID].Record(month)
		if !ok {
			continue
		}
		rows = append(rows, Row{
			StudentID: std.ID,
			Name:      std.Name,
			Grade:     std.Grade,
			Batch:     std.Batch,
			Record:    r,
			TotalDue:  r.TotalDue(),
			Remaining: r.Remaining(),
			Status:    DeriveStatus(r, now),
		})
	}
	return rows
}
