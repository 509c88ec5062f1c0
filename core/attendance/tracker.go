package attendance

import (
	"math"
	"strconv"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

// CycleDay moves the entry of a student on date one step through missing -> present -> absent -> missing.
// history is not modified.
func CycleDay(history History, studentID int64, date core.Date) History {
	res := history.clone()
	entry, ok := res.Entry(studentID, date)
	switch {
	case !ok:
		res.set(studentID, date, true)
	case entry.Present:
		res.set(studentID, date, false)
	default:
		res.remove(studentID, date)
	}
	return res
}

// MonthlyStats counts the recorded and present days of a student in month.
// Unknown students, including removed ones, get empty stats.
func MonthlyStats(history History, studentID int64, month core.Month) Stats {
	stats := Stats{StudentID: studentID, Month: month}
	for _, e := range history[studentID] {
		if !month.Contains(e.Date) {
			continue
		}
		stats.TotalDays++
		if e.Present {
			stats.PresentDays++
		}
	}
	if stats.TotalDays > 0 {
		stats.HasData = true
		stats.Percentage = roundTo1(float64(stats.PresentDays) / float64(stats.TotalDays) * 100)
	}
	return stats
}

// MonthCalendar returns one Day per date of month for a student.
func MonthCalendar(history History, studentID int64, month core.Month) []Day {
	days := month.Days()
	res := make([]Day, 0, len(days))
	for _, date := range days {
		status := DayNone
		if e, ok := history.Entry(studentID, date); ok {
			if e.Present {
				status = DayPresent
			} else {
				status = DayAbsent
			}
		}
		res = append(res, Day{Date: date, Status: status})
	}
	return res
}

func roundTo1(f float64) float64 {
	return math.Round(f*10) / 10
}

func formatPercentage(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
