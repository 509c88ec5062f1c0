package dashboard

import (
	"context"
	"math"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/attendance"
	"github.com/Aastha-hs1d/JyotiPortal/core/fee"
	"github.com/Aastha-hs1d/JyotiPortal/core/student"
)

// Slice is the share of the month's fees in one status. Students counts the records in that status,
// partial payments counting as Pending.
type Slice struct {
	Status   fee.Status      `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	Students int             `json:"students"`
}

// Stats summarises a month.
type Stats struct {
	Month             core.Month      `json:"month"`
	Students          int             `json:"students"`
	AttendancePercent int             `json:"attendancePercent"`
	FeesPercent       int             `json:"feesPercent"`
	NewAdmissions     int             `json:"newAdmissions"`
	TotalCollected    decimal.Decimal `json:"totalCollected"`
	TotalExpected     decimal.Decimal `json:"totalExpected"`
	Fees              []Slice         `json:"fees"`
}

type (
	StudentSource interface {
		QueryAll(ctx context.Context) ([]student.Student, error)
	}
	FeeSource interface {
		QueryAll(ctx context.Context) ([]fee.Account, error)
	}
	AttendanceSource interface {
		History(ctx context.Context) (attendance.History, error)
	}

	Service struct {
		students   StudentSource
		fees       FeeSource
		attendance AttendanceSource
	}
)

func NewService(students StudentSource, fees FeeSource, attendance AttendanceSource) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(students, "students"),
		vala.IsNotNil(fees, "fees"),
		vala.IsNotNil(attendance, "attendance"),
	).CheckAndPanic()
	return &Service{students: students, fees: fees, attendance: attendance}
}

func (svc *Service) Stats(ctx context.Context, month core.Month) (Stats, error) {
	students, err := svc.students.QueryAll(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying students")
	}
	accounts, err := svc.fees.QueryAll(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying fee accounts")
	}
	history, err := svc.attendance.History(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Compute(month, students, accounts, history, core.NowFunc()), nil
}

// Compute derives the month's figures. Attendance and admissions count current students only,
// fees count every generated record of the month.
func Compute(month core.Month, students []student.Student, accounts []fee.Account, history attendance.History, now time.Time) Stats {
	stats := Stats{
		Month:          month,
		Students:       len(students),
		TotalCollected: decimal.Zero,
		TotalExpected:  decimal.Zero,
	}

	var total, present int
	for _, std := range students {
		s := attendance.MonthlyStats(history, std.ID, month)
		total += s.TotalDays
		present += s.PresentDays
		if std.AdmissionMonth() == month {
			stats.NewAdmissions++
		}
	}
	stats.AttendancePercent = percent(float64(present), float64(total))

	slices := map[fee.Status]*Slice{
		fee.StatusPaid:    {Status: fee.StatusPaid, Amount: decimal.Zero},
		fee.StatusPending: {Status: fee.StatusPending, Amount: decimal.Zero},
		fee.StatusLate:    {Status: fee.StatusLate, Amount: decimal.Zero},
	}
	for _, acc := range accounts {
		r, ok := acc.Record(month)
		if !ok {
			continue
		}
		stats.TotalExpected = stats.TotalExpected.Add(r.TotalDue())
		stats.TotalCollected = stats.TotalCollected.Add(r.AmountPaid)

		// collected money is Paid, what is still owed is Late or Pending
		slices[fee.StatusPaid].Amount = slices[fee.StatusPaid].Amount.Add(r.AmountPaid)
		status := fee.DeriveStatus(r, now)
		switch status {
		case fee.StatusPaid:
		case fee.StatusLate:
			slices[fee.StatusLate].Amount = slices[fee.StatusLate].Amount.Add(r.Remaining())
		default:
			status = fee.StatusPending
			slices[fee.StatusPending].Amount = slices[fee.StatusPending].Amount.Add(r.Remaining())
		}
		slices[status].Students++
	}
	collected, _ := stats.TotalCollected.Float64()
	expected, _ := stats.TotalExpected.Float64()
	stats.FeesPercent = percent(collected, expected)
	stats.Fees = []Slice{*slices[fee.StatusPaid], *slices[fee.StatusPending], *slices[fee.StatusLate]}
	return stats
}

func percent(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(part / whole * 100))
}
