package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/attendance"
	"github.com/Aastha-hs1d/JyotiPortal/core/fee"
	"github.com/Aastha-hs1d/JyotiPortal/core/student"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) core.Date {
	d, err := core.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixtures struct {
	students []student.Student
	accounts []fee.Account
	history  attendance.History
}

func (f fixtures) QueryAll(context.Context) ([]student.Student, error) { return f.students, nil }

type feeFixtures struct{ accounts []fee.Account }

func (f feeFixtures) QueryAll(context.Context) ([]fee.Account, error) { return f.accounts, nil }

type attendanceFixtures struct{ history attendance.History }

func (f attendanceFixtures) History(context.Context) (attendance.History, error) {
	return f.history, nil
}

func newFixtures() fixtures {
	return fixtures{
		students: []student.Student{
			{ID: 1, Name: "Asha", JoinDate: date("2024-01-10"), MonthlyFee: dec("1000")},
			{ID: 2, Name: "Ravi", JoinDate: date("2024-05-02"), MonthlyFee: dec("500")},
			{ID: 3, Name: "Meena", JoinDate: date("2024-02-15"), MonthlyFee: dec("800")},
		},
		accounts: []fee.Account{
			{StudentID: 1, Records: []fee.Record{
				{Month: "2024-05", DueDate: date("2024-05-10"), MonthlyFee: dec("1000"), CarryForward: dec("0"), AmountPaid: dec("1000"), PaidDate: date("2024-05-05"), Paid: true},
			}},
			{StudentID: 2, Records: []fee.Record{
				{Month: "2024-05", DueDate: date("2024-05-02"), MonthlyFee: dec("500"), CarryForward: dec("0"), AmountPaid: dec("200"), PaidDate: date("2024-05-03")},
			}},
			{StudentID: 3, Records: []fee.Record{
				{Month: "2024-04", DueDate: date("2024-04-15"), MonthlyFee: dec("800"), CarryForward: dec("0"), AmountPaid: dec("600")},
				{Month: "2024-05", DueDate: date("2024-05-15"), MonthlyFee: dec("800"), CarryForward: dec("200"), AmountPaid: dec("0")},
			}},
		},
		history: attendance.History{
			1: {{Date: date("2024-05-02"), Present: true}, {Date: date("2024-05-03"), Present: false}},
			2: {{Date: date("2024-05-02"), Present: true}},
			3: {{Date: date("2024-04-30"), Present: true}},
		},
	}
}

func TestCompute(t *testing.T) {
	f := newFixtures()
	now := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

	stats := Compute("2024-05", f.students, f.accounts, f.history, now)

	assert.Equal(t, core.Month("2024-05"), stats.Month)
	assert.Equal(t, 3, stats.Students)
	assert.Equal(t, 1, stats.NewAdmissions)
	assert.Equal(t, 67, stats.AttendancePercent)
	assert.True(t, dec("2500").Equal(stats.TotalExpected), stats.TotalExpected.String())
	assert.True(t, dec("1200").Equal(stats.TotalCollected), stats.TotalCollected.String())
	assert.Equal(t, 48, stats.FeesPercent)

	want := []struct {
		status   fee.Status
		amount   string
		students int
	}{
		{fee.StatusPaid, "1200", 1},
		{fee.StatusPending, "300", 1},
		{fee.StatusLate, "1000", 1},
	}
	require.Len(t, stats.Fees, len(want))
	for i, w := range want {
		t.Run(string(w.status), func(t *testing.T) {
			s := stats.Fees[i]
			assert.Equal(t, w.status, s.Status)
			assert.True(t, dec(w.amount).Equal(s.Amount), s.Amount.String())
			assert.Equal(t, w.students, s.Students)
		})
	}
}

func TestCompute_emptyMonth(t *testing.T) {
	f := newFixtures()
	stats := Compute("2023-12", f.students, f.accounts, f.history, time.Now())

	assert.Equal(t, 0, stats.AttendancePercent)
	assert.Equal(t, 0, stats.FeesPercent)
	assert.Equal(t, 0, stats.NewAdmissions)
	assert.True(t, stats.TotalExpected.IsZero())
	require.Len(t, stats.Fees, 3)
	for _, s := range stats.Fees {
		assert.True(t, s.Amount.IsZero())
		assert.Zero(t, s.Students)
	}
}

func TestService_Stats(t *testing.T) {
	core.NowFunc = func() time.Time { return time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { core.NowFunc = time.Now })

	f := newFixtures()
	svc := NewService(f, feeFixtures{f.accounts}, attendanceFixtures{f.history})

	stats, err := svc.Stats(context.Background(), "2024-05")
	require.NoError(t, err)
	assert.Equal(t, 48, stats.FeesPercent)
	assert.Equal(t, 67, stats.AttendancePercent)
}
