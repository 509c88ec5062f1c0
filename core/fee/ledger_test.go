package fee

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/student"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newStudent(id int64, joinDate string, fee string) student.Student {
	jd, err := core.ParseDate(joinDate)
	if err != nil {
		panic(err)
	}
	return student.Student{ID: id, Name: "Student", Grade: "5", JoinDate: jd, MonthlyFee: dec(fee), Phone: "9800000000"}
}

func recordOf(t *testing.T, accounts []Account, studentID int64, month core.Month) Record {
	t.Helper()
	for _, acc := range accounts {
		if acc.StudentID == studentID {
			r, ok := acc.Record(month)
			require.Truef(t, ok, "no record for %d in %s", studentID, month)
			return r
		}
	}
	t.Fatalf("no account for %d", studentID)
	return Record{}
}

func TestGenerateRecordsForMonth_carryForward(t *testing.T) {
	students := []student.Student{newStudent(1, "2024-04-12", "1000")}

	accounts := GenerateRecordsForMonth("2024-04", students, nil)
	april := recordOf(t, accounts, 1, "2024-04")
	assert.True(t, april.CarryForward.IsZero())
	assert.True(t, april.TotalDue().Equal(dec("1000")))
	assert.Equal(t, "2024-04-12", april.DueDate.String())
	assert.False(t, april.Paid)
	assert.True(t, april.PaidDate.IsZero())

	accounts, err := RecordPayment(accounts, 1, "2024-04", Payment{AmountPaid: dec("600"), PaidDate: core.NewDate(2024, 4, 10)})
	require.NoError(t, err)
	assert.False(t, recordOf(t, accounts, 1, "2024-04").Paid)

	accounts = GenerateRecordsForMonth("2024-05", students, accounts)
	may := recordOf(t, accounts, 1, "2024-05")
	assert.True(t, may.CarryForward.Equal(dec("400")), may.CarryForward.String())
	assert.True(t, may.TotalDue().Equal(dec("1400")), may.TotalDue().String())
	assert.Equal(t, "2024-05-12", may.DueDate.String())
}

func TestGenerateRecordsForMonth_outOfOrder(t *testing.T) {
	students := []student.Student{newStudent(1, "2024-05-03", "1000")}

	// April precedes the admission month, May finds no April record
	accounts := GenerateRecordsForMonth("2024-04", students, nil)
	assert.Empty(t, accounts)

	accounts = GenerateRecordsForMonth("2024-05", students, accounts)
	may := recordOf(t, accounts, 1, "2024-05")
	assert.True(t, may.CarryForward.IsZero())

	_, ok := accounts[0].Record("2024-04")
	assert.False(t, ok)
}

func TestGenerateRecordsForMonth_prevMonthNotGenerated(t *testing.T) {
	students := []student.Student{newStudent(1, "2024-01-15", "500")}

	// March generated before February exists
	accounts := GenerateRecordsForMonth("2024-03", students, nil)
	assert.True(t, recordOf(t, accounts, 1, "2024-03").CarryForward.IsZero())

	accounts = GenerateRecordsForMonth("2024-02", students, accounts)
	require.Len(t, accounts[0].Records, 2)
	assert.Equal(t, core.Month("2024-02"), accounts[0].Records[0].Month)
	assert.Equal(t, core.Month("2024-03"), accounts[0].Records[1].Month)

	// regenerating March now picks up February's unpaid balance
	accounts = GenerateRecordsForMonth("2024-03", students, accounts)
	assert.True(t, recordOf(t, accounts, 1, "2024-03").CarryForward.Equal(dec("500")))
}

func TestGenerateRecordsForMonth_idempotent(t *testing.T) {
	students := []student.Student{
		newStudent(1, "2024-01-31", "1000"),
		newStudent(2, "2024-03-01", "750.50"),
	}
	accounts := GenerateRecordsForRange("2024-01", "2024-03", students, nil)
	accounts, err := RecordPayment(accounts, 1, "2024-02", Payment{AmountPaid: dec("1500"), PaidDate: core.NewDate(2024, 2, 20)})
	require.NoError(t, err)

	once := GenerateRecordsForMonth("2024-04", students, accounts)
	twice := GenerateRecordsForMonth("2024-04", students, once)

	b1, err := json.Marshal(once)
	require.NoError(t, err)
	b2, err := json.Marshal(twice)
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b2))
}

func TestGenerateRecordsForMonth_keepsPayment(t *testing.T) {
	students := []student.Student{newStudent(1, "2024-01-10", "1000")}
	accounts := GenerateRecordsForRange("2024-01", "2024-02", students, nil)

	paidOn := core.NewDate(2024, 2, 5)
	accounts, err := RecordPayment(accounts, 1, "2024-02", Payment{AmountPaid: dec("2000"), PaidDate: paidOn, Note: "cash"})
	require.NoError(t, err)
	feb := recordOf(t, accounts, 1, "2024-02")
	assert.True(t, feb.Paid)

	// January paid after the fact: February's carry-forward drops, its payment stays
	accounts, err = RecordPayment(accounts, 1, "2024-01", Payment{AmountPaid: dec("1000"), PaidDate: core.NewDate(2024, 1, 9)})
	require.NoError(t, err)
	accounts = GenerateRecordsForMonth("2024-02", students, accounts)

	feb = recordOf(t, accounts, 1, "2024-02")
	assert.True(t, feb.CarryForward.IsZero())
	assert.True(t, feb.AmountPaid.Equal(dec("2000")))
	assert.True(t, feb.Paid)
	assert.Equal(t, paidOn, feb.PaidDate)
	assert.Equal(t, "cash", feb.PaymentNote)
}

func TestGenerateRecordsForMonth_dueDateClamped(t *testing.T) {
	students := []student.Student{newStudent(1, "2024-01-31", "1000")}
	accounts := GenerateRecordsForRange("2024-01", "2024-04", students, nil)

	tests := map[core.Month]string{
		"2024-01": "2024-01-31",
		"2024-02": "2024-02-29",
		"2024-03": "2024-03-31",
		"2024-04": "2024-04-30",
	}
	for month, want := range tests {
		t.Run(string(month), func(t *testing.T) {
			assert.Equal(t, want, recordOf(t, accounts, 1, month).DueDate.String())
		})
	}
}

func TestGenerateRecordsForMonth_feeSnapshot(t *testing.T) {
	std := newStudent(1, "2024-01-05", "1000")
	accounts := GenerateRecordsForMonth("2024-01", []student.Student{std}, nil)

	std.MonthlyFee = dec("1200")
	accounts = GenerateRecordsForMonth("2024-01", []student.Student{std}, accounts)
	accounts = GenerateRecordsForMonth("2024-02", []student.Student{std}, accounts)

	assert.True(t, recordOf(t, accounts, 1, "2024-01").MonthlyFee.Equal(dec("1000")))
	assert.True(t, recordOf(t, accounts, 1, "2024-02").MonthlyFee.Equal(dec("1200")))
}

func TestGenerateRecordsForMonth_inputs(t *testing.T) {
	students := []student.Student{newStudent(1, "2024-01-05", "1000")}
	accounts := GenerateRecordsForMonth("2024-01", students, nil)
	before, _ := json.Marshal(accounts)

	tests := []struct {
		name  string
		month core.Month
	}{
		{"malformed", "2024-13"},
		{"empty", ""},
		{"garbage", "jan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateRecordsForMonth(tt.month, students, accounts)
			after, _ := json.Marshal(got)
			assert.JSONEq(t, string(before), string(after))
		})
	}

	_ = GenerateRecordsForMonth("2024-02", students, accounts)
	after, _ := json.Marshal(accounts)
	assert.JSONEq(t, string(before), string(after), "input accounts must not be modified")
}

func TestGenerateRecordsForMonth_overpaymentCarriesZero(t *testing.T) {
	students := []student.Student{newStudent(1, "2024-01-05", "1000")}
	accounts := GenerateRecordsForMonth("2024-01", students, nil)
	accounts, err := RecordPayment(accounts, 1, "2024-01", Payment{AmountPaid: dec("1300")})
	require.NoError(t, err)

	accounts = GenerateRecordsForMonth("2024-02", students, accounts)
	assert.True(t, recordOf(t, accounts, 1, "2024-02").CarryForward.IsZero())
}

func TestRecordPayment(t *testing.T) {
	students := []student.Student{newStudent(1, "2024-01-05", "1000")}
	accounts := GenerateRecordsForMonth("2024-01", students, nil)

	tests := []struct {
		name     string
		student  int64
		month    core.Month
		payment  Payment
		wantPaid bool
		wantErr  error
	}{
		{name: "partial", student: 1, month: "2024-01", payment: Payment{AmountPaid: dec("999.99")}, wantPaid: false},
		{name: "exact", student: 1, month: "2024-01", payment: Payment{AmountPaid: dec("1000")}, wantPaid: true},
		{name: "overpaid", student: 1, month: "2024-01", payment: Payment{AmountPaid: dec("1500")}, wantPaid: true},
		{name: "zero", student: 1, month: "2024-01", payment: Payment{AmountPaid: decimal.Zero}, wantPaid: false},
		{name: "month not generated", student: 1, month: "2024-02", payment: Payment{AmountPaid: dec("10")}, wantErr: ErrRecordNotFound},
		{name: "unknown student", student: 2, month: "2024-01", payment: Payment{AmountPaid: dec("10")}, wantErr: ErrRecordNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecordPayment(accounts, tt.student, tt.month, tt.payment)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			r := recordOf(t, got, tt.student, tt.month)
			assert.Equal(t, tt.wantPaid, r.Paid)
			assert.True(t, r.AmountPaid.Equal(tt.payment.AmountPaid))
		})
	}

	t.Run("negative", func(t *testing.T) {
		_, err := RecordPayment(accounts, 1, "2024-01", Payment{AmountPaid: dec("-1")})
		assert.True(t, core.IsValidationError(err))
	})
}

func TestToggleFeeStatus(t *testing.T) {
	students := []student.Student{newStudent(1, "2024-01-05", "1000")}
	accounts := GenerateRecordsForMonth("2024-01", students, nil)
	accounts, err := RecordPayment(accounts, 1, "2024-01", Payment{AmountPaid: dec("200")})
	require.NoError(t, err)

	today := core.NewDate(2024, 1, 20)
	accounts, err = ToggleFeeStatus(accounts, 1, "2024-01", today)
	require.NoError(t, err)
	r := recordOf(t, accounts, 1, "2024-01")
	assert.True(t, r.Paid)
	assert.Equal(t, today, r.PaidDate)
	assert.True(t, r.AmountPaid.Equal(dec("200")))

	accounts, err = ToggleFeeStatus(accounts, 1, "2024-01", today)
	require.NoError(t, err)
	r = recordOf(t, accounts, 1, "2024-01")
	assert.False(t, r.Paid)
	assert.True(t, r.PaidDate.IsZero())
	assert.True(t, r.AmountPaid.Equal(dec("200")))

	_, err = ToggleFeeStatus(accounts, 1, "2023-12", today)
	assert.Equal(t, ErrRecordNotFound, err)
}

func TestDeriveStatus(t *testing.T) {
	due := core.NewDate(2024, 4, 12)
	rec := func(paid string, paidDate core.Date) Record {
		return Record{Month: "2024-04", DueDate: due, MonthlyFee: dec("1000"), CarryForward: dec("400"), AmountPaid: dec(paid), PaidDate: paidDate}
	}
	beforeDue := time.Date(2024, 4, 10, 18, 0, 0, 0, time.UTC)
	onDue := time.Date(2024, 4, 12, 23, 59, 0, 0, time.UTC)
	afterDue := time.Date(2024, 4, 13, 0, 1, 0, 0, time.UTC)

	tests := []struct {
		name   string
		record Record
		now    time.Time
		want   Status
	}{
		{"paid on time", rec("1400", core.NewDate(2024, 4, 12)), afterDue, StatusPaid},
		{"paid late", rec("1400", core.NewDate(2024, 4, 13)), afterDue, StatusLate},
		{"overpaid without date", rec("2000", core.Date{}), afterDue, StatusPaid},
		{"partial before due", rec("1399", core.NewDate(2024, 4, 1)), beforeDue, StatusPartial},
		{"partial after due", rec("1", core.NewDate(2024, 4, 1)), afterDue, StatusPartial},
		{"nothing paid before due", rec("0", core.Date{}), beforeDue, StatusPending},
		{"nothing paid on due date", rec("0", core.Date{}), onDue, StatusPending},
		{"nothing paid after due", rec("0", core.Date{}), afterDue, StatusLate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.record, tt.now))
			assert.Equal(t, tt.want, DeriveStatus(tt.record, tt.now), "must be stable")
		})
	}
}

func TestNormalizeAccounts(t *testing.T) {
	data := []byte(`[
		{"id": 7, "records": [
			{"month": "2024-03", "dueDate": "2024-03-31", "monthlyFee": 500, "amountPaid": 0, "paid": false},
			{"month": "2024-02", "dueDate": "2024-02-31", "monthlyFee": 500, "carryForward": 0, "amountPaid": 500, "paidDate": "2024-02-10", "paid": true},
			{"month": "2024-02", "dueDate": "2024-02-29", "monthlyFee": 900, "paid": false},
			{"month": "", "monthlyFee": 500}
		]},
		{"studentId": 8, "records": []}
	]`)
	var accounts []Account
	require.NoError(t, json.Unmarshal(data, &accounts))

	got, dropped := NormalizeAccounts(accounts)
	require.Len(t, dropped, 1)
	assert.Equal(t, int64(7), dropped[0].StudentID)
	require.Len(t, dropped[0].Records, 2)
	assert.True(t, dropped[0].Records[0].MonthlyFee.Equal(dec("900")), "second record of a month")
	assert.Equal(t, core.Fields{"studentId": int64(7), "months": `["2024-02" ""]`}, dropped[0].LogFields())
	require.Len(t, got, 2)
	assert.Equal(t, int64(7), got[0].StudentID)
	require.Len(t, got[0].Records, 2)

	feb := got[0].Records[0]
	assert.Equal(t, core.Month("2024-02"), feb.Month)
	assert.Equal(t, "2024-02-29", feb.DueDate.String())
	assert.True(t, feb.MonthlyFee.Equal(dec("500")))
	assert.True(t, feb.Paid)
	assert.True(t, got[0].Records[1].CarryForward.IsZero())
	assert.Equal(t, int64(8), got[1].StudentID)
}

func TestBuildRows(t *testing.T) {
	students := []student.Student{
		newStudent(1, "2024-01-05", "1000"),
		newStudent(2, "2024-03-01", "800"),
	}
	accounts := GenerateRecordsForMonth("2024-02", students, nil)
	accounts, err := RecordPayment(accounts, 1, "2024-02", Payment{AmountPaid: dec("300"), PaidDate: core.NewDate(2024, 2, 2)})
	require.NoError(t, err)

	rows := BuildRows("2024-02", students, accounts, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC))
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].StudentID)
	assert.Equal(t, StatusPartial, rows[0].Status)
	assert.True(t, rows[0].Remaining.Equal(dec("700")))
}

func TestGenerateRecordsForRange_stopsAtLastMonth(t *testing.T) {
	students := []student.Student{newStudent(1, "2024-01-10", "1000")}

	accounts := GenerateRecordsForRange("9999-11", "9999-12", students, nil)
	require.Len(t, accounts, 1)
	require.Len(t, accounts[0].Records, 2)
	assert.True(t, recordOf(t, accounts, 1, "9999-12").CarryForward.Equal(dec("1000")))

	assert.Empty(t, GenerateRecordsForRange("2024-03", "2024-01", students, nil))
}
