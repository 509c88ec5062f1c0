package fee

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/student"
)

var (
	// errors
	ErrRecordNotFound = errors.New("fee record not found, generate the month first")

	errNegativeAmount = "amount paid cannot be negative"
)

// Payment is a validated payment to apply to a Record.
type Payment struct {
	AmountPaid decimal.Decimal
	PaidDate   core.Date
	Note       string
}

// GenerateRecordsForMonth makes sure every student admitted by month has a Record for it.
//
// A missing Record is created with the month's fee snapshot, a due date on the student's admission day
// and the unpaid balance of the previous calendar month carried forward. An existing Record only gets
// its carry-forward recomputed from the previous month, so payments edited after the fact flow into the
// next month when it is generated again. Payment fields of existing records are never touched.
//
// accounts is not modified. Calling it again with the same inputs returns the same result.
func GenerateRecordsForMonth(month core.Month, students []student.Student, accounts []Account) []Account {
	res := cloneAccounts(accounts)
	if !month.Valid() {
		return res
	}

	idx := make(map[int64]int, len(res))
	for i, acc := range res {
		idx[acc.StudentID] = i
	}

	prevMonth := month.Prev()
	for _, std := range students {
		if !std.AdmittedBy(month) {
			continue
		}

		i, ok := idx[std.ID]
		if !ok {
			res = append(res, Account{StudentID: std.ID, Records: []Record{}})
			i = len(res) - 1
			idx[std.ID] = i
		}
		acc := &res[i]

		prev, hasPrev := acc.Record(prevMonth)
		carryForward := decimal.Zero
		if hasPrev {
			carryForward = core.NonNegative(prev.Balance())
		}

		if j := acc.index(month); j < 0 {
			acc.Records = append(acc.Records, Record{
				Month:        month,
				DueDate:      month.DateOn(std.JoinDate.Day()),
				MonthlyFee:   std.MonthlyFee,
				CarryForward: carryForward,
				AmountPaid:   decimal.Zero,
			})
			acc.sortRecords()
		} else if hasPrev {
			acc.Records[j].CarryForward = carryForward
		}
	}
	return res
}

// GenerateRecordsForRange generates every month from `from` to `to` (inclusive) in calendar order,
// so carry-forward balances chain through the whole range. It stops at the last representable month.
func GenerateRecordsForRange(from, to core.Month, students []student.Student, accounts []Account) []Account {
	res := cloneAccounts(accounts)
	if !from.Valid() || !to.Valid() {
		return res
	}
	for m := from; m.Valid() && !to.Before(m); m = m.Next() {
		res = GenerateRecordsForMonth(m, students, res)
	}
	return res
}

// RecordPayment overwrites the payment fields of the (studentID, month) Record.
// The record is marked paid when the amount covers its total due, unpaid otherwise.
// Overpayments are kept as is.
func RecordPayment(accounts []Account, studentID int64, month core.Month, p Payment) ([]Account, error) {
	if p.AmountPaid.IsNegative() {
		return nil, core.InvalidField("amountPaid", errNegativeAmount)
	}
	return updateRecord(accounts, studentID, month, func(r *Record) {
		r.AmountPaid = p.AmountPaid
		r.PaidDate = p.PaidDate
		r.PaymentNote = p.Note
		r.Paid = r.AmountPaid.GreaterThanOrEqual(r.TotalDue())
	})
}

// ToggleFeeStatus flips the paid flag of the (studentID, month) Record.
// Marking it paid stamps today as the paid date, marking it unpaid clears it. AmountPaid is left alone.
func ToggleFeeStatus(accounts []Account, studentID int64, month core.Month, today core.Date) ([]Account, error) {
	return updateRecord(accounts, studentID, month, func(r *Record) {
		r.Paid = !r.Paid
		if r.Paid {
			r.PaidDate = today
		} else {
			r.PaidDate = core.Date{}
		}
	})
}

// DeriveStatus is the one place a Record's status is computed:
//
//	paid in full:  Late if paid after the due date, Paid otherwise
//	paid in part:  Partial
//	nothing paid:  Late once the due date has passed, Pending otherwise
func DeriveStatus(r Record, now time.Time) Status {
	totalDue := r.TotalDue()
	switch {
	case r.AmountPaid.GreaterThanOrEqual(totalDue):
		if !r.PaidDate.IsZero() && r.PaidDate.After(r.DueDate) {
			return StatusLate
		}
		return StatusPaid
	case r.AmountPaid.IsPositive():
		return StatusPartial
	case core.DateOf(now).After(r.DueDate):
		return StatusLate
	default:
		return StatusPending
	}
}

func updateRecord(accounts []Account, studentID int64, month core.Month, update func(r *Record)) ([]Account, error) {
	res := cloneAccounts(accounts)
	for i := range res {
		if res[i].StudentID != studentID {
			continue
		}
		if j := res[i].index(month); j >= 0 {
			update(&res[i].Records[j])
			return res, nil
		}
		break
	}
	return nil, ErrRecordNotFound
}

func cloneAccounts(accounts []Account) []Account {
	res := make([]Account, len(accounts))
	for i, acc := range accounts {
		res[i] = acc.clone()
	}
	return res
}
