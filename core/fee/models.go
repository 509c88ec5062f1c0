package fee

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

// Status is the derived payment status of a Record.
type Status string

const (
	StatusPaid    Status = "Paid"
	StatusLate    Status = "Late"
	StatusPartial Status = "Partial"
	StatusPending Status = "Pending"
)

// Record is a student's fee obligation for one month.
type Record struct {
	Month        core.Month      `json:"month"`
	DueDate      core.Date       `json:"dueDate"`
	MonthlyFee   decimal.Decimal `json:"monthlyFee"` // snapshot of the student's fee at generation time
	CarryForward decimal.Decimal `json:"carryForward"`
	AmountPaid   decimal.Decimal `json:"amountPaid"`
	PaidDate     core.Date       `json:"paidDate"`
	Paid         bool            `json:"paid"`
	PaymentNote  string          `json:"paymentNote,omitempty"`
}

// TotalDue is the month's fee plus the balance carried from the previous month.
func (r Record) TotalDue() decimal.Decimal {
	return r.MonthlyFee.Add(r.CarryForward)
}

// Balance is what is left to pay. Negative when overpaid.
func (r Record) Balance() decimal.Decimal {
	return r.TotalDue().Sub(r.AmountPaid)
}

// Remaining is the unpaid part of TotalDue, never negative.
func (r Record) Remaining() decimal.Decimal {
	return core.NonNegative(r.Balance())
}

// Account is the ledger of one student: at most one Record per month, ordered by month.
type Account struct {
	StudentID int64    `json:"studentId"`
	Records   []Record `json:"records"`
}

func (a Account) index(month core.Month) int {
	for i, r := range a.Records {
		if r.Month == month {
			return i
		}
	}
	return -1
}

// Record returns the record for month, if generated.
func (a Account) Record(month core.Month) (Record, bool) {
	if i := a.index(month); i >= 0 {
		return a.Records[i], true
	}
	return Record{}, false
}

func (a Account) clone() Account {
	records := make([]Record, len(a.Records))
	copy(records, a.Records)
	return Account{StudentID: a.StudentID, Records: records}
}

func (a *Account) sortRecords() {
	sort.SliceStable(a.Records, func(i, j int) bool { return a.Records[i].Month < a.Records[j].Month })
}

// UnmarshalJSON also accepts the older `{"id": ..., "records": [...]}` shape.
func (a *Account) UnmarshalJSON(data []byte) error {
	var raw struct {
		StudentID *int64   `json:"studentId"`
		LegacyID  *int64   `json:"id"`
		Records   []Record `json:"records"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Account{Records: raw.Records}
	switch {
	case raw.StudentID != nil:
		a.StudentID = *raw.StudentID
	case raw.LegacyID != nil:
		a.StudentID = *raw.LegacyID
	}
	return nil
}

// LogFields describes the account by student and the months it holds.
func (a Account) LogFields() core.Fields {
	months := make([]string, 0, len(a.Records))
	for _, r := range a.Records {
		months = append(months, strconv.Quote(string(r.Month)))
	}
	return core.Fields{"studentId": a.StudentID, "months": "[" + strings.Join(months, " ") + "]"}
}

// NormalizeAccounts merges accounts of the same student, drops records without a valid month,
// keeps the first record of a duplicated month and orders records by month.
// The dropped records are returned grouped by student.
func NormalizeAccounts(accounts []Account) ([]Account, []Account) {
	var dropped []Account
	res := make([]Account, 0, len(accounts))
	idx := make(map[int64]int, len(accounts))
	for _, acc := range accounts {
		i, ok := idx[acc.StudentID]
		if !ok {
			res = append(res, Account{StudentID: acc.StudentID, Records: make([]Record, 0, len(acc.Records))})
			i = len(res) - 1
			idx[acc.StudentID] = i
		}
		for _, r := range acc.Records {
			if !r.Month.Valid() || res[i].index(r.Month) >= 0 {
				dropped = appendRecord(dropped, acc.StudentID, r)
				continue
			}
			res[i].Records = append(res[i].Records, r)
		}
	}
	for i := range res {
		res[i].sortRecords()
	}
	return res, dropped
}

func appendRecord(accounts []Account, studentID int64, r Record) []Account {
	if n := len(accounts); n > 0 && accounts[n-1].StudentID == studentID {
		accounts[n-1].Records = append(accounts[n-1].Records, r)
		return accounts
	}
	return append(accounts, Account{StudentID: studentID, Records: []Record{r}})
}

// PaymentInput contains the information needed to record a payment against a Record.
type PaymentInput struct {
	AmountPaid core.AmountInput `json:"amountPaid" validate:"notblank,amount"`
	PaidDate   string           `json:"paidDate" validate:"omitempty,date"`
	Note       string           `json:"note"`
}

func (pi *PaymentInput) Validate(validate *validator.Validate) error {
	pi.AmountPaid = core.AmountInput(core.CleanString(string(pi.AmountPaid)))
	pi.PaidDate = core.CleanString(pi.PaidDate)
	pi.Note = core.CleanString(pi.Note)
	return validate.Struct(pi)
}

// Row is a Record joined with its student, as listed on the monthly fees page and report.
type Row struct {
	StudentID int64           `json:"studentId"`
	Name      string          `json:"name"`
	Grade     string          `json:"grade"`
	Batch     string          `json:"batch,omitempty"`
	Record    Record          `json:"record"`
	TotalDue  decimal.Decimal `json:"totalDue"`
	Remaining decimal.Decimal `json:"remaining"`
	Status    Status          `json:"status"`
}
