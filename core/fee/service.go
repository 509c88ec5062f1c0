package fee

import (
	"context"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/student"
)

// MaxRangeMonths caps how many months one GenerateRange call may cover.
const MaxRangeMonths = 120

var (
	errRangeReversed = "cannot be before from"
	errRangeTooLong  = "a range covers at most " + strconv.Itoa(MaxRangeMonths) + " months"
)

type (
	// Repository persists every student's ledger as one snapshot.
	Repository interface {
		QueryAllAccounts(ctx context.Context) ([]Account, error)
		SaveAccounts(ctx context.Context, accounts []Account) error
	}

	// StudentSource lists the students the ledger bills.
	StudentSource interface {
		QueryAll(ctx context.Context) ([]student.Student, error)
	}

	Service struct {
		mu       sync.Mutex
		repo     Repository
		students StudentSource
		validate *validator.Validate
	}
)

func NewService(repo Repository, students StudentSource, validate *validator.Validate) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(students, "students"),
		vala.IsNotNil(validate, "validate"),
	).CheckAndPanic()
	return &Service{repo: repo, students: students, validate: validate}
}

// Generate creates the missing records of month and refreshes carry-forwards of the existing ones.
func (svc *Service) Generate(ctx context.Context, month core.Month) ([]Account, error) {
	if !month.Valid() {
		return nil, core.InvalidField("month", core.ErrInvalidMonth.Error())
	}
	return svc.mutate(ctx, func(students []student.Student, accounts []Account) ([]Account, error) {
		return GenerateRecordsForMonth(month, students, accounts), nil
	})
}

// GenerateRange runs Generate for every month from `from` to `to`, oldest first.
func (svc *Service) GenerateRange(ctx context.Context, from, to core.Month) ([]Account, error) {
	if !from.Valid() {
		return nil, core.InvalidField("from", core.ErrInvalidMonth.Error())
	}
	if !to.Valid() {
		return nil, core.InvalidField("to", core.ErrInvalidMonth.Error())
	}
	switch span := from.MonthsUntil(to); {
	case span < 0:
		return nil, core.InvalidField("to", errRangeReversed)
	case span >= MaxRangeMonths:
		return nil, core.InvalidField("to", errRangeTooLong)
	}
	return svc.mutate(ctx, func(students []student.Student, accounts []Account) ([]Account, error) {
		return GenerateRecordsForRange(from, to, students, accounts), nil
	})
}

// RecordPayment validates pi and applies it to the (studentID, month) record.
// The paid date is stored as given: a payment without one leaves it absent.
func (svc *Service) RecordPayment(ctx context.Context, studentID int64, month core.Month, pi PaymentInput) (Record, error) {
	if err := pi.Validate(svc.validate); err != nil {
		return Record{}, err
	}
	amount, err := core.ParseAmount(string(pi.AmountPaid))
	if err != nil {
		return Record{}, core.InvalidField("amountPaid", err.Error())
	}
	var paidDate core.Date
	if pi.PaidDate != "" {
		paidDate, _ = core.ParseDate(pi.PaidDate)
	}
	p := Payment{AmountPaid: amount, PaidDate: paidDate, Note: pi.Note}

	accounts, err := svc.mutate(ctx, func(_ []student.Student, accounts []Account) ([]Account, error) {
		return RecordPayment(accounts, studentID, month, p)
	})
	if err != nil {
		return Record{}, err
	}
	return findRecord(accounts, studentID, month)
}

// ToggleStatus flips the paid flag of the (studentID, month) record.
func (svc *Service) ToggleStatus(ctx context.Context, studentID int64, month core.Month) (Record, error) {
	today := core.Today()
	accounts, err := svc.mutate(ctx, func(_ []student.Student, accounts []Account) ([]Account, error) {
		return ToggleFeeStatus(accounts, studentID, month, today)
	})
	if err != nil {
		return Record{}, err
	}
	return findRecord(accounts, studentID, month)
}

// Lock blocks every ledger mutation until Unlock, so the snapshot can be replaced wholesale.
func (svc *Service) Lock()   { svc.mu.Lock() }
func (svc *Service) Unlock() { svc.mu.Unlock() }

func (svc *Service) QueryAll(ctx context.Context) ([]Account, error) {
	return svc.repo.QueryAllAccounts(ctx)
}

// Ledger returns the account of a student. Students never billed get an empty account.
func (svc *Service) Ledger(ctx context.Context, studentID int64) (Account, error) {
	accounts, err := svc.repo.QueryAllAccounts(ctx)
	if err != nil {
		return Account{}, errors.Wrap(err, "querying fee accounts")
	}
	for _, acc := range accounts {
		if acc.StudentID == studentID {
			return acc, nil
		}
	}
	return Account{StudentID: studentID, Records: []Record{}}, nil
}

// MonthRows lists the month's records of current students, in student order, with their derived status.
func (svc *Service) MonthRows(ctx context.Context, month core.Month) ([]Row, error) {
	students, err := svc.students.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	accounts, err := svc.repo.QueryAllAccounts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying fee accounts")
	}
	return BuildRows(month, students, accounts, core.NowFunc()), nil
}

func (svc *Service) exportRows(ctx context.Context, month string) ([]Row, error) {
	m, err := core.ParseMonth(month)
	if err != nil {
		return nil, core.InvalidField("month", err.Error())
	}
	return svc.MonthRows(ctx, m)
}

func (svc *Service) mutate(ctx context.Context, fn func([]student.Student, []Account) ([]Account, error)) ([]Account, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	students, err := svc.students.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	accounts, err := svc.repo.QueryAllAccounts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying fee accounts")
	}
	updated, err := fn(students, accounts)
	if err != nil {
		return nil, err
	}
	if err = svc.repo.SaveAccounts(ctx, updated); err != nil {
		return nil, errors.Wrap(err, "saving fee accounts")
	}
	return updated, nil
}

func findRecord(accounts []Account, studentID int64, month core.Month) (Record, error) {
	for _, acc := range accounts {
		if acc.StudentID == studentID {
			if r, ok := acc.Record(month); ok {
				return r, nil
			}
		}
	}
	return Record{}, ErrRecordNotFound
}
