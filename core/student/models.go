package student

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

// Student is an enrolled student. ID is assigned on creation, never changes and is never reused.
type Student struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Grade      string          `json:"grade"`
	Batch      string          `json:"batch,omitempty"`
	JoinDate   core.Date       `json:"joinDate"`
	MonthlyFee decimal.Decimal `json:"monthlyFee"`
	Phone      string          `json:"phone"`
}

// AdmissionMonth is the first month the student can be billed for.
func (s Student) AdmissionMonth() core.Month {
	return s.JoinDate.CalendarMonth()
}

// AdmittedBy reports whether the student had joined by the given month.
func (s Student) AdmittedBy(month core.Month) bool {
	if s.JoinDate.IsZero() {
		return false
	}
	return !month.Before(s.AdmissionMonth())
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name       string           `json:"name" validate:"notblank"`
	Grade      string           `json:"grade" validate:"notblank"`
	Batch      string           `json:"batch"`
	JoinDate   string           `json:"joinDate" validate:"notblank,date"`
	MonthlyFee core.AmountInput `json:"monthlyFee" validate:"notblank,amount"`
	Phone      string           `json:"phone" validate:"notblank"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Grade = core.CleanString(ns.Grade)
	ns.Batch = core.CleanString(ns.Batch)
	ns.JoinDate = core.CleanString(ns.JoinDate)
	ns.MonthlyFee = core.AmountInput(core.CleanString(string(ns.MonthlyFee)))
	ns.Phone = core.CleanString(ns.Phone)
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Blank fields keep their current value.
type UpdateStudent struct {
	Name       string           `json:"name" validate:"notblank"`
	Grade      string           `json:"grade" validate:"notblank"`
	Batch      *string          `json:"batch"`
	JoinDate   string           `json:"joinDate" validate:"notblank,date"`
	MonthlyFee core.AmountInput `json:"monthlyFee" validate:"notblank,amount"`
	Phone      string           `json:"phone" validate:"notblank"`
}

func (us *UpdateStudent) Validate(orig Student, validate *validator.Validate) error {
	keep := func(val, origVal string) string {
		if val = core.CleanString(val); val != "" {
			return val
		}
		return origVal
	}
	us.Name = keep(us.Name, orig.Name)
	us.Grade = keep(us.Grade, orig.Grade)
	us.JoinDate = keep(us.JoinDate, orig.JoinDate.String())
	us.MonthlyFee = core.AmountInput(keep(string(us.MonthlyFee), orig.MonthlyFee.String()))
	us.Phone = keep(us.Phone, orig.Phone)
	if us.Batch != nil {
		batch := core.CleanString(*us.Batch)
		us.Batch = &batch
	}
	return validate.Struct(us)
}

type QueryFilter struct {
	Search string `query:"search"`
	Batch  string `query:"batch"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search, true /* lower */)
	qf.Batch = core.CleanString(qf.Batch)
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Batch == ""
}
