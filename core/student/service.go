package student

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")

	// minimum similarity for a fuzzy name match
	searchMinRatio = .75
)

type (
	// Repository persists the full list of students as one snapshot.
	Repository interface {
		QueryAllStudents(ctx context.Context) ([]Student, error)
		SaveStudents(ctx context.Context, students []Student) error
	}

	Service struct {
		mu       sync.Mutex
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(validate, "validate"),
	).CheckAndPanic()
	return &Service{repo: repo, validate: validate}
}

// Create validates ns and registers a new Student with a fresh ID.
func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	joinDate, _ := core.ParseDate(ns.JoinDate)
	fee, _ := core.ParseAmount(string(ns.MonthlyFee))

	svc.mu.Lock()
	defer svc.mu.Unlock()

	students, err := svc.repo.QueryAllStudents(ctx)
	if err != nil {
		return Student{}, errors.Wrap(err, "querying students")
	}
	std := Student{
		ID:         core.NextID(),
		Name:       ns.Name,
		Grade:      ns.Grade,
		Batch:      ns.Batch,
		JoinDate:   joinDate,
		MonthlyFee: fee,
		Phone:      ns.Phone,
	}
	if err = svc.repo.SaveStudents(ctx, append(students, std)); err != nil {
		return Student{}, errors.Wrap(err, "saving students")
	}
	return std, nil
}

// Lock blocks every student mutation until Unlock, so the snapshot can be replaced wholesale.
func (svc *Service) Lock()   { svc.mu.Lock() }
func (svc *Service) Unlock() { svc.mu.Unlock() }

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Student, error) {
	students, err := svc.repo.QueryAllStudents(ctx)
	if err != nil {
		return Student{}, errors.Wrap(err, "querying students")
	}
	for _, std := range students {
		if std.ID == id {
			return std, nil
		}
	}
	return Student{}, ErrNotFound
}

// Filter applies AND operation on available QueryFilter fields.
// QueryFilter.Search matches a case-insensitive substring of the name or phone, or a name close enough to it.
func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Student, error) {
	filter.Clean()
	students, err := svc.repo.QueryAllStudents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	if filter.IsEmpty() {
		return students, nil
	}

	res := make([]Student, 0, len(students))
	for _, std := range students {
		if filter.Batch != "" && std.Batch != filter.Batch {
			continue
		}
		if filter.Search != "" && !matchesSearch(std, filter.Search) {
			continue
		}
		res = append(res, std)
	}
	return res, nil
}

// Batches returns the distinct batch names in use, sorted.
func (svc *Service) Batches(ctx context.Context) ([]string, error) {
	students, err := svc.repo.QueryAllStudents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	seen := make(map[string]bool)
	batches := make([]string, 0)
	for _, std := range students {
		if std.Batch != "" && !seen[std.Batch] {
			seen[std.Batch] = true
			batches = append(batches, std.Batch)
		}
	}
	sort.Strings(batches)
	return batches, nil
}

// Update replaces the provided fields of the Student with the given ID.
// An unknown ID is reported as ErrNotFound.
func (svc *Service) Update(ctx context.Context, id int64, us UpdateStudent) (Student, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	students, err := svc.repo.QueryAllStudents(ctx)
	if err != nil {
		return Student{}, errors.Wrap(err, "querying students")
	}
	idx := -1
	for i, std := range students {
		if std.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Student{}, ErrNotFound
	}

	if err = us.Validate(students[idx], svc.validate); err != nil {
		return Student{}, err
	}
	std := students[idx]
	std.Name = us.Name
	std.Grade = us.Grade
	std.Phone = us.Phone
	std.JoinDate, _ = core.ParseDate(us.JoinDate)
	std.MonthlyFee, _ = core.ParseAmount(string(us.MonthlyFee))
	if us.Batch != nil {
		std.Batch = *us.Batch
	}

	updated := make([]Student, len(students))
	copy(updated, students)
	updated[idx] = std
	if err = svc.repo.SaveStudents(ctx, updated); err != nil {
		return Student{}, errors.Wrap(err, "saving students")
	}
	return std, nil
}

// Delete removes the students with the given IDs. Their fee and attendance history is kept.
// Unknown IDs are ignored.
func (svc *Service) Delete(ctx context.Context, ids ...int64) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	students, err := svc.repo.QueryAllStudents(ctx)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	toDelete := make(map[int64]bool, len(ids))
	for _, id := range ids {
		toDelete[id] = true
	}
	kept := make([]Student, 0, len(students))
	for _, std := range students {
		if !toDelete[std.ID] {
			kept = append(kept, std)
		}
	}
	if len(kept) == len(students) {
		return nil
	}
	if err = svc.repo.SaveStudents(ctx, kept); err != nil {
		return errors.Wrap(err, "saving students")
	}
	return nil
}

func matchesSearch(std Student, search string) bool {
	name := strings.ToLower(std.Name)
	if strings.Contains(name, search) || strings.Contains(std.Phone, search) {
		return true
	}
	return difflib.NewMatcher(strings.Split(search, ""), strings.Split(name, "")).Ratio() >= searchMinRatio
}
