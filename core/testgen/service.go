package testgen

import (
	"context"
	"io"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

// number of tests kept in history
const keepTests = 5

var (
	// errors
	ErrNotFound = errors.New("test not found")
)

type (
	Repository interface {
		QueryAllTests(ctx context.Context) ([]Test, error)
		SaveTests(ctx context.Context, tests []Test) error
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

// Generate builds a test and saves it first in history. Only the most recent tests are kept.
func (svc *Service) Generate(ctx context.Context, opts Options) (Test, error) {
	if err := opts.Validate(svc.validate); err != nil {
		return Test{}, err
	}
	test := Build(opts, core.Now())

	svc.mu.Lock()
	defer svc.mu.Unlock()

	tests, err := svc.repo.QueryAllTests(ctx)
	if err != nil {
		return Test{}, errors.Wrap(err, "querying tests")
	}
	tests = append([]Test{test}, tests...)
	if len(tests) > keepTests {
		tests = tests[:keepTests]
	}
	if err = svc.repo.SaveTests(ctx, tests); err != nil {
		return Test{}, errors.Wrap(err, "saving tests")
	}
	return test, nil
}

// QueryAll lists saved tests, most recent first.
func (svc *Service) QueryAll(ctx context.Context) ([]Test, error) {
	return svc.repo.QueryAllTests(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Test, error) {
	tests, err := svc.repo.QueryAllTests(ctx)
	if err != nil {
		return Test{}, errors.Wrap(err, "querying tests")
	}
	for _, t := range tests {
		if t.ID == id {
			return t, nil
		}
	}
	return Test{}, ErrNotFound
}

// ExportPDF writes the saved test with the given ID as PDF.
func (svc *Service) ExportPDF(ctx context.Context, id string, showAnswers bool, w io.Writer) error {
	test, err := svc.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return WritePDF(w, test, showAnswers)
}
