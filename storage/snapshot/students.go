package snapshot

import (
	"context"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/student"
)

type studentRepository struct {
	store  core.KVStore
	logger core.Logger
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(store core.KVStore, logger core.Logger) *studentRepository {
	return &studentRepository{store: store, logger: logger}
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	students := make([]student.Student, 0)
	if err := core.LoadJSON(ctx, repo.store, repo.logger, core.KeyStudents, &students); err != nil {
		return nil, err
	}
	if students == nil {
		students = make([]student.Student, 0)
	}
	return students, nil
}

func (repo *studentRepository) SaveStudents(ctx context.Context, students []student.Student) error {
	if students == nil {
		students = make([]student.Student, 0)
	}
	return core.SaveJSON(ctx, repo.store, core.KeyStudents, students)
}
