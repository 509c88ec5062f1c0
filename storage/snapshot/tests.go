package snapshot

import (
	"context"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/testgen"
)

type testRepository struct {
	store  core.KVStore
	logger core.Logger
}

var _ testgen.Repository = (*testRepository)(nil)

func NewTestRepository(store core.KVStore, logger core.Logger) *testRepository {
	return &testRepository{store: store, logger: logger}
}

func (repo *testRepository) QueryAllTests(ctx context.Context) ([]testgen.Test, error) {
	tests := make([]testgen.Test, 0)
	if err := core.LoadJSON(ctx, repo.store, repo.logger, core.KeySavedTests, &tests); err != nil {
		return nil, err
	}
	if tests == nil {
		tests = make([]testgen.Test, 0)
	}
	return tests, nil
}

func (repo *testRepository) SaveTests(ctx context.Context, tests []testgen.Test) error {
	if tests == nil {
		tests = make([]testgen.Test, 0)
	}
	return core.SaveJSON(ctx, repo.store, core.KeySavedTests, tests)
}
