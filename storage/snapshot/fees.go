package snapshot

import (
	"context"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/fee"
)

type feeRepository struct {
	store  core.KVStore
	logger core.Logger
}

var _ fee.Repository = (*feeRepository)(nil)

func NewFeeRepository(store core.KVStore, logger core.Logger) *feeRepository {
	return &feeRepository{store: store, logger: logger}
}

// QueryAllAccounts loads the ledgers, migrating older shapes and dropping unusable records.
func (repo *feeRepository) QueryAllAccounts(ctx context.Context) ([]fee.Account, error) {
	var accounts []fee.Account
	if err := core.LoadJSON(ctx, repo.store, repo.logger, core.KeyFees, &accounts); err != nil {
		return nil, err
	}
	accounts, dropped := fee.NormalizeAccounts(accounts)
	for _, acc := range dropped {
		repo.logger.Warn("dropped unusable fee records", acc)
	}
	return accounts, nil
}

func (repo *feeRepository) SaveAccounts(ctx context.Context, accounts []fee.Account) error {
	if accounts == nil {
		accounts = make([]fee.Account, 0)
	}
	return core.SaveJSON(ctx, repo.store, core.KeyFees, accounts)
}
