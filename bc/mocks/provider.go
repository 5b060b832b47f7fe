package mocks

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a testify mock of bc.Provider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]common.Address)
	return accounts, args.Error(1)
}

func (m *MockProvider) NetworkID(ctx context.Context) (*big.Int, error) {
	args := m.Called(ctx)
	id, _ := args.Get(0).(*big.Int)
	return id, args.Error(1)
}

func (m *MockProvider) Backend() bind.ContractBackend {
	args := m.Called()
	backend, _ := args.Get(0).(bind.ContractBackend)
	return backend
}

func (m *MockProvider) Transactor(ctx context.Context, from common.Address) (*bind.TransactOpts, error) {
	args := m.Called(ctx, from)
	opts, _ := args.Get(0).(*bind.TransactOpts)
	return opts, args.Error(1)
}

func (m *MockProvider) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	args := m.Called(ctx, tx)
	receipt, _ := args.Get(0).(*types.Receipt)
	return receipt, args.Error(1)
}
