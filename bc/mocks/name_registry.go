package mocks

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/regnull/namereg/contract"
	"github.com/stretchr/testify/mock"
)

// MockNameRegistry is a testify mock of bc.NameRegistry.
type MockNameRegistry struct {
	mock.Mock
}

func (m *MockNameRegistry) Address() common.Address {
	args := m.Called()
	return args.Get(0).(common.Address)
}

func (m *MockNameRegistry) GetReservationFee(opts *bind.CallOpts, numBlocks *big.Int) (*big.Int, error) {
	args := m.Called(opts, numBlocks)
	fee, _ := args.Get(0).(*big.Int)
	return fee, args.Error(1)
}

func (m *MockNameRegistry) GetData(opts *bind.CallOpts, name [32]byte) (contract.Record, error) {
	args := m.Called(opts, name)
	rec, _ := args.Get(0).(contract.Record)
	return rec, args.Error(1)
}

func (m *MockNameRegistry) Register(opts *bind.TransactOpts, name [32]byte, numBlocks *big.Int) (*types.Transaction, error) {
	args := m.Called(opts, name, numBlocks)
	tx, _ := args.Get(0).(*types.Transaction)
	return tx, args.Error(1)
}

func (m *MockNameRegistry) Renew(opts *bind.TransactOpts, name [32]byte, numBlocks *big.Int) (*types.Transaction, error) {
	args := m.Called(opts, name, numBlocks)
	tx, _ := args.Get(0).(*types.Transaction)
	return tx, args.Error(1)
}

func (m *MockNameRegistry) Cancel(opts *bind.TransactOpts, name [32]byte) (*types.Transaction, error) {
	args := m.Called(opts, name)
	tx, _ := args.Get(0).(*types.Transaction)
	return tx, args.Error(1)
}
