package contract

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	MethodRegister          = "register"
	MethodRenew             = "renew"
	MethodCancel            = "cancel"
	MethodGetReservationFee = "getReservationFee"
	MethodGetData           = "getData"
)

var requiredMethods = []string{MethodRegister, MethodRenew, MethodCancel,
	MethodGetReservationFee, MethodGetData}

// Record is the data stored by the contract for a name.
type Record struct {
	Owner           common.Address
	ExpirationBlock *big.Int
}

// NameReg is a binding of the name registration contract deployed at a
// specific address.
type NameReg struct {
	address  common.Address
	contract *bind.BoundContract
}

func NewNameReg(address common.Address, parsed abi.ABI, backend bind.ContractBackend) *NameReg {
	return &NameReg{
		address:  address,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}
}

func (n *NameReg) Address() common.Address {
	return n.address
}

func (n *NameReg) GetReservationFee(opts *bind.CallOpts, numBlocks *big.Int) (*big.Int, error) {
	var out []interface{}
	err := n.contract.Call(opts, &out, MethodGetReservationFee, numBlocks)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (n *NameReg) GetData(opts *bind.CallOpts, name [32]byte) (Record, error) {
	var out []interface{}
	err := n.contract.Call(opts, &out, MethodGetData, name)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Owner:           *abi.ConvertType(out[0], new(common.Address)).(*common.Address),
		ExpirationBlock: *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
	}, nil
}

func (n *NameReg) Register(opts *bind.TransactOpts, name [32]byte, numBlocks *big.Int) (*types.Transaction, error) {
	return n.contract.Transact(opts, MethodRegister, name, numBlocks)
}

func (n *NameReg) Renew(opts *bind.TransactOpts, name [32]byte, numBlocks *big.Int) (*types.Transaction, error) {
	return n.contract.Transact(opts, MethodRenew, name, numBlocks)
}

func (n *NameReg) Cancel(opts *bind.TransactOpts, name [32]byte) (*types.Transaction, error) {
	return n.contract.Transact(opts, MethodCancel, name)
}
