package contract

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	bind.ContractBackend

	callTo     *common.Address
	callData   []byte
	callResult []byte
	sent       *types.Transaction
}

func (f *fakeBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.callTo = call.To
	f.callData = call.Data
	return f.callResult, nil
}

func (f *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	f.sent = tx
	return nil
}

func testName(s string) [32]byte {
	var b [32]byte
	copy(b[:], s)
	return b
}

func Test_NameReg_GetReservationFee(t *testing.T) {
	assert := assert.New(t)

	a, err := DefaultArtifact()
	require.NoError(t, err)

	out, err := a.ABI.Methods[MethodGetReservationFee].Outputs.Pack(big.NewInt(42))
	require.NoError(t, err)

	addr := common.HexToAddress("0xcc8650c9cd8d99b62375c22f270a803e7abf0de9")
	backend := &fakeBackend{callResult: out}
	nr := NewNameReg(addr, a.ABI, backend)
	assert.Equal(addr, nr.Address())

	fee, err := nr.GetReservationFee(nil, big.NewInt(5))
	assert.NoError(err)
	assert.EqualValues(42, fee.Int64())

	assert.Equal(addr, *backend.callTo)
	expected, err := a.ABI.Pack(MethodGetReservationFee, big.NewInt(5))
	require.NoError(t, err)
	assert.Equal(expected, backend.callData)
}

func Test_NameReg_GetData(t *testing.T) {
	assert := assert.New(t)

	a, err := DefaultArtifact()
	require.NoError(t, err)

	owner := common.HexToAddress("0x24fa5B1d7FBe98A9316101E311F0c409791EaA76")
	out, err := a.ABI.Methods[MethodGetData].Outputs.Pack(owner, big.NewInt(1200))
	require.NoError(t, err)

	backend := &fakeBackend{callResult: out}
	nr := NewNameReg(common.HexToAddress("0xcc8650c9cd8d99b62375c22f270a803e7abf0de9"), a.ABI, backend)

	rec, err := nr.GetData(&bind.CallOpts{Context: context.Background()}, testName("abc"))
	assert.NoError(err)
	assert.Equal(owner, rec.Owner)
	assert.EqualValues(1200, rec.ExpirationBlock.Int64())
}

func Test_NameReg_Transactions(t *testing.T) {
	assert := assert.New(t)

	a, err := DefaultArtifact()
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	addr := common.HexToAddress("0xcc8650c9cd8d99b62375c22f270a803e7abf0de9")
	backend := &fakeBackend{}
	nr := NewNameReg(addr, a.ABI, backend)

	newOpts := func(value int64) *bind.TransactOpts {
		opts, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(5777))
		require.NoError(t, err)
		opts.Nonce = big.NewInt(3)
		opts.GasPrice = big.NewInt(1000)
		opts.GasLimit = 300000
		opts.Value = big.NewInt(value)
		return opts
	}

	tx, err := nr.Register(newOpts(7), testName("abc"), big.NewInt(5))
	assert.NoError(err)
	assert.Equal(tx, backend.sent)
	assert.Equal(addr, *tx.To())
	assert.EqualValues(7, tx.Value().Int64())
	assert.Equal(crypto.Keccak256([]byte("register(bytes32,uint256)"))[:4], tx.Data()[:4])

	tx, err = nr.Renew(newOpts(9), testName("abc"), big.NewInt(10))
	assert.NoError(err)
	assert.EqualValues(9, tx.Value().Int64())
	assert.Equal(crypto.Keccak256([]byte("renew(bytes32,uint256)"))[:4], tx.Data()[:4])

	tx, err = nr.Cancel(newOpts(0), testName("abc"))
	assert.NoError(err)
	assert.EqualValues(0, tx.Value().Int64())
	assert.Equal(crypto.Keccak256([]byte("cancel(bytes32)"))[:4], tx.Data()[:4])
	assert.Len(tx.Data(), 4+32)
}
