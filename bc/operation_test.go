package bc

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseOperation(t *testing.T) {
	assert := assert.New(t)

	op, err := ParseOperation("register")
	assert.NoError(err)
	assert.Equal(OpRegister, op)

	op, err = ParseOperation(" Renew ")
	assert.NoError(err)
	assert.Equal(OpRenew, op)

	_, err = ParseOperation("transfer")
	assert.ErrorIs(err, ErrInvalidOperation)

	assert.True(OpRegister.Paid())
	assert.True(OpRenew.UsesBlocks())
	assert.False(OpCancel.Paid())
	assert.False(OpCancel.UsesBlocks())
}

func Test_EncodeName(t *testing.T) {
	assert := assert.New(t)

	b, err := EncodeName("abc")
	assert.NoError(err)
	assert.Equal([]byte("abc"), b[:3])
	for _, c := range b[3:] {
		assert.Zero(c)
	}
	assert.Equal("abc", DecodeName(b))

	b, err = EncodeName(strings.Repeat("z", 32))
	assert.NoError(err)
	assert.Equal(strings.Repeat("z", 32), DecodeName(b))

	_, err = EncodeName(strings.Repeat("z", 33))
	assert.ErrorIs(err, ErrInvalidName)

	_, err = EncodeName("")
	assert.ErrorIs(err, ErrInvalidName)
}

func Test_FeeUnit(t *testing.T) {
	assert := assert.New(t)

	u, err := ParseFeeUnit("")
	assert.NoError(err)
	assert.Equal("wei", u.String())
	assert.Equal("7", u.ToWei(big.NewInt(7)).String())

	u, err = ParseFeeUnit("szabo")
	assert.NoError(err)
	assert.Equal("microether", u.String())
	assert.Equal("7000000000000", u.ToWei(big.NewInt(7)).String())

	u, err = ParseFeeUnit("Ether")
	assert.NoError(err)
	assert.Equal("1000000000000000000", u.ToWei(big.NewInt(1)).String())

	_, err = ParseFeeUnit("finney")
	assert.Error(err)

	var zero FeeUnit
	assert.Equal("wei", zero.String())
	v := big.NewInt(5)
	w := zero.ToWei(v)
	assert.Equal("5", w.String())
	w.SetInt64(6)
	assert.EqualValues(5, v.Int64())
	assert.EqualValues(0, zero.ToWei(nil).Int64())
}
