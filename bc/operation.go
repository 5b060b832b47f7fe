package bc

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

// Operation is a state-changing contract method exposed to the user.
type Operation string

const (
	OpRegister Operation = "register"
	OpRenew    Operation = "renew"
	OpCancel   Operation = "cancel"
)

var Operations = []Operation{OpRegister, OpRenew, OpCancel}

func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	if !op.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOperation, s)
	}
	return op, nil
}

func (op Operation) Valid() bool {
	switch op {
	case OpRegister, OpRenew, OpCancel:
		return true
	}
	return false
}

// Paid is true for operations that must pay the reservation fee.
func (op Operation) Paid() bool {
	return op == OpRegister || op == OpRenew
}

// UsesBlocks is true for operations that take a duration in blocks.
func (op Operation) UsesBlocks() bool {
	return op.Paid()
}

func (op Operation) String() string {
	return string(op)
}

// EncodeName converts the name into the fixed-length byte string the
// contract uses as a key, padding it with zeros on the right.
func EncodeName(name string) ([32]byte, error) {
	var b [32]byte
	if name == "" {
		return b, fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if len(name) > len(b) {
		return b, fmt.Errorf("%w: name is longer than %d bytes", ErrInvalidName, len(b))
	}
	copy(b[:], name)
	return b, nil
}

// DecodeName strips the zero padding added by EncodeName.
func DecodeName(b [32]byte) string {
	return strings.TrimRight(string(b[:]), "\x00")
}

// FeeUnit is the denomination the contract quotes the reservation fee in.
type FeeUnit struct {
	name       string
	multiplier *big.Int
}

var (
	FeeUnitWei        = FeeUnit{name: "wei", multiplier: big.NewInt(params.Wei)}
	FeeUnitGwei       = FeeUnit{name: "gwei", multiplier: big.NewInt(params.GWei)}
	FeeUnitMicroether = FeeUnit{name: "microether", multiplier: big.NewInt(params.GWei * 1000)}
	FeeUnitEther      = FeeUnit{name: "ether", multiplier: big.NewInt(params.Ether)}
)

func ParseFeeUnit(s string) (FeeUnit, error) {
	switch strings.ToLower(s) {
	case "", "wei":
		return FeeUnitWei, nil
	case "gwei", "shannon":
		return FeeUnitGwei, nil
	case "microether", "szabo":
		return FeeUnitMicroether, nil
	case "ether":
		return FeeUnitEther, nil
	}
	return FeeUnit{}, fmt.Errorf("invalid fee unit %q", s)
}

// ToWei converts a quoted fee into the transaction value.
func (u FeeUnit) ToWei(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	if u.multiplier == nil {
		return new(big.Int).Set(v)
	}
	return new(big.Int).Mul(v, u.multiplier)
}

func (u FeeUnit) String() string {
	if u.name == "" {
		return "wei"
	}
	return u.name
}
