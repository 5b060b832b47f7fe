package bc

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog/log"
)

// Node is the part of an Ethereum JSON-RPC client the providers need.
// *ethclient.Client implements it.
type Node interface {
	bind.ContractBackend
	bind.DeployBackend
	NetworkID(ctx context.Context) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// Provider is a wallet attached to a node. It grants access to accounts,
// reports the active network and signs transactions.
type Provider interface {
	// RequestAccounts asks the wallet for access to its accounts. The first
	// account returned is the active one.
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	NetworkID(ctx context.Context) (*big.Int, error)
	Backend() bind.ContractBackend
	// Transactor returns signing options for the given account, with nonce,
	// gas price and gas limit filled in and a zero value.
	Transactor(ctx context.Context, from common.Address) (*bind.TransactOpts, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// PassphraseFunc supplies the passphrase that unlocks the wallet.
type PassphraseFunc func() (string, error)

// StaticPassphrase returns a PassphraseFunc that always returns s.
func StaticPassphrase(s string) PassphraseFunc {
	return func() (string, error) {
		return s, nil
	}
}

type nodeProvider struct {
	node     Node
	gasLimit uint64
}

func (p *nodeProvider) NetworkID(ctx context.Context) (*big.Int, error) {
	return p.node.NetworkID(ctx)
}

func (p *nodeProvider) Backend() bind.ContractBackend {
	return p.node
}

func (p *nodeProvider) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	log.Debug().Str("tx", tx.Hash().Hex()).Msg("waiting for transaction to be mined")
	return bind.WaitMined(ctx, p.node, tx)
}

func (p *nodeProvider) chainID(ctx context.Context) (*big.Int, error) {
	chainID, err := p.node.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	log.Debug().Str("chain-id", chainID.String()).Msg("got chain ID")
	return chainID, nil
}

func (p *nodeProvider) prepare(ctx context.Context, auth *bind.TransactOpts) (*bind.TransactOpts, error) {
	nonce, err := p.node.PendingNonceAt(ctx, auth.From)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}
	log.Debug().Uint64("nonce", nonce).Msg("got nonce")

	gasPrice, err := p.node.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	log.Debug().Str("gas-price", gasPrice.String()).Msg("got gas price")

	auth.Nonce = new(big.Int).SetUint64(nonce)
	auth.Value = big.NewInt(0) // in wei
	auth.GasLimit = p.gasLimit
	auth.GasPrice = gasPrice
	auth.Context = ctx
	return auth, nil
}
