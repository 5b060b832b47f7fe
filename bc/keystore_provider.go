package bc

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"
)

// KeystoreProvider is a wallet backed by a go-ethereum keystore directory.
type KeystoreProvider struct {
	nodeProvider
	ks         *keystore.KeyStore
	account    string
	passphrase PassphraseFunc

	mu       sync.Mutex
	unlocked *accounts.Account
}

// NewKeystoreProvider creates a provider for the keystore. If account is
// empty, the first account in the keystore is used.
func NewKeystoreProvider(node Node, ks *keystore.KeyStore, account string, passphrase PassphraseFunc, gasLimit uint64) *KeystoreProvider {
	if passphrase == nil {
		passphrase = StaticPassphrase("")
	}
	return &KeystoreProvider{
		nodeProvider: nodeProvider{node: node, gasLimit: gasLimit},
		ks:           ks,
		account:      account,
		passphrase:   passphrase,
	}
}

func (p *KeystoreProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.unlocked == nil {
		acc, err := p.selectAccount()
		if err != nil {
			return nil, err
		}
		passphrase, err := p.passphrase()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
		if err := p.ks.Unlock(acc, passphrase); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
		p.unlocked = &acc
		log.Info().Str("account", acc.Address.Hex()).Msg("keystore account unlocked")
	}

	res := []common.Address{p.unlocked.Address}
	for _, acc := range p.ks.Accounts() {
		if acc.Address != p.unlocked.Address {
			res = append(res, acc.Address)
		}
	}
	return res, nil
}

func (p *KeystoreProvider) selectAccount() (accounts.Account, error) {
	all := p.ks.Accounts()
	if len(all) == 0 {
		return accounts.Account{}, fmt.Errorf("%w: keystore has no accounts", ErrAccessDenied)
	}
	if p.account == "" {
		return all[0], nil
	}
	if !common.IsHexAddress(p.account) {
		return accounts.Account{}, fmt.Errorf("%w: invalid account %q", ErrAccessDenied, p.account)
	}
	want := common.HexToAddress(p.account)
	for _, acc := range all {
		if acc.Address == want {
			return acc, nil
		}
	}
	return accounts.Account{}, fmt.Errorf("%w: account %s not found in keystore", ErrAccessDenied, want.Hex())
}

func (p *KeystoreProvider) Transactor(ctx context.Context, from common.Address) (*bind.TransactOpts, error) {
	p.mu.Lock()
	unlocked := p.unlocked
	p.mu.Unlock()
	if unlocked == nil {
		return nil, ErrNotConnected
	}
	if unlocked.Address != from {
		return nil, fmt.Errorf("account %s is not unlocked", from.Hex())
	}

	chainID, err := p.chainID(ctx)
	if err != nil {
		return nil, err
	}
	auth, err := bind.NewKeyStoreTransactorWithChainID(p.ks, *unlocked, chainID)
	if err != nil {
		return nil, err
	}
	return p.prepare(ctx, auth)
}
