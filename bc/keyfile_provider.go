package bc

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/regnull/easyecc"
	"github.com/rs/zerolog/log"
)

// KeyFileProvider is a wallet backed by a single easyecc private key file.
type KeyFileProvider struct {
	nodeProvider
	keyFile    string
	passphrase PassphraseFunc

	mu  sync.Mutex
	key *easyecc.PrivateKey
}

func NewKeyFileProvider(node Node, keyFile string, passphrase PassphraseFunc, gasLimit uint64) *KeyFileProvider {
	if passphrase == nil {
		passphrase = StaticPassphrase("")
	}
	return &KeyFileProvider{
		nodeProvider: nodeProvider{node: node, gasLimit: gasLimit},
		keyFile:      keyFile,
		passphrase:   passphrase,
	}
}

// RequestAccounts loads the key on first use. Later calls return the same
// account without asking for the passphrase again.
func (p *KeyFileProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.key == nil {
		passphrase, err := p.passphrase()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
		key, err := easyecc.NewPrivateKeyFromFile(p.keyFile, passphrase)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load key: %v", ErrAccessDenied, err)
		}
		p.key = key
		log.Info().Str("location", p.keyFile).Msg("key loaded")
	}
	return []common.Address{common.HexToAddress(p.key.PublicKey().EthereumAddress())}, nil
}

func (p *KeyFileProvider) Transactor(ctx context.Context, from common.Address) (*bind.TransactOpts, error) {
	p.mu.Lock()
	key := p.key
	p.mu.Unlock()
	if key == nil {
		return nil, ErrNotConnected
	}

	chainID, err := p.chainID(ctx)
	if err != nil {
		return nil, err
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key.ToECDSA(), chainID)
	if err != nil {
		return nil, err
	}
	if auth.From != from {
		return nil, fmt.Errorf("account %s is not managed by this wallet", from.Hex())
	}
	return p.prepare(ctx, auth)
}
