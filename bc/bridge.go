package bc

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/regnull/namereg/contract"
	"github.com/regnull/namereg/history"
	"github.com/regnull/namereg/metrics"
	"github.com/rs/zerolog/log"
)

const (
	msgNoProvider      = "No wallet provider detected. Configure a node and a keystore or key file."
	msgNotDeployed     = "The contract is not deployed to the detected network."
	msgNetworkFailed   = "Failed to read the network of the wallet provider."
	msgAccessDenied    = "Wallet access was denied."
	msgExecutionOK     = "Contract execution successful"
	msgExecutionFailed = "Contract execution failed or rejected"

	defaultWaitTimeout = time.Minute
)

// NameRegistry is the name registration contract bound to an address.
type NameRegistry interface {
	Address() common.Address
	GetReservationFee(opts *bind.CallOpts, numBlocks *big.Int) (*big.Int, error)
	GetData(opts *bind.CallOpts, name [32]byte) (contract.Record, error)
	Register(opts *bind.TransactOpts, name [32]byte, numBlocks *big.Int) (*types.Transaction, error)
	Renew(opts *bind.TransactOpts, name [32]byte, numBlocks *big.Int) (*types.Transaction, error)
	Cancel(opts *bind.TransactOpts, name [32]byte) (*types.Transaction, error)
}

// ContractFactory binds the contract interface to a deployed address.
type ContractFactory func(address common.Address, backend bind.ContractBackend) NameRegistry

// ArtifactContractFactory returns a factory that binds the artifact's ABI.
func ArtifactContractFactory(a *contract.Artifact) ContractFactory {
	return func(address common.Address, backend bind.ContractBackend) NameRegistry {
		return contract.NewNameReg(address, a.ABI, backend)
	}
}

// TxRequest describes a transaction about to be signed.
type TxRequest struct {
	Operation Operation
	Name      string
	Blocks    uint64
	Value     *big.Int
	From      common.Address
	Contract  common.Address
}

// Approver decides whether a transaction may be signed. Declining is a
// user rejection.
type Approver interface {
	Approve(ctx context.Context, req TxRequest) (bool, error)
}

type ApproverFunc func(ctx context.Context, req TxRequest) (bool, error)

func (f ApproverFunc) Approve(ctx context.Context, req TxRequest) (bool, error) {
	return f(ctx, req)
}

// Result is the outcome of an invocation.
type Result struct {
	Operation   Operation
	Name        string
	Blocks      uint64
	Fee         *big.Int
	TxHash      common.Hash
	BlockNumber uint64
	Err         error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Session is a snapshot of the bridge state.
type Session struct {
	Account          string
	NetworkID        string
	ContractAddress  string
	Loading          bool
	ConnectionFailed bool
	Alert            string
}

// Ready is true when contract calls can be made.
func (s Session) Ready() bool {
	return s.Account != "" && s.ContractAddress != ""
}

type Options struct {
	Registry    *contract.Registry
	NewContract ContractFactory
	Notifier    Notifier
	Approver    Approver
	History     history.Store
	Metrics     *metrics.Metrics
	FeeUnit     FeeUnit
	WaitTimeout time.Duration
}

// Bridge connects a wallet provider to the name registration contract.
// Invocations are serialized; the session is safe for concurrent reads.
type Bridge struct {
	provider    Provider
	registry    *contract.Registry
	newContract ContractFactory
	notifier    Notifier
	approver    Approver
	history     history.Store
	metrics     *metrics.Metrics
	feeUnit     FeeUnit
	waitTimeout time.Duration

	// invokeMu is held for the whole of Start and Invoke.
	invokeMu sync.Mutex

	mu               sync.Mutex
	account          common.Address
	hasAccount       bool
	networkID        *big.Int
	contract         NameRegistry
	loading          bool
	connectionFailed bool
	alert            string
}

// NewBridge creates a bridge. A nil provider means no wallet was detected.
func NewBridge(provider Provider, opts Options) *Bridge {
	b := &Bridge{
		provider:    provider,
		registry:    opts.Registry,
		newContract: opts.NewContract,
		notifier:    opts.Notifier,
		approver:    opts.Approver,
		history:     opts.History,
		metrics:     opts.Metrics,
		feeUnit:     opts.FeeUnit,
		waitTimeout: opts.WaitTimeout,
		loading:     true,
	}
	if b.notifier == nil {
		b.notifier = LogNotifier{}
	}
	if b.waitTimeout <= 0 {
		b.waitTimeout = defaultWaitTimeout
	}
	if b.registry == nil {
		b.registry, _ = contract.NewRegistry(nil)
	}
	if b.newContract == nil {
		if a, err := contract.DefaultArtifact(); err == nil {
			b.newContract = ArtifactContractFactory(a)
		}
	}
	return b
}

func (b *Bridge) Session() Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := Session{
		Loading:          b.loading,
		ConnectionFailed: b.connectionFailed,
		Alert:            b.alert,
	}
	if b.hasAccount {
		s.Account = b.account.Hex()
	}
	if b.networkID != nil {
		s.NetworkID = b.networkID.String()
	}
	if b.contract != nil {
		s.ContractAddress = b.contract.Address().Hex()
	}
	return s
}

// Start runs the startup sequence: provider detection, account access and
// contract resolution. Running it again re-resolves the same account and
// network.
func (b *Bridge) Start(ctx context.Context) error {
	b.invokeMu.Lock()
	defer b.invokeMu.Unlock()

	b.mu.Lock()
	b.loading = true
	b.alert = ""
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.loading = false
		b.mu.Unlock()
	}()

	if b.provider == nil {
		b.metrics.StartupFailure("no-provider")
		b.raiseAlert(msgNoProvider, ErrNoProvider)
		return ErrNoProvider
	}
	if err := b.connect(ctx); err != nil {
		return err
	}
	return b.resolveContract(ctx)
}

// Connect requests access to the wallet accounts. On success the first
// account becomes the active one.
func (b *Bridge) Connect(ctx context.Context) error {
	b.invokeMu.Lock()
	defer b.invokeMu.Unlock()
	if b.provider == nil {
		b.raiseAlert(msgNoProvider, ErrNoProvider)
		return ErrNoProvider
	}
	return b.connect(ctx)
}

// ResolveContract binds the contract deployed on the active network.
func (b *Bridge) ResolveContract(ctx context.Context) error {
	b.invokeMu.Lock()
	defer b.invokeMu.Unlock()
	if b.provider == nil {
		b.raiseAlert(msgNoProvider, ErrNoProvider)
		return ErrNoProvider
	}
	return b.resolveContract(ctx)
}

func (b *Bridge) connect(ctx context.Context) error {
	accounts, err := b.provider.RequestAccounts(ctx)
	if err == nil && len(accounts) == 0 {
		err = fmt.Errorf("%w: no accounts available", ErrAccessDenied)
	}
	if err != nil {
		b.mu.Lock()
		b.connectionFailed = true
		b.hasAccount = false
		b.contract = nil
		b.mu.Unlock()
		b.metrics.StartupFailure("access-denied")
		log.Warn().Err(err).Msg("failed to get wallet accounts")
		b.notifier.Notify(Notification{Kind: Failure, Message: msgAccessDenied, Err: err})
		if !errors.Is(err, ErrAccessDenied) {
			err = fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
		return err
	}

	b.mu.Lock()
	b.connectionFailed = false
	b.account = accounts[0]
	b.hasAccount = true
	b.mu.Unlock()
	log.Info().Str("account", accounts[0].Hex()).Msg("wallet connected")
	return nil
}

func (b *Bridge) resolveContract(ctx context.Context) error {
	networkID, err := b.provider.NetworkID(ctx)
	if err != nil {
		b.metrics.StartupFailure("network")
		b.raiseAlert(msgNetworkFailed, err)
		return fmt.Errorf("failed to get network id: %w", err)
	}
	log.Debug().Str("network-id", networkID.String()).Msg("got network ID")

	address, ok := b.registry.Lookup(networkID)
	b.mu.Lock()
	b.networkID = networkID
	b.contract = nil
	b.mu.Unlock()
	if !ok {
		b.metrics.StartupFailure("network-not-supported")
		b.raiseAlert(msgNotDeployed, ErrNetworkNotSupported)
		return fmt.Errorf("%w: network %s", ErrNetworkNotSupported, networkID)
	}

	instance := b.newContract(address, b.provider.Backend())
	b.mu.Lock()
	b.contract = instance
	b.mu.Unlock()
	log.Info().Str("network-id", networkID.String()).Str("contract", address.Hex()).Msg("contract resolved")
	return nil
}

func (b *Bridge) raiseAlert(msg string, err error) {
	b.mu.Lock()
	b.alert = msg
	b.mu.Unlock()
	b.notifier.Notify(Notification{Kind: Alert, Message: msg, Err: err})
}

func (b *Bridge) handle() (NameRegistry, common.Address, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasAccount {
		return nil, common.Address{}, ErrNotConnected
	}
	if b.contract == nil {
		return nil, common.Address{}, ErrNetworkNotSupported
	}
	return b.contract, b.account, nil
}

// Invoke submits the operation for the name. Paid operations first query the
// reservation fee for the number of blocks and pay it as the transaction value.
// The returned result carries the error, if any; exactly one notification is
// emitted either way.
func (b *Bridge) Invoke(ctx context.Context, op Operation, name string, blocks uint64) Result {
	b.invokeMu.Lock()
	defer b.invokeMu.Unlock()

	res := Result{Operation: op, Name: name, Blocks: blocks, Fee: big.NewInt(0)}
	res.Err = b.invoke(ctx, &res)
	b.record(res)
	b.metrics.Invocation(op.String(), res.OK())

	if res.Err != nil {
		log.Warn().Err(res.Err).Str("operation", op.String()).Str("name", name).Msg("contract execution failed")
		b.notifier.Notify(Notification{Kind: Failure, Message: msgExecutionFailed, Err: res.Err})
		return res
	}
	gwei, _ := new(big.Float).Quo(new(big.Float).SetInt(res.Fee), big.NewFloat(params.GWei)).Float64()
	b.metrics.FeePaid(op.String(), gwei)
	log.Info().Str("operation", op.String()).Str("name", name).Str("tx", res.TxHash.Hex()).
		Uint64("block", res.BlockNumber).Msg("contract execution successful")
	b.notifier.Notify(Notification{Kind: Success, Message: msgExecutionOK})
	return res
}

func (b *Bridge) invoke(ctx context.Context, res *Result) error {
	op := res.Operation
	if !op.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOperation, op)
	}
	nameBytes, err := EncodeName(res.Name)
	if err != nil {
		return err
	}
	instance, account, err := b.handle()
	if err != nil {
		return err
	}

	numBlocks := new(big.Int).SetUint64(res.Blocks)
	value := big.NewInt(0)
	if op.Paid() {
		fee, err := instance.GetReservationFee(&bind.CallOpts{Context: ctx, From: account}, numBlocks)
		if err != nil {
			return fmt.Errorf("failed to get reservation fee: %w", err)
		}
		value = b.feeUnit.ToWei(fee)
		log.Debug().Str("fee", fee.String()).Str("unit", b.feeUnit.String()).Str("value", value.String()).Msg("got reservation fee")
	}
	res.Fee = value

	if b.approver != nil {
		ok, err := b.approver.Approve(ctx, TxRequest{
			Operation: op,
			Name:      res.Name,
			Blocks:    res.Blocks,
			Value:     new(big.Int).Set(value),
			From:      account,
			Contract:  instance.Address(),
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRejected, err)
		}
		if !ok {
			return ErrRejected
		}
	}

	opts, err := b.provider.Transactor(ctx, account)
	if err != nil {
		return fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Value = value

	var tx *types.Transaction
	switch op {
	case OpRegister:
		tx, err = instance.Register(opts, nameBytes, numBlocks)
	case OpRenew:
		tx, err = instance.Renew(opts, nameBytes, numBlocks)
	case OpCancel:
		tx, err = instance.Cancel(opts, nameBytes)
	}
	if err != nil {
		return fmt.Errorf("failed to send %s transaction: %w", op, err)
	}
	res.TxHash = tx.Hash()
	log.Info().Str("tx", tx.Hash().Hex()).Msg("tx sent")

	waitCtx, cancel := context.WithTimeout(ctx, b.waitTimeout)
	defer cancel()
	receipt, err := b.provider.WaitMined(waitCtx, tx)
	if err != nil {
		return fmt.Errorf("failed to get transaction receipt: %w", err)
	}
	if receipt.BlockNumber != nil {
		res.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return ErrReverted
	}
	return nil
}

func (b *Bridge) record(res Result) {
	if b.history == nil {
		return
	}
	s := b.Session()
	e := history.NewEntry()
	e.Account = s.Account
	e.NetworkID = s.NetworkID
	e.Operation = res.Operation.String()
	e.Name = res.Name
	e.Blocks = res.Blocks
	e.Fee = res.Fee.String()
	if res.TxHash != (common.Hash{}) {
		e.TxHash = res.TxHash.Hex()
	}
	e.Outcome = history.OutcomeSuccess
	if res.Err != nil {
		e.Outcome = history.OutcomeFailure
		e.Error = res.Err.Error()
	}
	if err := b.history.Add(e); err != nil {
		log.Error().Err(err).Msg("failed to record history entry")
	}
}

// History returns up to limit recent invocations, newest first.
func (b *Bridge) History(limit int) ([]*history.Entry, error) {
	if b.history == nil {
		return nil, nil
	}
	return b.history.List(limit)
}

// GetData returns the record stored for the name.
func (b *Bridge) GetData(ctx context.Context, name string) (contract.Record, error) {
	nameBytes, err := EncodeName(name)
	if err != nil {
		return contract.Record{}, err
	}
	instance, account, err := b.handle()
	if err != nil {
		return contract.Record{}, err
	}
	rec, err := instance.GetData(&bind.CallOpts{Context: ctx, From: account}, nameBytes)
	if err != nil {
		return contract.Record{}, fmt.Errorf("failed to get name data: %w", err)
	}
	return rec, nil
}

// Quote returns the reservation fee for the number of blocks, converted to wei.
func (b *Bridge) Quote(ctx context.Context, blocks uint64) (*big.Int, error) {
	instance, account, err := b.handle()
	if err != nil {
		return nil, err
	}
	fee, err := instance.GetReservationFee(&bind.CallOpts{Context: ctx, From: account}, new(big.Int).SetUint64(blocks))
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation fee: %w", err)
	}
	return b.feeUnit.ToWei(fee), nil
}
