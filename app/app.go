// Package app wires the node, the wallet, the history store and the metrics
// into a bridge. It is shared by the command line client and the web server.
package app

import (
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/regnull/namereg/bc"
	"github.com/regnull/namereg/contract"
	"github.com/regnull/namereg/globals"
	"github.com/regnull/namereg/history"
	"github.com/regnull/namereg/metrics"
	"github.com/regnull/namereg/util"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// NodeURL takes precedence over Network.
	NodeURL         string
	Network         string
	InfuraProjectID string

	// KeyFile selects an easyecc key. Otherwise the keystore is used if it
	// has accounts, then the default key location.
	KeyFile     string
	KeystoreDir string
	Account     string
	Passphrase  bc.PassphraseFunc

	GasLimit     uint64
	FeeUnit      string
	WaitTimeout  time.Duration
	NetworksFile string

	// MySQLDSN takes precedence over HistoryDir. With neither, history is
	// kept in memory.
	MySQLDSN   string
	HistoryDir string

	Registerer prometheus.Registerer
	Notifier   bc.Notifier
	Approver   bc.Approver
}

type App struct {
	Bridge   *bc.Bridge
	History  history.Store
	Metrics  *metrics.Metrics
	Registry *contract.Registry

	client *ethclient.Client
}

func New(config Config) (*App, error) {
	feeUnit, err := bc.ParseFeeUnit(config.FeeUnit)
	if err != nil {
		return nil, err
	}
	if config.GasLimit == 0 {
		config.GasLimit = globals.DefaultGasLimit
	}

	artifact, err := contract.DefaultArtifact()
	if err != nil {
		return nil, err
	}
	registry, err := LoadRegistry(artifact, config.NetworksFile)
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if config.Registerer != nil {
		m, err = metrics.New(config.Registerer)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	store, err := OpenHistory(config.MySQLDSN, config.HistoryDir)
	if err != nil {
		return nil, err
	}

	a := &App{History: store, Metrics: m, Registry: registry}
	provider := a.provider(config)

	a.Bridge = bc.NewBridge(provider, bc.Options{
		Registry:    registry,
		NewContract: bc.ArtifactContractFactory(artifact),
		Notifier:    config.Notifier,
		Approver:    config.Approver,
		History:     store,
		Metrics:     m,
		FeeUnit:     feeUnit,
		WaitTimeout: config.WaitTimeout,
	})
	return a, nil
}

func (a *App) Close() {
	if a.History != nil {
		if err := a.History.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close history")
		}
	}
	if a.client != nil {
		a.client.Close()
	}
}

// provider returns nil if no node or no wallet is available.
func (a *App) provider(config Config) bc.Provider {
	nodeURL := config.NodeURL
	if nodeURL == "" {
		var err error
		nodeURL, err = bc.GetNodeURL(config.Network, config.InfuraProjectID)
		if err != nil {
			log.Error().Err(err).Str("network", config.Network).Msg("cannot resolve node URL")
			return nil
		}
	}

	log.Info().Str("url", nodeURL).Msg("connecting to blockchain node")
	client, err := ethclient.Dial(nodeURL)
	if err != nil {
		log.Error().Err(err).Msg("cannot connect to blockchain")
		return nil
	}
	a.client = client

	if config.KeyFile != "" {
		log.Debug().Str("location", config.KeyFile).Msg("using key file")
		return bc.NewKeyFileProvider(client, config.KeyFile, config.Passphrase, config.GasLimit)
	}

	ksDir := config.KeystoreDir
	if ksDir == "" {
		ksDir, _ = util.GetDefaultKeystoreDir()
	}
	if ksDir != "" {
		if info, err := os.Stat(ksDir); err == nil && info.IsDir() {
			ks := keystore.NewKeyStore(ksDir, keystore.StandardScryptN, keystore.StandardScryptP)
			if len(ks.Accounts()) > 0 {
				log.Debug().Str("location", ksDir).Msg("using keystore")
				return bc.NewKeystoreProvider(client, ks, config.Account, config.Passphrase, config.GasLimit)
			}
		}
	}

	keyFile, err := util.GetDefaultKeyLocation()
	if err == nil && util.FileExists(keyFile) {
		log.Debug().Str("location", keyFile).Msg("using default key file")
		return bc.NewKeyFileProvider(client, keyFile, config.Passphrase, config.GasLimit)
	}

	log.Warn().Msg("no keystore or key file found")
	client.Close()
	a.client = nil
	return nil
}

// LoadRegistry builds the network registry from the artifact, extended by
// the overrides file if given.
func LoadRegistry(artifact *contract.Artifact, networksFile string) (*contract.Registry, error) {
	registry, err := artifact.Registry()
	if err != nil {
		return nil, err
	}
	if networksFile == "" {
		return registry, nil
	}
	overrides, err := contract.LoadOverrides(networksFile)
	if err != nil {
		return nil, err
	}
	if err := registry.Merge(overrides); err != nil {
		return nil, err
	}
	log.Info().Str("file", networksFile).Int("networks", len(overrides)).Msg("loaded network overrides")
	return registry, nil
}

func OpenHistory(mysqlDSN string, dir string) (history.Store, error) {
	switch {
	case mysqlDSN != "":
		return history.OpenMySQL(mysqlDSN)
	case dir != "":
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		return history.NewBadger(dir)
	}
	return history.NewMemory(), nil
}
