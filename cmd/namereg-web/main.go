package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/regnull/namereg/app"
	"github.com/regnull/namereg/cfg"
	"github.com/regnull/namereg/globals"
	"github.com/regnull/namereg/util"
	"github.com/regnull/namereg/web"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	cfgNodeURL         = "node-url"
	cfgNetwork         = "network"
	cfgInfuraProjectID = "infura-project-id"
	cfgKeystoreDir     = "keystore-dir"
	cfgAccount         = "account"
	cfgKeyFile         = "key-file"
	cfgGasLimit        = "gas-limit"
	cfgFeeUnit         = "fee-unit"
	cfgWaitTimeout     = "wait-timeout"
	cfgNetworksFile    = "networks-file"
	cfgHistoryDir      = "history-dir"
	cfgMySQLDSN        = "mysql-dsn"
	cfgPort            = "port"
	cfgRateLimit       = "rate-limit-per-minute"
	cfgHistoryLimit    = "history-limit"
	cfgAllowedOrigins  = "allowed-origins"
	cfgCertFile        = "cert-file"
	cfgTLSKeyFile      = "tls-key-file"

	passphraseEnvVar = "NAMEREG_PASSPHRASE"
)

func main() {
	defaultWaitTimeout, _ := time.ParseDuration(globals.DefaultWaitTimeout)
	entries := []cfg.ConfigEntry{
		cfg.NewStringConfig(cfgNodeURL, "", "blockchain node URL, overrides --network", "NAMEREG_NODE_URL"),
		cfg.NewStringConfig(cfgNetwork, "local", "network: local, main or sepolia", "NAMEREG_NETWORK"),
		cfg.NewStringConfig(cfgInfuraProjectID, "", "Infura project id", "INFURA_PROJECT_ID"),
		cfg.NewStringConfig(cfgKeystoreDir, "", "keystore directory", "NAMEREG_KEYSTORE_DIR"),
		cfg.NewStringConfig(cfgAccount, "", "keystore account to use, the first one if empty", "NAMEREG_ACCOUNT"),
		cfg.NewStringConfig(cfgKeyFile, "", "private key file, used instead of the keystore", "NAMEREG_KEY_FILE"),
		cfg.NewUint64Config(cfgGasLimit, globals.DefaultGasLimit, "gas limit", "NAMEREG_GAS_LIMIT"),
		cfg.NewStringConfig(cfgFeeUnit, globals.DefaultFeeUnit, "unit of the quoted reservation fee: wei, gwei, microether or ether", "NAMEREG_FEE_UNIT"),
		cfg.NewDurationConfig(cfgWaitTimeout, defaultWaitTimeout, "how long to wait for a transaction to be mined", "NAMEREG_WAIT_TIMEOUT"),
		cfg.NewStringConfig(cfgNetworksFile, "", "YAML file with extra contract deployments", "NAMEREG_NETWORKS_FILE"),
		cfg.NewStringConfig(cfgHistoryDir, "", "history database directory, history is kept in memory if empty", "NAMEREG_HISTORY_DIR"),
		cfg.NewStringConfig(cfgMySQLDSN, "", "MySQL DSN for the history, overrides --history-dir", "NAMEREG_MYSQL_DSN"),
		cfg.NewIntConfig(cfgPort, globals.DefaultWebPort, "HTTP port", "NAMEREG_PORT"),
		cfg.NewIntConfig(cfgRateLimit, globals.DefaultRateLimit, "submissions allowed per minute", "NAMEREG_RATE_LIMIT"),
		cfg.NewIntConfig(cfgHistoryLimit, globals.DefaultHistoryLimit, "default number of history entries returned", ""),
		cfg.NewStringConfig(cfgAllowedOrigins, "*", "comma-separated CORS origins", "NAMEREG_ALLOWED_ORIGINS"),
		cfg.NewStringConfig(cfgCertFile, "", "certificate file", ""),
		cfg.NewStringConfig(cfgTLSKeyFile, "", "TLS key file", ""),
	}
	if err := cfg.InitConfig(flag.CommandLine, os.Args[1:], entries); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize config")
	}

	flash := web.NewFlash()
	a, err := app.New(app.Config{
		NodeURL:         viper.GetString(cfgNodeURL),
		Network:         viper.GetString(cfgNetwork),
		InfuraProjectID: viper.GetString(cfgInfuraProjectID),
		KeyFile:         viper.GetString(cfgKeyFile),
		KeystoreDir:     viper.GetString(cfgKeystoreDir),
		Account:         viper.GetString(cfgAccount),
		Passphrase:      passphrase,
		GasLimit:        viper.GetUint64(cfgGasLimit),
		FeeUnit:         viper.GetString(cfgFeeUnit),
		WaitTimeout:     viper.GetDuration(cfgWaitTimeout),
		NetworksFile:    viper.GetString(cfgNetworksFile),
		MySQLDSN:        viper.GetString(cfgMySQLDSN),
		HistoryDir:      viper.GetString(cfgHistoryDir),
		Registerer:      prometheus.DefaultRegisterer,
		Notifier:        flash,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}
	defer a.Close()

	server, err := web.NewServer(a.Bridge, flash, web.Options{
		RateLimit:      viper.GetInt(cfgRateLimit),
		HistoryLimit:   viper.GetInt(cfgHistoryLimit),
		AllowedOrigins: strings.Split(viper.GetString(cfgAllowedOrigins), ","),
		Gatherer:       prometheus.DefaultGatherer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := a.Bridge.Start(ctx); err != nil {
			log.Warn().Err(err).Msg("startup did not complete")
		}
	}()

	if err := server.ListenAndServe(ctx, viper.GetInt(cfgPort), viper.GetString(cfgCertFile), viper.GetString(cfgTLSKeyFile)); err != nil {
		log.Error().Err(err).Msg("server failed")
	}
}

// passphrase reads the wallet passphrase from the environment, or from the
// terminal if it is not set.
func passphrase() (string, error) {
	if p, ok := os.LookupEnv(passphraseEnvVar); ok {
		return p, nil
	}
	return util.ReadPassphrase("Wallet passphrase: ")
}
