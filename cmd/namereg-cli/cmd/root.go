package cmd

import (
	"os"
	"time"

	"github.com/regnull/namereg/globals"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	defaultWaitTimeout, _ := time.ParseDuration(globals.DefaultWaitTimeout)

	rootCmd.PersistentFlags().String("node-url", "", "blockchain node URL, overrides --network")
	rootCmd.PersistentFlags().String("network", "local", "network: local, main or sepolia")
	rootCmd.PersistentFlags().String("infura-project-id", "", "Infura project id")
	rootCmd.PersistentFlags().String("keystore-dir", "", "keystore directory")
	rootCmd.PersistentFlags().String("account", "", "keystore account to use, the first one if empty")
	rootCmd.PersistentFlags().String("key", "", "private key file, used instead of the keystore")
	rootCmd.PersistentFlags().Uint64("gas-limit", globals.DefaultGasLimit, "gas limit")
	rootCmd.PersistentFlags().String("fee-unit", globals.DefaultFeeUnit, "unit of the quoted reservation fee: wei, gwei, microether or ether")
	rootCmd.PersistentFlags().Duration("wait-timeout", defaultWaitTimeout, "how long to wait for a transaction to be mined")
	rootCmd.PersistentFlags().String("networks-file", "", "YAML file with extra contract deployments")
	rootCmd.PersistentFlags().String("history-dir", "", "history database directory, defaults to ~/.namereg/history")
	rootCmd.PersistentFlags().String("mysql-dsn", "", "MySQL DSN for the history, overrides --history-dir")
	rootCmd.PersistentFlags().Bool("yes", false, "sign transactions without asking")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
}

var rootCmd = &cobra.Command{
	Use:   "namereg-cli",
	Short: "namereg-cli is a command line client for the name registration contract",
	Long:  `namereg-cli registers, renews and cancels names on the name registration contract`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := cmd.Flags().GetString("log-level")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get log level")
		}
		l, err := zerolog.ParseLevel(level)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid log level")
		}
		zerolog.SetGlobalLevel(l)
	},
}

func Execute() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("error executing command")
		os.Exit(1)
	}
}
