package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/regnull/namereg/app"
	"github.com/regnull/namereg/bc"
	"github.com/regnull/namereg/util"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const passphraseEnvVar = "NAMEREG_PASSPHRASE"

func configFromFlags(cmd *cobra.Command) (app.Config, error) {
	var c app.Config
	var err error
	flags := cmd.Flags()
	strs := []struct {
		name string
		dst  *string
	}{
		{"node-url", &c.NodeURL},
		{"network", &c.Network},
		{"infura-project-id", &c.InfuraProjectID},
		{"keystore-dir", &c.KeystoreDir},
		{"account", &c.Account},
		{"key", &c.KeyFile},
		{"fee-unit", &c.FeeUnit},
		{"networks-file", &c.NetworksFile},
		{"history-dir", &c.HistoryDir},
		{"mysql-dsn", &c.MySQLDSN},
	}
	for _, s := range strs {
		if *s.dst, err = flags.GetString(s.name); err != nil {
			return c, fmt.Errorf("failed to get %s: %w", s.name, err)
		}
	}
	if c.GasLimit, err = flags.GetUint64("gas-limit"); err != nil {
		return c, err
	}
	if c.WaitTimeout, err = flags.GetDuration("wait-timeout"); err != nil {
		return c, err
	}
	if c.HistoryDir == "" && c.MySQLDSN == "" {
		c.HistoryDir, err = util.GetDefaultHistoryDir()
		if err != nil {
			return c, err
		}
	}

	yes, err := flags.GetBool("yes")
	if err != nil {
		return c, err
	}
	if !yes {
		c.Approver = bc.ApproverFunc(confirmTransaction)
	}
	c.Passphrase = readPassphrase
	return c, nil
}

// startApp creates the bridge and runs the startup sequence. It exits on
// failure.
func startApp(cmd *cobra.Command) *app.App {
	config, err := configFromFlags(cmd)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid flags")
	}
	a, err := app.New(config)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}
	if err := a.Bridge.Start(context.Background()); err != nil {
		a.Close()
		log.Fatal().Err(err).Msg("failed to connect")
	}
	return a
}

func readPassphrase() (string, error) {
	if p, ok := os.LookupEnv(passphraseEnvVar); ok {
		return p, nil
	}
	return util.ReadPassphrase("Wallet passphrase: ")
}

func confirmTransaction(ctx context.Context, req bc.TxRequest) (bool, error) {
	prompt := fmt.Sprintf("%s %q", req.Operation, req.Name)
	if req.Operation.UsesBlocks() {
		prompt += fmt.Sprintf(" for %d blocks", req.Blocks)
	}
	prompt += fmt.Sprintf(" from %s, paying %s ETH. Sign the transaction?", req.From.Hex(), util.FormatWei(req.Value))
	return util.Confirm(os.Stdin, os.Stderr, prompt)
}
