package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/regnull/namereg/app"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	historyCmd.Flags().Int("limit", 20, "number of entries to show")

	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(historyCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show session",
	Long:  "Connect to the wallet and show the account, the network and the contract address",
	Run: func(cmd *cobra.Command, args []string) {
		a := startApp(cmd)
		defer a.Close()

		s := a.Bridge.Session()
		fmt.Printf("account: %s\n", s.Account)
		fmt.Printf("network: %s\n", s.NetworkID)
		fmt.Printf("contract: %s\n", s.ContractAddress)
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show history",
	Long:  "Show recent invocations",
	Run: func(cmd *cobra.Command, args []string) {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get limit")
		}
		config, err := configFromFlags(cmd)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid flags")
		}
		store, err := app.OpenHistory(config.MySQLDSN, config.HistoryDir)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open history")
		}
		defer store.Close()

		entries, err := store.List(limit)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to list history")
		}
		jsonBytes, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to marshal history")
		}
		fmt.Printf("%s\n", jsonBytes)
	},
}
