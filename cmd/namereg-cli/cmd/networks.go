package cmd

import (
	"fmt"
	"math/big"

	"github.com/regnull/namereg/app"
	"github.com/regnull/namereg/contract"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(networksCmd)
}

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List contract deployments",
	Long:  "List the networks the contract is deployed to",
	Run: func(cmd *cobra.Command, args []string) {
		networksFile, err := cmd.Flags().GetString("networks-file")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get networks file")
		}
		artifact, err := contract.DefaultArtifact()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load contract artifact")
		}
		registry, err := app.LoadRegistry(artifact, networksFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load networks")
		}
		for _, id := range registry.Networks() {
			n, _ := new(big.Int).SetString(id, 10)
			addr, _ := registry.Lookup(n)
			fmt.Printf("%s\t%s\n", id, addr.Hex())
		}
	},
}
