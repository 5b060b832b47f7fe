package cmd

import (
	"context"
	"fmt"

	"github.com/regnull/namereg/util"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	feeCmd.Flags().Uint64("blocks", 1, "number of blocks")
	rootCmd.AddCommand(feeCmd)
}

var feeCmd = &cobra.Command{
	Use:   "fee",
	Short: "Get reservation fee",
	Long:  "Get the reservation fee for the given number of blocks",
	Run: func(cmd *cobra.Command, args []string) {
		blocks, err := cmd.Flags().GetUint64("blocks")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get number of blocks")
		}

		a := startApp(cmd)
		defer a.Close()

		fee, err := a.Bridge.Quote(context.Background(), blocks)
		if err != nil {
			a.Close()
			log.Fatal().Err(err).Msg("failed to get reservation fee")
		}
		fmt.Printf("fee: %s wei (%s ETH)\n", fee, util.FormatWei(fee))
	},
}
