package cmd

import (
	"context"
	"fmt"

	"github.com/regnull/namereg/bc"
	"github.com/regnull/namereg/util"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	registerCmd.Flags().Uint64("blocks", 0, "number of blocks to register the name for")
	renewCmd.Flags().Uint64("blocks", 0, "number of blocks to extend the registration by")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(renewCmd)
	rootCmd.AddCommand(cancelCmd)
}

var registerCmd = &cobra.Command{
	Use:   "register NAME",
	Short: "Register a name",
	Long:  "Register a name for the given number of blocks, paying the reservation fee",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		invoke(cmd, bc.OpRegister, args[0])
	},
}

var renewCmd = &cobra.Command{
	Use:   "renew NAME",
	Short: "Renew a name",
	Long:  "Extend the registration of a name by the given number of blocks, paying the reservation fee",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		invoke(cmd, bc.OpRenew, args[0])
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel NAME",
	Short: "Cancel a name",
	Long:  "Cancel the registration of a name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		invoke(cmd, bc.OpCancel, args[0])
	},
}

func invoke(cmd *cobra.Command, op bc.Operation, name string) {
	var blocks uint64
	if op.UsesBlocks() {
		var err error
		blocks, err = cmd.Flags().GetUint64("blocks")
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get number of blocks")
		}
		if blocks == 0 {
			log.Fatal().Msg("--blocks is required")
		}
	}

	a := startApp(cmd)
	defer a.Close()

	res := a.Bridge.Invoke(context.Background(), op, name, blocks)
	if !res.OK() {
		a.Close()
		log.Fatal().Err(res.Err).Str("name", name).Msgf("%s failed", op)
	}
	fmt.Printf("tx: %s\n", res.TxHash.Hex())
	fmt.Printf("block: %d\n", res.BlockNumber)
	fmt.Printf("paid: %s ETH\n", util.FormatWei(res.Fee))
}
