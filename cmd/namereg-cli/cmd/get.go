package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Get name data",
	Long:  "Get the owner and the expiration block of a name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := startApp(cmd)
		defer a.Close()

		rec, err := a.Bridge.GetData(context.Background(), args[0])
		if err != nil {
			a.Close()
			log.Fatal().Err(err).Str("name", args[0]).Msg("failed to get name data")
		}
		fmt.Printf("owner: %s\n", rec.Owner.Hex())
		fmt.Printf("expiration block: %s\n", rec.ExpirationBlock)
	},
}
