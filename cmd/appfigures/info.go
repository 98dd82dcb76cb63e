package main

import (
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the client configuration",
	Long:  "Print the base URL and default headers the client would use. Credentials are not printed.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := appConfig.NewClient()
		if err != nil {
			return err
		}
		return writeIndented(cmd.OutOrStdout(), c.Info())
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
