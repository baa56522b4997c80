package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hotelier/cmd/client"
	"hotelier/cmd/serve"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "hotelier",
		Short: "hotel review service",
		Long: fmt.Sprintf(`hotelier (v%s)

A hotel review service: clients register, authenticate, browse hotels by
city, submit reviews and follow per-city ranking changes pushed over TCP
and UDP multicast.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of hotelier",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hotelier v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(client.ClientCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
