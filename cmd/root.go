package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the booking assistant
var rootCmd = &cobra.Command{
	Use:   "booking_assistant",
	Short: "Conversational assistant that books meetings on Google Calendar",
	Long: `booking_assistant answers chat messages about meetings: it books events,
reports open slots and keeps the multi-turn booking state per session.

It can run as:
  - An HTTP API (serve, default)
  - An interactive terminal chat (chat)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "booking_assistant version %s\n" .Version}}`)

	// If no subcommand is provided, run the HTTP server by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
