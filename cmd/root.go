// Package cmd wires the smartdesk CLI.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is stamped by the release build; "dev" otherwise.
var Version = "dev"

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "smartdesk",
		Short: "SmartDesk Mirror PC agent",
		Long: "SmartDesk Mirror PC agent: lets a mobile device discover this\n" +
			"machine on the local network, pair with a short-lived code, and\n" +
			"mirror/control the desktop after operator approval.",
	}

	root.AddCommand(serveCmd())
	root.AddCommand(discoverCmd())
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("smartdesk %s (%s/%s, %s)\n", Version, runtime.GOOS, runtime.GOARCH, runtime.Version())
		},
	}
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
