package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	clientcmd "github.com/trbck/tagged-logger/internal/cmd/client"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taglog",
		Short: "Tagged event-log store CLI",
		Long:  "taglog writes, queries, tails, and expires tagged event-log records in a local store.",
	}
	rootCmd.PersistentFlags().String("config", os.Getenv("TAGLOG_CONFIG"), "Path to JSON config file")
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (default: OS-specific application data directory)")
	rootCmd.PersistentFlags().String("prefix", "", "Key prefix namespacing this instance")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error")

	rootCmd.AddCommand(
		clientcmd.NewLogCommand(),
		clientcmd.NewGetCommand(),
		clientcmd.NewLatestCommand(),
		clientcmd.NewListenCommand(),
		clientcmd.NewExpireCommand(),
		clientcmd.NewCleanupCommand(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
