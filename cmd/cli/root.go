package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "slotctl",
		Short:         "Slot reservation and payment reconciliation engine",
		Version:       Version + " (" + CommitSHA + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newReapCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd())

	return root
}

func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
