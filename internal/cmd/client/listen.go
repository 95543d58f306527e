package client

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/trbck/tagged-logger/internal/taglog"
)

// NewListenCommand constructs the `listen` command: tail new records until
// interrupted.
func NewListenCommand() *cobra.Command {
	listenCmd := &cobra.Command{
		Use:   "listen",
		Short: "Print new records as they are written",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, _ := cmd.Flags().GetString("filter")

			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			tail, err := e.eng.Subscribe(cmd.Context(), taglog.SubscribeOptions{Filter: filter})
			if err != nil {
				return err
			}
			defer tail.Unsubscribe()

			enc := json.NewEncoder(cmd.OutOrStdout())
			for {
				rec, err := tail.Next(cmd.Context())
				if errors.Is(err, context.Canceled) || errors.Is(err, taglog.ErrClosed) {
					return nil
				}
				if err != nil {
					return err
				}
				if err := enc.Encode(toPrinted(rec)); err != nil {
					return err
				}
			}
		},
	}
	listenCmd.Flags().String("filter", "", "CEL filter expression")
	return listenCmd
}
