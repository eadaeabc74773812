package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/meverselabs/kekfork/cmd/closer"
	"github.com/meverselabs/kekfork/common/rlog"
)

func nodeCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "node",
		Short: "launches the forking node and keeps it running until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			cm := closer.NewManager()
			cm.CloseOnSignal()
			defer cm.CloseAll()

			n, err := env.launch(ctx, cm)
			if err != nil {
				return err
			}
			rlog.Infow("forking node ready", "url", n.URL, "fork", env.cfg.ForkURL())

			stopped := make(chan struct{})
			go func() {
				cm.Wait()
				close(stopped)
			}()
			select {
			case err := <-n.Done():
				return err
			case <-stopped:
				return nil
			}
		},
	}
}
