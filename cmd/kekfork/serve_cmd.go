package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/meverselabs/kekfork/cmd/closer"
	"github.com/meverselabs/kekfork/common/rlog"
	"github.com/meverselabs/kekfork/fixture"
	"github.com/meverselabs/kekfork/service/reportserver"
)

func serveCommand(env *environment) *cobra.Command {
	var addr string
	var launch bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "deploys the fixture and serves its report over http",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			cm := closer.NewManager()
			cm.CloseOnSignal()
			defer cm.CloseAll()

			if launch {
				if _, err := env.launch(ctx, cm); err != nil {
					return err
				}
			}
			c, err := env.dial(ctx, cm)
			if err != nil {
				return err
			}
			fn, err := env.deployFunc(c)
			if err != nil {
				return err
			}
			src := reportserver.NewFixtureSource(c, fixture.NewLoader(c), fn)
			// deploy up front so the first request does not pay for it
			if _, err := src.Fixture(ctx); err != nil {
				return err
			}

			s := reportserver.NewReportServer(src)
			cm.Add("reportserver", closer.Func(func() {
				sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer scancel()
				if err := s.Shutdown(sctx); err != nil {
					rlog.Errorw("report server shutdown", "err", err)
				}
			}))
			return s.Run(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "bind address of the report server")
	cmd.Flags().BoolVar(&launch, "launch", false, "launch the forking node before serving")
	return cmd
}
