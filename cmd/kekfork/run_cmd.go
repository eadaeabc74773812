package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/meverselabs/kekfork/cmd/closer"
	"github.com/meverselabs/kekfork/fixture"
	"github.com/meverselabs/kekfork/verify"
)

// ErrChecksFailed is returned when a check of the report failed
var ErrChecksFailed = errors.New("checks failed")

func runCommand(env *environment) *cobra.Command {
	var launch bool
	var verbose bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "deploys the fixture, runs every check and prints the report",
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
			fx, err := fixture.NewLoader(c).Load(ctx, "deployTokenFixture", fn)
			if err != nil {
				return err
			}
			if verbose {
				spew.Fdump(os.Stderr, fx.Summary())
			}

			report := verify.Run(ctx, c, fx)
			if verbose && report.Swap != nil {
				spew.Fdump(os.Stderr, report.Swap)
			}
			bs, err := json.MarshalIndent(report, "", "\t")
			if err != nil {
				return errors.WithStack(err)
			}
			fmt.Println(string(bs))
			if !report.Passed() {
				return errors.WithStack(ErrChecksFailed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&launch, "launch", false, "launch the forking node before running")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "dump the fixture and the swap to stderr")
	return cmd
}
