package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meverselabs/kekfork/common/rlog"
)

func main() {
	env := &environment{}
	var logLevel string
	var rootCmd = &cobra.Command{
		Use:           "kekfork",
		Short:         "deploys KekToken next to Aave on a forked mainnet and checks its Uniswap pair",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := rlog.SetLevel(logLevel); err != nil {
				return err
			}
			return env.load()
		},
	}
	rootCmd.PersistentFlags().StringVar(&env.configPath, "config", "", "path of the toml config file")
	rootCmd.PersistentFlags().StringVar(&env.rpcURL, "rpc", "", "url of the forking node (overrides the config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	rootCmd.AddCommand(nodeCommand(env))
	rootCmd.AddCommand(runCommand(env))
	rootCmd.AddCommand(serveCommand(env))

	err := rootCmd.Execute()
	rlog.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error :", err)
		os.Exit(1)
	}
}
