package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bctnry/arbor/pkg/arbor"
	"github.com/bctnry/arbor/pkg/server"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newInitConfigCmd())
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser over http",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil { return err }
			// the config's log settings win over the cli defaults.
			err = server.InitLogging(cfg)
			if err != nil { return err }
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, cfg)
		},
	}
}

func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config <path>",
		Short: "Write a config file with the defaults",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := arbor.CreateConfigFile(args[0])
			if err != nil { return err }
			cmd.Printf("Config written to %s\n", args[0])
			return nil
		},
	}
}
