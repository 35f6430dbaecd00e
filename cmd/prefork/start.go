package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/prefork"
)

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the server and block until interrupted",
		Example: `  prefork start
  prefork start --config /etc/prefork.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := prefork.LoadConfig(path)
			if err != nil {
				return err
			}

			srv, err := prefork.New(cfg, bootstrapDemo, prefork.WithTaskHandlers(visitLogger))
			if err != nil {
				return err
			}
			if srv.IsRunning() {
				newUI(cmd.ErrOrStderr()).Warning("pid file " + srv.Marker().Path() + " is not empty; a previous run may not have shut down cleanly")
			}
			return srv.Run(cmd.Context())
		},
	}
}
