package main

import (
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config/prefork.yaml"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "prefork",
		Short: "Lifecycle-aware HTTP dispatcher",
		Long: `prefork serves an application through a master, manager and worker
topology with a static file gate and a response cache in front of it.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("config", "c", defaultConfigPath, "Path to the YAML config file")

	root.AddCommand(newStartCmd(), newStatusCmd())
	return root
}
