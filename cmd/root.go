package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "plantbuddy",
		Short:        "Plant care API with reminder and weather-risk scheduling",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (default: configs/config.yml when present)")

	root.AddCommand(
		newServeCmd(&configPath),
		newRemindCmd(&configPath),
		newCheckWeatherCmd(&configPath),
	)
	return root
}
