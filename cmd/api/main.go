package main

import (
	"fmt"
	"os"

	"github.com/priyanshtech/TaskManager/internal/config"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	loadConfig := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	cmd := &cobra.Command{
		Use:           "taskmanager",
		Short:         "TaskManager - API задач с разделением по владельцам",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), loadConfig)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "путь к YAML-конфигу")

	cmd.AddCommand(serveCmd(loadConfig))
	cmd.AddCommand(migrateCmd(loadConfig))
	cmd.AddCommand(tokenCmd(loadConfig))
	return cmd
}
