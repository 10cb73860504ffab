package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sheetsync/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Long: "Writes the default configuration to --config (or " + config.DefaultConfigPath + "). " +
			"An existing file is kept unless --force is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := globalConfig
			if path == "" {
				path = config.DefaultConfigPath
			}

			if err := initConfig(path, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func initConfig(path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}

	if err := config.Default().SaveConfig(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
