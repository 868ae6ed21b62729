package main

import (
	"fmt"

	"dlsort/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(opts))
	cmd.AddCommand(newConfigShowCmd(opts))
	return cmd
}

func newConfigInitCmd(opts *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		// the file may not exist yet, so skip loading it
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.cfgFile
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}

			pr := newPrinter(cmd.OutOrStdout())
			if fileExists(path) && !force {
				pr.Warning(fmt.Sprintf("%s already exists (use --force to overwrite)", path))
				return fmt.Errorf("config file exists: %s", path)
			}
			if err := config.SaveConfig(config.New(), path); err != nil {
				return err
			}
			pr.Success("Wrote " + path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.watchConfig(); err != nil {
				return err
			}
			data, err := yaml.Marshal(opts.file)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			pr := newPrinter(cmd.OutOrStdout())
			pr.Info("# " + opts.path)
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
