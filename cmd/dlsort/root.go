package main

import (
	"fmt"
	"io"

	"dlsort/internal/config"
	"dlsort/internal/errors"
	"dlsort/internal/log"

	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	cfgFile  string
	debug    bool
	jsonLogs bool

	// set by PersistentPreRunE
	file *config.File
	path string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "dlsort",
		Short: "Keep your downloads folder sorted",
		Long: `dlsort watches a downloads directory and moves finished files into
category folders (images, documents, audio, video, archives, misc) under a
destination root, prefixing each name with the time it was sorted.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.config/dlsort/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonLogs, "json-logs", false, "write logs as JSON")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newOnceCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newHistoryCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))

	return rootCmd
}

// load reads the configuration and sets up logging. An explicit --config
// path must exist; the default location falls back to built-in defaults.
func (o *globalOptions) load(logOut io.Writer) error {
	path := o.cfgFile
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("cannot locate config: %w", err)
		}
		path = p
	} else if !fileExists(path) {
		return errors.NewConfigError("config file not found", path, errors.ConfigNotFound, nil)
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		if errors.IsInvalidCategory(err) {
			return errors.Wrap(err, "check the categories in "+path)
		}
		return err
	}
	o.file = file
	o.path = path

	o.configureLogging(logOut)
	return nil
}

func (o *globalOptions) configureLogging(out io.Writer) {
	logOpts := []log.Option{log.WithOutput(out), log.WithLevel(o.file.Log.Level)}
	if o.jsonLogs || o.file.Log.JSON {
		logOpts = append(logOpts, log.WithJSON())
	}
	if o.file.Log.File != "" {
		logOpts = append(logOpts, log.WithFile(o.file.Log.File))
	}
	log.Configure(logOpts...)
	if o.debug {
		log.SetDebug(true)
	}
}

// watchConfig builds the immutable pipeline configuration
func (o *globalOptions) watchConfig() (*config.WatchConfig, error) {
	return o.file.Build()
}
