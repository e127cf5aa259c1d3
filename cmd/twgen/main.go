package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/twgen/pkg/config"
	"github.com/gnana997/twgen/pkg/util"
)

const version = "0.1.0-dev"

// globalOptions are the flags shared by every command that loads a project.
type globalOptions struct {
	configPath string
	root       string
	logLevel   string
	logFormat  string
}

func (o *globalOptions) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "config file (default: twgen.{yaml,yml,toml,json} in --root)")
	cmd.PersistentFlags().StringVar(&o.root, "root", ".", "project root that content globs are relative to")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&o.logFormat, "log-format", "text", "log format: text or json")
}

// logger builds the slog logger for the command. Logs always go to w
// (stderr) so stdout stays free for CSS or the MCP protocol.
func (o *globalOptions) logger(w io.Writer) (*slog.Logger, error) {
	level, err := util.ParseLogLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	format, err := util.ParseLogFormat(o.logFormat)
	if err != nil {
		return nil, err
	}
	cfg := util.DefaultLoggerConfig()
	cfg.Level = level
	cfg.Format = format
	cfg.Output = w
	return util.NewLogger(cfg), nil
}

// loadConfig applies the fallback chain: --config, a config file in the
// root, then built-in defaults.
func (o *globalOptions) loadConfig(logger *slog.Logger) (*config.Config, error) {
	cfg, path, err := config.Resolve(o.configPath, o.root)
	if err != nil {
		return nil, err
	}
	if path == "" {
		logger.Info("no config file found, using defaults", "root", o.root)
	} else {
		logger.Info("config loaded", "file", path)
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "twgen",
		Short:         "twgen - utility-first CSS generator",
		Long:          "twgen scans project sources for utility class names and emits a stylesheet containing only the utilities in use.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.register(root)

	root.AddCommand(
		newBuildCmd(opts),
		newInspectCmd(opts),
		newServeCmd(opts),
		newSetupCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "twgen %s\n", version)
		},
	}
}

func main() {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		printFatal(os.Stderr, err)
		os.Exit(1)
	}
}
