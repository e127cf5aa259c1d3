package main

import (
	"github.com/spf13/cobra"

	"github.com/gnana997/twgen/pkg/engine"
	mcpserver "github.com/gnana997/twgen/pkg/mcp"
	"github.com/gnana997/twgen/pkg/mcplog"
)

func newServeCmd(g *globalOptions) *cobra.Command {
	var logFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := g.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cfg, err := g.loadConfig(logger)
			if err != nil {
				return err
			}
			b, err := engine.NewBuilder(cfg, g.root, engine.Options{}, logger)
			if err != nil {
				return err
			}
			defer b.Close()

			var pub *engine.Publisher
			if cfg.Output != "" {
				pub = engine.NewPublisher(cfg.Output, b.Latest, logger)
			}

			calls, err := mcplog.NewLogger(logFile)
			if err != nil {
				return err
			}
			if calls != nil {
				defer calls.Close()
			}

			return mcpserver.NewServer(b, pub, calls).ServeStdio()
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "append a JSONL record of every tool call to this file")
	return cmd
}
