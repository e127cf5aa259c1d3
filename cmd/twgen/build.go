package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnana997/twgen/pkg/engine"
)

type buildOptions struct {
	output string
	watch  bool
	pretty bool
	banner string
}

func newBuildCmd(g *globalOptions) *cobra.Command {
	opts := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Scan content files and write the stylesheet",
		Long: "Build resolves the theme, scans the content globs, keeps the utilities in use " +
			"and writes them as one stylesheet. With --watch it keeps rebuilding on change.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, g, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: config output, else stdout; required with --watch)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "rebuild when content files change")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "indent output one declaration per line")
	cmd.Flags().StringVar(&opts.banner, "banner", "", "leading /*! ... */ comment")
	return cmd
}

func runBuild(cmd *cobra.Command, g *globalOptions, opts *buildOptions) error {
	stderr := cmd.ErrOrStderr()
	logger, err := g.logger(stderr)
	if err != nil {
		return err
	}
	cfg, err := g.loadConfig(logger)
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = cfg.Output
	}
	if opts.watch && out == "" {
		return errors.New("--watch requires an output file (-o or output in the config)")
	}

	b, err := engine.NewBuilder(cfg, g.root, engine.Options{Pretty: opts.pretty, Banner: opts.banner}, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	var pub *engine.Publisher
	if out == "" {
		pub = engine.NewWriterPublisher(cmd.OutOrStdout(), b.Latest, logger)
	} else {
		pub = engine.NewPublisher(out, b.Latest, logger)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	r, err := b.Build(ctx)
	if err != nil {
		return err
	}
	if _, err := pub.Publish(r); err != nil {
		return err
	}
	printSummary(stderr, r, pub.Destination())

	if !opts.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := engine.NewWatcher(b, pub, engine.WatchOptions{
		DebounceMs: cfg.Watch.DebounceMs,
		OnResult: func(r *engine.Result, accepted bool) {
			if accepted {
				printSummary(stderr, r, pub.Destination())
			}
		},
	}, logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	printWatching(stderr, b.Root())

	<-ctx.Done()
	return w.Stop()
}
