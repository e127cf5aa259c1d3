package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/twgen/pkg/engine"
	"github.com/gnana997/twgen/pkg/utility"
	"github.com/gnana997/twgen/pkg/variant"
)

const maxWidth = 80

func newInspectCmd(g *globalOptions) *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "inspect <class>...",
		Short: "Print the rules generated for class tokens",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			return runInspect(cmd.OutOrStdout(), b, args, !compact)
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print rules without indentation")
	return cmd
}

// runInspect prints each class. It fails only when no class is known.
func runInspect(w io.Writer, b *engine.Builder, classes []string, pretty bool) error {
	known := 0
	for i, class := range classes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		d, ok, err := b.Resolve(class)
		var uv *variant.UnknownVariantError
		switch {
		case errors.As(err, &uv):
			fmt.Fprintf(w, "%s  %s\n", class, warnStyle.Render("[unknown variant]"))
			printWrapped(w, fmt.Sprintf("%q is not a registered variant.", uv.Variant), 2, maxWidth)
			continue
		case err != nil:
			return err
		case !ok:
			fmt.Fprintf(w, "%s  %s\n", class, warnStyle.Render("[not a utility]"))
			continue
		}

		known++
		printDefinitionHeader(w, d)
		css, _, err := b.CSSFor([]string{class}, pretty)
		if err != nil {
			return err
		}
		for _, line := range strings.Split(strings.TrimRight(css, "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	if known == 0 {
		return fmt.Errorf("no known utilities among %d %s", len(classes), plural(len(classes), "class", "classes"))
	}
	return nil
}

func printDefinitionHeader(w io.Writer, d utility.Definition) {
	tags := []string{d.Layer.String()}
	if d.Category != "" {
		tags = append(tags, string(d.Category))
	}
	if d.Breakpoint != "" {
		tags = append(tags, fmt.Sprintf("%s >= %gpx", d.Breakpoint, d.MinWidth))
	}
	fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(d.ClassName), dimStyle.Render("["+strings.Join(tags, ", ")+"]"))
}

// printWrapped prints text word-wrapped at width with the given indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range strings.Fields(text) {
		if len(line) > indent && len(line)+1+len(word) > width {
			fmt.Fprintln(w, line)
			line = prefix
		}
		if len(line) > indent {
			line += " "
		}
		line += word
	}
	if len(line) > indent {
		fmt.Fprintln(w, line)
	}
}
