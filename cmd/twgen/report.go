package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/gnana997/twgen/pkg/engine"
	"github.com/gnana997/twgen/pkg/scanner"
	"github.com/gnana997/twgen/pkg/variant"
)

// maxWarningLines caps each warning group in the summary.
const maxWarningLines = 10

var (
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// printSummary writes the one-line build report and the grouped warnings.
func printSummary(w io.Writer, r *engine.Result, dest string) {
	fmt.Fprintf(w, "%s %s to %s %s\n",
		okStyle.Render("built"),
		humanize.Bytes(uint64(r.Stats.Bytes)),
		dest,
		dimStyle.Render(fmt.Sprintf("(%s of %s utilities, %s files, %s)",
			humanize.Comma(int64(r.Stats.Retained)),
			humanize.Comma(int64(r.Stats.Utilities)),
			humanize.Comma(int64(r.Stats.Files)),
			r.Stats.Duration.Round(time.Millisecond))))

	groups := groupWarnings(r.WarningList())
	if len(groups) == 0 {
		return
	}

	total := 0
	for _, g := range groups {
		total += len(g.lines)
	}
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d %s", total, plural(total, "warning", "warnings"))))
	for _, g := range groups {
		fmt.Fprintf(w, "  %s\n", titleStyle.Render(g.title))
		for i, line := range g.lines {
			if i == maxWarningLines {
				fmt.Fprintf(w, "    %s\n", dimStyle.Render(fmt.Sprintf("... and %d more", len(g.lines)-i)))
				break
			}
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
}

type warningGroup struct {
	title string
	lines []string
}

// groupWarnings buckets warnings by kind, in a fixed order.
func groupWarnings(errs []error) []warningGroup {
	var globs, unreadable, variants, other []string
	for _, err := range errs {
		var (
			ge *scanner.GlobResolutionError
			ie *scanner.ScanIOError
			ve *variant.UnknownVariantError
		)
		switch {
		case errors.As(err, &ge):
			globs = append(globs, strings.Join(ge.Patterns, ", "))
		case errors.As(err, &ie):
			unreadable = append(unreadable, fmt.Sprintf("%s: %v", ie.Path, ie.Err))
		case errors.As(err, &ve):
			variants = append(variants, fmt.Sprintf("%s (%s)", ve.Token, ve.Variant))
		default:
			other = append(other, err.Error())
		}
	}

	var out []warningGroup
	for _, g := range []warningGroup{
		{"content patterns matched no files", globs},
		{"unreadable files", unreadable},
		{"unknown variants", variants},
		{"other", other},
	} {
		if len(g.lines) > 0 {
			out = append(out, g)
		}
	}
	return out
}

func printWatching(w io.Writer, root string) {
	fmt.Fprintf(w, "%s %s %s\n", okStyle.Render("watching"), root, dimStyle.Render("(ctrl-c to stop)"))
}

// printFatal writes a human-readable diagnostic for an error that aborted
// the command.
func printFatal(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errStyle.Render("error:"), err)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
