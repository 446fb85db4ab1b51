package main

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

var titleCaser = cases.Title(language.English)

// outcomeLabel renders a stored outcome ("succeeded") as a display label
// ("Succeeded").
func outcomeLabel(outcome string) string {
	outcome = strings.TrimSpace(outcome)
	if outcome == "" {
		return "Unknown"
	}
	return titleCaser.String(outcome)
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// availabilityLabel uses glyphs on interactive terminals and plain text
// when output is piped.
func availabilityLabel(available bool) string {
	if stdoutIsTerminal() {
		if available {
			return "✓"
		}
		return "✗"
	}
	return yesNo(available)
}
