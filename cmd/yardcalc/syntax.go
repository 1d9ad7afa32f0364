package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

//go:embed syntax.md
var syntaxDoc string

const (
	defaultWrapWidth = 80
	plainStyle       = "notty"
)

func newSyntaxCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "syntax",
		Short: "Describe the accepted expression syntax",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if raw {
				_, err := fmt.Fprint(out, syntaxDoc)
				return err
			}

			rendered, err := renderMarkdown(syntaxDoc, out == os.Stdout)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown source")
	return cmd
}

// renderMarkdown styles doc for the terminal, or plainly when not on one
func renderMarkdown(doc string, toStdout bool) (string, error) {
	width := defaultWrapWidth
	style := glamour.WithStandardStyle(plainStyle)

	if fd := int(os.Stdout.Fd()); toStdout && term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = min(w, 120)
		}
		style = glamour.WithAutoStyle()
	}

	renderer, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return renderer.Render(doc)
}
