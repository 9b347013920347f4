package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/dgnsrekt/brl/braille"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var tableCmd = &cobra.Command{
	Use:     "table",
	Short:   "Print the Braille lookup tables",
	Long:    paragraph(fmt.Sprintf("\n%s every character brl knows with its Braille cell and dot numbers.", keyword("List"))),
	Example: paragraph("brl table\nbrl table | less -r"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		style := styles.AutoStyle
		if !term.IsTerminal(int(os.Stdout.Fd())) { //nolint:gosec
			style = styles.NoTTYStyle
		}

		r, err := glamour.NewTermRenderer(
			glamour.WithColorProfile(lipgloss.ColorProfile()),
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(int(width)), //nolint:gosec
		)
		if err != nil {
			return fmt.Errorf("unable to create renderer: %w", err)
		}

		out, err := r.Render(tableMarkdown(braille.Table()))
		if err != nil {
			return fmt.Errorf("unable to render markdown: %w", err)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err //nolint:wrapcheck
	},
}

// tableMarkdown lays out the mappings as one Markdown table per kind.
func tableMarkdown(mappings []braille.Mapping) string {
	var b strings.Builder
	kind := braille.Kind(-1)
	for _, m := range mappings {
		if m.Kind != kind {
			kind = m.Kind
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "# %s\n\n", strings.ToUpper(kind.String()[:1])+kind.String()[1:])
			b.WriteString("| Character | Cell | Dots | Codepoint |\n")
			b.WriteString("|-----------|------|------|-----------|\n")
		}
		fmt.Fprintf(&b, "| %s | %s | %s | U+%04X |\n",
			characterLabel(m), m.Cell, dotsLabel(m.Cell), rune(m.Cell))
	}
	return b.String()
}

func characterLabel(m braille.Mapping) string {
	if m.Char == 0 || m.Name != string(m.Char) {
		return m.Name
	}
	return "`" + m.Name + "`"
}

func dotsLabel(c braille.Cell) string {
	dots := c.Dots()
	if len(dots) == 0 {
		return "none"
	}
	s := make([]string, len(dots))
	for i, d := range dots {
		s[i] = strconv.Itoa(d)
	}
	return strings.Join(s, "-")
}
