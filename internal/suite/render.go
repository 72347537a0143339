package suite

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// Semantic colours that adapt to light and dark terminals.
var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "#22C55E", Dark: "#4ADE80"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#EAB308", Dark: "#FACC15"}
	colorError   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

// Styles holds the lipgloss styles used by RenderText.
type Styles struct {
	Title   lipgloss.Style
	Passed  lipgloss.Style
	Failed  lipgloss.Style
	Error   lipgloss.Style
	Skipped lipgloss.Style
	Detail  lipgloss.Style
	Summary lipgloss.Style
}

// NewStyles builds styles bound to w. With noColor set, output is plain
// ASCII regardless of the terminal.
func NewStyles(w io.Writer, noColor bool) Styles {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}

	badge := r.NewStyle().Bold(true).Width(6)
	return Styles{
		Title:   r.NewStyle().Bold(true).Underline(true),
		Passed:  badge.Copy().Foreground(colorSuccess),
		Failed:  badge.Copy().Foreground(colorError),
		Error:   badge.Copy().Foreground(colorWarning),
		Skipped: badge.Copy().Foreground(colorMuted),
		Detail:  r.NewStyle().Foreground(colorMuted).PaddingLeft(8),
		Summary: r.NewStyle().Bold(true),
	}
}

func (s Styles) badge(st Status) string {
	switch st {
	case StatusPassed:
		return s.Passed.Render("PASS")
	case StatusFailed:
		return s.Failed.Render("FAIL")
	case StatusError:
		return s.Error.Render("ERROR")
	default:
		return s.Skipped.Render("SKIP")
	}
}

// RenderText writes a human readable report. Failed checks include each
// failure and the rendered command result; when verbose is set, passing
// checks include their result too.
func RenderText(w io.Writer, r *Report, styles Styles, verbose bool) error {
	var b strings.Builder

	title := r.Suite
	if title == "" {
		title = "suite"
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n\n")

	for _, c := range r.Checks {
		fmt.Fprintf(&b, "  %s %s", styles.badge(c.Status), c.Name)
		if c.Status != StatusSkipped {
			fmt.Fprintf(&b, " (%s)", c.Duration.Round(time.Millisecond))
		}
		b.WriteString("\n")

		var details []string
		if c.Err != nil {
			details = append(details, c.Err.Error())
		}
		for _, f := range c.Failures {
			details = append(details, f.Error())
		}
		if c.Result != nil && (c.Status == StatusFailed || verbose) {
			details = append(details, strings.TrimRight(c.Result.String(), "\n"))
		}
		for _, d := range details {
			b.WriteString(styles.Detail.Render(d))
			b.WriteString("\n")
		}
	}

	summary := fmt.Sprintf("%d passed, %d failed, %d errors, %d skipped in %s",
		r.Count(StatusPassed), r.Count(StatusFailed), r.Count(StatusError), r.Count(StatusSkipped),
		r.Duration.Round(time.Millisecond))
	b.WriteString("\n")
	b.WriteString(styles.Summary.Render(summary))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderYAML writes the report as a YAML document.
func RenderYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
