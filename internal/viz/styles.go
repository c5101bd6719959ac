package viz

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	Title       lipgloss.Style
	HeaderStyle lipgloss.Style
	Subtle      lipgloss.Style
	MetricLabel lipgloss.Style
	MetricValue lipgloss.Style
	Good        lipgloss.Style
	Warn        lipgloss.Style
	Bad         lipgloss.Style
)

func init() { applyTheme(CurrentTheme) }

func applyTheme(t Theme) {
	Title = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Text)
	Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	MetricLabel = lipgloss.NewStyle().Foreground(t.Muted)
	MetricValue = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	Good = lipgloss.NewStyle().Bold(true).Foreground(t.Success)
	Warn = lipgloss.NewStyle().Bold(true).Foreground(t.Warning)
	Bad = lipgloss.NewStyle().Bold(true).Foreground(t.Error)
}

// Table writes rows under a styled header, aligned with a tabwriter.
// The header is styled after alignment so escape codes take no width.
func Table(w io.Writer, header []string, rows [][]string) error {
	var buf strings.Builder
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	head, body, _ := strings.Cut(buf.String(), "\n")
	_, err := fmt.Fprintf(w, "%s\n%s", HeaderStyle.Render(head), body)
	return err
}

// KV is one labelled value in a panel.
type KV struct {
	Label string
	Value string
}

// Panel renders a title and aligned label/value lines.
func Panel(title string, items []KV) string {
	width := 0
	for _, kv := range items {
		width = max(width, lipgloss.Width(kv.Label))
	}

	var b strings.Builder
	b.WriteString(Title.Render(title))
	b.WriteByte('\n')
	for _, kv := range items {
		pad := strings.Repeat(" ", width-lipgloss.Width(kv.Label))
		b.WriteString("  " + MetricLabel.Render(kv.Label) + pad + "  " + MetricValue.Render(kv.Value) + "\n")
	}
	return b.String()
}

// Separator returns a muted horizontal rule.
func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return Subtle.Render(left + " ◆ " + right)
}

// Bin is one histogram bin over [Lo, Hi).
type Bin struct {
	Lo, Hi float64
	Count  float64
}

// Histogram bins values into n equal-width bins spanning their range. The
// last bin is closed so the maximum is counted.
func Histogram(values []float64, n int) []Bin {
	if len(values) == 0 || n < 1 {
		return nil
	}
	x := append([]float64(nil), values...)
	sort.Float64s(x)

	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: float64(len(x))}}
	}

	dividers := make([]float64, n+1)
	floats.Span(dividers, lo, hi)
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, x, nil)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Count: counts[i]}
	}
	bins[n-1].Hi = hi
	return bins
}

// RenderHistogram draws bins as horizontal bars scaled to width.
func RenderHistogram(bins []Bin, width int) string {
	peak := 0.0
	for _, b := range bins {
		peak = math.Max(peak, b.Count)
	}
	if peak == 0 {
		return ""
	}

	var sb strings.Builder
	for _, b := range bins {
		n := int(math.Round(b.Count / peak * float64(width)))
		bar := strings.Repeat("█", n) + strings.Repeat("░", width-n)
		style := Warn
		switch {
		case b.Count == peak:
			style = Good
		case b.Count == 0:
			style = Subtle
		}
		fmt.Fprintf(&sb, "%s %s %s\n",
			MetricLabel.Render(fmt.Sprintf("%10.4g .. %-10.4g", b.Lo, b.Hi)),
			style.Render(bar),
			MetricValue.Render(fmt.Sprintf("%d", int(b.Count))))
	}
	return sb.String()
}
