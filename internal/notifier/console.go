package notifier

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"TrendSentinel/internal/model"
)

// ConsoleNotifier prints a styled report to a terminal.
type ConsoleNotifier struct {
	Out      io.Writer
	Currency string
	Now      func() time.Time

	title, label, plain, buy, sell, spike, muted, warn, fail, header lipgloss.Style
}

// NewConsoleNotifier creates a notifier writing to out. Colours are dropped
// automatically when out is not a terminal.
func NewConsoleNotifier(out io.Writer, currency string) *ConsoleNotifier {
	r := lipgloss.NewRenderer(out)
	return &ConsoleNotifier{
		Out:      out,
		Currency: currency,
		Now:      time.Now,
		header:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1),
		title:    r.NewStyle().Bold(true).Underline(true),
		label:    r.NewStyle().Bold(true),
		plain:    r.NewStyle(),
		buy:      r.NewStyle().Foreground(lipgloss.Color("10")),
		sell:     r.NewStyle().Foreground(lipgloss.Color("9")),
		spike:    r.NewStyle().Foreground(lipgloss.Color("214")),
		muted:    r.NewStyle().Faint(true),
		warn:     r.NewStyle().Foreground(lipgloss.Color("11")),
		fail:     r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

func (c *ConsoleNotifier) styleFor(k lineKind) lipgloss.Style {
	switch k {
	case lineTitle:
		return c.title
	case lineBuy:
		return c.buy
	case lineSell:
		return c.sell
	case lineSpike:
		return c.spike
	case lineMuted:
		return c.muted
	case lineWarn:
		return c.warn
	case lineError:
		return c.fail
	default:
		return c.plain
	}
}

// Render builds the report text without writing it.
func (c *ConsoleNotifier) Render(results []model.TickerResult) string {
	var b strings.Builder
	b.WriteString(c.header.Render("📊 TrendSentinel EMA & Volume Scan | " + c.Now().Format(model.DateLayout)))
	b.WriteString("\n")
	for _, res := range results {
		b.WriteString("\n")
		for _, l := range tickerLines(res, c.Currency) {
			if l.label != "" {
				b.WriteString(c.label.Render(l.label) + " ")
			}
			b.WriteString(c.styleFor(l.kind).Render(l.text))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (c *ConsoleNotifier) Notify(_ context.Context, results []model.TickerResult) error {
	_, err := io.WriteString(c.Out, c.Render(results))
	return err
}
