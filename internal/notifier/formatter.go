package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"TrendSentinel/internal/model"
)

type lineKind int

const (
	lineTitle lineKind = iota
	lineInfo
	lineBuy
	lineSell
	lineSpike
	lineMuted
	lineWarn
	lineError
)

// reportLine is one rendered fact about a ticker. The Telegram and console
// renderers only differ in how they decorate it.
type reportLine struct {
	kind  lineKind
	label string
	text  string
}

// money rounds to two decimals the way the reports show prices.
func money(currency string, v float64) string {
	return currency + decimal.NewFromFloat(v).StringFixed(2)
}

func signalLabel(c model.CrossSignal) string {
	switch c {
	case model.CrossBullish:
		return "🟢 BUY"
	case model.CrossBearish:
		return "🔴 SELL"
	default:
		return "NONE"
	}
}

func tickerLines(res model.TickerResult, currency string) []reportLine {
	lines := []reportLine{{kind: lineTitle, text: "📌 " + res.Symbol}}

	switch res.Status {
	case model.StatusNoData:
		return append(lines, reportLine{kind: lineWarn, text: "⚠️ No data for " + res.Symbol})
	case model.StatusFailed:
		return append(lines, reportLine{kind: lineError, text: fmt.Sprintf("❌ Error analyzing %s: %v", res.Symbol, res.Err)})
	}

	sum := res.Analysis.Summary
	lines = append(lines, reportLine{kind: lineInfo, label: "Latest Close:", text: money(currency, sum.LatestClose)})

	if s := sum.LastSignal; s != nil {
		kind := lineBuy
		if s.Direction == model.CrossBearish {
			kind = lineSell
		}
		lines = append(lines, reportLine{
			kind:  kind,
			label: "Last Signal:",
			text: fmt.Sprintf("%s on %s @ %s",
				signalLabel(s.Direction), s.Date.Format(model.DateLayout), money(currency, s.Close)),
		})
	} else {
		lines = append(lines, reportLine{kind: lineMuted, text: "No crossover signal found."})
	}

	if sp := sum.LastSpike; sp != nil {
		lines = append(lines, reportLine{
			kind:  lineSpike,
			label: "Volume Spike:",
			text:  fmt.Sprintf("%s | Volume: %d", sp.Date.Format(model.DateLayout), sp.Volume),
		})
	} else {
		lines = append(lines, reportLine{kind: lineMuted, text: "No significant volume spike found."})
	}
	return lines
}

// FormatTickerReport renders one scan result as Telegram HTML.
func FormatTickerReport(res model.TickerResult, currency string) string {
	var b strings.Builder
	for i, l := range tickerLines(res, currency) {
		if i > 0 {
			b.WriteString("\n")
		}
		switch {
		case l.kind == lineTitle:
			b.WriteString("<b>" + html.EscapeString(l.text) + "</b>")
		case l.label != "":
			b.WriteString("<b>" + l.label + "</b> " + html.EscapeString(l.text))
		case l.kind == lineMuted:
			b.WriteString("<i>" + html.EscapeString(l.text) + "</i>")
		default:
			b.WriteString(html.EscapeString(l.text))
		}
	}
	return b.String()
}

func reportHeader(now time.Time) string {
	return fmt.Sprintf("📊 <b>TrendSentinel EMA &amp; Volume Scan</b> | %s", now.Format(model.DateLayout))
}

// reportBlocks returns the header followed by one HTML block per ticker.
func reportBlocks(results []model.TickerResult, currency string, now time.Time) []string {
	blocks := make([]string, 0, len(results)+1)
	blocks = append(blocks, reportHeader(now))
	for _, res := range results {
		blocks = append(blocks, FormatTickerReport(res, currency))
	}
	if len(results) == 0 {
		blocks = append(blocks, "<i>No tickers to scan.</i>")
	}
	return blocks
}

// FormatReport renders a whole batch as a single Telegram HTML message.
func FormatReport(results []model.TickerResult, currency string, now time.Time) string {
	return strings.Join(reportBlocks(results, currency, now), "\n\n")
}

// splitMessages packs blocks into messages no longer than limit, keeping
// every block whole. A single oversized block is sent on its own.
func splitMessages(blocks []string, limit int) []string {
	var (
		msgs []string
		cur  strings.Builder
	)
	for _, blk := range blocks {
		if cur.Len() > 0 && cur.Len()+2+len(blk) > limit {
			msgs = append(msgs, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString("\n\n")
		}
		cur.WriteString(blk)
	}
	if cur.Len() > 0 {
		msgs = append(msgs, cur.String())
	}
	return msgs
}
