package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tokentrack/internal/cli"
	"github.com/theirongolddev/tokentrack/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark, matching internal/cli).
var (
	colorText   = lipgloss.Color("#FFFCF0")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorDim    = lipgloss.Color("#575653")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorYellow = lipgloss.Color("#D0A215")
	colorRed    = lipgloss.Color("#D14D41")
)

var (
	boldStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	textStyle     = lipgloss.NewStyle().Foreground(colorText)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	dimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	accentStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(colorText).Background(lipgloss.Color("#282726")).Bold(true)
)

// View renders the whole dashboard.
func (a App) View() string {
	if !a.loaded {
		return "\n\n  " + a.spinner.View() + " Loading usage data..."
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(a.renderBanner())
	b.WriteString("\n")
	b.WriteString(a.renderRateBar())
	b.WriteString("\n\n")
	b.WriteString(a.renderTabBar())
	b.WriteString("\n\n")

	switch a.activeTab {
	case tabSessions:
		b.WriteString(a.renderSessions())
	case tabProjects:
		b.WriteString(a.renderProjects())
	case tabModels:
		b.WriteString(a.renderModels())
	case tabDaily:
		b.WriteString(a.renderDaily())
	}

	b.WriteString("\n")
	if a.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(colorRed).Render(fmt.Sprintf("  refresh failed: %v", a.err)))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("  tab/←→ switch · ↑↓ navigate · enter detail · r refresh · p plan · q quit"))
	return b.String()
}

func (a App) renderBanner() string {
	t := a.snap.Totals
	d := a.snap.Today
	return "  " + boldStyle.Render("All-time:") + textStyle.Render(fmt.Sprintf(
		" %s tokens · %s · %s sessions · %s turns",
		cli.FormatTokens(t.TotalTokens()), cli.FormatCost(t.CostUSD),
		cli.FormatNumber(t.Sessions), cli.FormatNumber(t.Turns))) +
		boldStyle.Render("    Today:") + textStyle.Render(fmt.Sprintf(
		" %s tokens · %s · %s sessions",
		cli.FormatTokens(d.TotalTokens()), cli.FormatCost(d.CostUSD),
		cli.FormatNumber(d.Sessions)))
}

func (a App) renderRateBar() string {
	w := a.snap.Window
	limit := a.plan.Limit()
	pct := float64(w.OutputTokens) / float64(limit)
	if pct > 1 {
		pct = 1
	}

	barColor := colorGreen
	switch {
	case pct >= 0.85:
		barColor = colorRed
	case pct >= 0.60:
		barColor = colorYellow
	}

	const barWidth = 30
	filled := int(pct * barWidth)
	bar := lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", barWidth-filled))

	reset := ""
	if w.OldestTurn != "" && w.OutputTokens > 0 {
		if ts, err := time.Parse(time.RFC3339Nano, w.OldestTurn); err == nil {
			remaining := time.Until(ts.Add(config.WindowHours * time.Hour))
			if remaining > 0 {
				reset = mutedStyle.Render(fmt.Sprintf(" · resets in ~%dh%02dm",
					int(remaining.Hours()), int(remaining.Minutes())%60))
			}
		}
	}

	return "  " + boldStyle.Render(fmt.Sprintf("Rate limit [%s]  ", a.plan.Name())) +
		bar + textStyle.Render(fmt.Sprintf("  %s / %s output tokens (%s)",
		cli.FormatTokens(w.OutputTokens), cli.FormatTokens(limit), cli.FormatPercent(pct))) +
		reset
}

func (a App) renderTabBar() string {
	parts := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if i == a.activeTab {
			parts = append(parts, accentStyle.Render("["+name+"]"))
		} else {
			parts = append(parts, mutedStyle.Render(" "+name+" "))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

// visibleRows returns how many list rows fit under the fixed chrome.
func (a App) visibleRows() int {
	v := a.height - 12
	if v < 5 {
		v = 5
	}
	return v
}

func (a App) renderSessions() string {
	sessions := a.snap.Sessions
	if len(sessions) == 0 {
		return mutedStyle.Render("  No sessions recorded yet.")
	}

	header := fmt.Sprintf("  %-17s %-32s %-22s %6s %8s %8s %9s",
		"Last Active", "Project", "Model", "Turns", "Input", "Output", "Cost")

	var b strings.Builder
	b.WriteString(accentStyle.Render(header))
	b.WriteString("\n")

	visible := a.visibleRows()
	if a.detailTurns != nil {
		visible /= 2
		if visible < 3 {
			visible = 3
		}
	}
	start := 0
	if a.cursor >= visible {
		start = a.cursor - visible + 1
	}

	for i := start; i < len(sessions) && i < start+visible; i++ {
		s := sessions[i]
		line := fmt.Sprintf("  %-17s %-32s %-22s %6s %8s %8s %9s",
			cli.FormatTimestamp(s.LastSeen),
			truncate(cli.ShortPath(s.ProjectPath, 32), 32),
			truncate(s.Model, 22),
			cli.FormatNumber(s.Turns),
			cli.FormatTokens(s.InputTokens),
			cli.FormatTokens(s.OutputTokens),
			cli.FormatCost(s.CostUSD),
		)
		if i == a.cursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(textStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if a.detailTurns != nil {
		b.WriteString("\n")
		b.WriteString(a.renderSessionDetail())
	}
	return b.String()
}

func (a App) renderSessionDetail() string {
	var b strings.Builder
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  session %.8s… · %d turns (esc to close)", a.detailID, len(a.detailTurns))))
	b.WriteString("\n")
	b.WriteString(accentStyle.Render(fmt.Sprintf("  %-17s %8s %8s %8s %8s %9s",
		"Timestamp", "Input", "Output", "Cache-R", "Cache-W", "Cost")))
	b.WriteString("\n")

	var total float64
	for _, t := range a.detailTurns {
		total += t.CostUSD
		b.WriteString(textStyle.Render(fmt.Sprintf("  %-17s %8s %8s %8s %8s %9s",
			cli.FormatTimestamp(t.Timestamp),
			cli.FormatTokens(t.InputTokens),
			cli.FormatTokens(t.OutputTokens),
			cli.FormatTokens(t.CacheReadTokens),
			cli.FormatTokens(t.CacheCreationTokens),
			cli.FormatCost(t.CostUSD),
		)))
		b.WriteString("\n")
	}
	b.WriteString(boldStyle.Render("  Total cost: " + cli.FormatCost(total)))
	b.WriteString("\n")
	return b.String()
}

func (a App) renderProjects() string {
	projects := a.snap.Projects
	if len(projects) == 0 {
		return mutedStyle.Render("  No usage recorded yet.")
	}

	var b strings.Builder
	b.WriteString(accentStyle.Render(fmt.Sprintf("  %-42s %9s %7s %9s %9s %9s",
		"Project", "Sessions", "Turns", "Input", "Output", "Cost")))
	b.WriteString("\n")
	for i, p := range projects {
		line := fmt.Sprintf("  %-42s %9s %7s %9s %9s %9s",
			truncate(cli.ShortPath(p.ProjectPath, 42), 42),
			cli.FormatNumber(p.Sessions),
			cli.FormatNumber(p.Turns),
			cli.FormatTokens(p.InputTokens),
			cli.FormatTokens(p.OutputTokens),
			cli.FormatCost(p.CostUSD),
		)
		if i == a.cursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(textStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a App) renderModels() string {
	models := a.snap.Models
	if len(models) == 0 {
		return mutedStyle.Render("  No usage recorded yet.")
	}

	var b strings.Builder
	b.WriteString(accentStyle.Render(fmt.Sprintf("  %-32s %7s %9s %9s %9s %9s",
		"Model", "Turns", "Input", "Output", "Cache-R", "Cost")))
	b.WriteString("\n")
	for i, m := range models {
		line := fmt.Sprintf("  %-32s %7s %9s %9s %9s %9s",
			truncate(m.Model, 32),
			cli.FormatNumber(m.Turns),
			cli.FormatTokens(m.InputTokens),
			cli.FormatTokens(m.OutputTokens),
			cli.FormatTokens(m.CacheReadTokens),
			cli.FormatCost(m.CostUSD),
		)
		if i == a.cursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(textStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a App) renderDaily() string {
	daily := a.snap.Daily
	if len(daily) == 0 {
		return mutedStyle.Render("  No data yet.")
	}

	var maxTokens int64 = 1
	for _, d := range daily {
		if t := d.TotalTokens(); t > maxTokens {
			maxTokens = t
		}
	}

	chartWidth := a.width - 40
	if chartWidth < 20 {
		chartWidth = 20
	}
	if chartWidth > 60 {
		chartWidth = 60
	}

	var b strings.Builder
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  Daily token usage (last %d days)", a.cfg.General.DailyDays)))
	b.WriteString("\n\n")
	for _, d := range daily {
		total := d.TotalTokens()
		filled := int(float64(total) / float64(maxTokens) * float64(chartWidth))
		bar := lipgloss.NewStyle().Foreground(colorAccent).Render(strings.Repeat("█", filled)) +
			dimStyle.Render(strings.Repeat("░", chartWidth-filled))
		b.WriteString(fmt.Sprintf("  %s  %s  %s %s\n",
			textStyle.Render(d.Day), bar,
			mutedStyle.Render(cli.FormatTokens(total)),
			mutedStyle.Render(cli.FormatCost(d.CostUSD)),
		))
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
