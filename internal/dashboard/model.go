package dashboard

import (
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/nextgenfx/fxterm/internal/domain"
)

type updateMsg struct {
	snapshot *Snapshot
}

type tickMsg time.Time

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("39")).Padding(0, 1)
	profitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	lossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226")).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("226")).Padding(0, 1)
)

type model struct {
	title    string
	snapshot *Snapshot
	updateCh <-chan *Snapshot
	width    int
	height   int
}

func newModel(title string, updateCh <-chan *Snapshot) model {
	return model{
		title:    title,
		snapshot: &Snapshot{},
		updateCh: updateCh,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.waitForUpdate(), m.tick())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			// Bubble Tea swallows Ctrl+C, so the outer shutdown chain would
			// never see it. Re-raise SIGINT before quitting.
			_ = syscall.Kill(os.Getpid(), syscall.SIGINT)
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case updateMsg:
		m.snapshot = msg.snapshot
		return m, nil
	case tickMsg:
		return m, tea.Batch(m.waitForUpdate(), m.tick())
	}
	return m, nil
}

func (m model) View() string {
	snap := m.snapshot
	if snap == nil {
		return "Loading..."
	}

	availableWidth := m.width - 4
	if availableWidth < 76 {
		availableWidth = 76
	}
	leftWidth := availableWidth * 3 / 5
	rightWidth := availableWidth - leftWidth - 2

	var sections []string
	sections = append(sections, m.renderHeader(snap))
	sections = append(sections, m.renderTickerStrip(snap, availableWidth))
	if len(snap.PendingTasks) > 0 {
		sections = append(sections, m.renderPendingBanner(snap))
	}

	left := panelStyle.Width(leftWidth).Render(m.renderTrades(snap, leftWidth))
	right := panelStyle.Width(rightWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
		m.renderStats(snap, rightWidth),
		"",
		m.renderAccount(snap, rightWidth),
	))
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	sections = append(sections, m.renderFooter(snap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) renderHeader(snap *Snapshot) string {
	who := "-"
	if snap.User != nil {
		who = snap.User.FullName()
	}
	status := ""
	if snap.Loading {
		status = " | refreshing..."
	}
	return headerStyle.Render(fmt.Sprintf("%s | %s | %s%s",
		m.title, who, time.Now().Format("15:04:05"), status))
}

func (m model) renderTickerStrip(snap *Snapshot, width int) string {
	if len(snap.Quotes) == 0 {
		return mutedStyle.Render("quotes warming up...")
	}
	parts := make([]string, 0, len(snap.Quotes))
	for _, q := range snap.Quotes {
		entry := fmt.Sprintf("%s %s", q.Symbol, q.Bid.String())
		switch {
		case q.Change.IsPositive():
			entry = profitStyle.Render(entry + " ▲")
		case q.Change.IsNegative():
			entry = lossStyle.Render(entry + " ▼")
		default:
			entry = mutedStyle.Render(entry)
		}
		parts = append(parts, entry)
	}
	strip := strings.Join(parts, "   ")
	return lipgloss.NewStyle().Width(width).Render(strip)
}

func (m model) renderPendingBanner(snap *Snapshot) string {
	return bannerStyle.Render(fmt.Sprintf("Account setup incomplete: %s. Contact support if this persists.",
		strings.Join(snap.PendingTasks, ", ")))
}

func (m model) renderTrades(snap *Snapshot, width int) string {
	var lines []string
	lines = append(lines, titleStyle.Render("Trades"))
	lines = append(lines, strings.Repeat("─", width-4))

	if snap.ErrMsg != "" {
		lines = append(lines, lossStyle.Render(snap.ErrMsg))
		return strings.Join(lines, "\n")
	}
	if len(snap.Trades) == 0 {
		lines = append(lines, mutedStyle.Render("No trades yet."))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, fmt.Sprintf("%-8s %-4s %7s %10s %10s %-7s %10s",
		"SYMBOL", "SIDE", "LOTS", "ENTRY", "EXIT", "STATUS", "PROFIT"))

	maxRows := 12
	for i, t := range snap.Trades {
		if i >= maxRows {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("  ... and %d more", len(snap.Trades)-maxRows)))
			break
		}
		exit := "-"
		if t.ExitPrice != nil {
			exit = fmt.Sprintf("%.5f", *t.ExitPrice)
		}
		profit := fmt.Sprintf("%10.2f", t.Profit)
		if t.Profit < 0 {
			profit = lossStyle.Render(profit)
		} else if t.Status == domain.TradeClosed {
			profit = profitStyle.Render(profit)
		}
		lines = append(lines, fmt.Sprintf("%-8s %-4s %7.2f %10.5f %10s %-7s %s",
			t.Symbol, t.Type, t.LotSize, t.EntryPrice, exit, t.Status, profit))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderStats(snap *Snapshot, width int) string {
	var lines []string
	lines = append(lines, titleStyle.Render("Performance"))
	lines = append(lines, strings.Repeat("─", width-4))

	if snap.Stats != nil {
		lines = append(lines, fmt.Sprintf("Total:%d Open:%d Closed:%d",
			snap.Stats.TotalTrades, snap.Stats.OpenTrades, snap.Stats.ClosedTrades))
		lines = append(lines, fmt.Sprintf("Profit:%s Avg:%s",
			renderMoney(decimal.NewFromFloat(snap.Stats.TotalProfit)),
			renderMoney(decimal.NewFromFloat(snap.Stats.AvgProfit))))
	} else {
		lines = append(lines, mutedStyle.Render("No server stats yet."))
	}

	lines = append(lines, fmt.Sprintf("Win rate:%s%% W:%d L:%d",
		snap.Summary.WinRate.String(), snap.Summary.Wins, snap.Summary.Losses))
	if len(snap.Equity) > 0 {
		lines = append(lines, fmt.Sprintf("Equity: %s", renderMoney(snap.Equity[len(snap.Equity)-1].Cumulative)))
	}
	if !snap.Drift.InSync() {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("Server/local drift: %s (%+d trades)",
			snap.Drift.TotalProfit.StringFixed(2), snap.Drift.TradeCount)))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderAccount(snap *Snapshot, width int) string {
	var lines []string
	lines = append(lines, titleStyle.Render("Account"))
	lines = append(lines, strings.Repeat("─", width-4))
	if snap.User == nil {
		lines = append(lines, mutedStyle.Render("Not signed in."))
		return strings.Join(lines, "\n")
	}
	lines = append(lines, snap.User.Email)
	if ta := snap.User.TradingAccount; ta != nil {
		login := ta.MT5Login
		if login == "" {
			login = "-"
		}
		lines = append(lines, fmt.Sprintf("MT5:%s @ %s", login, ta.MT5Server))
		lines = append(lines, fmt.Sprintf("Risk: %s", ta.RiskProfile.Label()))
	} else {
		lines = append(lines, mutedStyle.Render("No MT5 account linked."))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderFooter(snap *Snapshot) string {
	refreshed := "-"
	if !snap.RefreshedAt.IsZero() {
		refreshed = snap.RefreshedAt.Format("15:04:05")
	}
	return mutedStyle.Render(fmt.Sprintf(" q quit | refreshed %s", refreshed))
}

func renderMoney(d decimal.Decimal) string {
	s := "$" + d.StringFixed(2)
	if d.IsNegative() {
		return lossStyle.Render(s)
	}
	return profitStyle.Render(s)
}

// waitForUpdate blocks for the next snapshot, then drains the channel so a
// burst of updates collapses into the latest frame.
func (m model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		snap := <-m.updateCh
		for {
			select {
			case latest := <-m.updateCh:
				snap = latest
			default:
				return updateMsg{snapshot: snap}
			}
		}
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
