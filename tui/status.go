package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwynn/realmforge/engine/state"
)

// renderStatusBar produces a full-width inverted status line showing the
// player's vitals, wealth, and current region.
func (m Model) renderStatusBar() string {
	st := m.session.Engine.State()
	p := st.Player

	left := fmt.Sprintf(" %s  Lv %d | HP %d/%d  MP %d/%d",
		p.Name, p.Level, p.Health, p.MaxHealth, p.Mana, p.MaxMana)

	regionName := "nowhere"
	if region, ok := state.CurrentRegion(st); ok {
		regionName = region.Name
	}

	right := fmt.Sprintf("%s ", regionName)

	// Show tokens and staked balance if they fit, otherwise just the region.
	tokens := fmt.Sprintf("Tokens: %d", p.Tokens)
	if p.Staked > 0 {
		tokens += fmt.Sprintf(" (+%d staked)", p.Staked)
	}
	candidate := fmt.Sprintf("%s | %s ", tokens, regionName)
	if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
		right = candidate
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
