package ui

import (
	"axiom/internal/checkout"
	"axiom/internal/router"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// handleKey processes keyboard input. Overlays take keys first: the gate,
// then checkout, then the curator input, then the journal reader.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	snap := m.store.Snapshot()

	if snap.AuthModalOpen {
		switch msg.String() {
		case " ":
			m.toggleHold()
		case "esc", "q":
			// Abort Protocol
			m.store.CloseAuth()
		}
		return m, nil
	}

	if snap.Checkout != checkout.Idle {
		switch msg.String() {
		case " ":
			m.toggleHold()
		case "esc", "q":
			m.store.CloseCheckout()
		}
		return m, nil
	}

	if m.curatorOpen && m.input.Focused() {
		switch msg.Type {
		case tea.KeyEsc:
			m.input.Blur()
			m.curatorOpen = false
			return m, nil
		case tea.KeyEnter:
			if m.curator != nil && m.curator.Thinking() {
				// one exchange at a time; the draft stays in the input
				return m, nil
			}
			text := m.input.Value()
			m.input.Reset()
			if m.curator == nil || text == "" {
				return m, nil
			}
			return m, m.askCurator(text)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if m.reading {
		switch msg.String() {
		case "esc", "q", "backspace":
			m.reading = false
			return m, nil
		}
		var cmd tea.Cmd
		m.reader, cmd = m.reader.Update(msg)
		return m, cmd
	}

	if snap.VaultOpen {
		if handled := m.handleVaultKey(msg, len(snap.Vault)); handled {
			return m, nil
		}
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "1":
		m.store.Navigate(router.Collection)
	case "2":
		m.store.Navigate(router.Journal)
	case "3":
		m.store.Navigate(router.Atelier)
	case "tab":
		m.store.Navigate(nextSection(snap.View))

	case "v":
		m.store.ToggleVault(nil)
		m.vaultCursor = 0

	case "i":
		if !snap.Authenticated {
			m.store.OpenAuth()
		}

	case "/", "?":
		m.curatorOpen = true
		m.input.Focus()
		return m, textinput.Blink

	case "d":
		if len(snap.Notifications) > 0 {
			m.store.Dismiss(snap.Notifications[0].ID)
		}

	case "esc":
		if snap.View == router.Product {
			m.store.Unfocus()
		}

	default:
		m.handleViewKey(msg, snap.View)
	}
	return m, nil
}

func (m *Model) handleViewKey(msg tea.KeyMsg, view router.View) {
	switch view {
	case router.Collection:
		n := len(m.store.Catalog().Products())
		switch msg.String() {
		case "up", "k":
			m.cursor = (m.cursor + n - 1) % n
		case "down", "j":
			m.cursor = (m.cursor + 1) % n
		case "enter", "right", "l":
			p := m.store.Catalog().Products()[m.cursor]
			if err := m.store.Focus(p.ID); err != nil {
				m.log.Warn("failed to focus product", zap.String("id", p.ID), zap.Error(err))
			}
		}

	case router.Product:
		switch msg.String() {
		case "a", "enter":
			if p := m.store.Snapshot().Focused; p != nil {
				if _, err := m.store.Add(p.ID); err != nil {
					m.log.Warn("failed to secure product", zap.String("id", p.ID), zap.Error(err))
				}
			}
		case "left", "h", "backspace":
			m.store.Unfocus()
		}

	case router.Journal:
		n := len(m.store.Catalog().Articles())
		if n == 0 {
			return
		}
		switch msg.String() {
		case "up", "k":
			m.journalCursor = (m.journalCursor + n - 1) % n
		case "down", "j":
			m.journalCursor = (m.journalCursor + 1) % n
		case "enter", "right", "l":
			m.reading = true
			m.loadArticle()
		}

	case router.Atelier:
		switch msg.String() {
		case "m", "right", "l", "enter":
			m.lab.Cycle()
		case "o", "c", "g":
			name := map[string]string{"o": "obsidian", "c": "chrome", "g": "glass"}[msg.String()]
			if err := m.lab.Select(name); err != nil {
				m.log.Warn("failed to select material", zap.String("material", name), zap.Error(err))
			}
		}
	}
}

func (m *Model) handleVaultKey(msg tea.KeyMsg, n int) bool {
	switch msg.String() {
	case "esc":
		closed := false
		m.store.ToggleVault(&closed)
		return true
	case "up", "k":
		if n > 0 {
			m.vaultCursor = (m.vaultCursor + n - 1) % n
		}
		return true
	case "down", "j":
		if n > 0 {
			m.vaultCursor = (m.vaultCursor + 1) % n
		}
		return true
	case "x", "delete":
		items := m.store.Snapshot().Vault
		if m.vaultCursor < len(items) {
			m.store.Remove(items[m.vaultCursor].ID)
			if m.vaultCursor >= len(items)-1 && m.vaultCursor > 0 {
				m.vaultCursor--
			}
		}
		return true
	case "c", "enter":
		m.store.OpenCheckout()
		return true
	}
	return false
}

// toggleHold maps the space bar onto press and release, since terminals do
// not report key-up.
func (m *Model) toggleHold() {
	if m.store.Holding() {
		m.store.ReleaseHold()
		return
	}
	m.store.StartHold()
}

func nextSection(v router.View) router.View {
	switch v {
	case router.Collection, router.Product:
		return router.Journal
	case router.Journal:
		return router.Atelier
	default:
		return router.Collection
	}
}
