package ui

import (
	"fmt"
	"strings"

	"axiom/internal/atelier"
	"axiom/internal/auth"
	"axiom/internal/catalog"
	"axiom/internal/checkout"
	"axiom/internal/curator"
	"axiom/internal/notify"
	"axiom/internal/router"
	"axiom/internal/store"

	"github.com/charmbracelet/lipgloss"
)

// View renders the storefront.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snap := m.store.Snapshot()

	var body string
	switch {
	case snap.AuthModalOpen:
		body = m.renderGate(snap)
	case snap.Checkout != checkout.Idle:
		body = m.renderCheckout(snap)
	default:
		body = m.renderScreen(snap)
		if snap.VaultOpen {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", m.renderVault(snap))
		}
	}

	sections := []string{m.renderHeader(snap)}
	if n := m.renderNotifications(snap.Notifications); n != "" {
		sections = append(sections, n)
	}
	sections = append(sections, body)
	if m.curatorOpen {
		sections = append(sections, m.renderCurator(snap.Authenticated))
	}
	sections = append(sections, m.renderFooter(snap))

	return m.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderHeader(snap store.Snapshot) string {
	s := m.styles
	active := snap.View.Section()

	var nav []string
	for _, item := range []struct{ key, label string }{
		{"1", "Archive"}, {"2", "Journal"}, {"3", "Atelier"},
	} {
		label := item.key + " " + item.label
		section := item.label
		if section == "Archive" && active == "Acquire" {
			section = "Acquire"
			label = item.key + " Acquire"
		}
		if section == active {
			nav = append(nav, s.NavActive.Render(label))
		} else {
			nav = append(nav, s.NavItem.Render(label))
		}
	}

	identity := s.Muted.Render("[i] Identify")
	if snap.Authenticated {
		identity = s.Member.Render("Obsidian Member")
	}
	vault := s.Muted.Render(fmt.Sprintf("[v] Vault (%d)", len(snap.Vault)))

	line := strings.Join([]string{
		s.Brand.Render("AXIOM"),
		strings.Join(nav, " "),
		identity,
		vault,
	}, "   ")
	return s.Header.Render(line)
}

func (m Model) renderScreen(snap store.Snapshot) string {
	switch snap.View {
	case router.Product:
		if snap.Focused != nil {
			return m.renderProduct(*snap.Focused, snap.Authenticated)
		}
		return m.renderCollection()
	case router.Journal:
		if m.reading {
			return m.reader.View()
		}
		return m.renderJournal()
	case router.Atelier:
		return m.renderAtelier()
	default:
		return m.renderCollection()
	}
}

func (m Model) renderCollection() string {
	s := m.styles
	cat := m.store.Catalog()

	var b strings.Builder
	b.WriteString(s.Title.Render(cat.Title()) + "\n")
	b.WriteString(s.Subtitle.Render(cat.Description()) + "\n\n")
	for i, p := range cat.Products() {
		row := fmt.Sprintf("%-26s %-24s %s  %s", p.Name, p.Designer, p.Year, catalog.FormatPrice(p.Price))
		if i == m.cursor {
			b.WriteString(s.Selected.Render("> "+row) + "\n")
		} else {
			b.WriteString(s.Body.Render("  "+row) + "\n")
		}
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) renderProduct(p catalog.Product, member bool) string {
	s := m.styles

	var left strings.Builder
	left.WriteString(s.Title.Render(p.Name) + "\n")
	left.WriteString(s.Muted.Render(p.Designer+" · "+p.Year) + "\n\n")
	left.WriteString(s.Body.Width(48).Render(p.Description) + "\n\n")
	for _, d := range p.Details {
		left.WriteString(s.Muted.Render("  - "+d) + "\n")
	}
	left.WriteString("\n" + s.Price.Render(catalog.FormatPrice(p.Price)))
	if member {
		left.WriteString("   " + s.Member.Render("Reserve"))
	}
	left.WriteString("\n" + s.Muted.Render("[a] Acquire   [esc] Back"))

	var right strings.Builder
	right.WriteString(s.Label.Render("Digital Product Passport") + "\n\n")
	right.WriteString(s.Label.Render("Origin  ") + p.Provenance.Origin + "\n")
	right.WriteString(s.Label.Render("Artisan ") + p.Provenance.Artisan + "\n")
	right.WriteString(s.Label.Render("Impact  ") + p.Provenance.CarbonFootprint + "\n")
	right.WriteString(s.Label.Render("Composition ") + strings.Join(p.Provenance.Materials, ", ") + "\n\n")
	for _, score := range catalog.PassportScores() {
		right.WriteString(fmt.Sprintf("%-15s ", score.Subject))
		right.WriteString(m.bar.ViewAs(float64(score.Score)/float64(score.Max)) + "\n")
	}
	right.WriteString("\n" + s.Success.Render("Verified Provenance"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Padding(1, 2).Render(left.String()),
		s.Panel.Render(right.String()),
	)
}

func (m Model) renderJournal() string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.Title.Render("The Journal") + "\n")
	for i, a := range m.store.Catalog().Articles() {
		head := fmt.Sprintf("Issue %s  %s", a.IssueNumber, a.Title)
		if i == m.journalCursor {
			b.WriteString(s.Selected.Render("> "+head) + "\n")
		} else {
			b.WriteString(s.Body.Render("  "+head) + "\n")
		}
		b.WriteString(s.Muted.Render("    "+a.Subtitle+" · "+a.Date) + "\n")
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) renderAtelier() string {
	s := m.styles
	active := m.lab.Active()

	var tabs []string
	for _, p := range presetsNames() {
		if p == active.Name {
			tabs = append(tabs, s.NavActive.Render(p))
		} else {
			tabs = append(tabs, s.NavItem.Render(p))
		}
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("The Atelier") + "\n")
	b.WriteString(strings.Join(tabs, " ") + "\n\n")
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(active.Color)).Render("      ")
	b.WriteString(s.Label.Render("Color        ") + swatch + " " + active.Color + "\n")
	for _, row := range []struct {
		label string
		value float64
	}{
		{"Transmission", active.Transmission},
		{"Roughness", active.Roughness},
		{"Metalness", active.Metalness},
		{"Thickness", active.Thickness},
		{"IOR", active.IOR},
		{"Aberration", active.ChromaticAberration},
	} {
		b.WriteString(s.Label.Render(fmt.Sprintf("%-13s", row.label)) + fmt.Sprintf("%.2f", row.value) + "\n")
	}
	b.WriteString("\n" + s.Muted.Render("[m] Cycle material   [o/c/g] Obsidian, Chrome, Glass"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) renderVault(snap store.Snapshot) string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.Label.Render("The Vault") + "\n\n")
	if len(snap.Vault) == 0 {
		b.WriteString(s.Muted.Render("The archives are empty."))
		return s.Panel.Width(40).Render(b.String())
	}
	for i, p := range snap.Vault {
		row := fmt.Sprintf("%-22s %s", p.Name, catalog.FormatPrice(p.Price))
		if i == m.vaultCursor {
			b.WriteString(s.Selected.Render("> "+row) + "\n")
		} else {
			b.WriteString("  " + row + "\n")
		}
	}
	b.WriteString("\n" + s.Label.Render("Total Acquisition ") + s.Price.Render(catalog.FormatPrice(snap.Total)) + "\n\n")
	b.WriteString(s.Muted.Render("[c] Initialize Transfer   [x] Release"))
	return s.Panel.Width(40).Render(b.String())
}

func (m Model) renderGate(snap store.Snapshot) string {
	s := m.styles
	status := s.Body.Render(snap.ScanStatus)
	if snap.Scan == auth.ScanSuccess {
		status = s.Success.Render(snap.ScanStatus)
	}
	content := strings.Join([]string{
		s.Label.Render("Biometric Gate"),
		"",
		status,
		"",
		m.bar.ViewAs(snap.ScanProgress / 100),
		"",
		s.Muted.Render("hold [space] or the mouse   [esc] Abort Protocol"),
	}, "\n")
	return m.center(s.Modal.Render(content))
}

func (m Model) renderCheckout(snap store.Snapshot) string {
	s := m.styles
	var lines []string

	switch snap.Checkout {
	case checkout.Active, checkout.Processing:
		lines = append(lines, s.Label.Render("Acquisition Manifest"), "")
		for _, p := range snap.Vault {
			lines = append(lines, fmt.Sprintf("%-24s %s", p.Name, catalog.FormatPrice(p.Price)))
		}
		lines = append(lines, "",
			s.Label.Render("Total due ")+s.Price.Render(catalog.FormatPrice(snap.Total)),
			s.Muted.Render("Card ending 8842"),
			"",
			m.bar.ViewAs(snap.HoldProgress/100),
			s.Body.Render("Hold to Confirm"),
			"",
			s.Muted.Render("hold [space] or the mouse   [esc] Close"),
		)

	case checkout.Success:
		lines = append(lines, s.Success.Render("Ownership Secured"), "")
		if mf := snap.Manifest; mf != nil {
			lines = append(lines, s.Label.Render("Object Reference ")+mf.ID, "")
			for _, it := range mf.Items {
				lines = append(lines, fmt.Sprintf("%-24s %s", it.Name, catalog.FormatPrice(it.Price)))
			}
			lines = append(lines, "", s.Label.Render("Total ")+catalog.FormatPrice(mf.Total))
		}
		lines = append(lines, "",
			s.Muted.Render("Authenticated by AXIOM Ledger"),
			s.Muted.Render("Preparing Shipment"),
		)
	}

	return m.center(s.Modal.Render(strings.Join(lines, "\n")))
}

func (m Model) renderNotifications(items []notify.Notification) string {
	if len(items) == 0 {
		return ""
	}
	var lines []string
	for _, n := range items {
		style := m.styles.Info
		if n.Kind == notify.KindSuccess {
			style = m.styles.Success
		}
		lines = append(lines, style.Render("◆ "+n.Message))
	}
	block := strings.Join(lines, "\n")
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, block)
	}
	return block
}

func (m Model) renderCurator(member bool) string {
	s := m.styles
	title := "The Curator"
	if member {
		title = "Private Concierge  " + s.Muted.Render("Priority Channel Active")
		m.input.Placeholder = "Request details..."
	}

	var b strings.Builder
	b.WriteString(s.Label.Render(title) + "\n\n")
	if m.curator != nil {
		for _, t := range m.curator.Transcript() {
			if t.Role == curator.RoleUser {
				b.WriteString(s.UserLine.Width(52).Render(t.Text) + "\n")
			} else {
				b.WriteString(s.ModelLine.Width(52).Render(t.Text) + "\n")
			}
		}
		if m.curator.Thinking() {
			b.WriteString(s.Muted.Render("Thinking...") + "\n")
		}
	}
	b.WriteString("\n" + m.input.View())
	return s.Panel.Width(60).Render(b.String())
}

func (m Model) renderFooter(snap store.Snapshot) string {
	var help string
	switch {
	case snap.AuthModalOpen, snap.Checkout != checkout.Idle:
		help = "space hold · esc close"
	case m.curatorOpen:
		help = "enter send · esc close"
	case m.reading:
		help = "↑/↓ scroll · esc back"
	default:
		help = "1-3 sections · ↑/↓ select · enter open · v vault · / curator · d dismiss · q quit"
	}
	return m.styles.Footer.Render(help)
}

func (m Model) center(block string) string {
	if m.width == 0 || m.height == 0 {
		return block
	}
	return lipgloss.Place(m.width, max(m.height-6, lipgloss.Height(block)), lipgloss.Center, lipgloss.Center, block)
}

func presetsNames() []string {
	var names []string
	for _, p := range atelier.Presets() {
		names = append(names, p.Name)
	}
	return names
}
