package ui

import (
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// RenderMarkdown renders journal Markdown for a terminal of the given width.
func RenderMarkdown(md string, width int, dark bool) (string, error) {
	r, err := newRenderer(width, dark)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func newRenderer(width int, dark bool) (*glamour.TermRenderer, error) {
	style := "light"
	if dark {
		style = "dark"
	}
	if width < 20 {
		width = 80
	}
	return glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
}

// loadArticle renders the selected article into the reader viewport.
func (m *Model) loadArticle() {
	articles := m.store.Catalog().Articles()
	if m.journalCursor >= len(articles) {
		return
	}
	a := articles[m.journalCursor]
	md := m.store.Catalog().Markdown(a)

	if m.renderer == nil {
		r, err := newRenderer(m.reader.Width, m.styles.Theme.IsDark)
		if err != nil {
			m.log.Warn("markdown renderer unavailable", zap.Error(err))
		}
		m.renderer = r
	}

	out := md
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(md); err == nil {
			out = rendered
		} else {
			m.log.Warn("failed to render article", zap.String("id", a.ID), zap.Error(err))
		}
	}
	m.reader.SetContent(out)
	m.reader.GotoTop()
}
