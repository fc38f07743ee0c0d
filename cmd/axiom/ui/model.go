package ui

import (
	"context"
	"time"

	"axiom/internal/atelier"
	"axiom/internal/curator"
	"axiom/internal/store"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

// maxFrameStep caps how much virtual time one frame may advance, so a
// suspended terminal does not complete a hold the visitor never made.
const maxFrameStep = 250 * time.Millisecond

// Options wires the model to the application.
type Options struct {
	Store   *store.Store
	Curator *curator.Curator
	Theme   string

	// FrameInterval is the render and scheduler period. Defaults to 16ms.
	FrameInterval time.Duration

	Context context.Context
	Logger  *zap.Logger
}

type frameMsg time.Time

type curatorReplyMsg struct{ text string }

// Model is the bubbletea model of the storefront.
type Model struct {
	store   *store.Store
	curator *curator.Curator
	lab     *atelier.Lab
	styles  Styles
	ctx     context.Context
	log     *zap.Logger

	width, height int
	frame         time.Duration
	lastFrame     time.Time

	// notifications drawn by the previous View, reported as presented next frame
	drawn []string

	cursor        int // collection row
	journalCursor int
	vaultCursor   int

	reading  bool
	reader   viewport.Model
	renderer *glamour.TermRenderer

	curatorOpen bool
	input       textinput.Model

	bar progress.Model

	quitting bool
}

// New builds the model.
func New(opts Options) Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = 16 * time.Millisecond
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	styles := NewStyles(DetectTheme(opts.Theme))

	ti := textinput.New()
	ti.Placeholder = "Ask about provenance..."
	ti.CharLimit = 280
	ti.Width = 48

	bar := progress.New(
		progress.WithSolidFill(string(styles.Theme.Primary)),
		progress.WithoutPercentage(),
		progress.WithWidth(40),
	)

	return Model{
		store:   opts.Store,
		curator: opts.Curator,
		lab:     atelier.NewLab(),
		styles:  styles,
		ctx:     opts.Context,
		log:     opts.Logger,
		frame:   opts.FrameInterval,
		reader:  viewport.New(80, 20),
		input:   ti,
		bar:     bar,
	}
}

// Init starts the frame clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), textinput.Blink)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m = m.advance(time.Time(msg))
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.reader.Width = max(20, msg.Width-8)
		m.reader.Height = max(5, msg.Height-8)
		m.renderer = nil
		if m.reading {
			m.loadArticle()
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case curatorReplyMsg:
		m.log.Debug("curator reply delivered", zap.Int("len", len(msg.text)))
		return m, nil
	}

	return m, nil
}

// advance moves virtual time by the wall time since the previous frame and
// reports notifications drawn by the previous View as presented.
func (m Model) advance(now time.Time) Model {
	if !m.lastFrame.IsZero() {
		step := now.Sub(m.lastFrame)
		if step > maxFrameStep {
			step = maxFrameStep
		}
		if step > 0 {
			m.store.Advance(step)
		}
	}
	m.lastFrame = now

	for _, id := range m.drawn {
		m.store.Presented(id)
	}
	m.drawn = m.store.Unpresented()
	return m
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		m.store.StartHold()
	case tea.MouseActionRelease:
		m.store.ReleaseHold()
	}
	return m, nil
}

func (m Model) askCurator(text string) tea.Cmd {
	c, ctx := m.curator, m.ctx
	return func() tea.Msg {
		return curatorReplyMsg{text: c.Send(ctx, text)}
	}
}
