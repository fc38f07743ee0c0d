package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"axiom/internal/catalog"
	"axiom/internal/checkout"
	"axiom/internal/curator"
	"axiom/internal/router"
	"axiom/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, _ string, turns []curator.Turn) (curator.Reply, error) {
	return curator.Reply{Text: "Noted: " + turns[len(turns)-1].Text}, nil
}

type gatedGenerator struct{ release chan struct{} }

func (g gatedGenerator) Generate(ctx context.Context, system string, turns []curator.Turn) (curator.Reply, error) {
	<-g.release
	return echoGenerator{}.Generate(ctx, system, turns)
}

func newModel(t *testing.T) Model {
	t.Helper()
	return newModelWith(t, echoGenerator{})
}

func newModelWith(t *testing.T, gen curator.Generator) Model {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	c := curator.New(gen, curator.Options{})
	st := store.New(cat, nil, store.DefaultConfig(), store.Hooks{AuthChanged: c.SetMember}, nil)
	m := New(Options{Store: st, Curator: c, Theme: "dark"})
	return send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// frames drives the frame clock for d of wall time in 16ms steps.
func frames(t *testing.T, m Model, start time.Time, d time.Duration) (Model, time.Time) {
	t.Helper()
	now := start
	m = send(t, m, frameMsg(now))
	for elapsed := time.Duration(0); elapsed < d; elapsed += 16 * time.Millisecond {
		now = now.Add(16 * time.Millisecond)
		m = send(t, m, frameMsg(now))
	}
	return m, now
}

func TestSpaceHoldAuthenticates(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("i"))
	require.True(t, m.store.Snapshot().AuthModalOpen)
	assert.Contains(t, m.View(), "Hold to Identify")

	m = send(t, m, key(" "))
	assert.True(t, m.store.Holding())

	m, _ = frames(t, m, time.Unix(0, 0), 50*16*time.Millisecond+1100*time.Millisecond)
	snap := m.store.Snapshot()
	assert.True(t, snap.Authenticated)
	assert.False(t, snap.AuthModalOpen)
	assert.Contains(t, m.View(), "Obsidian Member")
	assert.True(t, m.curator.Member())
}

func TestEarlyReleaseAbortsScan(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("i"))
	m = send(t, m, key(" "))
	m, _ = frames(t, m, time.Unix(0, 0), 200*time.Millisecond)
	require.Greater(t, m.store.Snapshot().ScanProgress, 0.0)

	m = send(t, m, key(" "))
	assert.Equal(t, 0.0, m.store.Snapshot().ScanProgress)

	m = send(t, m, key("esc"))
	assert.False(t, m.store.Snapshot().AuthModalOpen)
}

func TestMouseHoldDrivesCheckout(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("enter")) // focus first product
	require.Equal(t, router.Product, m.store.Snapshot().View)
	m = send(t, m, key("a"))
	require.Len(t, m.store.Snapshot().Vault, 1)
	require.True(t, m.store.Snapshot().VaultOpen)

	m = send(t, m, key("c"))
	require.Equal(t, checkout.Active, m.store.Snapshot().Checkout)
	assert.Contains(t, m.View(), "Hold to Confirm")

	m = send(t, m, tea.MouseMsg{Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	require.Equal(t, checkout.Processing, m.store.Snapshot().Checkout)

	m, now := frames(t, m, time.Unix(0, 0), 67*16*time.Millisecond)
	snap := m.store.Snapshot()
	require.Equal(t, checkout.Success, snap.Checkout)
	assert.Contains(t, m.View(), "Ownership Secured")
	assert.Contains(t, m.View(), snap.Manifest.ID)

	m = send(t, m, tea.MouseMsg{Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	m, _ = frames(t, m, now, 4100*time.Millisecond)
	snap = m.store.Snapshot()
	assert.Equal(t, checkout.Idle, snap.Checkout)
	assert.Empty(t, snap.Vault)
}

func TestNotificationsPresentedAfterFirstFrame(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("enter"))
	m = send(t, m, key("a"))
	require.Len(t, m.store.Unpresented(), 1)
	assert.Contains(t, m.View(), "Secured in Vault: Eames Lounge 670")

	start := time.Unix(0, 0)
	m = send(t, m, frameMsg(start))
	assert.Len(t, m.store.Unpresented(), 1, "reported only after it has been drawn")
	m = send(t, m, frameMsg(start.Add(16*time.Millisecond)))
	assert.Empty(t, m.store.Unpresented())

	m, _ = frames(t, m, start.Add(16*time.Millisecond), 3100*time.Millisecond)
	assert.Empty(t, m.store.Snapshot().Notifications)
}

func TestFrameStepIsCapped(t *testing.T) {
	m := newModel(t)
	start := time.Unix(0, 0)
	m = send(t, m, frameMsg(start))
	m = send(t, m, frameMsg(start.Add(time.Hour)))
	assert.Equal(t, maxFrameStep, m.store.Now())
}

func TestCuratorRoundTrip(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("/"))
	require.True(t, m.curatorOpen)
	m = send(t, m, key("Who made the Tizio?"))

	next, cmd := m.Update(key("enter"))
	m = next.(Model)
	require.NotNil(t, cmd)
	reply, ok := cmd().(curatorReplyMsg)
	require.True(t, ok)
	assert.Equal(t, "Noted: Who made the Tizio?", reply.text)
	m = send(t, m, reply)

	view := m.View()
	assert.Contains(t, view, "Welcome to AXIOM.")
	assert.Contains(t, view, "Noted: Who made the Tizio?")

	m = send(t, m, key("esc"))
	assert.False(t, m.curatorOpen)
}

func TestEnterWaitsForOutstandingReply(t *testing.T) {
	gate := gatedGenerator{release: make(chan struct{})}
	m := newModelWith(t, gate)
	m = send(t, m, key("/"))
	m = send(t, m, key("first"))

	next, cmd := m.Update(key("enter"))
	m = next.(Model)
	require.NotNil(t, cmd)
	replies := make(chan tea.Msg, 1)
	go func() { replies <- cmd() }()
	require.Eventually(t, m.curator.Thinking, time.Second, time.Millisecond)

	m = send(t, m, key("second"))
	next, cmd = m.Update(key("enter"))
	m = next.(Model)
	assert.Nil(t, cmd, "no second exchange while one is outstanding")
	assert.Equal(t, "second", m.input.Value())

	close(gate.release)
	reply := (<-replies).(curatorReplyMsg)
	assert.Equal(t, "Noted: first", reply.text)
	m = send(t, m, reply)

	_, cmd = m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, "Noted: second", cmd().(curatorReplyMsg).text)
}

func TestJournalReader(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("2"))
	require.Equal(t, router.Journal, m.store.Snapshot().View)
	m = send(t, m, key("enter"))
	require.True(t, m.reading)

	first := m.store.Catalog().Articles()[0]
	words := strings.Fields(first.Title)
	assert.Contains(t, m.View(), words[len(words)-1])
	assert.NotContains(t, m.View(), "The Journal", "reader replaces the index")

	m = send(t, m, key("esc"))
	assert.False(t, m.reading)
}

func TestAtelierCycle(t *testing.T) {
	m := newModel(t)
	m = send(t, m, key("3"))
	assert.Contains(t, m.View(), "The Atelier")
	m = send(t, m, key("m"))
	assert.Equal(t, "chrome", m.lab.Active().Name)
	m = send(t, m, key("g"))
	assert.Equal(t, "glass", m.lab.Active().Name)
}

func TestBrowsingLogsNoWarnings(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cat, err := catalog.Default()
	require.NoError(t, err)
	st := store.New(cat, nil, store.DefaultConfig(), store.Hooks{}, nil)
	m := New(Options{Store: st, Theme: "dark", Logger: zap.New(core)})
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m = send(t, m, key("enter"))
	require.Equal(t, router.Product, st.Snapshot().View)
	m = send(t, m, key("a"))
	assert.Len(t, st.Snapshot().Vault, 1)

	m = send(t, m, key("v"))
	require.False(t, st.Snapshot().VaultOpen)
	m = send(t, m, key("3"))
	for _, k := range []string{"o", "c", "g"} {
		m = send(t, m, key(k))
	}
	assert.Equal(t, "glass", m.lab.Active().Name)
	assert.Zero(t, logs.Len(), "unexpected warnings: %v", logs.All())
}

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("AXIOM_LIGHT_MODE", "")
	assert.True(t, DetectTheme("auto").IsDark)
	assert.False(t, DetectTheme("light").IsDark)

	t.Setenv("COLORFGBG", "0;15")
	assert.False(t, DetectTheme("auto").IsDark)

	t.Setenv("COLORFGBG", "")
	t.Setenv("AXIOM_LIGHT_MODE", "1")
	assert.False(t, DetectTheme("auto").IsDark)
	assert.True(t, DetectTheme("dark").IsDark)
}
