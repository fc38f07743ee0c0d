package checkout

import (
	"testing"
	"time"

	"axiom/internal/catalog"
	"axiom/internal/clock"
	"axiom/internal/hold"
	"axiom/internal/notify"
	"axiom/internal/vault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 16 * time.Millisecond

type harness struct {
	sched   *clock.Scheduler
	queue   *notify.Queue
	vault   *vault.Vault
	machine *Machine
	settled []Manifest
	member  bool
	catalog *catalog.Catalog
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)

	h := &harness{sched: clock.New(), catalog: c}
	h.queue = notify.NewQueue(h.sched)
	h.vault = vault.New(h.queue, nil)
	h.machine = New(h.sched, DefaultConfig(), h.vault, h.queue, Options{
		OnSettled: func(m Manifest) { h.settled = append(h.settled, m) },
		Member:    func() bool { return h.member },
		Now:       func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) },
	})
	return h
}

func (h *harness) add(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		p, ok := h.catalog.Product(id)
		require.True(t, ok)
		h.vault.Add(p)
	}
	h.queue.Reset()
}

func TestOpenRequiresItems(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.machine.Open())
	assert.Equal(t, Idle, h.machine.State())

	h.add(t, "p1")
	assert.True(t, h.machine.Open())
	assert.Equal(t, Active, h.machine.State())
	assert.False(t, h.machine.Open(), "already active")
}

func TestFullRitual(t *testing.T) {
	h := newHarness(t)
	h.add(t, "p1", "p3")
	h.member = true
	require.True(t, h.machine.Open())
	require.True(t, h.machine.StartHold())
	assert.Equal(t, Processing, h.machine.State())

	h.sched.Advance(66 * tick)
	assert.Equal(t, Processing, h.machine.State())

	h.sched.Advance(tick)
	require.Equal(t, Success, h.machine.State())
	assert.Equal(t, hold.Full, h.machine.Progress())

	require.Len(t, h.settled, 1)
	m := h.settled[0]
	assert.Equal(t, int64(6495+3499), m.Total)
	assert.Equal(t, 2, m.Count())
	assert.Equal(t, "p1", m.Items[0].ProductID)
	assert.True(t, m.Member)
	assert.NotEmpty(t, m.ID)

	got, ok := h.machine.Manifest()
	require.True(t, ok)
	assert.Equal(t, m.ID, got.ID)

	assert.Equal(t, 0, h.vault.Len(), "vault clears at settlement")
	assert.True(t, h.vault.IsOpen())
	assert.Equal(t, 0, h.queue.Len())

	h.sched.Advance(3999 * time.Millisecond)
	assert.Equal(t, Success, h.machine.State())

	h.sched.Advance(time.Millisecond)
	assert.Equal(t, Idle, h.machine.State())
	assert.Equal(t, 0.0, h.machine.Progress())
	assert.False(t, h.vault.IsOpen())
	require.Equal(t, 1, h.queue.Len())
	n := h.queue.Items()[0]
	assert.Equal(t, "Shipment Manifest Generated", n.Message)
	assert.Equal(t, notify.KindSuccess, n.Kind)

	h.sched.Advance(time.Minute)
	assert.Len(t, h.settled, 1, "success happens exactly once")
}

func TestReleaseAtFortyPercentReturnsToActive(t *testing.T) {
	h := newHarness(t)
	h.add(t, "p2")
	h.machine.Open()
	h.machine.StartHold()

	// 1.5 per tick: 27 ticks is 40.5, release once progress passes 40.
	h.sched.Advance(27 * tick)
	require.GreaterOrEqual(t, h.machine.Progress(), 40.0)

	require.True(t, h.machine.ReleaseHold())
	assert.Equal(t, Active, h.machine.State())
	assert.Equal(t, 0.0, h.machine.Progress())
	assert.Equal(t, 0, h.sched.Pending())

	assert.False(t, h.machine.ReleaseHold())
	assert.Equal(t, Active, h.machine.State())
}

func TestInvalidTransitionsAreNoops(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.machine.StartHold(), "idle")
	assert.False(t, h.machine.ReleaseHold(), "idle")

	h.add(t, "p1")
	h.machine.Open()
	assert.False(t, h.machine.ReleaseHold(), "active")

	h.machine.StartHold()
	h.sched.Advance(10 * tick)
	assert.False(t, h.machine.StartHold(), "already processing")
	assert.InDelta(t, 15.0, h.machine.Progress(), 1e-9)
}

func TestCloseFromEveryState(t *testing.T) {
	h := newHarness(t)
	h.add(t, "p1")

	h.machine.Open()
	h.machine.Close()
	assert.Equal(t, Idle, h.machine.State())

	h.machine.Open()
	h.machine.StartHold()
	h.sched.Advance(20 * tick)
	h.machine.Close()
	assert.Equal(t, Idle, h.machine.State())
	assert.Equal(t, 0.0, h.machine.Progress())
	assert.Equal(t, 0, h.sched.Pending())
	assert.Equal(t, 1, h.vault.Len())

	h.machine.Open()
	h.machine.StartHold()
	h.sched.Advance(67 * tick)
	require.Equal(t, Success, h.machine.State())
	h.machine.Close()
	assert.Equal(t, Idle, h.machine.State())
	assert.Equal(t, 0, h.sched.Pending())

	h.sched.Advance(10 * time.Second)
	assert.Equal(t, 0, h.queue.Len(), "early close skips the closing notification")
	assert.True(t, h.vault.IsOpen())
}

func TestVaultEmptiedDuringHoldBlocksSuccess(t *testing.T) {
	h := newHarness(t)
	h.add(t, "p2")
	h.machine.Open()
	h.machine.StartHold()
	h.sched.Advance(30 * tick)

	h.vault.Remove("p2")
	h.sched.Advance(40 * tick)

	assert.Equal(t, Active, h.machine.State())
	assert.Equal(t, 0.0, h.machine.Progress())
	assert.Empty(t, h.settled)
	_, ok := h.machine.Manifest()
	assert.False(t, ok)
}

func TestOpenClearsPreviousManifest(t *testing.T) {
	h := newHarness(t)
	h.add(t, "p1")
	h.machine.Open()
	h.machine.StartHold()
	h.sched.Advance(67*tick + 4*time.Second)
	_, ok := h.machine.Manifest()
	require.True(t, ok)

	h.add(t, "p2")
	require.True(t, h.machine.Open())
	_, ok = h.machine.Manifest()
	assert.False(t, ok)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "processing", Processing.String())
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "unknown", State(42).String())
}
