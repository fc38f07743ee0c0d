package hold

import (
	"testing"
	"time"

	"axiom/internal/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeterCompletesOnceAndClamps(t *testing.T) {
	s := clock.New()
	m := NewMeter(s, 16*time.Millisecond, 1.5)
	done := 0
	m.Start(func() { done++ })

	// 1.5 per tick needs 67 ticks to reach 100.
	s.Advance(66 * 16 * time.Millisecond)
	require.Equal(t, 0, done)
	assert.InDelta(t, 99.0, m.Progress(), 1e-9)

	s.Advance(16 * time.Millisecond)
	assert.Equal(t, 1, done)
	assert.Equal(t, Full, m.Progress())
	assert.False(t, m.Running())

	s.Advance(time.Second)
	assert.Equal(t, 1, done)
	assert.Equal(t, 67, m.Ticks())
	assert.Equal(t, 0, s.Pending())
}

func TestMeterAbortResets(t *testing.T) {
	s := clock.New()
	m := NewMeter(s, 16*time.Millisecond, 2)
	m.Start(nil)
	s.Advance(10 * 16 * time.Millisecond)
	require.InDelta(t, 20.0, m.Progress(), 1e-9)

	m.Abort()
	assert.Equal(t, 0.0, m.Progress())
	assert.False(t, m.Running())
	assert.Equal(t, 0, s.Pending())

	m.Abort()
	assert.Equal(t, 0.0, m.Progress())
}

func TestMeterProgressIsMonotonic(t *testing.T) {
	s := clock.New()
	m := NewMeter(s, 16*time.Millisecond, 2)
	m.Start(nil)

	last := 0.0
	for i := 0; i < 60; i++ {
		s.Advance(16 * time.Millisecond)
		require.GreaterOrEqual(t, m.Progress(), last)
		require.LessOrEqual(t, m.Progress(), Full)
		last = m.Progress()
	}
}

func TestMeterStartWhileRunningIsNoop(t *testing.T) {
	s := clock.New()
	m := NewMeter(s, 16*time.Millisecond, 2)
	m.Start(nil)
	s.Advance(5 * 16 * time.Millisecond)

	m.Start(nil)
	assert.InDelta(t, 10.0, m.Progress(), 1e-9)
	assert.Equal(t, 1, s.Pending())
}

func TestMeterDefaultsInterval(t *testing.T) {
	s := clock.New()
	m := NewMeter(s, 0, 50)
	m.Start(nil)
	s.Advance(2 * DefaultInterval)
	assert.True(t, m.Complete())
}
