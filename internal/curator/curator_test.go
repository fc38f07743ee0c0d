package curator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"axiom/internal/usage"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeGenerator struct {
	replies []Reply
	err     error
	systems []string
	calls   [][]Turn
	before  func()
}

func (f *fakeGenerator) Generate(_ context.Context, system string, turns []Turn) (Reply, error) {
	if f.before != nil {
		f.before()
	}
	f.systems = append(f.systems, system)
	f.calls = append(f.calls, turns)
	if f.err != nil {
		return Reply{}, f.err
	}
	if len(f.replies) == 0 {
		return Reply{}, nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

func TestGreetingDependsOnMembership(t *testing.T) {
	c := New(&fakeGenerator{}, Options{})
	require.Len(t, c.Transcript(), 1)
	assert.Equal(t, GreetingGuest, c.Transcript()[0].Text)

	c.SetMember(true)
	assert.Equal(t, []Turn{{Role: RoleModel, Text: GreetingMember}}, c.Transcript())
	assert.True(t, c.Member())
}

func TestSendKeepsHistory(t *testing.T) {
	gen := &fakeGenerator{replies: []Reply{
		{Text: "Walnut and leather, 1956.", InputTokens: 12, OutputTokens: 6},
		{Text: "Charles and Ray Eames."},
	}}
	tracker, err := usage.NewTracker("")
	require.NoError(t, err)
	c := New(gen, Options{Model: "m", Tracker: tracker})

	assert.Equal(t, "Walnut and leather, 1956.", c.Send(context.Background(), "What is the 670 made of?"))
	assert.Equal(t, "Charles and Ray Eames.", c.Send(context.Background(), "  Designer?  "))

	want := []Turn{
		{Role: RoleUser, Text: "What is the 670 made of?"},
		{Role: RoleModel, Text: "Walnut and leather, 1956."},
		{Role: RoleUser, Text: "Designer?"},
	}
	if diff := cmp.Diff(want, gen.calls[1]); diff != "" {
		t.Fatalf("second call history mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, c.Transcript(), 5, "greeting plus two exchanges")
	assert.Equal(t, Persona, gen.systems[0])
	assert.False(t, c.Thinking())

	stats := tracker.Stats()
	assert.Equal(t, int64(2), stats.Requests)
	assert.Equal(t, int64(18), stats.ByModel["m"].Total)
	assert.Equal(t, int64(18), stats.ByAudience[usage.AudienceGuest].Total)
}

func TestMemberInstruction(t *testing.T) {
	gen := &fakeGenerator{replies: []Reply{{Text: "Noted."}}}
	c := New(gen, Options{})
	c.Reset(true)
	c.Send(context.Background(), "Status of my acquisition")

	require.Len(t, gen.systems, 1)
	assert.True(t, strings.HasPrefix(gen.systems[0], Persona))
	assert.Contains(t, gen.systems[0], "USER CONTEXT: Authenticated Elite Member. Address them as an Elite Member. Be extremely efficient and precise.")
}

func TestFallbacks(t *testing.T) {
	t.Run("empty reply", func(t *testing.T) {
		c := New(&fakeGenerator{replies: []Reply{{Text: "   "}}}, Options{})
		assert.Equal(t, FallbackSilent, c.Send(context.Background(), "hello"))
	})

	t.Run("error", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("503")}
		c := New(gen, Options{})
		assert.Equal(t, FallbackUnavailable, c.Send(context.Background(), "hello"))
		last := c.Transcript()[len(c.Transcript())-1]
		assert.Equal(t, Turn{Role: RoleModel, Text: FallbackUnavailable}, last)

		// A failed exchange is not replayed to the model.
		gen.err = nil
		c.Send(context.Background(), "again")
		assert.Equal(t, []Turn{{Role: RoleUser, Text: "again"}}, gen.calls[1])
	})

	t.Run("no generator", func(t *testing.T) {
		c := New(nil, Options{})
		assert.Equal(t, FallbackUnavailable, c.Send(context.Background(), "hello"))
	})

	t.Run("cancelled while throttled", func(t *testing.T) {
		c := New(&fakeGenerator{replies: []Reply{{Text: "a"}, {Text: "b"}}}, Options{RatePerMinute: 1, Burst: 1})
		assert.Equal(t, "a", c.Send(context.Background(), "first"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.Equal(t, FallbackUnavailable, c.Send(ctx, "second"))
	})
}

func TestBlankMessageIgnored(t *testing.T) {
	gen := &fakeGenerator{}
	c := New(gen, Options{})
	assert.Equal(t, "", c.Send(context.Background(), "  \n"))
	assert.Empty(t, gen.calls)
	assert.Len(t, c.Transcript(), 1)
}

func TestResetDropsInFlightReply(t *testing.T) {
	c := New(nil, Options{})
	gen := &fakeGenerator{replies: []Reply{{Text: "stale"}}}
	gen.before = func() {
		assert.True(t, c.Thinking())
		c.Reset(true)
	}
	c.gen = gen

	c.Send(context.Background(), "question from a guest")
	assert.Equal(t, []Turn{{Role: RoleModel, Text: GreetingMember}}, c.Transcript())
	assert.False(t, c.Thinking())
}

func TestOverlappingSendsKeepEveryExchange(t *testing.T) {
	gen := &fakeGenerator{replies: []Reply{{Text: "re:one"}, {Text: "re:two"}, {Text: "re:three"}}}
	c := New(gen, Options{})

	second := make(chan string, 1)
	first := true
	gen.before = func() {
		if !first {
			return
		}
		first = false
		started := make(chan struct{})
		go func() {
			close(started)
			second <- c.Send(context.Background(), "two")
		}()
		<-started
		// Give the second send time to queue behind this one.
		time.Sleep(20 * time.Millisecond)
	}

	assert.Equal(t, "re:one", c.Send(context.Background(), "one"))
	assert.Equal(t, "re:two", <-second)
	assert.Equal(t, "re:three", c.Send(context.Background(), "three"))

	want := []Turn{
		{Role: RoleUser, Text: "one"},
		{Role: RoleModel, Text: "re:one"},
		{Role: RoleUser, Text: "two"},
		{Role: RoleModel, Text: "re:two"},
		{Role: RoleUser, Text: "three"},
	}
	require.Len(t, gen.calls, 3)
	if diff := cmp.Diff(want, gen.calls[2]); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
	got := c.Transcript()
	require.Len(t, got, 7)
	if diff := cmp.Diff(append([]Turn{{Role: RoleModel, Text: GreetingGuest}}, append(want, Turn{Role: RoleModel, Text: "re:three"})...), got); diff != "" {
		t.Fatalf("transcript mismatch (-want +got):\n%s", diff)
	}
}
