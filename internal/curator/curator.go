// Package curator is the AXIOM concierge: a short conversation with a hosted
// text model under a fixed persona. Failures never surface as errors; the
// visitor sees a neutral line instead.
package curator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"axiom/internal/usage"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var errNoGenerator = errors.New("curator: no generator configured")

// Role identifies who said a turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one line of the conversation.
type Turn struct {
	Role Role
	Text string
}

// Reply is a model response with its token accounting.
type Reply struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Generator produces a reply for a conversation.
type Generator interface {
	Generate(ctx context.Context, system string, turns []Turn) (Reply, error)
}

// Options configures a Curator.
type Options struct {
	// Model labels usage records.
	Model string
	// Timeout bounds each request. Zero means no extra bound.
	Timeout time.Duration
	// RatePerMinute throttles requests. Zero disables throttling.
	RatePerMinute int
	Burst         int

	Tracker *usage.Tracker
	Logger  *zap.Logger
}

// Curator holds one conversation. It is safe for concurrent use: the UI reads
// Transcript while a Send runs in a background command.
type Curator struct {
	gen     Generator
	opts    Options
	limiter *rate.Limiter
	log     *zap.Logger

	// send serializes exchanges so each one sees the previous reply.
	send sync.Mutex

	mu      sync.Mutex
	member  bool
	epoch   uint64
	history []Turn // exchanged with the model, greeting excluded
	shown   []Turn // what the visitor sees
	pending int
}

// New creates a curator greeting a guest. gen may be nil, in which case every
// message gets the unavailable fallback.
func New(gen Generator, opts Options) *Curator {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	c := &Curator{gen: gen, opts: opts, log: log}
	if opts.RatePerMinute > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), burst)
	}
	c.Reset(false)
	return c
}

// Reset starts a new conversation for a guest or a member. Replies still in
// flight from the previous conversation are discarded.
func (c *Curator) Reset(member bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.member = member
	c.epoch++
	c.history = nil
	c.shown = []Turn{{Role: RoleModel, Text: Greeting(member)}}
	c.pending = 0
}

// SetMember resets the conversation when membership changes.
func (c *Curator) SetMember(member bool) {
	c.mu.Lock()
	same := c.member == member
	c.mu.Unlock()
	if !same {
		c.Reset(member)
	}
}

// Member reports the audience of the current conversation.
func (c *Curator) Member() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.member
}

// Transcript returns a copy of the visible conversation.
func (c *Curator) Transcript() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Turn, len(c.shown))
	copy(out, c.shown)
	return out
}

// Thinking reports whether a reply is outstanding.
func (c *Curator) Thinking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending > 0
}

// Send asks the model and returns the line shown to the visitor. Blank
// messages are ignored and return "". It blocks for the duration of the call;
// concurrent sends run one after another in arrival order.
func (c *Curator) Send(ctx context.Context, message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return ""
	}

	c.send.Lock()
	defer c.send.Unlock()

	c.mu.Lock()
	epoch := c.epoch
	member := c.member
	c.shown = append(c.shown, Turn{Role: RoleUser, Text: message})
	turns := make([]Turn, len(c.history), len(c.history)+1)
	copy(turns, c.history)
	turns = append(turns, Turn{Role: RoleUser, Text: message})
	c.pending++
	c.mu.Unlock()

	reply, err := c.generate(ctx, member, turns)

	text := reply.Text
	switch {
	case err != nil:
		c.log.Warn("curator connection failed", zap.Error(err))
		text = FallbackUnavailable
	case strings.TrimSpace(text) == "":
		text = FallbackSilent
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		c.log.Debug("dropping reply from a previous conversation")
		return text
	}
	c.pending--
	c.shown = append(c.shown, Turn{Role: RoleModel, Text: text})
	if err == nil && strings.TrimSpace(reply.Text) != "" {
		c.history = append(turns, Turn{Role: RoleModel, Text: reply.Text})
	}
	return text
}

func (c *Curator) generate(ctx context.Context, member bool, turns []Turn) (Reply, error) {
	if c.gen == nil {
		return Reply{}, errNoGenerator
	}
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Reply{}, err
		}
	}

	start := time.Now()
	reply, err := c.gen.Generate(ctx, SystemInstruction(member), turns)
	if err != nil {
		return Reply{}, err
	}

	c.log.Info("curator replied",
		zap.Bool("member", member),
		zap.Int("turns", len(turns)),
		zap.Int("input_tokens", reply.InputTokens),
		zap.Int("output_tokens", reply.OutputTokens),
		zap.Duration("latency", time.Since(start)))
	if c.opts.Tracker != nil {
		c.opts.Tracker.Track(usage.WithAudience(ctx, member), c.opts.Model, reply.InputTokens, reply.OutputTokens, "reply")
	}
	return reply, nil
}
