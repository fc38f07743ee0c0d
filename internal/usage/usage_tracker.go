package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type contextKey struct{}

type audienceKey struct{}

// Audience labels for ByAudience.
const (
	AudienceGuest  = "guest"
	AudienceMember = "member"
)

// Tracker manages token usage recording and persistence.
type Tracker struct {
	mu       sync.Mutex
	data     UsageData
	filePath string
	dirty    bool
}

// NewTracker creates a tracker persisting to <dataDir>/usage.json.
// An empty dataDir keeps the counters in memory only.
func NewTracker(dataDir string) (*Tracker, error) {
	t := &Tracker{data: emptyData()}
	if dataDir == "" {
		return t, nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	t.filePath = filepath.Join(dataDir, "usage.json")

	if err := t.Load(); err != nil {
		return nil, fmt.Errorf("failed to load usage: %w", err)
	}
	return t, nil
}

func emptyData() UsageData {
	return UsageData{
		Version: "1.0",
		Aggregate: AggregatedStats{
			ByModel:     make(map[string]TokenCounts),
			ByOperation: make(map[string]TokenCounts),
			ByAudience:  make(map[string]TokenCounts),
		},
	}
}

// Load reads the usage data from disk.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.filePath == "" {
		return nil
	}
	data, err := os.ReadFile(t.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &t.data); err != nil {
		return err
	}

	// Ensure maps are initialized if file was empty/partial
	if t.data.Aggregate.ByModel == nil {
		t.data.Aggregate.ByModel = make(map[string]TokenCounts)
	}
	if t.data.Aggregate.ByOperation == nil {
		t.data.Aggregate.ByOperation = make(map[string]TokenCounts)
	}
	if t.data.Aggregate.ByAudience == nil {
		t.data.Aggregate.ByAudience = make(map[string]TokenCounts)
	}
	return nil
}

// Save writes the usage data to disk if anything changed since the last save.
func (t *Tracker) Save() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.filePath == "" || !t.dirty {
		return nil
	}
	if err := t.saveLocked(); err != nil {
		return err
	}
	t.dirty = false
	return nil
}

func (t *Tracker) saveLocked() error {
	data, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(t.filePath, data, 0644)
}

// Track records a new usage event.
func (t *Tracker) Track(ctx context.Context, model string, input, output int, operation string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	audience := AudienceGuest
	if v, ok := ctx.Value(audienceKey{}).(string); ok && v != "" {
		audience = v
	}

	t.data.Aggregate.Total.Add(input, output)
	t.data.Aggregate.Requests++
	addToMap(t.data.Aggregate.ByModel, model, input, output)
	addToMap(t.data.Aggregate.ByOperation, operation, input, output)
	addToMap(t.data.Aggregate.ByAudience, audience, input, output)
	t.dirty = true
}

// Stats returns a copy of the aggregated stats.
func (t *Tracker) Stats() AggregatedStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	stats := t.data.Aggregate
	stats.ByModel = copyTokenCountsMap(stats.ByModel)
	stats.ByOperation = copyTokenCountsMap(stats.ByOperation)
	stats.ByAudience = copyTokenCountsMap(stats.ByAudience)
	return stats
}

func copyTokenCountsMap(src map[string]TokenCounts) map[string]TokenCounts {
	if src == nil {
		return nil
	}
	dst := make(map[string]TokenCounts, len(src))
	for key, counts := range src {
		dst[key] = counts
	}
	return dst
}

func addToMap(m map[string]TokenCounts, key string, input, output int) {
	entry := m[key]
	entry.Add(input, output)
	m[key] = entry
}

// Context Helpers

// NewContext returns a new context carrying the tracker.
func NewContext(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext retrieves the tracker from the context.
func FromContext(ctx context.Context) *Tracker {
	t, _ := ctx.Value(contextKey{}).(*Tracker)
	return t
}

// WithAudience tags usage recorded under ctx as guest or member traffic.
func WithAudience(ctx context.Context, member bool) context.Context {
	if member {
		return context.WithValue(ctx, audienceKey{}, AudienceMember)
	}
	return context.WithValue(ctx, audienceKey{}, AudienceGuest)
}
