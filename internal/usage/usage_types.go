package usage

// UsageData represents the root structure stored in persistence.
type UsageData struct {
	Version   string          `json:"version"`
	Aggregate AggregatedStats `json:"aggregate"`
}

// AggregatedStats holds counters broken down by various dimensions.
type AggregatedStats struct {
	Total       TokenCounts            `json:"total"`
	Requests    int64                  `json:"requests"`
	ByModel     map[string]TokenCounts `json:"by_model"`
	ByOperation map[string]TokenCounts `json:"by_operation"` // greeting, reply
	ByAudience  map[string]TokenCounts `json:"by_audience"`  // guest, member
}

// TokenCounts holds input/output sums.
type TokenCounts struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
	Total  int64 `json:"total"`
}

func (tc *TokenCounts) Add(input, output int) {
	tc.Input += int64(input)
	tc.Output += int64(output)
	tc.Total += int64(input + output)
}
