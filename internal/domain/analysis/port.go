package analysis

import (
	"context"
	"encoding/json"
)

// Generator produces a strict-JSON completion for a task payload. It must
// guarantee the returned bytes parse as JSON; shape conformance is checked
// separately by ValidateResponse.
type Generator interface {
	GenerateJSON(ctx context.Context, task Task, systemPrompt string, payload any, temperature float64) (json.RawMessage, error)
}

// ResultCache stores validated responses keyed by request fingerprint.
// Implementations must be safe for concurrent use and purely in-memory.
type ResultCache interface {
	Get(key string) (*Response, bool)
	Set(key string, resp *Response)
	Has(key string) bool
	Clear()
	Len() int
}
