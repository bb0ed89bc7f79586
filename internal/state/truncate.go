package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// maxInputSize is the serialized-size ceiling before tool input is truncated.
const maxInputSize = 10 * 1024

// TruncatedInput stores tool input, shrunk when the serialized form exceeds
// maxInputSize. The hash and byte size of the original are kept so the full
// input can still be identified.
type TruncatedInput struct {
	Value        any    `json:"value"`
	Truncated    bool   `json:"truncated"`
	OriginalHash string `json:"original_hash,omitempty"`
	OriginalSize int    `json:"original_size,omitempty"`
}

// NewTruncatedInput wraps a decoded JSON value, truncating it when its
// serialized form is larger than maxInputSize.
func NewTruncatedInput(input any) TruncatedInput {
	serialized, err := json.Marshal(input)
	if err != nil {
		// Unserializable input cannot be stored; keep a marker instead.
		return TruncatedInput{Value: nil}
	}
	if len(serialized) <= maxInputSize {
		return TruncatedInput{Value: input}
	}

	sum := sha256.Sum256(serialized)
	return TruncatedInput{
		Value:        truncateValue(input, maxInputSize),
		Truncated:    true,
		OriginalHash: hex.EncodeToString(sum[:]),
		OriginalSize: len(serialized),
	}
}

// truncateValue recursively shrinks a decoded JSON value toward a byte
// budget. Long strings keep at most a 200-byte prefix, objects split the
// budget across keys, and arrays keep their first ten elements.
func truncateValue(value any, budget int) any {
	switch v := value.(type) {
	case string:
		if len(v) <= budget {
			return v
		}
		cut := min(budget, 200)
		return fmt.Sprintf("%s... [truncated, %d bytes total]", v[:cut], len(v))
	case map[string]any:
		perKey := budget / max(len(v), 1)
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = truncateValue(item, perKey)
		}
		return out
	case []any:
		if len(v) <= 10 {
			return v
		}
		out := make([]any, 0, 11)
		for _, item := range v[:10] {
			out = append(out, truncateValue(item, budget/10))
		}
		return append(out, fmt.Sprintf("... [%d more items]", len(v)-10))
	default:
		return v
	}
}
