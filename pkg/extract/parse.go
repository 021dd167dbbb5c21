package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/market"
)

// ErrNoJSON is returned when the model response contains no JSON object.
var ErrNoJSON = errors.New("no JSON object in extractor response")

// DecodeSnapshot pulls the snapshot JSON out of a model response.
// Models wrap output in markdown fences or surround it with prose
// often enough that the decoder tolerates both: fences are stripped,
// then everything outside the outermost braces is discarded.
func DecodeSnapshot(content string) (*market.Snapshot, error) {
	payload := extractJSON(content)
	if payload == "" {
		return nil, ErrNoJSON
	}

	var snapshot market.Snapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snapshot, nil
}

func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx >= 0 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}
