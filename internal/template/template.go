// Package template loads and selects the block messages shown to the agent
// when a review is required.
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bivory/roz/embedded"
	"github.com/bivory/roz/internal/config"
)

// DefaultBlockTemplate is used when no template file exists for an id.
var DefaultBlockTemplate = embedded.DefaultBlockTemplate

// Load returns the template with the given id. It reads
// <baseDir>/templates/block-<id>.md, then the copy embedded in the binary,
// and falls back to the built-in default when neither exists.
func Load(baseDir, id string) string {
	name := fmt.Sprintf("block-%s.md", id)

	if data, err := os.ReadFile(filepath.Join(baseDir, "templates", name)); err == nil {
		return string(data)
	}
	if data, err := embedded.TemplatesFS.ReadFile("templates/" + name); err == nil {
		return string(data)
	}
	return DefaultBlockTemplate
}

// Render substitutes the session id into a template.
func Render(tpl, sessionID string) string {
	return strings.ReplaceAll(tpl, "{{session_id}}", sessionID)
}

// Select resolves the template id for this block: "random" picks from the
// configured weights, anything else is used as the id directly.
func Select(cfg *config.TemplateConfig) string {
	if cfg.Active == "random" {
		return WeightedRandom(cfg.Weights)
	}
	return cfg.Active
}

// WeightedRandom picks a template id with probability proportional to its
// weight. The roll comes from the wall clock, which spreads variants across
// sessions well enough without a separate random source.
func WeightedRandom(weights map[string]int) string {
	if len(weights) == 0 {
		return "default"
	}

	ids := make([]string, 0, len(weights))
	total := 0
	for id, weight := range weights {
		ids = append(ids, id)
		total += weight
	}
	sort.Strings(ids)

	if total <= 0 {
		return ids[0]
	}

	roll := int(time.Now().UnixNano() % int64(total))
	cumulative := 0
	for _, id := range ids {
		cumulative += weights[id]
		if roll < cumulative {
			return id
		}
	}
	return ids[0]
}
