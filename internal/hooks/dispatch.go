// Package hooks implements the hook protocol: parsing host input, the five
// lifecycle handlers, and the verdicts they write back. Handlers never
// return errors to the host; every failure degrades to the allowing verdict
// with a warning on stderr.
package hooks

import (
	"fmt"
	"os"

	"github.com/bivory/roz/internal/config"
	"github.com/bivory/roz/internal/storage"
)

// Dispatch routes a stop-family hook to its handler. The pre-tool-use hook
// is not dispatched here; its output schema differs (see HandlePreToolUse).
// Unknown hook names approve with a warning so a host upgrade cannot stall
// the agent.
func Dispatch(name string, in *HookInput, cfg *config.Config, store storage.Store) *HookOutput {
	switch name {
	case "session-start":
		return HandleSessionStart(in, cfg, store)
	case "user-prompt":
		return HandleUserPrompt(in, cfg, store)
	case "stop":
		return HandleStop(in, cfg, store)
	case "subagent-stop":
		return HandleSubagentStop(in, cfg, store)
	default:
		fmt.Fprintf(os.Stderr, "roz: warning: unknown hook: %s\n", name)
		return Approve()
	}
}
