// Package embedded provides the block templates compiled into the roz
// binary. They are the fallback when no user template exists under
// <storage path>/templates/.
package embedded

import "embed"

// DefaultBlockTemplate is the built-in stop-hook block message.
//
//go:embed templates/block-default.md
var DefaultBlockTemplate string

// TemplatesFS holds all embedded block templates, keyed as
// templates/block-<id>.md.
//
//go:embed templates
var TemplatesFS embed.FS
