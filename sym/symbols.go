// Package sym defines canonical symbols for Chimera subsystems and system markers.
// These symbols are stable across UI, CLI, and documentation.
package sym

// Primary subsystem symbols — have CLI commands and UI surfaces.
const (
	I      = "⍟" // self — the agent's vantage point into Chimera
	AM     = "≡" // am — configuration and system settings
	Kernel = "⊙" // kernel — cognitive kernel, scheduler, syscalls
	Atom   = "◉" // atomspace — hypergraph knowledge store
	Onto   = "⑂" // onto — rooted-tree ontogenetic bridge
	Infer  = "⊢" // pln — probabilistic inference
	Agent  = "♾" // agent — the Ouroboros cognitive loop
	Verify = "⊨" // verify — roundtrip property verification
)

// System infrastructure symbols.
const (
	DB     = "⊔" // database/storage layer
	Server = "⇄" // websocket graph server
	Token  = "⌗" // cognitive-state tokenizer
)

// CommandToSymbol maps CLI command names to their canonical glyph strings.
var CommandToSymbol = map[string]string{
	"am":     AM,
	"boot":   Kernel,
	"atoms":  Atom,
	"params": Onto,
	"infer":  Infer,
	"agent":  Agent,
	"verify": Verify,
	"db":     DB,
	"server": Server,
}

// SymbolToCommand maps glyph strings to their text command equivalents.
var SymbolToCommand = map[string]string{
	AM:     "am",
	Kernel: "boot",
	Atom:   "atoms",
	Onto:   "params",
	Infer:  "infer",
	Agent:  "agent",
	Verify: "verify",
	DB:     "db",
	Server: "server",
}

// CommandDescriptions provides human-readable explanations for help and hover states.
var CommandDescriptions = map[string]string{
	"am":     "Configuration — system settings and state",
	"boot":   "Kernel — boot the cognitive kernel",
	"atoms":  "AtomSpace — inspect the hypergraph store",
	"params": "Ontogenesis — derive architecture parameters from rooted trees",
	"infer":  "Inference — apply a probabilistic inference rule",
	"agent":  "Agent — run the Ouroboros cognitive loop",
	"verify": "Verify — run codec roundtrip property checks",
	"db":     "Database — storage statistics and migrations",
	"server": "Server — websocket graph visualization server",
}
