package display

import (
	"encoding/json"
	"os"
)

// MarshalJSON marshals JSON with compact formatting for machine consumers,
// pretty formatting for human-readable output
func MarshalJSON(v interface{}) ([]byte, error) {
	if MachineOutput() {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

// MachineOutput reports whether stdout is being consumed by another program
// rather than a terminal. CHIMERA_MACHINE_OUTPUT forces it on.
func MachineOutput() bool {
	if os.Getenv("CHIMERA_MACHINE_OUTPUT") != "" {
		return true
	}
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice == 0
}
