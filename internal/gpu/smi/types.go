// Package smi lists the GPUs reported by nvidia-smi. The interactive
// front-end uses it to fill its GPU selector without touching NVML.
package smi

import "fmt"

// GPU is one entry of the GPU selector.
type GPU struct {
	// ID is the device index as printed by nvidia-smi, e.g. "0".
	ID string

	// Name is the model name without the UUID suffix.
	Name string

	// UUID is the device UUID, when nvidia-smi printed one.
	UUID string
}

// Label renders the selector text, e.g. "GPU 0: NVIDIA GeForce RTX 4090".
func (g GPU) Label() string {
	if g.Name == "" {
		return fmt.Sprintf("GPU %s", g.ID)
	}
	return fmt.Sprintf("GPU %s: %s", g.ID, g.Name)
}

// Selector entry offered when no GPU could be listed.
const (
	DefaultID    = "0"
	DefaultLabel = "GPU 0 (default)"
)

// Fallback returns the list used when listing fails.
func Fallback() []Entry {
	return []Entry{{ID: DefaultID, Label: DefaultLabel}}
}

// Entry pairs a device index with its selector label.
type Entry struct {
	ID    string
	Label string
}

// Entries converts GPUs into selector entries, or returns Fallback when
// gpus is empty.
func Entries(gpus []GPU) []Entry {
	if len(gpus) == 0 {
		return Fallback()
	}
	out := make([]Entry, 0, len(gpus))
	for _, g := range gpus {
		out = append(out, Entry{ID: g.ID, Label: g.Label()})
	}
	return out
}
