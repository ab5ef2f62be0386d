package anvil

import "time"

// PassStats describes the mutations performed by one render pass of one
// mount.
type PassStats struct {
	// Created counts nodes instantiated by the factory chain.
	Created int
	// Removed counts nodes detached by the engine.
	Removed int
	// Applied counts attribute values claimed by a setter.
	Applied int
	// Unclaimed counts changed attribute values no setter claimed.
	Unclaimed int
	// Duration is the wall time of the pass.
	Duration time.Duration
}

// Changed reports whether the pass touched the tree.
func (s PassStats) Changed() bool {
	return s.Created > 0 || s.Removed > 0 || s.Applied > 0
}
