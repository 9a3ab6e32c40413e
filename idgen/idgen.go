// Package idgen provides pluggable ID generation.
//
// The store accepts a Generator, making the ID strategy a startup-time
// decision: production uses prefixed UUIDv7 (time-sortable, so creator
// listings order by creation for free), tests can inject fixed sequences.
package idgen

import "github.com/google/uuid"

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator producing RFC 9562 UUID v7 strings.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed wraps a Generator and prepends a fixed prefix to every ID.
// Used for type-scoped identifiers ("cr_", "scr_").
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Sequence returns a Generator that yields the given IDs in order, then
// panics. Test use only.
func Sequence(ids ...string) Generator {
	i := 0
	return func() string {
		if i >= len(ids) {
			panic("idgen: sequence exhausted")
		}
		id := ids[i]
		i++
		return id
	}
}
