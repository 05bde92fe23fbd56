// Package registry provides a record decoder registry for dispatching
// CIFP lines to the appropriate record decoders.
package registry

import (
	"sort"
	"sync"

	"cifparse/internal/cifp"
)

// Result is the common interface for all decoded records.
type Result interface {
	Type() string        // e.g. "vhf_navaid", "airport".
	Table() string       // Storage table the record belongs to.
	Row() map[string]any // Column name to value, ready for insertion.
	SourceLine() int     // 1-based line number in the source file.
}

// Decoder is implemented by each record decoder.
type Decoder interface {
	// Name returns the decoder's unique identifier.
	Name() string

	// Keys returns the section/subsection keys this decoder handles.
	Keys() []cifp.Key

	// Priority determines order when multiple decoders match the same key.
	// Lower number = checked first.
	Priority() int

	// Decode attempts to decode the line, returns nil if not applicable
	// (e.g. a continuation record the decoder does not model).
	Decode(line cifp.Line) Result
}

// Registry holds all registered decoders organised for efficient dispatch.
type Registry struct {
	mu sync.RWMutex

	// byKey maps section/subsection keys to decoder slices, sorted by
	// Priority (ascending).
	byKey map[cifp.Key][]Decoder

	// catchAll holds decoders that run only when no key matched.
	catchAll []Decoder

	// sorted tracks whether decoders have been sorted.
	sorted bool
}

// New creates a new Registry instance.
func New() *Registry {
	return &Registry{
		byKey: make(map[cifp.Key][]Decoder),
	}
}

// Global default registry.
var defaultRegistry = New()

// Default returns the global registry instance.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a decoder to the default registry.
// Called during init() in each record package.
func Register(d Decoder) {
	defaultRegistry.Register(d)
}

// RegisterCatchAll adds a catch-all decoder that runs when no key matches.
func RegisterCatchAll(d Decoder) {
	defaultRegistry.RegisterCatchAll(d)
}

// Register adds a decoder to the registry.
func (r *Registry) Register(d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range d.Keys() {
		r.byKey[key] = append(r.byKey[key], d)
	}
	r.sorted = false
}

// RegisterCatchAll adds a catch-all decoder.
func (r *Registry) RegisterCatchAll(d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.catchAll = append(r.catchAll, d)
	r.sorted = false
}

// Sort sorts all decoder slices by priority. Call before dispatching.
func (r *Registry) Sort() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sorted {
		return
	}

	for key := range r.byKey {
		decoders := r.byKey[key]
		sort.Slice(decoders, func(i, j int) bool {
			return decoders[i].Priority() < decoders[j].Priority()
		})
	}

	sort.Slice(r.catchAll, func(i, j int) bool {
		return r.catchAll[i].Priority() < r.catchAll[j].Priority()
	})

	r.sorted = true
}

// Dispatch routes a line to the decoders registered for its key and
// returns all results. Header and blank lines yield nothing.
// Note: Sort() should be called before Dispatch() so that priority order
// is stable; otherwise decoders run in registration order.
func (r *Registry) Dispatch(line cifp.Line) []Result {
	if line.IsHeader() || line.IsBlank() {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []Result

	if decoders, ok := r.byKey[line.Key()]; ok {
		for _, d := range decoders {
			if result := d.Decode(line); result != nil {
				results = append(results, result)
			}
		}
		return results
	}

	for _, d := range r.catchAll {
		if result := d.Decode(line); result != nil {
			results = append(results, result)
		}
	}

	return results
}

// DispatchFirst returns only the first successful decode result.
func (r *Registry) DispatchFirst(line cifp.Line) Result {
	if line.IsHeader() || line.IsBlank() {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if decoders, ok := r.byKey[line.Key()]; ok {
		for _, d := range decoders {
			if result := d.Decode(line); result != nil {
				return result
			}
		}
		return nil
	}

	for _, d := range r.catchAll {
		if result := d.Decode(line); result != nil {
			return result
		}
	}

	return nil
}

// Handles reports whether any decoder is registered for the key
// (catch-all decoders do not count).
func (r *Registry) Handles(key cifp.Key) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey[key]) > 0
}

// RegisteredKeys returns all section/subsection keys that have decoders
// registered, in display form ("D", "DB", "PA"), sorted.
func (r *Registry) RegisteredKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.byKey))
	for key := range r.byKey {
		keys = append(keys, key.String())
	}
	sort.Strings(keys)
	return keys
}

// DecoderCount returns the total number of unique registered decoders.
// Decoders registered for multiple keys are only counted once.
func (r *Registry) DecoderCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for _, decoders := range r.byKey {
		for _, d := range decoders {
			seen[d.Name()] = true
		}
	}
	for _, d := range r.catchAll {
		seen[d.Name()] = true
	}
	return len(seen)
}

// AllDecoders returns all registered decoders, deduplicated.
func (r *Registry) AllDecoders() []Decoder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var result []Decoder

	for _, decoders := range r.byKey {
		for _, d := range decoders {
			if !seen[d.Name()] {
				seen[d.Name()] = true
				result = append(result, d)
			}
		}
	}

	for _, d := range r.catchAll {
		if !seen[d.Name()] {
			seen[d.Name()] = true
			result = append(result, d)
		}
	}

	return result
}
