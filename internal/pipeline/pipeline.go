// Package pipeline reads CIFP files line by line and dispatches each
// record to the decoder registry.
package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cifparse/internal/cifp"
	"cifparse/internal/registry"
)

// Stats holds counters from a parse run.
type Stats struct {
	Lines     int            // Total lines read.
	Headers   int            // HDR lines.
	Blank     int            // Blank lines.
	Decoded   int            // Lines that produced at least one result.
	Unmatched int            // Data lines with no decoder registered for their key.
	Declined  int            // Lines a registered decoder chose not to model, e.g. continuations.
	Skipped   int            // Lines excluded by the key filter.
	ByType    map[string]int // Result counts per record type.
}

// Options controls a parse run.
type Options struct {
	// Filter restricts decoding to the given section/subsection keys in
	// display form ("D", "DB", "PA"). Empty means all registered keys.
	Filter []string

	// OnResult, when set, is invoked for every decoded result in file
	// order. Returning an error aborts the run.
	OnResult func(registry.Result) error
}

// Parse reads CIFP lines from r and dispatches them through reg.
// Results are returned in file order unless consumed by opts.OnResult,
// in which case the returned slice is nil.
func Parse(r io.Reader, reg *registry.Registry, opts Options) ([]registry.Result, *Stats, error) {
	reg.Sort()

	filter := make(map[string]bool, len(opts.Filter))
	for _, k := range opts.Filter {
		filter[k] = true
	}

	stats := &Stats{ByType: make(map[string]int)}
	var out []registry.Result

	scanner := bufio.NewScanner(r)
	// CIFP records are 132 characters, but be generous with the buffer in
	// case of concatenated or malformed input.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		stats.Lines++
		line := cifp.NewLine(stats.Lines, scanner.Text())

		switch {
		case line.IsHeader():
			stats.Headers++
			continue
		case line.IsBlank():
			stats.Blank++
			continue
		}

		if len(filter) > 0 && !filter[line.Key().String()] {
			stats.Skipped++
			continue
		}

		results := reg.Dispatch(line)
		if len(results) == 0 {
			if reg.Handles(line.Key()) {
				stats.Declined++
			} else {
				stats.Unmatched++
			}
			continue
		}

		stats.Decoded++
		for _, result := range results {
			stats.ByType[result.Type()]++
			if opts.OnResult != nil {
				if err := opts.OnResult(result); err != nil {
					return nil, stats, fmt.Errorf("line %d: %w", line.Number, err)
				}
				continue
			}
			out = append(out, result)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("read input: %w", err)
	}

	return out, stats, nil
}

// ParseFile opens path and parses it.
func ParseFile(path string, reg *registry.Registry, opts Options) ([]registry.Result, *Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	slog.Info("parsing CIFP file", "path", path)
	return Parse(f, reg, opts)
}

// Log writes the run counters through slog.
func (s *Stats) Log() {
	slog.Info("parse complete",
		"lines", s.Lines,
		"headers", s.Headers,
		"decoded", s.Decoded,
		"unmatched", s.Unmatched,
		"declined", s.Declined,
		"skipped", s.Skipped,
	)
	for typ, count := range s.ByType {
		slog.Info("record type", "type", typ, "count", count)
	}
}
