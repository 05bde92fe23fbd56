package registry

import (
	"strings"
	"testing"

	"cifparse/internal/cifp"

	"github.com/stretchr/testify/assert"
)

type fakeResult struct {
	typ  string
	line int
}

func (r *fakeResult) Type() string        { return r.typ }
func (r *fakeResult) Table() string       { return r.typ }
func (r *fakeResult) Row() map[string]any { return map[string]any{"type": r.typ} }
func (r *fakeResult) SourceLine() int     { return r.line }

type fakeDecoder struct {
	name     string
	keys     []cifp.Key
	priority int
	decode   func(cifp.Line) Result
}

func (d *fakeDecoder) Name() string     { return d.name }
func (d *fakeDecoder) Keys() []cifp.Key { return d.keys }
func (d *fakeDecoder) Priority() int    { return d.priority }
func (d *fakeDecoder) Decode(l cifp.Line) Result {
	if d.decode != nil {
		return d.decode(l)
	}
	return &fakeResult{typ: d.name, line: l.Number}
}

func pad(s string) string {
	return s + strings.Repeat(" ", 132-len(s))
}

func TestDispatchByKey(t *testing.T) {
	r := New()
	r.Register(&fakeDecoder{name: "vhf", keys: []cifp.Key{{Section: "D"}}})
	r.Register(&fakeDecoder{name: "ndb", keys: []cifp.Key{{Section: "D", SubSection: "B"}}})
	r.Sort()

	results := r.Dispatch(cifp.NewLine(1, pad("SUSAD ")))
	assert.Len(t, results, 1)
	assert.Equal(t, "vhf", results[0].Type())

	results = r.Dispatch(cifp.NewLine(2, pad("SUSADB")))
	assert.Len(t, results, 1)
	assert.Equal(t, "ndb", results[0].Type())

	assert.Empty(t, r.Dispatch(cifp.NewLine(3, pad("SUSAEA"))))
}

func TestDispatchSkipsHeaderAndBlank(t *testing.T) {
	r := New()
	r.Register(&fakeDecoder{name: "vhf", keys: []cifp.Key{{Section: "D"}}})

	assert.Nil(t, r.Dispatch(cifp.NewLine(1, "HDR01FAACIFP18")))
	assert.Nil(t, r.Dispatch(cifp.NewLine(2, "   ")))
}

func TestDispatchPriorityOrder(t *testing.T) {
	r := New()
	key := cifp.Key{Section: "D"}
	r.Register(&fakeDecoder{name: "second", keys: []cifp.Key{key}, priority: 200})
	r.Register(&fakeDecoder{name: "first", keys: []cifp.Key{key}, priority: 100})
	r.Sort()

	results := r.Dispatch(cifp.NewLine(1, pad("SUSAD ")))
	assert.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Type())
	assert.Equal(t, "second", results[1].Type())

	first := r.DispatchFirst(cifp.NewLine(1, pad("SUSAD ")))
	assert.Equal(t, "first", first.Type())
}

func TestCatchAllOnlyWhenNoKeyMatch(t *testing.T) {
	r := New()
	r.Register(&fakeDecoder{name: "vhf", keys: []cifp.Key{{Section: "D"}}})
	r.RegisterCatchAll(&fakeDecoder{name: "raw"})
	r.Sort()

	// Known key: catch-all must not run.
	results := r.Dispatch(cifp.NewLine(1, pad("SUSAD ")))
	assert.Len(t, results, 1)
	assert.Equal(t, "vhf", results[0].Type())

	// Unknown key: catch-all runs.
	results = r.Dispatch(cifp.NewLine(2, pad("SUSAUC")))
	assert.Len(t, results, 1)
	assert.Equal(t, "raw", results[0].Type())
}

func TestDecoderReturningNilIsSkipped(t *testing.T) {
	r := New()
	r.Register(&fakeDecoder{
		name: "continuation-aware",
		keys: []cifp.Key{{Section: "D"}},
		decode: func(l cifp.Line) Result {
			return nil
		},
	})

	assert.Empty(t, r.Dispatch(cifp.NewLine(1, pad("SUSAD "))))
}

func TestHandles(t *testing.T) {
	r := New()
	r.Register(&fakeDecoder{name: "vhf", keys: []cifp.Key{{Section: "D"}}})
	r.RegisterCatchAll(&fakeDecoder{name: "fallback"})

	assert.True(t, r.Handles(cifp.Key{Section: "D"}))
	assert.False(t, r.Handles(cifp.Key{Section: "E", SubSection: "A"}))
}

func TestRegisteredKeysAndCounts(t *testing.T) {
	r := New()
	d := &fakeDecoder{name: "multi", keys: []cifp.Key{{Section: "D"}, {Section: "D", SubSection: "B"}}}
	r.Register(d)
	r.Register(&fakeDecoder{name: "apt", keys: []cifp.Key{{Section: "P", SubSection: "A"}}})

	assert.Equal(t, []string{"D", "DB", "PA"}, r.RegisteredKeys())
	assert.Equal(t, 2, r.DecoderCount())
	assert.Len(t, r.AllDecoders(), 2)
}
