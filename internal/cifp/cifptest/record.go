// Package cifptest provides helpers for constructing fixed-width CIFP
// record lines in tests without hand-counting columns.
package cifptest

import "strings"

// Record is a 132-character line under construction.
type Record struct {
	buf []byte
}

// New returns a blank 132-character record.
func New() *Record {
	return &Record{buf: []byte(strings.Repeat(" ", 132))}
}

// Put writes s starting at the given 1-based column. Writes past column
// 132 are truncated.
func (r *Record) Put(col int, s string) *Record {
	for i := 0; i < len(s); i++ {
		idx := col - 1 + i
		if idx < 0 || idx >= len(r.buf) {
			break
		}
		r.buf[idx] = s[i]
	}
	return r
}

// String returns the assembled line.
func (r *Record) String() string {
	return string(r.buf)
}
