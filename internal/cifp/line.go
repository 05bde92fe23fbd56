// Package cifp provides the core CIFP record line model.
//
// A CIFP data file (e.g. FAACIFP18) is a sequence of 132-character
// fixed-width text lines. Header lines start with "HDR"; every other line
// is a data record whose type is identified by a section code in column 5
// and a subsection code in column 6 (column 13 for airport and heliport
// sections, where columns 7-12 hold the airport identifier and region).
package cifp

import "strings"

// RecordLength is the fixed length of a CIFP data record in characters.
const RecordLength = 132

// Section codes defined by the format.
const (
	SectionMORA     = "A" // Grid MORA and other airspace-level data.
	SectionNavaid   = "D" // VHF and NDB navaids.
	SectionEnroute  = "E" // Enroute waypoints, airways.
	SectionHeliport = "H"
	SectionAirport  = "P" // Airports and terminal procedures.
	SectionTables   = "T"
	SectionCompany  = "U"
	SectionAirspace = "R"
)

// Key identifies a record type by its section and subsection codes.
// The subsection for VHF navaids is blank, so a Key is compared with the
// subsection normalised to "".
type Key struct {
	Section    string
	SubSection string
}

// String returns the key in "D"/"DB"/"PA" display form.
func (k Key) String() string {
	return k.Section + k.SubSection
}

// Line is a single record line from a CIFP file. Raw is kept verbatim so
// that column-based fields with significant spacing survive a round trip.
type Line struct {
	Number int    // 1-based line number in the source file.
	Raw    string // The full record text, untrimmed.
}

// NewLine wraps a raw record line. Trailing newline characters are
// stripped; everything else, including trailing spaces, is preserved.
func NewLine(number int, raw string) Line {
	raw = strings.TrimRight(raw, "\r\n")
	return Line{Number: number, Raw: raw}
}

// IsHeader reports whether the line is a file header (HDR) record.
func (l Line) IsHeader() bool {
	return strings.HasPrefix(l.Raw, "HDR")
}

// IsBlank reports whether the line carries no content.
func (l Line) IsBlank() bool {
	return strings.TrimSpace(l.Raw) == ""
}

// col returns the single character at the given 1-based column, or "" if
// the line is too short.
func (l Line) col(n int) string {
	if len(l.Raw) < n {
		return ""
	}
	return l.Raw[n-1 : n]
}

// ST returns the record type discriminator from column 1:
// "S" (Standard) or "T" (Tailored).
func (l Line) ST() string {
	return l.col(1)
}

// Section returns the section code from column 5.
func (l Line) Section() string {
	return strings.TrimSpace(l.col(5))
}

// SubSection returns the subsection code. For airport ("P") and heliport
// ("H") sections it lives in column 13; everywhere else in column 6.
func (l Line) SubSection() string {
	sec := l.Section()
	if sec == SectionAirport || sec == SectionHeliport {
		return strings.TrimSpace(l.col(13))
	}
	return strings.TrimSpace(l.col(6))
}

// Key returns the section/subsection key used for decoder dispatch.
func (l Line) Key() Key {
	return Key{Section: l.Section(), SubSection: l.SubSection()}
}
