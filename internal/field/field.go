// Package field provides fixed-column field extraction for CIFP records.
//
// CIFP fields are addressed by 1-based inclusive column spans taken straight
// from the format tables. Extractors never panic on short lines; a span that
// falls off the end of the line yields the zero value for its type.
package field

import (
	"strconv"
	"strings"
)

// Width is a 1-based inclusive column span.
type Width struct {
	Start int
	End   int
}

// W is shorthand for constructing a Width.
func W(start, end int) Width {
	return Width{Start: start, End: end}
}

// Len returns the number of columns in the span.
func (w Width) Len() int {
	return w.End - w.Start + 1
}

// Raw returns the exact substring covered by the span, spacing preserved.
// If the line ends inside the span, the result is padded with spaces to the
// span length so that column-significant fields keep their width.
//
// Fields like the navaid class are positional within their span: leading
// and trailing blanks are meaningful and must never be trimmed.
func Raw(line string, w Width) string {
	if w.Start < 1 || w.End < w.Start {
		return ""
	}
	start := w.Start - 1
	if start >= len(line) {
		return strings.Repeat(" ", w.Len())
	}
	end := w.End
	if end > len(line) {
		end = len(line)
	}
	s := line[start:end]
	if len(s) < w.Len() {
		s += strings.Repeat(" ", w.Len()-len(s))
	}
	return s
}

// Text returns the trimmed string value of the span. Blank fields yield "".
func Text(line string, w Width) string {
	return strings.TrimSpace(Raw(line, w))
}

// Int returns the integer value of the span, or 0 if blank or malformed.
func Int(line string, w Width) int {
	s := Text(line, w)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Frequency returns the implied-decimal numeric value of the span divided
// by div. VHF frequencies are stored as "11630" meaning 116.30 MHz
// (div 100); NDB frequencies as "03620" meaning 362.0 kHz (div 10).
func Frequency(line string, w Width, div float64) float64 {
	s := Text(line, w)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n / div
}

// Latitude decodes a 9-character CIFP latitude ("N39543847": hemisphere,
// degrees, minutes, seconds, hundredths of seconds) to signed decimal
// degrees. South is negative. Blank fields yield 0.
func Latitude(line string, w Width) float64 {
	s := Raw(line, w)
	if strings.TrimSpace(s) == "" || len(s) != 9 {
		return 0
	}
	return coordinate(s[:1], s[1:3], s[3:5], s[5:9], "S")
}

// Longitude decodes a 10-character CIFP longitude ("W105082197": hemisphere,
// three-digit degrees, minutes, seconds, hundredths of seconds) to signed
// decimal degrees. West is negative. Blank fields yield 0.
func Longitude(line string, w Width) float64 {
	s := Raw(line, w)
	if strings.TrimSpace(s) == "" || len(s) != 10 {
		return 0
	}
	return coordinate(s[:1], s[1:4], s[4:6], s[6:10], "W")
}

// coordinate assembles hemisphere + DDMMSSss into decimal degrees.
// The seconds group carries an implied decimal before its last two digits.
func coordinate(hemi, deg, min, sec, negative string) float64 {
	d, err := strconv.Atoi(deg)
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(min)
	if err != nil {
		return 0
	}
	s, err := strconv.Atoi(sec)
	if err != nil {
		return 0
	}
	value := float64(d) + float64(m)/60.0 + float64(s)/100.0/3600.0
	if hemi == negative {
		value = -value
	}
	return value
}

// MagneticVariation decodes a 5-character station declination ("E0100",
// "W1050") to signed degrees with an implied tenths digit. East is
// positive, west negative; a "T" hemisphere means the station is oriented
// to true north and decodes to 0.
func MagneticVariation(line string, w Width) float64 {
	s := Raw(line, w)
	if strings.TrimSpace(s) == "" || len(s) != 5 {
		return 0
	}
	hemi := s[:1]
	if hemi == "T" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(s[1:]))
	if err != nil {
		return 0
	}
	value := float64(n) / 10.0
	if hemi == "W" {
		value = -value
	}
	return value
}

// Altitude decodes a signed altitude/elevation in feet. Negative values
// are encoded with a leading "-" ("-0012"). Blank fields yield 0.
func Altitude(line string, w Width) int {
	return Int(line, w)
}
