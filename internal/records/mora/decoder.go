// Package mora decodes CIFP Grid MORA records (section AS).
//
// Each record covers one degree of latitude by thirty degrees of
// longitude, carrying thirty minimum off-route altitude cells in hundreds
// of feet. Unsurveyed cells are encoded as "UNK".
package mora

import (
	"strconv"
	"strings"

	"cifparse/internal/cifp"
	"cifparse/internal/field"
	"cifparse/internal/registry"
)

// cells is the number of MORA values in one record.
const cells = 30

var w = struct {
	st           field.Width
	secCode      field.Width
	subCode      field.Width
	startLat     field.Width
	startLon     field.Width
	values       field.Width
	recordNumber field.Width
	cycleData    field.Width
}{
	st:           field.W(1, 1),
	secCode:      field.W(5, 5),
	subCode:      field.W(6, 6),
	startLat:     field.W(14, 16),
	startLon:     field.W(17, 20),
	values:       field.W(31, 120),
	recordNumber: field.W(124, 128),
	cycleData:    field.W(129, 132),
}

// Result represents a decoded Grid MORA record.
type Result struct {
	ST           string `json:"st"`
	SecCode      string `json:"sec_code"`
	SubCode      string `json:"sub_code"`
	StartLat     int    `json:"start_lat"` // Whole degrees; south negative.
	StartLon     int    `json:"start_lon"` // Whole degrees; west negative.
	Moras        []int  `json:"moras"`     // Hundreds of feet; -1 = unknown.
	RecordNumber int    `json:"record_number"`
	CycleData    string `json:"cycle_data"`

	Raw  string `json:"-"`
	Line int    `json:"-"`
}

func (r *Result) Type() string    { return "grid_mora" }
func (r *Result) Table() string   { return "grid_mora" }
func (r *Result) SourceLine() int { return r.Line }

func (r *Result) Row() map[string]any {
	values := make([]string, len(r.Moras))
	for i, v := range r.Moras {
		if v < 0 {
			values[i] = "UNK"
		} else {
			values[i] = strconv.Itoa(v)
		}
	}
	return map[string]any{
		"st":            r.ST,
		"sec_code":      r.SecCode,
		"sub_code":      r.SubCode,
		"start_lat":     r.StartLat,
		"start_lon":     r.StartLon,
		"moras":         strings.Join(values, ","),
		"record_number": r.RecordNumber,
		"cycle_data":    r.CycleData,
	}
}

// Decoder decodes Grid MORA records.
type Decoder struct{}

func init() {
	registry.Register(&Decoder{})
}

func (d *Decoder) Name() string { return "grid_mora" }
func (d *Decoder) Keys() []cifp.Key {
	return []cifp.Key{{Section: cifp.SectionMORA, SubSection: "S"}}
}
func (d *Decoder) Priority() int { return 100 }

func (d *Decoder) Decode(line cifp.Line) registry.Result {
	return &Result{
		ST:           field.Text(line.Raw, w.st),
		SecCode:      field.Text(line.Raw, w.secCode),
		SubCode:      field.Text(line.Raw, w.subCode),
		StartLat:     startDegrees(field.Raw(line.Raw, w.startLat), "S"),
		StartLon:     startDegrees(field.Raw(line.Raw, w.startLon), "W"),
		Moras:        moraValues(field.Raw(line.Raw, w.values)),
		RecordNumber: field.Int(line.Raw, w.recordNumber),
		CycleData:    field.Text(line.Raw, w.cycleData),
		Raw:          line.Raw,
		Line:         line.Number,
	}
}

// startDegrees parses a hemisphere-prefixed whole-degree grid origin
// ("N39", "W105").
func startDegrees(s, negative string) int {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil {
		return 0
	}
	if s[:1] == negative {
		n = -n
	}
	return n
}

// moraValues splits the 90-character value block into thirty 3-character
// cells. "UNK" and blank cells decode to -1.
func moraValues(block string) []int {
	values := make([]int, 0, cells)
	for i := 0; i < cells; i++ {
		cell := strings.TrimSpace(block[i*3 : i*3+3])
		if cell == "" || cell == "UNK" {
			values = append(values, -1)
			continue
		}
		n, err := strconv.Atoi(cell)
		if err != nil {
			values = append(values, -1)
			continue
		}
		values = append(values, n)
	}
	return values
}
