// Package ndbnavaid decodes CIFP NDB Navaid records (section DB).
package ndbnavaid

import (
	"cifparse/internal/cifp"
	"cifparse/internal/field"
	"cifparse/internal/registry"
)

var w = struct {
	st            field.Width
	area          field.Width
	secCode       field.Width
	subCode       field.Width
	airportID     field.Width
	airportRegion field.Width
	ndbID         field.Width
	ndbRegion     field.Width
	contRecNo     field.Width
	frequency     field.Width
	navClass      field.Width
	lat           field.Width
	lon           field.Width
	magVar        field.Width
	datumCode     field.Width
	ndbName       field.Width
	recordNumber  field.Width
	cycleData     field.Width
}{
	st:            field.W(1, 1),
	area:          field.W(2, 4),
	secCode:       field.W(5, 5),
	subCode:       field.W(6, 6),
	airportID:     field.W(7, 10),
	airportRegion: field.W(11, 12),
	ndbID:         field.W(14, 17),
	ndbRegion:     field.W(20, 21),
	contRecNo:     field.W(22, 22),
	frequency:     field.W(23, 27),
	navClass:      field.W(28, 32),
	lat:           field.W(33, 41),
	lon:           field.W(42, 51),
	magVar:        field.W(75, 79),
	datumCode:     field.W(91, 93),
	ndbName:       field.W(94, 123),
	recordNumber:  field.W(124, 128),
	cycleData:     field.W(129, 132),
}

// Result represents a decoded NDB Navaid primary record.
type Result struct {
	ST            string  `json:"st"`
	Area          string  `json:"area"`
	SecCode       string  `json:"sec_code"`
	SubCode       string  `json:"sub_code"`
	AirportID     string  `json:"airport_id,omitempty"`
	AirportRegion string  `json:"airport_region,omitempty"`
	NdbID         string  `json:"ndb_id"`
	NdbRegion     string  `json:"ndb_region"`
	ContRecNo     int     `json:"cont_rec_no"`
	Frequency     float64 `json:"frequency"` // kHz.
	NavClass      string  `json:"nav_class"` // Column-based; spacing preserved verbatim.
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	MagVar        float64 `json:"mag_var"`
	DatumCode     string  `json:"datum_code,omitempty"`
	NdbName       string  `json:"ndb_name"`
	RecordNumber  int     `json:"record_number"`
	CycleData     string  `json:"cycle_data"`

	Raw  string `json:"-"`
	Line int    `json:"-"`
}

func (r *Result) Type() string    { return "ndb_navaid" }
func (r *Result) Table() string   { return "ndb_navaids" }
func (r *Result) SourceLine() int { return r.Line }

func (r *Result) Row() map[string]any {
	return map[string]any{
		"st":             r.ST,
		"area":           r.Area,
		"sec_code":       r.SecCode,
		"sub_code":       r.SubCode,
		"airport_id":     r.AirportID,
		"airport_region": r.AirportRegion,
		"ndb_id":         r.NdbID,
		"ndb_region":     r.NdbRegion,
		"cont_rec_no":    r.ContRecNo,
		"frequency":      r.Frequency,
		"nav_class":      r.NavClass,
		"lat":            r.Lat,
		"lon":            r.Lon,
		"mag_var":        r.MagVar,
		"datum_code":     r.DatumCode,
		"ndb_name":       r.NdbName,
		"record_number":  r.RecordNumber,
		"cycle_data":     r.CycleData,
	}
}

// Decoder decodes NDB Navaid records.
type Decoder struct{}

func init() {
	registry.Register(&Decoder{})
}

func (d *Decoder) Name() string { return "ndb_navaid" }
func (d *Decoder) Keys() []cifp.Key {
	return []cifp.Key{{Section: cifp.SectionNavaid, SubSection: "B"}}
}
func (d *Decoder) Priority() int { return 100 }

func (d *Decoder) Decode(line cifp.Line) registry.Result {
	cont := field.Int(line.Raw, w.contRecNo)
	if cont > 1 {
		return nil
	}

	return &Result{
		ST:            field.Text(line.Raw, w.st),
		Area:          field.Text(line.Raw, w.area),
		SecCode:       field.Text(line.Raw, w.secCode),
		SubCode:       field.Text(line.Raw, w.subCode),
		AirportID:     field.Text(line.Raw, w.airportID),
		AirportRegion: field.Text(line.Raw, w.airportRegion),
		NdbID:         field.Text(line.Raw, w.ndbID),
		NdbRegion:     field.Text(line.Raw, w.ndbRegion),
		ContRecNo:     cont,
		Frequency:     field.Frequency(line.Raw, w.frequency, 10),
		NavClass:      field.Raw(line.Raw, w.navClass),
		Lat:           field.Latitude(line.Raw, w.lat),
		Lon:           field.Longitude(line.Raw, w.lon),
		MagVar:        field.MagneticVariation(line.Raw, w.magVar),
		DatumCode:     field.Text(line.Raw, w.datumCode),
		NdbName:       field.Text(line.Raw, w.ndbName),
		RecordNumber:  field.Int(line.Raw, w.recordNumber),
		CycleData:     field.Text(line.Raw, w.cycleData),
		Raw:           line.Raw,
		Line:          line.Number,
	}
}
