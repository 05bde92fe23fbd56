// Package vhfnavaid decodes CIFP VHF Navaid records (section D).
//
// A VHF navaid record describes a VOR, VOR/DME, VORTAC, TACAN or DME
// ground station: identifier, frequency, class, position, the paired DME
// station, and effectivity data.
package vhfnavaid

import (
	"cifparse/internal/cifp"
	"cifparse/internal/field"
	"cifparse/internal/registry"
)

// Column layout per the CIFP VHF Navaid record definition.
var w = struct {
	st            field.Width
	area          field.Width
	secCode       field.Width
	subCode       field.Width
	airportID     field.Width
	airportRegion field.Width
	vhfID         field.Width
	vhfRegion     field.Width
	contRecNo     field.Width
	frequency     field.Width
	navClass      field.Width
	lat           field.Width
	lon           field.Width
	dmeID         field.Width
	dmeLat        field.Width
	dmeLon        field.Width
	magVar        field.Width
	dmeElevation  field.Width
	figureOfMerit field.Width
	dmeBias       field.Width
	freqProtect   field.Width
	datumCode     field.Width
	vhfName       field.Width
	recordNumber  field.Width
	cycleData     field.Width
}{
	st:            field.W(1, 1),
	area:          field.W(2, 4),
	secCode:       field.W(5, 5),
	subCode:       field.W(6, 6),
	airportID:     field.W(7, 10),
	airportRegion: field.W(11, 12),
	vhfID:         field.W(14, 17),
	vhfRegion:     field.W(20, 21),
	contRecNo:     field.W(22, 22),
	frequency:     field.W(23, 27),
	navClass:      field.W(28, 32),
	lat:           field.W(33, 41),
	lon:           field.W(42, 51),
	dmeID:         field.W(52, 55),
	dmeLat:        field.W(56, 64),
	dmeLon:        field.W(65, 74),
	magVar:        field.W(75, 79),
	dmeElevation:  field.W(80, 84),
	figureOfMerit: field.W(85, 85),
	dmeBias:       field.W(86, 87),
	freqProtect:   field.W(88, 90),
	datumCode:     field.W(91, 93),
	vhfName:       field.W(94, 123),
	recordNumber:  field.W(124, 128),
	cycleData:     field.W(129, 132),
}

// Result represents a decoded VHF Navaid primary record.
type Result struct {
	ST            string  `json:"st"`
	Area          string  `json:"area"`
	SecCode       string  `json:"sec_code"`
	SubCode       string  `json:"sub_code,omitempty"`
	AirportID     string  `json:"airport_id,omitempty"`     // Set for terminal navaids only.
	AirportRegion string  `json:"airport_region,omitempty"` // ICAO region of the airport.
	VhfID         string  `json:"vhf_id"`
	VhfRegion     string  `json:"vhf_region"`
	ContRecNo     int     `json:"cont_rec_no"`
	Frequency     float64 `json:"frequency"` // MHz.
	NavClass      string  `json:"nav_class"` // Column-based; spacing preserved verbatim.
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	DmeID         string  `json:"dme_id,omitempty"`
	DmeLat        float64 `json:"dme_lat,omitempty"`
	DmeLon        float64 `json:"dme_lon,omitempty"`
	MagVar        float64 `json:"mag_var"` // Degrees; east positive.
	DmeElevation  int     `json:"dme_elevation,omitempty"`
	FigureOfMerit int     `json:"figure_of_merit"`
	DmeBias       float64 `json:"dme_bias,omitempty"` // NM.
	FreqProtect   string  `json:"frequency_protection,omitempty"`
	DatumCode     string  `json:"datum_code,omitempty"`
	VhfName       string  `json:"vhf_name"`
	RecordNumber  int     `json:"record_number"`
	CycleData     string  `json:"cycle_data"`

	// Raw is the full source line, retained for lossless round-tripping.
	Raw  string `json:"-"`
	Line int    `json:"-"`
}

func (r *Result) Type() string    { return "vhf_navaid" }
func (r *Result) Table() string   { return "vhf_navaids" }
func (r *Result) SourceLine() int { return r.Line }

// Row returns the record as storage columns.
func (r *Result) Row() map[string]any {
	return map[string]any{
		"st":                   r.ST,
		"area":                 r.Area,
		"sec_code":             r.SecCode,
		"sub_code":             r.SubCode,
		"airport_id":           r.AirportID,
		"airport_region":       r.AirportRegion,
		"vhf_id":               r.VhfID,
		"vhf_region":           r.VhfRegion,
		"cont_rec_no":          r.ContRecNo,
		"frequency":            r.Frequency,
		"nav_class":            r.NavClass,
		"lat":                  r.Lat,
		"lon":                  r.Lon,
		"dme_id":               r.DmeID,
		"dme_lat":              r.DmeLat,
		"dme_lon":              r.DmeLon,
		"mag_var":              r.MagVar,
		"dme_elevation":        r.DmeElevation,
		"figure_of_merit":      r.FigureOfMerit,
		"dme_bias":             r.DmeBias,
		"frequency_protection": r.FreqProtect,
		"datum_code":           r.DatumCode,
		"vhf_name":             r.VhfName,
		"record_number":        r.RecordNumber,
		"cycle_data":           r.CycleData,
	}
}

// Decoder decodes VHF Navaid records.
type Decoder struct{}

func init() {
	registry.Register(&Decoder{})
}

func (d *Decoder) Name() string     { return "vhf_navaid" }
func (d *Decoder) Keys() []cifp.Key { return []cifp.Key{{Section: cifp.SectionNavaid}} }
func (d *Decoder) Priority() int    { return 100 }

func (d *Decoder) Decode(line cifp.Line) registry.Result {
	// Continuation records carry application-specific extension data on
	// the same key; only primaries (0 or 1) are modelled here.
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
		VhfID:         field.Text(line.Raw, w.vhfID),
		VhfRegion:     field.Text(line.Raw, w.vhfRegion),
		ContRecNo:     cont,
		Frequency:     field.Frequency(line.Raw, w.frequency, 100),
		NavClass:      field.Raw(line.Raw, w.navClass),
		Lat:           field.Latitude(line.Raw, w.lat),
		Lon:           field.Longitude(line.Raw, w.lon),
		DmeID:         field.Text(line.Raw, w.dmeID),
		DmeLat:        field.Latitude(line.Raw, w.dmeLat),
		DmeLon:        field.Longitude(line.Raw, w.dmeLon),
		MagVar:        field.MagneticVariation(line.Raw, w.magVar),
		DmeElevation:  field.Altitude(line.Raw, w.dmeElevation),
		FigureOfMerit: field.Int(line.Raw, w.figureOfMerit),
		DmeBias:       field.Frequency(line.Raw, w.dmeBias, 10),
		FreqProtect:   field.Text(line.Raw, w.freqProtect),
		DatumCode:     field.Text(line.Raw, w.datumCode),
		VhfName:       field.Text(line.Raw, w.vhfName),
		RecordNumber:  field.Int(line.Raw, w.recordNumber),
		CycleData:     field.Text(line.Raw, w.cycleData),
		Raw:           line.Raw,
		Line:          line.Number,
	}
}
