// Package airport decodes CIFP Airport reference point records
// (section P, subsection A).
package airport

import (
	"cifparse/internal/cifp"
	"cifparse/internal/field"
	"cifparse/internal/registry"
)

var w = struct {
	st             field.Width
	area           field.Width
	secCode        field.Width
	airportID      field.Width
	airportRegion  field.Width
	subCode        field.Width
	iata           field.Width
	contRecNo      field.Width
	speedLimitAlt  field.Width
	longestRunway  field.Width
	ifrCapable     field.Width
	runwaySurface  field.Width
	lat            field.Width
	lon            field.Width
	magVar         field.Width
	elevation      field.Width
	speedLimit     field.Width
	recdNavaid     field.Width
	recdNavaidReg  field.Width
	transitionAlt  field.Width
	transitionLvl  field.Width
	usage          field.Width
	timeZone       field.Width
	daylightInd    field.Width
	magTrueInd     field.Width
	datumCode      field.Width
	airportName    field.Width
	recordNumber   field.Width
	cycleData      field.Width
}{
	st:            field.W(1, 1),
	area:          field.W(2, 4),
	secCode:       field.W(5, 5),
	airportID:     field.W(7, 10),
	airportRegion: field.W(11, 12),
	subCode:       field.W(13, 13),
	iata:          field.W(14, 16),
	contRecNo:     field.W(22, 22),
	speedLimitAlt: field.W(23, 27),
	longestRunway: field.W(28, 30),
	ifrCapable:    field.W(31, 31),
	runwaySurface: field.W(32, 32),
	lat:           field.W(33, 41),
	lon:           field.W(42, 51),
	magVar:        field.W(52, 56),
	elevation:     field.W(57, 61),
	speedLimit:    field.W(62, 64),
	recdNavaid:    field.W(65, 68),
	recdNavaidReg: field.W(69, 70),
	transitionAlt: field.W(71, 75),
	transitionLvl: field.W(76, 80),
	usage:         field.W(81, 81),
	timeZone:      field.W(82, 84),
	daylightInd:   field.W(85, 85),
	magTrueInd:    field.W(86, 86),
	datumCode:     field.W(87, 89),
	airportName:   field.W(94, 123),
	recordNumber:  field.W(124, 128),
	cycleData:     field.W(129, 132),
}

// Result represents a decoded airport reference point primary record.
type Result struct {
	ST            string  `json:"st"`
	Area          string  `json:"area"`
	SecCode       string  `json:"sec_code"`
	SubCode       string  `json:"sub_code"`
	AirportID     string  `json:"airport_id"`
	AirportRegion string  `json:"airport_region"`
	IATA          string  `json:"iata,omitempty"`
	ContRecNo     int     `json:"cont_rec_no"`
	SpeedLimitAlt int     `json:"speed_limit_altitude,omitempty"`
	LongestRunway int     `json:"longest_runway,omitempty"` // Hundreds of feet.
	IFRCapable    string  `json:"ifr_capable,omitempty"`
	RunwaySurface string  `json:"runway_surface,omitempty"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	MagVar        float64 `json:"mag_var"`
	Elevation     int     `json:"elevation"`
	SpeedLimit    int     `json:"speed_limit,omitempty"`
	RecdNavaid    string  `json:"recd_navaid,omitempty"`
	RecdNavaidReg string  `json:"recd_navaid_region,omitempty"`
	TransitionAlt int     `json:"transition_altitude,omitempty"`
	TransitionLvl int     `json:"transition_level,omitempty"`
	Usage         string  `json:"usage,omitempty"` // C=civil, M=military, P=private.
	TimeZone      string  `json:"time_zone,omitempty"`
	DaylightInd   string  `json:"daylight_ind,omitempty"`
	MagTrueInd    string  `json:"mag_true_ind,omitempty"`
	DatumCode     string  `json:"datum_code,omitempty"`
	AirportName   string  `json:"airport_name"`
	RecordNumber  int     `json:"record_number"`
	CycleData     string  `json:"cycle_data"`

	Raw  string `json:"-"`
	Line int    `json:"-"`
}

func (r *Result) Type() string    { return "airport" }
func (r *Result) Table() string   { return "airports" }
func (r *Result) SourceLine() int { return r.Line }

func (r *Result) Row() map[string]any {
	return map[string]any{
		"st":                   r.ST,
		"area":                 r.Area,
		"sec_code":             r.SecCode,
		"sub_code":             r.SubCode,
		"airport_id":           r.AirportID,
		"airport_region":       r.AirportRegion,
		"iata":                 r.IATA,
		"cont_rec_no":          r.ContRecNo,
		"speed_limit_altitude": r.SpeedLimitAlt,
		"longest_runway":       r.LongestRunway,
		"ifr_capable":          r.IFRCapable,
		"runway_surface":       r.RunwaySurface,
		"lat":                  r.Lat,
		"lon":                  r.Lon,
		"mag_var":              r.MagVar,
		"elevation":            r.Elevation,
		"speed_limit":          r.SpeedLimit,
		"recd_navaid":          r.RecdNavaid,
		"recd_navaid_region":   r.RecdNavaidReg,
		"transition_altitude":  r.TransitionAlt,
		"transition_level":     r.TransitionLvl,
		"usage":                r.Usage,
		"time_zone":            r.TimeZone,
		"daylight_ind":         r.DaylightInd,
		"mag_true_ind":         r.MagTrueInd,
		"datum_code":           r.DatumCode,
		"airport_name":         r.AirportName,
		"record_number":        r.RecordNumber,
		"cycle_data":           r.CycleData,
	}
}

// Decoder decodes airport reference point records.
type Decoder struct{}

func init() {
	registry.Register(&Decoder{})
}

func (d *Decoder) Name() string { return "airport" }
func (d *Decoder) Keys() []cifp.Key {
	return []cifp.Key{{Section: cifp.SectionAirport, SubSection: "A"}}
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
		IATA:          field.Text(line.Raw, w.iata),
		ContRecNo:     cont,
		SpeedLimitAlt: field.Altitude(line.Raw, w.speedLimitAlt),
		LongestRunway: field.Int(line.Raw, w.longestRunway),
		IFRCapable:    field.Text(line.Raw, w.ifrCapable),
		RunwaySurface: field.Text(line.Raw, w.runwaySurface),
		Lat:           field.Latitude(line.Raw, w.lat),
		Lon:           field.Longitude(line.Raw, w.lon),
		MagVar:        field.MagneticVariation(line.Raw, w.magVar),
		Elevation:     field.Altitude(line.Raw, w.elevation),
		SpeedLimit:    field.Int(line.Raw, w.speedLimit),
		RecdNavaid:    field.Text(line.Raw, w.recdNavaid),
		RecdNavaidReg: field.Text(line.Raw, w.recdNavaidReg),
		TransitionAlt: field.Altitude(line.Raw, w.transitionAlt),
		TransitionLvl: field.Altitude(line.Raw, w.transitionLvl),
		Usage:         field.Text(line.Raw, w.usage),
		TimeZone:      field.Text(line.Raw, w.timeZone),
		DaylightInd:   field.Text(line.Raw, w.daylightInd),
		MagTrueInd:    field.Text(line.Raw, w.magTrueInd),
		DatumCode:     field.Text(line.Raw, w.datumCode),
		AirportName:   field.Text(line.Raw, w.airportName),
		RecordNumber:  field.Int(line.Raw, w.recordNumber),
		CycleData:     field.Text(line.Raw, w.cycleData),
		Raw:           line.Raw,
		Line:          line.Number,
	}
}
