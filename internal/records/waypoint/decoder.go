// Package waypoint decodes CIFP Enroute Waypoint records (section EA).
package waypoint

import (
	"cifparse/internal/cifp"
	"cifparse/internal/field"
	"cifparse/internal/registry"
)

var w = struct {
	st             field.Width
	area           field.Width
	secCode        field.Width
	subCode        field.Width
	regionID       field.Width
	regionCode     field.Width
	waypointID     field.Width
	waypointRegion field.Width
	contRecNo      field.Width
	waypointType   field.Width
	usage          field.Width
	lat            field.Width
	lon            field.Width
	magVar         field.Width
	datumCode      field.Width
	nameFormat     field.Width
	waypointName   field.Width
	recordNumber   field.Width
	cycleData      field.Width
}{
	st:             field.W(1, 1),
	area:           field.W(2, 4),
	secCode:        field.W(5, 5),
	subCode:        field.W(6, 6),
	regionID:       field.W(7, 10),
	regionCode:     field.W(11, 12),
	waypointID:     field.W(14, 18),
	waypointRegion: field.W(20, 21),
	contRecNo:      field.W(22, 22),
	waypointType:   field.W(27, 29),
	usage:          field.W(30, 31),
	lat:            field.W(33, 41),
	lon:            field.W(42, 51),
	magVar:         field.W(75, 79),
	datumCode:      field.W(85, 87),
	nameFormat:     field.W(96, 98),
	waypointName:   field.W(99, 123),
	recordNumber:   field.W(124, 128),
	cycleData:      field.W(129, 132),
}

// Result represents a decoded enroute waypoint primary record.
type Result struct {
	ST             string  `json:"st"`
	Area           string  `json:"area"`
	SecCode        string  `json:"sec_code"`
	SubCode        string  `json:"sub_code"`
	RegionID       string  `json:"region_id,omitempty"` // "ENRT" for enroute waypoints.
	RegionCode     string  `json:"region_code,omitempty"`
	WaypointID     string  `json:"waypoint_id"`
	WaypointRegion string  `json:"waypoint_region"`
	ContRecNo      int     `json:"cont_rec_no"`
	WaypointType   string  `json:"waypoint_type"` // Column-based; spacing preserved.
	Usage          string  `json:"usage,omitempty"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	MagVar         float64 `json:"mag_var"`
	DatumCode      string  `json:"datum_code,omitempty"`
	NameFormat     string  `json:"name_format,omitempty"`
	WaypointName   string  `json:"waypoint_name"`
	RecordNumber   int     `json:"record_number"`
	CycleData      string  `json:"cycle_data"`

	Raw  string `json:"-"`
	Line int    `json:"-"`
}

func (r *Result) Type() string    { return "waypoint" }
func (r *Result) Table() string   { return "waypoints" }
func (r *Result) SourceLine() int { return r.Line }

func (r *Result) Row() map[string]any {
	return map[string]any{
		"st":              r.ST,
		"area":            r.Area,
		"sec_code":        r.SecCode,
		"sub_code":        r.SubCode,
		"region_id":       r.RegionID,
		"region_code":     r.RegionCode,
		"waypoint_id":     r.WaypointID,
		"waypoint_region": r.WaypointRegion,
		"cont_rec_no":     r.ContRecNo,
		"waypoint_type":   r.WaypointType,
		"usage":           r.Usage,
		"lat":             r.Lat,
		"lon":             r.Lon,
		"mag_var":         r.MagVar,
		"datum_code":      r.DatumCode,
		"name_format":     r.NameFormat,
		"waypoint_name":   r.WaypointName,
		"record_number":   r.RecordNumber,
		"cycle_data":      r.CycleData,
	}
}

// Decoder decodes enroute waypoint records.
type Decoder struct{}

func init() {
	registry.Register(&Decoder{})
}

func (d *Decoder) Name() string { return "waypoint" }
func (d *Decoder) Keys() []cifp.Key {
	return []cifp.Key{{Section: cifp.SectionEnroute, SubSection: "A"}}
}
func (d *Decoder) Priority() int { return 100 }

func (d *Decoder) Decode(line cifp.Line) registry.Result {
	cont := field.Int(line.Raw, w.contRecNo)
	if cont > 1 {
		return nil
	}

	return &Result{
		ST:             field.Text(line.Raw, w.st),
		Area:           field.Text(line.Raw, w.area),
		SecCode:        field.Text(line.Raw, w.secCode),
		SubCode:        field.Text(line.Raw, w.subCode),
		RegionID:       field.Text(line.Raw, w.regionID),
		RegionCode:     field.Text(line.Raw, w.regionCode),
		WaypointID:     field.Text(line.Raw, w.waypointID),
		WaypointRegion: field.Text(line.Raw, w.waypointRegion),
		ContRecNo:      cont,
		WaypointType:   field.Raw(line.Raw, w.waypointType),
		Usage:          field.Text(line.Raw, w.usage),
		Lat:            field.Latitude(line.Raw, w.lat),
		Lon:            field.Longitude(line.Raw, w.lon),
		MagVar:         field.MagneticVariation(line.Raw, w.magVar),
		DatumCode:      field.Text(line.Raw, w.datumCode),
		NameFormat:     field.Text(line.Raw, w.nameFormat),
		WaypointName:   field.Text(line.Raw, w.waypointName),
		RecordNumber:   field.Int(line.Raw, w.recordNumber),
		CycleData:      field.Text(line.Raw, w.cycleData),
		Raw:            line.Raw,
		Line:           line.Number,
	}
}
