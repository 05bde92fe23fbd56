package vhfnavaid

import (
	"testing"

	"cifparse/internal/cifp"
	"cifparse/internal/cifp/cifptest"
	"cifparse/internal/field"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jeffcoLine builds a VOR/DME record equivalent to the BJC (Jeffco) entry.
func jeffcoLine() string {
	return cifptest.New().
		Put(1, "S").
		Put(2, "USA").
		Put(5, "D").
		Put(14, "BJC").
		Put(20, "K2").
		Put(22, "1").
		Put(23, "11540").
		Put(28, "VDHW ").
		Put(33, "N39543847").
		Put(42, "W105082197").
		Put(52, "BJC").
		Put(56, "N39543847").
		Put(65, "W105082197").
		Put(75, "E0100").
		Put(80, "05740").
		Put(85, "2").
		Put(91, "NAR").
		Put(94, "JEFFCO").
		Put(124, "01234").
		Put(129, "2513").
		String()
}

func TestDecodePrimary(t *testing.T) {
	d := &Decoder{}
	res := d.Decode(cifp.NewLine(42, jeffcoLine()))
	require.NotNil(t, res)

	r, ok := res.(*Result)
	require.True(t, ok)

	assert.Equal(t, "S", r.ST)
	assert.Equal(t, "USA", r.Area)
	assert.Equal(t, "D", r.SecCode)
	assert.Equal(t, "", r.SubCode)
	assert.Equal(t, "", r.AirportID)
	assert.Equal(t, "BJC", r.VhfID)
	assert.Equal(t, "K2", r.VhfRegion)
	assert.Equal(t, 1, r.ContRecNo)
	assert.InDelta(t, 115.40, r.Frequency, 0.0001)
	assert.Equal(t, "VDHW ", r.NavClass)
	assert.InDelta(t, 39.910686, r.Lat, 0.0001)
	assert.InDelta(t, -105.139436, r.Lon, 0.0001)
	assert.Equal(t, "BJC", r.DmeID)
	assert.InDelta(t, r.Lat, r.DmeLat, 1e-9)
	assert.InDelta(t, r.Lon, r.DmeLon, 1e-9)
	assert.InDelta(t, 10.0, r.MagVar, 1e-9)
	assert.Equal(t, 5740, r.DmeElevation)
	assert.Equal(t, 2, r.FigureOfMerit)
	assert.Equal(t, "NAR", r.DatumCode)
	assert.Equal(t, "JEFFCO", r.VhfName)
	assert.Equal(t, 1234, r.RecordNumber)
	assert.Equal(t, "2513", r.CycleData)
	assert.Equal(t, 42, r.SourceLine())
	assert.Equal(t, "vhf_navaid", r.Type())
	assert.Equal(t, "vhf_navaids", r.Table())
}

func TestNavClassRoundTrip(t *testing.T) {
	// Class codes are positional: each column has a distinct meaning, so
	// decode followed by re-extraction must be byte-identical, blanks
	// included.
	classes := []string{"VDHW ", "VTHW ", " MHW ", "VDLW ", "    A"}
	d := &Decoder{}

	for _, class := range classes {
		line := cifptest.New().
			Put(1, "S").
			Put(2, "USA").
			Put(5, "D").
			Put(14, "ABC").
			Put(20, "K2").
			Put(22, "1").
			Put(28, class).
			String()

		res := d.Decode(cifp.NewLine(1, line))
		require.NotNil(t, res)
		r := res.(*Result)

		assert.Equal(t, class, r.NavClass)
		// Re-encoding the retained raw line reproduces the exact field.
		assert.Equal(t, class, field.Raw(r.Raw, field.W(28, 32)))
	}
}

func TestDecodeSkipsContinuation(t *testing.T) {
	line := cifptest.New().
		Put(1, "S").
		Put(2, "USA").
		Put(5, "D").
		Put(14, "BJC").
		Put(20, "K2").
		Put(22, "2").
		String()

	d := &Decoder{}
	assert.Nil(t, d.Decode(cifp.NewLine(1, line)))
}

func TestDecodeTerminalNavaid(t *testing.T) {
	line := cifptest.New().
		Put(1, "S").
		Put(2, "USA").
		Put(5, "D").
		Put(7, "KDEN").
		Put(11, "K2").
		Put(14, "IDEN").
		Put(20, "K2").
		Put(22, "1").
		Put(23, "11110").
		String()

	d := &Decoder{}
	res := d.Decode(cifp.NewLine(1, line))
	require.NotNil(t, res)
	r := res.(*Result)

	assert.Equal(t, "KDEN", r.AirportID)
	assert.Equal(t, "K2", r.AirportRegion)
	assert.Equal(t, "IDEN", r.VhfID)
	assert.InDelta(t, 111.10, r.Frequency, 0.0001)
}

func TestDecodeShortLine(t *testing.T) {
	// Truncated lines must not panic; missing fields decode as absent.
	d := &Decoder{}
	res := d.Decode(cifp.NewLine(1, "SUSAD        BJC   K21"))
	require.NotNil(t, res)
	r := res.(*Result)

	assert.Equal(t, "BJC", r.VhfID)
	assert.Equal(t, 0.0, r.Frequency)
	assert.Equal(t, "     ", r.NavClass)
	assert.Equal(t, 0.0, r.Lat)
}

func TestRowFieldNames(t *testing.T) {
	d := &Decoder{}
	res := d.Decode(cifp.NewLine(1, jeffcoLine()))
	require.NotNil(t, res)

	row := res.Row()
	for _, col := range []string{
		"st", "area", "sec_code", "sub_code", "airport_id", "airport_region",
		"vhf_id", "vhf_region", "cont_rec_no", "frequency", "nav_class",
		"lat", "lon", "dme_id", "dme_lat", "dme_lon", "mag_var",
		"dme_elevation", "figure_of_merit", "dme_bias",
		"frequency_protection", "datum_code", "vhf_name", "record_number",
		"cycle_data",
	} {
		assert.Contains(t, row, col)
	}
	assert.Equal(t, "VDHW ", row["nav_class"])
}
