package waypoint

import (
	"testing"

	"cifparse/internal/cifp"
	"cifparse/internal/cifp/cifptest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waypointLine() string {
	return cifptest.New().
		Put(1, "S").
		Put(2, "USA").
		Put(5, "EA").
		Put(7, "ENRT").
		Put(14, "TOMSN").
		Put(20, "K2").
		Put(22, "1").
		Put(27, "W  ").
		Put(30, "RH").
		Put(33, "N39300000").
		Put(42, "W104300000").
		Put(75, "E0080").
		Put(85, "NAR").
		Put(99, "TOMSN").
		Put(124, "11111").
		Put(129, "2513").
		String()
}

func TestDecodePrimary(t *testing.T) {
	d := &Decoder{}
	res := d.Decode(cifp.NewLine(3, waypointLine()))
	require.NotNil(t, res)

	r, ok := res.(*Result)
	require.True(t, ok)

	assert.Equal(t, "E", r.SecCode)
	assert.Equal(t, "A", r.SubCode)
	assert.Equal(t, "ENRT", r.RegionID)
	assert.Equal(t, "TOMSN", r.WaypointID)
	assert.Equal(t, "K2", r.WaypointRegion)
	assert.Equal(t, "W  ", r.WaypointType)
	assert.Equal(t, "RH", r.Usage)
	assert.InDelta(t, 39.5, r.Lat, 1e-9)
	assert.InDelta(t, -104.5, r.Lon, 1e-9)
	assert.InDelta(t, 8.0, r.MagVar, 1e-9)
	assert.Equal(t, "NAR", r.DatumCode)
	assert.Equal(t, "TOMSN", r.WaypointName)
	assert.Equal(t, "waypoint", r.Type())
	assert.Equal(t, "waypoints", r.Table())
}

func TestWaypointTypeSpacingPreserved(t *testing.T) {
	d := &Decoder{}
	res := d.Decode(cifp.NewLine(1, waypointLine()))
	require.NotNil(t, res)
	r := res.(*Result)

	assert.Len(t, r.WaypointType, 3)
	assert.Equal(t, "W  ", r.Row()["waypoint_type"])
}

func TestDecodeSkipsContinuation(t *testing.T) {
	line := cifptest.New().
		Put(1, "S").
		Put(5, "EA").
		Put(14, "TOMSN").
		Put(22, "2").
		String()

	d := &Decoder{}
	assert.Nil(t, d.Decode(cifp.NewLine(1, line)))
}
