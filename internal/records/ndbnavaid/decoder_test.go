package ndbnavaid

import (
	"testing"

	"cifparse/internal/cifp"
	"cifparse/internal/cifp/cifptest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ndbLine() string {
	return cifptest.New().
		Put(1, "S").
		Put(2, "USA").
		Put(5, "DB").
		Put(14, "FN").
		Put(20, "K2").
		Put(22, "1").
		Put(23, "03620").
		Put(28, "H MW ").
		Put(33, "N40001100").
		Put(42, "W105120000").
		Put(75, "E0090").
		Put(91, "NAR").
		Put(94, "COLLN").
		Put(124, "04567").
		Put(129, "2513").
		String()
}

func TestDecodePrimary(t *testing.T) {
	d := &Decoder{}
	res := d.Decode(cifp.NewLine(9, ndbLine()))
	require.NotNil(t, res)

	r, ok := res.(*Result)
	require.True(t, ok)

	assert.Equal(t, "S", r.ST)
	assert.Equal(t, "D", r.SecCode)
	assert.Equal(t, "B", r.SubCode)
	assert.Equal(t, "FN", r.NdbID)
	assert.Equal(t, "K2", r.NdbRegion)
	assert.InDelta(t, 362.0, r.Frequency, 0.0001)
	assert.Equal(t, "H MW ", r.NavClass)
	assert.InDelta(t, 40.0+0.0/60+11.00/3600, r.Lat, 1e-9)
	assert.InDelta(t, -(105.0 + 12.0/60), r.Lon, 1e-9)
	assert.InDelta(t, 9.0, r.MagVar, 1e-9)
	assert.Equal(t, "COLLN", r.NdbName)
	assert.Equal(t, 4567, r.RecordNumber)
	assert.Equal(t, "2513", r.CycleData)
	assert.Equal(t, "ndb_navaid", r.Type())
	assert.Equal(t, "ndb_navaids", r.Table())
	assert.Equal(t, 9, r.SourceLine())
}

func TestDecodeSkipsContinuation(t *testing.T) {
	line := cifptest.New().
		Put(1, "S").
		Put(5, "DB").
		Put(14, "FN").
		Put(22, "3").
		String()

	d := &Decoder{}
	assert.Nil(t, d.Decode(cifp.NewLine(1, line)))
}

func TestNavClassSpacingSurvives(t *testing.T) {
	d := &Decoder{}
	res := d.Decode(cifp.NewLine(1, ndbLine()))
	require.NotNil(t, res)
	r := res.(*Result)

	assert.Equal(t, "H MW ", r.Row()["nav_class"])
	assert.Len(t, r.NavClass, 5)
}
