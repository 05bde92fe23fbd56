package storage

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cifp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func vhfRow(id, region, airportID string, freq float64, class string) map[string]any {
	return map[string]any{
		"st": "S", "area": "USA", "sec_code": "D", "sub_code": "",
		"airport_id": airportID, "airport_region": "",
		"vhf_id": id, "vhf_region": region, "cont_rec_no": 0,
		"frequency": freq, "nav_class": class,
		"lat": 39.910686, "lon": -105.139436,
		"dme_id": id, "dme_lat": 39.910686, "dme_lon": -105.139436,
		"mag_var": 10.0, "dme_elevation": 5740,
		"figure_of_merit": 2, "dme_bias": 0.0,
		"frequency_protection": "", "datum_code": "NAR",
		"vhf_name": "JEFFCO", "record_number": 12345, "cycle_data": "2213",
	}
}

func TestInsertBatchAndQuery(t *testing.T) {
	db := openTestDB(t)

	n, err := db.InsertBatch("vhf_navaids", []map[string]any{
		vhfRow("BJC", "K2", "", 115.40, "VDHW "),
		vhfRow("DEN", "K2", "", 117.90, "VDHW "),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	navs, err := db.Navaids(NavaidQuery{ID: "BJC"})
	require.NoError(t, err)
	require.Len(t, navs, 1)
	assert.Equal(t, "VHF", navs[0].Kind)
	assert.Equal(t, "K2", navs[0].Region)
	assert.InDelta(t, 115.40, navs[0].Frequency, 0.001)
	assert.Equal(t, "JEFFCO", navs[0].Name)
}

func TestInsertBatchSkipsExistingGroups(t *testing.T) {
	db := openTestDB(t)

	n, err := db.InsertBatch("vhf_navaids", []map[string]any{
		vhfRow("BJC", "K2", "", 115.40, "VDHW "),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Re-inserting the same group plus a new one only adds the new one.
	n, err = db.InsertBatch("vhf_navaids", []map[string]any{
		vhfRow("BJC", "K2", "", 115.40, "VDHW "),
		vhfRow("FQF", "K2", "", 116.30, "VDHW "),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ByTable["vhf_navaids"])
}

func ndbRow(id, region string, freq float64) map[string]any {
	return map[string]any{
		"st": "S", "area": "USA", "sec_code": "D", "sub_code": "B",
		"airport_id": "", "airport_region": "",
		"ndb_id": id, "ndb_region": region, "cont_rec_no": 0,
		"frequency": freq, "nav_class": " MHW ",
		"lat": 39.8, "lon": -104.9,
		"mag_var": 9.0, "datum_code": "NAR",
		"ndb_name": "FRNCH", "record_number": 300, "cycle_data": "2213",
	}
}

func TestNavaidsPagination(t *testing.T) {
	db := openTestDB(t)

	// The same identifier as both a VOR and an NDB in two regions each.
	_, err := db.InsertBatch("vhf_navaids", []map[string]any{
		vhfRow("FN", "K1", "", 115.40, "VDHW "),
		vhfRow("FN", "K2", "", 115.40, "VDHW "),
	})
	require.NoError(t, err)
	_, err = db.InsertBatch("ndb_navaids", []map[string]any{
		ndbRow("FN", "K1", 400.0),
		ndbRow("FN", "K2", 400.0),
	})
	require.NoError(t, err)

	all, err := db.Navaids(NavaidQuery{ID: "FN"})
	require.NoError(t, err)
	require.Len(t, all, 4)
	// VHF stations sort before NDB, regions ascending within each kind.
	assert.Equal(t, "VHF", all[0].Kind)
	assert.Equal(t, "VHF", all[1].Kind)
	assert.Equal(t, "NDB", all[2].Kind)
	assert.Equal(t, "NDB", all[3].Kind)

	// Pagination spans the kind boundary.
	page, err := db.Navaids(NavaidQuery{ID: "FN", Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "VHF", page[0].Kind)
	assert.Equal(t, "K2", page[0].Region)
	assert.Equal(t, "NDB", page[1].Kind)
	assert.Equal(t, "K1", page[1].Region)

	tail, err := db.Navaids(NavaidQuery{ID: "FN", Limit: 10, Offset: 3})
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, "NDB", tail[0].Kind)
	assert.Equal(t, "K2", tail[0].Region)
}

// A multi-row group on re-run is skipped as a unit: no rows of the
// incoming group are added even when it carries more rows than the
// stored one.
func TestInsertBatchMultiRowGroupAtomic(t *testing.T) {
	db := openTestDB(t)

	terminal := func(cont int) map[string]any {
		row := vhfRow("IBJC", "K2", "KBJC", 111.30, "VDHW ")
		row["cont_rec_no"] = cont
		return row
	}

	n, err := db.InsertBatch("vhf_navaids", []map[string]any{
		terminal(0), terminal(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = db.InsertBatch("vhf_navaids", []map[string]any{
		terminal(0), terminal(1), terminal(2),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ByTable["vhf_navaids"])
}

func TestInsertBatchUnknownTable(t *testing.T) {
	db := openTestDB(t)
	_, err := db.InsertBatch("bogus", []map[string]any{{}})
	assert.ErrorContains(t, err, "unknown table")
}

func TestNavClassSpacingSurvivesRoundTrip(t *testing.T) {
	db := openTestDB(t)

	classes := []string{"VDHW ", " MHW ", "    A", "     "}
	for i, class := range classes {
		_, err := db.InsertBatch("vhf_navaids", []map[string]any{
			vhfRow(fmt.Sprintf("RT%d", i), "K2", "", 110.0, class),
		})
		require.NoError(t, err)
	}

	rows := 0
	err := db.EachRow("vhf_navaids", func(row map[string]any) error {
		rows++
		class, ok := row["nav_class"].(string)
		require.True(t, ok)
		assert.Len(t, class, 5, "nav_class must keep its full width")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, rows)
}

func TestAirportByID(t *testing.T) {
	db := openTestDB(t)

	_, err := db.InsertBatch("airports", []map[string]any{{
		"st": "S", "area": "USA", "sec_code": "P", "sub_code": "A",
		"airport_id": "KDEN", "airport_region": "K2", "iata": "DEN",
		"cont_rec_no": 0, "speed_limit_altitude": 10000,
		"longest_runway": 160, "ifr_capable": "Y", "runway_surface": "H",
		"lat": 39.861667, "lon": -104.673056,
		"mag_var": 8.0, "elevation": 5434, "speed_limit": 250,
		"recd_navaid": "DEN", "recd_navaid_region": "K2",
		"transition_altitude": 18000, "transition_level": 18000,
		"usage": "C", "time_zone": "U07", "daylight_ind": "Y",
		"mag_true_ind": "M", "datum_code": "NAR",
		"airport_name": "DENVER INTL", "record_number": 100,
		"cycle_data": "2213",
	}})
	require.NoError(t, err)

	a, err := db.AirportByID("KDEN")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "DENVER INTL", a.Name)
	assert.Equal(t, "DEN", a.IATA)
	assert.Equal(t, 5434, a.Elevation)

	missing, err := db.AirportByID("ZZZZ")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func waypointRow(region string) map[string]any {
	return map[string]any{
		"st": "S", "area": "USA", "sec_code": "E", "sub_code": "A",
		"region_id": "ENRT", "region_code": "",
		"waypoint_id": "TOMSN", "waypoint_region": region,
		"cont_rec_no": 0, "waypoint_type": "W  ", "usage": "RB",
		"lat": 39.5, "lon": -104.5,
		"mag_var": 0.0, "datum_code": "NAR", "name_format": "",
		"waypoint_name": "TOMSN", "record_number": 200,
		"cycle_data": "2213",
	}
}

func TestWaypoints(t *testing.T) {
	db := openTestDB(t)

	_, err := db.InsertBatch("waypoints", []map[string]any{
		waypointRow("K2"), waypointRow("K1"),
	})
	require.NoError(t, err)

	all, err := db.Waypoints(WaypointQuery{ID: "TOMSN"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := db.Waypoints(WaypointQuery{ID: "TOMSN", Region: "K1"})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "K1", one[0].Region)
}

func TestWaypointsPagination(t *testing.T) {
	db := openTestDB(t)

	_, err := db.InsertBatch("waypoints", []map[string]any{
		waypointRow("K1"), waypointRow("K2"), waypointRow("K3"),
	})
	require.NoError(t, err)

	first, err := db.Waypoints(WaypointQuery{ID: "TOMSN", Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "K1", first[0].Region)
	assert.Equal(t, "K2", first[1].Region)

	rest, err := db.Waypoints(WaypointQuery{ID: "TOMSN", Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "K3", rest[0].Region)
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)

	_, err := db.InsertBatch("vhf_navaids", []map[string]any{
		vhfRow("BJC", "K2", "", 115.40, "VDHW "),
	})
	require.NoError(t, err)

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ByTable["vhf_navaids"])
	assert.Equal(t, 0, stats.ByTable["airports"])
	assert.Equal(t, 1, stats.ByArea["USA"])
	assert.Equal(t, []string{"2213"}, stats.Cycles)
}

func TestEachRowOrder(t *testing.T) {
	db := openTestDB(t)

	_, err := db.InsertBatch("vhf_navaids", []map[string]any{
		vhfRow("AAA", "K2", "", 110.0, "VDHW "),
		vhfRow("BBB", "K2", "", 111.0, "VDHW "),
	})
	require.NoError(t, err)

	var ids []string
	err = db.EachRow("vhf_navaids", func(row map[string]any) error {
		ids = append(ids, row["vhf_id"].(string))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAA", "BBB"}, ids)
}

func TestTables(t *testing.T) {
	names := Tables()
	assert.Equal(t, []string{"airports", "grid_mora", "ndb_navaids", "vhf_navaids", "waypoints"}, names)
}
