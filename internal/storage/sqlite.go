// Package storage provides persistent storage for parsed CIFP records.
package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection for record storage.
type DB struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	// Create schema.
	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// tableSpec describes one record table: its column order and the leading
// key columns that identify a record group. A group whose key already
// exists in the table is skipped wholesale on insert, so re-parsing the
// same cycle does not duplicate rows.
type tableSpec struct {
	columns  []string
	groupKey []string
}

var tables = map[string]tableSpec{
	"vhf_navaids": {
		columns: []string{
			"st", "area", "sec_code", "sub_code", "airport_id",
			"airport_region", "vhf_id", "vhf_region", "cont_rec_no",
			"frequency", "nav_class", "lat", "lon", "dme_id", "dme_lat",
			"dme_lon", "mag_var", "dme_elevation", "figure_of_merit",
			"dme_bias", "frequency_protection", "datum_code", "vhf_name",
			"record_number", "cycle_data",
		},
		groupKey: []string{"vhf_id", "vhf_region", "airport_id"},
	},
	"ndb_navaids": {
		columns: []string{
			"st", "area", "sec_code", "sub_code", "airport_id",
			"airport_region", "ndb_id", "ndb_region", "cont_rec_no",
			"frequency", "nav_class", "lat", "lon", "mag_var",
			"datum_code", "ndb_name", "record_number", "cycle_data",
		},
		groupKey: []string{"ndb_id", "ndb_region", "airport_id"},
	},
	"waypoints": {
		columns: []string{
			"st", "area", "sec_code", "sub_code", "region_id",
			"region_code", "waypoint_id", "waypoint_region", "cont_rec_no",
			"waypoint_type", "usage", "lat", "lon", "mag_var",
			"datum_code", "name_format", "waypoint_name", "record_number",
			"cycle_data",
		},
		groupKey: []string{"waypoint_id", "waypoint_region"},
	},
	"airports": {
		columns: []string{
			"st", "area", "sec_code", "sub_code", "airport_id",
			"airport_region", "iata", "cont_rec_no",
			"speed_limit_altitude", "longest_runway", "ifr_capable",
			"runway_surface", "lat", "lon", "mag_var", "elevation",
			"speed_limit", "recd_navaid", "recd_navaid_region",
			"transition_altitude", "transition_level", "usage",
			"time_zone", "daylight_ind", "mag_true_ind", "datum_code",
			"airport_name", "record_number", "cycle_data",
		},
		groupKey: []string{"airport_id", "airport_region"},
	},
	"grid_mora": {
		columns: []string{
			"st", "sec_code", "sub_code", "start_lat", "start_lon",
			"moras", "record_number", "cycle_data",
		},
		groupKey: []string{"start_lat", "start_lon"},
	},
}

// createSchema creates the record tables and indices.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS vhf_navaids (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		st TEXT, area TEXT, sec_code TEXT, sub_code TEXT,
		airport_id TEXT, airport_region TEXT,
		vhf_id TEXT NOT NULL, vhf_region TEXT,
		cont_rec_no INTEGER,
		frequency REAL,
		nav_class TEXT,
		lat REAL, lon REAL,
		dme_id TEXT, dme_lat REAL, dme_lon REAL,
		mag_var REAL, dme_elevation INTEGER,
		figure_of_merit INTEGER, dme_bias REAL,
		frequency_protection TEXT, datum_code TEXT,
		vhf_name TEXT,
		record_number INTEGER, cycle_data TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_vhf_navaids_id ON vhf_navaids(vhf_id);
	CREATE INDEX IF NOT EXISTS idx_vhf_navaids_region ON vhf_navaids(vhf_region);

	CREATE TABLE IF NOT EXISTS ndb_navaids (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		st TEXT, area TEXT, sec_code TEXT, sub_code TEXT,
		airport_id TEXT, airport_region TEXT,
		ndb_id TEXT NOT NULL, ndb_region TEXT,
		cont_rec_no INTEGER,
		frequency REAL,
		nav_class TEXT,
		lat REAL, lon REAL,
		mag_var REAL, datum_code TEXT,
		ndb_name TEXT,
		record_number INTEGER, cycle_data TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_ndb_navaids_id ON ndb_navaids(ndb_id);

	CREATE TABLE IF NOT EXISTS waypoints (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		st TEXT, area TEXT, sec_code TEXT, sub_code TEXT,
		region_id TEXT, region_code TEXT,
		waypoint_id TEXT NOT NULL, waypoint_region TEXT,
		cont_rec_no INTEGER,
		waypoint_type TEXT, usage TEXT,
		lat REAL, lon REAL,
		mag_var REAL, datum_code TEXT, name_format TEXT,
		waypoint_name TEXT,
		record_number INTEGER, cycle_data TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_waypoints_id ON waypoints(waypoint_id);

	CREATE TABLE IF NOT EXISTS airports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		st TEXT, area TEXT, sec_code TEXT, sub_code TEXT,
		airport_id TEXT NOT NULL, airport_region TEXT,
		iata TEXT, cont_rec_no INTEGER,
		speed_limit_altitude INTEGER, longest_runway INTEGER,
		ifr_capable TEXT, runway_surface TEXT,
		lat REAL, lon REAL,
		mag_var REAL, elevation INTEGER, speed_limit INTEGER,
		recd_navaid TEXT, recd_navaid_region TEXT,
		transition_altitude INTEGER, transition_level INTEGER,
		usage TEXT, time_zone TEXT, daylight_ind TEXT,
		mag_true_ind TEXT, datum_code TEXT,
		airport_name TEXT,
		record_number INTEGER, cycle_data TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_airports_id ON airports(airport_id);
	CREATE INDEX IF NOT EXISTS idx_airports_iata ON airports(iata);

	CREATE TABLE IF NOT EXISTS grid_mora (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		st TEXT, sec_code TEXT, sub_code TEXT,
		start_lat INTEGER, start_lon INTEGER,
		moras TEXT,
		record_number INTEGER, cycle_data TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_grid_mora_origin ON grid_mora(start_lat, start_lon);
	`

	_, err := db.Exec(schema)
	return err
}

// Tables returns the known record table names, sorted.
func Tables() []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InsertBatch stores rows in the given table, skipping any group of rows
// whose leading key already exists. Returns the number of rows inserted.
// Either every row of a group is inserted or none of it is.
func (d *DB) InsertBatch(table string, rows []map[string]any) (int, error) {
	spec, ok := tables[table]
	if !ok {
		return 0, fmt.Errorf("unknown table: %s", table)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	// Bucket rows by their composite group key, preserving file order.
	type group struct {
		key  []any
		rows []map[string]any
	}
	groups := make(map[string]*group)
	var order []string

	for _, row := range rows {
		key := make([]any, len(spec.groupKey))
		parts := make([]string, len(spec.groupKey))
		for i, col := range spec.groupKey {
			key[i] = row[col]
			parts[i] = fmt.Sprint(row[col])
		}
		id := strings.Join(parts, "\x1f")
		g, ok := groups[id]
		if !ok {
			g = &group{key: key}
			groups[id] = g
			order = append(order, id)
		}
		g.rows = append(g.rows, row)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	where := make([]string, len(spec.groupKey))
	for i, col := range spec.groupKey {
		where[i] = col + " = ?"
	}
	existsQuery := fmt.Sprintf("SELECT 1 FROM %s WHERE %s LIMIT 1",
		table, strings.Join(where, " AND "))

	insertQuery := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(spec.columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(spec.columns)), ", "))
	stmt, err := tx.Prepare(insertQuery)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, id := range order {
		g := groups[id]

		var one int
		err := tx.QueryRow(existsQuery, g.key...).Scan(&one)
		if err == nil {
			continue // Group already present; skip all of its rows.
		}
		if err != sql.ErrNoRows {
			return 0, fmt.Errorf("check group: %w", err)
		}

		for _, row := range g.rows {
			args := make([]any, len(spec.columns))
			for i, col := range spec.columns {
				args[i] = row[col]
			}
			if _, err := stmt.Exec(args...); err != nil {
				return 0, fmt.Errorf("insert into %s: %w", table, err)
			}
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// Navaid is a unified query result covering VHF and NDB stations.
type Navaid struct {
	Kind      string  `json:"kind"` // "VHF" or "NDB".
	ID        string  `json:"id"`
	Region    string  `json:"region"`
	AirportID string  `json:"airport_id,omitempty"`
	Frequency float64 `json:"frequency"` // MHz for VHF, kHz for NDB.
	NavClass  string  `json:"nav_class"` // Spacing preserved.
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	MagVar    float64 `json:"mag_var"`
	Name      string  `json:"name"`
	Cycle     string  `json:"cycle"`
}

// NavaidQuery contains filtering options for navaid lookups.
type NavaidQuery struct {
	ID     string // Exact identifier match, required.
	Region string // Optional ICAO region filter.
	Limit  int    // Maximum rows to return; 0 means no limit.
	Offset int    // Rows to skip before returning results.
}

// Navaids retrieves VHF and NDB stations matching the query, VHF first.
func (d *DB) Navaids(q NavaidQuery) ([]Navaid, error) {
	vhfQuery := `SELECT 'VHF' AS kind, vhf_id, vhf_region, airport_id, frequency,
		nav_class, lat, lon, mag_var, vhf_name, cycle_data
		FROM vhf_navaids WHERE vhf_id = ?`
	ndbQuery := `SELECT 'NDB' AS kind, ndb_id, ndb_region, airport_id, frequency,
		nav_class, lat, lon, mag_var, ndb_name, cycle_data
		FROM ndb_navaids WHERE ndb_id = ?`

	args := []any{q.ID}
	if q.Region != "" {
		vhfQuery += " AND vhf_region = ?"
		ndbQuery += " AND ndb_region = ?"
		args = append(args, q.Region)
	}

	// One UNION so LIMIT/OFFSET paginate across both station kinds.
	// Ordinal 1 is kind (DESC puts 'VHF' before 'NDB'), 3 is region.
	query := vhfQuery + " UNION ALL " + ndbQuery + " ORDER BY 1 DESC, 3"
	// Both SELECTs bind the same values.
	args = append(args, args...)
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", q.Limit, q.Offset)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query navaids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Navaid
	for rows.Next() {
		var n Navaid
		if err := rows.Scan(&n.Kind, &n.ID, &n.Region, &n.AirportID, &n.Frequency,
			&n.NavClass, &n.Lat, &n.Lon, &n.MagVar, &n.Name, &n.Cycle); err != nil {
			return nil, fmt.Errorf("scan navaid: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Airport is an airport query result.
type Airport struct {
	ID        string  `json:"id"`
	Region    string  `json:"region"`
	IATA      string  `json:"iata,omitempty"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Elevation int     `json:"elevation"`
	MagVar    float64 `json:"mag_var"`
	Name      string  `json:"name"`
	Cycle     string  `json:"cycle"`
}

// AirportByID retrieves an airport by its ICAO identifier.
// Returns nil if not found.
func (d *DB) AirportByID(id string) (*Airport, error) {
	var a Airport
	err := d.db.QueryRow(`SELECT airport_id, airport_region, iata, lat, lon,
		elevation, mag_var, airport_name, cycle_data
		FROM airports WHERE airport_id = ? LIMIT 1`, id).
		Scan(&a.ID, &a.Region, &a.IATA, &a.Lat, &a.Lon, &a.Elevation,
			&a.MagVar, &a.Name, &a.Cycle)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query airport: %w", err)
	}
	return &a, nil
}

// Waypoint is a waypoint query result.
type Waypoint struct {
	ID     string  `json:"id"`
	Region string  `json:"region"`
	Type   string  `json:"type"` // Spacing preserved.
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Name   string  `json:"name"`
	Cycle  string  `json:"cycle"`
}

// WaypointQuery contains filtering options for waypoint lookups.
type WaypointQuery struct {
	ID     string // Exact identifier match, required.
	Region string // Optional ICAO region filter.
	Limit  int    // Maximum rows to return; 0 means no limit.
	Offset int    // Rows to skip before returning results.
}

// Waypoints retrieves waypoints matching the query; the same identifier
// may exist in several ICAO regions.
func (d *DB) Waypoints(q WaypointQuery) ([]Waypoint, error) {
	query := `SELECT waypoint_id, waypoint_region, waypoint_type, lat, lon,
		waypoint_name, cycle_data FROM waypoints WHERE waypoint_id = ?`
	args := []any{q.ID}
	if q.Region != "" {
		query += " AND waypoint_region = ?"
		args = append(args, q.Region)
	}
	query += " ORDER BY waypoint_region"
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", q.Limit, q.Offset)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query waypoints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Waypoint
	for rows.Next() {
		var wp Waypoint
		if err := rows.Scan(&wp.ID, &wp.Region, &wp.Type, &wp.Lat, &wp.Lon,
			&wp.Name, &wp.Cycle); err != nil {
			return nil, fmt.Errorf("scan waypoint: %w", err)
		}
		out = append(out, wp)
	}
	return out, rows.Err()
}

// Stats returns aggregate statistics about stored records.
type Stats struct {
	ByTable map[string]int `json:"by_table"`
	ByArea  map[string]int `json:"by_area"`
	Cycles  []string       `json:"cycles"`
}

// GetStats returns statistics about the stored records.
func (d *DB) GetStats() (*Stats, error) {
	stats := &Stats{
		ByTable: make(map[string]int),
		ByArea:  make(map[string]int),
	}

	for _, table := range Tables() {
		var count int
		row := d.db.QueryRow("SELECT COUNT(*) FROM " + table)
		if err := row.Scan(&count); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		stats.ByTable[table] = count
	}

	// Area breakdown over the navaid tables.
	for _, table := range []string{"vhf_navaids", "ndb_navaids"} {
		rows, err := d.db.Query("SELECT area, COUNT(*) FROM " + table + " GROUP BY area")
		if err != nil {
			return nil, fmt.Errorf("area counts: %w", err)
		}
		for rows.Next() {
			var area string
			var count int
			if err := rows.Scan(&area, &count); err != nil {
				_ = rows.Close()
				return nil, err
			}
			stats.ByArea[area] += count
		}
		_ = rows.Close()
	}

	// Distinct effectivity cycles present in the data.
	seen := make(map[string]bool)
	for _, table := range []string{"vhf_navaids", "ndb_navaids", "airports"} {
		rows, err := d.db.Query("SELECT DISTINCT cycle_data FROM " + table + " WHERE cycle_data != ''")
		if err != nil {
			return nil, fmt.Errorf("cycles: %w", err)
		}
		for rows.Next() {
			var cycle string
			if err := rows.Scan(&cycle); err != nil {
				_ = rows.Close()
				return nil, err
			}
			seen[cycle] = true
		}
		_ = rows.Close()
	}
	for cycle := range seen {
		stats.Cycles = append(stats.Cycles, cycle)
	}
	sort.Strings(stats.Cycles)

	return stats, nil
}

// EachRow streams every row of a table as a column map, for export.
func (d *DB) EachRow(table string, fn func(map[string]any) error) error {
	spec, ok := tables[table]
	if !ok {
		return fmt.Errorf("unknown table: %s", table)
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id",
		strings.Join(spec.columns, ", "), table)
	rows, err := d.db.Query(query)
	if err != nil {
		return fmt.Errorf("query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	values := make([]any, len(spec.columns))
	ptrs := make([]any, len(spec.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
		row := make(map[string]any, len(spec.columns))
		for i, col := range spec.columns {
			row[col] = values[i]
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}
