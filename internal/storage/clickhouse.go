package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// ClickHouseConfig holds ClickHouse connection settings.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ClickHouseDB wraps a ClickHouse connection for the analytics target.
type ClickHouseDB struct {
	conn driver.Conn
}

// Conn returns the underlying ClickHouse connection for direct queries.
func (d *ClickHouseDB) Conn() driver.Conn {
	return d.conn
}

// OpenClickHouse opens a connection to ClickHouse.
func OpenClickHouse(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	// Test the connection.
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Close closes the ClickHouse connection.
func (d *ClickHouseDB) Close() error {
	return d.conn.Close()
}

// CreateSchema creates the ClickHouse tables. All record types share one
// denormalized table; the full column map rides along as JSON.
func (d *ClickHouseDB) CreateSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS cifp_records (
		record_type     LowCardinality(String),
		area            LowCardinality(String),
		region          LowCardinality(String),
		ident           String,
		airport_id      LowCardinality(String),
		frequency       Float64,
		lat             Float64,
		lon             Float64,
		name            String,
		cycle           LowCardinality(String),
		row_json        String,
		exported_at     DateTime64(3) DEFAULT now64(3)
	)
	ENGINE = MergeTree()
	PARTITION BY cycle
	ORDER BY (record_type, region, ident)
	SETTINGS index_granularity = 8192`

	if err := d.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CHRecord is one row of the denormalized analytics table.
type CHRecord struct {
	RecordType string
	Area       string
	Region     string
	Ident      string
	AirportID  string
	Frequency  float64
	Lat        float64
	Lon        float64
	Name       string
	Cycle      string
	Row        map[string]any
}

// chString pulls a string column out of a row map, tolerating NULLs.
func chString(row map[string]any, col string) string {
	s, _ := row[col].(string)
	return s
}

func chFloat(row map[string]any, col string) float64 {
	switch v := row[col].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

// RecordFromRow flattens a record table row into an analytics row.
func RecordFromRow(table string, row map[string]any) CHRecord {
	r := CHRecord{
		RecordType: table,
		Area:       chString(row, "area"),
		AirportID:  chString(row, "airport_id"),
		Frequency:  chFloat(row, "frequency"),
		Lat:        chFloat(row, "lat"),
		Lon:        chFloat(row, "lon"),
		Cycle:      chString(row, "cycle_data"),
		Row:        row,
	}

	switch table {
	case "vhf_navaids":
		r.Ident = chString(row, "vhf_id")
		r.Region = chString(row, "vhf_region")
		r.Name = chString(row, "vhf_name")
	case "ndb_navaids":
		r.Ident = chString(row, "ndb_id")
		r.Region = chString(row, "ndb_region")
		r.Name = chString(row, "ndb_name")
	case "waypoints":
		r.Ident = chString(row, "waypoint_id")
		r.Region = chString(row, "waypoint_region")
		r.Name = chString(row, "waypoint_name")
	case "airports":
		r.Ident = chString(row, "airport_id")
		r.Region = chString(row, "airport_region")
		r.Name = chString(row, "airport_name")
	case "grid_mora":
		r.Ident = fmt.Sprintf("%v/%v", row["start_lat"], row["start_lon"])
	}
	return r
}

// InsertBatch stores multiple records in ClickHouse efficiently.
func (d *ClickHouseDB) InsertBatch(ctx context.Context, records []CHRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := d.conn.PrepareBatch(ctx, `
		INSERT INTO cifp_records (record_type, area, region, ident, airport_id, frequency, lat, lon, name, cycle, row_json)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		rowJSON, err := json.Marshal(r.Row)
		if err != nil {
			return fmt.Errorf("marshal row: %w", err)
		}

		err = batch.Append(r.RecordType, r.Area, r.Region, r.Ident, r.AirportID,
			r.Frequency, r.Lat, r.Lon, r.Name, r.Cycle, string(rowJSON))
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// CHQueryParams contains filtering options for querying records.
type CHQueryParams struct {
	RecordType string
	Region     string
	Ident      string
	Cycle      string
	Limit      int
	Offset     int
}

// Query retrieves records matching the given parameters.
func (d *ClickHouseDB) Query(ctx context.Context, p CHQueryParams) ([]CHRecord, error) {
	var conditions []string
	var args []interface{}

	if p.RecordType != "" {
		conditions = append(conditions, "record_type = ?")
		args = append(args, p.RecordType)
	}
	if p.Region != "" {
		conditions = append(conditions, "region = ?")
		args = append(args, p.Region)
	}
	if p.Ident != "" {
		conditions = append(conditions, "ident = ?")
		args = append(args, p.Ident)
	}
	if p.Cycle != "" {
		conditions = append(conditions, "cycle = ?")
		args = append(args, p.Cycle)
	}

	query := `SELECT record_type, area, region, ident, airport_id, frequency, lat, lon, name, cycle, row_json FROM cifp_records`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY record_type, region, ident"

	limit := 100
	if p.Limit > 0 {
		limit = p.Limit
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, p.Offset)

	rows, err := d.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []CHRecord
	for rows.Next() {
		var r CHRecord
		var rowJSON string
		err := rows.Scan(&r.RecordType, &r.Area, &r.Region, &r.Ident, &r.AirportID,
			&r.Frequency, &r.Lat, &r.Lon, &r.Name, &r.Cycle, &rowJSON)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		_ = json.Unmarshal([]byte(rowJSON), &r.Row)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}

// CountByType returns record counts grouped by record type.
func (d *ClickHouseDB) CountByType(ctx context.Context) (map[string]uint64, error) {
	counts := make(map[string]uint64)
	rows, err := d.conn.Query(ctx, "SELECT record_type, count() FROM cifp_records GROUP BY record_type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var typ string
		var count uint64
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, fmt.Errorf("scan count by type: %w", err)
		}
		counts[typ] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate count by type: %w", err)
	}
	return counts, nil
}

// Cycles returns the distinct effectivity cycles present in the table.
func (d *ClickHouseDB) Cycles(ctx context.Context) ([]string, error) {
	rows, err := d.conn.Query(ctx, "SELECT DISTINCT cycle FROM cifp_records WHERE cycle != '' ORDER BY cycle")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		cycles = append(cycles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycles: %w", err)
	}
	return cycles, nil
}
