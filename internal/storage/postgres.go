package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// PostgresDB wraps a PostgreSQL connection pool for the export target.
type PostgresDB struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a connection pool to PostgreSQL.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresDB, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Test the connection.
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Close closes the PostgreSQL connection pool.
func (d *PostgresDB) Close() {
	d.pool.Close()
}

// CreateSchema creates the PostgreSQL tables.
func (d *PostgresDB) CreateSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS vhf_navaids (
		id                      BIGSERIAL PRIMARY KEY,
		st                      TEXT,
		area                    TEXT,
		sec_code                TEXT,
		sub_code                TEXT,
		airport_id              TEXT,
		airport_region          TEXT,
		vhf_id                  TEXT NOT NULL,
		vhf_region              TEXT,
		cont_rec_no             INTEGER,
		frequency               DOUBLE PRECISION,
		nav_class               TEXT,
		lat                     DOUBLE PRECISION,
		lon                     DOUBLE PRECISION,
		dme_id                  TEXT,
		dme_lat                 DOUBLE PRECISION,
		dme_lon                 DOUBLE PRECISION,
		mag_var                 DOUBLE PRECISION,
		dme_elevation           INTEGER,
		figure_of_merit         INTEGER,
		dme_bias                DOUBLE PRECISION,
		frequency_protection    TEXT,
		datum_code              TEXT,
		vhf_name                TEXT,
		record_number           INTEGER,
		cycle_data              TEXT,
		UNIQUE(vhf_id, vhf_region, airport_id, record_number, cycle_data)
	);

	CREATE INDEX IF NOT EXISTS idx_vhf_navaids_id ON vhf_navaids(vhf_id);

	CREATE TABLE IF NOT EXISTS ndb_navaids (
		id              BIGSERIAL PRIMARY KEY,
		st              TEXT,
		area            TEXT,
		sec_code        TEXT,
		sub_code        TEXT,
		airport_id      TEXT,
		airport_region  TEXT,
		ndb_id          TEXT NOT NULL,
		ndb_region      TEXT,
		cont_rec_no     INTEGER,
		frequency       DOUBLE PRECISION,
		nav_class       TEXT,
		lat             DOUBLE PRECISION,
		lon             DOUBLE PRECISION,
		mag_var         DOUBLE PRECISION,
		datum_code      TEXT,
		ndb_name        TEXT,
		record_number   INTEGER,
		cycle_data      TEXT,
		UNIQUE(ndb_id, ndb_region, airport_id, record_number, cycle_data)
	);

	CREATE INDEX IF NOT EXISTS idx_ndb_navaids_id ON ndb_navaids(ndb_id);

	CREATE TABLE IF NOT EXISTS waypoints (
		id              BIGSERIAL PRIMARY KEY,
		st              TEXT,
		area            TEXT,
		sec_code        TEXT,
		sub_code        TEXT,
		region_id       TEXT,
		region_code     TEXT,
		waypoint_id     TEXT NOT NULL,
		waypoint_region TEXT,
		cont_rec_no     INTEGER,
		waypoint_type   TEXT,
		usage           TEXT,
		lat             DOUBLE PRECISION,
		lon             DOUBLE PRECISION,
		mag_var         DOUBLE PRECISION,
		datum_code      TEXT,
		name_format     TEXT,
		waypoint_name   TEXT,
		record_number   INTEGER,
		cycle_data      TEXT,
		UNIQUE(waypoint_id, waypoint_region, record_number, cycle_data)
	);

	CREATE INDEX IF NOT EXISTS idx_waypoints_id ON waypoints(waypoint_id);

	CREATE TABLE IF NOT EXISTS airports (
		id                      BIGSERIAL PRIMARY KEY,
		st                      TEXT,
		area                    TEXT,
		sec_code                TEXT,
		sub_code                TEXT,
		airport_id              TEXT NOT NULL,
		airport_region          TEXT,
		iata                    TEXT,
		cont_rec_no             INTEGER,
		speed_limit_altitude    INTEGER,
		longest_runway          INTEGER,
		ifr_capable             TEXT,
		runway_surface          TEXT,
		lat                     DOUBLE PRECISION,
		lon                     DOUBLE PRECISION,
		mag_var                 DOUBLE PRECISION,
		elevation               INTEGER,
		speed_limit             INTEGER,
		recd_navaid             TEXT,
		recd_navaid_region      TEXT,
		transition_altitude     INTEGER,
		transition_level        INTEGER,
		usage                   TEXT,
		time_zone               TEXT,
		daylight_ind            TEXT,
		mag_true_ind            TEXT,
		datum_code              TEXT,
		airport_name            TEXT,
		record_number           INTEGER,
		cycle_data              TEXT,
		UNIQUE(airport_id, airport_region, record_number, cycle_data)
	);

	CREATE INDEX IF NOT EXISTS idx_airports_id ON airports(airport_id);
	CREATE INDEX IF NOT EXISTS idx_airports_iata ON airports(iata);

	CREATE TABLE IF NOT EXISTS grid_mora (
		id              BIGSERIAL PRIMARY KEY,
		st              TEXT,
		sec_code        TEXT,
		sub_code        TEXT,
		start_lat       INTEGER,
		start_lon       INTEGER,
		moras           TEXT,
		record_number   INTEGER,
		cycle_data      TEXT,
		UNIQUE(start_lat, start_lon, record_number, cycle_data)
	);
	`

	_, err := d.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// ExportRow inserts one record row into the given table. Rows already
// present are left alone, so an export can be re-run safely.
func (d *PostgresDB) ExportRow(ctx context.Context, table string, row map[string]any) error {
	spec, ok := tables[table]
	if !ok {
		return fmt.Errorf("unknown table: %s", table)
	}

	placeholders := make([]string, len(spec.columns))
	args := make([]any, len(spec.columns))
	for i, col := range spec.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = row[col]
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING`,
		table,
		strings.Join(spec.columns, ", "),
		strings.Join(placeholders, ", "))

	if _, err := d.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("export to %s: %w", table, err)
	}
	return nil
}

// NavaidByID retrieves a VHF navaid from the export target by identifier.
// Returns nil if not found.
func (d *PostgresDB) NavaidByID(ctx context.Context, id string) (*Navaid, error) {
	var n Navaid
	n.Kind = "VHF"
	err := d.pool.QueryRow(ctx, `
		SELECT vhf_id, vhf_region, airport_id, frequency, nav_class, lat, lon, mag_var, vhf_name, cycle_data
		FROM vhf_navaids WHERE vhf_id = $1 LIMIT 1
	`, id).Scan(&n.ID, &n.Region, &n.AirportID, &n.Frequency, &n.NavClass,
		&n.Lat, &n.Lon, &n.MagVar, &n.Name, &n.Cycle)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Counts returns row counts per table on the export target.
func (d *PostgresDB) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, table := range Tables() {
		var count int
		if err := d.pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = count
	}
	return counts, nil
}

// Pool returns the underlying connection pool for advanced operations.
func (d *PostgresDB) Pool() *pgxpool.Pool {
	return d.pool
}
