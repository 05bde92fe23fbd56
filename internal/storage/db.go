package storage

import (
	"context"
	"fmt"
)

// ExportConfig holds connection settings for both export targets.
type ExportConfig struct {
	ClickHouse ClickHouseConfig
	Postgres   PostgresConfig
}

// DefaultExportConfig returns a configuration with default local development settings.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		ClickHouse: ClickHouseConfig{
			Host:     "localhost",
			Port:     9000,
			Database: "cifp",
			User:     "default",
			Password: "",
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "cifp",
			User:     "cifp",
			Password: "cifp",
		},
	}
}

// ExportTargets selects which export backends to open. The zero value
// selects none; use BothTargets for the common case.
type ExportTargets struct {
	ClickHouse bool
	Postgres   bool
}

// BothTargets selects ClickHouse and PostgreSQL.
func BothTargets() ExportTargets {
	return ExportTargets{ClickHouse: true, Postgres: true}
}

// ExportDB wraps the selected export connections. An unselected target
// is nil and is skipped by CreateSchemas and Export.
type ExportDB struct {
	CH *ClickHouseDB // ClickHouse for analytics queries.
	PG *PostgresDB   // PostgreSQL for relational consumers.
}

// OpenExport opens connections to the selected export targets.
func OpenExport(ctx context.Context, cfg ExportConfig, targets ExportTargets) (*ExportDB, error) {
	if !targets.ClickHouse && !targets.Postgres {
		return nil, fmt.Errorf("no export target selected")
	}

	d := &ExportDB{}

	if targets.ClickHouse {
		ch, err := OpenClickHouse(ctx, cfg.ClickHouse)
		if err != nil {
			return nil, fmt.Errorf("clickhouse: %w", err)
		}
		d.CH = ch
	}

	if targets.Postgres {
		pg, err := OpenPostgres(ctx, cfg.Postgres)
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("postgres: %w", err)
		}
		d.PG = pg
	}

	return d, nil
}

// Close closes both export connections.
func (d *ExportDB) Close() error {
	var errs []error
	if d.CH != nil {
		if err := d.CH.Close(); err != nil {
			errs = append(errs, fmt.Errorf("clickhouse: %w", err))
		}
	}
	if d.PG != nil {
		d.PG.Close()
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// CreateSchemas creates the schemas in the open export targets.
func (d *ExportDB) CreateSchemas(ctx context.Context) error {
	if d.CH != nil {
		if err := d.CH.CreateSchema(ctx); err != nil {
			return fmt.Errorf("clickhouse schema: %w", err)
		}
	}
	if d.PG != nil {
		if err := d.PG.CreateSchema(ctx); err != nil {
			return fmt.Errorf("postgres schema: %w", err)
		}
	}
	return nil
}

// Export streams every row of the local store into the open targets.
// ClickHouse rows are batched; PostgreSQL inserts skip duplicates.
func (d *ExportDB) Export(ctx context.Context, src *DB) (int, error) {
	const batchSize = 1000

	total := 0
	for _, table := range Tables() {
		batch := make([]CHRecord, 0, batchSize)

		flush := func() error {
			if d.CH == nil || len(batch) == 0 {
				return nil
			}
			if err := d.CH.InsertBatch(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
			return nil
		}

		err := src.EachRow(table, func(row map[string]any) error {
			if d.PG != nil {
				if err := d.PG.ExportRow(ctx, table, row); err != nil {
					return err
				}
			}
			if d.CH != nil {
				batch = append(batch, RecordFromRow(table, row))
			}
			total++
			if len(batch) >= batchSize {
				return flush()
			}
			return nil
		})
		if err != nil {
			return total, fmt.Errorf("export %s: %w", table, err)
		}
		if err := flush(); err != nil {
			return total, fmt.Errorf("export %s: %w", table, err)
		}
	}
	return total, nil
}
