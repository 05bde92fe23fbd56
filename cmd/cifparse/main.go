// Command-line entry point for the CIFP parser.
//
// Input is a FAA CIFP dataset: fixed-width 132-character lines, one
// record per line, with a few HDR header lines at the top. Records are
// dispatched to decoders by their section and subsection codes.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"cifparse/internal/api"
	"cifparse/internal/config"
	"cifparse/internal/pipeline"
	"cifparse/internal/publish"
	_ "cifparse/internal/records" // register all decoders via init()
	"cifparse/internal/registry"
	"cifparse/internal/storage"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "cifparse - commands:")
	fmt.Fprintln(w, "  parse    - parse a CIFP file into the local store or JSON")
	fmt.Fprintln(w, "  serve    - run the navdata HTTP API over the local store")
	fmt.Fprintln(w, "  export   - copy the local store into PostgreSQL and ClickHouse")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  cifparse parse -input FAACIFP18 [-db cifp.db] [-json out.json] [-pretty] [-filter D,DB,EA] [-nats-url nats://host:4222] [-stats]")
	fmt.Fprintln(w, "  cifparse serve [-db cifp.db] [-port 8080]")
	fmt.Fprintln(w, "  cifparse export [-db cifp.db] [-postgres] [-clickhouse]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Configuration is read from cifparse.yaml and CIFPARSE_* environment")
	fmt.Fprintln(w, "variables; flags override both.")
	fmt.Fprintln(w, "")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		basicLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		basicLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	initLogger(cfg)

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "parse":
		runParse(cfg, os.Args[2:])
	case "serve":
		runServe(cfg, os.Args[2:])
	case "export":
		runExport(cfg, os.Args[2:])
	case "-h", "--help", "help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}
}

func initLogger(cfg *config.Config) {
	var logLevel slog.Level
	switch cfg.Log.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func runParse(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	inPath := fs.String("input", "", "Input CIFP file (default: stdin)")
	dbPath := fs.String("db", cfg.DBPath, "SQLite database path")
	jsonPath := fs.String("json", "", "Write decoded records as JSON instead of storing them")
	pretty := fs.Bool("pretty", false, "Indent JSON output")
	filterArg := fs.String("filter", "", "Comma-separated record keys to keep (e.g. D,DB,EA,PA,AS)")
	natsURL := fs.String("nats-url", "", "Publish decoded records to the NATS server at this URL")
	showStats := fs.Bool("stats", false, "Print counters after parsing")
	_ = fs.Parse(args)

	// Ensure decoder priority ordering is stable.
	registry.Default().Sort()

	var r io.Reader = os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			slog.Error("Failed to open input", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	var filter []string
	if *filterArg != "" {
		for _, k := range strings.Split(*filterArg, ",") {
			filter = append(filter, strings.ToUpper(strings.TrimSpace(k)))
		}
	}

	var pub *publish.Publisher
	if *natsURL != "" {
		natsCfg := cfg.NATS
		natsCfg.URL = *natsURL
		var err error
		pub, err = publish.Connect(natsCfg)
		if err != nil {
			slog.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer pub.Close()
	}

	if *jsonPath != "" {
		writeJSONOutput(r, *jsonPath, filter, pub, *pretty, *showStats)
		return
	}

	db, err := storage.Open(*dbPath)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Collect rows per table, then insert table by table so duplicate
	// groups from a re-run are skipped as a unit.
	rows := make(map[string][]map[string]any)
	opts := pipeline.Options{
		Filter: filter,
		OnResult: func(res registry.Result) error {
			rows[res.Table()] = append(rows[res.Table()], res.Row())
			if pub != nil {
				return pub.Publish(res)
			}
			return nil
		},
	}

	_, stats, err := pipeline.Parse(r, registry.Default(), opts)
	if err != nil {
		slog.Error("Parse failed", "error", err)
		os.Exit(1)
	}

	total := 0
	for _, table := range storage.Tables() {
		if len(rows[table]) == 0 {
			continue
		}
		n, err := db.InsertBatch(table, rows[table])
		if err != nil {
			slog.Error("Insert failed", "table", table, "error", err)
			os.Exit(1)
		}
		slog.Info("stored records", "table", table, "inserted", n, "decoded", len(rows[table]))
		total += n
	}

	if pub != nil {
		slog.Info("published records", "count", pub.Sent())
	}
	if *showStats {
		stats.Log()
	}
	slog.Info("parse complete", "inserted", total)
}

func writeJSONOutput(r io.Reader, outPath string, filter []string, pub *publish.Publisher, pretty, showStats bool) {
	results, stats, err := pipeline.Parse(r, registry.Default(), pipeline.Options{Filter: filter})
	if err != nil {
		slog.Error("Parse failed", "error", err)
		os.Exit(1)
	}

	if pub != nil {
		for _, res := range results {
			if err := pub.Publish(res); err != nil {
				slog.Error("Publish failed", "error", err)
				os.Exit(1)
			}
		}
	}

	var w io.Writer = os.Stdout
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			slog.Error("Failed to create output", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(results); err != nil {
		slog.Error("JSON encode failed", "error", err)
		os.Exit(1)
	}

	if showStats {
		stats.Log()
	}
}

func runServe(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	dbPath := fs.String("db", cfg.DBPath, "SQLite database path")
	port := fs.Int("port", cfg.API.Port, "HTTP listen port")
	_ = fs.Parse(args)

	db, err := storage.Open(*dbPath)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	apiCfg := cfg.API
	apiCfg.Port = *port

	srv := api.NewServer(db, apiCfg)
	if err := srv.Run(); err != nil {
		slog.Error("API server failed", "error", err)
		os.Exit(1)
	}
}

func runExport(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dbPath := fs.String("db", cfg.DBPath, "SQLite database path")
	toPostgres := fs.Bool("postgres", false, "Export to PostgreSQL only")
	toClickHouse := fs.Bool("clickhouse", false, "Export to ClickHouse only")
	_ = fs.Parse(args)

	// No target flag means export to both.
	targets := storage.ExportTargets{ClickHouse: *toClickHouse, Postgres: *toPostgres}
	if !*toClickHouse && !*toPostgres {
		targets = storage.BothTargets()
	}

	ctx := context.Background()

	db, err := storage.Open(*dbPath)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	exp, err := storage.OpenExport(ctx, cfg.Export, targets)
	if err != nil {
		slog.Error("Failed to open export targets", "error", err)
		os.Exit(1)
	}
	defer exp.Close()

	if err := exp.CreateSchemas(ctx); err != nil {
		slog.Error("Failed to create export schemas", "error", err)
		os.Exit(1)
	}

	n, err := exp.Export(ctx, db)
	if err != nil {
		slog.Error("Export failed", "exported", n, "error", err)
		os.Exit(1)
	}
	slog.Info("export complete", "rows", n)
}
