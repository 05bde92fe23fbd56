// Package main provides the navaid-api server for parsed navigation data.
//
// This is a standalone REST API server over a SQLite store produced by
// "cifparse parse". It serves navaid, airport, and waypoint lookups to
// flight-planning and tracking applications.
//
// Usage:
//
//	navaid-api [options]
//
// Options:
//
//	-db PATH      SQLite database path (default: cifp.db, env: CIFP_DB_PATH)
//	-port N       HTTP port (default: 8081)
//	-auth         Enable API key authentication
//	-api-keys KEYS  Comma-separated list of valid API keys
//
// API Endpoints:
//
//	GET /api/v1/health
//	    Health check endpoint.
//
//	GET /api/v1/navaids/{id}?region=K2&limit=10&offset=0
//	    Look up VHF and NDB stations by identifier.
//
//	GET /api/v1/airports/{id}
//	    Look up an airport by ICAO identifier.
//
//	GET /api/v1/waypoints/{id}?region=K2&limit=10&offset=0
//	    Look up waypoints by identifier.
//
//	GET /api/v1/stats
//	    Record counts per table, area breakdown, and cycles.
//
//	POST /api/v1/navaids/batch
//	    Batch lookup. Body: {"navaids": [{"id": "BJC"}]}
//
// Authentication:
//
//	When -auth is enabled, requests must include an API key via:
//	  - X-API-Key header
//	  - Authorization: Bearer <key> header
//	  - ?api_key=<key> query parameter
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"cifparse/internal/api"
	"cifparse/internal/storage"
)

func main() {
	dbPath := flag.String("db", envOrDefault("CIFP_DB_PATH", "cifp.db"), "SQLite database path")

	// API server flags.
	port := flag.Int("port", 8081, "HTTP port for API server")
	authEnabled := flag.Bool("auth", false, "Enable API key authentication")
	apiKeys := flag.String("api-keys", "", "Comma-separated list of valid API keys (when auth enabled)")

	flag.Parse()

	db, err := storage.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// Parse API keys.
	var keys []string
	if *apiKeys != "" {
		keys = strings.Split(*apiKeys, ",")
		for i := range keys {
			keys[i] = strings.TrimSpace(keys[i])
		}
	}

	// Create and run server.
	server := api.NewServer(db, api.Config{
		Port:        *port,
		AuthEnabled: *authEnabled,
		APIKeys:     keys,
	})

	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
