// Package main provides a tool to export navaids, waypoints, and airports
// from the SQLite store to KML format. KML (Keyhole Markup Language) files
// can be viewed in Google Earth, Google Maps, and other mapping applications.
package main

import (
	"encoding/xml"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"cifparse/internal/storage"
)

// KML structures for XML marshalling.
// These follow the KML 2.2 specification: https://developers.google.com/kml/documentation/kmlreference

// KML is the root element of a KML document.
type KML struct {
	XMLName   xml.Name `xml:"kml"`
	Namespace string   `xml:"xmlns,attr"`
	Document  Document `xml:"Document"`
}

// Document contains the document metadata and features.
type Document struct {
	Name        string      `xml:"name"`
	Description string      `xml:"description,omitempty"`
	Styles      []Style     `xml:"Style,omitempty"`
	Placemarks  []Placemark `xml:"Placemark"`
}

// Style defines the visual appearance of features.
type Style struct {
	ID        string    `xml:"id,attr"`
	IconStyle IconStyle `xml:"IconStyle"`
}

// IconStyle defines how icons are displayed.
type IconStyle struct {
	Scale float64 `xml:"scale,omitempty"`
	Icon  Icon    `xml:"Icon"`
}

// Icon specifies the icon image.
type Icon struct {
	Href string `xml:"href"`
}

// Placemark represents a geographic feature with geometry and metadata.
type Placemark struct {
	Name         string        `xml:"name"`
	Description  string        `xml:"description,omitempty"`
	StyleURL     string        `xml:"styleUrl,omitempty"`
	Point        Point         `xml:"Point"`
	ExtendedData *ExtendedData `xml:"ExtendedData,omitempty"`
}

// Point represents a geographic location.
type Point struct {
	Coordinates string `xml:"coordinates"` // Format: lon,lat,altitude
}

// ExtendedData holds custom data associated with a placemark.
type ExtendedData struct {
	Data []Data `xml:"Data"`
}

// Data represents a single piece of extended data.
type Data struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

var styles = map[string]Style{
	"vhf_navaids": {
		ID: "vhfStyle",
		IconStyle: IconStyle{
			Scale: 0.9,
			Icon:  Icon{Href: "http://maps.google.com/mapfiles/kml/shapes/target.png"},
		},
	},
	"ndb_navaids": {
		ID: "ndbStyle",
		IconStyle: IconStyle{
			Scale: 0.7,
			Icon:  Icon{Href: "http://maps.google.com/mapfiles/kml/shapes/placemark_circle.png"},
		},
	},
	"waypoints": {
		ID: "waypointStyle",
		IconStyle: IconStyle{
			Scale: 0.6,
			Icon:  Icon{Href: "http://maps.google.com/mapfiles/kml/shapes/triangle.png"},
		},
	},
	"airports": {
		ID: "airportStyle",
		IconStyle: IconStyle{
			Scale: 1.0,
			Icon:  Icon{Href: "http://maps.google.com/mapfiles/kml/shapes/airports.png"},
		},
	},
}

var styleURLs = map[string]string{
	"vhf_navaids": "#vhfStyle",
	"ndb_navaids": "#ndbStyle",
	"waypoints":   "#waypointStyle",
	"airports":    "#airportStyle",
}

func main() {
	dbPath := flag.String("db", "cifp.db", "SQLite database path")
	output := flag.String("output", "", "Output KML file (default: stdout)")
	tables := flag.String("tables", "vhf_navaids,ndb_navaids,airports", "Comma-separated tables to export")
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Parse()

	db, err := storage.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	var placemarks []Placemark
	var docStyles []Style

	for _, table := range splitList(*tables) {
		style, ok := styles[table]
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown table: %s\n", table)
			os.Exit(1)
		}
		docStyles = append(docStyles, style)

		count := 0
		err := db.EachRow(table, func(row map[string]any) error {
			pm, ok := placemarkFromRow(table, row)
			if ok {
				placemarks = append(placemarks, pm)
				count++
			}
			return nil
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", table, err)
			os.Exit(1)
		}
		if *verbose {
			fmt.Fprintf(os.Stderr, "Exported %d placemarks from %s\n", count, table)
		}
	}

	if len(placemarks) == 0 {
		fmt.Fprintf(os.Stderr, "No records found\n")
		os.Exit(0)
	}

	kml := KML{
		Namespace: "http://www.opengis.net/kml/2.2",
		Document: Document{
			Name:        "CIFP Navigation Data",
			Description: fmt.Sprintf("Navaids, waypoints, and airports from a CIFP dataset. Generated %s.", time.Now().Format("2006-01-02 15:04:05")),
			Styles:      docStyles,
			Placemarks:  placemarks,
		},
	}

	xmlData, err := xml.MarshalIndent(kml, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating KML: %v\n", err)
		os.Exit(1)
	}
	xmlOutput := xml.Header + string(xmlData)

	if *output != "" {
		if err := os.WriteFile(*output, []byte(xmlOutput), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		if *verbose {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", *output)
		}
	} else {
		fmt.Println(xmlOutput)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func rowString(row map[string]any, col string) string {
	s, _ := row[col].(string)
	return s
}

func rowFloat(row map[string]any, col string) float64 {
	switch v := row[col].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

// placemarkFromRow builds one placemark from a record table row.
// Rows without coordinates are skipped.
func placemarkFromRow(table string, row map[string]any) (Placemark, bool) {
	lat := rowFloat(row, "lat")
	lon := rowFloat(row, "lon")
	if lat == 0 && lon == 0 {
		return Placemark{}, false
	}

	var name, desc string
	var extra []Data

	switch table {
	case "vhf_navaids":
		name = strings.TrimSpace(rowString(row, "vhf_id"))
		desc = fmt.Sprintf("%s\nVHF %.2f MHz", strings.TrimSpace(rowString(row, "vhf_name")), rowFloat(row, "frequency"))
		extra = []Data{
			{Name: "frequency", Value: fmt.Sprintf("%.2f", rowFloat(row, "frequency"))},
			{Name: "nav_class", Value: rowString(row, "nav_class")},
			{Name: "region", Value: rowString(row, "vhf_region")},
		}
	case "ndb_navaids":
		name = strings.TrimSpace(rowString(row, "ndb_id"))
		desc = fmt.Sprintf("%s\nNDB %.1f kHz", strings.TrimSpace(rowString(row, "ndb_name")), rowFloat(row, "frequency"))
		extra = []Data{
			{Name: "frequency", Value: fmt.Sprintf("%.1f", rowFloat(row, "frequency"))},
			{Name: "nav_class", Value: rowString(row, "nav_class")},
			{Name: "region", Value: rowString(row, "ndb_region")},
		}
	case "waypoints":
		name = strings.TrimSpace(rowString(row, "waypoint_id"))
		desc = strings.TrimSpace(rowString(row, "waypoint_name"))
		extra = []Data{
			{Name: "type", Value: rowString(row, "waypoint_type")},
			{Name: "region", Value: rowString(row, "waypoint_region")},
		}
	case "airports":
		name = strings.TrimSpace(rowString(row, "airport_id"))
		desc = fmt.Sprintf("%s\nElevation %v ft", strings.TrimSpace(rowString(row, "airport_name")), row["elevation"])
		extra = []Data{
			{Name: "iata", Value: strings.TrimSpace(rowString(row, "iata"))},
			{Name: "elevation", Value: fmt.Sprintf("%v", row["elevation"])},
			{Name: "region", Value: rowString(row, "airport_region")},
		}
	default:
		return Placemark{}, false
	}

	if name == "" {
		return Placemark{}, false
	}

	extra = append(extra, Data{Name: "cycle", Value: rowString(row, "cycle_data")})

	return Placemark{
		Name:        name,
		Description: desc,
		StyleURL:    styleURLs[table],
		Point: Point{
			// KML coordinates are in the format: longitude,latitude,altitude
			Coordinates: fmt.Sprintf("%.6f,%.6f,0", lon, lat),
		},
		ExtendedData: &ExtendedData{Data: extra},
	}, true
}
