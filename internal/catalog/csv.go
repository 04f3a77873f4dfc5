package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jvilanova/biciruta/internal/geo"
)

// The inventory export comes in two shapes: projected easting/northing
// columns (x, y in EPSG:25830) or a single "lat, lon" text column. Both
// carry the facility name in equipamien or nombre.

// LoadFile reads and normalizes the catalog CSV at path.
func LoadFile(path string) ([]PointOfInterest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses catalog rows from r. Rows without usable coordinates, without
// a category match, or duplicating an earlier name are dropped.
func Load(r io.Reader) ([]PointOfInterest, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading catalog header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	nameCol, ok := cols["equipamien"]
	if !ok {
		if nameCol, ok = cols["nombre"]; !ok {
			return nil, fmt.Errorf("catalog: no name column (equipamien or nombre)")
		}
	}
	xCol, hasX := cols["x"]
	yCol, hasY := cols["y"]
	pointCol, hasPoint := cols["geo_point_2d"]
	if !(hasX && hasY) && !hasPoint {
		return nil, fmt.Errorf("catalog: no coordinate columns (x/y or geo_point_2d)")
	}
	linkCol, hasLink := cols["web"]
	if !hasLink {
		linkCol, hasLink = cols["enlace"]
	}

	var pois []PointOfInterest
	seen := map[string]bool{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading catalog row: %w", err)
		}

		name := NormalizeName(field(row, nameCol))
		if name == "" || seen[name] {
			continue
		}
		upper := strings.ToUpper(name)
		if strings.Contains(upper, "ESTANCO") || strings.Contains(upper, "QUIOSCO") {
			continue
		}
		category := Categorize(name)
		if category == "" {
			continue
		}

		var coord geo.Coordinate
		if hasX && hasY {
			coord, ok = parseProjected(field(row, xCol), field(row, yCol))
		} else {
			coord, ok = parseLatLon(field(row, pointCol))
		}
		if !ok {
			continue
		}

		poi := PointOfInterest{Name: name, Coordinate: coord, Category: category}
		if hasLink {
			poi.InfoLink = strings.TrimSpace(field(row, linkCol))
		}
		pois = append(pois, poi)
		seen[name] = true
	}
	return pois, nil
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func parseProjected(xs, ys string) (geo.Coordinate, bool) {
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return geo.Coordinate{}, false
	}
	return geo.FromUTM30(x, y), true
}

func parseLatLon(s string) (geo.Coordinate, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.Coordinate{}, false
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		return geo.Coordinate{}, false
	}
	return geo.Coordinate{Lat: lat, Lon: lon}, true
}
