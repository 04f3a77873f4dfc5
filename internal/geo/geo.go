// Package geo provides the geographic primitives shared by the rest of the
// application: coordinates, great-circle distance, and reprojection of the
// municipal catalog's projected coordinates.
package geo

import "math"

const earthRadiusMeters = 6371000

// Coordinate is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valencia city center, used as the default map origin and weather location.
var CityCenter = Coordinate{Lat: 39.4699, Lon: -0.3763}

// Haversine returns the great-circle distance between two coordinates in meters.
func Haversine(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// HaversineKm returns the great-circle distance in kilometers.
func HaversineKm(a, b Coordinate) float64 {
	return Haversine(a, b) / 1000
}

// ETRS89 / UTM zone 30N (EPSG:25830), the projection used by the city's
// open-data catalog. GRS80 ellipsoid.
const (
	utmA            = 6378137.0
	utmFlattening   = 1 / 298.257222101
	utmScale        = 0.9996
	utmFalseEasting = 500000.0
	utmLon0Deg      = -3.0 // central meridian of zone 30
)

// FromUTM30 converts an EPSG:25830 easting/northing pair to a WGS84
// coordinate. The inverse transverse Mercator series is accurate to well
// under a meter anywhere inside the zone, which is more than enough for
// catalog points.
func FromUTM30(easting, northing float64) Coordinate {
	e2 := utmFlattening * (2 - utmFlattening)
	ep2 := e2 / (1 - e2)

	m := northing / utmScale
	mu := m / (utmA * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))

	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))

	// Footpoint latitude.
	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu) +
		(1097*e1*e1*e1*e1/512)*math.Sin(8*mu)

	sinPhi1 := math.Sin(phi1)
	cosPhi1 := math.Cos(phi1)
	tanPhi1 := math.Tan(phi1)

	c1 := ep2 * cosPhi1 * cosPhi1
	t1 := tanPhi1 * tanPhi1
	n1 := utmA / math.Sqrt(1-e2*sinPhi1*sinPhi1)
	r1 := utmA * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)
	d := (easting - utmFalseEasting) / (n1 * utmScale)

	lat := phi1 - (n1*tanPhi1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*d*d*d*d/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*d*d*d*d*d*d/720)

	lon := utmLon0Deg*math.Pi/180 + (d-
		(1+2*t1+c1)*d*d*d/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*d*d*d*d*d/120)/cosPhi1

	return Coordinate{
		Lat: lat * 180 / math.Pi,
		Lon: lon * 180 / math.Pi,
	}
}
