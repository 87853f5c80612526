// Package geo provides the great-circle and heading math the navigation
// subsystem needs: bearing, haversine distance, and heading
// normalization/difference helpers. Adapted from the teacher project's
// pkg/math/heading.go and pkg/math/latlong.go, generalized from their
// flat-earth NM-projection (valid at the scale of a single TRACON) to
// spherical haversine/great-circle, since GPS-sourced flight-plan
// waypoints can be separated by hundreds of nautical miles.
package geo

import "math"

// EarthRadiusNM is the mean Earth radius in nautical miles, per spec.
const EarthRadiusNM = 3440.065

// LatLon is a point on the Earth's surface in degrees.
type LatLon struct {
	Lat, Lon float64
}

// NormalizeHeading reduces h to [0,360).
func NormalizeHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// HeadingDifference returns the minimum difference between two headings;
// the result is always in [0,180].
func HeadingDifference(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// HeadingSignedTurn returns the signed turn (negative == left) from cur to
// target, in the range (-180,180].
func HeadingSignedTurn(cur, target float64) float64 {
	rot := NormalizeHeading(180 - target)
	return 180 - NormalizeHeading(cur+rot)
}

// Bearing returns the initial great-circle bearing from a to b, in
// [0,360), using the standard spherical bearing formula.
func Bearing(a, b LatLon) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLon := radians(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return NormalizeHeading(degrees(math.Atan2(y, x)))
}

// HaversineNM returns the great-circle distance between a and b in
// nautical miles.
func HaversineNM(a, b LatLon) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	sinDLat2 := math.Sin(dLat / 2)
	sinDLon2 := math.Sin(dLon / 2)
	h := sinDLat2*sinDLat2 + math.Cos(lat1)*math.Cos(lat2)*sinDLon2*sinDLon2
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusNM * c
}

func radians(d float64) float64 { return d * math.Pi / 180 }
func degrees(r float64) float64 { return r * 180 / math.Pi }
