package geo

import (
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNormalizeHeading(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0}, {360, 0}, {361, 1}, {-1, 359}, {-361, 359}, {720, 0}, {180, 180},
	}
	for _, tc := range tests {
		if got := NormalizeHeading(tc.in); !approxEqual(got, tc.want, 1e-9) {
			t.Errorf("NormalizeHeading(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestHeadingDifference(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 10, 10},
		{350, 10, 20},
		{10, 350, 20},
		{0, 180, 180},
		{45, 45, 0},
	}
	for _, tc := range tests {
		if got := HeadingDifference(tc.a, tc.b); !approxEqual(got, tc.want, 1e-9) {
			t.Errorf("HeadingDifference(%v,%v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestBearingInverse(t *testing.T) {
	a := LatLon{Lat: 39.861, Lon: -104.673} // KDEN-ish
	b := LatLon{Lat: 40.016, Lon: -105.270} // KBJC-ish

	ab := Bearing(a, b)
	ba := Bearing(b, a)

	diff := math.Abs(ab - NormalizeHeading(ba+180))
	if diff > 360 {
		diff -= 360
	}
	if diff > 1.0 {
		t.Errorf("Bearing(a,b)=%.2f and Bearing(b,a)=%.2f aren't ~180 deg apart (diff=%.2f)", ab, ba, diff)
	}
}

func TestHaversineIdenticalPoints(t *testing.T) {
	p := LatLon{Lat: 39.861, Lon: -104.673}
	if d := HaversineNM(p, p); d != 0 {
		t.Errorf("HaversineNM(p,p) = %v, want 0", d)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Roughly 60nm apart along a meridian (1 degree of latitude ~ 60nm).
	a := LatLon{Lat: 39.0, Lon: -104.0}
	b := LatLon{Lat: 40.0, Lon: -104.0}
	d := HaversineNM(a, b)
	if d < 59 || d > 61 {
		t.Errorf("HaversineNM ~1deg latitude = %v, want ~60", d)
	}
}
