// Package scoring turns guesses into distances and points and places hint
// circles around targets. Everything here is deterministic except hint
// placement, which draws from an injected geoquiz.Rand.
package scoring

import (
	"math"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

const (
	EarthRadiusKm = 6371.0

	// Image maps are drawn at 92 pixels per 10 meters.
	MetersPerPixel = 10.0 / 92.0

	// Steps DistanceKm and PixelDistanceKm round to.
	geoResolutionKm   = 0.1
	pixelResolutionKm = 0.001
)

// DistanceKm is the haversine distance between two lat/lng points in degrees,
// rounded to 0.1 km.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	return math.Round(haversineKm(lat1, lon1, lat2, lon2)*10) / 10
}

// PixelDistanceKm converts a pixel distance to km, rounded to the meter.
func PixelDistanceKm(x1, y1, x2, y2 float64) float64 {
	meters := math.Round(math.Hypot(x2-x1, y2-y1) * MetersPerPixel)
	return meters / 1000
}

// Distance dispatches on the coordinate space of the map.
func Distance(a, b geoquiz.Point, space geoquiz.Space) float64 {
	if space == geoquiz.SpacePixel {
		return PixelDistanceKm(a.X, a.Y, b.X, b.Y)
	}
	return DistanceKm(a.Lat(), a.Lng(), b.Lat(), b.Lng())
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := radians(lat1)
	φ2 := radians(lat2)
	dφ := radians(lat2 - lat1)
	dλ := radians(lon2 - lon1)

	sinDφ := math.Sin(dφ / 2)
	sinDλ := math.Sin(dλ / 2)

	a := sinDφ*sinDφ + math.Cos(φ1)*math.Cos(φ2)*sinDλ*sinDλ
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func pixelsToKm(px float64) float64 { return px * MetersPerPixel / 1000 }
func kmToPixels(km float64) float64 { return km * 1000 / MetersPerPixel }
