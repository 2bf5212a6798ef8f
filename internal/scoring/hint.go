package scoring

import (
	"math"
	"sort"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

const (
	WorldHintRadiusKm = 3000.0
	hintRadiusRatio   = 0.6

	minBufferKm    = 5.0
	minBufferRatio = 0.08

	// Each candidate bearing is jittered by up to this many degrees.
	bearingJitter = 30.0
)

// HintRadius is the hint circle radius in km for a game type.
func HintRadius(gt geoquiz.GameType) float64 {
	if gt.Kind == geoquiz.KindWorld {
		return WorldHintRadiusKm
	}
	return hintRadiusRatio * gt.ScoreScaleFactor
}

// MinBuffer is the smallest allowed gap between the target and both the
// circle's center and its edge. The 5 km floor only applies while it leaves
// room to place the center, so small image-map circles use the ratio alone.
func MinBuffer(radiusKm float64) float64 {
	b := max(minBufferKm, radiusKm*minBufferRatio)
	if 2*b >= radiusKm {
		b = radiusKm * minBufferRatio
	}
	return b
}

type Hint struct {
	Center   geoquiz.Point
	RadiusKm float64
	Space    geoquiz.Space
}

type HintGenerator struct {
	rnd geoquiz.Rand
}

func NewHintGenerator(rnd geoquiz.Rand) *HintGenerator {
	return &HintGenerator{rnd: rnd}
}

// Generate places a hint circle of the game type's radius around target.
func (h *HintGenerator) Generate(target geoquiz.Point, gt geoquiz.GameType) Hint {
	r := HintRadius(gt)
	return Hint{Center: h.Center(target, r, gt), RadiusKm: r, Space: gt.Space()}
}

type candidate struct {
	bearing float64
	room    float64
}

// Center returns a circle center such that target lies inside the circle,
// at least MinBuffer away from both the center and the edge. Bearings with the
// most room towards the map edge are tried first; the first circle that fits
// inside the game type's bounds wins. If none fits, the best-ranked bearing
// is used anyway and the circle overflows the bounds.
func (h *HintGenerator) Center(target geoquiz.Point, radiusKm float64, gt geoquiz.GameType) geoquiz.Point {
	sp := spaceFor(gt)
	buf := MinBuffer(radiusKm)

	lo, hi := placementRange(radiusKm, buf, sp.resolution())
	candidates := rankBearings(sp.room(target, gt.Bounds))

	var fallback geoquiz.Point
	for i, c := range candidates {
		bearing := c.bearing + (h.rnd.Float64()*2-1)*bearingJitter
		dist := lo + h.rnd.Float64()*(hi-lo)
		center := sp.destination(target, bearing, dist)

		if gt.Bounds == nil || sp.fits(center, radiusKm, *gt.Bounds) {
			return center
		}
		if i == 0 {
			fallback = center
		}
	}
	return fallback
}

// placementRange narrows [buf, r-buf] to whole steps of the space's distance
// rounding, so the rounded distance to the center stays within the buffers.
func placementRange(radiusKm, buf, step float64) (lo, hi float64) {
	const eps = 1e-9
	lo = math.Ceil(buf/step-eps) * step
	hi = math.Floor((radiusKm-buf)/step+eps) * step
	if lo > hi {
		return buf, radiusKm - buf
	}
	return lo, hi
}

// rankBearings scores the eight compass bearings by the open space towards
// them; diagonals take the smaller of their two sides.
func rankBearings(north, east, south, west float64) []candidate {
	cs := []candidate{
		{0, north},
		{45, math.Min(north, east)},
		{90, east},
		{135, math.Min(south, east)},
		{180, south},
		{225, math.Min(south, west)},
		{270, west},
		{315, math.Min(north, west)},
	}
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].room > cs[j].room })
	return cs
}

type space interface {
	// room returns the km from p to the north, east, south and west edges.
	room(p geoquiz.Point, b *geoquiz.Bounds) (north, east, south, west float64)
	destination(from geoquiz.Point, bearingDeg, distKm float64) geoquiz.Point
	fits(center geoquiz.Point, radiusKm float64, b geoquiz.Bounds) bool
	// resolution is the step Distance rounds to in this space.
	resolution() float64
}

func spaceFor(gt geoquiz.GameType) space {
	if gt.Space() == geoquiz.SpacePixel {
		return pixelSpace{}
	}
	return geoSpace{}
}

type geoSpace struct{}

func (geoSpace) resolution() float64 { return geoResolutionKm }

func (geoSpace) room(p geoquiz.Point, b *geoquiz.Bounds) (float64, float64, float64, float64) {
	if b == nil {
		inf := math.Inf(1)
		return inf, inf, inf, inf
	}
	lat, lng := p.Lat(), p.Lng()
	return haversineKm(lat, lng, b.Max.Lat(), lng),
		haversineKm(lat, lng, lat, b.Max.Lng()),
		haversineKm(lat, lng, b.Min.Lat(), lng),
		haversineKm(lat, lng, lat, b.Min.Lng())
}

// destination is the forward great-circle projection.
func (geoSpace) destination(from geoquiz.Point, bearingDeg, distKm float64) geoquiz.Point {
	δ := distKm / EarthRadiusKm
	θ := radians(bearingDeg)
	φ1 := radians(from.Lat())
	λ1 := radians(from.Lng())

	φ2 := math.Asin(math.Sin(φ1)*math.Cos(δ) + math.Cos(φ1)*math.Sin(δ)*math.Cos(θ))
	λ2 := λ1 + math.Atan2(
		math.Sin(θ)*math.Sin(δ)*math.Cos(φ1),
		math.Cos(δ)-math.Sin(φ1)*math.Sin(φ2),
	)

	lng := math.Mod(degrees(λ2)+540, 360) - 180
	return geoquiz.LatLng(degrees(φ2), lng)
}

func (geoSpace) fits(c geoquiz.Point, radiusKm float64, b geoquiz.Bounds) bool {
	dLat := degrees(radiusKm / EarthRadiusKm)
	cosLat := math.Cos(radians(c.Lat()))
	if cosLat < 1e-9 {
		return false
	}
	dLng := dLat / cosLat
	return c.Lat()-dLat >= b.Min.Lat() && c.Lat()+dLat <= b.Max.Lat() &&
		c.Lng()-dLng >= b.Min.Lng() && c.Lng()+dLng <= b.Max.Lng()
}

// pixelSpace is planar with y growing downwards; bearing 0 points up.
type pixelSpace struct{}

func (pixelSpace) resolution() float64 { return pixelResolutionKm }

func (pixelSpace) room(p geoquiz.Point, b *geoquiz.Bounds) (float64, float64, float64, float64) {
	if b == nil {
		inf := math.Inf(1)
		return inf, inf, inf, inf
	}
	return pixelsToKm(p.Y - b.Min.Y),
		pixelsToKm(b.Max.X - p.X),
		pixelsToKm(b.Max.Y - p.Y),
		pixelsToKm(p.X - b.Min.X)
}

func (pixelSpace) destination(from geoquiz.Point, bearingDeg, distKm float64) geoquiz.Point {
	d := kmToPixels(distKm)
	θ := radians(bearingDeg)
	return geoquiz.Point{X: from.X + d*math.Sin(θ), Y: from.Y - d*math.Cos(θ)}
}

func (pixelSpace) fits(c geoquiz.Point, radiusKm float64, b geoquiz.Bounds) bool {
	r := kmToPixels(radiusKm)
	return c.X-r >= b.Min.X && c.X+r <= b.Max.X && c.Y-r >= b.Min.Y && c.Y+r <= b.Max.Y
}
