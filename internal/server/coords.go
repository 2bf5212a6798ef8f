package server

import (
	"errors"

	"github.com/playperu/geoquiz/internal/geoquiz"
)

// Coordinates is a point on the wire: lat/lng for maps, x/y for images.
type Coordinates struct {
	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`
	X   *float64 `json:"x,omitempty"`
	Y   *float64 `json:"y,omitempty"`
}

func toCoordinates(p geoquiz.Point, space geoquiz.Space) *Coordinates {
	if space == geoquiz.SpacePixel {
		return &Coordinates{X: &p.X, Y: &p.Y}
	}
	lat, lng := p.Lat(), p.Lng()
	return &Coordinates{Lat: &lat, Lng: &lng}
}

var errMixedCoordinates = errors.New("position needs either lat and lng or x and y")

// point reads a position sent as lat/lng or as x/y, together with the space
// the caller used. A request with neither yields nil.
func (c Coordinates) point() (*geoquiz.Point, geoquiz.Space, error) {
	geo := c.Lat != nil || c.Lng != nil
	pixel := c.X != nil || c.Y != nil
	switch {
	case geo && pixel:
		return nil, 0, errMixedCoordinates
	case geo:
		if c.Lat == nil || c.Lng == nil {
			return nil, 0, errMixedCoordinates
		}
		p := geoquiz.LatLng(*c.Lat, *c.Lng)
		return &p, geoquiz.SpaceGeo, nil
	case pixel:
		if c.X == nil || c.Y == nil {
			return nil, 0, errMixedCoordinates
		}
		return &geoquiz.Point{X: *c.X, Y: *c.Y}, geoquiz.SpacePixel, nil
	}
	return nil, 0, nil
}

// spaceOf resolves the coordinate space of a game type id. Unknown ids fall
// back to geographic coordinates.
func spaceOf(types *geoquiz.Registry, gameTypeID string) geoquiz.Space {
	gt, ok := types.Lookup(gameTypeID)
	if !ok {
		return geoquiz.SpaceGeo
	}
	return gt.Space()
}
