// Package tilestore is a concrete tilegraph.Reader: a tile store that
// loads bzip2-compressed tile files into an LRU cache, generates
// synthetic tiles for tests/demos, and can build a single tile from an
// OSM PBF extract.
package tilestore

import (
	"github.com/arvinsaputra/waypointsnap/pkg/geo"
	"github.com/twpayne/go-polyline"
)

// shapeCodec mirrors the Google polyline precision the teacher's
// go.mod already declared a dependency on (twpayne/go-polyline) but
// never exercised; shapes are stored one polyline string per line of
// a tile file.
var shapeCodec = polyline.Codec{Dim: 2, Scale: 1e5}

func encodeShape(shape []geo.Coordinate) string {
	coords := make([][]float64, len(shape))
	for i, c := range shape {
		coords[i] = []float64{c.Lat, c.Lon}
	}
	return string(shapeCodec.EncodeCoords(nil, coords))
}

func decodeShape(s string) ([]geo.Coordinate, error) {
	coords, _, err := shapeCodec.DecodeCoords([]byte(s))
	if err != nil {
		return nil, err
	}
	shape := make([]geo.Coordinate, len(coords))
	for i, c := range coords {
		shape[i] = geo.NewCoordinate(c[1], c[0])
	}
	return shape, nil
}
