package geo

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// TileLevel is the S2 cell level a tile id's spatial cell is cut at.
// Every coordinate's tile id is the uint64 cell id of its covering
// cell at this level, shifted right one bit to fit GraphId.TileID's
// int64 (lossless at this level, whose cell ids end in zero bits) — the
// same "one fixed level of a global cell hierarchy" shape the teacher
// used for point-to-line snapping, now used for tile partitioning
// instead of a one-off snap helper.
const TileLevel = 12

// TileIDForPoint returns the S2 cell id, at TileLevel, covering p,
// shifted right one bit (TileBounds shifts it back). Two points
// return the same tile id iff they fall in the same cell.
func TileIDForPoint(p Coordinate) int64 {
	ll := s2.LatLngFromDegrees(p.Lat, p.Lon)
	cellID := s2.CellIDFromLatLng(ll).Parent(TileLevel)
	return int64(uint64(cellID) >> 1)
}

// TileBounds returns the lon/lat bounding rectangle of the S2 cell
// backing tileID, for callers that need to size a tile's bin grid.
func TileBounds(tileID int64) (minLon, minLat, maxLon, maxLat float64) {
	cellID := s2.CellID(uint64(tileID) << 1)
	rect := s2.CellFromCellID(cellID).RectBound()
	return s1.Angle(rect.Lng.Lo).Degrees(), s1.Angle(rect.Lat.Lo).Degrees(), s1.Angle(rect.Lng.Hi).Degrees(), s1.Angle(rect.Lat.Hi).Degrees()
}

// ProjectPointToSegment returns the closest point to p on the great
// circle segment u->v, computed on the sphere rather than the
// equirectangular plane. The hot projector path does not use it; it
// uses Approximator.ProjectOntoSegment instead.
func ProjectPointToSegment(u, v, p Coordinate) Coordinate {
	uS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(u.Lat, u.Lon))
	vS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(v.Lat, v.Lon))
	pS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon))
	proj := s2.Project(pS2, uS2, vS2)
	ll := s2.LatLngFromPoint(proj)
	return NewCoordinate(ll.Lng.Degrees(), ll.Lat.Degrees())
}
