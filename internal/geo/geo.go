// Package geo holds the geographic value types shared across the project:
// coordinates, bounding boxes and the pixel-level fire detection footprints
// stored alongside every cluster.
package geo

// Coord is a point on the Earth's surface in degrees latitude and longitude.
type Coord struct {
	Lat float64
	Lon float64
}

// BoundingBox is a rectangle in latitude-longitude space described by its
// lower-left and upper-right corners.
type BoundingBox struct {
	LL Coord
	UR Coord
}

// Contains reports whether c falls within the box, boundaries included.
func (b BoundingBox) Contains(c Coord) bool {
	return c.Lat >= b.LL.Lat && c.Lat <= b.UR.Lat &&
		c.Lon >= b.LL.Lon && c.Lon <= b.UR.Lon
}
