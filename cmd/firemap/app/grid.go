package app

import (
	"math"
	"time"

	"github.com/roman-kulish/firewatch/internal/geo"
)

// PowerGrid accumulates fire radiative power on a regular lat/lon grid.
// Each cell keeps the strongest detection that fell into it, so repeated
// scans of a persistent fire do not wash each other out.
type PowerGrid struct {
	area geo.BoundingBox
	cell float64

	width  int
	height int
	cells  []float64

	// Stats over everything fed in, for the info bar.
	Clusters  int
	MaxPower  float64
	FirstScan time.Time
	LastScan  time.Time
}

func NewPowerGrid(area geo.BoundingBox, cellDegrees float64) *PowerGrid {
	width := int(math.Ceil((area.UR.Lon - area.LL.Lon) / cellDegrees))
	height := int(math.Ceil((area.UR.Lat - area.LL.Lat) / cellDegrees))
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	return &PowerGrid{
		area:   area,
		cell:   cellDegrees,
		width:  width,
		height: height,
		cells:  make([]float64, width*height),
	}
}

func (g *PowerGrid) Width() int  { return g.width }
func (g *PowerGrid) Height() int { return g.height }

// At returns the accumulated power of the cell at grid position (x, y),
// where y = 0 is the northern edge.
func (g *PowerGrid) At(x, y int) float64 {
	return g.cells[y*g.width+x]
}

// Add folds one cluster detection into the grid. Detections whose centroid
// falls outside the grid area are ignored.
func (g *PowerGrid) Add(centroid geo.Coord, power float64, scanStart time.Time) {
	if !g.area.Contains(centroid) {
		return
	}

	x := int((centroid.Lon - g.area.LL.Lon) / g.cell)
	y := int((g.area.UR.Lat - centroid.Lat) / g.cell)
	if x >= g.width {
		x = g.width - 1
	}
	if y >= g.height {
		y = g.height - 1
	}

	if i := y*g.width + x; power > g.cells[i] {
		g.cells[i] = power
	}

	g.Clusters++
	if power > g.MaxPower {
		g.MaxPower = power
	}
	if g.FirstScan.IsZero() || scanStart.Before(g.FirstScan) {
		g.FirstScan = scanStart
	}
	if scanStart.After(g.LastScan) {
		g.LastScan = scanStart
	}
}
