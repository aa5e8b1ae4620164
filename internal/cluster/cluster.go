// Package cluster represents fire detection events: groups of adjacent fire
// pixels observed in a single satellite scan.
package cluster

import (
	"time"

	"github.com/roman-kulish/firewatch/internal/geo"
	"github.com/roman-kulish/firewatch/internal/satellite"
)

// Cluster is one fire detection event aggregated from adjacent fire pixels
// within a single scan. All aggregate values derive from the pixel
// footprint.
type Cluster struct {
	Pixels geo.PixelList
}

// Centroid returns the geographic center of the cluster.
func (c *Cluster) Centroid() geo.Coord { return c.Pixels.Centroid() }

// TotalPower returns the fire radiative power of the cluster in megawatts.
func (c *Cluster) TotalPower() float64 { return c.Pixels.TotalPower() }

// TotalArea returns the fire area of the cluster in square meters.
func (c *Cluster) TotalArea() float64 { return c.Pixels.TotalArea() }

// MaxTemperature returns the hottest pixel temperature in Kelvin.
func (c *Cluster) MaxTemperature() float64 { return c.Pixels.MaxTemperature() }

// MaxScanAngle returns the largest pixel scan angle in degrees.
func (c *Cluster) MaxScanAngle() float64 { return c.Pixels.MaxScanAngle() }

// List is the outcome of processing one scan: every cluster detected between
// ScanStart and ScanEnd. An empty Clusters slice means the scan was fully
// processed and no fire was found.
type List struct {
	Satellite satellite.Satellite
	Sector    satellite.Sector
	ScanStart time.Time
	ScanEnd   time.Time
	Clusters  []*Cluster
}
