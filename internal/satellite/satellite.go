// Package satellite describes the GOES-R series satellites that produce the
// fire detection data and the scan sectors they observe.
package satellite

import (
	"strings"
	"time"

	"github.com/roman-kulish/firewatch/internal/geo"
)

// Satellite identifies a GOES-R series satellite. The canonical name is the
// stored textual representation; SatelliteNone is the wildcard meaning "no
// filter" on reads and "unrecognized" on decode.
type Satellite string

const (
	GOES16        Satellite = "G16"
	GOES17        Satellite = "G17"
	SatelliteNone Satellite = "NONE"
)

func (s Satellite) String() string { return string(s) }

// SatelliteFromString finds the satellite whose canonical name appears in
// str. Data file names embed the name, so containment rather than equality
// is the match rule. Returns SatelliteNone when no name matches.
func SatelliteFromString(str string) Satellite {
	for _, s := range []Satellite{GOES16, GOES17} {
		if strings.Contains(str, string(s)) {
			return s
		}
	}
	return SatelliteNone
}

// Operational returns the time the satellite became the operational
// spacecraft in its orbital slot. There is no detection data worth scanning
// for before this time.
func (s Satellite) Operational() time.Time {
	switch s {
	case GOES16:
		return time.Date(2017, time.December, 18, 12, 0, 0, 0, time.UTC)
	case GOES17:
		return time.Date(2019, time.February, 12, 12, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}

// DataArea returns the region of the Earth the satellite can observe.
func (s Satellite) DataArea() geo.BoundingBox {
	switch s {
	case GOES16:
		return geo.BoundingBox{
			LL: geo.Coord{Lat: -60, Lon: -120},
			UR: geo.Coord{Lat: 60, Lon: -25},
		}
	case GOES17:
		return geo.BoundingBox{
			LL: geo.Coord{Lat: -60, Lon: -180},
			UR: geo.Coord{Lat: 60, Lon: -80},
		}
	}
	return geo.BoundingBox{}
}

// Sector identifies a fire detection scan sector. The canonical name is the
// stored textual representation; SectorNone is the wildcard meaning "no
// filter" on reads and "unrecognized" on decode.
type Sector string

const (
	// SectorFull is the full disk scan.
	SectorFull Sector = "FDCF"
	// SectorConus is the continental United States scan.
	SectorConus Sector = "FDCC"
	// SectorMeso1 and SectorMeso2 are the two steerable mesoscale scans.
	SectorMeso1 Sector = "FDCM1"
	SectorMeso2 Sector = "FDCM2"
	SectorNone  Sector = "NONE"
)

func (s Sector) String() string { return string(s) }

// SectorFromString finds the sector whose canonical name appears in str,
// or SectorNone when no name matches.
func SectorFromString(str string) Sector {
	for _, s := range []Sector{SectorFull, SectorConus, SectorMeso1, SectorMeso2} {
		if strings.Contains(str, string(s)) {
			return s
		}
	}
	return SectorNone
}
