package geo

import "math"

// Pixel is a single scanner pixel in which the fire detection algorithm
// found fire. The four corner coordinates trace the pixel's footprint on the
// Earth's surface.
type Pixel struct {
	UL Coord
	LL Coord
	LR Coord
	UR Coord

	// Power is the fire radiative power in megawatts.
	Power float64

	// Area is the estimated area covered by fire in square meters.
	Area float64

	// Temperature is the estimated fire temperature in Kelvin.
	Temperature float64

	// ScanAngle is the angular distance of the pixel from the satellite
	// nadir point, in degrees. Larger angles mean a more edge-on view and
	// are a useful quality proxy.
	ScanAngle float64

	// MaskFlag and DataQualityFlag are the fire mask and DQF codes copied
	// from the source product file.
	MaskFlag        int16
	DataQualityFlag int16
}

// Centroid returns the mean of the pixel's four corners.
func (p *Pixel) Centroid() Coord {
	return Coord{
		Lat: (p.UL.Lat + p.LL.Lat + p.LR.Lat + p.UR.Lat) / 4,
		Lon: (p.UL.Lon + p.LL.Lon + p.LR.Lon + p.UR.Lon) / 4,
	}
}

// PixelList is the footprint of one cluster: every scanner pixel that
// contributed to the detection.
type PixelList []Pixel

// Centroid returns the mean of all pixel centroids, or the zero Coord for an
// empty list.
func (pl PixelList) Centroid() Coord {
	if len(pl) == 0 {
		return Coord{}
	}

	var c Coord
	for i := range pl {
		pc := pl[i].Centroid()
		c.Lat += pc.Lat
		c.Lon += pc.Lon
	}
	c.Lat /= float64(len(pl))
	c.Lon /= float64(len(pl))
	return c
}

// TotalPower returns the sum of fire radiative power over all pixels, in
// megawatts.
func (pl PixelList) TotalPower() float64 {
	var total float64
	for i := range pl {
		total += pl[i].Power
	}
	return total
}

// TotalArea returns the sum of fire area over all pixels, in square meters.
func (pl PixelList) TotalArea() float64 {
	var total float64
	for i := range pl {
		total += pl[i].Area
	}
	return total
}

// MaxTemperature returns the hottest pixel temperature in Kelvin, or zero
// for an empty list.
func (pl PixelList) MaxTemperature() float64 {
	if len(pl) == 0 {
		return 0
	}

	maxT := math.Inf(-1)
	for i := range pl {
		maxT = math.Max(maxT, pl[i].Temperature)
	}
	return maxT
}

// MaxScanAngle returns the largest scan angle of any pixel in degrees, or
// zero for an empty list.
func (pl PixelList) MaxScanAngle() float64 {
	if len(pl) == 0 {
		return 0
	}

	maxA := math.Inf(-1)
	for i := range pl {
		maxA = math.Max(maxA, pl[i].ScanAngle)
	}
	return maxA
}
