package geo

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Serialized pixel list layout: a little-endian uint64 pixel count followed
// by one fixed-width record per pixel. Each record carries the four corner
// coordinates and the power, area, temperature and scan angle fields as
// float64, then the mask and data quality flags as int16. This is the
// on-disk representation of the pixels BLOB column and must round-trip
// exactly.
const (
	pixelListHeaderSize = 8
	pixelRecordSize     = 12*8 + 2*2
)

// SerializedSize returns the exact number of bytes Serialize writes for pl.
func (pl PixelList) SerializedSize() int {
	return pixelListHeaderSize + len(pl)*pixelRecordSize
}

// Serialize encodes the list into buf, which must be exactly SerializedSize
// bytes long.
func (pl PixelList) Serialize(buf []byte) error {
	if len(buf) != pl.SerializedSize() {
		return fmt.Errorf("serializing pixel list: buffer is %d bytes, want %d", len(buf), pl.SerializedSize())
	}

	binary.LittleEndian.PutUint64(buf, uint64(len(pl)))
	off := pixelListHeaderSize
	for i := range pl {
		off += encodePixel(buf[off:], &pl[i])
	}
	return nil
}

func encodePixel(buf []byte, p *Pixel) int {
	var off int
	for _, f := range [...]float64{
		p.UL.Lat, p.UL.Lon,
		p.LL.Lat, p.LL.Lon,
		p.LR.Lat, p.LR.Lon,
		p.UR.Lat, p.UR.Lon,
		p.Power, p.Area, p.Temperature, p.ScanAngle,
	} {
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(f))
		off += 8
	}

	binary.LittleEndian.PutUint16(buf[off:], uint16(p.MaskFlag))
	off += 2
	binary.LittleEndian.PutUint16(buf[off:], uint16(p.DataQualityFlag))
	off += 2
	return off
}

// DeserializePixels decodes a pixel list previously produced by Serialize.
// The buffer length must match the encoded pixel count exactly.
func DeserializePixels(buf []byte) (PixelList, error) {
	if len(buf) < pixelListHeaderSize {
		return nil, fmt.Errorf("deserializing pixel list: %d bytes is shorter than the header", len(buf))
	}

	n := binary.LittleEndian.Uint64(buf)
	// Bound the count by what the buffer could possibly hold before sizing
	// anything with it, so a corrupt header cannot overflow the arithmetic
	// below or provoke a huge allocation.
	if n > uint64(len(buf)-pixelListHeaderSize)/pixelRecordSize {
		return nil, fmt.Errorf("deserializing pixel list: %d bytes holds no %d pixels", len(buf), n)
	}
	if want := uint64(pixelListHeaderSize) + n*pixelRecordSize; uint64(len(buf)) != want {
		return nil, fmt.Errorf("deserializing pixel list: %d bytes holds no %d pixels, want %d bytes", len(buf), n, want)
	}

	pl := make(PixelList, n)
	off := pixelListHeaderSize
	for i := range pl {
		off += decodePixel(buf[off:], &pl[i])
	}
	return pl, nil
}

func decodePixel(buf []byte, p *Pixel) int {
	var off int
	next := func() float64 {
		f := math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
		off += 8
		return f
	}

	p.UL.Lat, p.UL.Lon = next(), next()
	p.LL.Lat, p.LL.Lon = next(), next()
	p.LR.Lat, p.LR.Lon = next(), next()
	p.UR.Lat, p.UR.Lon = next(), next()
	p.Power, p.Area = next(), next()
	p.Temperature, p.ScanAngle = next(), next()

	p.MaskFlag = int16(binary.LittleEndian.Uint16(buf[off:]))
	off += 2
	p.DataQualityFlag = int16(binary.LittleEndian.Uint16(buf[off:]))
	off += 2
	return off
}
