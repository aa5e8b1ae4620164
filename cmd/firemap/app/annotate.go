package app

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	dpi            = 120.0
	fontSize       = 12.0
	tickMarkHeight = 5
	pixelsPerLabel = 150.0
)

type annotatorConfig struct {
	FontFile   string
	FontSize   float64
	RegionName string
	Borders    BorderConfig
}

type annotator struct {
	context  *freetype.Context
	config   annotatorConfig
	fontFace font.Face
}

func newAnnotator(config annotatorConfig) (*annotator, error) {
	fontBytes, err := os.ReadFile(config.FontFile)
	if err != nil {
		return nil, fmt.Errorf("reading font file: %w", err)
	}
	parsedFont, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) annotate(img *image.RGBA, grid *PowerGrid) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	if err := a.drawLongitudeScale(img, grid); err != nil {
		return fmt.Errorf("drawing longitude scale: %w", err)
	}
	if err := a.drawLatitudeScale(img, grid); err != nil {
		return fmt.Errorf("drawing latitude scale: %w", err)
	}
	if err := a.drawInfoBar(img, grid); err != nil {
		return fmt.Errorf("drawing info bar: %w", err)
	}

	return nil
}

func (a *annotator) drawLongitudeScale(img *image.RGBA, grid *PowerGrid) error {
	minLon, maxLon := grid.area.LL.Lon, grid.area.UR.Lon
	step := niceDegreeStep(maxLon-minLon, grid.Width())
	startLon := math.Ceil(minLon/step) * step

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := a.config.Borders.Top - fontHeight/2

	for lon := startLon; lon <= maxLon; lon += step {
		xRatio := (lon - minLon) / (maxLon - minLon)
		x := a.config.Borders.Left + int(xRatio*float64(grid.Width()))

		for y := a.config.Borders.Top - tickMarkHeight; y < a.config.Borders.Top; y++ {
			img.Set(x, y, color.Black)
		}

		label := formatDegrees(lon, "E", "W")
		width := font.MeasureString(a.fontFace, label)
		pt := freetype.Pt(x-(width.Round()/2), textY)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing longitude label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawLatitudeScale(img *image.RGBA, grid *PowerGrid) error {
	minLat, maxLat := grid.area.LL.Lat, grid.area.UR.Lat
	step := niceDegreeStep(maxLat-minLat, grid.Height())
	startLat := math.Ceil(minLat/step) * step

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()

	for lat := startLat; lat <= maxLat; lat += step {
		// y = 0 is the northern edge.
		yRatio := (maxLat - lat) / (maxLat - minLat)
		imgY := a.config.Borders.Top + int(yRatio*float64(grid.Height()))

		for x := a.config.Borders.Left - tickMarkHeight; x < a.config.Borders.Left; x++ {
			img.Set(x, imgY, color.Black)
		}

		textY := imgY + fontHeight/2 - metrics.Descent.Round()
		label := formatDegrees(lat, "N", "S")
		pt := freetype.Pt(10, textY)
		if _, err := a.context.DrawString(label, pt); err != nil {
			return fmt.Errorf("drawing latitude label: %w", err)
		}
	}
	return nil
}

func (a *annotator) drawInfoBar(img *image.RGBA, grid *PowerGrid) error {
	var sb strings.Builder

	sb.WriteString(a.config.RegionName)
	if !grid.FirstScan.IsZero() {
		sb.WriteString("; ")
		sb.WriteString(fmt.Sprintf("Scans: %s - %s",
			grid.FirstScan.UTC().Format(time.DateTime),
			grid.LastScan.UTC().Format(time.DateTime)))
	}
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Clusters: %s", humanize.Comma(int64(grid.Clusters))))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Peak: %s", humanize.SIWithDigits(grid.MaxPower*1e6, 1, "W")))

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := img.Bounds().Max.Y - (a.config.Borders.Bottom-fontHeight)/2 - metrics.Descent.Round()

	pt := freetype.Pt(a.config.Borders.Left, textY)
	if _, err := a.context.DrawString(sb.String(), pt); err != nil {
		return fmt.Errorf("drawing info text: %w", err)
	}

	return nil
}

// Helper functions

func niceDegreeStep(span float64, pixels int) float64 {
	steps := []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30}

	desiredSteps := float64(pixels) / pixelsPerLabel
	if desiredSteps < 1 {
		desiredSteps = 1
	}
	targetStep := span / desiredSteps

	for _, step := range steps {
		if step >= targetStep {
			if span/step >= 2 {
				return step
			}
			break
		}
	}

	return span / 2
}

func formatDegrees(deg float64, positive, negative string) string {
	hemisphere := positive
	if deg < 0 {
		deg, hemisphere = -deg, negative
	}
	return fmt.Sprintf("%0.1f%s%s", deg, "°", hemisphere)
}
