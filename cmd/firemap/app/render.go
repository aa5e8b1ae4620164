package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

const (
	// Detections above this radiative power all map to the hottest color.
	// Anything stronger is an extreme event and would flatten the ramp.
	powerCapMW = 3000.0

	// Default border sizes in pixels
	defaultTopBorder    = 40
	defaultLeftBorder   = 80
	defaultBottomBorder = 40
	defaultRightBorder  = 40
)

// BorderConfig defines the sizes of white space around the map
type BorderConfig struct {
	Top    int // Space for the longitude scale
	Left   int // Space for the latitude scale
	Bottom int // Space for information bar
	Right  int // Right padding
}

// RenderConfig holds all configuration options for map visualization
type RenderConfig struct {
	FontFile string  // TrueType font for annotations, empty to skip them
	FontSize float64 // Font size in points

	RegionName string // Label for the info bar

	BorderConfig BorderConfig
}

// MapRenderer turns an accumulated power grid into an annotated image.
type MapRenderer struct {
	config RenderConfig
}

func NewMapRenderer(config RenderConfig) *MapRenderer {
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Left == 0 {
		config.BorderConfig.Left = defaultLeftBorder
	}
	if config.BorderConfig.Bottom == 0 {
		config.BorderConfig.Bottom = defaultBottomBorder
	}
	if config.BorderConfig.Right == 0 {
		config.BorderConfig.Right = defaultRightBorder
	}

	return &MapRenderer{config: config}
}

// Render creates an image of the power grid with annotations
func (r *MapRenderer) Render(grid *PowerGrid) (*image.RGBA, error) {
	fullWidth := grid.Width() + r.config.BorderConfig.Left + r.config.BorderConfig.Right
	fullHeight := grid.Height() + r.config.BorderConfig.Top + r.config.BorderConfig.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))

	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	mapArea := image.Rect(
		r.config.BorderConfig.Left,
		r.config.BorderConfig.Top,
		r.config.BorderConfig.Left+grid.Width(),
		r.config.BorderConfig.Top+grid.Height(),
	)

	if r.config.FontFile != "" {
		ann, err := newAnnotator(annotatorConfig{
			FontFile:   r.config.FontFile,
			FontSize:   r.config.FontSize,
			RegionName: r.config.RegionName,
			Borders:    r.config.BorderConfig,
		})
		if err != nil {
			return nil, fmt.Errorf("creating annotator: %w", err)
		}
		defer ann.Close()

		if err = ann.annotate(img, grid); err != nil {
			return nil, fmt.Errorf("drawing annotations: %w", err)
		}
	}

	r.renderGrid(img, mapArea, grid)

	return img, nil
}

// renderGrid draws the grid cells, 1:1 cell to pixel mapping. Cells that
// never saw a detection stay on the dark map background.
func (r *MapRenderer) renderGrid(img *image.RGBA, area image.Rectangle, grid *PowerGrid) {
	background := color.RGBA{R: 0x20, G: 0x24, B: 0x28, A: 0xff}

	for y := 0; y < grid.Height(); y++ {
		imgY := area.Min.Y + y
		for x := 0; x < grid.Width(); x++ {
			imgX := area.Min.X + x
			if power := grid.At(x, y); power > 0 {
				img.Set(imgX, imgY, powerColor(power))
			} else {
				img.Set(imgX, imgY, background)
			}
		}
	}
}

// powerColor maps radiative power in megawatts onto a dark-red to white
// heat ramp, capped at powerCapMW.
func powerColor(power float64) color.RGBA {
	t := power / powerCapMW
	if t > 1 {
		t = 1
	}

	// Three linear segments: dark red -> orange -> yellow -> white.
	var red, green, blue float64
	switch {
	case t < 1.0/3:
		s := t * 3
		red = 0.4 + 0.6*s
		green = 0.25 * s
	case t < 2.0/3:
		s := (t - 1.0/3) * 3
		red = 1
		green = 0.25 + 0.75*s
	default:
		s := (t - 2.0/3) * 3
		red, green = 1, 1
		blue = s
	}

	return color.RGBA{
		R: uint8(red * 0xff),
		G: uint8(green * 0xff),
		B: uint8(blue * 0xff),
		A: 0xff,
	}
}
