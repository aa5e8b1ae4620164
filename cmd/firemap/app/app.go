package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/firewatch/internal/firedb"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	db, err := firedb.Open(config.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	return renderMap(ctx, db, config, logger)
}

func renderMap(ctx context.Context, db *firedb.DB, config *Config, logger *slog.Logger) error {
	logger.Info("query configuration",
		slog.String("satellite", config.Satellite.String()),
		slog.String("sector", config.Sector.String()),
		slog.String("start", config.Start.UTC().Format(time.DateTime)),
		slog.String("end", config.End.UTC().Format(time.DateTime)),
		slog.String("region", config.RegionName))

	rows, err := db.QueryClusters(ctx, config.Satellite, config.Sector, config.Start, config.End, config.Area)
	if err != nil {
		return err
	}
	defer rows.Close()

	grid := NewPowerGrid(config.Area, config.CellDegrees)
	for rows.Next(ctx) {
		row := rows.Current()
		grid.Add(row.Centroid(), row.Power(), row.ScanStart())
	}
	if err = rows.Err(); err != nil {
		return err
	}

	if grid.Clusters == 0 {
		logger.Warn("no detections matched the query, rendering an empty map")
	} else {
		logger.Info("finished reading detections",
			slog.Group("stats",
				slog.String("clusters", humanize.Comma(int64(grid.Clusters))),
				slog.String("peakPower", humanize.SIWithDigits(grid.MaxPower*1e6, 1, "W")),
				slog.String("firstScan", grid.FirstScan.UTC().Format(time.DateTime)),
				slog.String("lastScan", grid.LastScan.UTC().Format(time.DateTime)),
			))
	}

	fontFile := config.FontFile
	if config.NoAnnotations {
		fontFile = ""
	}
	if fontFile == "" && !config.NoAnnotations {
		logger.Warn("no font configured, skipping annotations")
	}

	renderer := NewMapRenderer(RenderConfig{
		FontFile:   fontFile,
		RegionName: config.RegionName,
	})

	logger.Info("rendering map",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.Int("width", grid.Width()),
			slog.Int("height", grid.Height()),
		))

	img, err := renderer.Render(grid)
	if err != nil {
		return fmt.Errorf("rendering map: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return err
}
