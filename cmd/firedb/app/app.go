package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/firewatch/internal/firedb"
	"github.com/roman-kulish/firewatch/internal/satellite"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	db, err := firedb.Open(config.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	switch config.Command {
	case CommandInit:
		// Open already created the file and applied the schema.
		logger.Info("database initialized", slog.String("path", config.DBPath))
		return nil

	case CommandStatus:
		return printStatus(ctx, db, logger)
	}

	return fmt.Errorf("unknown command: %s", config.Command)
}

func printStatus(ctx context.Context, db *firedb.DB, logger *slog.Logger) error {
	satellites := []satellite.Satellite{satellite.GOES16, satellite.GOES17}
	sectors := []satellite.Sector{
		satellite.SectorFull,
		satellite.SectorConus,
		satellite.SectorMeso1,
		satellite.SectorMeso2,
	}

	for _, sat := range satellites {
		for _, sector := range sectors {
			count, err := db.ClusterCount(ctx, sat, sector)
			if err != nil {
				return err
			}
			if count == 0 {
				continue
			}

			newest, err := db.NewestScanStart(ctx, sat, sector)
			if err != nil {
				return err
			}

			logger.Info("stored scans",
				slog.String("satellite", sat.String()),
				slog.String("sector", sector.String()),
				slog.String("clusters", humanize.Comma(count)),
				slog.String("newestScan", humanize.Time(newest)))
		}
	}

	id, err := db.NextWildfireID(ctx)
	if err != nil {
		return err
	}
	logger.Info("fires", slog.Int64("nextWildfireID", id))

	return nil
}
