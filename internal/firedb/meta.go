package firedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roman-kulish/firewatch/internal/geo"
	"github.com/roman-kulish/firewatch/internal/satellite"
)

// ErrUnsupported marks operations whose tables exist for schema completeness
// but that this version does not implement. Callers get a clean error
// instead of a crash.
var ErrUnsupported = errors.New("operation not supported")

// NewestScanStart returns the most recent scan start time recorded for the
// satellite and sector pair, or the zero time when no rows exist. Ingestion
// uses it to resume where the previous run stopped instead of rescanning
// history.
func (d *DB) NewestScanStart(ctx context.Context, sat satellite.Satellite, sector satellite.Sector) (time.Time, error) {
	var newest sql.NullInt64
	err := d.writeDB.QueryRowContext(ctx, newestScanStartSQL, sat.String(), sector.String()).Scan(&newest)
	if err != nil {
		return time.Time{}, fmt.Errorf("querying newest scan start: %w", err)
	}
	if !newest.Valid {
		return time.Time{}, nil
	}
	return time.Unix(newest.Int64, 0).UTC(), nil
}

// ClusterCount returns the number of stored cluster rows for the satellite
// and sector pair.
func (d *DB) ClusterCount(ctx context.Context, sat satellite.Satellite, sector satellite.Sector) (int64, error) {
	var count int64
	err := d.writeDB.QueryRowContext(ctx, clusterCountSQL, sat.String(), sector.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting clusters: %w", err)
	}
	return count, nil
}

// NextWildfireID returns the identifier the next fire record should use: one
// past the current maximum, or 1 for an empty fires table. An id at or below
// zero can only come from a corrupted table and is reported as an error.
func (d *DB) NextWildfireID(ctx context.Context) (int64, error) {
	var id int64
	if err := d.writeDB.QueryRowContext(ctx, nextWildfireIDSQL).Scan(&id); err != nil {
		return 0, fmt.Errorf("querying next wildfire id: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("next wildfire id is %d: fires table is corrupt", id)
	}
	return id, nil
}

// Wildfire is a persistent fire entity aggregated from clusters across many
// scans. Only its schema is defined in this version; no operation populates
// it yet.
type Wildfire struct {
	ID             int64
	Satellite      satellite.Satellite
	FirstObserved  time.Time
	LastObserved   time.Time
	Centroid       geo.Coord
	MaxPower       float64
	MaxTemperature float64
	Pixels         geo.PixelList
}

// FireAddStmt is the pending batch writer for fire records and their cluster
// associations.
type FireAddStmt struct{}

// PrepareFireAdd is not implemented yet; it reports ErrUnsupported.
func (d *DB) PrepareFireAdd(ctx context.Context) (*FireAddStmt, error) {
	return nil, ErrUnsupported
}

// Add reports ErrUnsupported.
func (f *FireAddStmt) Add(ctx context.Context, fire *Wildfire) error { return ErrUnsupported }

// Associate reports ErrUnsupported.
func (f *FireAddStmt) Associate(ctx context.Context, fireID, clusterID int64) error {
	return ErrUnsupported
}

// Close reports ErrUnsupported.
func (f *FireAddStmt) Close() error { return ErrUnsupported }
