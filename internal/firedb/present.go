package firedb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roman-kulish/firewatch/internal/satellite"
)

// ScanState classifies whether a scan's results are already recorded.
type ScanState int

const (
	// ScanAbsent means the scan has never been processed.
	ScanAbsent ScanState = iota
	// ScanNoDetections means the scan was processed and found no fire.
	ScanNoDetections
	// ScanHasDetections means the scan was processed and cluster rows exist.
	ScanHasDetections
)

func (s ScanState) String() string {
	switch s {
	case ScanAbsent:
		return "absent"
	case ScanNoDetections:
		return "no detections"
	case ScanHasDetections:
		return "has detections"
	}
	return fmt.Sprintf("ScanState(%d)", int(s))
}

// Presence answers "has this scan already been handled". Detections is only
// meaningful when State is ScanHasDetections.
type Presence struct {
	State      ScanState
	Detections int
}

// PresenceQuery answers scan presence questions against both the clusters
// and the no-fire tables. The statements are compiled once and reusable
// until Close. Not safe for concurrent use.
type PresenceQuery struct {
	countClusters *sql.Stmt
	countNoFire   *sql.Stmt
}

// PrepareScanPresence compiles the two presence count statements.
func (d *DB) PrepareScanPresence(ctx context.Context) (*PresenceQuery, error) {
	countClusters, err := d.writeDB.PrepareContext(ctx, countClustersSQL)
	if err != nil {
		return nil, fmt.Errorf("preparing cluster count: %w", err)
	}

	countNoFire, err := d.writeDB.PrepareContext(ctx, countNoFireSQL)
	if err != nil {
		_ = countClusters.Close()
		return nil, fmt.Errorf("preparing no-fire count: %w", err)
	}

	return &PresenceQuery{countClusters: countClusters, countNoFire: countNoFire}, nil
}

// Scan reports whether results for the given scan are already recorded. The
// clusters table is authoritative; the no-fire marker is consulted only when
// no cluster rows match, so "detections found" takes precedence over
// "explicitly marked empty". A query failure comes back as a non-nil error,
// never as ScanAbsent.
func (q *PresenceQuery) Scan(ctx context.Context, sat satellite.Satellite, sector satellite.Sector, start, end time.Time) (Presence, error) {
	args := []any{sat.String(), sector.String(), start.UTC().Unix(), end.UTC().Unix()}

	var count int
	if err := q.countClusters.QueryRowContext(ctx, args...).Scan(&count); err != nil {
		return Presence{}, fmt.Errorf("counting clusters: %w", err)
	}
	if count > 0 {
		return Presence{State: ScanHasDetections, Detections: count}, nil
	}

	if err := q.countNoFire.QueryRowContext(ctx, args...).Scan(&count); err != nil {
		return Presence{}, fmt.Errorf("counting no-fire markers: %w", err)
	}
	if count > 0 {
		return Presence{State: ScanNoDetections}, nil
	}

	return Presence{State: ScanAbsent}, nil
}

// Close releases both prepared statements. When releasing the first fails
// the second is still attempted and the first error is returned.
func (q *PresenceQuery) Close() error {
	err := q.countClusters.Close()
	if cErr := q.countNoFire.Close(); cErr != nil && err == nil {
		err = cErr
	}
	return err
}
