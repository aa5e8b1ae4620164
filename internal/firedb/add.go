package firedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roman-kulish/firewatch/internal/cluster"
	"github.com/roman-kulish/firewatch/internal/geo"
)

// AddStmt writes one scan's outcome at a time: either all of its cluster
// rows inside a single transaction, or a no-fire marker when the scan found
// nothing. The statements are compiled once and reusable until Close. Not
// safe for concurrent use.
type AddStmt struct {
	db *sql.DB

	insertCluster *sql.Stmt
	insertNoFire  *sql.Stmt

	// blob is reused across rows when serializing pixel footprints. It grows
	// to the largest footprint seen; the driver copies its contents during
	// the insert, so nothing retains it past the call.
	blob []byte
}

// PrepareAdd compiles the insert statements for cluster rows and no-fire
// markers.
func (d *DB) PrepareAdd(ctx context.Context) (*AddStmt, error) {
	insertCluster, err := d.writeDB.PrepareContext(ctx, insertClusterSQL)
	if err != nil {
		return nil, fmt.Errorf("preparing cluster insert: %w", err)
	}

	insertNoFire, err := d.writeDB.PrepareContext(ctx, insertNoFireSQL)
	if err != nil {
		_ = insertCluster.Close()
		return nil, fmt.Errorf("preparing no-fire insert: %w", err)
	}

	return &AddStmt{db: d.writeDB, insertCluster: insertCluster, insertNoFire: insertNoFire}, nil
}

// Add persists one scan's outcome. A scan with clusters writes every row
// under one explicit transaction: any failure rolls the whole scan back and
// contributes zero rows. A scan without clusters writes a single no-fire
// marker instead. Re-adding a scan replaces its rows rather than
// duplicating them.
func (a *AddStmt) Add(ctx context.Context, list *cluster.List) error {
	if len(list.Clusters) == 0 {
		return a.addNoFire(ctx, list)
	}
	return a.addClusters(ctx, list)
}

func (a *AddStmt) addClusters(ctx context.Context, list *cluster.List) (err error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	stmt := tx.StmtContext(ctx, a.insertCluster)
	defer closeWithError(stmt, &err)

	start := list.ScanStart.UTC().Unix()
	end := list.ScanEnd.UTC().Unix()

	for _, c := range list.Clusters {
		if err = a.serializePixels(c.Pixels); err != nil {
			return fmt.Errorf("serializing pixel footprint: %w", err)
		}

		centroid := c.Centroid()
		if _, err = stmt.ExecContext(ctx,
			list.Satellite.String(),
			list.Sector.String(),
			start,
			end,
			centroid.Lat,
			centroid.Lon,
			c.TotalPower(),
			c.MaxTemperature(),
			c.TotalArea(),
			c.MaxScanAngle(),
			a.blob,
		); err != nil {
			return fmt.Errorf("inserting cluster: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (a *AddStmt) addNoFire(ctx context.Context, list *cluster.List) error {
	_, err := a.insertNoFire.ExecContext(ctx,
		list.Satellite.String(),
		list.Sector.String(),
		list.ScanStart.UTC().Unix(),
		list.ScanEnd.UTC().Unix(),
	)
	if err != nil {
		return fmt.Errorf("inserting no-fire marker: %w", err)
	}
	return nil
}

func (a *AddStmt) serializePixels(pl geo.PixelList) error {
	if len(pl) == 0 {
		return errors.New("cluster has no pixels")
	}

	size := pl.SerializedSize()
	if cap(a.blob) < size {
		a.blob = make([]byte, size)
	}
	a.blob = a.blob[:size]

	return pl.Serialize(a.blob)
}

// Close releases both prepared statements. When releasing the first fails
// the second is still attempted and the first error is returned.
func (a *AddStmt) Close() error {
	err := a.insertCluster.Close()
	if cErr := a.insertNoFire.Close(); cErr != nil && err == nil {
		err = cErr
	}
	return err
}
