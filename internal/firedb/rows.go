package firedb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roman-kulish/firewatch/internal/geo"
	"github.com/roman-kulish/firewatch/internal/satellite"
)

// ClusterRow is one stored cluster decoded from the database.
type ClusterRow struct {
	satellite      satellite.Satellite
	sector         satellite.Sector
	start          time.Time
	end            time.Time
	centroid       geo.Coord
	power          float64
	maxTemperature float64
	area           float64
	maxScanAngle   float64
	pixels         geo.PixelList
}

func (r *ClusterRow) Satellite() satellite.Satellite { return r.satellite }
func (r *ClusterRow) Sector() satellite.Sector       { return r.sector }
func (r *ClusterRow) ScanStart() time.Time           { return r.start }
func (r *ClusterRow) ScanEnd() time.Time             { return r.end }
func (r *ClusterRow) Centroid() geo.Coord            { return r.centroid }

// Power returns the cluster's fire radiative power in megawatts.
func (r *ClusterRow) Power() float64 { return r.power }

// MaxTemperature returns the hottest pixel temperature in Kelvin.
func (r *ClusterRow) MaxTemperature() float64 { return r.maxTemperature }

// Area returns the cluster's fire area in square meters.
func (r *ClusterRow) Area() float64 { return r.area }

// MaxScanAngle returns the largest pixel scan angle in degrees.
func (r *ClusterRow) MaxScanAngle() float64 { return r.maxScanAngle }

// Pixels returns the row's pixel footprint. The list remains owned by the
// row; use TakePixels to keep it past the next cursor advance.
func (r *ClusterRow) Pixels() geo.PixelList { return r.pixels }

// TakePixels transfers ownership of the pixel footprint to the caller,
// leaving the row without one. Used when the footprint must outlive the row
// and the cursor that produced it.
func (r *ClusterRow) TakePixels() geo.PixelList {
	pl := r.pixels
	r.pixels = nil
	return pl
}

// ClusterRows streams stored clusters matching a spatial and temporal range
// in ascending scan start order. It is single-pass, forward-only, bound to
// one goroutine, and must not outlive the DB that produced it.
type ClusterRows struct {
	rows    *sql.Rows
	current *ClusterRow
	err     error
}

// QueryClusters compiles a range query over stored clusters: rows whose scan
// window lies inside [start, end] and whose centroid falls inside area.
// SatelliteNone and SectorNone act as wildcards; any other value narrows the
// query with an equality predicate. Every value travels as a bound
// parameter. Rows come back ordered ascending by scan start time, an order
// the downstream fire tracking depends on.
func (d *DB) QueryClusters(ctx context.Context, sat satellite.Satellite, sector satellite.Sector, start, end time.Time, area geo.BoundingBox) (*ClusterRows, error) {
	db, err := d.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	query := selectClustersSQL
	args := []any{
		start.UTC().Unix(),
		end.UTC().Unix(),
		area.LL.Lat, area.UR.Lat,
		area.LL.Lon, area.UR.Lon,
	}

	if sat != satellite.SatelliteNone {
		query += filterSatelliteSQL
		args = append(args, sat.String())
	}
	if sector != satellite.SectorNone {
		query += filterSectorSQL
		args = append(args, sector.String())
	}
	query += orderByScanStartSQL

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying clusters: %w", err)
	}

	return &ClusterRows{rows: rows}, nil
}

// Next advances the cursor, decoding the next row's scalar columns and its
// pixel footprint. It returns false when the result set is exhausted or an
// error occurred; check Err to tell the two apart.
func (cr *ClusterRows) Next(ctx context.Context) bool {
	if cr.err != nil || cr.rows == nil {
		return false
	}

	select {
	case <-ctx.Done():
		cr.err = ctx.Err()
		return false
	default:
	}

	if !cr.rows.Next() {
		return false
	}

	var satName, sectorName string
	var start, end int64
	var blob []byte

	row := &ClusterRow{}
	if cr.err = cr.rows.Scan(
		&satName,
		&sectorName,
		&start,
		&end,
		&row.power,
		&row.maxTemperature,
		&row.area,
		&row.maxScanAngle,
		&row.centroid.Lat,
		&row.centroid.Lon,
		&blob,
	); cr.err != nil {
		cr.err = fmt.Errorf("scanning cluster row: %w", cr.err)
		return false
	}

	row.satellite = satellite.SatelliteFromString(satName)
	row.sector = satellite.SectorFromString(sectorName)
	row.start = time.Unix(start, 0).UTC()
	row.end = time.Unix(end, 0).UTC()

	if row.pixels, cr.err = geo.DeserializePixels(blob); cr.err != nil {
		cr.err = fmt.Errorf("decoding pixel footprint: %w", cr.err)
		return false
	}

	cr.current = row
	return true
}

// Current returns the row produced by the last successful Next.
func (cr *ClusterRows) Current() *ClusterRow { return cr.current }

// Err returns the first error encountered during iteration.
func (cr *ClusterRows) Err() error {
	if cr.err != nil {
		return cr.err
	}
	if cr.rows != nil {
		return cr.rows.Err()
	}
	return nil
}

// Close releases the underlying result set. The cursor cannot be reused.
func (cr *ClusterRows) Close() error {
	if cr.rows == nil {
		return nil
	}

	err := cr.rows.Close()
	cr.rows = nil
	cr.current = nil
	return err
}
