package firedb_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/firewatch/internal/cluster"
	"github.com/roman-kulish/firewatch/internal/firedb"
	"github.com/roman-kulish/firewatch/internal/geo"
	"github.com/roman-kulish/firewatch/internal/satellite"
)

var scanStart = time.Date(2021, time.July, 24, 10, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *firedb.DB {
	t.Helper()

	db, err := firedb.Open(filepath.Join(t.TempDir(), "clusters.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testPixel(lat, lon, power float64) geo.Pixel {
	return geo.Pixel{
		UL:              geo.Coord{Lat: lat + 0.01, Lon: lon - 0.01},
		LL:              geo.Coord{Lat: lat - 0.01, Lon: lon - 0.01},
		LR:              geo.Coord{Lat: lat - 0.01, Lon: lon + 0.01},
		UR:              geo.Coord{Lat: lat + 0.01, Lon: lon + 0.01},
		Power:           power,
		Area:            1.5e5,
		Temperature:     500,
		ScanAngle:       3.5,
		MaskFlag:        10,
		DataQualityFlag: 0,
	}
}

func testCluster(lat, lon, power float64) *cluster.Cluster {
	return &cluster.Cluster{Pixels: geo.PixelList{testPixel(lat, lon, power)}}
}

func testList(start time.Time, clusters ...*cluster.Cluster) *cluster.List {
	return &cluster.List{
		Satellite: satellite.GOES16,
		Sector:    satellite.SectorConus,
		ScanStart: start,
		ScanEnd:   start.Add(5 * time.Minute),
		Clusters:  clusters,
	}
}

func addList(t *testing.T, db *firedb.DB, list *cluster.List) {
	t.Helper()

	add, err := db.PrepareAdd(context.Background())
	require.NoError(t, err)
	require.NoError(t, add.Add(context.Background(), list))
	require.NoError(t, add.Close())
}

func scanPresence(t *testing.T, db *firedb.DB, list *cluster.List) firedb.Presence {
	t.Helper()

	q, err := db.PrepareScanPresence(context.Background())
	require.NoError(t, err)
	defer q.Close()

	p, err := q.Scan(context.Background(), list.Satellite, list.Sector, list.ScanStart, list.ScanEnd)
	require.NoError(t, err)
	return p
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clusters.sqlite")

	db, err := firedb.Open(path)
	require.NoError(t, err)
	addList(t, db, testList(scanStart, testCluster(38.5, -120.25, 150)))
	require.NoError(t, db.Close())

	// A second open must leave the stored rows alone and present the same
	// schema contract.
	db, err = firedb.Open(path)
	require.NoError(t, err)
	defer db.Close()

	p := scanPresence(t, db, testList(scanStart))
	assert.Equal(t, firedb.ScanHasDetections, p.State)
	assert.Equal(t, 1, p.Detections)
}

func TestCloseIsIdempotent(t *testing.T) {
	db, err := firedb.Open(filepath.Join(t.TempDir(), "clusters.sqlite"))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	var nilDB *firedb.DB
	assert.NoError(t, nilDB.Close())
}

func TestScanPresenceTriState(t *testing.T) {
	db := openTestDB(t)
	list := testList(scanStart, testCluster(38.5, -120.25, 150), testCluster(39.1, -121.4, 80))

	p := scanPresence(t, db, list)
	assert.Equal(t, firedb.ScanAbsent, p.State, "never written scan must be absent")

	// Mark the scan as processed with no fire first, then store detections
	// for the same scan: detections must win over the marker.
	addList(t, db, testList(list.ScanStart))
	p = scanPresence(t, db, list)
	assert.Equal(t, firedb.ScanNoDetections, p.State)

	addList(t, db, list)
	p = scanPresence(t, db, list)
	assert.Equal(t, firedb.ScanHasDetections, p.State)
	assert.Equal(t, 2, p.Detections)
}

func TestScanPresenceIsReusable(t *testing.T) {
	db := openTestDB(t)
	addList(t, db, testList(scanStart, testCluster(38.5, -120.25, 150)))

	q, err := db.PrepareScanPresence(context.Background())
	require.NoError(t, err)
	defer q.Close()

	for i := 0; i < 3; i++ {
		p, err := q.Scan(context.Background(), satellite.GOES16, satellite.SectorConus, scanStart, scanStart.Add(5*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, firedb.ScanHasDetections, p.State)

		p, err = q.Scan(context.Background(), satellite.GOES17, satellite.SectorFull, scanStart, scanStart.Add(5*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, firedb.ScanAbsent, p.State)
	}
}

func TestAddReplacesOnReprocess(t *testing.T) {
	db := openTestDB(t)

	addList(t, db, testList(scanStart, testCluster(38.5, -120.25, 150)))
	// Reprocessing the same scan replaces the row instead of duplicating it,
	// and the second run's values win.
	addList(t, db, testList(scanStart, testCluster(38.5, -120.25, 225)))

	p := scanPresence(t, db, testList(scanStart))
	require.Equal(t, firedb.ScanHasDetections, p.State)
	assert.Equal(t, 1, p.Detections)

	rows := queryAll(t, db, satellite.SatelliteNone, satellite.SectorNone)
	require.Len(t, rows, 1)
	assert.Equal(t, 225.0, rows[0].Power())
}

func TestAddRollsBackFailedBatch(t *testing.T) {
	db := openTestDB(t)

	list := testList(scanStart,
		testCluster(38.5, -120.25, 150),
		testCluster(39.1, -121.4, 80),
		&cluster.Cluster{}, // no pixels: serialization fails mid-batch
	)

	add, err := db.PrepareAdd(context.Background())
	require.NoError(t, err)
	defer add.Close()

	require.Error(t, add.Add(context.Background(), list))

	p := scanPresence(t, db, list)
	assert.Equal(t, firedb.ScanAbsent, p.State, "failed batch must contribute zero rows")
}

type rowKey struct {
	Start time.Time
	Lat   float64
	Lon   float64
}

func queryAll(t *testing.T, db *firedb.DB, sat satellite.Satellite, sector satellite.Sector) []*firedb.ClusterRow {
	t.Helper()

	area := geo.BoundingBox{LL: geo.Coord{Lat: -90, Lon: -180}, UR: geo.Coord{Lat: 90, Lon: 180}}
	rows, err := db.QueryClusters(context.Background(), sat, sector, time.Unix(0, 0), scanStart.Add(24*time.Hour), area)
	require.NoError(t, err)
	defer rows.Close()

	var out []*firedb.ClusterRow
	for rows.Next(context.Background()) {
		out = append(out, rows.Current())
	}
	require.NoError(t, rows.Err())
	return out
}

func TestQueryClustersRangeAndOrder(t *testing.T) {
	db := openTestDB(t)

	// Three scans spread over time, one outside the query window, plus a
	// G17 full disk scan hit by the wildcard query only.
	first := testCluster(38.5, -120.25, 100)
	second := testCluster(38.6, -120.3, 200)
	addList(t, db, testList(scanStart, first, testCluster(45.0, -110.0, 50)))
	addList(t, db, testList(scanStart.Add(10*time.Minute), second))
	addList(t, db, testList(scanStart.Add(24*time.Hour), testCluster(38.7, -120.4, 300)))

	g17 := testList(scanStart.Add(5*time.Minute), testCluster(38.55, -120.2, 75))
	g17.Satellite = satellite.GOES17
	g17.Sector = satellite.SectorFull
	addList(t, db, g17)

	area := geo.BoundingBox{LL: geo.Coord{Lat: 35, Lon: -125}, UR: geo.Coord{Lat: 40, Lon: -115}}
	rows, err := db.QueryClusters(context.Background(),
		satellite.GOES16, satellite.SectorConus,
		scanStart, scanStart.Add(time.Hour), area)
	require.NoError(t, err)
	defer rows.Close()

	var got []rowKey
	for rows.Next(context.Background()) {
		r := rows.Current()
		assert.Equal(t, satellite.GOES16, r.Satellite())
		assert.Equal(t, satellite.SectorConus, r.Sector())
		assert.True(t, area.Contains(r.Centroid()), "centroid %+v outside bounding box", r.Centroid())
		got = append(got, rowKey{Start: r.ScanStart(), Lat: r.Centroid().Lat, Lon: r.Centroid().Lon})
	}
	require.NoError(t, rows.Err())

	// The 45N row fails the box, the +24h row fails the window and the G17
	// row fails the satellite filter. Order is ascending scan start.
	want := []rowKey{
		{Start: scanStart, Lat: first.Centroid().Lat, Lon: first.Centroid().Lon},
		{Start: scanStart.Add(10 * time.Minute), Lat: second.Centroid().Lat, Lon: second.Centroid().Lon},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryClustersWildcards(t *testing.T) {
	db := openTestDB(t)

	addList(t, db, testList(scanStart, testCluster(38.5, -120.25, 100)))
	g17 := testList(scanStart.Add(time.Minute), testCluster(38.6, -120.3, 75))
	g17.Satellite = satellite.GOES17
	g17.Sector = satellite.SectorFull
	addList(t, db, g17)

	assert.Len(t, queryAll(t, db, satellite.SatelliteNone, satellite.SectorNone), 2)
	assert.Len(t, queryAll(t, db, satellite.GOES17, satellite.SectorNone), 1)
	assert.Len(t, queryAll(t, db, satellite.SatelliteNone, satellite.SectorConus), 1)
}

func TestClusterRowGeometryRoundTrip(t *testing.T) {
	db := openTestDB(t)

	pixels := geo.PixelList{
		testPixel(38.5, -120.25, 150),
		testPixel(38.52, -120.23, 60.5),
	}
	addList(t, db, testList(scanStart, &cluster.Cluster{Pixels: pixels}))

	rows := queryAll(t, db, satellite.SatelliteNone, satellite.SectorNone)
	require.Len(t, rows, 1)
	row := rows[0]

	if diff := cmp.Diff(pixels, row.Pixels()); diff != "" {
		t.Fatalf("pixel footprint mismatch (-want +got):\n%s", diff)
	}

	stolen := row.TakePixels()
	if diff := cmp.Diff(pixels, stolen); diff != "" {
		t.Errorf("stolen footprint mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, row.Pixels(), "row must not keep pixels after TakePixels")
}

func TestNewestScanStart(t *testing.T) {
	db := openTestDB(t)

	newest, err := db.NewestScanStart(context.Background(), satellite.GOES16, satellite.SectorConus)
	require.NoError(t, err)
	assert.True(t, newest.IsZero(), "empty table must report the zero time")

	addList(t, db, testList(scanStart, testCluster(38.5, -120.25, 100)))
	addList(t, db, testList(scanStart.Add(time.Hour), testCluster(38.6, -120.3, 50)))

	newest, err = db.NewestScanStart(context.Background(), satellite.GOES16, satellite.SectorConus)
	require.NoError(t, err)
	assert.True(t, newest.Equal(scanStart.Add(time.Hour)), "got %v", newest)

	// Different pair stays untouched.
	newest, err = db.NewestScanStart(context.Background(), satellite.GOES17, satellite.SectorConus)
	require.NoError(t, err)
	assert.True(t, newest.IsZero())
}

func TestClusterCount(t *testing.T) {
	db := openTestDB(t)

	count, err := db.ClusterCount(context.Background(), satellite.GOES16, satellite.SectorConus)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	addList(t, db, testList(scanStart, testCluster(38.5, -120.25, 100), testCluster(39.1, -121.4, 80)))

	count, err = db.ClusterCount(context.Background(), satellite.GOES16, satellite.SectorConus)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = db.ClusterCount(context.Background(), satellite.GOES17, satellite.SectorConus)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestNextWildfireID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clusters.sqlite")
	db, err := firedb.Open(path)
	require.NoError(t, err)
	defer db.Close()

	id, err := db.NextWildfireID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	// Seed a fire row directly: there is no writer for the fires table yet.
	raw, err := sql.Open("sqlite3", "file:"+path)
	require.NoError(t, err)
	defer raw.Close()
	_, err = raw.Exec(`INSERT INTO fires
		(fire_id, satellite, first_observed, last_observed, lat, lon, max_power, max_temperature, pixels)
		VALUES (41, 'G16', 0, 0, 38.5, -120.25, 100, 500, x'00')`)
	require.NoError(t, err)

	id, err = db.NextWildfireID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestFireWriterUnsupported(t *testing.T) {
	db := openTestDB(t)

	_, err := db.PrepareFireAdd(context.Background())
	assert.ErrorIs(t, err, firedb.ErrUnsupported)

	var stmt firedb.FireAddStmt
	assert.ErrorIs(t, stmt.Add(context.Background(), &firedb.Wildfire{}), firedb.ErrUnsupported)
	assert.ErrorIs(t, stmt.Associate(context.Background(), 1, 1), firedb.ErrUnsupported)
	assert.ErrorIs(t, stmt.Close(), firedb.ErrUnsupported)
}
