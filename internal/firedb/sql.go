package firedb

const (
	insertClusterSQL = `
INSERT OR REPLACE INTO clusters (satellite,
                                 sector,
                                 start_time,
                                 end_time,
                                 lat,
                                 lon,
                                 power,
                                 max_temperature,
                                 area,
                                 max_scan_angle,
                                 pixels)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertNoFireSQL = `
INSERT OR REPLACE INTO no_fire (satellite, sector, start_time, end_time)
VALUES (?, ?, ?, ?)`

	countClustersSQL = `
SELECT COUNT(*)
FROM clusters
WHERE
    satellite = ?
    AND sector = ?
    AND start_time = ?
    AND end_time = ?`

	countNoFireSQL = `
SELECT COUNT(*)
FROM no_fire
WHERE
    satellite = ?
    AND sector = ?
    AND start_time = ?
    AND end_time = ?`

	selectClustersSQL = `
SELECT
    satellite,
    sector,
    start_time,
    end_time,
    power,
    max_temperature,
    area,
    max_scan_angle,
    lat,
    lon,
    pixels
FROM clusters
WHERE
    start_time >= ?
    AND end_time <= ?
    AND lat BETWEEN ? AND ?
    AND lon BETWEEN ? AND ?`

	filterSatelliteSQL = `
    AND satellite = ?`

	filterSectorSQL = `
    AND sector = ?`

	orderByScanStartSQL = `
ORDER BY start_time ASC`

	clusterCountSQL = `
SELECT COUNT(*)
FROM clusters
WHERE satellite = ? AND sector = ?`

	newestScanStartSQL = `
SELECT MAX(start_time)
FROM clusters
WHERE satellite = ? AND sector = ?`

	nextWildfireIDSQL = `
SELECT IFNULL(MAX(fire_id) + 1, 1) FROM fires`
)
