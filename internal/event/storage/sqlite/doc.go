// Package sqlite persists calibration runs: the run's own metadata plus the
// circle and grid detections produced while it was live. It mirrors the
// teacher's internal/lidar/storage/sqlite + internal/db/migrate.go split
// between a thin DB wrapper and golang-migrate-driven schema evolution.
package sqlite
