// Package monitor renders post-run diagnostics for calibration runs stored
// by internal/event/storage/sqlite: static PNG traces of detected circles
// and grid-detection rate via gonum/plot, grounded on the teacher's
// internal/lidar/monitor/gridplotter.go, and a live SQL browser over the
// run store mounted via tailsql/tsweb, grounded on the teacher's
// internal/db/db.go AttachAdminRoutes.
package monitor
