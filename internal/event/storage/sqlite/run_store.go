package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/evcam/ekalibr-go/internal/event"
)

// CalibrationRun is one calibration session's metadata.
type CalibrationRun struct {
	RunID   string
	Started time.Time
	Source  string // e.g. a PCAP path or "live"
	Rows    int
	Cols    int
	Kind    string // "symmetric" or "asymmetric"
}

// CircleDetection is one accepted circle, as returned by extract_circles.
type CircleDetection struct {
	RunID  string
	TEval  float64
	Center event.Vec2
	Radius float64
}

// GridDetection is one successful grid reconstruction.
type GridDetection struct {
	RunID   string
	TEval   float64
	Rows    int
	Cols    int
	Centers []event.Vec2
}

// RunStore persists calibration runs and the detections produced during
// them.
type RunStore struct {
	db *DB
}

// NewRunStore wraps db as a RunStore.
func NewRunStore(db *DB) *RunStore { return &RunStore{db: db} }

// CreateRun inserts a new calibration run.
func (s *RunStore) CreateRun(run CalibrationRun) error {
	_, err := s.db.Exec(
		`INSERT INTO calibration_run (run_id, started_unix_nanos, source, rows, cols, kind)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Started.UnixNano(), run.Source, run.Rows, run.Cols, run.Kind,
	)
	if err != nil {
		return fmt.Errorf("create calibration run %s: %w", run.RunID, err)
	}
	return nil
}

// GetRun fetches one calibration run by ID.
func (s *RunStore) GetRun(runID string) (CalibrationRun, error) {
	var run CalibrationRun
	var startedNanos int64
	row := s.db.QueryRow(
		`SELECT run_id, started_unix_nanos, source, rows, cols, kind
		 FROM calibration_run WHERE run_id = ?`, runID)
	if err := row.Scan(&run.RunID, &startedNanos, &run.Source, &run.Rows, &run.Cols, &run.Kind); err != nil {
		return CalibrationRun{}, fmt.Errorf("get calibration run %s: %w", runID, err)
	}
	run.Started = time.Unix(0, startedNanos).UTC()
	return run, nil
}

// InsertCircleDetection records one accepted circle.
func (s *RunStore) InsertCircleDetection(d CircleDetection) error {
	_, err := s.db.Exec(
		`INSERT INTO circle_detection (run_id, t_eval, center_x, center_y, radius)
		 VALUES (?, ?, ?, ?, ?)`,
		d.RunID, d.TEval, d.Center.X, d.Center.Y, d.Radius,
	)
	if err != nil {
		return fmt.Errorf("insert circle detection for run %s: %w", d.RunID, err)
	}
	return nil
}

// ListCircleDetections returns every circle detection for runID, ordered by
// evaluation time.
func (s *RunStore) ListCircleDetections(runID string) ([]CircleDetection, error) {
	rows, err := s.db.Query(
		`SELECT t_eval, center_x, center_y, radius FROM circle_detection
		 WHERE run_id = ? ORDER BY t_eval`, runID)
	if err != nil {
		return nil, fmt.Errorf("list circle detections for run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []CircleDetection
	for rows.Next() {
		d := CircleDetection{RunID: runID}
		if err := rows.Scan(&d.TEval, &d.Center.X, &d.Center.Y, &d.Radius); err != nil {
			return nil, fmt.Errorf("scan circle detection: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// InsertGridDetection records one successful grid reconstruction, storing
// its centers as a JSON array.
func (s *RunStore) InsertGridDetection(d GridDetection) error {
	centersJSON, err := json.Marshal(d.Centers)
	if err != nil {
		return fmt.Errorf("marshal grid centers: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO grid_detection (run_id, t_eval, rows, cols, centers_json)
		 VALUES (?, ?, ?, ?, ?)`,
		d.RunID, d.TEval, d.Rows, d.Cols, string(centersJSON),
	)
	if err != nil {
		return fmt.Errorf("insert grid detection for run %s: %w", d.RunID, err)
	}
	return nil
}

// ListGridDetections returns every grid detection for runID, ordered by
// evaluation time.
func (s *RunStore) ListGridDetections(runID string) ([]GridDetection, error) {
	rows, err := s.db.Query(
		`SELECT t_eval, rows, cols, centers_json FROM grid_detection
		 WHERE run_id = ? ORDER BY t_eval`, runID)
	if err != nil {
		return nil, fmt.Errorf("list grid detections for run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []GridDetection
	for rows.Next() {
		d := GridDetection{RunID: runID}
		var centersJSON string
		if err := rows.Scan(&d.TEval, &d.Rows, &d.Cols, &centersJSON); err != nil {
			return nil, fmt.Errorf("scan grid detection: %w", err)
		}
		if err := json.Unmarshal([]byte(centersJSON), &d.Centers); err != nil {
			return nil, fmt.Errorf("unmarshal grid centers: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
