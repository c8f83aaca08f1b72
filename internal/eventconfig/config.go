package eventconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/evcam/ekalibr-go/internal/event"
	"github.com/evcam/ekalibr-go/internal/event/circle"
	"github.com/evcam/ekalibr-go/internal/event/grid"
)

// Config is the full set of tunables spanning the SAE, the normal-flow
// estimator, the circle extractor, and the grid finder. It mirrors the
// teacher's BackgroundConfig builder: struct fields with doc-commented
// defaults, a fluent With* API, and a Validate() that returns
// ErrConfigInvalid-wrapped errors naming the offending field.
type Config struct {
	// Sensor geometry and model.
	Width, Height int
	Model         EventModelType

	// Tau is the SAE decay constant (seconds, > 0). Default also uses it
	// for Flow.Tau and Circle.TauBreak; changing Tau afterwards (including
	// through LoadOverlay) leaves those two fields as they are.
	Tau float64

	// Pattern is the calibration target's circle-grid layout.
	Pattern CirclePatternType
	// Rows and Cols are the target's circle-grid dimensions.
	Rows, Cols int
	// SquareSize is the physical (or pixel-normalized) spacing between
	// adjacent circle centers, feeding grid.Params' lattice-spacing
	// defaults.
	SquareSize float64

	Flow   event.FlowConfig
	Circle circle.Config
	Grid   grid.Params
}

// Default returns the spec's default tunables for a w x h sensor observing
// a rows x cols circle grid of the given pattern and spacing.
func Default(w, h int, tau float64, pattern CirclePatternType, rows, cols int, squareSize float64) Config {
	return Config{
		Width:      w,
		Height:     h,
		Model:      Prophesee,
		Tau:        tau,
		Pattern:    pattern,
		Rows:       rows,
		Cols:       cols,
		SquareSize: squareSize,
		Flow:       event.DefaultFlowConfig(tau),
		Circle:     circle.DefaultConfig(tau),
		Grid:       grid.DefaultParams(squareSize),
	}
}

// Validate checks every sub-config and the sensor/target geometry.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: Width and Height must be > 0, got %dx%d", ErrConfigInvalid, c.Width, c.Height)
	}
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("%w: Rows and Cols must be > 0, got %dx%d", ErrConfigInvalid, c.Rows, c.Cols)
	}
	if c.SquareSize <= 0 {
		return fmt.Errorf("%w: SquareSize must be > 0, got %v", ErrConfigInvalid, c.SquareSize)
	}
	if c.Tau <= 0 {
		return fmt.Errorf("%w: Tau must be > 0, got %v", ErrConfigInvalid, c.Tau)
	}
	if err := c.Flow.Validate(); err != nil {
		return fmt.Errorf("flow config: %w", err)
	}
	if err := c.Circle.Validate(); err != nil {
		return fmt.Errorf("circle config: %w", err)
	}
	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("grid config: %w", err)
	}
	return nil
}

// WithModel sets the event camera's pixel model.
func (c Config) WithModel(m EventModelType) Config {
	c.Model = m
	return c
}

// WithPattern sets the calibration target's circle-grid layout.
func (c Config) WithPattern(p CirclePatternType) Config {
	c.Pattern = p
	return c
}

// WithFlow replaces the normal-flow estimator tunables.
func (c Config) WithFlow(f event.FlowConfig) Config {
	c.Flow = f
	return c
}

// WithCircle replaces the circle extractor tunables.
func (c Config) WithCircle(cc circle.Config) Config {
	c.Circle = cc
	return c
}

// WithGrid replaces the grid finder tunables.
func (c Config) WithGrid(g grid.Params) Config {
	c.Grid = g
	return c
}

// overlay is the JSON-facing mirror of Config, using optional ("*T") fields
// so a partial JSON document only overwrites the fields it names, mirroring
// the teacher's internal/config.TuningConfig pattern.
type overlay struct {
	Width      *int     `json:"width,omitempty"`
	Height     *int     `json:"height,omitempty"`
	Model      *string  `json:"model,omitempty"`
	Tau        *float64 `json:"tau,omitempty"`
	Pattern    *string  `json:"pattern,omitempty"`
	Rows       *int     `json:"rows,omitempty"`
	Cols       *int     `json:"cols,omitempty"`
	SquareSize *float64 `json:"square_size,omitempty"`

	WNf      *int     `json:"w_nf,omitempty"`
	MMin     *int     `json:"m_min,omitempty"`
	SigmaFit *float64 `json:"sigma_fit,omitempty"`

	ClusterAreaThd      *float64 `json:"cluster_area_thd,omitempty"`
	DirDiffDegThd       *float64 `json:"dir_diff_deg_thd,omitempty"`
	PointToCircleAvgThd *float64 `json:"point_to_circle_avg_thd,omitempty"`

	MinGraphConfidence *float64 `json:"min_graph_confidence,omitempty"`
	MinDensity         *float64 `json:"min_density,omitempty"`
}

// LoadOverlay reads a partial JSON configuration from path and applies it on
// top of base, returning the merged, validated Config. Fields the JSON
// omits retain base's value.
func LoadOverlay(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config overlay %s: %w", path, err)
	}
	var ov overlay
	if err := json.Unmarshal(data, &ov); err != nil {
		return Config{}, fmt.Errorf("parse config overlay %s: %w", path, err)
	}

	merged := base
	if ov.Width != nil {
		merged.Width = *ov.Width
	}
	if ov.Height != nil {
		merged.Height = *ov.Height
	}
	if ov.Model != nil {
		m, err := EventModelTypeFromString(*ov.Model)
		if err != nil {
			return Config{}, err
		}
		merged.Model = m
	}
	if ov.Tau != nil {
		merged.Tau = *ov.Tau
	}
	if ov.Pattern != nil {
		p, err := CirclePatternTypeFromString(*ov.Pattern)
		if err != nil {
			return Config{}, err
		}
		merged.Pattern = p
	}
	if ov.Rows != nil {
		merged.Rows = *ov.Rows
	}
	if ov.Cols != nil {
		merged.Cols = *ov.Cols
	}
	if ov.SquareSize != nil {
		merged.SquareSize = *ov.SquareSize
	}
	if ov.WNf != nil {
		merged.Flow.WNf = *ov.WNf
	}
	if ov.MMin != nil {
		merged.Flow.MMin = *ov.MMin
	}
	if ov.SigmaFit != nil {
		merged.Flow.SigmaFit = *ov.SigmaFit
	}
	if ov.ClusterAreaThd != nil {
		merged.Circle.ClusterAreaThd = *ov.ClusterAreaThd
	}
	if ov.DirDiffDegThd != nil {
		merged.Circle.DirDiffDegThd = *ov.DirDiffDegThd
	}
	if ov.PointToCircleAvgThd != nil {
		merged.Circle.PointToCircleAvgThd = *ov.PointToCircleAvgThd
	}
	if ov.MinGraphConfidence != nil {
		merged.Grid.MinGraphConfidence = *ov.MinGraphConfidence
	}
	if ov.MinDensity != nil {
		merged.Grid.MinDensity = *ov.MinDensity
	}

	if err := merged.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return merged, nil
}

// Save writes every field LoadOverlay reads from c as a JSON document to
// path; tunables outside that set are not written.
func (c Config) Save(path string) error {
	ov := overlay{
		Width: &c.Width, Height: &c.Height,
		Tau: &c.Tau, Rows: &c.Rows, Cols: &c.Cols, SquareSize: &c.SquareSize,
		WNf: &c.Flow.WNf, MMin: &c.Flow.MMin, SigmaFit: &c.Flow.SigmaFit,
		ClusterAreaThd: &c.Circle.ClusterAreaThd, DirDiffDegThd: &c.Circle.DirDiffDegThd,
		PointToCircleAvgThd: &c.Circle.PointToCircleAvgThd,
		MinGraphConfidence:  &c.Grid.MinGraphConfidence, MinDensity: &c.Grid.MinDensity,
	}
	model, pattern := c.Model.String(), c.Pattern.String()
	ov.Model, ov.Pattern = &model, &pattern

	data, err := json.MarshalIndent(ov, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
