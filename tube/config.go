package tube

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/SergiiSharpov/gaspoc"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultSegments is the number of sides of a pipe cross-section.
	DefaultSegments = 16
	// DefaultTurnSegments is the number of steps a rounded turn is swept in.
	DefaultTurnSegments = 8
)

// Config controls the resolution and orientation of generated pipe meshes.
// The zero value is not valid, use DefaultConfig.
type Config struct {
	// Segments is the number of points on each cross-section ring.
	Segments int
	// TurnSegments is the number of rings-to-ring steps used to sweep a turn.
	TurnSegments int
	// Up is the reference normal of the canonical cross-section ring. Ring point 0
	// is placed relative to it so that rings along a path line up.
	Up r3.Vec
	// Tolerance under which lengths are considered zero and directions parallel.
	Tolerance float64
	// Logger receives debug messages about skipped degenerate geometry.
	// If nil slog.Default is used.
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used by the scene: 16 sided pipes,
// turns swept in 8 steps and +Y as up.
func DefaultConfig() Config {
	return Config{
		Segments:     DefaultSegments,
		TurnSegments: DefaultTurnSegments,
		Up:           r3.Vec{Y: 1},
		Tolerance:    gaspoc.Tolerance,
	}
}

// Validate returns an error if the configuration can not produce a mesh.
func (cfg Config) Validate() error {
	var errs []error
	if cfg.Segments < 3 {
		errs = append(errs, fmt.Errorf("need at least 3 ring segments, got %d", cfg.Segments))
	}
	if cfg.TurnSegments < 1 {
		errs = append(errs, fmt.Errorf("need at least 1 turn segment, got %d", cfg.TurnSegments))
	}
	if r3.Norm(cfg.Up) <= cfg.Tolerance || !gaspoc.IsFinite(r3.Norm(cfg.Up)) {
		errs = append(errs, errors.New("up reference must be a non-zero finite vector"))
	}
	if cfg.Tolerance < 0 {
		errs = append(errs, errors.New("negative tolerance"))
	}
	return errors.Join(errs...)
}

func (cfg Config) logger() *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}
