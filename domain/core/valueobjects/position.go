package valueobjects

import (
	"math"

	pkgerrors "github.com/RithishKumarK/supreme/pkg/errors"
)

// Position is a value object holding canvas coordinates of a node.
// It is advisory layout data and never influences generated code.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NewPosition creates a position with validation
func NewPosition(x, y float64) (Position, error) {
	p := Position{X: x, Y: y}
	if err := p.Validate(); err != nil {
		return Position{}, err
	}
	return p, nil
}

// Validate rejects NaN and infinite coordinates
func (p Position) Validate() error {
	if !isValidCoordinate(p.X) || !isValidCoordinate(p.Y) {
		return pkgerrors.NewValidationError("invalid coordinates: must be finite numbers")
	}
	return nil
}

// isValidCoordinate checks if a coordinate is a valid finite number
func isValidCoordinate(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
