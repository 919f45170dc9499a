package valueobjects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPosition(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid position at origin",
			x:    0,
			y:    0,
		},
		{
			name: "valid positive position",
			x:    250,
			y:    100.5,
		},
		{
			name: "valid negative position",
			x:    -100.5,
			y:    -200.75,
		},
		{
			name:    "NaN x coordinate",
			x:       math.NaN(),
			y:       0,
			wantErr: true,
			errMsg:  "invalid coordinates",
		},
		{
			name:    "NaN y coordinate",
			x:       0,
			y:       math.NaN(),
			wantErr: true,
			errMsg:  "invalid coordinates",
		},
		{
			name:    "Infinity x coordinate",
			x:       math.Inf(1),
			y:       0,
			wantErr: true,
			errMsg:  "invalid coordinates",
		},
		{
			name:    "Negative infinity y coordinate",
			x:       0,
			y:       math.Inf(-1),
			wantErr: true,
			errMsg:  "invalid coordinates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := NewPosition(tt.x, tt.y)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.x, pos.X)
				assert.Equal(t, tt.y, pos.Y)
			}
		})
	}
}
