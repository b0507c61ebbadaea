package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearFit_ExactLine(t *testing.T) {
	m, err := LinearFit([]float64{1, 2, 3}, []float64{2, 4, 6})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, m.Slope, 1e-6)
	assert.InDelta(t, 0.0, m.Intercept, 1e-6)
	assert.InDelta(t, 8.0, m.Predict(4), 1e-6)
}

func TestLinearFit_TwoPoints(t *testing.T) {
	m, err := LinearFit([]float64{1, 2}, []float64{600, 720})
	require.NoError(t, err)
	assert.InDelta(t, 120.0, m.Slope, 1e-6)
	assert.InDelta(t, 480.0, m.Intercept, 1e-6)
}

func TestLinearFit_LeastSquares(t *testing.T) {
	// Best fit of (0,1),(1,3),(2,2),(3,4) is y = 0.8x + 1.3.
	m, err := LinearFit([]float64{0, 1, 2, 3}, []float64{1, 3, 2, 4})
	require.NoError(t, err)
	assert.InDelta(t, 0.8, m.Slope, 1e-9)
	assert.InDelta(t, 1.3, m.Intercept, 1e-9)
}

func TestLinearFit_Errors(t *testing.T) {
	_, err := LinearFit([]float64{1}, []float64{1})
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = LinearFit(nil, nil)
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = LinearFit([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = LinearFit([]float64{3, 3, 3}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrDegenerate)
}
