// Package stats fits the trend lines drawn over the episode plots.
package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrTooFewPoints   = errors.New("linear fit needs at least two points")
	ErrLengthMismatch = errors.New("x and y have different lengths")
	ErrDegenerate     = errors.New("x values are all equal")
)

// Model is y = Slope*x + Intercept.
type Model struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

func (m Model) Predict(x float64) float64 {
	return m.Slope*x + m.Intercept
}

// LinearFit computes the first-degree least-squares fit of y over x.
func LinearFit(x, y []float64) (Model, error) {
	if len(x) != len(y) {
		return Model{}, ErrLengthMismatch
	}
	if len(x) < 2 {
		return Model{}, ErrTooFewPoints
	}
	if stat.Variance(x, nil) == 0 {
		return Model{}, ErrDegenerate
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(slope) || math.IsNaN(intercept) {
		return Model{}, ErrDegenerate
	}

	return Model{Slope: slope, Intercept: intercept}, nil
}
