package model

import "fmt"

// StandardScaler standardizes a feature vector with per-position mean and
// scale parameters exported from training.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Validate checks the parameter arrays against the expected width.
func (s *StandardScaler) Validate(width int) error {
	if len(s.Mean) != width || len(s.Scale) != width {
		return fmt.Errorf("model: scaler expects %d features, has mean=%d scale=%d",
			width, len(s.Mean), len(s.Scale))
	}
	for i, sc := range s.Scale {
		if sc == 0 {
			return fmt.Errorf("model: scaler has zero scale at position %d", i)
		}
	}
	return nil
}

// Transform returns the standardized copy of vec.
func (s *StandardScaler) Transform(vec []float64) []float64 {
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out
}
