package monitoring

import "math"

// PredictionBaseline is the stored reference {mean, std} for the prediction
// series.
type PredictionBaseline struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// FeatureBaseline is the stored reference summary for one input feature.
type FeatureBaseline struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// BaselineRegistry holds the reference statistical snapshot used for drift
// comparison. A baseline is set explicitly by an operator action and is never
// updated by prediction logging; each Set call replaces the prior snapshot
// wholesale.
type BaselineRegistry struct {
	prediction *PredictionBaseline
	features   map[string]FeatureBaseline
}

// NewBaselineRegistry creates an unconfigured registry.
func NewBaselineRegistry() *BaselineRegistry {
	return &BaselineRegistry{}
}

// Set computes and stores the baseline from the given prediction values and
// optional per-feature value sequences. An empty predictions slice leaves the
// prediction baseline unset; empty feature slices are skipped individually.
func (b *BaselineRegistry) Set(predictions []float64, features map[string][]float64) {
	b.prediction = nil
	b.features = nil

	if len(predictions) > 0 {
		mean, std := summarize(predictions)
		b.prediction = &PredictionBaseline{Mean: mean, Std: std}
	}

	if len(features) > 0 {
		b.features = make(map[string]FeatureBaseline, len(features))
		for name, values := range features {
			if len(values) == 0 {
				continue
			}
			mean, std := summarize(values)
			min, max := values[0], values[0]
			for _, v := range values[1:] {
				if v < min {
					min = v
				}
				if v > max {
					max = v
				}
			}
			b.features[name] = FeatureBaseline{Mean: mean, Std: std, Min: min, Max: max}
		}
	}
}

// Configured reports whether a prediction baseline has been set from
// non-empty data.
func (b *BaselineRegistry) Configured() bool {
	return b.prediction != nil
}

// Prediction returns the prediction baseline, if set.
func (b *BaselineRegistry) Prediction() (PredictionBaseline, bool) {
	if b.prediction == nil {
		return PredictionBaseline{}, false
	}
	return *b.prediction, true
}

// Feature returns the baseline for the named feature, if set.
func (b *BaselineRegistry) Feature(name string) (FeatureBaseline, bool) {
	fb, ok := b.features[name]
	return fb, ok
}

// FeatureCount returns the number of features with a baseline.
func (b *BaselineRegistry) FeatureCount() int {
	return len(b.features)
}

// summarize returns the mean and population standard deviation of values.
// Callers guarantee len(values) > 0.
func summarize(values []float64) (mean, std float64) {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	std = math.Sqrt(ss / float64(len(values)))
	return mean, std
}
