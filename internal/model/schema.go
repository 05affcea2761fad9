package model

import "fmt"

// AllFeatures is the full ordered input schema the scaler was fitted on.
// The order matters: scaler parameters are positional.
var AllFeatures = []string{
	"CRIM", "ZN", "INDUS", "CHAS", "NOX", "RM", "AGE",
	"DIS", "RAD", "TAX", "PTRATIO", "B", "LSTAT",
}

// DefaultSelectedFeatures is the model feature subset used when the bundle
// metadata does not declare one.
var DefaultSelectedFeatures = []string{
	"CRIM", "NOX", "RM", "AGE", "DIS", "RAD", "TAX", "PTRATIO", "B", "LSTAT",
}

// Schema pairs the full scaler input order with the subset of features the
// trained model consumes.
type Schema struct {
	All      []string
	Selected []string

	selectedIdx []int // positions of Selected within All
}

// NewSchema builds a schema, validating that every selected feature exists in
// the full input order.
func NewSchema(all, selected []string) (*Schema, error) {
	if len(all) == 0 {
		all = AllFeatures
	}
	if len(selected) == 0 {
		selected = DefaultSelectedFeatures
	}

	pos := make(map[string]int, len(all))
	for i, name := range all {
		pos[name] = i
	}

	idx := make([]int, len(selected))
	for i, name := range selected {
		p, ok := pos[name]
		if !ok {
			return nil, fmt.Errorf("model: selected feature %q not in input schema", name)
		}
		idx[i] = p
	}

	return &Schema{All: all, Selected: selected, selectedIdx: idx}, nil
}

// Vectorize arranges the input map into the scaler's positional order.
// Missing features default to zero; the serving layer validates required
// fields before this point.
func (s *Schema) Vectorize(input map[string]float64) []float64 {
	vec := make([]float64, len(s.All))
	for i, name := range s.All {
		vec[i] = input[name]
	}
	return vec
}

// Select extracts the model's feature subset from a full scaled vector.
func (s *Schema) Select(scaled []float64) []float64 {
	out := make([]float64, len(s.selectedIdx))
	for i, p := range s.selectedIdx {
		out[i] = scaled[p]
	}
	return out
}
