package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchema(t *testing.T) {
	t.Run("DefaultsWhenEmpty", func(t *testing.T) {
		s, err := NewSchema(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, AllFeatures, s.All)
		assert.Equal(t, DefaultSelectedFeatures, s.Selected)
	})

	t.Run("RejectsUnknownSelection", func(t *testing.T) {
		_, err := NewSchema([]string{"A", "B"}, []string{"A", "C"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"C"`)
	})
}

func TestSchemaVectorize(t *testing.T) {
	s, err := NewSchema([]string{"A", "B", "C"}, []string{"C", "A"})
	require.NoError(t, err)

	t.Run("PositionalOrder", func(t *testing.T) {
		vec := s.Vectorize(map[string]float64{"B": 2, "A": 1, "C": 3})
		assert.Equal(t, []float64{1, 2, 3}, vec)
	})

	t.Run("MissingFeaturesZeroFill", func(t *testing.T) {
		vec := s.Vectorize(map[string]float64{"B": 2})
		assert.Equal(t, []float64{0, 2, 0}, vec)
	})

	t.Run("UnknownKeysIgnored", func(t *testing.T) {
		vec := s.Vectorize(map[string]float64{"A": 1, "X": 99})
		assert.Equal(t, []float64{1, 0, 0}, vec)
	})
}

func TestSchemaSelect(t *testing.T) {
	s, err := NewSchema([]string{"A", "B", "C"}, []string{"C", "A"})
	require.NoError(t, err)

	// Selection order follows the model's declared order, not the scaler's.
	assert.Equal(t, []float64{30, 10}, s.Select([]float64{10, 20, 30}))
}

func TestDefaultSelectedFeaturesSubset(t *testing.T) {
	_, err := NewSchema(AllFeatures, DefaultSelectedFeatures)
	assert.NoError(t, err)
}
