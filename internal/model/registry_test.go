package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// writeTestBundle lays out a loadable bundle directory: identity scaler over
// the full 13-feature schema and a single-split ensemble over RM and LSTAT.
func writeTestBundle(t *testing.T, dir string, meta Metadata) {
	t.Helper()

	writeJSON(t, filepath.Join(dir, "metadata.json"), meta)

	width := len(AllFeatures)
	scaler := StandardScaler{
		Mean:  make([]float64, width),
		Scale: make([]float64, width),
	}
	for i := range scaler.Scale {
		scaler.Scale[i] = 1
	}
	writeJSON(t, filepath.Join(dir, "scaler.json"), scaler)

	booster := Booster{
		BaseScore: 20,
		Trees: []Tree{
			{Nodes: []TreeNode{
				{Feature: 0, Threshold: 6.5, Left: 1, Right: 2},
				{Left: -1, Value: -3},
				{Left: -1, Value: 5},
			}},
		},
	}
	writeJSON(t, filepath.Join(dir, "model.json"), booster)
}

func TestLoadBundle(t *testing.T) {
	t.Run("LoadsAndDefaults", func(t *testing.T) {
		dir := t.TempDir()
		writeTestBundle(t, dir, Metadata{
			ModelName: "housing_model",
			ModelType: "xgboost",
			Features:  []string{"RM", "LSTAT"},
		})

		bundle, err := LoadBundle(dir)
		require.NoError(t, err)
		assert.Equal(t, "housing_model", bundle.Meta.ModelName)
		assert.Equal(t, "unknown", bundle.Meta.ModelVersion)
		assert.Equal(t, "Production", bundle.Meta.Stage)
		assert.Equal(t, []string{"RM", "LSTAT"}, bundle.Schema.Selected)
		assert.Equal(t, dir, bundle.Dir)
		assert.False(t, bundle.LoadedAt.IsZero())
	})

	t.Run("PredictEndToEnd", func(t *testing.T) {
		dir := t.TempDir()
		writeTestBundle(t, dir, Metadata{
			ModelName: "housing_model",
			Features:  []string{"RM", "LSTAT"},
		})

		bundle, err := LoadBundle(dir)
		require.NoError(t, err)

		// Identity scaler, so the split sees RM directly.
		assert.Equal(t, 17.0, bundle.Predict(map[string]float64{"RM": 5.0, "LSTAT": 12.0}))
		assert.Equal(t, 25.0, bundle.Predict(map[string]float64{"RM": 8.0, "LSTAT": 12.0}))
	})

	t.Run("MissingMetadata", func(t *testing.T) {
		_, err := LoadBundle(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "metadata")
	})

	t.Run("UnknownSelectedFeature", func(t *testing.T) {
		dir := t.TempDir()
		writeTestBundle(t, dir, Metadata{
			ModelName: "housing_model",
			Features:  []string{"RM", "NOPE"},
		})

		_, err := LoadBundle(dir)
		assert.Error(t, err)
	})

	t.Run("CorruptScaler", func(t *testing.T) {
		dir := t.TempDir()
		writeTestBundle(t, dir, Metadata{ModelName: "m", Features: []string{"RM"}})
		require.NoError(t, os.WriteFile(filepath.Join(dir, "scaler.json"), []byte("{"), 0o644))

		_, err := LoadBundle(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scaler")
	})
}

func TestRegistry(t *testing.T) {
	t.Run("EmptyUntilLoad", func(t *testing.T) {
		r := NewRegistry(t.TempDir(), zaptest.NewLogger(t))
		_, ok := r.Bundle()
		assert.False(t, ok)
	})

	t.Run("LoadAndReload", func(t *testing.T) {
		dir := t.TempDir()
		writeTestBundle(t, dir, Metadata{
			ModelName:    "housing_model",
			ModelVersion: "1",
			Features:     []string{"RM", "LSTAT"},
		})

		r := NewRegistry(dir, zaptest.NewLogger(t))
		require.NoError(t, r.Load())

		bundle, ok := r.Bundle()
		require.True(t, ok)
		assert.Equal(t, "1", bundle.Meta.ModelVersion)

		// Re-register a new version in place and hot reload.
		writeTestBundle(t, dir, Metadata{
			ModelName:    "housing_model",
			ModelVersion: "2",
			Features:     []string{"RM", "LSTAT"},
		})
		require.NoError(t, r.Reload())

		bundle, ok = r.Bundle()
		require.True(t, ok)
		assert.Equal(t, "2", bundle.Meta.ModelVersion)
	})

	t.Run("FailedReloadKeepsActiveBundle", func(t *testing.T) {
		dir := t.TempDir()
		writeTestBundle(t, dir, Metadata{
			ModelName:    "housing_model",
			ModelVersion: "1",
			Features:     []string{"RM", "LSTAT"},
		})

		r := NewRegistry(dir, zaptest.NewLogger(t))
		require.NoError(t, r.Load())

		require.NoError(t, os.Remove(filepath.Join(dir, "model.json")))
		assert.Error(t, r.Reload())

		bundle, ok := r.Bundle()
		require.True(t, ok)
		assert.Equal(t, "1", bundle.Meta.ModelVersion)
	})
}
