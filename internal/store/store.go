// Package store persists one JSON record per served prediction for offline
// follow-up. Persistence is best effort: failures are logged by the caller
// and never fail the request.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Record is the persisted form of a served prediction.
type Record struct {
	ID              string             `json:"id"`
	Timestamp       string             `json:"timestamp"`
	Input           map[string]float64 `json:"input"`
	Prediction      float64            `json:"prediction"`
	ModelName       string             `json:"model_name"`
	ModelVersion    string             `json:"model_version"`
	ModelStage      string             `json:"model_stage"`
	InferenceTimeMs float64            `json:"inference_time_ms"`
	FeaturesUsed    []string           `json:"features_used"`
}

// FileStore writes prediction records as individual JSON files under a
// directory, one file per record.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: creating predictions dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the record. The filename carries the timestamp for natural
// ordering and a UUID to avoid collisions within the same instant.
func (s *FileStore) Save(rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp == "" {
		rec.Timestamp = time.Now().Format(time.RFC3339Nano)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encoding record: %w", err)
	}

	name := fmt.Sprintf("prediction_%s_%s.json", time.Now().Format("20060102_150405"), rec.ID)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("store: writing record: %w", err)
	}
	return nil
}
