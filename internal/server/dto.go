package server

import (
	"fmt"
	"math"
)

// PredictionInput is the request body for POST /predict. Field ranges match
// the training data domain; required fields are pointers so a literal zero
// survives binding validation.
type PredictionInput struct {
	CRIM    *float64 `json:"CRIM" binding:"required,gte=0,lte=100"`
	NOX     *float64 `json:"NOX" binding:"required,gte=0.3,lte=1"`
	RM      *float64 `json:"RM" binding:"required,gte=3,lte=9"`
	AGE     *float64 `json:"AGE" binding:"required,gte=0,lte=100"`
	DIS     *float64 `json:"DIS" binding:"required,gte=0.5,lte=12"`
	RAD     *float64 `json:"RAD" binding:"required,gte=1,lte=24"`
	TAX     *float64 `json:"TAX" binding:"required,gte=100,lte=800"`
	PTRATIO *float64 `json:"PTRATIO" binding:"required,gte=10,lte=25"`
	B       *float64 `json:"B" binding:"required,gte=0,lte=400"`
	LSTAT   *float64 `json:"LSTAT" binding:"required,gte=0,lte=40"`

	// Optional inputs the model does not use but the scaler expects.
	ZN    *float64 `json:"ZN" binding:"omitempty,gte=0,lte=100"`
	INDUS *float64 `json:"INDUS" binding:"omitempty,gte=0,lte=30"`
	CHAS  *float64 `json:"CHAS" binding:"omitempty,gte=0,lte=1"`
}

// FeatureMap flattens the input into a feature map, defaulting absent
// optional fields to zero.
func (in *PredictionInput) FeatureMap() map[string]float64 {
	deref := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	return map[string]float64{
		"CRIM":    deref(in.CRIM),
		"ZN":      deref(in.ZN),
		"INDUS":   deref(in.INDUS),
		"CHAS":    deref(in.CHAS),
		"NOX":     deref(in.NOX),
		"RM":      deref(in.RM),
		"AGE":     deref(in.AGE),
		"DIS":     deref(in.DIS),
		"RAD":     deref(in.RAD),
		"TAX":     deref(in.TAX),
		"PTRATIO": deref(in.PTRATIO),
		"B":       deref(in.B),
		"LSTAT":   deref(in.LSTAT),
	}
}

// PredictionOutput is the response for POST /predict.
type PredictionOutput struct {
	Prediction      float64  `json:"prediction"`
	ModelName       string   `json:"model_name"`
	ModelVersion    string   `json:"model_version"`
	ModelStage      string   `json:"model_stage"`
	InferenceTimeMs float64  `json:"inference_time_ms"`
	FeaturesUsed    []string `json:"features_used"`
}

// BatchPredictionInput is the request body for POST /predict/batch. Records
// are free-form feature maps; missing features default to zero as in single
// prediction.
type BatchPredictionInput struct {
	Data []map[string]float64 `json:"data" binding:"required,min=1"`
}

// featureRanges mirrors the binding ranges on PredictionInput for batch
// records, which arrive as free-form maps rather than bound structs.
var featureRanges = map[string][2]float64{
	"CRIM": {0, 100}, "ZN": {0, 100}, "INDUS": {0, 30}, "CHAS": {0, 1},
	"NOX": {0.3, 1}, "RM": {3, 9}, "AGE": {0, 100}, "DIS": {0.5, 12},
	"RAD": {1, 24}, "TAX": {100, 800}, "PTRATIO": {10, 25},
	"B": {0, 400}, "LSTAT": {0, 40},
}

// validateBatchRecord checks one batch record: feature names must be known,
// values finite and within the training data ranges.
func validateBatchRecord(record map[string]float64) error {
	for name, value := range record {
		r, ok := featureRanges[name]
		if !ok {
			return fmt.Errorf("unknown feature %q", name)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("feature %q is not finite", name)
		}
		if value < r[0] || value > r[1] {
			return fmt.Errorf("feature %q out of range [%g, %g]", name, r[0], r[1])
		}
	}
	return nil
}

// BatchItem is one entry of a batch response. Prediction is nil when that
// record failed.
type BatchItem struct {
	Index           int      `json:"index"`
	Prediction      *float64 `json:"prediction"`
	InferenceTimeMs float64  `json:"inference_time_ms,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// BatchPredictionOutput is the response for POST /predict/batch.
type BatchPredictionOutput struct {
	Predictions          []BatchItem `json:"predictions"`
	Count                int         `json:"count"`
	ModelVersion         string      `json:"model_version"`
	TotalInferenceTimeMs float64     `json:"total_inference_time_ms"`
	AvgInferenceTimeMs   float64     `json:"avg_inference_time_ms"`
}

// HealthResponse is the response for GET /health: monitor-derived health
// plus model load state.
type HealthResponse struct {
	Status           string   `json:"status"`
	ModelLoaded      bool     `json:"model_loaded"`
	ModelName        string   `json:"model_name,omitempty"`
	ModelVersion     string   `json:"model_version,omitempty"`
	ModelStage       string   `json:"model_stage,omitempty"`
	UptimeSeconds    float64  `json:"uptime_seconds"`
	TotalPredictions int64    `json:"total_predictions"`
	Warnings         []string `json:"warnings"`
}

// ModelInfoResponse is the response for GET /model/info.
type ModelInfoResponse struct {
	ModelName    string             `json:"model_name"`
	ModelVersion string             `json:"model_version"`
	ModelStage   string             `json:"model_stage"`
	ModelType    string             `json:"model_type"`
	Features     []string           `json:"features"`
	NFeatures    int                `json:"n_features"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

// ProductionModelInfo is the response for GET /model/production-info.
type ProductionModelInfo struct {
	ModelInfoResponse

	AllFeatures      []string `json:"all_features"`
	TrainedAt        string   `json:"trained_at,omitempty"`
	RegisteredAt     string   `json:"registered_at,omitempty"`
	ModelPath        string   `json:"model_path"`
	DeploymentDate   string   `json:"deployment_date"`
	UptimeHours      float64  `json:"uptime_hours"`
	TotalPredictions int64    `json:"total_predictions"`
}
