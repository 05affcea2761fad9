package monitoring

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrNoPredictions is returned when a baseline snapshot is requested before
// any prediction has been logged.
var ErrNoPredictions = errors.New("monitoring: no predictions available")

// Monitor tracks served predictions, inference latencies, and input feature
// values over bounded rolling windows, and compares the live prediction
// distribution against an operator-set baseline.
//
// The feature schema is fixed at construction from the model's declared
// feature list; values for unknown feature names are not tracked. One
// RWMutex guards all state: LogPrediction, SetBaseline, SnapshotBaseline,
// and Reset take exclusive access, all reads take shared access.
type Monitor struct {
	mu sync.RWMutex

	capacity       int
	startTime      time.Time
	totalCount     int64
	lastPrediction time.Time

	predictions    *RollingWindow
	inferenceTimes *RollingWindow
	features       map[string]*RollingWindow
	featureNames   []string

	baseline *BaselineRegistry

	logger *zap.Logger
}

// NewMonitor creates a monitor with empty windows and no baseline. The
// featureNames fix which input features are tracked.
func NewMonitor(capacity int, featureNames []string, logger *zap.Logger) *Monitor {
	if capacity <= 0 {
		capacity = 1000
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	features := make(map[string]*RollingWindow, len(featureNames))
	names := make([]string, 0, len(featureNames))
	for _, name := range featureNames {
		if _, dup := features[name]; dup {
			continue
		}
		features[name] = NewRollingWindow(capacity)
		names = append(names, name)
	}

	return &Monitor{
		capacity:       capacity,
		startTime:      time.Now(),
		predictions:    NewRollingWindow(capacity),
		inferenceTimes: NewRollingWindow(capacity),
		features:       features,
		featureNames:   names,
		baseline:       NewBaselineRegistry(),
		logger:         logger,
	}
}

// LogPrediction records one served prediction. Feature names outside the
// schema are ignored.
func (m *Monitor) LogPrediction(features map[string]float64, prediction, inferenceMs float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCount++
	m.predictions.Push(prediction)
	m.inferenceTimes.Push(inferenceMs)
	for name, value := range features {
		if w, ok := m.features[name]; ok {
			w.Push(value)
		}
	}
	m.lastPrediction = time.Now()
}

// TotalPredictions returns the lifetime prediction counter.
func (m *Monitor) TotalPredictions() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalCount
}

// UptimeSeconds returns seconds since the monitor was constructed.
func (m *Monitor) UptimeSeconds() float64 {
	return time.Since(m.startTime).Seconds()
}

// Metrics returns the current monitoring metrics. Counter and uptime fields
// are always present; prediction and latency aggregates are present only when
// the corresponding window holds data.
func (m *Monitor) Metrics() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uptime := time.Since(m.startTime).Seconds()
	uptimeHours := uptime / 3600

	perHour := 0.0
	if uptimeHours > 0 {
		perHour = float64(m.totalCount) / uptimeHours
	}

	metrics := map[string]any{
		"total_predictions":    m.totalCount,
		"uptime_seconds":       uptime,
		"uptime_hours":         uptimeHours,
		"predictions_per_hour": perHour,
	}

	if m.predictions.Len() > 0 {
		mean, _ := m.predictions.Mean()
		std, _ := m.predictions.Std()
		min, _ := m.predictions.Min()
		max, _ := m.predictions.Max()
		median, _ := m.predictions.Median()
		metrics["avg_prediction"] = mean
		metrics["std_prediction"] = std
		metrics["min_prediction"] = min
		metrics["max_prediction"] = max
		metrics["median_prediction"] = median
	}

	if m.inferenceTimes.Len() > 0 {
		mean, _ := m.inferenceTimes.Mean()
		p50, _ := m.inferenceTimes.Percentile(50)
		p95, _ := m.inferenceTimes.Percentile(95)
		p99, _ := m.inferenceTimes.Percentile(99)
		max, _ := m.inferenceTimes.Max()
		metrics["avg_inference_time_ms"] = mean
		metrics["p50_inference_time_ms"] = p50
		metrics["p95_inference_time_ms"] = p95
		metrics["p99_inference_time_ms"] = p99
		metrics["max_inference_time_ms"] = max
	}

	return metrics
}

// DetailedStats is the rich monitoring view behind /monitoring/stats.
type DetailedStats struct {
	TotalPredictions   int64              `json:"total_predictions"`
	UptimeHours        float64            `json:"uptime_hours"`
	PredictionsPerHour float64            `json:"predictions_per_hour"`
	PredictionStats    map[string]float64 `json:"prediction_stats"`
	InferenceStats     map[string]float64 `json:"inference_stats"`
	RecentPredictions  []float64          `json:"recent_predictions"`
	LastPredictionTime string             `json:"last_prediction_time,omitempty"`
}

// DetailedStats returns prediction and latency aggregates, the recent
// prediction tail, and the last prediction timestamp.
func (m *Monitor) DetailedStats() DetailedStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uptimeHours := time.Since(m.startTime).Hours()
	perHour := 0.0
	if uptimeHours > 0 {
		perHour = float64(m.totalCount) / uptimeHours
	}

	stats := DetailedStats{
		TotalPredictions:   m.totalCount,
		UptimeHours:        uptimeHours,
		PredictionsPerHour: perHour,
		PredictionStats:    map[string]float64{},
		InferenceStats:     map[string]float64{},
		RecentPredictions:  m.predictions.Tail(10),
	}

	if m.predictions.Len() > 0 {
		mean, _ := m.predictions.Mean()
		std, _ := m.predictions.Std()
		min, _ := m.predictions.Min()
		max, _ := m.predictions.Max()
		median, _ := m.predictions.Median()
		q25, _ := m.predictions.Percentile(25)
		q75, _ := m.predictions.Percentile(75)
		stats.PredictionStats = map[string]float64{
			"mean":   mean,
			"std":    std,
			"min":    min,
			"max":    max,
			"median": median,
			"q25":    q25,
			"q75":    q75,
		}
	}

	if m.inferenceTimes.Len() > 0 {
		mean, _ := m.inferenceTimes.Mean()
		median, _ := m.inferenceTimes.Median()
		p50, _ := m.inferenceTimes.Percentile(50)
		p95, _ := m.inferenceTimes.Percentile(95)
		p99, _ := m.inferenceTimes.Percentile(99)
		max, _ := m.inferenceTimes.Max()
		stats.InferenceStats = map[string]float64{
			"mean_ms":   mean,
			"median_ms": median,
			"p50_ms":    p50,
			"p95_ms":    p95,
			"p99_ms":    p99,
			"max_ms":    max,
		}
	}

	if !m.lastPrediction.IsZero() {
		stats.LastPredictionTime = m.lastPrediction.Format(time.RFC3339)
	}

	return stats
}

// DriftReport is the outcome of a drift check on the prediction series.
// Score fields are nil when no predictions have been logged, the baseline is
// unconfigured, or the baseline standard deviation is zero.
type DriftReport struct {
	DriftDetected      bool     `json:"drift_detected"`
	BaselineConfigured bool     `json:"baseline_configured"`
	DriftScore         *float64 `json:"drift_score"`
	CurrentMean        *float64 `json:"current_mean"`
	BaselineMean       *float64 `json:"baseline_mean"`
	BaselineStd        *float64 `json:"baseline_std"`
}

// DetectDrift compares the current prediction-window mean against the
// baseline. threshold <= 0 selects DefaultDriftThreshold.
func (m *Monitor) DetectDrift(threshold float64) DriftReport {
	if threshold <= 0 {
		threshold = DefaultDriftThreshold
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	report := DriftReport{}

	baseline, configured := m.baseline.Prediction()
	report.BaselineConfigured = configured
	if !configured || m.predictions.Len() == 0 {
		return report
	}

	currentMean, _ := m.predictions.Mean()
	report.CurrentMean = &currentMean
	report.BaselineMean = &baseline.Mean
	report.BaselineStd = &baseline.Std

	if score, ok := DriftScore(currentMean, baseline.Mean, baseline.Std); ok {
		report.DriftScore = &score
		report.DriftDetected = DriftExceeds(score, threshold)
	}

	return report
}

// SetBaseline replaces the drift baseline with statistics computed from the
// given prediction values and optional per-feature sequences.
func (m *Monitor) SetBaseline(predictions []float64, features map[string][]float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseline.Set(predictions, features)
}

// BaselineSummary describes a freshly captured baseline.
type BaselineSummary struct {
	Predictions     int     `json:"baseline_predictions"`
	Mean            float64 `json:"baseline_mean"`
	Std             float64 `json:"baseline_std"`
	FeaturesTracked int     `json:"features_tracked"`
}

// SnapshotBaseline freezes the monitor's own current windows as the drift
// baseline. It fails when the prediction window is empty.
func (m *Monitor) SnapshotBaseline() (BaselineSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.predictions.Len() == 0 {
		return BaselineSummary{}, ErrNoPredictions
	}

	features := make(map[string][]float64, len(m.features))
	for name, w := range m.features {
		if w.Len() > 0 {
			features[name] = w.Values()
		}
	}

	m.baseline.Set(m.predictions.Values(), features)

	pb, _ := m.baseline.Prediction()
	summary := BaselineSummary{
		Predictions:     m.predictions.Len(),
		Mean:            pb.Mean,
		Std:             pb.Std,
		FeaturesTracked: m.baseline.FeatureCount(),
	}

	m.logger.Info("drift baseline configured",
		zap.Int("predictions", summary.Predictions),
		zap.Float64("mean", summary.Mean),
		zap.Float64("std", summary.Std),
		zap.Int("features", summary.FeaturesTracked),
	)

	return summary, nil
}

// BaselineConfigured reports whether a prediction baseline exists.
func (m *Monitor) BaselineConfigured() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.baseline.Configured()
}

// FeatureStat is the current aggregate for one tracked feature, annotated
// with drift fields when that feature has a baseline.
type FeatureStat struct {
	Mean          float64  `json:"mean"`
	Std           float64  `json:"std"`
	Min           float64  `json:"min"`
	Max           float64  `json:"max"`
	DriftScore    *float64 `json:"drift_score,omitempty"`
	DriftDetected *bool    `json:"drift_detected,omitempty"`
}

// FeatureStats returns current aggregates for every tracked feature that has
// observed at least one value.
func (m *Monitor) FeatureStats() map[string]FeatureStat {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]FeatureStat, len(m.features))
	for _, name := range m.featureNames {
		w := m.features[name]
		if w.Len() == 0 {
			continue
		}
		mean, _ := w.Mean()
		std, _ := w.Std()
		min, _ := w.Min()
		max, _ := w.Max()
		stat := FeatureStat{Mean: mean, Std: std, Min: min, Max: max}

		if fb, ok := m.baseline.Feature(name); ok {
			detected := false
			if score, scoreOK := DriftScore(mean, fb.Mean, fb.Std); scoreOK {
				stat.DriftScore = &score
				detected = DriftExceeds(score, DefaultDriftThreshold)
			}
			stat.DriftDetected = &detected
		}

		out[name] = stat
	}
	return out
}

// Health status values.
const (
	StatusHealthy  = "healthy"
	StatusWarning  = "warning"
	StatusDegraded = "degraded"
)

// Health is the monitor's view of service health.
type Health struct {
	Status           string   `json:"status"`
	UptimeSeconds    float64  `json:"uptime_seconds"`
	UptimeHours      float64  `json:"uptime_hours"`
	TotalPredictions int64    `json:"total_predictions"`
	Warnings         []string `json:"warnings"`
	Timestamp        string   `json:"timestamp"`
}

// HealthStatus derives service health from the current windows: mean
// inference latency above one second degrades the service, and near-zero
// prediction variance suggests a stuck model. A fresh monitor is healthy.
func (m *Monitor) HealthStatus() Health {
	m.mu.RLock()
	defer m.mu.RUnlock()

	uptime := time.Since(m.startTime).Seconds()
	health := Health{
		Status:           StatusHealthy,
		UptimeSeconds:    uptime,
		UptimeHours:      uptime / 3600,
		TotalPredictions: m.totalCount,
		Warnings:         []string{},
		Timestamp:        time.Now().Format(time.RFC3339),
	}

	if m.inferenceTimes.Len() > 0 {
		if mean, err := m.inferenceTimes.Mean(); err == nil && mean > 1000 {
			health.Status = StatusDegraded
			health.Warnings = append(health.Warnings, "high average inference time detected")
		}
	}

	if m.predictions.Len() > 0 {
		if std, err := m.predictions.Std(); err == nil && std < 0.01 {
			if health.Status == StatusHealthy {
				health.Status = StatusWarning
			}
			health.Warnings = append(health.Warnings, "low prediction variance - model might be stuck")
		}
	}

	return health
}

// Reset clears windows, counters, and the last-prediction timestamp. The
// baseline is preserved: it represents an operator decision and survives a
// statistics reset.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCount = 0
	m.lastPrediction = time.Time{}
	m.predictions.Clear()
	m.inferenceTimes.Clear()
	for _, w := range m.features {
		w.Clear()
	}
}
