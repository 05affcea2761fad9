package server

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/hestia-ml/hestia/internal/model"
	"github.com/hestia-ml/hestia/internal/store"
	"github.com/hestia-ml/hestia/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleRoot returns basic service information
func (s *Server) handleRoot(c *gin.Context) {
	bundle, loaded := s.registry.Bundle()

	info := gin.H{
		"message":            "Housing Price Prediction API",
		"model_loaded":       loaded,
		"features_available": model.AllFeatures,
		"endpoints": gin.H{
			"health":        "/health",
			"predict":       "/predict",
			"batch_predict": "/predict/batch",
			"model_info":    "/model/info",
			"metrics":       "/metrics",
			"monitoring":    "/monitoring/stats",
			"drift":         "/monitoring/drift",
			"reload":        "/admin/reload",
		},
	}
	if loaded {
		info["model_version"] = bundle.Meta.ModelVersion
		info["features_used_by_model"] = bundle.Schema.Selected
	}

	c.JSON(http.StatusOK, info)
}

// handleHealth combines model load state with monitor-derived health
func (s *Server) handleHealth(c *gin.Context) {
	health := s.monitor.HealthStatus()

	resp := HealthResponse{
		Status:           health.Status,
		UptimeSeconds:    health.UptimeSeconds,
		TotalPredictions: health.TotalPredictions,
		Warnings:         health.Warnings,
	}

	if bundle, ok := s.registry.Bundle(); ok {
		resp.ModelLoaded = true
		resp.ModelName = bundle.Meta.ModelName
		resp.ModelVersion = bundle.Meta.ModelVersion
		resp.ModelStage = bundle.Meta.Stage
	} else {
		resp.Status = "unhealthy"
	}

	c.JSON(http.StatusOK, resp)
}

// handlePredict serves a single prediction
func (s *Server) handlePredict(c *gin.Context) {
	bundle, ok := s.requireBundle(c)
	if !ok {
		return
	}

	var input PredictionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		metrics.PredictionsServed.WithLabelValues("error").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	features := input.FeatureMap()

	start := time.Now()
	prediction := bundle.Predict(features)
	elapsed := time.Since(start)
	inferenceMs := float64(elapsed.Nanoseconds()) / 1e6

	s.recordPrediction(bundle, features, prediction, inferenceMs)

	metrics.PredictionsServed.WithLabelValues("ok").Inc()
	metrics.InferenceLatency.Observe(elapsed.Seconds())

	s.logger.Info("prediction served",
		zap.Float64("prediction", prediction),
		zap.Float64("inference_ms", inferenceMs),
		zap.String("model_version", bundle.Meta.ModelVersion),
	)

	c.JSON(http.StatusOK, PredictionOutput{
		Prediction:      prediction,
		ModelName:       bundle.Meta.ModelName,
		ModelVersion:    "v" + bundle.Meta.ModelVersion,
		ModelStage:      bundle.Meta.Stage,
		InferenceTimeMs: inferenceMs,
		FeaturesUsed:    bundle.Schema.Selected,
	})
}

// handlePredictBatch serves predictions for a list of records, reporting
// per-record failures without failing the batch
func (s *Server) handlePredictBatch(c *gin.Context) {
	bundle, ok := s.requireBundle(c)
	if !ok {
		return
	}

	var batch BatchPredictionInput
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	start := time.Now()
	items := make([]BatchItem, 0, len(batch.Data))

	for idx, record := range batch.Data {
		if err := validateBatchRecord(record); err != nil {
			metrics.PredictionsServed.WithLabelValues("error").Inc()
			items = append(items, BatchItem{Index: idx, Error: err.Error()})
			continue
		}

		predStart := time.Now()
		prediction := bundle.Predict(record)
		predElapsed := time.Since(predStart)
		predMs := float64(predElapsed.Nanoseconds()) / 1e6

		s.recordPrediction(bundle, record, prediction, predMs)

		metrics.PredictionsServed.WithLabelValues("ok").Inc()
		metrics.InferenceLatency.Observe(predElapsed.Seconds())

		p := prediction
		items = append(items, BatchItem{
			Index:           idx,
			Prediction:      &p,
			InferenceTimeMs: predMs,
		})
	}

	totalMs := float64(time.Since(start).Nanoseconds()) / 1e6
	avgMs := 0.0
	if len(batch.Data) > 0 {
		avgMs = totalMs / float64(len(batch.Data))
	}

	s.logger.Info("batch prediction served",
		zap.Int("count", len(items)),
		zap.Float64("total_ms", totalMs),
	)

	c.JSON(http.StatusOK, BatchPredictionOutput{
		Predictions:          items,
		Count:                len(items),
		ModelVersion:         "v" + bundle.Meta.ModelVersion,
		TotalInferenceTimeMs: totalMs,
		AvgInferenceTimeMs:   avgMs,
	})
}

// recordPrediction feeds the monitor and the prediction store, each subject
// to its configuration toggle
func (s *Server) recordPrediction(bundle *model.Bundle, features map[string]float64, prediction, inferenceMs float64) {
	if s.cfg.Monitoring.Enabled {
		s.monitor.LogPrediction(features, prediction, inferenceMs)
	}

	if s.store == nil {
		return
	}
	rec := store.Record{
		Input:           features,
		Prediction:      prediction,
		ModelName:       bundle.Meta.ModelName,
		ModelVersion:    bundle.Meta.ModelVersion,
		ModelStage:      bundle.Meta.Stage,
		InferenceTimeMs: inferenceMs,
		FeaturesUsed:    bundle.Schema.Selected,
	}
	if err := s.store.Save(rec); err != nil {
		s.logger.Error("failed to persist prediction record", zap.Error(err))
	}
}

// handleModelInfo returns information about the loaded model
func (s *Server) handleModelInfo(c *gin.Context) {
	bundle, ok := s.requireBundle(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ModelInfoResponse{
		ModelName:    bundle.Meta.ModelName,
		ModelVersion: bundle.Meta.ModelVersion,
		ModelStage:   bundle.Meta.Stage,
		ModelType:    bundle.Meta.ModelType,
		Features:     bundle.Schema.Selected,
		NFeatures:    len(bundle.Schema.Selected),
		Metrics:      bundle.Meta.Metrics,
	})
}

// handleProductionModelInfo returns the full production bundle view
func (s *Server) handleProductionModelInfo(c *gin.Context) {
	bundle, ok := s.requireBundle(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ProductionModelInfo{
		ModelInfoResponse: ModelInfoResponse{
			ModelName:    bundle.Meta.ModelName,
			ModelVersion: bundle.Meta.ModelVersion,
			ModelStage:   bundle.Meta.Stage,
			ModelType:    bundle.Meta.ModelType,
			Features:     bundle.Schema.Selected,
			NFeatures:    len(bundle.Schema.Selected),
			Metrics:      bundle.Meta.Metrics,
		},
		AllFeatures:      bundle.Schema.All,
		TrainedAt:        bundle.Meta.TrainedAt,
		RegisteredAt:     bundle.Meta.RegisteredAt,
		ModelPath:        bundle.Dir,
		DeploymentDate:   bundle.LoadedAt.Format(time.RFC3339),
		UptimeHours:      s.monitor.UptimeSeconds() / 3600,
		TotalPredictions: s.monitor.TotalPredictions(),
	})
}

// handleMetrics returns the monitor's metrics view
func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.Metrics())
}

// handleMonitoringStats returns the detailed monitoring view
func (s *Server) handleMonitoringStats(c *gin.Context) {
	if _, ok := s.requireBundle(c); !ok {
		return
	}
	c.JSON(http.StatusOK, s.monitor.DetailedStats())
}

// handleDetectDrift runs the drift check against the configured baseline
func (s *Server) handleDetectDrift(c *gin.Context) {
	if _, ok := s.requireBundle(c); !ok {
		return
	}

	threshold := s.cfg.Monitoring.DriftThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be a positive number"})
			return
		}
		threshold = parsed
	}

	report := s.monitor.DetectDrift(threshold)

	if report.DriftScore != nil {
		metrics.DriftScore.Set(*report.DriftScore)
	}
	if report.DriftDetected {
		metrics.DriftDetected.Set(1)
	} else {
		metrics.DriftDetected.Set(0)
	}

	resp := gin.H{
		"drift_detected":      report.DriftDetected,
		"baseline_configured": report.BaselineConfigured,
		"drift_score":         report.DriftScore,
		"current_mean":        report.CurrentMean,
		"baseline_mean":       report.BaselineMean,
		"baseline_std":        report.BaselineStd,
		"threshold":           threshold,
	}
	if !report.BaselineConfigured {
		resp["recommendation"] = "Configure baseline with POST /monitoring/baseline"
	}

	c.JSON(http.StatusOK, resp)
}

// handleSetBaseline freezes the monitor's current windows as the drift
// baseline
func (s *Server) handleSetBaseline(c *gin.Context) {
	if _, ok := s.requireBundle(c); !ok {
		return
	}

	summary, err := s.monitor.SnapshotBaseline()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no predictions available to set baseline"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":              "baseline configured successfully",
		"baseline_predictions": summary.Predictions,
		"baseline_mean":        summary.Mean,
		"baseline_std":         summary.Std,
		"features_tracked":     summary.FeaturesTracked,
	})
}

// handleFeatureStats returns per-feature aggregates with drift annotations
func (s *Server) handleFeatureStats(c *gin.Context) {
	if _, ok := s.requireBundle(c); !ok {
		return
	}

	stats := s.monitor.FeatureStats()
	c.JSON(http.StatusOK, gin.H{
		"features_tracked":    len(stats),
		"statistics":          stats,
		"baseline_configured": s.monitor.BaselineConfigured(),
	})
}

// handleReloadModel reloads the production bundle without a restart
func (s *Server) handleReloadModel(c *gin.Context) {
	if err := s.registry.Reload(); err != nil {
		s.logger.Error("model reload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reload failed", "details": err.Error()})
		return
	}

	bundle, _ := s.registry.Bundle()
	metrics.ModelLoaded.WithLabelValues(bundle.Meta.ModelVersion).Set(1)

	c.JSON(http.StatusOK, gin.H{
		"message":        "model reloaded successfully",
		"model_version":  bundle.Meta.ModelVersion,
		"features_count": len(bundle.Schema.Selected),
		"metrics":        bundle.Meta.Metrics,
	})
}

// handleResetMonitoring clears monitoring windows and counters; the drift
// baseline is preserved
func (s *Server) handleResetMonitoring(c *gin.Context) {
	s.monitor.Reset()
	s.logger.Info("monitoring statistics reset")
	c.JSON(http.StatusOK, gin.H{
		"message":            "monitoring statistics reset",
		"baseline_preserved": s.monitor.BaselineConfigured(),
	})
}
