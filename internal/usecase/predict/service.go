package predict

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/churn/internal/domain/customer"
	"github.com/kailas-cloud/churn/internal/domain/prediction"
	logpkg "github.com/kailas-cloud/churn/internal/logger"
	"github.com/kailas-cloud/churn/internal/metrics"
)

// Service scores single customer records against a loaded model.
// Encoder and classifier are read-only, so Predict is safe for concurrent use.
type Service struct {
	enc Encoder
	clf Classifier
}

// New creates a prediction service.
func New(enc Encoder, clf Classifier) *Service {
	return &Service{enc: enc, clf: clf}
}

// Predict encodes the record, queries the classifier and thresholds the result.
func (s *Service) Predict(ctx context.Context, rec customer.Record) (prediction.Result, error) {
	start := time.Now()

	x, err := s.enc.Transform(rec)
	if err != nil {
		metrics.PredictionErrorsTotal.WithLabelValues("encode").Inc()
		return prediction.Result{}, fmt.Errorf("encode: %w", err)
	}

	p, err := s.clf.PredictProba(x)
	if err != nil {
		metrics.PredictionErrorsTotal.WithLabelValues("classify").Inc()
		return prediction.Result{}, fmt.Errorf("classify: %w", err)
	}

	res, err := prediction.New(p)
	if err != nil {
		metrics.PredictionErrorsTotal.WithLabelValues("classify").Inc()
		return prediction.Result{}, fmt.Errorf("classify: %w", err)
	}

	metrics.PredictionsTotal.WithLabelValues(res.Decision()).Inc()
	metrics.PredictionProbability.Observe(res.Probability())

	logpkg.FromContext(ctx).Debug("prediction",
		zap.Int("fields", len(rec)),
		zap.Float64("churn_probability", res.Probability()),
		zap.Bool("churn", res.Churn()),
		zap.Duration("duration", time.Since(start)),
	)

	return res, nil
}
