// Package classifier holds fitted probabilistic classifiers.
package classifier

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/churn/internal/domain"
)

// Logistic is a fitted binary logistic regression. Safe for concurrent use.
type Logistic struct {
	coef      []float64
	intercept float64
}

// NewLogistic copies the fitted weights.
func NewLogistic(coef []float64, intercept float64) (*Logistic, error) {
	if len(coef) == 0 {
		return nil, fmt.Errorf("%w: no coefficients", domain.ErrArtifactInvalid)
	}
	for i, c := range coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: coefficient %d is not finite", domain.ErrArtifactInvalid, i)
		}
	}
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, fmt.Errorf("%w: intercept is not finite", domain.ErrArtifactInvalid)
	}
	c := make([]float64, len(coef))
	copy(c, coef)
	return &Logistic{coef: c, intercept: intercept}, nil
}

// PredictProba returns the positive-class probability for one feature vector.
func (l *Logistic) PredictProba(x []float64) (float64, error) {
	if len(x) != len(l.coef) {
		return 0, fmt.Errorf("%w: got %d features, model expects %d",
			domain.ErrInferenceFailed, len(x), len(l.coef))
	}

	z := l.intercept
	for i, w := range l.coef {
		z += w * x[i]
	}
	if math.IsNaN(z) {
		return 0, fmt.Errorf("%w: decision function is NaN", domain.ErrInferenceFailed)
	}
	return sigmoid(z), nil
}

// Len returns the number of features the model expects.
func (l *Logistic) Len() int { return len(l.coef) }

// sigmoid avoids overflow in exp for large |z|.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
