package prediction

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/churn/internal/domain"
)

// Threshold is the probability at or above which a customer is predicted to churn.
const Threshold = 0.5

// Result is an immutable churn prediction for one customer.
type Result struct {
	probability float64
}

// New validates a positive-class probability and wraps it into a Result.
func New(probability float64) (Result, error) {
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return Result{}, fmt.Errorf("%w: probability %v out of [0, 1]", domain.ErrInferenceFailed, probability)
	}
	return Result{probability: probability}, nil
}

// Probability returns the churn probability.
func (r Result) Probability() float64 { return r.probability }

// Churn reports whether the probability reaches Threshold.
func (r Result) Churn() bool { return r.probability >= Threshold }

// Decision returns "churn" or "stay" (metric label).
func (r Result) Decision() string {
	if r.Churn() {
		return "churn"
	}
	return "stay"
}
