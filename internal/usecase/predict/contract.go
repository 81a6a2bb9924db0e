package predict

import "github.com/kailas-cloud/churn/internal/domain/customer"

// Encoder turns a customer record into a feature vector.
type Encoder interface {
	Transform(rec customer.Record) ([]float64, error)
}

// Classifier returns the positive-class probability for a feature vector.
type Classifier interface {
	PredictProba(x []float64) (float64, error)
}
