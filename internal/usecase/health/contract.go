package health

// ModelChecker verifies the loaded model artifact.
type ModelChecker interface {
	HealthCheck() error
}
