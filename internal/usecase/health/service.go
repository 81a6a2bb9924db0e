package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates a failing component.
	Degraded Status = "degraded"
)

// CheckResult is a single component outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service runs health checks.
type Service struct {
	model ModelChecker
}

// New creates a Service. A nil model reports as an error.
func New(model ModelChecker) *Service {
	return &Service{model: model}
}

// Check runs all component checks.
func (s *Service) Check(_ context.Context) Report {
	checks := map[string]CheckResult{"model": CheckOK}
	if s.model == nil || s.model.HealthCheck() != nil {
		checks["model"] = CheckError
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	return Report{Status: status, Checks: checks}
}
