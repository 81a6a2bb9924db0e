package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/churn/internal/domain"
	"github.com/kailas-cloud/churn/internal/domain/customer"
	"github.com/kailas-cloud/churn/internal/domain/prediction"
	healthuc "github.com/kailas-cloud/churn/internal/usecase/health"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest      = "bad_request"
	CodeEncodingFailed  = "encoding_failed"
	CodeInferenceFailed = "inference_failed"
	CodeInternalError   = "internal_error"
)

// DefaultMaxBodyBytes caps the request body when no limit is configured.
const DefaultMaxBodyBytes = 1 << 20

// Predictor scores one customer record.
type Predictor interface {
	Predict(ctx context.Context, rec customer.Record) (prediction.Result, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// PredictResponse is the body of a successful POST /predict.
type PredictResponse struct {
	ChurnProbability float64 `json:"churn_probability"`
	Churn            bool    `json:"churn"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the prediction API.
type Server struct {
	predictor     Predictor
	health        HealthChecker
	logger        *zap.Logger
	maxBodyBytes  int64
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(predictor Predictor, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{
		predictor:    predictor,
		health:       health,
		logger:       logger,
		maxBodyBytes: DefaultMaxBodyBytes,
		errorHandlers: []errorHandler{
			sentinelHandler(domain.ErrMalformedRecord, http.StatusBadRequest, CodeBadRequest),
			sentinelHandler(domain.ErrIncompatibleValue, http.StatusInternalServerError, CodeEncodingFailed),
			sentinelHandler(domain.ErrMissingField, http.StatusInternalServerError, CodeEncodingFailed),
			sentinelHandler(domain.ErrInferenceFailed, http.StatusInternalServerError, CodeInferenceFailed),
		},
	}
}

// WithMaxBodyBytes overrides the request body limit.
func (s *Server) WithMaxBodyBytes(n int64) *Server {
	if n > 0 {
		s.maxBodyBytes = n
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/predict", s.Predict)
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// Predict handles POST /predict.
func (s *Server) Predict(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	rec, err := customer.DecodeRecord(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeBadRequest, "request body too large")
			return
		}
		s.handleDomainError(w, err)
		return
	}

	res, err := s.predictor.Predict(r.Context(), rec)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PredictResponse{
		ChurnProbability: res.Probability(),
		Churn:            res.Churn(),
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{Status: string(report.Status), Checks: checks})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// The sentinel text is the only message exposed to the client.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := sentinel.Error()
		if status < http.StatusInternalServerError {
			msg = err.Error()
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Warn("prediction rejected", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
