package chi

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/churn/internal/artifact"
	"github.com/kailas-cloud/churn/internal/domain"
	"github.com/kailas-cloud/churn/internal/domain/customer"
	"github.com/kailas-cloud/churn/internal/domain/prediction"
	healthuc "github.com/kailas-cloud/churn/internal/usecase/health"
	predictuc "github.com/kailas-cloud/churn/internal/usecase/predict"
)

const referenceCustomer = `{
  "customerid": "8879-zkjof", "gender": "female", "seniorcitizen": 0,
  "partner": "no", "dependents": "no", "tenure": 41, "phoneservice": "yes",
  "multiplelines": "no", "internetservice": "dsl", "onlinesecurity": "yes",
  "onlinebackup": "no", "deviceprotection": "yes", "techsupport": "yes",
  "streamingtv": "yes", "streamingmovies": "yes", "contract": "one_year",
  "paperlessbilling": "yes", "paymentmethod": "bank_transfer_(automatic)",
  "monthlycharges": 79.85, "totalcharges": 3320.75
}`

// --- Mocks ---

type stubPredictor struct {
	res     prediction.Result
	err     error
	explode bool
}

func (s *stubPredictor) Predict(_ context.Context, _ customer.Record) (prediction.Result, error) {
	if s.explode {
		panic("classifier exploded")
	}
	return s.res, s.err
}

type stubHealth struct {
	report healthuc.Report
}

func (s *stubHealth) Check(_ context.Context) healthuc.Report { return s.report }

func healthy() *stubHealth {
	return &stubHealth{report: healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{"model": healthuc.CheckOK},
	}}
}

func bundledRouter(t *testing.T) http.Handler {
	t.Helper()
	a, err := artifact.Load("../../../models/churn-model.json")
	if err != nil {
		t.Fatalf("load artifact: %v", err)
	}
	svc := predictuc.New(a.Encoder(), a.Classifier())
	return NewRouter(NewServer(svc, healthuc.New(a), zap.NewNop()), zap.NewNop())
}

func stubRouter(p Predictor) http.Handler {
	return NewRouter(NewServer(p, healthy(), zap.NewNop()), zap.NewNop())
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e
}

// --- Tests ---

func TestPredict_ReferenceCustomer(t *testing.T) {
	rr := post(bundledRouter(t), referenceCustomer)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 2 {
		t.Errorf("expected exactly two keys, got %v", body)
	}
	p, ok := body["churn_probability"].(float64)
	if !ok {
		t.Fatalf("churn_probability is not a number: %v", body["churn_probability"])
	}
	churn, ok := body["churn"].(bool)
	if !ok {
		t.Fatalf("churn is not a boolean: %v", body["churn"])
	}
	if p < 0 || p > 1 {
		t.Errorf("probability %v out of [0, 1]", p)
	}
	if churn != (p >= 0.5) {
		t.Errorf("churn = %v inconsistent with probability %v", churn, p)
	}
	if math.Abs(p-0.04041208745076139) > 1e-9 {
		t.Errorf("probability = %v, want ~0.0404", p)
	}
}

func TestPredict_Deterministic(t *testing.T) {
	h := bundledRouter(t)

	first := post(h, referenceCustomer).Body.String()
	for i := 0; i < 5; i++ {
		if got := post(h, referenceCustomer).Body.String(); got != first {
			t.Fatalf("response %d differs: %s vs %s", i, got, first)
		}
	}
}

func TestPredict_MissingFieldsStillPredict(t *testing.T) {
	rr := post(bundledRouter(t), `{"contract": "two_year"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
}

func TestPredict_MalformedBodies(t *testing.T) {
	h := bundledRouter(t)
	bodies := map[string]string{
		"empty":        "",
		"plain text":   "customer please",
		"array":        `[1, 2, 3]`,
		"string":       `"one_year"`,
		"nested":       `{"contract": {"kind": "one_year"}}`,
		"null field":   `{"tenure": null}`,
		"broken json":  `{"tenure": 41,`,
		"two objects":  `{} {}`,
		"json literal": `true`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			rr := post(h, body)
			if rr.Code < 400 || rr.Code >= 500 {
				t.Fatalf("status = %d, want 4xx", rr.Code)
			}
			if e := decodeError(t, rr); e.Code != CodeBadRequest {
				t.Errorf("code = %q, want %q", e.Code, CodeBadRequest)
			}
		})
	}
}

func TestPredict_IncompatibleValueIs5xx(t *testing.T) {
	rr := post(bundledRouter(t), `{"tenure": "forty-one"}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	e := decodeError(t, rr)
	if e.Code != CodeEncodingFailed {
		t.Errorf("code = %q, want %q", e.Code, CodeEncodingFailed)
	}
	if e.Message != domain.ErrIncompatibleValue.Error() {
		t.Errorf("message = %q leaks internals", e.Message)
	}
}

func TestPredict_BodyTooLarge(t *testing.T) {
	a, err := artifact.Load("../../../models/churn-model.json")
	if err != nil {
		t.Fatalf("load artifact: %v", err)
	}
	srv := NewServer(predictuc.New(a.Encoder(), a.Classifier()), healthy(), zap.NewNop()).WithMaxBodyBytes(64)
	h := NewRouter(srv, zap.NewNop())

	rr := post(h, referenceCustomer)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rr.Code)
	}
}

func TestPredict_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing field", domain.ErrMissingField, http.StatusInternalServerError, CodeEncodingFailed},
		{"inference", domain.ErrInferenceFailed, http.StatusInternalServerError, CodeInferenceFailed},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(stubRouter(&stubPredictor{err: tt.err}), `{}`)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			e := decodeError(t, rr)
			if e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
			if strings.Contains(e.Message, "disk on fire") {
				t.Error("internal error message leaked to client")
			}
		})
	}
}

func TestPredict_PanicRecovered(t *testing.T) {
	h := stubRouter(&stubPredictor{explode: true})

	rr := post(h, `{}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != CodeInternalError {
		t.Errorf("code = %q, want %q", e.Code, CodeInternalError)
	}

	// The router keeps serving after a panic.
	req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("health after panic = %d", rr.Code)
	}
}

func TestPredict_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/predict", http.NoBody)
	rr := httptest.NewRecorder()
	stubRouter(&stubPredictor{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rr.Code)
	}
}

func TestPredict_RequestIDEchoed(t *testing.T) {
	res, _ := prediction.New(0.2)
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{}`))
	req.Header.Set("X-Request-Id", "abc-123")
	rr := httptest.NewRecorder()
	stubRouter(&stubPredictor{res: res}).ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		health *stubHealth
		status int
		want   string
	}{
		{"healthy", healthy(), http.StatusOK, "ok"},
		{"degraded", &stubHealth{report: healthuc.Report{
			Status: healthuc.Degraded,
			Checks: map[string]healthuc.CheckResult{"model": healthuc.CheckError},
		}}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(NewServer(&stubPredictor{}, tt.health, zap.NewNop()), zap.NewNop())
			req := httptest.NewRequest(http.MethodGet, "/health", http.NoBody)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			var body HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tt.want {
				t.Errorf("status field = %q, want %q", body.Status, tt.want)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := bundledRouter(t)
	_ = post(h, referenceCustomer)

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "churn_http_requests_total") {
		t.Error("expected churn_http_requests_total in metrics output")
	}
}
