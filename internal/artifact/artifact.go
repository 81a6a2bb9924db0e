// Package artifact loads the persisted (encoder, classifier) pair.
package artifact

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/churn/internal/classifier"
	"github.com/kailas-cloud/churn/internal/domain"
	"github.com/kailas-cloud/churn/internal/encoder"
)

// Format identifiers accepted by Load.
const (
	FormatName    = "churn-artifact"
	FormatVersion = 1

	KindLogisticRegression = "logistic_regression"
)

// Artifact is the loaded, read-only model pair.
type Artifact struct {
	name       string
	checksum   string
	encoder    *encoder.Encoder
	classifier *classifier.Logistic
}

type fileDTO struct {
	Format        string        `json:"format"`
	FormatVersion int           `json:"format_version"`
	Name          string        `json:"name"`
	Vectorizer    vectorizerDTO `json:"vectorizer"`
	Model         modelDTO      `json:"model"`
}

type vectorizerDTO struct {
	FeatureNames   []string `json:"feature_names"`
	Separator      string   `json:"separator"`
	RequiredFields []string `json:"required_fields"`
}

type modelDTO struct {
	Kind      string    `json:"kind"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// Load reads and validates the artifact at path.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrArtifactInvalid, path, err)
	}
	a, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return a, nil
}

// Parse decodes artifact bytes.
func Parse(data []byte) (*Artifact, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var dto fileDTO
	if err := dec.Decode(&dto); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", domain.ErrArtifactInvalid, err)
	}
	if dto.Format != FormatName {
		return nil, fmt.Errorf("%w: unknown format %q", domain.ErrArtifactInvalid, dto.Format)
	}
	if dto.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d (want %d)",
			domain.ErrArtifactInvalid, dto.FormatVersion, FormatVersion)
	}
	if dto.Model.Kind != KindLogisticRegression {
		return nil, fmt.Errorf("%w: unsupported model kind %q", domain.ErrArtifactInvalid, dto.Model.Kind)
	}

	enc, err := encoder.New(encoder.Vocabulary{
		FeatureNames:   dto.Vectorizer.FeatureNames,
		Separator:      dto.Vectorizer.Separator,
		RequiredFields: dto.Vectorizer.RequiredFields,
	})
	if err != nil {
		return nil, fmt.Errorf("build encoder: %w", err)
	}
	clf, err := classifier.NewLogistic(dto.Model.Coef, dto.Model.Intercept)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}
	if enc.Len() != clf.Len() {
		return nil, fmt.Errorf("%w: encoder has %d features, model has %d coefficients",
			domain.ErrArtifactInvalid, enc.Len(), clf.Len())
	}

	sum := sha256.Sum256(data)
	return &Artifact{
		name:       dto.Name,
		checksum:   hex.EncodeToString(sum[:]),
		encoder:    enc,
		classifier: clf,
	}, nil
}

// Name returns the artifact name recorded by the exporter.
func (a *Artifact) Name() string { return a.name }

// Checksum returns the sha256 of the artifact file.
func (a *Artifact) Checksum() string { return a.checksum }

// Encoder returns the fitted encoder.
func (a *Artifact) Encoder() *encoder.Encoder { return a.encoder }

// Classifier returns the fitted classifier.
func (a *Artifact) Classifier() *classifier.Logistic { return a.classifier }

// FeatureCount returns the feature vector length.
func (a *Artifact) FeatureCount() int { return a.encoder.Len() }

// HealthCheck verifies the pair is still consistent.
func (a *Artifact) HealthCheck() error {
	if a == nil || a.encoder == nil || a.classifier == nil {
		return fmt.Errorf("%w: not loaded", domain.ErrArtifactInvalid)
	}
	if a.encoder.Len() != a.classifier.Len() {
		return fmt.Errorf("%w: feature count mismatch", domain.ErrArtifactInvalid)
	}
	return nil
}
