// Package encoder turns customer records into fixed-length feature vectors
// using a fitted one-hot dictionary vocabulary.
package encoder

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/churn/internal/domain"
	"github.com/kailas-cloud/churn/internal/domain/customer"
)

// DefaultSeparator joins a categorical field name and its value in a feature name.
const DefaultSeparator = "="

// Vocabulary is the fitted encoder state.
type Vocabulary struct {
	FeatureNames   []string
	Separator      string
	RequiredFields []string
}

// Encoder is an immutable one-hot vectorizer. Safe for concurrent use.
type Encoder struct {
	names     []string
	index     map[string]int
	separator string

	// numeric and categorical record which role each source field plays.
	numeric     map[string]bool
	categorical map[string]bool
	required    []string
}

// New validates the vocabulary and builds an Encoder.
func New(v Vocabulary) (*Encoder, error) {
	if len(v.FeatureNames) == 0 {
		return nil, fmt.Errorf("%w: empty feature vocabulary", domain.ErrArtifactInvalid)
	}
	sep := v.Separator
	if sep == "" {
		sep = DefaultSeparator
	}

	e := &Encoder{
		names:       make([]string, len(v.FeatureNames)),
		index:       make(map[string]int, len(v.FeatureNames)),
		separator:   sep,
		numeric:     make(map[string]bool),
		categorical: make(map[string]bool),
		required:    append([]string(nil), v.RequiredFields...),
	}
	copy(e.names, v.FeatureNames)

	for i, name := range v.FeatureNames {
		if name == "" {
			return nil, fmt.Errorf("%w: empty feature name at column %d", domain.ErrArtifactInvalid, i)
		}
		if _, dup := e.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate feature %q", domain.ErrArtifactInvalid, name)
		}
		e.index[name] = i

		if field, _, ok := strings.Cut(name, sep); ok {
			e.categorical[field] = true
		} else {
			e.numeric[name] = true
		}
	}
	return e, nil
}

// Transform encodes one record. Unknown fields and unseen categories are
// ignored; missing fields leave their columns at zero unless required.
func (e *Encoder) Transform(rec customer.Record) ([]float64, error) {
	for _, f := range e.required {
		if _, ok := rec[f]; !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrMissingField, f)
		}
	}

	x := make([]float64, len(e.names))
	for _, field := range rec.Keys() {
		val := rec[field]
		switch val.Kind() {
		case customer.String:
			if e.numeric[field] && !e.categorical[field] {
				return nil, fmt.Errorf("%w: field %q expects a number, got %s",
					domain.ErrIncompatibleValue, field, val)
			}
			if i, ok := e.index[field+e.separator+val.Str()]; ok {
				x[i] = 1
			}
		case customer.Integer, customer.Float:
			if e.categorical[field] && !e.numeric[field] {
				return nil, fmt.Errorf("%w: field %q expects a category, got %s",
					domain.ErrIncompatibleValue, field, val)
			}
			if i, ok := e.index[field]; ok {
				x[i] = val.Number()
			}
		default:
			return nil, fmt.Errorf("%w: field %q has no value", domain.ErrIncompatibleValue, field)
		}
	}
	return x, nil
}

// FeatureNames returns a copy of the vocabulary in column order.
func (e *Encoder) FeatureNames() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Len returns the feature vector length.
func (e *Encoder) Len() int { return len(e.names) }
