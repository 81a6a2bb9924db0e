package customer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/kailas-cloud/churn/internal/domain"
)

// Record is one customer: a flat mapping from field name to value.
type Record map[string]Value

// DecodeRecord reads exactly one flat JSON object from r.
func DecodeRecord(r io.Reader) (Record, error) {
	dec := json.NewDecoder(r)

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty body", domain.ErrMalformedRecord)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedRecord, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", domain.ErrMalformedRecord)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", domain.ErrMalformedRecord)
	}

	rec := make(Record, len(raw))
	for k, v := range raw {
		if k == "" {
			return nil, fmt.Errorf("%w: empty field name", domain.ErrMalformedRecord)
		}
		val, err := parseValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		rec[k] = val
	}
	return rec, nil
}

// Keys returns the field names in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
