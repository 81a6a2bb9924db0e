package domain

import "errors"

var (
	// ErrMalformedRecord signals a request body that is not a flat JSON object.
	ErrMalformedRecord = errors.New("malformed customer record")
	// ErrIncompatibleValue signals a field value whose type the encoder cannot accept.
	ErrIncompatibleValue = errors.New("incompatible field value")
	// ErrMissingField signals a required field absent from the record.
	ErrMissingField = errors.New("missing required field")
	// ErrInferenceFailed signals a classifier failure.
	ErrInferenceFailed = errors.New("inference failed")
	// ErrArtifactInvalid signals an unreadable or incompatible model artifact.
	ErrArtifactInvalid = errors.New("invalid model artifact")
)
