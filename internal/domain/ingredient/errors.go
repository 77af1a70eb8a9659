package ingredient

import "errors"

// Domain errors for catalog ingestion

var (
	ErrMissingID           = errors.New("ingredient id is required")
	ErrMissingName         = errors.New("ingredient name is required")
	ErrNegativePrice       = errors.New("ingredient price cannot be negative")
	ErrInvalidQualityScore = errors.New("quality score must be between 0 and 10")
	ErrEmptyCatalog        = errors.New("catalog has no ingredients")
	ErrDuplicateID         = errors.New("duplicate ingredient id in catalog")
)
