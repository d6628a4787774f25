package generation

import "errors"

var (
	// ErrGeneration wraps any failure of the completion backend.
	ErrGeneration = errors.New("generation failed")
	// ErrContentExtraction indicates the page behind a URL could not be read.
	ErrContentExtraction = errors.New("content extraction failed")
)
