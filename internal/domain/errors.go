package domain

import "errors"

var (
	// ErrEmptyDocumentID signals an upsert with an empty document id.
	ErrEmptyDocumentID = errors.New("document id is required")
	// ErrEmptyDocumentText signals an upsert with empty document text.
	ErrEmptyDocumentText = errors.New("document text is required")
	// ErrInvalidDimensions signals an embedding dimension that is not a power of two.
	ErrInvalidDimensions = errors.New("dimensions must be a power of two")
)
