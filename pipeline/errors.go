package pipeline

import "errors"

var (
	// ErrCompleterRequired is returned when a completion collaborator is not provided.
	ErrCompleterRequired = errors.New("completer required")

	// ErrEmbedderRequired is returned when an embedding collaborator is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrExtractorRequired is returned when a text-extraction collaborator is not provided.
	ErrExtractorRequired = errors.New("extractor required")

	// ErrDictionaryRequired is returned when a spell dictionary is not provided.
	ErrDictionaryRequired = errors.New("spell dictionary required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
