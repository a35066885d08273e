// Package mock provides test doubles for the ai interfaces.
//
// The mocks default to deterministic behavior (hash-derived embeddings,
// numbered completion responses) and support behavior injection through
// public function fields, plus call-count assertions.
package mock
