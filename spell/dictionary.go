// Package spell defines the spell-dictionary collaborator contract used by
// query refinement, with an implementation backed by a fuzzy-match model
// trained on a caller-supplied corpus.
package spell

import (
	"strings"

	"github.com/sajari/fuzzy"
)

// Dictionary is the spell-check collaborator: it flags unknown tokens and
// proposes a best-guess correction per token.
type Dictionary interface {
	// Unknown returns the subset of tokens the dictionary does not recognize.
	Unknown(tokens []string) []string

	// Correct returns the best-guess correction for a token. Tokens without
	// a usable correction come back unchanged.
	Correct(token string) string
}

// ModelDictionary implements Dictionary with a sajari/fuzzy spelling model.
// Known-word membership is tracked separately from the model because the
// model only answers correction queries.
type ModelDictionary struct {
	model *fuzzy.Model
	known map[string]bool
}

var _ Dictionary = (*ModelDictionary)(nil)

// NewModelDictionary trains a dictionary on the given corpus texts. The
// corpus is typically the document the queries will be asked against, so
// domain terms are not flagged as misspellings.
func NewModelDictionary(corpus []string) *ModelDictionary {
	model := fuzzy.NewModel()
	model.SetThreshold(1)
	model.SetDepth(2)

	known := make(map[string]bool)
	var words []string
	for _, text := range corpus {
		for _, token := range strings.Fields(text) {
			word := normalize(token)
			if word == "" || known[word] {
				continue
			}
			known[word] = true
			words = append(words, word)
		}
	}
	model.Train(words)

	return &ModelDictionary{
		model: model,
		known: known,
	}
}

// Unknown returns the tokens whose normalized form is not in the dictionary.
func (d *ModelDictionary) Unknown(tokens []string) []string {
	var unknown []string
	for _, token := range tokens {
		word := normalize(token)
		if word != "" && !d.known[word] {
			unknown = append(unknown, token)
		}
	}
	return unknown
}

// Correct returns the model's suggestion for the token, preserving the
// token unchanged when the model has nothing better.
func (d *ModelDictionary) Correct(token string) string {
	word := normalize(token)
	if word == "" || d.known[word] {
		return token
	}
	suggestion := d.model.SpellCheck(word)
	if suggestion == "" || suggestion == word {
		return token
	}
	return suggestion
}

// normalize lowercases a token and trims surrounding punctuation.
func normalize(token string) string {
	return strings.ToLower(strings.Trim(token, ".,!?;:'\"()[]{}"))
}
