package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sagedoc/docchat/ai"
	"github.com/sagedoc/docchat/core"
	"github.com/sagedoc/docchat/engine"
	"github.com/sagedoc/docchat/spell"
)

// Query refinement step names.
const (
	stepSpellCheck = "spell_check_query"
	stepDecompose  = "decompose_query"
	stepHypotheses = "identify_hypotheses"
	stepImprove    = "improve_query"
)

// Refine turns a raw user query into a spell-checked, decomposed,
// hypothesis-annotated, improved form. The stage chain is strictly linear;
// a stage finding its predecessor's output missing fails rather than skips.
type Refine struct {
	dictionary spell.Dictionary
	completer  ai.Completer
	retry      Retry
	logger     *slog.Logger
}

// RefineOption configures a Refine pipeline.
type RefineOption func(*Refine) error

// WithRefineRetry sets the collaborator retry policy.
func WithRefineRetry(retry Retry) RefineOption {
	return func(p *Refine) error {
		if retry.MaxAttempts > 0 {
			p.retry = retry
		}
		return nil
	}
}

// WithRefineLogger sets a custom logger.
// Default is slog.Default().
func WithRefineLogger(logger *slog.Logger) RefineOption {
	return func(p *Refine) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewRefine creates a new query refinement pipeline.
func NewRefine(dictionary spell.Dictionary, completer ai.Completer, opts ...RefineOption) (*Refine, error) {
	if dictionary == nil {
		return nil, ErrDictionaryRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	p := &Refine{
		dictionary: dictionary,
		completer:  completer,
		retry:      DefaultRetry(),
		logger:     slog.Default().With("component", "refine-pipeline"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Run executes the pipeline for one query.
func (p *Refine) Run(ctx context.Context, query string) (*QueryState, error) {
	state := &QueryState{Query: query}

	stages := map[string]engine.Stage[*QueryState]{
		stepSpellCheck: p.spellCheck,
		stepDecompose:  p.decompose,
		stepHypotheses: p.identifyHypotheses,
		stepImprove:    p.improve,
	}

	err := engine.Run(ctx, state, stages, routeQuery)
	return state, err
}

// routeQuery walks the stage chain by field presence. List fields route on
// nil, not emptiness: an empty decomposition is "produced", and the next
// stage turns it into the fatal empty-input error the contract requires.
func routeQuery(s *QueryState) string {
	if s.Query == "" {
		return engine.Terminal
	}
	switch {
	case s.SpellChecked == "":
		return stepSpellCheck
	case s.SubQueries == nil:
		return stepDecompose
	case s.Hypotheses == nil:
		return stepHypotheses
	case s.Improved == "":
		return stepImprove
	default:
		return engine.Terminal
	}
}

// spellCheck replaces dictionary-unknown tokens with their top correction,
// then runs the corrected sentence through a completion grammar pass.
func (p *Refine) spellCheck(ctx context.Context, s *QueryState) error {
	if s.Query == "" {
		return fmt.Errorf("%w: no query provided", core.ErrEmptyInput)
	}

	p.logger.Debug("spell checking query", "length", len(s.Query))

	tokens := strings.Fields(s.Query)
	unknown := make(map[string]bool)
	for _, token := range p.dictionary.Unknown(tokens) {
		unknown[token] = true
	}

	corrected := make([]string, len(tokens))
	for i, token := range tokens {
		if unknown[token] {
			corrected[i] = p.dictionary.Correct(token)
		} else {
			corrected[i] = token
		}
	}

	prompt, err := grammarPrompt.Format(map[string]any{
		"query": strings.Join(corrected, " "),
	})
	if err != nil {
		return err
	}

	checked, err := complete(ctx, p.completer, p.retry, prompt)
	if err != nil {
		return err
	}

	s.SpellChecked = checked
	return nil
}

// decompose splits the spell-checked query into sub-queries, one per
// non-empty response line. No further validation of count or content.
func (p *Refine) decompose(ctx context.Context, s *QueryState) error {
	if s.SpellChecked == "" {
		return fmt.Errorf("%w: no spell-checked query available", core.ErrEmptyInput)
	}

	prompt, err := decompositionPrompt.Format(map[string]any{"query": s.SpellChecked})
	if err != nil {
		return err
	}

	response, err := complete(ctx, p.completer, p.retry, prompt)
	if err != nil {
		return err
	}

	s.SubQueries = splitLines(response)
	return nil
}

// identifyHypotheses elicits the hypotheses behind the query and its
// decomposition, with the same line-splitting discipline.
func (p *Refine) identifyHypotheses(ctx context.Context, s *QueryState) error {
	if len(s.SubQueries) == 0 {
		return fmt.Errorf("%w: no decomposed queries available", core.ErrEmptyInput)
	}

	prompt, err := hypothesisPrompt.Format(map[string]any{
		"query":       s.SpellChecked,
		"sub_queries": strings.Join(s.SubQueries, "\n"),
	})
	if err != nil {
		return err
	}

	response, err := complete(ctx, p.completer, p.retry, prompt)
	if err != nil {
		return err
	}

	s.Hypotheses = splitLines(response)
	return nil
}

// improve folds the original query, sub-queries, and hypotheses into one
// improved-query string.
func (p *Refine) improve(ctx context.Context, s *QueryState) error {
	if len(s.Hypotheses) == 0 {
		return fmt.Errorf("%w: no hypotheses available", core.ErrEmptyInput)
	}

	prompt, err := improvementPrompt.Format(map[string]any{
		"query":       s.SpellChecked,
		"sub_queries": strings.Join(s.SubQueries, "\n"),
		"hypotheses":  strings.Join(s.Hypotheses, "\n"),
	})
	if err != nil {
		return err
	}

	improved, err := complete(ctx, p.completer, p.retry, prompt)
	if err != nil {
		return err
	}

	s.Improved = improved
	return nil
}

// splitLines trims each response line and drops the empty ones. The result
// is non-nil even when every line is blank.
func splitLines(response string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(response, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
