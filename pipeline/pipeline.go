// Package pipeline wires the full question-to-result flow: threat scan,
// retrieval context, prompt composition, LLM call, extraction, grammar
// validation, and execution.
//
// The flow is synchronous and fail-closed: a request either yields a fully
// validated, fully executed result or a typed error. There are no partial
// or best-effort results. The only suspension point is the LLM call; every
// other stage is a pure transform, so independent requests can run
// concurrently without locking. The security log is the one piece of
// cross-request state and is safe for concurrent appends.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/harendratomar/SQLify/dataset"
	"github.com/harendratomar/SQLify/prompt"
	"github.com/harendratomar/SQLify/query"
	"github.com/harendratomar/SQLify/rag"
	"github.com/harendratomar/SQLify/security"
)

// SecurityError reports threats detected in the question. The request was
// rejected before any LLM call and recorded in the security log.
type SecurityError struct {
	Threats []security.Threat
}

func (e *SecurityError) Error() string {
	kinds := make([]string, len(e.Threats))
	for i, t := range e.Threats {
		kinds[i] = string(t)
	}
	return fmt.Sprintf("security violation: %s", strings.Join(kinds, ", "))
}

// ValidationError reports grammar failures in the generated query text.
// The query was rejected before execution; there is no retry.
type ValidationError struct {
	Errors []query.GrammarError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ge := range e.Errors {
		msgs[i] = ge.Message
	}
	return fmt.Sprintf("invalid generated query: %s", strings.Join(msgs, "; "))
}

// Pipeline holds the collaborators shared across requests.
type Pipeline struct {
	completer prompt.Completer
	log       *security.Log
	logger    *slog.Logger
}

// New creates a pipeline. The security log may be shared with other
// pipelines; the logger defaults to slog.Default when nil.
func New(completer prompt.Completer, log *security.Log, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{completer: completer, log: log, logger: logger}
}

// SecurityLog exposes the audit trail of rejected requests.
func (p *Pipeline) SecurityLog() *security.Log {
	return p.log
}

// GenerateRequest carries everything needed to generate SQL for a question.
// VectorStore may be supplied by the caller; when empty it is built from
// the schema and sample rows.
type GenerateRequest struct {
	Question    string
	TableName   string
	Schema      dataset.Schema
	SampleRows  []dataset.Row
	VectorStore []rag.VectorStoreEntry
}

// GenerateResult is validated query text plus generation metadata.
type GenerateResult struct {
	SQL     string
	RAGUsed bool
}

// GenerateSQL runs the generation half of the pipeline: authoritative
// threat scan, retrieval context, prompt, LLM call, extraction, and grammar
// validation. The returned SQL is safe to hand to the executor.
func (p *Pipeline) GenerateSQL(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if threats := security.Scan(req.Question); len(threats) > 0 {
		entry := p.log.Record(req.Question, threats)
		p.logger.Warn("question rejected by security scan",
			"entry_id", entry.ID, "threats", threats)
		return GenerateResult{}, &SecurityError{Threats: threats}
	}

	entries := req.VectorStore
	if len(entries) == 0 {
		entries = rag.Build(req.Schema, req.SampleRows)
	}
	relevant := rag.Relevant(req.Question, entries)

	composed := prompt.Compose(req.TableName, req.Schema, req.SampleRows, relevant, req.Question)

	completion, err := p.completer.Complete(ctx, composed)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("llm completion failed: %w", err)
	}

	sql := prompt.ExtractSQL(completion)

	if errs := query.Validate(sql); len(errs) > 0 {
		p.logger.Warn("generated query failed validation", "sql", sql, "errors", errs)
		return GenerateResult{}, &ValidationError{Errors: errs}
	}

	p.logger.Info("generated query", "sql", sql, "rag_entries", len(relevant))
	return GenerateResult{SQL: sql, RAGUsed: len(relevant) > 0}, nil
}

// RunResult is the outcome of a full round trip.
type RunResult struct {
	SQL     string
	RAGUsed bool
	Rows    []dataset.Row
}

// Run executes the full round trip against a dataset: generate SQL for the
// question, then execute it over the dataset's rows.
func (p *Pipeline) Run(ctx context.Context, ds *dataset.Dataset, question string) (RunResult, error) {
	generated, err := p.GenerateSQL(ctx, GenerateRequest{
		Question:   question,
		TableName:  ds.Name,
		Schema:     ds.Schema,
		SampleRows: ds.Rows,
	})
	if err != nil {
		return RunResult{}, err
	}

	rows, err := query.Execute(ds, generated.SQL)
	if err != nil {
		return RunResult{}, err
	}

	return RunResult{SQL: generated.SQL, RAGUsed: generated.RAGUsed, Rows: rows}, nil
}
