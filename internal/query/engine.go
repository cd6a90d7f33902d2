// Package query applies jq expressions to input documents before inference.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// Engine executes jq expressions against JSON documents.
type Engine struct{}

// NewEngine creates a new query engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Selection is the result of applying an expression to a set of documents.
// Every value the expression produced becomes one document, in input order.
type Selection struct {
	Documents      [][]byte `json:"-"`
	Errors         []string `json:"errors,omitempty"`          // Per-document runtime errors
	MatchedIndices []int    `json:"matched_indices,omitempty"` // Inputs that produced at least one value
}

// Select runs expression over every document. Runtime errors are collected
// per document rather than aborting; a malformed expression or input fails
// the whole selection. maxResults <= 0 means unlimited.
func (e *Engine) Select(ctx context.Context, docs [][]byte, expression string, maxResults int) (*Selection, error) {
	code, err := e.compile(expression)
	if err != nil {
		return nil, err
	}

	sel := &Selection{Documents: make([][]byte, 0, len(docs))}
	seenErrors := make(map[string]bool)

	for i, data := range docs {
		if maxResults > 0 && len(sel.Documents) >= maxResults {
			break
		}

		var input any
		if err := json.Unmarshal(data, &input); err != nil {
			return nil, fmt.Errorf("document %d: invalid JSON: %w", i, err)
		}

		label := fmt.Sprintf("document[%d]", i)
		matched := false
		iter := code.RunWithContext(ctx, input)
		for {
			if maxResults > 0 && len(sel.Documents) >= maxResults {
				break
			}
			v, ok := iter.Next()
			if !ok {
				break
			}
			if err, isErr := v.(error); isErr {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil, err
				}
				msg := formatJQError(label, err)
				if !seenErrors[msg] {
					sel.Errors = append(sel.Errors, msg)
					seenErrors[msg] = true
				}
				continue
			}

			out, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("%s: encode result: %w", label, err)
			}
			sel.Documents = append(sel.Documents, out)
			matched = true
		}
		if matched {
			sel.MatchedIndices = append(sel.MatchedIndices, i)
		}
	}

	return sel, nil
}

// ValidateExpression checks if a jq expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	_, err := e.compile(expression)
	return err
}

func (e *Engine) compile(expression string) (*gojq.Code, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return code, nil
}

// formatJQError creates a helpful error message for jq execution errors.
//
// Runtime errors (like "cannot iterate over: null") are plain errors without
// typed wrappers in gojq, so hints are chosen by string matching. Only the
// display message depends on it.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return fmt.Sprintf("%s: query halted", label)
		}
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this document)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}
