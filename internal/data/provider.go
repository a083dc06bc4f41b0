// Package data provides quote snapshot providers feeding the index engine.
//
// Providers return flat raw quote records; normalization (date parsing,
// chain grouping, invariant checks) belongs to the engine. A provider may
// chain to a secondary provider used as fallback when it has nothing for
// the requested range.
package data

import (
	"errors"
	"fmt"
	"time"

	"github.com/Knetic/govaluate"

	"github.com/contactkeval/vol-index/internal/index"
)

// ErrFilterNotBoolean reports a row-filter expression that evaluated to a
// non-boolean value.
var ErrFilterNotBoolean = errors.New("row filter expression must evaluate to a boolean")

// Provider supplies raw option quote snapshots.
type Provider interface {
	// Secondary returns the fallback provider, if any.
	Secondary() Provider

	// LoadQuotes returns every raw quote with trade dates in [from, to].
	LoadQuotes(from, to time.Time) ([]index.RawQuote, error)
}

// RowFilter evaluates a configurable expression against each raw quote,
// e.g. "bid >= 0.05 && strike > 1000". Quote fields are exposed as the
// parameters strike, bid, ask, mid, type, trade_date and expiration. A nil
// or empty filter keeps everything.
type RowFilter struct {
	expr *govaluate.EvaluableExpression
}

// NewRowFilter compiles a filter expression. An empty expression yields a
// filter that keeps every row.
func NewRowFilter(expression string) (*RowFilter, error) {
	if expression == "" {
		return &RowFilter{}, nil
	}
	expr, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return nil, fmt.Errorf("compile row filter %q: %w", expression, err)
	}
	return &RowFilter{expr: expr}, nil
}

// Keep reports whether the quote passes the filter.
func (f *RowFilter) Keep(q index.RawQuote) (bool, error) {
	if f == nil || f.expr == nil {
		return true, nil
	}
	result, err := f.expr.Evaluate(map[string]interface{}{
		"strike":     q.Strike,
		"bid":        q.Bid,
		"ask":        q.Ask,
		"mid":        (q.Bid + q.Ask) / 2,
		"type":       q.Type,
		"trade_date": q.TradeDate,
		"expiration": q.Expiration,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate row filter: %w", err)
	}
	keep, ok := result.(bool)
	if !ok {
		return false, ErrFilterNotBoolean
	}
	return keep, nil
}

// applyFilter runs the filter over a record batch.
func applyFilter(f *RowFilter, raws []index.RawQuote) ([]index.RawQuote, error) {
	if f == nil || f.expr == nil {
		return raws, nil
	}
	out := make([]index.RawQuote, 0, len(raws))
	for _, raw := range raws {
		keep, err := f.Keep(raw)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, raw)
		}
	}
	return out, nil
}
