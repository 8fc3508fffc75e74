// Package rules provides the business-rule primitives shared by value objects,
// the master-data validator and the metering point aggregate.
//
// A Rule evaluates one predicate. A Result is the set of violations gathered
// from many rules; it succeeds iff the set is empty. Every validation path in
// the registry returns a Result, so rule sets compose by merging.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Code identifies the kind of a broken rule.
type Code string

// Violation is one broken business rule. Field is empty for rules that do not
// concern a single master-data field.
type Violation struct {
	Code    Code
	Field   string
	Message string
}

func (v Violation) Error() string {
	if v.Field != "" {
		return fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return v.Message
}

// Rule is a predicate over values captured at construction.
type Rule interface {
	IsBroken() bool
	Violation() Violation
}

type check struct {
	broken    bool
	violation Violation
}

func (c check) IsBroken() bool       { return c.broken }
func (c check) Violation() Violation { return c.violation }

// Check adapts an evaluated predicate into a Rule.
func Check(broken bool, v Violation) Rule {
	return check{broken: broken, violation: v}
}

// Result is an immutable set of violations. The zero value is a success.
type Result struct {
	violations []Violation
}

// Success returns an empty result.
func Success() Result { return Result{} }

// Evaluate runs every rule and collects the broken ones.
func Evaluate(rs ...Rule) Result {
	var r Result
	for _, rule := range rs {
		if rule != nil && rule.IsBroken() {
			r = r.with(rule.Violation())
		}
	}
	return r
}

// Of builds a result from violations directly.
func Of(vs ...Violation) Result {
	var r Result
	for _, v := range vs {
		r = r.with(v)
	}
	return r
}

func (r Result) with(v Violation) Result {
	for _, existing := range r.violations {
		if existing == v {
			return r
		}
	}
	out := make([]Violation, len(r.violations), len(r.violations)+1)
	copy(out, r.violations)
	return Result{violations: append(out, v)}
}

// Success reports whether no rule was broken.
func (r Result) Success() bool { return len(r.violations) == 0 }

// Violations returns a copy of the collected violations in first-seen order.
func (r Result) Violations() []Violation {
	if len(r.violations) == 0 {
		return nil
	}
	out := make([]Violation, len(r.violations))
	copy(out, r.violations)
	return out
}

// Len returns the number of distinct violations.
func (r Result) Len() int { return len(r.violations) }

// Has reports whether a violation with code was collected.
func (r Result) Has(code Code) bool {
	return r.Count(code) > 0
}

// HasField reports whether a violation with code was collected for field.
func (r Result) HasField(code Code, field string) bool {
	for _, v := range r.violations {
		if v.Code == code && v.Field == field {
			return true
		}
	}
	return false
}

// Count returns how many violations carry code.
func (r Result) Count(code Code) int {
	n := 0
	for _, v := range r.violations {
		if v.Code == code {
			n++
		}
	}
	return n
}

// Fields returns the fields named by violations with code.
func (r Result) Fields(code Code) []string {
	var fields []string
	for _, v := range r.violations {
		if v.Code == code && v.Field != "" {
			fields = append(fields, v.Field)
		}
	}
	return fields
}

// Merge returns the union of r and others.
func (r Result) Merge(others ...Result) Result {
	out := r
	for _, o := range others {
		for _, v := range o.violations {
			out = out.with(v)
		}
	}
	return out
}

// Err combines the violations into one error, or nil on success.
func (r Result) Err() error {
	var err error
	for _, v := range r.violations {
		err = multierr.Append(err, v)
	}
	return err
}

func (r Result) String() string {
	if r.Success() {
		return "ok"
	}
	parts := make([]string, 0, len(r.violations))
	for _, v := range r.violations {
		parts = append(parts, v.Error())
	}
	return strings.Join(parts, "; ")
}

// RulesBrokenError is returned when an action is attempted although its rules
// are broken. Kind is a sentinel naming the action; errors.Is matches it.
type RulesBrokenError struct {
	Kind   error
	Result Result
}

// Broken wraps a failed result into a *RulesBrokenError.
func Broken(kind error, r Result) error {
	return &RulesBrokenError{Kind: kind, Result: r}
}

func (e *RulesBrokenError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Result)
}

func (e *RulesBrokenError) Unwrap() []error {
	errs := []error{e.Kind}
	for _, v := range e.Result.violations {
		errs = append(errs, v)
	}
	return errs
}

// ResultOf extracts the violations carried by err, if any.
func ResultOf(err error) (Result, bool) {
	var rb *RulesBrokenError
	if errors.As(err, &rb) {
		return rb.Result, true
	}
	return Result{}, false
}
