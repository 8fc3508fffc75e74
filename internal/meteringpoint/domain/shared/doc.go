// Package shared holds the value objects of the metering point context.
//
// Every value object offers a pure rule check (Check<X>Rules) that reports all
// violations as a rules.Result, and a constructor (New<X>) that re-runs the
// check and returns a *rules.RulesBrokenError when any rule is broken. Callers
// pre-validate a whole request with the checks and construct afterwards.
//
// Domain Purity: no I/O, no context.Context, no time.Now(). Instants are
// parsed from the request or supplied by the application layer.
package shared
