// Package query implements the traversal language of kektorgraph: a fluent
// builder that accumulates a linear program of stages, a rewrite pass for
// aliases and transformers, and the pull/push pipeline machine that evaluates
// a program lazily against a graph.
//
// A run never fails halfway. In the default lenient mode, stages that cannot
// be built from their arguments are logged and replaced by pass-through
// stages, so a typo widens the result instead of breaking the query. RunStrict
// and Validate report the same conditions as errors before anything runs.
package query

import "errors"

var (
	// ErrUnrecognizedStage is reported for a step whose name is neither a
	// built-in stage nor a registered alias.
	ErrUnrecognizedStage = errors.New("unrecognized stage")
	// ErrMalformedFilter is reported when a filter argument is neither a
	// property map nor a predicate.
	ErrMalformedFilter = errors.New("malformed filter")
	// ErrMalformedStep is reported for any other unusable stage argument.
	ErrMalformedStep = errors.New("malformed step arguments")
)
