package core

import (
	jmespath "github.com/jmespath-community/go-jmespath"
)

// JSONPathEvaluator abstracts JMESPath operations for testability.
type JSONPathEvaluator interface {
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JSONPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}
