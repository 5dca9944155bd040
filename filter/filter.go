// Package filter selects configured instances with boolean expressions such as
//
//	Service == "sonarr" and hasQualityProfile("WEB-1080p")
//
// Expressions use the expr language and are compiled once, then evaluated
// against each schema.Instance.
package filter

import (
	"github.com/s0up4200/arrconf/schema"
)

// Filter decides whether an instance is selected
type Filter interface {
	// Evaluate checks if an instance matches the filter
	Evaluate(inst schema.Instance) (bool, error)

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	Compile(expression string) (Filter, error)
}

var defaultCompiler = NewExprCompiler(WithCache(32))

// Compile compiles an expression with the shared caching compiler
func Compile(expression string) (Filter, error) {
	return defaultCompiler.Compile(expression)
}

// Select returns the instances f matches, in their original order.
// A nil filter selects everything.
func Select(f Filter, instances []schema.Instance) ([]schema.Instance, error) {
	if f == nil {
		return instances, nil
	}

	selected := make([]schema.Instance, 0, len(instances))
	for _, inst := range instances {
		ok, err := f.Evaluate(inst)
		if err != nil {
			return nil, err
		}
		if ok {
			selected = append(selected, inst)
		}
	}
	return selected, nil
}
