package filter

import (
	"maps"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/arrconf/schema"
)

// exprFilter implements Filter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	cache *lruCache
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) Compiler {
	c := &exprCompiler{}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compile compiles an expression into an executable filter. Expressions are
// type checked against the instance environment, so unknown names fail here
// rather than silently evaluating to false.
func (c *exprCompiler) Compile(expression string) (Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(newEnvironment(schema.Instance{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	f := &exprFilter{
		expression: expression,
		program:    program,
	}

	if c.cache != nil {
		c.cache.Put(expression, f)
	}

	return f, nil
}

// Evaluate evaluates the filter against an instance
func (f *exprFilter) Evaluate(inst schema.Instance) (bool, error) {
	result, err := expr.Run(f.program, newEnvironment(inst))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Instance:   inst.Name,
			Err:        err,
		}
	}

	// AsBool guarantees the type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// newEnvironment creates the evaluation environment for one instance
func newEnvironment(inst schema.Instance) map[string]any {
	env := make(map[string]any, 24)

	// Case-insensitive string helpers. contains, startsWith and endsWith are
	// operators in expr and cannot be redefined.
	env["containsFold"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["hasPrefix"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["hasSuffix"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper

	trashIDs := collectTrashIDs(inst.CustomFormats)
	profiles := inst.ReferencedProfiles()

	env["hasTrashID"] = func(id string) bool {
		return slices.ContainsFunc(trashIDs, func(t string) bool {
			return strings.EqualFold(t, id)
		})
	}
	env["hasQualityProfile"] = func(name string) bool {
		return slices.Contains(profiles, name)
	}
	env["isRadarr"] = func() bool {
		return inst.Service == schema.ServiceRadarr
	}
	env["isSonarr"] = func() bool {
		return inst.Service == schema.ServiceSonarr
	}

	// Direct instance properties
	env["Service"] = string(inst.Service)
	env["Name"] = inst.Name
	env["BaseURL"] = inst.BaseURL
	env["DeleteOldCustomFormats"] = inst.DeleteOldCustomFormats
	env["ReplaceExistingCustomFormats"] = inst.ReplaceExistingCustomFormats
	env["CustomFormats"] = inst.CustomFormats
	env["QualityProfiles"] = profiles
	env["TrashIDs"] = trashIDs
	env["HasQualityDefinition"] = inst.QualityDefinition != nil

	return env
}

func collectTrashIDs(formats []schema.CustomFormat) []string {
	seen := make(map[string]struct{})
	for _, cf := range formats {
		for _, id := range cf.TrashIDs {
			seen[id] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}
