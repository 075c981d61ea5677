package constraint

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
)

// ExpressionScorer evaluates a configurable expr-lang expression against a
// variable bag and returns a float penalty/bonus. Grounded in the teacher's
// ConditionEvaluator (internal/application/executor/conditions.go): same
// compile-once-cache-forever shape (compiledCache map[string]*vm.Program),
// generalized from "evaluate a bool edge condition" to "evaluate a float
// scoring expression" because a soft constraint (StandardHours deficit
// weighting) needs a number, not a branch.
//
// Each distinct expression string is compiled exactly once and reused for
// the remaining lifetime of the process. The generator passes no expression
// from internal/config's Rules; StandardHours uses its built-in default.
type ExpressionScorer struct {
	mu            sync.RWMutex
	compiledCache map[string]*vm.Program
}

func NewExpressionScorer() *ExpressionScorer {
	return &ExpressionScorer{compiledCache: make(map[string]*vm.Program)}
}

// Eval compiles (or reuses a cached compilation of) expression and runs it
// against vars, expecting a numeric result.
func (s *ExpressionScorer) Eval(expression string, vars map[string]any) (float64, error) {
	if expression == "" {
		return 0, domain.InvalidInputError("scoring expression cannot be empty")
	}

	program, err := s.getCompiled(expression)
	if err != nil {
		return 0, err
	}

	result, err := expr.Run(program, vars)
	if err != nil {
		return 0, domain.InternalError(fmt.Sprintf("scoring expression %q failed", expression), err)
	}

	switch v := result.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, domain.InvalidInputError(fmt.Sprintf("scoring expression %q did not return a number, got %T", expression, result))
	}
}

func (s *ExpressionScorer) getCompiled(expression string) (*vm.Program, error) {
	s.mu.RLock()
	program, cached := s.compiledCache[expression]
	s.mu.RUnlock()
	if cached {
		return program, nil
	}

	envType := map[string]any{}
	program, err := expr.Compile(expression, expr.Env(envType), expr.AsFloat64())
	if err != nil {
		program, err = expr.Compile(expression, expr.AsFloat64())
		if err != nil {
			return nil, domain.InvalidInputError(fmt.Sprintf("failed to compile scoring expression %q: %v", expression, err))
		}
	}

	s.mu.Lock()
	s.compiledCache[expression] = program
	s.mu.Unlock()
	return program, nil
}
