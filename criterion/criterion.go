// Package criterion implements the multi-dialect boolean predicate engine
// used by step successCriteria and success/failure action criteria: simple
// (bare path or comparison), regex, jsonpath, and the unsupported xpath
// dialect.
package criterion

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vmware-labs/yaml-jsonpath/pkg/yamlpath"

	"github.com/genelet/arazzoengine/arazzo1"
	"github.com/genelet/arazzoengine/enginerr"
	"github.com/genelet/arazzoengine/execctx"
	"github.com/genelet/arazzoengine/expression"
)

var (
	barePathForm  = regexp.MustCompile(`^\$[A-Za-z0-9._]+$`)
	numericLiteral = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// comparisonOperators is ordered longest-match first so that scanning left
// to right and testing prefixes at each position finds "==" before a bare
// "=" would (there is no bare "=" in the set) and "<=" before "<" — this
// deliberately diverges from a naive first-operator-character split, which
// mishandles a left-hand side that itself contains "=".
var comparisonOperators = []string{"==", "!=", "<=", ">=", "<", ">"}

// Evaluate tests one criterion against ctx, per the four dialects.
func Evaluate(ctx *execctx.Context, crit *arazzo1.Criterion) (bool, error) {
	dialectType := crit.Type
	if dialectType == "" {
		dialectType = arazzo1.CriterionTypeSimple
	}

	if dialectType == arazzo1.CriterionTypeSimple {
		return evaluateSimple(ctx, crit.Condition)
	}

	datum := expression.Evaluate(ctx, crit.Context)

	switch dialectType {
	case arazzo1.CriterionTypeRegex:
		return evaluateRegex(datum, crit.Condition)
	case arazzo1.CriterionTypeJSONPath:
		return evaluateJSONPath(datum, crit.Condition)
	case arazzo1.CriterionTypeXPath:
		return false, enginerr.ErrCriterion.Wrap("xpath dialect is not supported", enginerr.ErrUnsupported)
	default:
		return false, enginerr.ErrCriterion.Wrapf("unknown criterion type %q", dialectType)
	}
}

func evaluateSimple(ctx *execctx.Context, condition string) (bool, error) {
	condition = strings.TrimSpace(condition)
	if barePathForm.MatchString(condition) {
		return truthy(expression.Evaluate(ctx, condition)), nil
	}

	left, op, right, ok := splitComparison(condition)
	if !ok {
		return false, enginerr.ErrCriterion.Wrapf("condition %q is neither a bare path nor a comparison", condition)
	}

	lv, err := resolveOperand(ctx, left)
	if err != nil {
		return false, err
	}
	rv, err := resolveOperand(ctx, right)
	if err != nil {
		return false, err
	}
	return compare(op, lv, rv)
}

// splitComparison finds the earliest position in s where a comparison
// operator begins, preferring the longest operator at that position, and
// splits s around it.
func splitComparison(s string) (left, op, right string, ok bool) {
	for i := 0; i < len(s); i++ {
		for _, candidate := range comparisonOperators {
			if strings.HasPrefix(s[i:], candidate) {
				return s[:i], candidate, s[i+len(candidate):], true
			}
		}
	}
	return "", "", "", false
}

func resolveOperand(ctx *execctx.Context, s string) (any, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		return s[1 : len(s)-1], nil
	}
	if numericLiteral.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, enginerr.ErrCriterion.Wrap("parsing numeric literal "+s, err)
		}
		return f, nil
	}
	return expression.Evaluate(ctx, s), nil
}

func compare(op string, left, right any) (bool, error) {
	if op == "==" || op == "!=" {
		eq := valuesEqual(left, right)
		if op == "==" {
			return eq, nil
		}
		return !eq, nil
	}

	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return false, enginerr.ErrCriterion.Wrapf("operator %q requires numerically comparable operands", op)
	}
	switch op {
	case "<":
		return lf < rf, nil
	case ">":
		return lf > rf, nil
	case "<=":
		return lf <= rf, nil
	case ">=":
		return lf >= rf, nil
	}
	return false, enginerr.ErrCriterion.Wrapf("unknown comparison operator %q", op)
}

func valuesEqual(left, right any) bool {
	if lf, lok := toFloat(left); lok {
		if rf, rok := toFloat(right); rok {
			return lf == rf
		}
	}
	return execctx.DeepEqual(left, right)
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	default:
		return 0, false
	}
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}

func evaluateRegex(datum any, condition string) (bool, error) {
	if datum == nil {
		return false, enginerr.ErrCriterion.Wrap("regex criterion context resolved to null", nil)
	}
	s, ok := datum.(string)
	if !ok {
		s = coerceToString(datum)
	}
	re, err := regexp.Compile(condition)
	if err != nil {
		return false, enginerr.ErrCriterion.Wrap("compiling regex "+condition, err)
	}
	loc := re.FindStringIndex(s)
	return loc != nil && loc[0] == 0, nil
}

func coerceToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

func evaluateJSONPath(datum any, condition string) (bool, error) {
	data, err := yaml.Marshal(datum)
	if err != nil {
		return false, enginerr.ErrCriterion.Wrap("marshaling jsonpath context datum", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return false, enginerr.ErrCriterion.Wrap("parsing jsonpath context datum", err)
	}
	path, err := yamlpath.NewPath(condition)
	if err != nil {
		return false, enginerr.ErrCriterion.Wrap("parsing jsonpath expression "+condition, err)
	}
	matches, err := path.Find(&node)
	if err != nil {
		return false, enginerr.ErrCriterion.Wrap("evaluating jsonpath expression "+condition, err)
	}
	return len(matches) > 0, nil
}
