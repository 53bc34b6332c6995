// Package expression implements the runtime expression evaluator: the
// mixed dot-path, JSON-Pointer, and embedded-template resolver that binds
// step outputs and document inputs into subsequent parameter and
// request-body values.
//
// Unlike speakeasy-api-openapi's expression.Expression — a string type
// with validation helpers — this package exposes plain functions over
// expression strings (Evaluate, IsExpression), and it actually
// *evaluates* an expression against a live execution context rather than
// only validating its syntax.
package expression

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/genelet/arazzoengine/execctx"
)

// TemplateMissingLiteral is substituted for an embedded-template segment
// whose expression does not resolve to a value (either because the
// resolved path is missing, or because resolution otherwise failed). The
// source prototype's behavior — observed, not specified — stringifies a
// Python None this way; this package preserves it for compatibility and
// exposes it as an overridable package variable per the recommendation to
// make the behavior configurable.
var TemplateMissingLiteral = "None"

var jsonPointerForm = regexp.MustCompile(`^\$([^#]+)#(/.*)$`)

// Evaluate resolves a runtime expression against ctx. Per the documented
// grammar every form is total: a missing dot-notation segment or JSON
// Pointer token yields nil, never an error. A bare string with no leading
// "$" and no embedded "{$...}" template is returned unchanged as a
// literal.
func Evaluate(ctx *execctx.Context, expr string) any {
	if strings.Contains(expr, "{$") {
		return evaluateEmbedded(ctx, expr)
	}
	if m := jsonPointerForm.FindStringSubmatch(expr); m != nil {
		base := evaluateDotPath(ctx, m[1])
		return applyPointer(base, m[2])
	}
	if strings.HasPrefix(expr, "$") {
		return evaluateDotPath(ctx, expr[1:])
	}
	return expr
}

var embeddedTemplate = regexp.MustCompile(`\{(\$[^}]*)\}`)

// evaluateEmbedded replaces every {$EXPR} substring of expr with the
// stringification of evaluating "$EXPR", leaving the surrounding literal
// text untouched (P2).
func evaluateEmbedded(ctx *execctx.Context, expr string) string {
	return embeddedTemplate.ReplaceAllStringFunc(expr, func(match string) string {
		inner := embeddedTemplate.FindStringSubmatch(match)[1]
		return stringify(Evaluate(ctx, inner))
	})
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return TemplateMissingLiteral
	case string:
		return val
	case float64:
		s := strconv.FormatFloat(val, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	default:
		return fmt.Sprintf("%v", val)
	}
}

// evaluateDotPath resolves a dot-separated path against the context root.
// Resolution never fails: an unrecognized root base, a missing mapping
// key, a non-integer sequence index, or indexing into a scalar all yield
// nil (P4).
func evaluateDotPath(ctx *execctx.Context, path string) any {
	segments := strings.Split(path, ".")
	if len(segments) == 0 || segments[0] == "" {
		return nil
	}
	cur, ok := ctx.Get(segments[0])
	if !ok {
		return nil
	}
	for _, seg := range segments[1:] {
		cur = indexInto(cur, seg)
	}
	return cur
}

func indexInto(cur any, segment string) any {
	switch val := cur.(type) {
	case map[string]any:
		return val[segment]
	case []any:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= len(val) {
			return nil
		}
		return val[idx]
	default:
		return nil
	}
}

// applyPointer applies an RFC 6901 JSON Pointer (already including its
// leading "/") to a resolved datum. A token that cannot be followed —
// missing map key, out-of-range or non-integer sequence index, or
// indexing into a scalar — yields nil rather than an error (P3).
func applyPointer(data any, pointer string) any {
	if pointer == "" || pointer == "/" {
		return data
	}
	tokens := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	cur := data
	for _, tok := range tokens {
		cur = indexInto(cur, unescapePointerToken(tok))
	}
	return cur
}

func unescapePointerToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~1", "/")
	tok = strings.ReplaceAll(tok, "~0", "~")
	return tok
}

// IsExpression reports whether s is a runtime expression or embedded
// template that Evaluate would resolve, as opposed to a bare literal
// passed through unchanged. Parameter and payload resolution in the step
// runner uses this to decide whether a string leaf needs evaluation.
func IsExpression(s string) bool {
	return strings.HasPrefix(s, "$") || strings.Contains(s, "{$")
}
