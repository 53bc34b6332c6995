package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/genelet/arazzoengine/arazzo1"
	"github.com/genelet/arazzoengine/enginerr"
	"github.com/genelet/arazzoengine/execctx"
	"github.com/genelet/arazzoengine/expression"
	"github.com/genelet/arazzoengine/invoker"
)

// componentRefName extracts the trailing name from a ReusableObject
// reference expression of the form "$components.<section>.<name>". This is
// the resolver pass the tagged-variant guidance calls for: references are
// replaced with resolved inline values before step execution, so
// downstream code only ever sees inline Parameter/SuccessAction/
// FailureAction values.
func componentRefName(reference, section string) (string, error) {
	prefix := "$components." + section + "."
	if !strings.HasPrefix(reference, prefix) {
		return "", enginerr.ErrExpression.Wrapf("component reference %q does not target components.%s", reference, section)
	}
	return strings.TrimPrefix(reference, prefix), nil
}

func resolveComponentParameter(doc *arazzo1.Arazzo, reference string) (*arazzo1.Parameter, error) {
	name, err := componentRefName(reference, "parameters")
	if err != nil {
		return nil, err
	}
	if doc.Components == nil {
		return nil, enginerr.ErrExpression.Wrapf("no components section to resolve %q", reference)
	}
	p, ok := doc.Components.Parameters[name]
	if !ok {
		return nil, enginerr.ErrExpression.Wrapf("unresolved component parameter %q", reference)
	}
	return p, nil
}

func resolveComponentSuccessAction(doc *arazzo1.Arazzo, reference string) (*arazzo1.SuccessAction, error) {
	name, err := componentRefName(reference, "successActions")
	if err != nil {
		return nil, err
	}
	if doc.Components == nil {
		return nil, enginerr.ErrExpression.Wrapf("no components section to resolve %q", reference)
	}
	a, ok := doc.Components.SuccessActions[name]
	if !ok {
		return nil, enginerr.ErrExpression.Wrapf("unresolved component success action %q", reference)
	}
	return a, nil
}

func resolveComponentFailureAction(doc *arazzo1.Arazzo, reference string) (*arazzo1.FailureAction, error) {
	name, err := componentRefName(reference, "failureActions")
	if err != nil {
		return nil, err
	}
	if doc.Components == nil {
		return nil, enginerr.ErrExpression.Wrapf("no components section to resolve %q", reference)
	}
	a, ok := doc.Components.FailureActions[name]
	if !ok {
		return nil, enginerr.ErrExpression.Wrapf("unresolved component failure action %q", reference)
	}
	return a, nil
}

// resolveSuccessAction dereferences a ReusableObject to its inline
// SuccessAction, applying the reusable wrapper's own Value override (if
// present) is not meaningful for actions (only Parameters carry a
// meaningful override), so the resolved component value is returned as-is.
func resolveSuccessAction(doc *arazzo1.Arazzo, sar *arazzo1.SuccessActionOrReusable) (*arazzo1.SuccessAction, error) {
	if sar.Reusable != nil {
		return resolveComponentSuccessAction(doc, sar.Reusable.Reference)
	}
	return sar.SuccessAction, nil
}

func resolveFailureAction(doc *arazzo1.Arazzo, far *arazzo1.FailureActionOrReusable) (*arazzo1.FailureAction, error) {
	if far.Reusable != nil {
		return resolveComponentFailureAction(doc, far.Reusable.Reference)
	}
	return far.FailureAction, nil
}

// resolveWorkflowParameter dereferences a workflow-level parameter,
// applying the ReusableObject's override Value when present.
func resolveWorkflowParameter(doc *arazzo1.Arazzo, por *arazzo1.ParameterOrReusable) (*arazzo1.Parameter, error) {
	if por.Reusable != nil {
		p, err := resolveComponentParameter(doc, por.Reusable.Reference)
		if err != nil {
			return nil, err
		}
		if por.Reusable.Value != nil {
			clone := *p
			clone.Value = por.Reusable.Value
			return &clone, nil
		}
		return p, nil
	}
	return por.Parameter, nil
}

// resolveStepParameter dereferences one of a Step's raw parameter entries.
// Step.Parameters is untyped ([]any) in the document model, so each entry
// is either a map[string]any shaped like a Parameter, or one shaped like a
// ReusableObject (identified, same as the rest of the document model, by
// the presence of a "reference" key).
func resolveStepParameter(doc *arazzo1.Arazzo, raw any) (*arazzo1.Parameter, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, enginerr.ErrDocumentInvalid.Wrapf("parameter entry is not an object: %#v", raw)
	}

	if refRaw, hasRef := m["reference"]; hasRef {
		ref, _ := refRaw.(string)
		p, err := resolveComponentParameter(doc, ref)
		if err != nil {
			return nil, err
		}
		if v, hasValue := m["value"]; hasValue {
			clone := *p
			clone.Value = v
			return &clone, nil
		}
		return p, nil
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, enginerr.ErrDocumentInvalid.Wrap("re-encoding parameter entry", err)
	}
	p := &arazzo1.Parameter{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, enginerr.ErrDocumentInvalid.Wrap("decoding parameter entry", err)
	}
	return p, nil
}

// groupParameters resolves a list of Step.Parameters entries, evaluates
// any expression-shaped value, and groups the results by "in" location for
// the invoker request.
func groupParameters(ctx *execctx.Context, doc *arazzo1.Arazzo, raw []any) (map[invoker.ParamLocation][]invoker.Param, error) {
	groups := map[invoker.ParamLocation][]invoker.Param{}
	for _, entry := range raw {
		p, err := resolveStepParameter(doc, entry)
		if err != nil {
			return nil, err
		}
		value := resolveParameterValue(ctx, p.Value)
		loc := invoker.ParamLocation(p.In)
		groups[loc] = append(groups[loc], invoker.Param{Name: p.Name, Value: value})
	}
	return groups, nil
}

func resolveParameterValue(ctx *execctx.Context, value any) any {
	if s, ok := value.(string); ok && expression.IsExpression(s) {
		return expression.Evaluate(ctx, s)
	}
	return resolvePayload(ctx, value)
}

// resolvePayload walks a structured literal (map/slice/scalar) evaluating
// every string leaf that looks like an expression or embedded template,
// and passing every other leaf through unchanged.
func resolvePayload(ctx *execctx.Context, payload any) any {
	switch v := payload.(type) {
	case string:
		if expression.IsExpression(v) {
			return expression.Evaluate(ctx, v)
		}
		return v
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = resolvePayload(ctx, e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = resolvePayload(ctx, e)
		}
		return out
	default:
		return v
	}
}

// resolveRequestBody evaluates a RequestBody's payload and applies its
// PayloadReplacements in order.
func resolveRequestBody(ctx *execctx.Context, rb *arazzo1.RequestBody) (any, error) {
	if rb == nil {
		return nil, nil
	}
	payload := resolvePayload(ctx, rb.Payload)
	for _, repl := range rb.Replacements {
		value := expression.Evaluate(ctx, repl.Value)
		var err error
		payload, err = setAtPointer(payload, repl.Target, value)
		if err != nil {
			return nil, enginerr.ErrExpression.Wrap("applying payload replacement at "+repl.Target, err)
		}
	}
	return payload, nil
}

// setAtPointer writes value at the RFC 6901 JSON Pointer target within
// payload, creating intermediate objects only where the pointer syntax
// unambiguously requires it (an absent map key along the path). Indexing
// through an existing non-object value, or through a sequence, is
// ambiguous and reported as an error rather than guessed at.
func setAtPointer(payload any, pointer string, value any) (any, error) {
	if pointer == "" || pointer == "/" {
		return value, nil
	}
	tokens := strings.Split(strings.TrimPrefix(pointer, "/"), "/")

	root, ok := payload.(map[string]any)
	if !ok {
		if payload != nil {
			return nil, fmt.Errorf("cannot apply replacement %q to a non-object payload", pointer)
		}
		root = map[string]any{}
	}

	cur := root
	for i, raw := range tokens {
		tok := unescapePointerToken(raw)
		if i == len(tokens)-1 {
			cur[tok] = value
			break
		}
		next, ok := cur[tok].(map[string]any)
		if !ok {
			if cur[tok] != nil {
				return nil, fmt.Errorf("cannot create path through existing non-object value at %q", tok)
			}
			next = map[string]any{}
			cur[tok] = next
		}
		cur = next
	}
	return root, nil
}

func unescapePointerToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~1", "/")
	tok = strings.ReplaceAll(tok, "~0", "~")
	return tok
}

// toJSONAny round-trips a typed document-model value (e.g. *arazzo1.
// Components) through JSON encoding to get the JSON-kinded representation
// (map[string]any/[]any/scalars) that expression evaluation walks.
func toJSONAny(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
