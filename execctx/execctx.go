// Package execctx implements the Execution Context: the nested mapping an
// expression resolves against for the lifetime of one workflow run. It is
// owned exclusively by the running workflow instance — independent runs
// never share one, so no internal locking is required.
package execctx

import "github.com/google/go-cmp/cmp"

// Context is a JSON-kinded value tree: every leaf is a string, float64,
// bool, nil, []any, or map[string]any, mirroring what encoding/json
// produces when unmarshaling into `any` — except a step's statusCode,
// which SetStepResult stores as an int. All expression and criterion
// evaluation operates on this shape; conversion to host types happens only
// at the operation invoker boundary.
type Context struct {
	root map[string]any
}

// NewContext seeds a fresh context with inputs, sourceDescriptions, and
// components, plus empty steps/workflows maps. Each running workflow
// instance owns exactly one Context.
func NewContext(inputs, sourceDescriptions, components any) *Context {
	return &Context{
		root: map[string]any{
			"inputs":             inputs,
			"sourceDescriptions": sourceDescriptions,
			"components":         components,
			"steps":              map[string]any{},
			"workflows":          map[string]any{},
		},
	}
}

// Get performs the root lookup for dot-segment 0 of an expression: any
// top-level key present in the context (inputs, steps, workflows,
// components, sourceDescriptions, response, headers, statusCode, method,
// url, or any other key the runner has set).
func (c *Context) Get(base string) (any, bool) {
	v, ok := c.root[base]
	return v, ok
}

// SetStepResult overwrites the per-step url/method/statusCode/headers/
// response slot at workflow-run entry into a step. Per the data model, this
// slot holds only the current step's result; history is exclusively
// reachable via steps.<id>.outputs.
func (c *Context) SetStepResult(stepID, url, method string, statusCode int, headers map[string][]string, body any) {
	c.root["url"] = url
	c.root["method"] = method
	c.root["statusCode"] = statusCode
	c.root["headers"] = headersToAny(headers)
	c.root["response"] = map[string]any{
		"body":    body,
		"headers": headersToAny(headers),
	}
	c.ensureStepEntry(stepID)
}

func headersToAny(headers map[string][]string) map[string]any {
	out := make(map[string]any, len(headers))
	for k, vs := range headers {
		values := make([]any, len(vs))
		for i, v := range vs {
			values[i] = v
		}
		out[k] = values
	}
	return out
}

func (c *Context) ensureStepEntry(stepID string) map[string]any {
	steps := c.root["steps"].(map[string]any)
	entry, ok := steps[stepID].(map[string]any)
	if !ok {
		entry = map[string]any{"outputs": map[string]any{}}
		steps[stepID] = entry
	}
	return entry
}

func (c *Context) ensureWorkflowEntry(workflowID string) map[string]any {
	workflows := c.root["workflows"].(map[string]any)
	entry, ok := workflows[workflowID].(map[string]any)
	if !ok {
		entry = map[string]any{"outputs": map[string]any{}}
		workflows[workflowID] = entry
	}
	return entry
}

// SetStepOutput stores one captured step output under
// steps.<stepID>.outputs.<name>. Output capture is append-only: it never
// clears earlier outputs of the same step.
func (c *Context) SetStepOutput(stepID, name string, value any) {
	entry := c.ensureStepEntry(stepID)
	entry["outputs"].(map[string]any)[name] = value
}

// SetWorkflowOutput stores one captured workflow output under
// workflows.<workflowID>.outputs.<name>, computed exactly once after the
// terminating step of a workflow run.
func (c *Context) SetWorkflowOutput(workflowID, name string, value any) {
	entry := c.ensureWorkflowEntry(workflowID)
	entry["outputs"].(map[string]any)[name] = value
}

// StepOutputs returns the captured outputs of a step, or nil if the step
// has not yet produced any.
func (c *Context) StepOutputs(stepID string) map[string]any {
	steps := c.root["steps"].(map[string]any)
	entry, ok := steps[stepID].(map[string]any)
	if !ok {
		return nil
	}
	return entry["outputs"].(map[string]any)
}

// WorkflowOutputs returns the captured outputs of a workflow run, or nil if
// none have been captured.
func (c *Context) WorkflowOutputs(workflowID string) map[string]any {
	workflows := c.root["workflows"].(map[string]any)
	entry, ok := workflows[workflowID].(map[string]any)
	if !ok {
		return nil
	}
	return entry["outputs"].(map[string]any)
}

// Snapshot returns a deep copy of the full context tree as a plain
// map[string]any/[]any structure, suitable for feeding a JSONPath query
// engine or for seeding a child workflow's context.
func (c *Context) Snapshot() any {
	return deepCopy(c.root)
}

// Clone builds a fresh, isolated Context for a sub-workflow invocation: it
// carries forward sourceDescriptions and components (read-only document
// context) but starts with the given resolved inputs and empty steps/
// workflows maps, so the child run never observes the parent's step
// history (the Execution Context is exclusively owned by the running
// workflow instance).
func (c *Context) Clone(inputs any) *Context {
	return NewContext(deepCopy(inputs), deepCopy(c.root["sourceDescriptions"]), deepCopy(c.root["components"]))
}

func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = deepCopy(e)
		}
		return out
	default:
		return val
	}
}

// DeepEqual reports whether two JSON-kinded values are structurally equal,
// used by the criterion evaluator's ==/!= comparison forms. go-cmp already
// does exactly this job correctly for arbitrary nested maps/slices/scalars,
// so it is used here rather than a hand-rolled equivalent.
func DeepEqual(a, b any) bool {
	return cmp.Equal(a, b)
}
