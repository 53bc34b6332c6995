package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genelet/arazzoengine/arazzo1"
	"github.com/genelet/arazzoengine/engine"
	"github.com/genelet/arazzoengine/enginerr"
	"github.com/genelet/arazzoengine/invoker"
)

// TestRunSubWorkflowStepFoldsChildOutputs covers a step whose workflowId
// invokes another workflow recursively: the child's own operation step runs
// through the same invoker, and its declared outputs fold into the parent
// step's outputs under the parent's stepId.
func TestRunSubWorkflowStepFoldsChildOutputs(t *testing.T) {
	child := &arazzo1.Workflow{
		WorkflowId: "child",
		Steps: []*arazzo1.Step{
			{
				StepId:      "c1",
				OperationId: "childOp",
				Outputs:     map[string]string{"childResult": "$response.body.ok"},
			},
		},
		Outputs: map[string]string{"ok": "$steps.c1.outputs.childResult"},
	}
	parent := &arazzo1.Workflow{
		WorkflowId: "parent",
		Steps: []*arazzo1.Step{
			{
				StepId:     "call-child",
				WorkflowId: "child",
				Parameters: []any{
					map[string]any{"name": "inputA", "value": "hello"},
				},
			},
		},
		Outputs: map[string]string{"result": "$steps.call-child.outputs.ok"},
	}
	doc := &arazzo1.Arazzo{Workflows: []*arazzo1.Workflow{parent, child}}

	mock := invoker.NewMockInvoker(
		invoker.MockResult{Response: &invoker.Response{StatusCode: 200, Body: map[string]any{"ok": true}}},
	)

	result, err := engine.Run(context.Background(), doc, "parent", nil, engine.WithInvoker(mock))
	require.NoError(t, err)
	require.Equal(t, engine.StatusSuccess, result.Status)
	assert.Equal(t, true, result.Outputs["result"])
	assert.Equal(t, 1, mock.CallCount())
}

// TestRunSubWorkflowStepDepthLimit covers the max-depth guard: a workflow
// that calls itself as its own sub-workflow stops recursing once the
// configured depth cap is reached, failing the whole call chain instead of
// recursing forever. The depth-exceeded error aborts the innermost workflow
// run, whose step hit the cap; each enclosing sub-workflow step sees that
// child's failed status as an ordinary step failure, which then propagates
// up as a workflow failure at every enclosing level.
func TestRunSubWorkflowStepDepthLimit(t *testing.T) {
	recursive := &arazzo1.Workflow{
		WorkflowId: "recursive",
		Steps: []*arazzo1.Step{
			{StepId: "call-self", WorkflowId: "recursive"},
		},
	}
	doc := &arazzo1.Arazzo{Workflows: []*arazzo1.Workflow{recursive}}

	result, err := engine.Run(context.Background(), doc, "recursive", nil, engine.WithMaxWorkflowDepth(2))
	require.NoError(t, err)
	require.Equal(t, engine.StatusFailure, result.Status)
	assert.True(t, errors.Is(result.Err, enginerr.ErrWorkflowFailed))
	assert.True(t, errors.Is(result.Err, enginerr.ErrStepFailed))
}

// TestStepParameterDereferencesReusableComponent covers a step parameter
// shaped as a ReusableObject (a "reference" key instead of name/in/value),
// resolved against doc.Components.Parameters at runtime.
func TestStepParameterDereferencesReusableComponent(t *testing.T) {
	doc := &arazzo1.Arazzo{
		Components: &arazzo1.Components{
			Parameters: map[string]*arazzo1.Parameter{
				"AuthHeader": {Name: "Authorization", In: arazzo1.ParameterInHeader, Value: "Bearer shared-token"},
			},
		},
		Workflows: []*arazzo1.Workflow{
			{
				WorkflowId: "uses-shared-param",
				Steps: []*arazzo1.Step{
					{
						StepId:      "s1",
						OperationId: "op1",
						Parameters: []any{
							map[string]any{"reference": "$components.parameters.AuthHeader"},
						},
					},
				},
			},
		},
	}

	mock := invoker.NewMockInvoker(invoker.MockResult{Response: &invoker.Response{StatusCode: 200}})

	result, err := engine.Run(context.Background(), doc, "uses-shared-param", nil, engine.WithInvoker(mock))
	require.NoError(t, err)
	require.Equal(t, engine.StatusSuccess, result.Status)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	headerParams := calls[0].Parameters[invoker.ParamHeader]
	require.Len(t, headerParams, 1)
	assert.Equal(t, "Authorization", headerParams[0].Name)
	assert.Equal(t, "Bearer shared-token", headerParams[0].Value)
}

// TestStepParameterReusableComponentValueOverride covers the ReusableObject
// override: a step parameter entry with both "reference" and "value" keys
// resolves the referenced component but substitutes the override value.
func TestStepParameterReusableComponentValueOverride(t *testing.T) {
	doc := &arazzo1.Arazzo{
		Components: &arazzo1.Components{
			Parameters: map[string]*arazzo1.Parameter{
				"AuthHeader": {Name: "Authorization", In: arazzo1.ParameterInHeader, Value: "Bearer shared-token"},
			},
		},
		Workflows: []*arazzo1.Workflow{
			{
				WorkflowId: "overrides-shared-param",
				Steps: []*arazzo1.Step{
					{
						StepId:      "s1",
						OperationId: "op1",
						Parameters: []any{
							map[string]any{"reference": "$components.parameters.AuthHeader", "value": "Bearer overridden"},
						},
					},
				},
			},
		},
	}

	mock := invoker.NewMockInvoker(invoker.MockResult{Response: &invoker.Response{StatusCode: 200}})

	_, err := engine.Run(context.Background(), doc, "overrides-shared-param", nil, engine.WithInvoker(mock))
	require.NoError(t, err)

	headerParams := mock.Calls()[0].Parameters[invoker.ParamHeader]
	require.Len(t, headerParams, 1)
	assert.Equal(t, "Bearer overridden", headerParams[0].Value)
}

// TestPayloadReplacementPatchesRequestBody covers RequestBody.Replacements:
// each entry's JSON Pointer target is patched with its evaluated expression
// value after the literal payload is resolved.
func TestPayloadReplacementPatchesRequestBody(t *testing.T) {
	wf := &arazzo1.Workflow{
		WorkflowId: "creates-resource",
		Steps: []*arazzo1.Step{
			{
				StepId:      "create",
				OperationId: "createOp",
				RequestBody: &arazzo1.RequestBody{
					ContentType: "application/json",
					Payload: map[string]any{
						"name":   "placeholder",
						"nested": map[string]any{"id": 0},
					},
					Replacements: []*arazzo1.PayloadReplacement{
						{Target: "/name", Value: "$inputs.name"},
						{Target: "/nested/id", Value: "$inputs.id"},
					},
				},
			},
		},
	}
	doc := &arazzo1.Arazzo{Workflows: []*arazzo1.Workflow{wf}}

	mock := invoker.NewMockInvoker(invoker.MockResult{Response: &invoker.Response{StatusCode: 201}})

	inputs := map[string]any{"name": "Alice", "id": float64(42)}
	result, err := engine.Run(context.Background(), doc, "creates-resource", inputs, engine.WithInvoker(mock))
	require.NoError(t, err)
	require.Equal(t, engine.StatusSuccess, result.Status)

	body, ok := mock.Calls()[0].Body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Alice", body["name"])
	nested, ok := body["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(42), nested["id"])
}

// TestCheckInputsSchemaRejectsMissingRequiredField covers the workflow
// Inputs schema's required-field presence check: a workflow declaring a
// required input field fails fast, before any step runs, when the caller
// omits it.
func TestCheckInputsSchemaRejectsMissingRequiredField(t *testing.T) {
	wf := &arazzo1.Workflow{
		WorkflowId: "needs-name",
		Inputs: map[string]any{
			"type":     "object",
			"required": []any{"name"},
		},
		Steps: []*arazzo1.Step{{StepId: "s1", OperationId: "op1"}},
	}
	doc := &arazzo1.Arazzo{Workflows: []*arazzo1.Workflow{wf}}

	_, err := engine.Run(context.Background(), doc, "needs-name", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, enginerr.ErrDocumentInvalid))
}

// TestCheckInputsSchemaAcceptsPresentRequiredField covers the success path
// of the same required-field check: supplying the field lets the run
// proceed and reach the invoker.
func TestCheckInputsSchemaAcceptsPresentRequiredField(t *testing.T) {
	wf := &arazzo1.Workflow{
		WorkflowId: "needs-name",
		Inputs: map[string]any{
			"type":     "object",
			"required": []any{"name"},
		},
		Steps: []*arazzo1.Step{{StepId: "s1", OperationId: "op1"}},
	}
	doc := &arazzo1.Arazzo{Workflows: []*arazzo1.Workflow{wf}}

	mock := invoker.NewMockInvoker(invoker.MockResult{Response: &invoker.Response{StatusCode: 200}})

	result, err := engine.Run(context.Background(), doc, "needs-name", map[string]any{"name": "Alice"}, engine.WithInvoker(mock))
	require.NoError(t, err)
	assert.Equal(t, engine.StatusSuccess, result.Status)
}
