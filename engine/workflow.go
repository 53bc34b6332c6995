package engine

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/genelet/arazzoengine/arazzo1"
	"github.com/genelet/arazzoengine/enginerr"
	"github.com/genelet/arazzoengine/execctx"
	"github.com/genelet/arazzoengine/expression"
)

// runtime is shared across every workflow run started from one top-level
// Run/RunAll call, including sub-workflow recursion: the document, the
// resolved options, and the run's identity. Per-run state (retry counters,
// recursion depth) lives in workflowRun instead, scoped fresh to each
// runWorkflow call.
type runtime struct {
	doc   *arazzo1.Arazzo
	opts  *Options
	runID string
}

func findStep(wf *arazzo1.Workflow, id string) (int, *arazzo1.Step) {
	for i, s := range wf.Steps {
		if s.StepId == id {
			return i, s
		}
	}
	return -1, nil
}

func findWorkflow(doc *arazzo1.Arazzo, id string) *arazzo1.Workflow {
	for _, w := range doc.Workflows {
		if w.WorkflowId == id {
			return w
		}
	}
	return nil
}

func mustInputs(ctx *execctx.Context) any {
	v, _ := ctx.Get("inputs")
	return v
}

// finishWorkflow captures every declared workflow output exactly once,
// after the terminating step, regardless of whether the run ended in
// success or failure.
func finishWorkflow(rt *runtime, wf *arazzo1.Workflow, execCtx *execctx.Context, status Status, runErr error) *Result {
	outputs := make(map[string]any, len(wf.Outputs))
	for name, expr := range wf.Outputs {
		val := expression.Evaluate(execCtx, expr)
		execCtx.SetWorkflowOutput(wf.WorkflowId, name, val)
		outputs[name] = val
	}
	return &Result{WorkflowID: wf.WorkflowId, RunID: rt.runID, Status: status, Outputs: outputs, Err: runErr}
}

// runWorkflow is the C7 orchestrator state machine for one workflow run: it
// walks steps starting at the first one, following goto/fallthrough/end
// transitions the step runner hands back, until the run ends in success,
// failure, or transfers entirely to another workflow via a goto-workflow
// action.
func runWorkflow(ctx context.Context, rt *runtime, wf *arazzo1.Workflow, execCtx *execctx.Context, depth int) (*Result, error) {
	if depth > rt.opts.maxWorkflowDepth {
		err := enginerr.ErrMaxDepthExceeded.Wrapf("workflow %q exceeds max depth %d", wf.WorkflowId, rt.opts.maxWorkflowDepth)
		return &Result{WorkflowID: wf.WorkflowId, RunID: rt.runID, Status: StatusFailure, Err: err}, nil
	}
	if len(wf.Steps) == 0 {
		err := enginerr.ErrDocumentInvalid.Wrapf("workflow %q has no steps", wf.WorkflowId)
		return &Result{WorkflowID: wf.WorkflowId, RunID: rt.runID, Status: StatusFailure, Err: err}, nil
	}

	wr := &workflowRun{runtime: rt, wf: wf, retryCounts: map[string]int{}, depth: depth}
	currentStepID := wf.Steps[0].StepId

	for {
		select {
		case <-ctx.Done():
			err := enginerr.ErrCancelled.Wrap("workflow "+wf.WorkflowId, ctx.Err())
			return &Result{WorkflowID: wf.WorkflowId, RunID: rt.runID, Status: StatusFailure, Err: err}, nil
		default:
		}

		idx, step := findStep(wf, currentStepID)
		if step == nil {
			err := enginerr.ErrWorkflowFailed.Wrap(wf.WorkflowId, enginerr.ErrUnknownStep.Wrapf("step %q", currentStepID))
			return &Result{WorkflowID: wf.WorkflowId, RunID: rt.runID, Status: StatusFailure, Err: err}, nil
		}

		rt.opts.logger.Debug("entering step", "workflow", wf.WorkflowId, "step", step.StepId, "runID", rt.runID)
		outcome, err := runSingleStep(ctx, wr, step, execCtx)
		if err != nil {
			rt.opts.logger.Warn("step aborted", "workflow", wf.WorkflowId, "step", step.StepId, "error", err)
			return &Result{WorkflowID: wf.WorkflowId, RunID: rt.runID, Status: StatusFailure, Err: err}, nil
		}

		switch outcome.Kind {
		case outcomeGotoStep:
			currentStepID = outcome.NextStepID

		case outcomeFallthrough:
			if idx+1 >= len(wf.Steps) {
				return finishWorkflow(rt, wf, execCtx, StatusSuccess, nil), nil
			}
			currentStepID = wf.Steps[idx+1].StepId

		case outcomeEndSuccess:
			return finishWorkflow(rt, wf, execCtx, StatusSuccess, nil), nil

		case outcomeEndFailure:
			return finishWorkflow(rt, wf, execCtx, StatusFailure, enginerr.ErrWorkflowFailed.Wrap(wf.WorkflowId, outcome.Err)), nil

		case outcomeGotoWorkflow:
			target := findWorkflow(rt.doc, outcome.NextWorkflowID)
			if target == nil {
				err := enginerr.ErrWorkflowFailed.Wrapf("goto references unknown workflow %q", outcome.NextWorkflowID)
				return &Result{WorkflowID: wf.WorkflowId, RunID: rt.runID, Status: StatusFailure, Err: err}, nil
			}
			rt.opts.logger.Debug("transferring to workflow", "from", wf.WorkflowId, "to", target.WorkflowId, "runID", rt.runID)
			return runWorkflow(ctx, rt, target, execCtx.Clone(mustInputs(execCtx)), depth+1)
		}
	}
}

// checkInputsSchema is a required-field presence check only, not a full
// JSON Schema 2020-12 validator (see the standard-library justification for
// this choice).
func checkInputsSchema(schema any, inputs any) error {
	schemaMap, ok := schema.(map[string]any)
	if !ok {
		return nil
	}
	requiredRaw, ok := schemaMap["required"]
	if !ok {
		return nil
	}
	requiredList, ok := requiredRaw.([]any)
	if !ok {
		return nil
	}
	inputsMap, _ := inputs.(map[string]any)

	var missing []string
	for _, r := range requiredList {
		name, ok := r.(string)
		if !ok {
			continue
		}
		if _, present := inputsMap[name]; !present {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return enginerr.ErrDocumentInvalid.Wrapf("missing required input field(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// topoSortWorkflows orders doc.Workflows so that every workflow appears
// after all of its DependsOn entries, detecting cycles and dangling
// references before any workflow is executed.
func topoSortWorkflows(doc *arazzo1.Arazzo) ([]*arazzo1.Workflow, error) {
	byID := make(map[string]*arazzo1.Workflow, len(doc.Workflows))
	for _, w := range doc.Workflows {
		byID[w.WorkflowId] = w
	}

	const (
		white = iota
		gray
		black
	)
	state := make(map[string]int, len(doc.Workflows))
	order := make([]*arazzo1.Workflow, 0, len(doc.Workflows))

	var visit func(w *arazzo1.Workflow) error
	visit = func(w *arazzo1.Workflow) error {
		switch state[w.WorkflowId] {
		case black:
			return nil
		case gray:
			return enginerr.ErrDocumentInvalid.Wrapf("dependency cycle detected at workflow %q", w.WorkflowId)
		}
		state[w.WorkflowId] = gray
		for _, dep := range w.DependsOn {
			depWF, ok := byID[dep]
			if !ok {
				return enginerr.ErrDocumentInvalid.Wrapf("workflow %q depends on unknown workflow %q", w.WorkflowId, dep)
			}
			if err := visit(depWF); err != nil {
				return err
			}
		}
		state[w.WorkflowId] = black
		order = append(order, w)
		return nil
	}

	for _, w := range doc.Workflows {
		if err := visit(w); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func buildSourceDescriptions(doc *arazzo1.Arazzo) map[string]any {
	m := make(map[string]any, len(doc.SourceDescriptions))
	for _, sd := range doc.SourceDescriptions {
		m[sd.Name] = map[string]any{"type": string(sd.Type), "url": sd.URL}
	}
	return m
}

// Run executes a single named workflow to completion, seeding its
// execution context from inputs and the document's source descriptions and
// components.
func Run(ctx context.Context, doc *arazzo1.Arazzo, workflowID string, inputs any, opts ...Option) (*Result, error) {
	o := newOptions(opts)
	wf := findWorkflow(doc, workflowID)
	if wf == nil {
		return nil, enginerr.ErrDocumentInvalid.Wrapf("unknown workflow %q", workflowID)
	}
	if err := checkInputsSchema(wf.Inputs, inputs); err != nil {
		return nil, err
	}

	componentsAny, err := toJSONAny(doc.Components)
	if err != nil {
		return nil, enginerr.ErrDocumentInvalid.Wrap("encoding components", err)
	}

	execCtx := execctx.NewContext(inputs, buildSourceDescriptions(doc), componentsAny)
	rt := &runtime{doc: doc, opts: o, runID: uuid.NewString()}

	rt.opts.logger.Debug("starting workflow run", "workflow", workflowID, "runID", rt.runID)
	return runWorkflow(ctx, rt, wf, execCtx, 0)
}

// RunAll executes every workflow in the document in dependency order (a
// workflow never starts before everything it DependsOn has finished). Each
// workflow gets its own freshly seeded, isolated execution context; inputs
// are shared verbatim across all of them since the document format has no
// per-workflow input source beyond the caller-supplied map.
func RunAll(ctx context.Context, doc *arazzo1.Arazzo, inputs any, opts ...Option) ([]*Result, error) {
	order, err := topoSortWorkflows(doc)
	if err != nil {
		return nil, err
	}

	o := newOptions(opts)
	componentsAny, err := toJSONAny(doc.Components)
	if err != nil {
		return nil, enginerr.ErrDocumentInvalid.Wrap("encoding components", err)
	}
	sourceDescriptions := buildSourceDescriptions(doc)
	rt := &runtime{doc: doc, opts: o, runID: uuid.NewString()}

	results := make([]*Result, 0, len(order))
	for _, wf := range order {
		if err := checkInputsSchema(wf.Inputs, inputs); err != nil {
			results = append(results, &Result{WorkflowID: wf.WorkflowId, RunID: rt.runID, Status: StatusFailure, Err: err})
			continue
		}
		execCtx := execctx.NewContext(inputs, sourceDescriptions, componentsAny)
		result, err := runWorkflow(ctx, rt, wf, execCtx, 0)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}
