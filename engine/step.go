package engine

import (
	"context"
	"errors"
	"time"

	"github.com/genelet/arazzoengine/arazzo1"
	"github.com/genelet/arazzoengine/criterion"
	"github.com/genelet/arazzoengine/enginerr"
	"github.com/genelet/arazzoengine/execctx"
	"github.com/genelet/arazzoengine/expression"
	"github.com/genelet/arazzoengine/invoker"
)

// outcomeKind is the next transition the step runner hands back to the
// workflow orchestrator loop, mirroring the C7 state machine's edges.
type outcomeKind int

const (
	outcomeFallthrough outcomeKind = iota
	outcomeGotoStep
	outcomeGotoWorkflow
	outcomeEndSuccess
	outcomeEndFailure
)

type stepOutcome struct {
	Kind           outcomeKind
	NextStepID     string
	NextWorkflowID string
	Err            error
}

// workflowRun carries the state scoped to one workflow run: the retry
// counters (per (step, failure-action) key, reset on workflow restart —
// never shared with a parent or sibling run) and the sub-workflow
// recursion depth.
type workflowRun struct {
	*runtime
	wf          *arazzo1.Workflow
	retryCounts map[string]int
	depth       int
}

// runSingleStep implements C6's algorithm for one step, looping internally
// across retry attempts: resolve the invocation target, resolve parameters
// and body, invoke, evaluate success criteria, capture outputs, then
// dispatch the first matching success or failure action. A matching
// "retry" failure action re-enters this loop instead of returning.
func runSingleStep(ctx context.Context, wr *workflowRun, step *arazzo1.Step, execCtx *execctx.Context) (stepOutcome, error) {
	successActions := append(append([]*arazzo1.SuccessActionOrReusable{}, step.OnSuccess...), wr.wf.SuccessActions...)
	failureActions := append(append([]*arazzo1.FailureActionOrReusable{}, step.OnFailure...), wr.wf.FailureActions...)

	for {
		select {
		case <-ctx.Done():
			return stepOutcome{}, enginerr.ErrCancelled.Wrap("step "+step.StepId, ctx.Err())
		default:
		}

		var success bool
		var invocationErr error

		switch {
		case step.IsWorkflowStep():
			ok, err := runSubWorkflowStep(ctx, wr, step, execCtx)
			if err != nil {
				return stepOutcome{}, err
			}
			success = ok
		case step.IsOperationStep():
			ok, err := invokeOperationStep(ctx, wr, step, execCtx)
			invocationErr = err
			success = ok && err == nil
		default:
			return stepOutcome{}, enginerr.ErrDocumentInvalid.Wrapf("step %q has neither an operation nor a workflowId target", step.StepId)
		}

		if err := ctx.Err(); err != nil {
			return stepOutcome{}, enginerr.ErrCancelled.Wrap("step "+step.StepId, err)
		}

		for name, expr := range step.Outputs {
			execCtx.SetStepOutput(step.StepId, name, expression.Evaluate(execCtx, expr))
		}

		if success {
			outcome, handled, err := dispatchSuccessActions(wr.doc, execCtx, successActions)
			if err != nil {
				wr.opts.logger.Warn("success action evaluation error", "step", step.StepId, "error", err)
			}
			if handled {
				return outcome, nil
			}
			return stepOutcome{Kind: outcomeFallthrough}, nil
		}

		outcome, retryWait, shouldRetry, err := dispatchFailureActions(wr, execCtx, step.StepId, failureActions)
		if err != nil {
			wr.opts.logger.Warn("failure action evaluation error", "step", step.StepId, "error", err)
		}
		if shouldRetry {
			wr.opts.logger.Debug("retrying step", "step", step.StepId, "wait", retryWait)
			if werr := sleepRespectingCancellation(ctx, retryWait); werr != nil {
				return stepOutcome{}, werr
			}
			continue
		}

		if outcome.Err == nil && invocationErr != nil {
			outcome.Err = invocationErr
		}
		return outcome, nil
	}
}

// criteriaMatch evaluates a conjunction of criteria; an empty list matches
// vacuously (used both for success criteria's "2xx/3xx default" fallback
// caller and for actions with no criteria, which always fire).
func criteriaMatch(execCtx *execctx.Context, criteria []*arazzo1.Criterion) (bool, error) {
	for _, c := range criteria {
		ok, err := criterion.Evaluate(execCtx, c)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evaluateSuccessCriteria(execCtx *execctx.Context, statusCode int, criteria []*arazzo1.Criterion) (bool, error) {
	if len(criteria) == 0 {
		return statusCode >= 200 && statusCode < 400, nil
	}
	return criteriaMatch(execCtx, criteria)
}

// dispatchSuccessActions scans actions in order (step-level first, then the
// workflow-level fallback list) and returns the outcome of the first one
// whose criteria all match. handled is false when nothing matched, telling
// the caller to fall through to the next step in document order.
func dispatchSuccessActions(doc *arazzo1.Arazzo, execCtx *execctx.Context, actions []*arazzo1.SuccessActionOrReusable) (stepOutcome, bool, error) {
	var lastErr error
	for _, sar := range actions {
		action, err := resolveSuccessAction(doc, sar)
		if err != nil {
			lastErr = err
			continue
		}
		matched, err := criteriaMatch(execCtx, action.Criteria)
		if err != nil {
			lastErr = err
			continue
		}
		if !matched {
			continue
		}
		switch action.Type {
		case arazzo1.SuccessActionTypeEnd:
			return stepOutcome{Kind: outcomeEndSuccess}, true, lastErr
		case arazzo1.SuccessActionTypeGoto:
			if action.WorkflowId != "" {
				return stepOutcome{Kind: outcomeGotoWorkflow, NextWorkflowID: action.WorkflowId}, true, lastErr
			}
			return stepOutcome{Kind: outcomeGotoStep, NextStepID: action.StepId}, true, lastErr
		}
	}
	return stepOutcome{}, false, lastErr
}

// dispatchFailureActions scans actions in order. A matching "retry" action
// whose budget is not yet exhausted reports shouldRetry; once its budget is
// exhausted, scanning continues into the remaining actions rather than
// stopping, per the documented "control passes to the next matching failure
// action" rule. Exhausting the whole list with no end/goto match produces
// an implicit end-failure.
func dispatchFailureActions(wr *workflowRun, execCtx *execctx.Context, stepID string, actions []*arazzo1.FailureActionOrReusable) (stepOutcome, time.Duration, bool, error) {
	var lastErr error
	for _, far := range actions {
		action, err := resolveFailureAction(wr.doc, far)
		if err != nil {
			lastErr = err
			continue
		}
		matched, err := criteriaMatch(execCtx, action.Criteria)
		if err != nil {
			lastErr = err
			continue
		}
		if !matched {
			continue
		}

		switch action.Type {
		case arazzo1.FailureActionTypeEnd:
			return stepOutcome{Kind: outcomeEndFailure, Err: enginerr.ErrStepFailed.Wrapf("step %q ended on failure action %q", stepID, action.Name)}, 0, false, lastErr
		case arazzo1.FailureActionTypeGoto:
			if action.WorkflowId != "" {
				return stepOutcome{Kind: outcomeGotoWorkflow, NextWorkflowID: action.WorkflowId}, 0, false, lastErr
			}
			return stepOutcome{Kind: outcomeGotoStep, NextStepID: action.StepId}, 0, false, lastErr
		case arazzo1.FailureActionTypeRetry:
			limit := 0
			if action.RetryLimit != nil {
				limit = *action.RetryLimit
			}
			key := stepID + "::" + action.Name
			if wr.retryCounts[key] < limit {
				wr.retryCounts[key]++
				wait := 0.0
				if action.RetryAfter != nil {
					wait = *action.RetryAfter
				}
				return stepOutcome{}, time.Duration(wait * float64(time.Second)), true, lastErr
			}
			// Retry budget exhausted for this action: keep scanning the
			// remaining failure actions for another match.
			continue
		}
	}
	return stepOutcome{Kind: outcomeEndFailure, Err: enginerr.ErrStepFailed.Wrapf("step %q failed and no failure action resolved it", stepID)}, 0, false, lastErr
}

// invokeOperationStep resolves parameters and body, calls the configured
// invoker, records the result into the execution context's per-step slot,
// and evaluates the step's success criteria against it.
func invokeOperationStep(ctx context.Context, wr *workflowRun, step *arazzo1.Step, execCtx *execctx.Context) (bool, error) {
	groups, err := groupParameters(execCtx, wr.doc, step.Parameters)
	if err != nil {
		return false, err
	}
	body, err := resolveRequestBody(execCtx, step.RequestBody)
	if err != nil {
		return false, err
	}
	contentType := ""
	if step.RequestBody != nil {
		contentType = step.RequestBody.ContentType
	}

	req := invoker.Request{
		Target:      invoker.Target{OperationID: step.OperationId, OperationPath: step.OperationPath},
		Parameters:  groups,
		Body:        body,
		ContentType: contentType,
	}

	invokeCtx := ctx
	if wr.opts.stepTimeout > 0 {
		var cancel context.CancelFunc
		invokeCtx, cancel = context.WithTimeout(ctx, wr.opts.stepTimeout)
		defer cancel()
	}

	resp, err := wr.opts.invoker.Invoke(invokeCtx, req)
	if err != nil {
		if errors.Is(invokeCtx.Err(), context.DeadlineExceeded) {
			return false, enginerr.ErrTimeout.Wrap("step "+step.StepId, err)
		}
		return false, enginerr.ErrInvocation.Wrap("step "+step.StepId, err)
	}

	url := resp.URL
	if url == "" {
		if step.OperationPath != "" {
			url = step.OperationPath
		} else {
			url = step.OperationId
		}
	}
	execCtx.SetStepResult(step.StepId, url, resp.Method, resp.StatusCode, map[string][]string(resp.Headers), resp.Body)

	ok, err := evaluateSuccessCriteria(execCtx, resp.StatusCode, step.SuccessCriteria)
	if err != nil {
		wr.opts.logger.Warn("success criteria evaluation error", "step", step.StepId, "error", err)
		return false, nil
	}
	return ok, nil
}

// runSubWorkflowStep resolves the step's parameters into a fresh, isolated
// child context, recursively runs the target workflow one level deeper, and
// folds its outputs into this step's outputs. The child's terminal status
// becomes this step's success/failure outcome directly; a depth-cap breach
// aborts with ErrMaxDepthExceeded rather than treating it as a step
// failure, since it signals a malformed or runaway document rather than a
// normal runtime failure a failure action should handle.
func runSubWorkflowStep(ctx context.Context, wr *workflowRun, step *arazzo1.Step, execCtx *execctx.Context) (bool, error) {
	if wr.depth+1 > wr.opts.maxWorkflowDepth {
		return false, enginerr.ErrMaxDepthExceeded.Wrapf("sub-workflow call from step %q exceeds max depth %d", step.StepId, wr.opts.maxWorkflowDepth)
	}
	child := findWorkflow(wr.doc, step.WorkflowId)
	if child == nil {
		return false, enginerr.ErrDocumentInvalid.Wrapf("step %q references unknown workflow %q", step.StepId, step.WorkflowId)
	}

	groups, err := groupParameters(execCtx, wr.doc, step.Parameters)
	if err != nil {
		return false, err
	}
	childInputs := map[string]any{}
	for _, params := range groups {
		for _, p := range params {
			childInputs[p.Name] = p.Value
		}
	}

	childExecCtx := execCtx.Clone(childInputs)
	result, err := runWorkflow(ctx, wr.runtime, child, childExecCtx, wr.depth+1)
	if err != nil {
		return false, err
	}
	for name, value := range result.Outputs {
		execCtx.SetStepOutput(step.StepId, name, value)
	}
	return result.Status == StatusSuccess, nil
}

func sleepRespectingCancellation(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return enginerr.ErrCancelled.Wrap("retryAfter wait", ctx.Err())
		default:
			return nil
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return enginerr.ErrCancelled.Wrap("retryAfter wait", ctx.Err())
	case <-timer.C:
		return nil
	}
}
