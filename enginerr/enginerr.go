// Package enginerr defines the sentinel error kinds the workflow execution
// engine emits, and the wrapping convention used to attach per-occurrence
// detail (a failing expression, a step id, an HTTP status) to them while
// keeping them comparable with errors.Is.
package enginerr

import "fmt"

// Error is a sentinel error kind. Unlike a plain string constant, it carries
// its own Error() method so it satisfies the error interface directly and
// can be compared with errors.Is without an intermediate variable.
type Error string

func (e Error) Error() string { return string(e) }

// wrapped pairs a sentinel kind with the detail that occurred at a specific
// call site. errors.Is(wrapped, kind) succeeds because Unwrap returns kind.
type wrapped struct {
	kind   Error
	detail string
	cause  error
}

func (w *wrapped) Error() string {
	if w.detail == "" {
		return string(w.kind)
	}
	return fmt.Sprintf("%s: %s", w.kind, w.detail)
}

// Unwrap exposes both the sentinel kind and, if present, the underlying
// cause, so errors.Is matches either one.
func (w *wrapped) Unwrap() []error {
	if w.cause != nil {
		return []error{w.kind, w.cause}
	}
	return []error{w.kind}
}

// Wrap attaches a free-form detail string (and, optionally, an underlying
// cause) to a sentinel error kind. The result still satisfies
// errors.Is(result, kind).
func (e Error) Wrap(detail string, cause error) error {
	return &wrapped{kind: e, detail: detail, cause: cause}
}

// Wrapf is Wrap with fmt.Sprintf-style detail formatting.
func (e Error) Wrapf(format string, args ...any) error {
	return &wrapped{kind: e, detail: fmt.Sprintf(format, args...)}
}

// Error kinds, per the engine's error handling design. Each corresponds to
// one of the categories surfaced to callers: a document that failed to
// validate, a runtime expression or criterion that could not be resolved,
// an invoker transport failure, a step or workflow that reached a terminal
// failure state, or an external cancellation/timeout signal.
const (
	// ErrDocumentInvalid reports a structural violation caught before
	// execution begins: a missing required field, an unresolvable
	// dependsOn reference, or a dependency cycle.
	ErrDocumentInvalid Error = "document invalid"

	// ErrExpression reports a runtime expression that failed to resolve
	// where resolution was required (outside an embedded template, which
	// degrades to a literal instead of failing).
	ErrExpression Error = "expression error"

	// ErrCriterion reports a criterion that could not be evaluated: a
	// regex context that resolved to null, an operand type mismatch on
	// an ordering comparison, or an unsupported dialect.
	ErrCriterion Error = "criterion error"

	// ErrUnsupported reports a criterion dialect the engine does not
	// evaluate (xpath). It is wrapped under ErrCriterion.
	ErrUnsupported Error = "unsupported criterion dialect"

	// ErrInvocation reports a transport-level failure from the operation
	// invoker, as distinct from a non-2xx HTTP response (which is data,
	// not an error).
	ErrInvocation Error = "invocation error"

	// ErrStepFailed reports that a step's success criteria did not hold
	// and no failure action handled the outcome.
	ErrStepFailed Error = "step failed"

	// ErrUnknownStep reports a goto naming a stepId absent from the
	// current workflow. Always wrapped under ErrWorkflowFailed.
	ErrUnknownStep Error = "unknown step"

	// ErrMaxDepthExceeded reports that sub-workflow recursion exceeded
	// the configured call-stack depth cap.
	ErrMaxDepthExceeded Error = "max workflow recursion depth exceeded"

	// ErrWorkflowFailed reports a workflow run that reached a terminal
	// failure state.
	ErrWorkflowFailed Error = "workflow failed"

	// ErrCancelled reports an external cancellation signal observed at
	// one of the engine's three cancellation checkpoints.
	ErrCancelled Error = "cancelled"

	// ErrTimeout reports a per-step deadline exceeded.
	ErrTimeout Error = "timeout"
)
