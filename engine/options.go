package engine

import (
	"log/slog"
	"time"

	"github.com/genelet/arazzoengine/invoker"
)

// defaultMaxWorkflowDepth bounds sub-workflow call-stack recursion to
// prevent runaway nesting (§9 re-architecture guidance).
const defaultMaxWorkflowDepth = 32

// Options configures one engine run. The teacher repo is a pure document-
// model library with no runtime configuration surface of its own, so this
// follows the functional-options idiom used throughout the corpus's
// service constructors instead.
type Options struct {
	invoker          invoker.Invoker
	stepTimeout      time.Duration
	maxWorkflowDepth int
	logger           *slog.Logger
}

// Option configures an engine Run/RunAll invocation.
type Option func(*Options)

// WithInvoker supplies the operation invoker the step runner calls
// through. Without it, runs use an unscripted MockInvoker that answers
// every call with status 200 and no body.
func WithInvoker(inv invoker.Invoker) Option {
	return func(o *Options) { o.invoker = inv }
}

// WithStepTimeout sets a per-invocation deadline, engine-level
// configuration rather than a document field (§5). It bounds each single
// operation call; an expired call fails the attempt with ErrTimeout, which
// is routed through the failure actions. The deadline does not cover the
// retryAfter wait between attempts, and it is not applied to sub-workflow
// steps.
func WithStepTimeout(d time.Duration) Option {
	return func(o *Options) { o.stepTimeout = d }
}

// WithMaxWorkflowDepth overrides the sub-workflow recursion depth cap.
func WithMaxWorkflowDepth(n int) Option {
	return func(o *Options) { o.maxWorkflowDepth = n }
}

// WithLogger overrides the structured logger used for run-start, step-entry,
// retry, and goto-workflow logging (Debug) and for aborted steps and
// criteria and action evaluation errors (Warn).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.logger = logger }
}

func newOptions(opts []Option) *Options {
	o := &Options{
		invoker:          invoker.NewMockInvoker(),
		maxWorkflowDepth: defaultMaxWorkflowDepth,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
