package printing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/posprint/internal/domain/printing"
	"github.com/erp/posprint/internal/infrastructure/escpos"
	"github.com/erp/posprint/internal/infrastructure/printing/steps"
	"go.uber.org/zap"
)

// StepObserver is told about every resolved step and every unknown name.
// It is how metrics hook into renders.
type StepObserver interface {
	ObserveStep(ctx context.Context, schema, step string, elapsed time.Duration, err error)
	ObserveUnresolved(ctx context.Context, schema, step string)
}

// StepError records a step that returned an error or panicked
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// RenderResult is the outcome of one render
type RenderResult struct {
	Schema string
	// Stream is the finished command stream, ready for transport
	Stream escpos.Stream
	// Markers lists unresolved steps in schema order
	Markers []printing.ErrorMarker
	// StepErrors lists steps that failed; their partial output is kept
	StepErrors []*StepError
	// Visited lists resolved leaves in the order they ran
	Visited []string
	// Trace is nil unless tracing was requested
	Trace *Trace
	// CodePage is the character table the text was encoded for
	CodePage int
}

// Bytes returns the wire bytes of the stream
func (r *RenderResult) Bytes() []byte {
	return r.Stream.Bytes()
}

// PrintedText decodes the text commands back from the code page, so
// characters the printer cannot show read as '?'
func (r *RenderResult) PrintedText() string {
	enc := escpos.NewEncoder(r.CodePage)
	var sb strings.Builder
	for _, c := range r.Stream {
		if c.Kind == escpos.CmdText {
			sb.WriteString(enc.Decode(c.Data))
		}
	}
	return sb.String()
}

// Unresolved returns the names of unknown steps
func (r *RenderResult) Unresolved() []string {
	out := make([]string, len(r.Markers))
	for i, m := range r.Markers {
		out[i] = m.Error
	}
	return out
}

// Complete reports whether every step resolved and succeeded
func (r *RenderResult) Complete() bool {
	return len(r.Markers) == 0 && len(r.StepErrors) == 0
}

// SchemaRenderer walks schemas and dispatches their steps. It keeps no
// state between renders and is safe for concurrent use.
type SchemaRenderer struct {
	registry *steps.Registry
	logger   *zap.Logger
	observer StepObserver
}

// RendererOption configures a SchemaRenderer
type RendererOption func(*SchemaRenderer)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) RendererOption {
	return func(r *SchemaRenderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver sets the step observer
func WithObserver(o StepObserver) RendererOption {
	return func(r *SchemaRenderer) {
		r.observer = o
	}
}

// NewSchemaRenderer creates a renderer over registry. A nil registry uses
// the built-in steps.
func NewSchemaRenderer(registry *steps.Registry, opts ...RendererOption) *SchemaRenderer {
	if registry == nil {
		registry = steps.NewDefaultRegistry()
	}
	r := &SchemaRenderer{
		registry: registry,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the registry steps are resolved through
func (r *SchemaRenderer) Registry() *steps.Registry {
	return r.registry
}

type renderOptions struct {
	trace bool
}

// RenderOption configures a single render
type RenderOption func(*renderOptions)

// WithTrace turns step timing on or off for the render
func WithTrace(enabled bool) RenderOption {
	return func(o *renderOptions) {
		o.trace = enabled
	}
}

// Render draws doc with schema. Unknown steps and failing steps do not
// stop the render; they are reported in the result. The only error is a
// context that cannot be rendered at all.
func (r *SchemaRenderer) Render(ctx context.Context, schema printing.Schema, doc *printing.DocumentContext, opts ...RenderOption) (*RenderResult, error) {
	if doc == nil {
		return nil, NewRenderError(ErrCodeInvalidContext, "document context is required", nil)
	}
	var o renderOptions
	for _, opt := range opts {
		opt(&o)
	}

	view := *doc
	view.Printer = doc.Printer.WithDefaults()

	p := &pass{
		ctx:      ctx,
		renderer: r,
		schema:   schema.Name,
		doc:      &view,
		builder:  escpos.NewBuilder(escpos.WithCodePage(view.Printer.CodePage)),
		result:   &RenderResult{Schema: schema.Name, CodePage: view.Printer.CodePage},
	}
	if o.trace {
		p.trace = NewTrace()
		p.result.Trace = p.trace
	}

	// the code page must be selected before the first text command
	p.builder.Initialize()
	p.builder.ApplyDeviceSettings(steps.DeviceSettings(view.Printer))
	p.builder.Reset()
	p.walk(schema.Steps)
	if !p.finished {
		p.finish()
	}

	p.result.Stream = p.builder.Stream()

	r.logger.Debug("schema rendered",
		zap.String("schema", schema.Name),
		zap.Int("steps", len(p.result.Visited)),
		zap.Int("commands", len(p.result.Stream)),
		zap.Int("unresolved", len(p.result.Markers)),
		zap.Int("failed", len(p.result.StepErrors)),
	)
	return p.result, nil
}

// pass is the state of one render
type pass struct {
	ctx      context.Context
	renderer *SchemaRenderer
	schema   string
	doc      *printing.DocumentContext
	builder  *escpos.Builder
	trace    *Trace
	result   *RenderResult
	// finished is true while the most recent resolved leaf is finish
	finished bool
}

func (p *pass) walk(nodes []printing.Node) {
	for _, node := range nodes {
		if node.IsGroup() {
			p.walk(node.Children)
			continue
		}

		step, ok := p.renderer.registry.Lookup(node.Step)
		if !ok {
			p.unresolved(node.Step)
			continue
		}

		p.trace.Log("Start " + node.Step)
		p.run(node.Step, step)
		p.trace.Log("Finish " + node.Step)

		p.result.Visited = append(p.result.Visited, node.Step)
		p.finished = node.Step == printing.StepFinish
	}
}

func (p *pass) unresolved(name string) {
	p.result.Markers = append(p.result.Markers, printing.NewErrorMarker(name, p.builder.Len()))
	p.renderer.logger.Warn("unknown schema step",
		zap.String("schema", p.schema),
		zap.String("step", name),
	)
	if p.renderer.observer != nil {
		p.renderer.observer.ObserveUnresolved(p.ctx, p.schema, name)
	}
}

func (p *pass) run(name string, step steps.Step) {
	var started time.Time
	if p.renderer.observer != nil {
		started = time.Now()
	}

	err := safeDraw(step, p.doc, p.builder)
	if err != nil {
		p.result.StepErrors = append(p.result.StepErrors, &StepError{Step: name, Err: err})
		p.renderer.logger.Warn("schema step failed",
			zap.String("schema", p.schema),
			zap.String("step", name),
			zap.Error(err),
		)
	}

	if p.renderer.observer != nil {
		p.renderer.observer.ObserveStep(p.ctx, p.schema, name, time.Since(started), err)
	}
}

// finish runs the registered finish step, or the built-in one when the
// registry has none
func (p *pass) finish() {
	step, ok := p.renderer.registry.Lookup(printing.StepFinish)
	if !ok {
		step = steps.StepFunc(steps.Finish)
	}
	p.run(printing.StepFinish, step)
}

func safeDraw(step steps.Step, doc *printing.DocumentContext, b *escpos.Builder) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return step.Draw(doc, b)
}
