package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/erp/posprint/internal/infrastructure/printing"
)

var _ printing.StepObserver = (*PrintMetrics)(nil)

// PrintMetrics records renderer and job metrics. It plugs into the
// renderer as its StepObserver.
type PrintMetrics struct {
	stepDuration metric.Float64Histogram
	stepErrors   metric.Int64Counter
	unresolved   metric.Int64Counter
	renders      metric.Int64Counter
	renderBytes  metric.Float64Histogram
	jobs         metric.Int64Counter
	jobDuration  metric.Float64Histogram
	logger       *zap.Logger
}

// NewPrintMetrics creates the print instruments on meter
func NewPrintMetrics(meter metric.Meter, logger *zap.Logger) (*PrintMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	in := NewInstruments(meter)
	m := &PrintMetrics{
		stepDuration: in.Histogram("print_step_duration_seconds",
			"Duration of a single drawing step", "s", StepDurationBuckets...),
		stepErrors: in.Counter("print_step_errors_total",
			"Drawing steps that failed or panicked", "{step}"),
		unresolved: in.Counter("print_unresolved_steps_total",
			"Schema steps with no registered capability", "{step}"),
		renders: in.Counter("print_renders_total",
			"Completed schema renders", "{render}"),
		renderBytes: in.Histogram("print_render_bytes",
			"Size of rendered command streams", "By", 256, 512, 1024, 2048, 4096, 8192, 16384, 65536),
		jobs: in.Counter("print_jobs_total",
			"Print jobs by final status", "{job}"),
		jobDuration: in.Histogram("print_job_duration_seconds",
			"Time from submission to final job status", "s", RequestDurationBuckets...),
		logger: logger,
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// ObserveStep implements printing.StepObserver
func (m *PrintMetrics) ObserveStep(ctx context.Context, schema, step string, elapsed time.Duration, err error) {
	attrs := metric.WithAttributes(AttrSchema.String(schema), AttrStep.String(step))
	m.stepDuration.Record(ctx, elapsed.Seconds(), attrs)
	if err != nil {
		m.stepErrors.Add(ctx, 1, attrs)
	}
}

// ObserveUnresolved implements printing.StepObserver
func (m *PrintMetrics) ObserveUnresolved(ctx context.Context, schema, step string) {
	m.unresolved.Add(ctx, 1, metric.WithAttributes(AttrSchema.String(schema), AttrStep.String(step)))
	m.logger.Debug("Unresolved step", zap.String("schema", schema), zap.String("step", step))
}

// RecordRender counts one render and its stream size
func (m *PrintMetrics) RecordRender(ctx context.Context, schema string, size int, complete bool) {
	outcome := "complete"
	if !complete {
		outcome = "partial"
	}
	m.renders.Add(ctx, 1, metric.WithAttributes(AttrSchema.String(schema), AttrOutcome.String(outcome)))
	m.renderBytes.Record(ctx, float64(size), metric.WithAttributes(AttrSchema.String(schema)))
}

// RecordJob counts a job reaching a final status
func (m *PrintMetrics) RecordJob(ctx context.Context, docType, status string, elapsed time.Duration) {
	attrs := metric.WithAttributeSet(attribute.NewSet(AttrDocType.String(docType), AttrJobStatus.String(status)))
	m.jobs.Add(ctx, 1, attrs)
	m.jobDuration.Record(ctx, elapsed.Seconds(), attrs)
}
