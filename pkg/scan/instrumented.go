package scan

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/CairnDB/cairn/pkg/common/cell"
	"github.com/CairnDB/cairn/pkg/stats"
	"github.com/CairnDB/cairn/pkg/telemetry"
)

// MatcherMetrics defines the telemetry surface for matcher operations.
// All metrics are optional; implementations can safely be no-op.
type MatcherMetrics interface {
	telemetry.ComponentMetrics

	// RecordMatch records one match decision and its duration.
	RecordMatch(ctx context.Context, code MatchCode, duration time.Duration)

	// RecordMatchError records a fatal classification failure.
	RecordMatchError(ctx context.Context)

	// RecordRowTransition records one SetToNewRow call.
	RecordRowTransition(ctx context.Context)
}

// NewMatcherMetrics creates a matcher metrics implementation backed by the
// given telemetry. A nil telemetry yields a no-op implementation.
func NewMatcherMetrics(tel telemetry.Telemetry) MatcherMetrics {
	if tel == nil {
		return &noopMatcherMetrics{}
	}
	return &matcherMetrics{tel: tel}
}

type matcherMetrics struct {
	tel telemetry.Telemetry
}

func (m *matcherMetrics) RecordMatch(ctx context.Context, code MatchCode, duration time.Duration) {
	m.tel.RecordHistogram(ctx, "cairn.matcher.match.duration", duration.Seconds(),
		attribute.String(telemetry.AttrComponent, telemetry.ComponentMatcher),
		attribute.String(telemetry.AttrOperationType, telemetry.OpTypeMatch),
	)
	m.tel.RecordCounter(ctx, "cairn.matcher.decisions.total", 1,
		attribute.String(telemetry.AttrComponent, telemetry.ComponentMatcher),
		attribute.String(telemetry.AttrDecision, code.String()),
	)
}

func (m *matcherMetrics) RecordMatchError(ctx context.Context) {
	m.tel.RecordCounter(ctx, "cairn.matcher.errors.total", 1,
		attribute.String(telemetry.AttrComponent, telemetry.ComponentMatcher),
		attribute.String(telemetry.AttrStatus, telemetry.StatusError),
	)
}

func (m *matcherMetrics) RecordRowTransition(ctx context.Context) {
	m.tel.RecordCounter(ctx, "cairn.matcher.rows.total", 1,
		attribute.String(telemetry.AttrComponent, telemetry.ComponentMatcher),
		attribute.String(telemetry.AttrOperationType, telemetry.OpTypeRowTransition),
	)
}

func (m *matcherMetrics) Close() error { return nil }

type noopMatcherMetrics struct{}

func (n *noopMatcherMetrics) RecordMatch(ctx context.Context, code MatchCode, duration time.Duration) {
}
func (n *noopMatcherMetrics) RecordMatchError(ctx context.Context)    {}
func (n *noopMatcherMetrics) RecordRowTransition(ctx context.Context) {}
func (n *noopMatcherMetrics) Close() error                            { return nil }

// InstrumentedMatcher wraps a Matcher, recording every decision into a
// stats collector and the telemetry pipeline. The wrapped matcher keeps
// doing all the work; instrumentation never changes a decision.
type InstrumentedMatcher struct {
	*Matcher

	collector stats.Collector
	metrics   MatcherMetrics
	ctx       context.Context
}

// NewInstrumentedMatcher wraps the matcher. collector and metrics may each
// be nil.
func NewInstrumentedMatcher(m *Matcher, collector stats.Collector, metrics MatcherMetrics) *InstrumentedMatcher {
	if metrics == nil {
		metrics = &noopMatcherMetrics{}
	}
	return &InstrumentedMatcher{
		Matcher:   m,
		collector: collector,
		metrics:   metrics,
		ctx:       context.Background(),
	}
}

// Match forwards to the wrapped matcher and records the outcome.
func (im *InstrumentedMatcher) Match(c *cell.Cell) (MatchCode, error) {
	start := time.Now()
	code, err := im.Matcher.Match(c)
	elapsed := time.Since(start)

	if im.collector != nil {
		im.collector.TrackOperationWithLatency(stats.OpMatch, uint64(elapsed.Nanoseconds()))
		im.collector.TrackCellsExamined(1)
		if err != nil {
			im.collector.TrackError("match")
		} else {
			im.collector.TrackDecision(code.String())
		}
	}
	if err != nil {
		im.metrics.RecordMatchError(im.ctx)
	} else {
		im.metrics.RecordMatch(im.ctx, code, elapsed)
	}
	return code, err
}

// SetToNewRow forwards to the wrapped matcher and records the transition.
func (im *InstrumentedMatcher) SetToNewRow(c *cell.Cell) {
	im.Matcher.SetToNewRow(c)
	if im.collector != nil {
		im.collector.TrackRowTransition()
	}
	im.metrics.RecordRowTransition(im.ctx)
}
