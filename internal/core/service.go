package core

import (
	"context"
	"errors"
	"fmt"
	"github.com/HtWu123/databootcamp-final-project/internal/domain/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"log/slog"
	"time"
)

const tracerName = "github.com/HtWu123/databootcamp-final-project/internal/core"

// Render outcomes reported to the MetricsRecorder.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// MetricsRecorder receives one observation per Render call.
type MetricsRecorder interface {
	Observe(ctx context.Context, category, outcome string, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, string, time.Duration) {}

// DashboardService runs the resolve, aggregate, join and build pipeline for
// one selection at a time. It holds no per-request state.
type DashboardService struct {
	store    *DatasetStore
	selector *Selector
	metrics  MetricsRecorder
	logger   *slog.Logger
	tracer   trace.Tracer
}

type ServiceOption func(*DashboardService)

func WithSelector(sel *Selector) ServiceOption {
	return func(s *DashboardService) {
		if sel != nil {
			s.selector = sel
		}
	}
}

func WithMetrics(m MetricsRecorder) ServiceOption {
	return func(s *DashboardService) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *DashboardService) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithTracer(t trace.Tracer) ServiceOption {
	return func(s *DashboardService) {
		if t != nil {
			s.tracer = t
		}
	}
}

func NewDashboardService(store *DatasetStore, opts ...ServiceOption) *DashboardService {
	s := &DashboardService{
		store:    store,
		selector: NewSelector(),
		metrics:  noopMetrics{},
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("module", "dashboard"))
	return s
}

func (s *DashboardService) Categories() []string {
	return s.selector.Categories()
}

func (s *DashboardService) ListContents(category string) ([]ContentOption, error) {
	return s.selector.ListContents(category)
}

// Render produces the figure for a selection. An empty content under a known
// category means nothing is selected yet and yields a nil figure without
// error; an unknown category is rejected whatever the content.
func (s *DashboardService) Render(ctx context.Context, category, content string) (*model.FigureSpec, error) {
	if _, known := ParseCategory(category); known && content == "" {
		return nil, nil
	}

	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "core.DashboardService.Render",
		trace.WithAttributes(
			attribute.String("dashboard.category", category),
			attribute.String("dashboard.content", content),
		))
	defer span.End()

	fig, err := s.render(ctx, category, content)
	outcome := OutcomeOK
	switch {
	case errors.Is(err, model.ErrUnknownCategory), errors.Is(err, model.ErrUnknownSelection):
		outcome = OutcomeRejected
	case err != nil:
		outcome = OutcomeError
	case fig.Empty:
		outcome = OutcomeEmpty
	}

	elapsed := time.Since(start)
	s.metrics.Observe(ctx, metricsCategory(category), outcome, elapsed)
	span.SetAttributes(attribute.String("dashboard.outcome", outcome))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		s.logger.WarnContext(ctx, "render failed",
			slog.String("category", category),
			slog.String("content", content),
			slog.Any("error", err))
		return nil, err
	}
	span.SetStatus(codes.Ok, outcome)
	s.logger.DebugContext(ctx, "rendered figure",
		slog.String("category", category),
		slog.String("content", content),
		slog.String("kind", string(fig.Kind)),
		slog.String("outcome", outcome),
		slog.Duration("elapsed", elapsed))
	return fig, nil
}

// Plan resolves a selection and runs aggregation and the geometry join
// without building the figure.
func (s *DashboardService) Plan(ctx context.Context, category, content string) (model.ChartPlan, FigureData, error) {
	plan, err := s.selector.Resolve(category, content)
	if err != nil {
		return model.ChartPlan{}, FigureData{}, err
	}

	table, err := Aggregate(s.store.Observations(), plan.Aggregation)
	if err != nil {
		return model.ChartPlan{}, FigureData{}, fmt.Errorf("aggregate %q: %w", plan.Aggregation.Metric, err)
	}
	if plan.Aggregation.OrderByPlaceMean {
		plan.CategoryOrder = PlaceOrderByMean(table)
	}
	trace.SpanFromContext(ctx).AddEvent("aggregated",
		trace.WithAttributes(attribute.Int("dashboard.groups", len(table.Rows))))

	data := FigureData{Table: table}
	if plan.Geometry != model.GeometryNone {
		coll, ok := s.store.Geometry(plan.Geometry)
		if !ok {
			return model.ChartPlan{}, FigureData{}, fmt.Errorf("%s boundaries: %w", plan.Geometry, model.ErrMissingGeometry)
		}
		join, err := Join(table, coll, coll.KeyField)
		if err != nil {
			return model.ChartPlan{}, FigureData{}, err
		}
		if len(table.Rows) > 0 && join.Matched() == 0 {
			s.logger.WarnContext(ctx, "no aggregate matched a boundary",
				slog.String("collection", coll.Name),
				slog.String("key_field", coll.KeyField),
				slog.Int("groups", len(table.Rows)))
		}
		data.Join = join
	}
	return plan, data, nil
}

func (s *DashboardService) render(ctx context.Context, category, content string) (*model.FigureSpec, error) {
	plan, data, err := s.Plan(ctx, category, content)
	if err != nil {
		return nil, err
	}
	return BuildFigure(plan, data)
}

func metricsCategory(category string) string {
	if c, ok := ParseCategory(category); ok {
		return c.String()
	}
	return "unknown"
}
