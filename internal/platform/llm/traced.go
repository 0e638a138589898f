package llm

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/zaryah/zaryah-backend/internal/platform/llm"

// Observer receives one observation per completion. status is "ok" or "error".
type Observer interface {
	ObserveLLMRequest(provider, status string, dur time.Duration)
}

type tracedProvider struct {
	inner  Provider
	tracer trace.Tracer
	obs    Observer
}

// NewTraced records one span per completion on the global tracer provider. obs may be nil.
func NewTraced(p Provider, obs Observer) Provider {
	return &tracedProvider{inner: p, tracer: otel.Tracer(tracerName), obs: obs}
}

func (t *tracedProvider) Name() string { return t.inner.Name() }

func (t *tracedProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	ctx, span := t.tracer.Start(ctx, "llm.complete", trace.WithAttributes(
		attribute.String("llm.provider", t.inner.Name()),
		attribute.Int("llm.messages", len(req.Messages)),
		attribute.Int("llm.tools", len(req.Tools)),
	))
	defer span.End()

	start := time.Now()
	resp, err := t.inner.Complete(ctx, req)
	t.observe(err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("llm.tool_calls", len(resp.ToolCalls)),
		attribute.String("llm.model", resp.Model),
	)
	return resp, nil
}

func (t *tracedProvider) observe(err error, dur time.Duration) {
	if t.obs == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	t.obs.ObserveLLMRequest(t.inner.Name(), status, dur)
}
