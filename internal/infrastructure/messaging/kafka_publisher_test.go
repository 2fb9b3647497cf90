package messaging

import (
	"context"
	"testing"

	"lesson-booking/config"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestNewPublisherWithoutBrokersIsNoop(t *testing.T) {
	p := NewPublisher(config.KafkaConfig{}, logrus.New())
	if _, ok := p.(noopPublisher); !ok {
		t.Fatalf("expected noop publisher, got %T", p)
	}
}

func TestInjectTraceHeaders(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	headers := injectTraceHeaders(ctx, []kafka.Header{{Key: "event_id", Value: []byte("1")}})

	carrier := &headerCarrier{headers: headers}
	want := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
	if got := carrier.Get("traceparent"); got != want {
		t.Fatalf("expected traceparent %q, got %q", want, got)
	}
	if carrier.Get("event_id") != "1" {
		t.Fatal("existing headers must be kept")
	}
}
