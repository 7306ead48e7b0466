package llm

import (
	"context"
	"time"

	"github.com/HYyydu/calendar-agent/internal/instrumentation"
)

// instrumentedClient wraps a Client and records reasoning-call metrics
// (count, duration, token usage) around every completion.
type instrumentedClient struct {
	inner   Client
	metrics *instrumentation.Metrics
}

// NewInstrumentedClient wraps client with the given metrics recorder.
// A nil recorder returns the client unchanged.
func NewInstrumentedClient(client Client, metrics *instrumentation.Metrics) Client {
	if metrics == nil {
		return client
	}
	return &instrumentedClient{inner: client, metrics: metrics}
}

func (c *instrumentedClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()
	resp, err := c.inner.Complete(ctx, req)
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	tokens := 0
	if err != nil {
		status = instrumentation.StatusError
	} else if resp != nil {
		tokens = resp.Usage.TotalTokens
	}
	c.metrics.RecordReasoningCall(ctx, c.inner.Model(), status, tokens, duration)

	return resp, err
}

func (c *instrumentedClient) Model() string {
	return c.inner.Model()
}
