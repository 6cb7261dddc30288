package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sproutcare/sprout/internal/logging"
	"github.com/sproutcare/sprout/internal/store"
)

// LoggingProvider is a decorator that records every request as a
// generation event and a structured log line.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
	log       *logging.Logger
}

// WithLogging wraps a Provider with event logging. repo may be nil when
// nothing should be persisted.
func WithLogging(p Provider, provider string, repo store.EventRepo, log *logging.Logger) Provider {
	if log == nil {
		log = logging.NewNop()
	}
	return &LoggingProvider{inner: p, provider: provider, eventRepo: repo, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.GenerationEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		StudentID:   StudentFrom(ctx),
		LatencyMs:   latencyMs,
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("generation failed",
			"provider", l.provider, "model", data.Model, "purpose", purpose,
			"student_id", data.StudentID, "latency_ms", latencyMs, "error", err)
	} else {
		l.log.Debug("generation complete",
			"provider", l.provider, "model", data.Model, "purpose", purpose,
			"student_id", data.StudentID, "latency_ms", latencyMs,
			"input_tokens", data.InputTokens, "output_tokens", data.OutputTokens)
	}

	// Recording must not fail the request. The caller's context may already
	// be past its deadline, so use a detached one.
	if l.eventRepo != nil {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		if logErr := l.eventRepo.AppendGeneration(rctx, data); logErr != nil {
			l.log.Warn("failed to record generation event", "error", logErr)
		}
		cancel()
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
