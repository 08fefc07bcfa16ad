// Package client talks to the remote SQL analysis service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/queryscope/console/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("queryscope-console/client")

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d - %s", e.StatusCode, e.Body)
}

// Client posts queries to the analysis endpoint. It never retries.
type Client struct {
	httpClient *http.Client
	analyzeURL string
	schemaURL  string
}

// New creates a client for the given endpoints. An empty schemaURL is
// derived from analyzeURL by replacing its path with /analyze-schema.
// A zero timeout leaves requests unbounded.
func New(analyzeURL, schemaURL string, timeout time.Duration) (*Client, error) {
	if analyzeURL == "" {
		return nil, fmt.Errorf("analysis endpoint cannot be empty")
	}
	if _, err := url.ParseRequestURI(analyzeURL); err != nil {
		return nil, fmt.Errorf("invalid analysis endpoint: %w", err)
	}
	if schemaURL == "" {
		derived, err := SchemaURLFor(analyzeURL)
		if err != nil {
			return nil, err
		}
		schemaURL = derived
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		analyzeURL: analyzeURL,
		schemaURL:  schemaURL,
	}, nil
}

// SchemaURLFor returns the schema overview endpoint on the same host as the
// analysis endpoint.
func SchemaURLFor(analyzeURL string) (string, error) {
	u, err := url.Parse(analyzeURL)
	if err != nil {
		return "", fmt.Errorf("invalid analysis endpoint: %w", err)
	}
	u.Path = "/analyze-schema"
	u.RawQuery = ""
	return u.String(), nil
}

// Analyze submits req and returns the normalized analysis. Non-2xx answers
// are reported as *StatusError.
func (c *Client) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode analysis request: %w", err)
	}

	ctx, span := tracer.Start(ctx, "analysis.analyze",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Bool("queryscope.sandbox", req.RunInSandbox),
			attribute.Int("queryscope.sql_length", len(req.SQL)),
		),
	)
	defer span.End()

	data, err := c.post(ctx, c.analyzeURL, bytes.NewReader(body), "application/json")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp, err := models.Normalize(data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("decode analysis response: %w", err)
	}

	log.Debug().
		Str("database", resp.Database).
		Bool("sandbox", req.RunInSandbox).
		Msg("Analysis received")
	return resp, nil
}

// AnalyzeSchema asks the service for its schema overview and returns the raw
// JSON document.
func (c *Client) AnalyzeSchema(ctx context.Context) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "analysis.analyze_schema", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	data, err := c.post(ctx, c.schemaURL, nil, "")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		err := fmt.Errorf("schema overview is not valid JSON")
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return data, nil
}

func (c *Client) post(ctx context.Context, target string, body io.Reader, contentType string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Warn().Err(err).Str("url", target).Msg("Analysis service unreachable")
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.response.status_code", httpResp.StatusCode))
	log.Debug().
		Str("url", target).
		Int("status", httpResp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Analysis service responded")

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: httpResp.StatusCode, Body: string(data)}
	}
	return data, nil
}
