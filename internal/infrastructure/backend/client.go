package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	dompay "github.com/Zhima-Mochi/minipay/internal/domain/payment"
	"github.com/Zhima-Mochi/minipay/internal/observability"
	"github.com/Zhima-Mochi/minipay/internal/observability/logctx"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	InitiatePath = "/api/initiate-payment"
	ConfirmPath  = "/api/confirm-payment"

	DefaultBaseURL = "http://localhost:3000"

	targetInitiate = "initiate_payment"
	targetConfirm  = "confirm_payment"
	maxBodyBytes   = 1 << 20
)

type Config struct {
	// BaseURL hosts the initiate-payment endpoint.
	BaseURL string
	// ConfirmBaseURL hosts the confirm-payment endpoint. Falls back to BaseURL.
	ConfirmBaseURL string
	// Timeout bounds each call. Zero leaves calls bounded only by the caller's context.
	Timeout time.Duration
	// HTTPClient overrides the instrumented default client.
	HTTPClient *http.Client
}

// Client talks to the payment backend: it issues references and confirms wallet payloads.
type Client struct {
	initiateURL string
	confirmURL  string
	http        *http.Client

	log        observability.Logger
	extCounter observability.Counter   // external_requests_total{target,outcome}
	extHist    observability.Histogram // external_request_duration_seconds{target}
}

func NewClient(cfg Config, tel observability.Observability) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	confirmBase := strings.TrimRight(cfg.ConfirmBaseURL, "/")
	if confirmBase == "" {
		confirmBase = base
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		}
	}
	_, logger, metrics := observability.Resolve(tel)

	return &Client{
		initiateURL: base + InitiatePath,
		confirmURL:  confirmBase + ConfirmPath,
		http:        hc,
		log:         logger.With(observability.F("component", "backend_client")),
		extCounter:  metrics.Counter(observability.MExternalRequests),
		extHist:     metrics.Histogram(observability.MExternalRequestDuration),
	}
}

type initiateResponse struct {
	ID string `json:"id"`
}

// InitiatePayment posts an empty body and returns the reference id the backend minted.
func (c *Client) InitiatePayment(ctx context.Context) (_ dompay.Reference, err error) {
	const op = "backend.initiate_payment"
	start := time.Now()
	defer func() { c.observe(ctx, targetInitiate, start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.initiateURL, nil)
	if err != nil {
		return "", dompay.Wrap(dompay.KindNetwork, op, err)
	}

	var body initiateResponse
	if err := c.do(req, op, &body); err != nil {
		return "", err
	}
	if body.ID == "" {
		return "", dompay.Wrap(dompay.KindMalformedResponse, op, fmt.Errorf("response has no id"))
	}
	return dompay.Reference(body.ID), nil
}

type confirmRequest struct {
	Payload json.RawMessage `json:"payload"`
}

type confirmResponse struct {
	Success *bool `json:"success"`
}

// ConfirmPayment forwards the wallet payload untouched and returns the backend's success flag.
func (c *Client) ConfirmPayment(ctx context.Context, payload dompay.Payload) (_ bool, err error) {
	const op = "backend.confirm_payment"
	start := time.Now()
	defer func() { c.observe(ctx, targetConfirm, start, err) }()

	raw := payload.Raw()
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	buf, err := json.Marshal(confirmRequest{Payload: raw})
	if err != nil {
		return false, dompay.Wrap(dompay.KindMalformedResponse, op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.confirmURL, bytes.NewReader(buf))
	if err != nil {
		return false, dompay.Wrap(dompay.KindNetwork, op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var body confirmResponse
	if err := c.do(req, op, &body); err != nil {
		return false, err
	}
	if body.Success == nil {
		return false, dompay.Wrap(dompay.KindMalformedResponse, op, fmt.Errorf("response has no success flag"))
	}
	return *body.Success, nil
}

func (c *Client) do(req *http.Request, op string, dst any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return dompay.Wrap(dompay.KindNetwork, op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return dompay.Wrap(dompay.KindNetwork, op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return dompay.Wrap(dompay.KindNetwork, op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return dompay.Wrap(dompay.KindMalformedResponse, op, err)
	}
	return nil
}

func (c *Client) observe(ctx context.Context, target string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = string(dompay.KindOf(err))
	}
	latency := time.Since(start).Seconds()
	c.extCounter.Add(1, observability.L("target", target), observability.L("outcome", outcome))
	c.extHist.Observe(latency, observability.L("target", target))

	fields := []observability.Field{
		observability.F("target", target),
		observability.F("outcome", outcome),
		observability.F("latency_seconds", latency),
	}
	if err != nil {
		fields = append(fields, observability.F("error", err.Error()))
	}
	logctx.FromOr(ctx, c.log).Debug("external_request_done", fields...)
}
