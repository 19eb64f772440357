// Package backend talks to the HIC Scan API: it fetches the form schema and
// the patient record and posts submissions. Routes come from an OpenAPI
// document so they can be changed without a rebuild.
package backend

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-ontoform/internal/contract"
	"github.com/goliatone/go-ontoform/pkg/patient"
	"github.com/goliatone/go-ontoform/pkg/schema"
	"github.com/goliatone/go-ontoform/pkg/submission"
)

//go:embed contract.yaml
var defaultContract []byte

// DefaultContract returns a copy of the embedded OpenAPI document.
func DefaultContract() []byte {
	return append([]byte(nil), defaultContract...)
}

// DefaultTimeout bounds each request unless WithTimeout says otherwise.
const DefaultTimeout = 15 * time.Second

const maxBodyBytes = 16 << 20

// Client is a HIC Scan API client.
type Client struct {
	baseURL   string
	classURI  string
	http      *http.Client
	timeout   time.Duration
	contract  []byte
	ops       contract.Table
	logger    zerolog.Logger
	requestID func() string
}

// New validates baseURL and the route contract and returns a Client.
func New(ctx context.Context, baseURL string, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("backend: invalid base url %q: %w", baseURL, err)
	}

	c := &Client{
		baseURL:   baseURL,
		classURI:  DefaultClassURI,
		http:      &http.Client{},
		timeout:   DefaultTimeout,
		contract:  defaultContract,
		logger:    zerolog.Nop(),
		requestID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	ops, err := contract.Parse(ctx, c.contract)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	if err := ops.Require(contract.OpGetOntologyForm, contract.OpGetPatientBasicInfo, contract.OpSubmitPatientForm); err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	c.ops = ops
	return c, nil
}

// FetchSchema downloads and decodes the wire schema for the configured class.
// Transport problems wrap ErrNetworkFailure; undecodable bodies wrap
// schema.ErrSchemaMalformed.
func (c *Client) FetchSchema(ctx context.Context) ([]schema.WireField, error) {
	target, err := c.url(contract.OpGetOntologyForm, nil, url.Values{"classUri": {c.classURI}})
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, http.MethodGet, target, nil, ErrNetworkFailure)
	if err != nil {
		return nil, err
	}
	return schema.DecodeJSON(body)
}

// FetchPatient downloads the basic record for patientID.
func (c *Client) FetchPatient(ctx context.Context, patientID string) (patient.Record, error) {
	target, err := c.url(contract.OpGetPatientBasicInfo, map[string]string{"patientId": patientID}, nil)
	if err != nil {
		return patient.Record{}, err
	}
	body, err := c.do(ctx, http.MethodGet, target, nil, ErrNetworkFailure)
	if err != nil {
		return patient.Record{}, err
	}

	var rec patient.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return patient.Record{}, fmt.Errorf("%w: decode patient %s: %v", ErrNetworkFailure, patientID, err)
	}
	if rec.ID == "" {
		rec.ID = patientID
	}
	return rec, nil
}

// Submit posts the payload and decodes the reasoning response. A non-success
// status wraps ErrSubmissionRejected.
func (c *Client) Submit(ctx context.Context, payload submission.Payload) (submission.Response, error) {
	target, err := c.url(contract.OpSubmitPatientForm, map[string]string{"patientId": payload.PatientID}, nil)
	if err != nil {
		return submission.Response{}, err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return submission.Response{}, fmt.Errorf("backend: encode payload: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, target, raw, ErrSubmissionRejected)
	if err != nil {
		return submission.Response{}, err
	}

	var resp submission.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return submission.Response{}, fmt.Errorf("%w: decode response: %v", ErrSubmissionRejected, err)
	}
	return resp, nil
}

func (c *Client) url(opID string, pathParams map[string]string, query url.Values) (string, error) {
	op, err := c.ops.Lookup(opID)
	if err != nil {
		return "", fmt.Errorf("backend: %w", err)
	}
	target, err := op.URL(c.baseURL, pathParams, query)
	if err != nil {
		return "", fmt.Errorf("backend: %w", err)
	}
	return target, nil
}

// do runs one request. statusErr is wrapped for non-2xx replies; transport
// failures always wrap ErrNetworkFailure.
func (c *Client) do(ctx context.Context, method, target string, payload []byte, statusErr error) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("backend: build request: %w", err)
	}
	requestID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).
			Str("request_id", requestID).
			Str("method", method).
			Str("url", target).
			Msg("backend request failed")
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s %s: %v", ErrNetworkFailure, method, target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetworkFailure, err)
	}
	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrNetworkFailure, maxBodyBytes)
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s %s: %s%s", statusErr, method, target, resp.Status, snippet(data))
	}
	return data, nil
}

func snippet(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	if len(trimmed) > 200 {
		trimmed = trimmed[:200]
	}
	return ": " + string(trimmed)
}
