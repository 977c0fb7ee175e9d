package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// envelope mirrors the server's pkg/response contract.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *envelopeError  `json:"error"`
}

type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// HTTPTransport implements Transport against the scheduler API.
type HTTPTransport struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewHTTPTransport builds a transport for the given base URL and bearer token.
func NewHTTPTransport(baseURL, token string) *HTTPTransport {
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchList GETs path and decodes the envelope's data into dest.
func (t *HTTPTransport) FetchList(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	env, _, err := t.do(req)
	if err != nil {
		return err
	}
	if env.Error != nil {
		return fmt.Errorf("fetch %s: %s (%s)", path, env.Error.Message, env.Error.Code)
	}
	if dest == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// SubmitAction POSTs payload to path. Server-side rejections come back as a
// not-OK result carrying the short code and raw body; only transport and
// decode failures surface as errors.
func (t *HTTPTransport) SubmitAction(ctx context.Context, path string, payload interface{}) (ActionResult, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return ActionResult{}, fmt.Errorf("encode payload for %s: %w", path, err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, body)
	if err != nil {
		return ActionResult{}, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	env, raw, err := t.do(req)
	if err != nil {
		return ActionResult{}, err
	}
	if env.Error != nil {
		return ActionResult{OK: false, ShortCode: env.Error.Code, Body: raw}, nil
	}
	return ActionResult{OK: true, Body: env.Data}, nil
}

// PatchAction issues a bodyless request with the given method.
func (t *HTTPTransport) PatchAction(ctx context.Context, path, method string) error {
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	env, _, err := t.do(req)
	if err != nil {
		return err
	}
	if env.Error != nil {
		return fmt.Errorf("%s %s: %s (%s)", method, path, env.Error.Message, env.Error.Code)
	}
	return nil
}

func (t *HTTPTransport) do(req *http.Request) (envelope, json.RawMessage, error) {
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	resp, err := t.http.Do(req)
	if err != nil {
		return envelope{}, nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, nil, fmt.Errorf("read response %s: %w", req.URL.Path, err)
	}
	if resp.StatusCode == http.StatusNoContent || len(raw) == 0 {
		return envelope{}, raw, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return envelope{}, raw, fmt.Errorf("decode response %s: %w", req.URL.Path, err)
	}
	return env, raw, nil
}
