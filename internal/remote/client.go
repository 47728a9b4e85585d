// Package remote is the client for the external events and user-account API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTokenHeader = "access_token"
	DefaultTimeout     = 10 * time.Second

	maxErrorBody = 64 << 10
)

// Config holds the remote API connection settings.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	TokenHeader string
	HTTPClient  *http.Client
}

type Client struct {
	baseURL     string
	timeout     time.Duration
	tokenHeader string
	http        *http.Client
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.TokenHeader == "" {
		cfg.TokenHeader = DefaultTokenHeader
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		timeout:     cfg.Timeout,
		tokenHeader: cfg.TokenHeader,
		http:        cfg.HTTPClient,
	}
}

// call describes one request to the remote API.
type call struct {
	op     string
	method string
	path   string
	query  url.Values
	token  string
	body   interface{}
	out    interface{}
}

func (c *Client) do(ctx context.Context, cl call) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return &Error{Kind: KindDecode, Op: cl.op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: cl.op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set(c.tokenHeader, cl.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: cl.op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Kind:   kindForStatus(resp.StatusCode),
			Op:     cl.op,
			Status: resp.StatusCode,
			Detail: readErrorDetail(resp.Body),
		}
	}

	if cl.out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &Error{Kind: KindDecode, Op: cl.op, Status: resp.StatusCode, Err: err}
	}
	return nil
}

func readErrorDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.detail()
}
