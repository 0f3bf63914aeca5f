// Package apiclient is the single client for the job-board REST backend.
// Every call goes through Client.do, which attaches the bearer token of the
// client it was made from and normalizes failures into *APIError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/justsurfingit/nextstep-web/internal/auth"
)

const maxResponseBytes = 4 << 20

type Client struct {
	baseURL string
	base    *http.Client
	http    *http.Client
	token   string
}

// New builds a client for baseURL whose transport is traced with otelhttp.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
}

func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		base:    hc,
		http:    hc,
	}
}

// WithToken returns a client that sends token as a bearer credential on
// every request. An empty token yields an unauthenticated client.
func (c *Client) WithToken(token string) *Client {
	return &Client{
		baseURL: c.baseURL,
		base:    c.base,
		http:    auth.TokenClient(c.base, token),
		token:   token,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Authenticated() bool {
	return c.token != ""
}

// Upload is a file forwarded to the backend in a multipart body.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, body, contentType, out)
}

func (c *Client) doMultipart(ctx context.Context, op, method, path string, fields []formField, fileField string, file *Upload) error {
	body, contentType, err := encodeMultipart(fields, fileField, file)
	if err != nil {
		return fmt.Errorf("%s: encode form: %w", op, err)
	}
	return c.do(ctx, op, method, path, body, contentType, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		observe(op, "error")
		return fmt.Errorf("%s: send request: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		observe(op, "error")
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	observe(op, statusClass(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Body: truncate(string(data), 512)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

type formField struct {
	name  string
	value string
}

func encodeMultipart(fields []formField, fileField string, file *Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fileField, escapeQuotes(file.Filename)))
		ct := file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
