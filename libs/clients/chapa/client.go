package chapa

//go:generate mockgen -destination=mock/transport.go -package=mock_chapa . Transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/chapa-go/chapa/libs/clients"
	errorutils "github.com/chapa-go/chapa/libs/errors"
	"github.com/chapa-go/chapa/libs/requestutils"
)

// Transport sends a request to chapa. A non-2xx response or a network failure is an error.
// When v is not nil a 2xx JSON body is decoded into it.
type Transport interface {
	Do(ctx context.Context, req *http.Request, v interface{}) (*http.Response, error)
}

// API is the set of chapa operations
type API interface {
	TransactionInitialize(ctx context.Context, body Payload) (Result, error)
	TransactionVerify(ctx context.Context, txRef string) (Result, error)
}

// Client communicates with chapa.
//
// Requests share nothing but the transport, so a Client is safe for concurrent use
// when its transport is and SetTransport is not called while requests are in flight.
type Client struct {
	baseURL     string
	txRefPrefix string
	headers     http.Header
	transport   Transport
	newTxRef    func() string
}

// New returns a ready to use Client backed by a clients.SimpleHTTPClient
func New(cfg Config) (*Client, error) {
	c, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	transport, err := clients.New(c.baseURL, "")
	if err != nil {
		return nil, errorutils.New(ErrConfiguration, fmt.Sprintf("invalid chapa base url: %s", err), FieldState{Field: "base_url"})
	}
	c.transport = transport

	return c, nil
}

// NewWithTransport returns a Client sending its requests through t, a nil t keeps the default transport
func NewWithTransport(cfg Config, t Transport) (*Client, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if t != nil {
		c.SetTransport(t)
	}
	return c, nil
}

func newClient(cfg Config) (*Client, error) {
	if cfg.SecretKey == "" {
		return nil, newFieldError(ErrConfiguration, "secret_key", "chapa secret key is not configured")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, newFieldError(ErrConfiguration, "base_url", fmt.Sprintf("invalid chapa base url: %q", cfg.BaseURL))
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+cfg.SecretKey)
	headers.Set("Content-Type", "application/json")

	return &Client{
		baseURL:     baseURL,
		txRefPrefix: cfg.TxRefPrefix,
		headers:     headers,
		newTxRef:    newTxRef,
	}, nil
}

// SetTransport replaces the transport, headers and base url are kept
func (c *Client) SetTransport(t Transport) *Client {
	c.transport = t
	return c
}

// BaseURL the client sends its requests to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SendRequest sends body to the endpoint and returns the decoded response merged with extra.
// An empty method means POST, an empty body sends no content.
//
// A transport failure returns a Result with status false, message "Request failed" and
// the failure text under error_details, along with an error wrapping ErrRequestFailed.
func (c *Client) SendRequest(ctx context.Context, endpoint, method string, body, extra Payload) (Result, error) {
	if method == "" {
		method = http.MethodPost
	}

	var reader io.Reader
	if len(body) > 0 {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, newFieldError(ErrInvalidArgument, "body", fmt.Sprintf("request body cannot be encoded: %s", err))
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, newFieldError(ErrInvalidArgument, "endpoint", fmt.Sprintf("request cannot be built: %s", err))
	}
	req.Header = c.headers.Clone()
	requestutils.SetRequestID(ctx, req)

	resp, err := c.transport.Do(ctx, req, nil)
	if err != nil {
		return failureResult(err), newRequestError(req, err)
	}

	result := parseResponse(ctx, resp)
	for k, v := range extra {
		result[k] = v
	}

	return result, nil
}

func newRequestError(req *http.Request, err error) error {
	state, uerr := clients.UnwrapHTTPState(err)
	if uerr != nil {
		state = &clients.HTTPState{Path: req.URL.String()}
	}
	return errorutils.New(
		fmt.Errorf("%w: %w", ErrRequestFailed, err),
		fmt.Sprintf("%s %s failed: %s", req.Method, req.URL.Path, err),
		*state,
	)
}

// parseResponse decodes a JSON object body, anything else is an empty Result
func parseResponse(ctx context.Context, resp *http.Response) Result {
	if resp == nil || resp.Body == nil {
		return Result{}
	}

	b, err := requestutils.Read(ctx, resp.Body)
	if err != nil {
		return Result{}
	}

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		return Result{}
	}

	var result Result
	if err := json.Unmarshal(b, &result); err != nil || result == nil {
		return Result{}
	}

	return result
}
