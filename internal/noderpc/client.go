// Package noderpc is a JSON-RPC 1.0 over HTTP client for Bitcoin-style node
// control interfaces.
//
// A Client is an immutable value bound to one set of credentials. Every call
// is a single HTTP POST; nothing is retried or cached. Failures are returned
// as *common.Error with one of the remote kinds:
//
//   - KindRemoteConnection: the request never produced a response body
//   - KindRemoteParse: the body is not a JSON-RPC response, or the result
//     does not fit the expected type
//   - KindRemoteProtocol: the node answered with an error object; Code and
//     Message hold it verbatim
//   - KindRemoteEmptyResult: neither result nor error was present
package noderpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/nodekeeper/internal/common"
	"github.com/dmitrijs2005/nodekeeper/internal/netx"
)

// DefaultTimeout bounds a whole call when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response body is read.
var maxResponseBytes int64 = 8 << 20

// Credentials address one node.
type Credentials struct {
	URL      string
	User     string
	Password string
}

// Client issues JSON-RPC calls with HTTP Basic authentication.
type Client struct {
	creds   Credentials
	http    *http.Client
	timeout time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient makes the Client send requests through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every call made by the Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New returns a Client for creds.
func New(creds Credentials, opts ...Option) *Client {
	c := &Client{creds: creds, timeout: DefaultTimeout}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	} else if c.http.Timeout == 0 && c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *responseError  `json:"error"`
}

type responseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Call invokes method with params and decodes the result into out.
// A nil params is sent as an empty list.
func (c *Client) Call(ctx context.Context, method string, params []any, out any) error {
	if params == nil {
		params = []any{}
	}
	payload, err := json.Marshal(request{JSONRPC: "1.0", ID: method, Method: method, Params: params})
	if err != nil {
		return &common.Error{Kind: common.KindInternal, Message: "encode rpc request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.creds.URL, bytes.NewReader(payload))
	if err != nil {
		return &common.Error{Kind: common.KindRemoteConnection, Message: "build rpc request", Err: err}
	}
	req.SetBasicAuth(c.creds.User, c.creds.Password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &common.Error{Kind: common.KindRemoteConnection, Message: "rpc request failed", Err: err}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	_ = netx.DrainAndClose(resp.Body)
	if err != nil {
		return &common.Error{Kind: common.KindRemoteConnection, Message: "read rpc response", Err: err}
	}
	if int64(len(body)) > maxResponseBytes {
		return &common.Error{
			Kind:    common.KindRemoteParse,
			Message: fmt.Sprintf("rpc response exceeds %d bytes (http %d)", maxResponseBytes, resp.StatusCode),
		}
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return &common.Error{
			Kind:    common.KindRemoteParse,
			Message: fmt.Sprintf("decode rpc response (http %d)", resp.StatusCode),
			Err:     err,
		}
	}

	// bitcoind answers RPC errors with HTTP 500 and a well-formed body, so the
	// body decides, not the status code.
	if r.Error != nil {
		return &common.Error{Kind: common.KindRemoteProtocol, Code: r.Error.Code, Message: r.Error.Message}
	}
	if isNull(r.Result) {
		return &common.Error{Kind: common.KindRemoteEmptyResult, Message: "rpc returned no result"}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(r.Result, out); err != nil {
		return &common.Error{Kind: common.KindRemoteParse, Message: fmt.Sprintf("decode %s result", method), Err: err}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
