package backendsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/mawere/uniport/core"
	"github.com/mawere/uniport/core/account"
	"github.com/mawere/uniport/core/catalog"
	"github.com/mawere/uniport/core/session"
)

var (
	_ account.Backend  = (*Client)(nil)
	_ session.Verifier = (*Client)(nil)
	_ catalog.Catalog  = (*Client)(nil)
)

// Client talks to the student-records backend. Every authenticated request
// carries the bearer token read from the session store at call time, the way
// each page read it fresh from the client store.
//
// The underlying http.Client deliberately has no timeout: a hung call rides
// the transport's own limits, and callers treat transport failures as
// indeterminate rather than fatal.
type Client struct {
	baseURL string
	http    *http.Client
	store   session.Store
	log     core.Logger
}

func NewClient(conf *core.Config, store session.Store, log core.Logger) *Client {
	return &Client{
		baseURL: conf.API.BaseURL,
		http:    &http.Client{},
		store:   store,
		log:     log,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "encoding request body")
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	return req, nil
}

// authorize attaches the stored bearer token, if any. Absent tokens are the
// guard's problem, not the transport's.
func (c *Client) authorize(req *http.Request) {
	if token := c.store.Get(session.KeyToken); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// do performs the request, converting transport failures into NetworkError.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &core.NetworkError{Err: err}
	}
	return resp, nil
}

// decode drains and closes the body into out.
func decode(resp *http.Response, out interface{}) error {
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(err, "decoding response body")
	}
	return nil
}

// apiError reads a non-success response into an APIError carrying the
// server's message when the body has one.
func apiError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	return &core.APIError{StatusCode: resp.StatusCode, Message: msg}
}

func ok(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// getJSON is the common authenticated list/get call.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	if !ok(resp) {
		return apiError(resp)
	}
	return decode(resp, out)
}

// sendJSON posts/puts/deletes an authenticated payload, discarding any
// success body.
func (c *Client) sendJSON(ctx context.Context, method, path string, body interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	if !ok(resp) {
		return apiError(resp)
	}
	_ = resp.Body.Close()
	return nil
}

func (c *Client) debugf(format string, args ...interface{}) {
	if c.log != nil {
		c.log.Debug(fmt.Sprintf(format, args...))
	}
}
