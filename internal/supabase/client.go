// Package supabase is the client for the hosted backend: the pizza catalog
// table, password auth and the clients profile table. Table access goes
// through postgrest-go and auth through gotrue-go.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/postgrest-go"

	"github.com/fairyhunter13/pizzeria-storefront/internal/obs"
)

// codeNoRows is the PostgREST code for a single-object request that matched
// nothing.
const codeNoRows = "PGRST116"

// ErrNoRows is returned when a single-object query matched no row.
var ErrNoRows = errors.New("supabase: no rows returned")

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: %d: %s", e.Status, e.Message)
}

// Client talks to one backend project. It is safe for concurrent use: every
// call builds its own postgrest or gotrue client bound to the call context.
type Client struct {
	baseURL string
	anonKey string
	timeout time.Duration
	base    http.RoundTripper
}

// New returns a Client for baseURL authenticated with the anon key.
func New(baseURL, anonKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		timeout: timeout,
		base:    http.DefaultTransport,
	}
}

// callTransport binds one call's context to every request and remembers the
// last response status, which the library clients do not expose.
type callTransport struct {
	ctx  context.Context
	base http.RoundTripper

	mu     sync.Mutex
	status int
}

func (t *callTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req.WithContext(t.ctx))
	if resp != nil {
		t.mu.Lock()
		t.status = resp.StatusCode
		t.mu.Unlock()
	}
	return resp, err
}

func (t *callTransport) lastStatus() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (c *Client) bearer(token string) string {
	if token == "" {
		token = c.anonKey
	}
	return "Bearer " + token
}

func (c *Client) rest(ct *callTransport, token string) *postgrest.Client {
	pc := postgrest.NewClient(c.baseURL+"/rest/v1", "public", map[string]string{
		"apikey":        c.anonKey,
		"Authorization": c.bearer(token),
	})
	if pc.Transport != nil {
		pc.Transport.Parent = ct
	}
	return pc
}

func (c *Client) auth(ct *callTransport, token string) gotrue.Client {
	gc := gotrue.New("", c.anonKey).
		WithCustomGoTrueURL(c.baseURL + "/auth/v1").
		WithClient(http.Client{Transport: ct})
	if token != "" {
		gc = gc.WithToken(token)
	}
	return gc
}

// call runs fn under the client timeout and translates library errors into
// ErrNoRows or *APIError.
func (c *Client) call(ctx context.Context, op string, fn func(ct *callTransport) error) (err error) {
	defer func() {
		if err != nil && !errors.Is(err, ErrNoRows) {
			obs.Metrics.BackendErrors.WithLabelValues(op).Inc()
		}
	}()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	ct := &callTransport{ctx: ctx, base: c.base}
	if err := fn(ct); err != nil {
		return translate(op, ct.lastStatus(), err)
	}
	return nil
}

var (
	restErrPattern = regexp.MustCompile(`(?s)^\(([^)]*)\) (.*)$`)
	authErrPattern = regexp.MustCompile(`(?s)^response status code \d+(?:: (.*))?$`)
)

func translate(op string, status int, err error) error {
	if status < 300 {
		return fmt.Errorf("%s: %w", op, err)
	}
	msg := err.Error()
	if m := restErrPattern.FindStringSubmatch(msg); m != nil {
		if m[1] == codeNoRows {
			return ErrNoRows
		}
		return &APIError{Status: status, Code: m[1], Message: m[2]}
	}
	if m := authErrPattern.FindStringSubmatch(msg); m != nil {
		return decodeError(status, []byte(m[1]))
	}
	return &APIError{Status: status, Message: msg}
}

// decodeError understands both the PostgREST and the auth error shapes.
func decodeError(status int, raw []byte) *APIError {
	var body struct {
		Code             any    `json:"code"`
		ErrorCode        string `json:"error_code"`
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	e := &APIError{Status: status}
	if err := json.Unmarshal(raw, &body); err != nil {
		e.Message = strings.TrimSpace(string(raw))
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
		return e
	}
	if s, ok := body.Code.(string); ok {
		e.Code = s
	}
	if body.ErrorCode != "" {
		e.Code = body.ErrorCode
	}
	for _, m := range []string{body.Message, body.Msg, body.ErrorDescription, body.Error} {
		if m != "" {
			e.Message = m
			break
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
