// Package client talks to the file review JSON API.
//
// HTTPClient keeps the access token returned by Login and sends it as a
// bearer token on every /files call. Transport failures map to
// ErrUnavailable and 401 responses to ErrUnauthorized; other non-2xx
// responses surface as *netx.StatusError carrying the server's message.
package client

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
	"sync"
	"time"

	"github.com/dmitrijs2005/filereview/internal/common"
	"github.com/dmitrijs2005/filereview/internal/netx"
)

// Client is the API surface used by the CLI.
type Client interface {
	Signup(ctx context.Context, req SignupRequest) (*Account, error)
	Login(ctx context.Context, identifier, password string) (string, error)
	Logout()
	ListFiles(ctx context.Context, all bool) ([]string, error)
	Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error)
	Preview(ctx context.Context, name string) (*Table, error)
	Download(ctx context.Context, name string) (*File, error)
}

type SignupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type Account struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type UploadResult struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	Size     int    `json:"size"`
}

// Table mirrors the preview response.
type Table struct {
	Kind      string     `json:"kind"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	Truncated bool       `json:"truncated"`
}

// File is a downloaded payload.
type File struct {
	Filename string
	Data     []byte
}

const apiPrefix = "/api/v1"

type HTTPClient struct {
	baseURL string
	hc      *http.Client

	mu          sync.RWMutex
	accessToken string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient accepts either a full URL or a bare host:port.
func NewHTTPClient(serverURL string, timeout time.Duration) (*HTTPClient, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("%w: empty server address", common.ErrorValidation)
	}
	if !strings.Contains(serverURL, "://") {
		serverURL = "http://" + serverURL
	}
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("%w: server address: %v", common.ErrorValidation, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: server address has no host", common.ErrorValidation)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		hc:      &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *HTTPClient) setToken(t string) {
	c.mu.Lock()
	c.accessToken = t
	c.mu.Unlock()
}

func (c *HTTPClient) endpoint(p string, q url.Values) string {
	s := c.baseURL + apiPrefix + p
	if len(q) > 0 {
		s += "?" + q.Encode()
	}
	return s
}

// do sends req, attaching the token when one is held, and returns the
// response only when it is 2xx.
func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	if t := c.token(); t != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+t)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := netx.CheckResponse(resp); err != nil {
		resp.Body.Close()
		var se *netx.StatusError
		if errors.As(err, &se) && se.Code == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, se.Message)
		}
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, p string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(p, q), nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) postJSON(ctx context.Context, p string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(p, nil), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) Signup(ctx context.Context, r SignupRequest) (*Account, error) {
	var acc Account
	if err := c.postJSON(ctx, "/signup", r, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Login stores the returned access token for subsequent calls and returns
// the canonical username.
func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (string, error) {
	in := map[string]string{"identifier": identifier, "password": password}

	var out struct {
		AccessToken string `json:"access_token"`
		Username    string `json:"username"`
	}
	if err := c.postJSON(ctx, "/login", in, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrUnauthorized)
	}

	c.setToken(out.AccessToken)
	return out.Username, nil
}

// Logout forgets the access token. Tokens are stateless on the server.
func (c *HTTPClient) Logout() {
	c.setToken("")
}

func (c *HTTPClient) ListFiles(ctx context.Context, all bool) ([]string, error) {
	var q url.Values
	if all {
		q = url.Values{"all": {"true"}}
	}

	var out struct {
		Files []string `json:"files"`
	}
	if err := c.getJSON(ctx, "/files/", q, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

func (c *HTTPClient) Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	req, err := netx.NewMultipartRequest(ctx, c.endpoint("/files/", nil), "file", filename, data)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var res UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Preview(ctx context.Context, name string) (*Table, error) {
	var t Table
	if err := c.getJSON(ctx, "/files/preview", url.Values{"name": {name}}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Download falls back to name when the response carries no filename.
func (c *HTTPClient) Download(ctx context.Context, name string) (*File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/files/download", url.Values{"name": {name}}), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	filename := netx.AttachmentFilename(resp.Header)
	if filename == "" {
		filename = name
	}
	return &File{Filename: filename, Data: data}, nil
}
