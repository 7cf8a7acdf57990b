package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/filereview/internal/logging"
	"github.com/dmitrijs2005/filereview/internal/server/blobstore"
	"github.com/dmitrijs2005/filereview/internal/server/config"
	"github.com/dmitrijs2005/filereview/internal/server/credentials"
	"github.com/dmitrijs2005/filereview/internal/server/preview"
	"github.com/dmitrijs2005/filereview/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filereview/internal/server/services"
	"github.com/dmitrijs2005/filereview/internal/server/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	m, err := repomanager.Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	cfg := &config.Config{
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: time.Hour,
		MaxUploadSize:               1 << 20,
		PreviewMaxRows:              50,
	}
	blobs := blobstore.NewFSStore(filepath.Join(t.TempDir(), "uploads"))
	l := logging.Nop()

	us := services.NewUserService(m.DB(), m, credentials.Plaintext{}, cfg)
	ups := services.NewUploadService(m.DB(), m, us, blobs, cfg.MaxUploadSize, l)
	rs := services.NewRetrievalService(m.DB(), m, blobs, preview.NewParser(cfg.PreviewMaxRows))

	s, err := NewServer("127.0.0.1:0", l, session.NewManager(time.Minute), us, ups, rs, 4<<20)
	require.NoError(t, err)
	return s
}

type result struct {
	status  int
	body    string
	header  http.Header
	cookies []*http.Cookie
}

func send(t *testing.T, s *Server, req *http.Request, cookies []*http.Cookie) result {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return result{status: resp.StatusCode, body: string(b), header: resp.Header, cookies: resp.Cookies()}
}

func postForm(t *testing.T, s *Server, target string, form url.Values, cookies []*http.Cookie) result {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return send(t, s, req, cookies)
}

func get(t *testing.T, s *Server, target string, cookies []*http.Cookie) result {
	t.Helper()
	return send(t, s, httptest.NewRequest(http.MethodGet, target, nil), cookies)
}

func multipartRequest(t *testing.T, target, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func signupAndLogin(t *testing.T, s *Server) []*http.Cookie {
	t.Helper()
	r := postForm(t, s, "/signup", url.Values{
		"email": {"alice@example.com"}, "username": {"alice"},
		"password": {"s3cret"}, "confirm_password": {"s3cret"},
	}, nil)
	require.Equal(t, http.StatusOK, r.status, r.body)

	r = postForm(t, s, "/login", url.Values{"identifier": {"alice@example.com"}, "password": {"s3cret"}}, nil)
	require.Equal(t, http.StatusSeeOther, r.status, r.body)
	require.NotEmpty(t, r.cookies)
	return r.cookies
}

// --- pages ---

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	r := get(t, s, "/healthz", nil)
	assert.Equal(t, http.StatusOK, r.status)
	assert.JSONEq(t, `{"status":"ok"}`, r.body)
}

func TestHomeAndForms(t *testing.T) {
	s := newTestServer(t)

	r := get(t, s, "/", nil)
	assert.Equal(t, http.StatusOK, r.status)
	assert.Contains(t, r.body, "Welcome to the Review Analysis App")

	assert.Contains(t, get(t, s, "/signup", nil).body, `name="confirm_password"`)
	assert.Contains(t, get(t, s, "/login", nil).body, `name="identifier"`)
}

func TestSignupPage_Errors(t *testing.T) {
	s := newTestServer(t)
	form := url.Values{
		"email": {"alice@example.com"}, "username": {"alice"},
		"password": {"a"}, "confirm_password": {"b"},
	}

	r := postForm(t, s, "/signup", form, nil)
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Contains(t, r.body, "Passwords do not match.")

	form.Set("confirm_password", "a")
	r = postForm(t, s, "/signup", form, nil)
	assert.Equal(t, http.StatusOK, r.status)
	assert.Contains(t, r.body, "Account created successfully! Please login.")

	r = postForm(t, s, "/signup", form, nil)
	assert.Equal(t, http.StatusConflict, r.status)
	assert.Contains(t, r.body, "already exists")

	// sign-up never logs in
	r = get(t, s, "/review", r.cookies)
	assert.Equal(t, http.StatusUnauthorized, r.status)
}

func TestLoginPage_BadCredentials(t *testing.T) {
	s := newTestServer(t)

	r := postForm(t, s, "/login", url.Values{"identifier": {"ghost"}, "password": {"x"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)
	assert.Contains(t, r.body, "Invalid Login Credentials")
}

func TestReview_RequiresLogin(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{"/review", "/review?view=files", "/review/files/preview?name=a.csv", "/review/files/download?name=a.csv"} {
		r := get(t, s, target, nil)
		assert.Equal(t, http.StatusUnauthorized, r.status, target)
		assert.Contains(t, r.body, "Please log in to access the review analysis.", target)
	}

	r := send(t, s, multipartRequest(t, "/review/upload", "a.csv", "text/csv", []byte("a\n1\n")), nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)
}

func TestReview_UploadListPreviewDownloadLogout(t *testing.T) {
	s := newTestServer(t)
	cookies := signupAndLogin(t, s)

	r := get(t, s, "/review", cookies)
	assert.Equal(t, http.StatusOK, r.status)
	assert.Contains(t, r.body, "Welcome, alice!")
	assert.Contains(t, r.body, `name="file"`)

	first := []byte("name,score\nann,1\n")
	second := []byte("name,score\nann,1\nbob,2\n")

	r = send(t, s, multipartRequest(t, "/review/upload", "report.csv", "text/csv", first), cookies)
	require.Equal(t, http.StatusOK, r.status, r.body)
	assert.Contains(t, r.body, "File Name: report.csv")
	assert.Contains(t, r.body, "File Type: text/csv")
	assert.Contains(t, r.body, fmt.Sprintf("File Size: %d bytes", len(first)))
	assert.Contains(t, r.body, "<td>ann</td>")

	r = send(t, s, multipartRequest(t, "/review/upload", "report.csv", "text/csv", second), cookies)
	require.Equal(t, http.StatusOK, r.status, r.body)

	r = get(t, s, "/review?view=files", cookies)
	assert.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, 1, strings.Count(r.body, "File: report.csv"), "duplicates are shown once")

	r = get(t, s, "/review/files/preview?name=report.csv", cookies)
	assert.Equal(t, http.StatusOK, r.status)
	assert.Contains(t, r.body, "Content of report.csv")
	assert.Contains(t, r.body, "<td>bob</td>")

	r = get(t, s, "/review/files/download?name=report.csv", cookies)
	assert.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "application/octet-stream", r.header.Get("Content-Type"))
	assert.Equal(t, "attachment; filename=report.csv", r.header.Get("Content-Disposition"))
	assert.Equal(t, string(second), r.body)

	r = get(t, s, "/review/files/download?name=missing.csv", cookies)
	assert.Equal(t, http.StatusNotFound, r.status)
	assert.Contains(t, r.body, "File not found.")

	r = postForm(t, s, "/logout", url.Values{}, cookies)
	assert.Equal(t, http.StatusSeeOther, r.status)

	r = get(t, s, "/review", cookies)
	assert.Equal(t, http.StatusUnauthorized, r.status)
}

func TestReview_UploadErrors(t *testing.T) {
	s := newTestServer(t)
	cookies := signupAndLogin(t, s)

	r := send(t, s, multipartRequest(t, "/review/upload", "slides.pdf", "application/pdf", []byte("%PDF")), cookies)
	assert.Equal(t, http.StatusBadRequest, r.status)
	assert.Contains(t, r.body, "Only .txt, .csv and .xlsx files can be uploaded.")

	// stored, but the preview fails
	r = send(t, s, multipartRequest(t, "/review/upload", "bad.csv", "text/csv", []byte("a,b\n1,2,3\n")), cookies)
	assert.Equal(t, http.StatusOK, r.status)
	assert.Contains(t, r.body, "File Name: bad.csv")
	assert.Contains(t, r.body, "Unable to parse the file.")

	r = get(t, s, "/review/files/preview?name=bad.csv", cookies)
	assert.Equal(t, http.StatusUnprocessableEntity, r.status)
	assert.Contains(t, r.body, "line 2")
}

// --- JSON API ---

func apiJSON(t *testing.T, s *Server, method, target, token string, body any) result {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return send(t, s, req, nil)
}

func apiToken(t *testing.T, s *Server) string {
	t.Helper()
	r := apiJSON(t, s, http.MethodPost, "/api/v1/signup", "", map[string]string{
		"username": "bob", "email": "bob@example.com", "password": "pw", "confirm_password": "pw",
	})
	require.Equal(t, http.StatusCreated, r.status, r.body)

	r = apiJSON(t, s, http.MethodPost, "/api/v1/login", "", map[string]string{"identifier": "bob", "password": "pw"})
	require.Equal(t, http.StatusOK, r.status, r.body)

	var out struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.body), &out))
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

func TestAPI_AuthErrors(t *testing.T) {
	s := newTestServer(t)

	r := apiJSON(t, s, http.MethodGet, "/api/v1/files", "", nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)

	r = apiJSON(t, s, http.MethodGet, "/api/v1/files", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, r.status)

	r = apiJSON(t, s, http.MethodPost, "/api/v1/login", "", map[string]string{"identifier": "nobody", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, r.status)
	assert.JSONEq(t, `{"error":"Invalid Login Credentials"}`, r.body)

	_ = apiToken(t, s)
	r = apiJSON(t, s, http.MethodPost, "/api/v1/signup", "", map[string]string{
		"username": "bob", "email": "x@example.com", "password": "pw", "confirm_password": "pw",
	})
	assert.Equal(t, http.StatusConflict, r.status)
}

func TestAPI_Files(t *testing.T) {
	s := newTestServer(t)
	token := apiToken(t, s)

	upload := func(name, ct string, data []byte) result {
		req := multipartRequest(t, "/api/v1/files", name, ct, data)
		req.Header.Set("Authorization", "Bearer "+token)
		return send(t, s, req, nil)
	}

	r := upload("a.txt", "text/plain", []byte("x\ty\n1\t2\n"))
	require.Equal(t, http.StatusCreated, r.status, r.body)
	r = upload("a.txt", "text/plain", []byte("x\ty\n3\t4\n"))
	require.Equal(t, http.StatusCreated, r.status, r.body)

	r = upload("a.exe", "application/octet-stream", []byte("MZ"))
	assert.Equal(t, http.StatusBadRequest, r.status)

	r = apiJSON(t, s, http.MethodGet, "/api/v1/files", token, nil)
	assert.JSONEq(t, `{"files":["a.txt"]}`, r.body)
	r = apiJSON(t, s, http.MethodGet, "/api/v1/files?all=true", token, nil)
	assert.JSONEq(t, `{"files":["a.txt","a.txt"]}`, r.body)

	r = apiJSON(t, s, http.MethodGet, "/api/v1/files/preview?name=a.txt", token, nil)
	assert.Equal(t, http.StatusOK, r.status)
	assert.JSONEq(t, `{"kind":"delimited","columns":["x","y"],"rows":[["3","4"]],"truncated":false}`, r.body)

	r = apiJSON(t, s, http.MethodGet, "/api/v1/files/preview?name=missing.csv", token, nil)
	assert.Equal(t, http.StatusNotFound, r.status)

	r = apiJSON(t, s, http.MethodGet, "/api/v1/files/preview?name=a.bin", token, nil)
	assert.Equal(t, http.StatusUnsupportedMediaType, r.status)

	r = apiJSON(t, s, http.MethodGet, "/api/v1/files/download?name=a.txt", token, nil)
	assert.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "x\ty\n3\t4\n", r.body)
	assert.Equal(t, "attachment; filename=a.txt", r.header.Get("Content-Disposition"))
}
