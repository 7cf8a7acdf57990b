package netx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckResponse(t *testing.T) {
	t.Run("2xx -> nil", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusCreated, Body: io.NopCloser(strings.NewReader(""))}
		require.NoError(t, CheckResponse(resp))
	})

	t.Run("json error body", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusConflict,
			Body:       io.NopCloser(strings.NewReader(`{"error":"Username or email already exists."}`)),
		}
		err := CheckResponse(resp)

		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusConflict, se.Code)
		assert.Equal(t, "Username or email already exists.", se.Message)
		assert.Contains(t, err.Error(), "409")
	})

	t.Run("plain body", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("upstream down\n")),
		}
		var se *StatusError
		require.True(t, errors.As(CheckResponse(resp), &se))
		assert.Equal(t, "upstream down", se.Message)
	})

	t.Run("empty body", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader(""))}
		assert.EqualError(t, CheckResponse(resp), "request failed: 404 Not Found")
	})
}

func TestNewMultipartRequest(t *testing.T) {
	var (
		gotMethod string
		gotName   string
		gotData   string
	)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		f, fh, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		gotName = fh.Filename
		gotData = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	req, err := NewMultipartRequest(context.Background(), ts.URL, "file", "data.csv", []byte("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data; boundary="))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.NoError(t, CheckResponse(resp))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "data.csv", gotName)
	assert.Equal(t, "a,b\n1,2\n", gotData)
}

func TestAttachmentFilename(t *testing.T) {
	h := http.Header{}
	assert.Equal(t, "", AttachmentFilename(h))

	h.Set("Content-Disposition", `attachment; filename="report.xlsx"`)
	assert.Equal(t, "report.xlsx", AttachmentFilename(h))

	h.Set("Content-Disposition", `attachment; filename*=utf-8''M%C3%BCnchen.xlsx`)
	assert.Equal(t, "München.xlsx", AttachmentFilename(h))

	h.Set("Content-Disposition", `attachment; filename=`)
	assert.Equal(t, "", AttachmentFilename(h))
}
