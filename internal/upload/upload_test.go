package upload_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsarma/folio/internal/upload"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func pngOfSize(n int) []byte {
	b := make([]byte, n)
	copy(b, pngHeader)
	return b
}

func imgbbServer(t *testing.T, status int, body string, got *[]byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		file, header, err := r.FormFile("image")
		if assert.NoError(t, err) {
			assert.Equal(t, "cat.png", header.Filename)
			data, _ := io.ReadAll(file)
			if got != nil {
				*got = data
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestUpload_StreamsImage(t *testing.T) {
	var received []byte
	srv := imgbbServer(t, http.StatusOK, `{"success":true,"status":200,"data":{"url":"https://i.ibb.co/x/cat.png","display_url":"https://ibb.co/x","delete_url":"https://ibb.co/x/del","width":"640","height":480,"size":5000}}`, &received)
	defer srv.Close()

	src := pngOfSize(5000)
	r := upload.NewRelay(upload.Config{APIKey: "test-key", Endpoint: srv.URL})
	res, err := r.Upload(context.Background(), "cat.png", bytes.NewReader(src))

	require.NoError(t, err)
	assert.Equal(t, "https://i.ibb.co/x/cat.png", res.URL)
	assert.Equal(t, "https://ibb.co/x", res.DisplayURL)
	assert.Equal(t, 640, res.Width)
	assert.Equal(t, 480, res.Height)
	assert.Equal(t, "image/png", res.MimeType)
	assert.Equal(t, src, received)
}

func TestUpload_RejectsNonImage(t *testing.T) {
	r := upload.NewRelay(upload.Config{APIKey: "test-key", Endpoint: "http://127.0.0.1:1"})
	_, err := r.Upload(context.Background(), "notes.txt", strings.NewReader("just some text, not an image"))
	assert.ErrorIs(t, err, upload.ErrUnsupportedType)

	_, err = r.Upload(context.Background(), "empty.png", strings.NewReader(""))
	assert.ErrorIs(t, err, upload.ErrUnsupportedType)
}

func TestUpload_AcceptsSVG(t *testing.T) {
	srv := imgbbServer(t, http.StatusOK, `{"success":true,"data":{"url":"https://i.ibb.co/y/logo.svg"}}`, nil)
	defer srv.Close()

	r := upload.NewRelay(upload.Config{APIKey: "test-key", Endpoint: srv.URL})
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`
	res, err := r.Upload(context.Background(), "cat.png", strings.NewReader(svg))
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", res.MimeType)
}

func TestUpload_ProviderError(t *testing.T) {
	srv := imgbbServer(t, http.StatusBadRequest, `{"success":false,"status":400,"error":{"message":"Invalid API v1 key."}}`, nil)
	defer srv.Close()

	r := upload.NewRelay(upload.Config{APIKey: "test-key", Endpoint: srv.URL})
	_, err := r.Upload(context.Background(), "cat.png", bytes.NewReader(pngOfSize(100)))
	require.ErrorIs(t, err, upload.ErrUpstream)
	assert.Contains(t, err.Error(), "Invalid API v1 key.")
}

func TestUpload_TooLargeDuringSniff(t *testing.T) {
	r := upload.NewRelay(upload.Config{APIKey: "test-key", Endpoint: "http://127.0.0.1:1"})
	src := http.MaxBytesReader(nil, io.NopCloser(bytes.NewReader(pngOfSize(4000))), 1000)
	_, err := r.Upload(context.Background(), "cat.png", src)
	assert.ErrorIs(t, err, upload.ErrTooLarge)
}

func TestRelay_Enabled(t *testing.T) {
	assert.False(t, upload.NewRelay(upload.Config{}).Enabled())
	assert.True(t, upload.NewRelay(upload.Config{APIKey: "k"}).Enabled())
}
