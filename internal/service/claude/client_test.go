package claude

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memewatch/internal/scanerr"
	xhttp "memewatch/pkg/http"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(xhttp.NewClient(xhttp.WithTimeout(2*time.Second)), srv.URL, "test-key", "claude-3-opus-20240229", 1000)
}

func TestCompleteSendsImageAndReturnsText(t *testing.T) {
	img := []byte{0x89, 0x50, 0x4e, 0x47}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-3-opus-20240229", req.Model)
		assert.Equal(t, 1000, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		require.Len(t, req.Messages[0].Content, 2)
		assert.Equal(t, "text", req.Messages[0].Content[0].Type)
		require.NotNil(t, req.Messages[0].Content[1].Source)
		assert.Equal(t, "image/png", req.Messages[0].Content[1].Source.MediaType)
		assert.Equal(t, base64.StdEncoding.EncodeToString(img), req.Messages[0].Content[1].Source.Data)

		_, _ = w.Write([]byte(`{"content": [{"type": "text", "text": "Uptrend, support at $1.20."}]}`))
	})

	got, err := c.Complete(context.Background(), "Analyze this chart.", "image/png", img)
	require.NoError(t, err)
	assert.Equal(t, "Uptrend, support at $1.20.", got)
}

func TestCompleteEmptyResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": []}`))
	})
	_, err := c.Complete(context.Background(), "Analyze.", "image/png", []byte{1})
	assert.True(t, scanerr.Is(err, scanerr.CodeEmptyResponse))
}

func TestCompleteServiceUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.Complete(context.Background(), "Analyze.", "image/png", []byte{1})
	assert.True(t, scanerr.Is(err, scanerr.CodeServiceUnavailable))
}
