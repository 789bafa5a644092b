package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHTTPClient() *http.Client {
	return NewHTTPClient(time.Second, 5*time.Second)
}

func TestOllamaClientComplete(t *testing.T) {
	var captured map[string]any
	var decoded api.ChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var raw json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		require.NoError(t, json.Unmarshal(raw, &captured))
		require.NoError(t, json.Unmarshal(raw, &decoded))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"test-model","message":{"role":"assistant","content":"Hi there"},"done":true,"eval_count":3}`))
	}))
	defer server.Close()

	client := NewOllamaClient(newTestHTTPClient(), server.URL+"/", "test-model", map[string]any{"temperature": 0.2})
	reply, err := client.Complete(context.Background(), BuildMessages("SYSTEM", nil, "hello"))
	require.NoError(t, err)
	assert.Equal(t, "Hi there", reply)

	assert.Equal(t, "test-model", captured["model"])
	assert.Equal(t, false, captured["stream"])
	require.Len(t, decoded.Messages, 2)
	assert.Equal(t, "system", decoded.Messages[0].Role)
	assert.Equal(t, "SYSTEM", decoded.Messages[0].Content)
	assert.Equal(t, "user", decoded.Messages[1].Role)
	assert.Equal(t, "hello", decoded.Messages[1].Content)
	assert.Equal(t, 0.2, decoded.Options["temperature"])
}

func TestOllamaClientStatusError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error with text body", status: http.StatusInternalServerError, body: "boom"},
		{name: "server error with json body", status: http.StatusInternalServerError, body: `{"error":"model crashed"}`},
		{name: "not found", status: http.StatusNotFound, body: `{"error":"model 'x' not found"}`},
		{name: "empty body", status: http.StatusBadGateway, body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewOllamaClient(newTestHTTPClient(), server.URL, "m", nil)
			_, err := client.Complete(context.Background(), BuildMessages("s", nil, "u"))
			require.Error(t, err)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, tt.body, statusErr.Body)
		})
	}
}

func TestOllamaClientMissingContentReturnsRawBody(t *testing.T) {
	body := `{"model":"m","done":true}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewOllamaClient(newTestHTTPClient(), server.URL, "m", nil)
	reply, err := client.Complete(context.Background(), BuildMessages("s", nil, "u"))
	require.NoError(t, err)
	assert.Equal(t, body, reply)
}

func TestOllamaClientInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewOllamaClient(newTestHTTPClient(), server.URL, "m", nil)
	_, err := client.Complete(context.Background(), BuildMessages("s", nil, "u"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode chat response")
}

func TestOllamaClientRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewOllamaClient(NewHTTPClient(time.Second, 50*time.Millisecond), server.URL, "m", nil)
	_, err := client.Complete(context.Background(), BuildMessages("s", nil, "u"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat request failed")

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestOllamaClientConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewOllamaClient(newTestHTTPClient(), url, "m", nil)
	_, err := client.Complete(context.Background(), BuildMessages("s", nil, "u"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat request failed")
}
