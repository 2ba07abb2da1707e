package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/common"
)

func TestWebhookService_Push(t *testing.T) {
	var received textMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	service, err := NewWebhookService(&common.WebhookConfig{
		URL:       server.URL,
		Timeout:   "5s",
		RateLimit: "1ms",
	}, arbor.NewLogger())
	require.NoError(t, err)
	require.True(t, service.Enabled())

	require.NoError(t, service.Push(context.Background(), "daily report body"))
	assert.Equal(t, "text", received.MsgType)
	assert.Equal(t, "daily report body", received.Text.Content)
}

func TestWebhookService_PushErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusForbidden)
	}))
	defer server.Close()

	service, err := NewWebhookService(&common.WebhookConfig{
		URL:       server.URL,
		Timeout:   "5s",
		RateLimit: "1ms",
	}, arbor.NewLogger())
	require.NoError(t, err)

	err = service.Push(context.Background(), "report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestWebhookService_DisabledIsNoOp(t *testing.T) {
	service, err := NewWebhookService(&common.WebhookConfig{}, arbor.NewLogger())
	require.NoError(t, err)
	assert.False(t, service.Enabled())
	assert.NoError(t, service.Push(context.Background(), "dropped"))
}

func TestWebhookService_InvalidRateLimit(t *testing.T) {
	_, err := NewWebhookService(&common.WebhookConfig{RateLimit: "soon"}, arbor.NewLogger())
	assert.Error(t, err)
}
