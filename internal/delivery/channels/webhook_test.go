package channels

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookPayload_Marshal(t *testing.T) {
	payload := &WebhookPayload{
		Event:     "new_user_message",
		ChatID:    "chat_user_abc123",
		UserName:  "Awa",
		UserEmail: "awa@example.com",
		Text:      "Bonjour, ma commande ?",
		At:        1700000000000,
	}

	body, err := payload.Marshal()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))

	// Các key JSON là contract với bên nhận webhook, không được đổi tên
	assert.Equal(t, "new_user_message", decoded["event"])
	assert.Equal(t, "chat_user_abc123", decoded["chatId"])
	assert.Equal(t, "Awa", decoded["userName"])
	assert.Equal(t, "awa@example.com", decoded["userEmail"])
	assert.Equal(t, "Bonjour, ma commande ?", decoded["text"])
	assert.Equal(t, float64(1700000000000), decoded["at"])
}

func TestSendWebhook_PostsBodyAndSignature(t *testing.T) {
	var gotBody []byte
	var gotSignature, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSignature = r.Header.Get("X-Signature")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	body := []byte(`{"event":"new_user_message"}`)
	err := SendWebhook(context.Background(), server.URL, body, "abc123signature")

	require.NoError(t, err)
	assert.Equal(t, body, gotBody)
	assert.Equal(t, "abc123signature", gotSignature)
	assert.Equal(t, "application/json", gotContentType)
}

func TestSendWebhook_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := SendWebhook(context.Background(), server.URL, []byte(`{}`), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
