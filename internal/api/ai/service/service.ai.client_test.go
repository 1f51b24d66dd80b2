package aisvc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"bienfaire_commerce/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(endpoints ...string) *Client {
	return NewClient(endpoints, "test-model", "", 2*time.Second)
}

func TestReply_NoEndpoints(t *testing.T) {
	client := newTestClient()
	_, err := client.Reply(context.Background(), "bonjour", nil, "", "")
	require.ErrorIs(t, err, common.ErrAIUnavailable)
	assert.False(t, client.Available())
}

func TestReply_FallsBackToNextEndpoint(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"reply":"Bonjour !"}`))
	}))
	defer healthy.Close()

	client := newTestClient(broken.URL, healthy.URL)
	reply, err := client.Reply(context.Background(), "bonjour", nil, "", "")

	require.NoError(t, err)
	assert.Equal(t, "Bonjour !", reply)
	// Một endpoint vẫn trả lời được thì không có cool-down
	assert.True(t, client.Available())
}

func TestReply_CooldownAfterTotalFailure(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Reply(context.Background(), "bonjour", nil, "", "")
	require.ErrorIs(t, err, common.ErrAIUnavailable)
	require.EqualValues(t, 1, atomic.LoadInt64(&calls))
	assert.False(t, client.Available())
	assert.True(t, client.DisabledUntil().After(time.Now()))

	// Trong cửa sổ cool-down: bị chặn cục bộ, không phát sinh HTTP call nào
	_, err = client.Reply(context.Background(), "encore", nil, "", "")
	require.ErrorIs(t, err, common.ErrAICoolingDown)
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
}

func TestReply_CooldownExpiresThenSuccessClears(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"reply":"De retour"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.mu.Lock()
	client.disabledUntil = time.Now().Add(-time.Second) // cửa sổ đã qua
	client.mu.Unlock()

	reply, err := client.Reply(context.Background(), "bonjour", nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, "De retour", reply)
	assert.True(t, client.DisabledUntil().IsZero(), "thành công phải xóa dấu vết cool-down")
}

func TestReply_EmptyReplyCountsAsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"reply":""}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Reply(context.Background(), "bonjour", nil, "", "")
	require.ErrorIs(t, err, common.ErrAIUnavailable)
	assert.False(t, client.Available())
}
