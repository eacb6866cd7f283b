package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sia-rendimiento-api/pkg/config"
)

func TestBatches(t *testing.T) {
	tokens := make([]string, 0, 1901)
	for i := 0; i < 1900; i++ {
		tokens = append(tokens, fmt.Sprintf("tok-%d", i))
	}
	tokens = append(tokens, "", "tok-1")

	batches := Batches(tokens, MaxBatchSize)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 900)
	assert.Len(t, batches[1], 900)
	assert.Len(t, batches[2], 100)
	assert.Empty(t, Batches(nil, 10))
}

func TestFCMClientSendBatches(t *testing.T) {
	var (
		mu       sync.Mutex
		requests []fcmRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key=server-key", r.Header.Get("Authorization"))
		var body fcmRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		requests = append(requests, body)
		mu.Unlock()
		_ = json.NewEncoder(w).Encode(fcmResponse{Success: len(body.RegistrationIDs)})
	}))
	defer srv.Close()

	client := NewFCMClient(config.NotificationsConfig{Endpoint: srv.URL, ServerKey: "server-key", BatchSize: 2})
	result, err := client.Send(context.Background(), []string{"a", "b", "c"}, Message{Title: "Calificaciones actualizadas", Body: "x"})
	require.NoError(t, err)

	assert.Equal(t, SendResult{Batches: 2, Success: 3}, result)
	require.Len(t, requests, 2)
	assert.Equal(t, "Calificaciones actualizadas", requests[0].Notification.Title)
}

func TestFCMClientErrors(t *testing.T) {
	_, err := NewFCMClient(config.NotificationsConfig{}).Send(context.Background(), []string{"a"}, Message{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()
	result, err := NewFCMClient(config.NotificationsConfig{Endpoint: srv.URL, ServerKey: "k"}).Send(context.Background(), []string{"a"}, Message{})
	assert.ErrorContains(t, err, "401")
	assert.Equal(t, []string{"a"}, result.FailedTokens)
}

func TestFCMClientSendContinuesAfterFailedBatch(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body fcmRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if atomic.AddInt32(&calls, 1) == 2 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(fcmResponse{Success: len(body.RegistrationIDs)})
	}))
	defer srv.Close()

	client := NewFCMClient(config.NotificationsConfig{Endpoint: srv.URL, ServerKey: "k", BatchSize: 2})
	result, err := client.Send(context.Background(), []string{"a", "b", "c", "d", "e"}, Message{})

	assert.ErrorContains(t, err, "503")
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	assert.Equal(t, 3, result.Batches)
	assert.Equal(t, 3, result.Success)
	assert.Equal(t, 2, result.Failure)
	assert.Equal(t, []string{"c", "d"}, result.FailedTokens)
}
