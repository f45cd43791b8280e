package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost(t *testing.T) {
	var got webhookPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient()
	err := client.Post(context.Background(), server.URL, Event{
		Title:       "VM Reinstall Complete",
		Description: "ws-0001 is ready.",
		Outcome:     OutcomeSuccess,
		Fields: []Field{
			{Name: "Endpoint", Value: "vms.example.net:3389", Inline: true},
		},
	})
	require.NoError(t, err)

	require.Len(t, got.Embeds, 1)
	e := got.Embeds[0]
	assert.Equal(t, "VM Reinstall Complete", e.Title)
	assert.Equal(t, outcomeColors[OutcomeSuccess], e.Color)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "Endpoint", e.Fields[0].Name)
	assert.NotEmpty(t, e.Timestamp)
}

func TestPostOutcomeColors(t *testing.T) {
	var colors []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p webhookPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		colors = append(colors, p.Embeds[0].Color)
	}))
	defer server.Close()

	client := NewClient()
	for _, outcome := range []Outcome{OutcomeStarted, OutcomeSuccess, OutcomeWarning, OutcomeFailure} {
		require.NoError(t, client.Post(context.Background(), server.URL, Event{Title: "t", Outcome: outcome}))
	}

	assert.Equal(t, []int{
		outcomeColors[OutcomeStarted],
		outcomeColors[OutcomeSuccess],
		outcomeColors[OutcomeWarning],
		outcomeColors[OutcomeFailure],
	}, colors)
}

func TestPostEmptyURLIsNoop(t *testing.T) {
	client := NewClient()
	assert.NoError(t, client.Post(context.Background(), "", Event{Title: "ignored"}))
}

func TestPostServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient()
	err := client.Post(context.Background(), server.URL, Event{Title: "t", Outcome: OutcomeSuccess})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
