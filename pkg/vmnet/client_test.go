package vmnet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserve(t *testing.T) {
	var got Reservation
	var gotToken string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/reservations", r.URL.Path)
		gotToken = r.Header.Get("X-Api-Token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(server.URL+"/api", "sekrit")
	require.NoError(t, err)

	err = client.Reserve(context.Background(), "ws-0001", "00:0c:29:aa:bb:cc", "192.168.119.130")
	require.NoError(t, err)

	assert.Equal(t, "sekrit", gotToken)
	assert.Equal(t, Reservation{VMName: "ws-0001", MAC: "00:0c:29:aa:bb:cc", IP: "192.168.119.130"}, got)
}

func TestReserveAgentError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "dhcp config locked"})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "")
	require.NoError(t, err)

	err = client.Reserve(context.Background(), "ws-0001", "00:0c:29:aa:bb:cc", "192.168.119.130")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dhcp config locked")
	assert.Contains(t, err.Error(), "409")
}

func TestAddForward(t *testing.T) {
	var got PortForward

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/forwards", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "")
	require.NoError(t, err)

	rule := PortForward{Protocol: "tcp", HostPort: 40001, GuestIP: "192.168.119.130", GuestPort: 3389}
	require.NoError(t, client.AddForward(context.Background(), rule))
	assert.Equal(t, rule, got)
}

func TestDeleteForward(t *testing.T) {
	var gotPath, gotMethod string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "")
	require.NoError(t, err)

	require.NoError(t, client.DeleteForward(context.Background(), "tcp", 40001))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/forwards/tcp/40001", gotPath)
}

func TestListReservations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]Reservation{
			{VMName: "ws-0001", MAC: "00:0c:29:aa:bb:cc", IP: "192.168.119.130"},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "")
	require.NoError(t, err)

	list, err := client.ListReservations(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ws-0001", list[0].VMName)
}
