package splinterlands

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTournaments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tournaments/mine", r.URL.Path)
		assert.Equal(t, "someguild", r.URL.Query().Get("username"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": "t1", "name": "Weekly Brawl"}, {"id": "t2"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	list, err := client.ListTournaments(context.Background(), "someguild")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "t1", list[0]["id"])
	assert.Equal(t, "Weekly Brawl", list[0]["name"])
}

func TestListTournamentsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListTournaments(context.Background(), "someguild")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
}

func TestListTournamentsNonArrayBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error": "no such player"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	list, err := client.ListTournaments(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFetchTournament(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tournaments/find", r.URL.Path)
		assert.Equal(t, "t1", r.URL.Query().Get("id"))
		assert.Equal(t, "someguild", r.URL.Query().Get("username"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "t1", "status": "complete", "players": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	detail, err := client.FetchTournament(context.Background(), "t1", "someguild")
	require.NoError(t, err)
	assert.Equal(t, "complete", detail["status"])
}

func TestFetchTournamentError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchTournament(context.Background(), "t1", "someguild")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "t1")
}

func TestNewClientDefaultBaseURL(t *testing.T) {
	client := NewClient("")
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
