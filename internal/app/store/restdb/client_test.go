package restdb_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/dalemusser/pghub/internal/app/store/restdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClient(t *testing.T, srv *httptest.Server) *restdb.Client {
	t.Helper()
	c, err := restdb.New(restdb.Config{
		BaseURL:        srv.URL + "/rest/v1",
		APIKey:         "test-key",
		ConnectTimeout: time.Second,
		Timeout:        2 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := restdb.New(restdb.Config{APIKey: "k"}, zap.NewNop())
	require.Error(t, err)
}

func TestSelect_SendsProjectionFiltersAndAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/buildings", r.URL.Path)
		assert.Equal(t, "id,code,name", r.URL.Query().Get("select"))
		assert.Equal(t, "eq.active", r.URL.Query().Get("status"))
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1,"code":"A1","name":"Alpha"},{"id":2,"code":"B1","name":"Beta"}]`)
	}))
	defer srv.Close()

	c := newClient(t, srv)
	rows, err := c.Select(context.Background(), datastore.Query{
		Table:   "buildings",
		Columns: []string{"id", "code", "name"},
		Filters: []datastore.Filter{datastore.Eq("status", "active")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "A1", rows[0]["code"])
	require.Equal(t, json.Number("1"), rows[0]["id"])
}

func TestInsert_PostsBodyAndAsksForRepresentation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "C3", body["code"])
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `[{"id":9,"code":"C3"}]`)
	}))
	defer srv.Close()

	c := newClient(t, srv)
	rows, err := c.Insert(context.Background(), "buildings", datastore.Row{"code": "C3"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, json.Number("9"), rows[0]["id"])
}

func TestUpdate_UsesPatchWithFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.9", r.URL.Query().Get("id"))
		_, _ = io.WriteString(w, `[{"id":9,"name":"Renamed"}]`)
	}))
	defer srv.Close()

	c := newClient(t, srv)
	rows, err := c.Update(context.Background(), "buildings", datastore.Row{"name": "Renamed"}, datastore.Eq("id", 9))
	require.NoError(t, err)
	require.Equal(t, "Renamed", rows[0]["name"])
}

func TestDelete_EmptyBodyIsNoRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newClient(t, srv)
	rows, err := c.Delete(context.Background(), "rooms", datastore.Eq("id", 3))
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestNon2xx_IsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"invalid api key"}`)
	}))
	defer srv.Close()

	c := newClient(t, srv)
	_, err := c.Select(context.Background(), datastore.Query{Table: "rooms"})
	require.Error(t, err)
	require.True(t, errors.Is(err, datastore.ErrFailed))

	var apiErr *datastore.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Contains(t, apiErr.Body, "invalid api key")
}

func TestTransportFailure_IsTransportErrorAndNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	c, err := restdb.New(restdb.Config{
		BaseURL: srv.URL,
		APIKey:  "k",
		Timeout: 50 * time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, err)

	_, err = c.Select(context.Background(), datastore.Query{Table: "payments"})
	require.Error(t, err)
	require.True(t, errors.Is(err, datastore.ErrFailed))

	var tErr *datastore.TransportError
	require.True(t, errors.As(err, &tErr))
	require.Equal(t, "select", tErr.Op)
	require.Equal(t, int32(1), hits.Load())
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/buildings", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c, err := restdb.New(restdb.Config{BaseURL: srv.URL, APIKey: "k"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Ping(context.Background()))
}
