package postgrest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestListBuildsFilterQueryAndRange(t *testing.T) {
	var gotQuery, gotRange, gotRangeUnit, gotPrefer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotRange = r.Header.Get("Range")
		gotRangeUnit = r.Header.Get("Range-Unit")
		gotPrefer = r.Header.Get("Prefer")
		w.Header().Set("Content-Range", "20-39/128")
		w.Write([]byte(`[{"id":1,"name":"Acme"},{"id":2,"name":"Apex"}]`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	var rows []row
	total, err := client.List(context.Background(), "vendors", ListOptions{
		Filters: []Filter{ILike("name", "a"), Eq("status", "active")},
		Order:   "created_at.desc",
		Offset:  20,
		Limit:   20,
	}, &rows)
	require.NoError(t, err)

	assert.Equal(t, int64(128), total, "total comes from Content-Range")
	assert.Len(t, rows, 2)
	assert.Contains(t, gotQuery, "name=ilike.%2Aa%2A")
	assert.Contains(t, gotQuery, "status=eq.active")
	assert.Contains(t, gotQuery, "order=created_at.desc")
	assert.Equal(t, "20-39", gotRange)
	assert.Equal(t, "items", gotRangeUnit)
	assert.Equal(t, "count=exact", gotPrefer)
}

func TestListWithoutLimitOmitsRange(t *testing.T) {
	var sawRange bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawRange = r.Header["Range"]
		w.Write([]byte(`[{"id":1,"name":"Acme"}]`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	var rows []row
	total, err := client.List(context.Background(), "vendors", ListOptions{}, &rows)
	require.NoError(t, err)
	assert.False(t, sawRange)
	assert.Equal(t, int64(1), total, "missing Content-Range falls back to row count")
}

func TestGetSingularObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.pgrst.object+json", r.Header.Get("Accept"))
		assert.Equal(t, "eq.5", r.URL.Query().Get("id"))
		w.Write([]byte(`{"id":5,"name":"Acme"}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	var got row
	err := client.Get(context.Background(), "vendors", []Filter{Eq("id", 5)}, &got)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
}

func TestGetMissingRowIsNotFound(t *testing.T) {
	for _, status := range []int{http.StatusNotAcceptable, http.StatusNotFound} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := New(srv.URL)
		var got row
		err := client.Get(context.Background(), "vendors", []Filter{Eq("id", 999)}, &got)
		assert.ErrorIs(t, err, ErrNotFound, "status %d", status)
		srv.Close()
	}
}

func TestCreateUnwrapsRepresentation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[{"id":11,"name":"Acme"}]`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	var created row
	err := client.Create(context.Background(), "vendors", row{Name: "Acme"}, &created)
	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
}

func TestCreateEmptyRepresentationFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	var created row
	err := client.Create(context.Background(), "vendors", row{Name: "Acme"}, &created)
	assert.Error(t, err)
}

func TestUpdatePatchesMatchingRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.3", r.URL.Query().Get("id"))
		w.Write([]byte(`[{"id":3,"name":"Renamed"}]`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	var updated row
	err := client.Update(context.Background(), "vendors", []Filter{Eq("id", 3)}, map[string]any{"name": "Renamed"}, &updated)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestUnauthorizedInvokesHookAndInvalidatesNothingElse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	hookCalls := 0
	client := New(srv.URL, OnUnauthorized(func(ctx context.Context) { hookCalls++ }))

	var rows []row
	_, err := client.List(context.Background(), "vendors", ListOptions{}, &rows)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, hookCalls, "hook runs exactly once per 401")
}

func TestAPIErrorCarriesStoreMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"duplicate key value"}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	err := client.Create(context.Background(), "vendors", row{Name: "Acme"}, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "duplicate key value")
}

func TestContextTokenOverridesDefault(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := New(srv.URL, WithTokenFunc(func(ctx context.Context) string { return "service-token" }))

	var rows []row
	ctx := WithToken(context.Background(), "user-token")
	_, err := client.List(ctx, "vendors", ListOptions{}, &rows)
	require.NoError(t, err)
	assert.Equal(t, "Bearer user-token", gotAuth)

	_, err = client.List(context.Background(), "vendors", ListOptions{}, &rows)
	require.NoError(t, err)
	assert.Equal(t, "Bearer service-token", gotAuth)
}

func TestParseContentRange(t *testing.T) {
	assert.Equal(t, int64(57), parseContentRange("0-19/57"))
	assert.Equal(t, int64(-1), parseContentRange("0-19/*"))
	assert.Equal(t, int64(-1), parseContentRange(""))
	assert.Equal(t, int64(0), parseContentRange("*/0"))
}
