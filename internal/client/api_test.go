package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskshare/internal/client"
	"taskshare/internal/task"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) *client.API {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return client.NewAPI(&client.Config{APIURL: server.URL, Token: "test-token"})
}

func TestListSendsEmailAndBearerToken(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/todos", r.URL.Path)
		assert.Equal(t, "alice@example.com", r.URL.Query().Get("email"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode([]*task.Task{
			{ID: "id-1", Title: "apple", OwnerEmail: "alice@example.com", Status: task.StatusPending},
		})
	})

	tasks, err := api.List(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "apple", tasks[0].Title)
}

func TestCreateDecodesServerCopy(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/todos", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req client.CreateTaskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "buy milk", req.Title)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(&task.Task{
			ID:     "id-9",
			Title:  req.Title,
			Status: task.StatusPending,
		})
	})

	created, err := api.Create(context.Background(), client.CreateTaskRequest{
		Title:       "buy milk",
		Description: "d",
		UserEmail:   "alice@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-9", created.ID)
	assert.Equal(t, task.StatusPending, created.Status)
}

func TestUpdateOmitsAbsentFields(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/todos/id-1", r.URL.Path)

		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Contains(t, raw, "title")
		assert.NotContains(t, raw, "description")
		assert.NotContains(t, raw, "status")
		assert.NotContains(t, raw, "sharedWith")

		_ = json.NewEncoder(w).Encode(&task.Task{ID: "id-1", Title: "renamed"})
	})

	title := "renamed"
	updated, err := api.Update(context.Background(), "id-1", client.UpdateTaskRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
}

func TestDeleteSurfacesServerError(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Todo not found"})
	})

	err := api.Delete(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *client.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Todo not found", apiErr.Error())
}

func TestSetStatusHitsStatusRoute(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/todos/id-1/status", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "completed", body["status"])

		_ = json.NewEncoder(w).Encode(&task.Task{ID: "id-1", Status: task.StatusCompleted})
	})

	updated, err := api.SetStatus(context.Background(), "id-1", "completed")
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, updated.Status)
}

func TestLoginStoresToken(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "fresh-token",
			"user":  map[string]string{"email": "alice@example.com"},
		})
	})

	token, err := api.Login(context.Background(), "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
}
