package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"taskshare/internal/task"
)

// API is a thin REST client for the taskshare server.
type API struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewAPI(cfg *Config) *API {
	return &API{
		baseURL: cfg.APIURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// CreateTaskRequest mirrors the POST /todos body.
type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	UserEmail   string   `json:"userEmail"`
	Status      string   `json:"status,omitempty"`
	SharedWith  []string `json:"sharedWith,omitempty"`
}

// UpdateTaskRequest mirrors the PUT /todos/{id} body. Nil fields are omitted
// from the payload and left unchanged by the server.
type UpdateTaskRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	SharedWith  *[]string `json:"sharedWith,omitempty"`
}

type apiError struct {
	Message string `json:"error"`
}

// Error carries the server's error message and HTTP status.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// List fetches the tasks visible to email, sorted by title.
func (a *API) List(ctx context.Context, email string) ([]*task.Task, error) {
	var tasks []*task.Task
	path := "/todos?email=" + url.QueryEscape(email)
	if err := a.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Create creates a task and returns the server's copy of it.
func (a *API) Create(ctx context.Context, req CreateTaskRequest) (*task.Task, error) {
	var created task.Task
	if err := a.do(ctx, http.MethodPost, "/todos", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies a partial update and returns the resulting task.
func (a *API) Update(ctx context.Context, id string, req UpdateTaskRequest) (*task.Task, error) {
	var updated task.Task
	if err := a.do(ctx, http.MethodPut, "/todos/"+url.PathEscape(id), req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetStatus flips just the status and returns the resulting task.
func (a *API) SetStatus(ctx context.Context, id, status string) (*task.Task, error) {
	var updated task.Task
	body := map[string]string{"status": status}
	if err := a.do(ctx, http.MethodPatch, "/todos/"+url.PathEscape(id)+"/status", body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a task.
func (a *API) Delete(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, nil)
}

// Login exchanges credentials for a bearer token and stores it on the client.
func (a *API) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := a.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return "", err
	}
	a.token = resp.Token
	return resp.Token, nil
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("call server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &Error{Status: resp.StatusCode, Message: apiErr.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
