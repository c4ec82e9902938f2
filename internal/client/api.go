package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"taskhub/internal/model"
)

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// TaskPatch carries optional task updates; nil fields are omitted from the
// request body so the server leaves them unchanged.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// API is an HTTP client for the task tracker backend. The session token is
// attached as a bearer credential on every call; unauthenticated protected
// calls simply surface the server's 401.
type API struct {
	baseURL string
	httpc   *http.Client
	session *Session
}

// New creates an API client against baseURL (e.g. "http://localhost:8080/api").
func New(baseURL string, session *Session) *API {
	return &API{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		session: session,
	}
}

type authResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	User         *model.User `json:"user"`
}

type userResponse struct {
	User *model.User `json:"user"`
}

type taskResponse struct {
	Task *model.Task `json:"task"`
}

type tasksResponse struct {
	Tasks []model.Task `json:"tasks"`
}

// Register creates an account and stores the returned identity in the session.
func (a *API) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp authResponse
	if err := a.do(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return nil, err
	}
	a.session.Set(resp.User, resp.Token, resp.RefreshToken)
	return resp.User, nil
}

// Login authenticates and stores the returned identity in the session.
func (a *API) Login(ctx context.Context, email, password string) (*model.User, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := a.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	a.session.Set(resp.User, resp.Token, resp.RefreshToken)
	return resp.User, nil
}

// Logout revokes the refresh token server-side and clears the session.
// The session is cleared even when the server call fails.
func (a *API) Logout(ctx context.Context) error {
	refreshToken := a.session.RefreshToken()
	a.session.Clear()
	if refreshToken == "" {
		return nil
	}
	body := map[string]string{"refresh_token": refreshToken}
	return a.do(ctx, http.MethodPost, "/auth/logout", body, nil)
}

// Refresh exchanges the stored refresh token for a new access token.
func (a *API) Refresh(ctx context.Context) error {
	body := map[string]string{"refresh_token": a.session.RefreshToken()}
	var resp authResponse
	if err := a.do(ctx, http.MethodPost, "/auth/refresh", body, &resp); err != nil {
		return err
	}
	a.session.SetToken(resp.Token)
	return nil
}

// Me fetches the current user profile.
func (a *API) Me(ctx context.Context) (*model.User, error) {
	var resp userResponse
	if err := a.do(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Tasks lists the caller's tasks, newest first.
func (a *API) Tasks(ctx context.Context) ([]model.Task, error) {
	var resp tasksResponse
	if err := a.do(ctx, http.MethodGet, "/tasks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// CreateTask creates a new pending task.
func (a *API) CreateTask(ctx context.Context, title, description string) (*model.Task, error) {
	body := map[string]string{"title": title, "description": description}
	var resp taskResponse
	if err := a.do(ctx, http.MethodPost, "/tasks", body, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

// UpdateTask applies a partial update to a task.
func (a *API) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*model.Task, error) {
	var resp taskResponse
	if err := a.do(ctx, http.MethodPut, "/tasks/"+id, patch, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

// DeleteTask deletes a task.
func (a *API) DeleteTask(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/tasks/"+id, nil, nil)
}

// do performs one request/response cycle: marshal body, attach bearer token,
// decode the result into out, and turn error bodies into *APIError.
func (a *API) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := a.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var errBody struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Message == "" {
			errBody.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: errBody.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
