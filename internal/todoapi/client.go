package todoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Todo is the record shape owned by the remote store. The client only ever
// holds a cached copy; the server assigns ids and timestamps.
type Todo struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Patch is the PUT payload. Nil fields are omitted and left unchanged by the
// server.
type Patch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

type createPayload struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// List fetches the full collection.
func (c *Client) List(ctx context.Context) ([]Todo, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/todos", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list todos request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError("list todos", resp)
	}

	var todos []Todo
	if err := json.NewDecoder(resp.Body).Decode(&todos); err != nil {
		return nil, fmt.Errorf("decode todos response: %w", err)
	}
	return todos, nil
}

// Create adds a record and returns the full updated collection, which is what
// the server responds with.
func (c *Client) Create(ctx context.Context, title string, completed bool) ([]Todo, error) {
	body, err := encodeBody(createPayload{Title: title, Completed: completed})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/todos", body)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create todo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError("create todo", resp)
	}

	var todos []Todo
	if err := json.NewDecoder(resp.Body).Decode(&todos); err != nil {
		return nil, fmt.Errorf("decode create response: %w", err)
	}
	return todos, nil
}

// Update patches a single record and returns the updated record only.
func (c *Client) Update(ctx context.Context, id string, patch Patch) (Todo, error) {
	body, err := encodeBody(patch)
	if err != nil {
		return Todo{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPut, "/todos/"+id, body)
	if err != nil {
		return Todo{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Todo{}, fmt.Errorf("update todo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Todo{}, responseError("update todo", resp)
	}

	var todo Todo
	if err := json.NewDecoder(resp.Body).Decode(&todo); err != nil {
		return Todo{}, fmt.Errorf("decode update response: %w", err)
	}
	return todo, nil
}

// Delete removes a record. The server answers with the remaining collection;
// callers are free to ignore it.
func (c *Client) Delete(ctx context.Context, id string) ([]Todo, error) {
	req, err := c.newRequest(ctx, http.MethodDelete, "/todos/"+id, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("delete todo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError("delete todo", resp)
	}

	var todos []Todo
	if err := json.NewDecoder(resp.Body).Decode(&todos); err != nil {
		return nil, fmt.Errorf("decode delete response: %w", err)
	}
	return todos, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	fullURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	return req, nil
}

func encodeBody(payload any) (io.Reader, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return bytes.NewReader(data), nil
}

func responseError(action string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%s failed with status %d: %s", action, resp.StatusCode, strings.TrimSpace(string(body)))
}
