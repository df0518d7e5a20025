// Package gtasks is the task-source adapter: a thin typed client over a
// Google-Tasks-shaped REST API.
package gtasks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/haneulab/goal-report-service/types"
)

// DefaultBaseURL is the production Tasks API endpoint.
const DefaultBaseURL = "https://tasks.googleapis.com/tasks/v1"

// Client talks to the task service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a task-source client. An empty baseURL selects the
// production endpoint.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type wireTaskList struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type taskListsResponse struct {
	Items []wireTaskList `json:"items"`
}

type wireTask struct {
	Title     string `json:"title"`
	Status    string `json:"status"`
	Due       string `json:"due,omitempty"`
	Completed string `json:"completed,omitempty"`
	Updated   string `json:"updated"`
	Notes     string `json:"notes,omitempty"`
}

type tasksResponse struct {
	Items         []wireTask `json:"items"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

// ListTaskLists returns all task lists visible to the configured account.
func (c *Client) ListTaskLists(ctx context.Context) ([]types.TaskList, error) {
	var resp taskListsResponse
	if err := c.get(ctx, c.baseURL+"/users/@me/lists", &resp); err != nil {
		return nil, err
	}

	lists := make([]types.TaskList, 0, len(resp.Items))
	for _, item := range resp.Items {
		lists = append(lists, types.TaskList{ID: item.ID, Title: item.Title})
	}
	return lists, nil
}

// ListTasks returns one page of tasks from a list. Callers drain pages until
// NextPageToken comes back empty.
func (c *Client) ListTasks(ctx context.Context, listID string, q types.TaskQuery) (*types.TaskPage, error) {
	params := url.Values{}
	params.Set("showCompleted", strconv.FormatBool(q.IncludeCompleted))
	params.Set("showHidden", strconv.FormatBool(q.IncludeHidden))
	if q.PageSize > 0 {
		params.Set("maxResults", strconv.Itoa(q.PageSize))
	}
	if q.PageToken != "" {
		params.Set("pageToken", q.PageToken)
	}

	reqURL := fmt.Sprintf("%s/lists/%s/tasks?%s", c.baseURL, url.PathEscape(listID), params.Encode())
	var resp tasksResponse
	if err := c.get(ctx, reqURL, &resp); err != nil {
		return nil, err
	}

	page := &types.TaskPage{NextPageToken: resp.NextPageToken}
	for _, item := range resp.Items {
		// A task without a title carries nothing renderable; drop it here.
		if item.Title == "" {
			continue
		}
		page.Items = append(page.Items, types.TaskRecord{
			Title:     item.Title,
			Status:    types.TaskStatus(item.Status),
			Due:       parseInstant(item.Due),
			Completed: parseInstant(item.Completed),
			Updated:   derefInstant(parseInstant(item.Updated)),
			Notes:     item.Notes,
		})
	}
	return page, nil
}

func (c *Client) get(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call task service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("task service returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode task service response: %w", err)
	}
	return nil
}

func parseInstant(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

func derefInstant(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
