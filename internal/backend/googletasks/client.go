// Package googletasks exports tasks into Google Tasks using the Google Tasks API.
package googletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskmcp/internal/config"
	"taskmcp/internal/service"
)

const (
	// PageSize is the number of items requested per page.
	PageSize = 100

	// APITimeout is the timeout for each API call.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	// Google Tasks status values.
	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"

	// idMarker prefixes the local task ID in the remote task's notes.
	idMarker = "taskmcp-id: "
)

// Client exports tasks through the Google Tasks API.
type Client struct {
	svc *tasks.Service
}

// New creates a client from the stored OAuth client and token.
// Requires oauth_client.json and token.json to exist in the config dir.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := LoadOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json (run: taskmcp login): %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes automatically
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	return NewWithHTTPClient(ctx, httpClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client.
// Extra options (e.g. option.WithEndpoint) are passed to the Tasks service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// LoadOAuthConfig reads oauth_client.json from the config dir.
func LoadOAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// Export writes tasks into the list titled listTitle, creating the list if needed.
// Tasks exported earlier are matched by the ID marker in their notes and
// patched in place; the rest are inserted. Returns the number of tasks written.
func (c *Client) Export(ctx context.Context, listTitle string, ts []service.Task) (int, error) {
	listID, err := c.ensureList(ctx, listTitle)
	if err != nil {
		return 0, err
	}

	existing, err := c.exportedTasks(ctx, listID)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, t := range ts {
		remote := toRemote(t)
		if remoteID, ok := existing[t.ID]; ok {
			err = c.patchTask(ctx, listID, remoteID, remote)
		} else {
			err = c.insertTask(ctx, listID, remote)
		}
		if err != nil {
			return written, fmt.Errorf("export task %s: %w", t.ID, err)
		}
		written++
	}
	return written, nil
}

// ensureList finds a list by title (case-insensitive, trimmed) or creates it.
// Returns an error if more than one list matches.
func (c *Client) ensureList(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	titleLower := strings.ToLower(title)

	listCtx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var matches []string
	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(listCtx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if strings.ToLower(strings.TrimSpace(list.Title)) == titleLower {
				matches = append(matches, list.Id)
			}
		}
		return nil
	})
	if err != nil {
		return "", wrapError(err)
	}

	switch len(matches) {
	case 0:
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous list name: %s", title)
	}

	insertCtx, cancelInsert := context.WithTimeout(ctx, APITimeout)
	defer cancelInsert()

	list, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: title}).Context(insertCtx).Do()
	if err != nil {
		return "", wrapError(err)
	}
	return list.Id, nil
}

// exportedTasks maps local task IDs to remote task IDs for tasks carrying the ID marker.
func (c *Client) exportedTasks(ctx context.Context, listID string) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	result := make(map[string]string)
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				if id, ok := localID(t.Notes); ok {
					result[id] = t.Id
				}
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

func (c *Client) insertTask(ctx context.Context, listID string, t *tasks.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasks.Insert(listID, t).Context(ctx).Do()
	return wrapError(err)
}

func (c *Client) patchTask(ctx context.Context, listID, taskID string, t *tasks.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasks.Patch(listID, taskID, t).Context(ctx).Do()
	return wrapError(err)
}

// toRemote converts a task to its Google Tasks form.
// Any status other than "completed" maps to needsAction.
func toRemote(t service.Task) *tasks.Task {
	status := statusNeedsAction
	if t.Status == service.StatusCompleted {
		status = statusCompleted
	}

	notes := idMarker + t.ID
	if t.Description != "" {
		notes = t.Description + "\n\n" + notes
	}

	return &tasks.Task{
		Title:  t.Title,
		Notes:  notes,
		Status: status,
	}
}

// localID extracts the local task ID from remote notes.
func localID(notes string) (string, bool) {
	i := strings.LastIndex(notes, idMarker)
	if i < 0 {
		return "", false
	}
	id := strings.TrimSpace(notes[i+len(idMarker):])
	return id, id != ""
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	// Check for timeout
	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	// Check for auth errors
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: taskmcp login)")
	}

	// Check for not found
	if strings.Contains(errStr, "404") {
		return fmt.Errorf("not found")
	}

	return err
}
