package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/pkg/models"
	"github.com/grovetools/watchers/version"
)

// unixBaseURL is the dummy host used for Unix socket HTTP requests.
// The actual connection goes through the Unix socket, not this URL.
const unixBaseURL = "http://unix"

// RemoteClient implements Client by calling the daemon's HTTP API.
type RemoteClient struct {
	baseURL      string
	httpClient   *http.Client
	streamClient *http.Client
}

// NewRemoteClient creates a RemoteClient connected to the daemon socket.
func NewRemoteClient(socketPath string, timeout time.Duration) *RemoteClient {
	dial := func(ctx context.Context, _, _ string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, "unix", socketPath)
	}

	transport := &http.Transport{
		DialContext:     dial,
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	}

	return &RemoteClient{
		baseURL:    unixBaseURL,
		httpClient: &http.Client{Transport: transport, Timeout: timeout},
		// Streams stay open indefinitely, so they get their own transport
		// without a client timeout.
		streamClient: &http.Client{Transport: &http.Transport{DialContext: dial}},
	}
}

// NewHTTPClient creates a RemoteClient for a daemon reachable at baseURL,
// such as an httptest server.
func NewHTTPClient(baseURL string, httpClient *http.Client) *RemoteClient {
	return &RemoteClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   httpClient,
		streamClient: &http.Client{Transport: httpClient.Transport},
	}
}

// do sends a JSON request and decodes a JSON response into out. Non-2xx
// answers are turned back into the daemon's WatcherError when possible.
func (c *RemoteClient) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.InvalidInput("body", err.Error())
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.RemoteFailure(op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.RemoteFailure(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(op, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.RemoteFailure(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func decodeError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var remote errors.WatcherError
	if err := json.Unmarshal(raw, &remote); err == nil && remote.Code != "" {
		return &remote
	}
	return errors.RemoteStatus(op, resp.StatusCode, strings.TrimSpace(string(raw)))
}

// List returns every watcher in store order.
func (c *RemoteClient) List(ctx context.Context) ([]models.Watcher, error) {
	var watchers []models.Watcher
	if err := c.do(ctx, "list watchers", http.MethodGet, "/api/watchers", nil, &watchers); err != nil {
		return nil, err
	}
	return watchers, nil
}

// Get returns a single watcher.
func (c *RemoteClient) Get(ctx context.Context, id string) (models.Watcher, error) {
	var w models.Watcher
	err := c.do(ctx, "get watcher", http.MethodGet, "/api/watchers/"+url.PathEscape(id), nil, &w)
	return w, err
}

// Play runs a watcher once.
func (c *RemoteClient) Play(ctx context.Context, id string) (models.PlayResult, error) {
	var res models.PlayResult
	err := c.do(ctx, "play watcher", http.MethodPost, "/api/watchers/"+url.PathEscape(id)+"/play", nil, &res)
	return res, err
}

// Save persists a watcher. Watchers without an id are created.
func (c *RemoteClient) Save(ctx context.Context, w models.Watcher) (string, error) {
	method, path := http.MethodPost, "/api/watchers"
	if w.ID != "" {
		method, path = http.MethodPut, "/api/watchers/"+url.PathEscape(w.ID)
	}

	var res struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, "save watcher", method, path, w, &res); err != nil {
		return "", err
	}
	return res.ID, nil
}

// Delete removes a watcher.
func (c *RemoteClient) Delete(ctx context.Context, id string) (string, error) {
	var res struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, "delete watcher", http.MethodDelete, "/api/watchers/"+url.PathEscape(id), nil, &res); err != nil {
		return "", err
	}
	return res.ID, nil
}

// New returns an unsaved scaffold of the given type.
func (c *RemoteClient) New(ctx context.Context, t models.WatcherType) (models.Watcher, error) {
	var w models.Watcher
	err := c.do(ctx, "new watcher", http.MethodGet, "/api/watchers/new?type="+url.QueryEscape(string(t)), nil, &w)
	return w, err
}

// ListTemplates returns the templates of one category.
func (c *RemoteClient) ListTemplates(ctx context.Context, category models.TemplateCategory) ([]models.Template, error) {
	var templates []models.Template
	op := fmt.Sprintf("list %s templates", category)
	if err := c.do(ctx, op, http.MethodGet, "/api/templates/"+url.PathEscape(string(category)), nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// SaveTemplate adds or replaces a template.
func (c *RemoteClient) SaveTemplate(ctx context.Context, t models.Template) error {
	return c.do(ctx, "save template", http.MethodPost, "/api/templates/"+url.PathEscape(string(t.Category)), t, nil)
}

// CurrentTime asks the daemon for its clock.
func (c *RemoteClient) CurrentTime(ctx context.Context) (time.Time, error) {
	var res struct {
		Now time.Time `json:"now"`
	}
	if err := c.do(ctx, "current time", http.MethodGet, "/api/time", nil, &res); err != nil {
		return time.Time{}, err
	}
	return res.Now, nil
}

// Version returns the daemon's build information.
func (c *RemoteClient) Version(ctx context.Context) (version.Info, error) {
	var info version.Info
	err := c.do(ctx, "version", http.MethodGet, "/api/version", nil, &info)
	return info, err
}

// IsRunning returns true if the daemon is available and responding.
func (c *RemoteClient) IsRunning() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Watch subscribes to change events via Server-Sent Events (SSE). The
// channel is closed when the context is cancelled or the connection drops.
func (c *RemoteClient) Watch(ctx context.Context) (<-chan models.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/stream", nil)
	if err != nil {
		return nil, errors.RemoteFailure("watch", err)
	}

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, errors.RemoteFailure("watch", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeError("watch", resp)
	}

	ch := make(chan models.Event, 10)

	go func() {
		defer resp.Body.Close()
		defer close(ch)

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()

			// Skip comments and empty lines
			if strings.HasPrefix(line, ":") || line == "" {
				continue
			}

			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var event models.Event
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
				continue // Skip malformed data
			}

			select {
			case ch <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// Close cleans up any resources used by the client.
func (c *RemoteClient) Close() error {
	c.httpClient.CloseIdleConnections()
	c.streamClient.CloseIdleConnections()
	return nil
}

// Ensure RemoteClient implements Client interface.
var _ Client = (*RemoteClient)(nil)
