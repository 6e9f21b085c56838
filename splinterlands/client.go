package splinterlands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.splinterlands.com"

// ErrSourceUnavailable marks failures of the tournament listing call, the
// entry point of every ingest run. Callers check it with errors.Is and
// abort the organizer's run without touching stored data.
var ErrSourceUnavailable = errors.New("tournament source unavailable")

// Client talks to the public game API. Calls are rate limited client-side
// so a deep backfill does not hammer the upstream.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 20 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(4), 8),
	}
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}

// ListTournaments returns the raw tournament summaries hosted by the
// organizer. A non-array body is treated as zero candidates rather than a
// failure, matching how the API responds for unknown accounts.
func (c *Client) ListTournaments(ctx context.Context, organizer string) ([]map[string]any, error) {
	params := url.Values{"username": {organizer}}

	var payload any
	if err := c.getJSON(ctx, "/tournaments/mine", params, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	items, ok := payload.([]any)
	if !ok {
		log.Printf("tournament list for %s was not an array, treating as empty", organizer)
		return nil, nil
	}

	list := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			list = append(list, m)
		}
	}
	return list, nil
}

// FetchTournament returns the detail payload for one tournament.
func (c *Client) FetchTournament(ctx context.Context, id, organizer string) (map[string]any, error) {
	params := url.Values{"id": {id}, "username": {organizer}}

	var detail map[string]any
	if err := c.getJSON(ctx, "/tournaments/find", params, &detail); err != nil {
		return nil, fmt.Errorf("fetch tournament %s: %w", id, err)
	}
	return detail, nil
}
