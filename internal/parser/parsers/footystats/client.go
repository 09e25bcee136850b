package footystats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://api.football-data-api.com"
	defaultPageDelay = 2 * time.Second
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	pageDelay  time.Duration
}

func NewClient(baseURL, apiKey string, timeout, pageDelay time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if pageDelay <= 0 {
		pageDelay = defaultPageDelay
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		pageDelay:  pageDelay,
	}
}

// apiResponse is the API's uniform envelope. Data is a list for most
// endpoints but a single object for detail endpoints, hence RawMessage.
type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Pager   *pager          `json:"pager"`
	Data    json.RawMessage `json:"data"`
}

type pager struct {
	CurrentPage  int `json:"current_page"`
	MaxPage      int `json:"max_page"`
	TotalResults int `json:"total_results"`
}

// FetchAll fetches every page of an endpoint and returns the raw
// records. Pagination is fetch-and-continue: each response's pager
// decides whether there is a next page. limit > 0 stops early once that
// many records are collected (test runs against metered API keys).
func (c *Client) FetchAll(ctx context.Context, ep Endpoint, params url.Values, limit int) ([]map[string]any, error) {
	var records []map[string]any

	page := 1
	for {
		pageRecords, pg, err := c.fetchPage(ctx, ep, params, page)
		if err != nil {
			return nil, fmt.Errorf("%s page %d: %w", ep.Name, page, err)
		}
		records = append(records, pageRecords...)

		if limit > 0 && len(records) >= limit {
			return records[:limit], nil
		}
		if pg == nil || pg.CurrentPage >= pg.MaxPage {
			return records, nil
		}

		page = pg.CurrentPage + 1
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		case <-time.After(c.pageDelay):
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, ep Endpoint, params url.Values, page int) ([]map[string]any, *pager, error) {
	q := url.Values{}
	for key, values := range params {
		q[key] = values
	}
	q.Set("key", c.apiKey)
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ep.Path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if !envelope.Success {
		return nil, nil, fmt.Errorf("api returned success=false: %s", envelope.Message)
	}

	records, err := decodeData(envelope.Data)
	if err != nil {
		return nil, nil, err
	}
	return records, envelope.Pager, nil
}

// decodeData accepts both envelope shapes: a record list or one record.
func decodeData(raw json.RawMessage) ([]map[string]any, error) {
	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var single map[string]any
	if err := json.Unmarshal(raw, &single); err == nil {
		return []map[string]any{single}, nil
	}
	return nil, fmt.Errorf("data field is neither record list nor record")
}
