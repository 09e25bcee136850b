package oddsportal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL   = "https://www.oddsportal.com"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/103.0.0.0 Safari/537.36"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	proxyList  []string
	proxyIndex int
	proxyMu    sync.Mutex
}

func NewClient(baseURL string, timeout time.Duration, proxyList []string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		proxyList:  proxyList,
	}
}

// FetchMatchPage fetches a match page for session extraction. matchURL
// may be absolute or site-relative.
func (c *Client) FetchMatchPage(ctx context.Context, matchURL string) ([]byte, error) {
	return c.doRequest(ctx, c.absoluteURL(matchURL), c.baseURL+"/", false)
}

// OddsRequest identifies one odds endpoint fetch: the match, one
// (bettingType, scope) combination, and the session hash authorizing it.
type OddsRequest struct {
	VersionID     int
	SportID       int
	EventID       string
	BettingTypeID int
	ScopeID       int
	XHash         string // percent-decoded session hash
	Referer       string // match page URL
}

// FetchEncryptedOdds fetches one encrypted odds payload. The response
// body is returned as-is; DecryptPayload takes it from there.
func (c *Client) FetchEncryptedOdds(ctx context.Context, req OddsRequest) (string, error) {
	endpoint := fmt.Sprintf("%s/match-event/%d-%d-%s-%d-%d-%s.dat?_=%d",
		c.baseURL, req.VersionID, req.SportID, req.EventID,
		req.BettingTypeID, req.ScopeID, req.XHash,
		time.Now().UnixMilli())

	referer := req.Referer
	if referer == "" {
		referer = c.baseURL + "/"
	}
	body, err := c.doRequest(ctx, endpoint, c.absoluteURL(referer), true)
	if err != nil {
		return "", fmt.Errorf("odds endpoint bt=%d sc=%d: %w", req.BettingTypeID, req.ScopeID, err)
	}
	return strings.TrimSpace(string(body)), nil
}

func (c *Client) absoluteURL(u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return c.baseURL + "/" + strings.TrimPrefix(u, "/")
}

func (c *Client) doRequest(ctx context.Context, rawURL, referer string, xhr bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, referer, xhr)

	if len(c.proxyList) > 0 {
		return c.doRequestWithProxies(ctx, req, referer, xhr)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncateBody(body))
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) doRequestWithProxies(ctx context.Context, req *http.Request, referer string, xhr bool) ([]byte, error) {
	for i := 0; i < len(c.proxyList); i++ {
		c.proxyMu.Lock()
		idx := (c.proxyIndex + i) % len(c.proxyList)
		proxyURLStr := c.proxyList[idx]
		c.proxyMu.Unlock()

		proxyURL, err := url.Parse(proxyURLStr)
		if err != nil {
			continue
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = http.ProxyURL(proxyURL)
		client := &http.Client{Timeout: c.httpClient.Timeout, Transport: transport}

		r2, _ := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), nil)
		c.setHeaders(r2, referer, xhr)

		resp, err := client.Do(r2)
		if err != nil {
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			continue
		}
		if resp.StatusCode == http.StatusOK {
			c.proxyMu.Lock()
			c.proxyIndex = idx
			c.proxyMu.Unlock()
			return body, nil
		}
	}
	return c.doRequestDirect(ctx, req)
}

func (c *Client) doRequestDirect(ctx context.Context, req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncateBody(body))
	}
	return body, nil
}

// The site serves odds only to requests that look like its own XHR
// calls: browser UA, match page referer, X-Requested-With.
func (c *Client) setHeaders(req *http.Request, referer string, xhr bool) {
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Referer", referer)
	if xhr {
		req.Header.Set("Accept", "application/json, text/plain, */*")
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	} else {
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}

func truncateBody(body []byte) string {
	const limit = 200
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "... (" + strconv.Itoa(len(body)) + " bytes)"
}
