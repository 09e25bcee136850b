package oddsportal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestFetchEncryptedOdds(t *testing.T) {
	var gotPath, gotReferer, gotXHR string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotReferer = r.Header.Get("Referer")
		gotXHR = r.Header.Get("X-Requested-With")
		fmt.Fprint(w, "encrypted-blob\n")
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	body, err := client.FetchEncryptedOdds(context.Background(), OddsRequest{
		VersionID:     2,
		SportID:       1,
		EventID:       "xBcPnnb0",
		BettingTypeID: 1,
		ScopeID:       2,
		XHash:         "yc3ef",
		Referer:       "/football/england/premier-league/some-match/",
	})
	if err != nil {
		t.Fatalf("FetchEncryptedOdds() error: %v", err)
	}

	if body != "encrypted-blob" {
		t.Errorf("body = %q, want trimmed encrypted-blob", body)
	}
	if want := "/match-event/2-1-xBcPnnb0-1-2-yc3ef.dat"; gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
	if !strings.HasSuffix(gotReferer, "/football/england/premier-league/some-match/") {
		t.Errorf("Referer = %q, want match page URL", gotReferer)
	}
	if gotXHR != "XMLHttpRequest" {
		t.Errorf("X-Requested-With = %q", gotXHR)
	}
}

func TestFetchEncryptedOddsCacheBuster(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, "x")
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	if _, err := client.FetchEncryptedOdds(context.Background(), OddsRequest{EventID: "e"}); err != nil {
		t.Fatalf("FetchEncryptedOdds() error: %v", err)
	}
	if !regexp.MustCompile(`^_=\d{13,}$`).MatchString(gotQuery) {
		t.Errorf("query = %q, want millisecond cache buster", gotQuery)
	}
}

func TestFetchMatchPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Requested-With") != "" {
			t.Error("page fetch must not carry XHR header")
		}
		if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "Chrome") {
			t.Errorf("User-Agent = %q, want browser UA", ua)
		}
		fmt.Fprint(w, "<html></html>")
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	body, err := client.FetchMatchPage(context.Background(), "/football/some-match/")
	if err != nil {
		t.Fatalf("FetchMatchPage() error: %v", err)
	}
	if string(body) != "<html></html>" {
		t.Errorf("body = %q", body)
	}
}

func TestFetchMatchPageErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	_, err := client.FetchMatchPage(context.Background(), "/x/")
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Errorf("error = %v, want status 403", err)
	}
}

func TestAbsoluteURL(t *testing.T) {
	client := NewClient("https://example.com", time.Second, nil)
	tests := []struct {
		in, want string
	}{
		{"/path/", "https://example.com/path/"},
		{"path/", "https://example.com/path/"},
		{"https://other.com/x", "https://other.com/x"},
		{"http://other.com/x", "http://other.com/x"},
	}
	for _, tt := range tests {
		if got := client.absoluteURL(tt.in); got != tt.want {
			t.Errorf("absoluteURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
