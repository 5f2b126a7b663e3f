package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleRSS = `<?xml version="1.0"?><rss version="2.0"><channel><title>T</title></channel></rss>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Options{Endpoint: server.URL + "/get", Timeout: 5 * time.Second, UserAgent: "test-agent"})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

func TestFetchReturnsContents(t *testing.T) {
	var gotURL, gotCache, gotAgent string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.Query().Get("url")
		gotCache = r.URL.Query().Get("disableCache")
		gotAgent = r.Header.Get("User-Agent")
		json.NewEncoder(w).Encode(map[string]any{
			"contents": sampleRSS,
			"status":   map[string]any{"url": gotURL, "http_code": 200},
		})
	})

	data, err := client.Fetch(context.Background(), "https://example.com/feed.rss?a=1&b=2")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if string(data) != sampleRSS {
		t.Errorf("Expected relayed contents, got: %s", data)
	}
	if gotURL != "https://example.com/feed.rss?a=1&b=2" {
		t.Errorf("Expected target URL passed as query parameter, got: %s", gotURL)
	}
	if gotCache != "true" {
		t.Errorf("Expected disableCache=true, got: %s", gotCache)
	}
	if gotAgent != "test-agent" {
		t.Errorf("Expected user agent 'test-agent', got: %s", gotAgent)
	}
}

func TestFetchNoData(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"status error", `{"contents": "<rss/>", "status": {"error": {"code": "ENOTFOUND"}}}`},
		{"status error string", `{"contents": "<rss/>", "status": {"error": "boom"}}`},
		{"missing contents", `{"status": {"http_code": 404}}`},
		{"null contents", `{"contents": null, "status": {}}`},
		{"empty contents", `{"contents": "", "status": {}}`},
		{"not json", `<html>oops</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := client.Fetch(context.Background(), "https://example.com/feed")
			if !errors.Is(err, ErrNoData) {
				t.Errorf("Expected ErrNoData, got: %v", err)
			}
		})
	}
}

func TestFetchFalsyStatusErrorIsIgnored(t *testing.T) {
	for _, errValue := range []string{`null`, `false`, `0`, `""`} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"contents": "<rss/>", "status": {"error": ` + errValue + `}}`))
		})

		if _, err := client.Fetch(context.Background(), "https://example.com/feed"); err != nil {
			t.Errorf("Expected no error for status.error=%s, got: %v", errValue, err)
		}
	}
}

func TestFetchBadStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := client.Fetch(context.Background(), "https://example.com/feed")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected *StatusError for 502, got: %v", err)
	}
	if statusErr.Code != http.StatusBadGateway {
		t.Errorf("Expected code 502, got %d", statusErr.Code)
	}
	if err.Error() != "Request failed with status code 502" {
		t.Errorf("Expected status text, got '%s'", err.Error())
	}
	if errors.Is(err, ErrNetwork) || errors.Is(err, ErrNoData) {
		t.Errorf("Expected a bad status to be neither a network nor a no-data error, got: %v", err)
	}
}

func TestFetchNetworkErrors(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	unreachable, err := NewClient(Options{Endpoint: endpoint})
	if err != nil {
		t.Fatal(err)
	}
	_, err = unreachable.Fetch(context.Background(), "https://example.com/feed")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Expected ErrNetwork for closed relay, got: %v", err)
	}
}

func TestFetchHonoursContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Fetch(ctx, "https://example.com/feed")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Expected ErrNetwork on cancellation, got: %v", err)
	}
}

func TestNewClientInvalidEndpoint(t *testing.T) {
	for _, endpoint := range []string{"", "relay/get", "://bad"} {
		if _, err := NewClient(Options{Endpoint: endpoint}); err == nil {
			t.Errorf("Expected error for endpoint %q", endpoint)
		}
	}
}

func TestRateLimit(t *testing.T) {
	client, err := NewClient(Options{Endpoint: "http://relay.local/get", RateLimit: 1})
	if err != nil {
		t.Fatal(err)
	}

	if !client.limiter.Allow() {
		t.Error("Expected first request to be allowed")
	}
	if client.limiter.Allow() {
		t.Error("Expected burst of one request per second")
	}
}
