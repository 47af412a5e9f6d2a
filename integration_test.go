package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"zenboard/internal/coordinator"
	"zenboard/internal/fetcher"
	"zenboard/internal/quote"
	"zenboard/internal/server"
	"zenboard/internal/user"
	"zenboard/internal/zen"
)

// startApp wires the real components together: a redis-backed user store,
// the zen fetcher pointed at a stub upstream, and the quote fetcher with a
// fixed seed.
func startApp(t *testing.T, zenURL string, delay time.Duration) (*httptest.Server, *user.RedisStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := user.NewRedisStoreFromClient(client)

	fetchers := []fetcher.Fetcher{
		zen.NewFetcher(zenURL, time.Second, delay),
		quote.NewFetcherWithSeed(delay, 1),
	}
	coord := coordinator.New(fetchers, nil)

	ts := httptest.NewServer(server.New(store, coord, store, nil).Handler())
	t.Cleanup(ts.Close)

	return ts, store
}

func TestIntegration_AsyncExample(t *testing.T) {
	zenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Keep it logically awesome."))
	}))
	defer zenServer.Close()

	const delay = 100 * time.Millisecond
	ts, _ := startApp(t, zenServer.URL, delay)

	start := time.Now()
	resp, err := http.Get(ts.URL + "/async-example")
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("GET /async-example failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		GithubMessage string  `json:"github_message"`
		Quote         string  `json:"quote"`
		TotalSeconds  float64 `json:"total_time_seconds"`
		Note          string  `json:"note"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.GithubMessage != "Keep it logically awesome." {
		t.Errorf("github_message = %q", body.GithubMessage)
	}

	inSet := false
	for _, q := range quote.Quotes {
		if body.Quote == q {
			inSet = true
			break
		}
	}
	if !inSet {
		t.Errorf("quote = %q, not in the fixed set", body.Quote)
	}

	// Both tasks wait ~delay; run concurrently the request should take
	// about one delay, never two.
	if elapsed >= 2*delay {
		t.Errorf("request took %v, want < %v (tasks ran sequentially?)", elapsed, 2*delay)
	}
	if body.TotalSeconds >= 2*delay.Seconds() {
		t.Errorf("total_time_seconds = %v, want < %v", body.TotalSeconds, 2*delay.Seconds())
	}
}

func TestIntegration_AsyncExampleUpstreamDown(t *testing.T) {
	zenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	zenURL := zenServer.URL
	zenServer.Close()

	ts, _ := startApp(t, zenURL, 0)

	resp, err := http.Get(ts.URL + "/async-example")
	if err != nil {
		t.Fatalf("GET /async-example failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when the upstream is down", resp.StatusCode)
	}

	var body struct {
		GithubMessage string `json:"github_message"`
		Quote         string `json:"quote"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !strings.HasPrefix(body.GithubMessage, "Error: ") {
		t.Errorf("github_message = %q, want an Error: prefix", body.GithubMessage)
	}
	if body.Quote == "" {
		t.Error("quote is empty, want the surviving result")
	}
}

func TestIntegration_UserCRUD(t *testing.T) {
	zenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("zen"))
	}))
	defer zenServer.Close()

	ts, store := startApp(t, zenServer.URL, 0)

	// Create through the form endpoint.
	resp, err := http.PostForm(ts.URL+"/welcome", url.Values{"name": {"alice"}})
	if err != nil {
		t.Fatalf("POST /welcome failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /welcome status = %d, want 200", resp.StatusCode)
	}

	users, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() returned unexpected error: %v", err)
	}
	if len(users) != 1 || users[0].Name != "alice" {
		t.Fatalf("store contents = %+v, want one user named alice", users)
	}
	id := users[0].ID

	// Rename and delete through the handlers; a client that follows
	// redirects lands back on the users page each time.
	resp, err = http.PostForm(ts.URL+"/edit/"+strconv.FormatInt(id, 10), url.Values{"name": {"alicia"}})
	if err != nil {
		t.Fatalf("POST /edit failed: %v", err)
	}
	resp.Body.Close()

	got, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get() returned unexpected error: %v", err)
	}
	if got.Name != "alicia" {
		t.Errorf("name after edit = %q, want %q", got.Name, "alicia")
	}

	resp, err = http.PostForm(ts.URL+"/delete/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		t.Fatalf("POST /delete failed: %v", err)
	}
	resp.Body.Close()

	users, err = store.List(context.Background())
	if err != nil {
		t.Fatalf("List() returned unexpected error: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("store contents after delete = %+v, want empty", users)
	}
}

