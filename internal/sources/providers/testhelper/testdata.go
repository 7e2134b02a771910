// Package testhelper provides utilities for provider client tests: loading
// recorded API responses from testdata and serving them from a fake API.
package testhelper

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// LoadTestdata loads a testdata file from the caller's testdata directory.
func LoadTestdata(t *testing.T, filename string) []byte {
	t.Helper()

	testdataPath := filepath.Join("testdata", filename)

	data, err := os.ReadFile(testdataPath) //nolint:gosec // Test file paths are controlled
	if err != nil {
		t.Fatalf("Failed to load testdata file %s: %v", testdataPath, err)
	}

	return data
}

// LoadJSON loads and unmarshals JSON from a testdata file.
func LoadJSON(t *testing.T, filename string, v any) {
	t.Helper()

	data := LoadTestdata(t, filename)

	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("Failed to unmarshal JSON from testdata file %s: %v", filename, err)
	}
}

// Route is a canned response for one request path.
type Route struct {
	Status int
	File   string
}

// Request is a request received by an API.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// API is a fake provider API that serves testdata files by path and
// records the requests it received.
type API struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
	bodies   map[string][]byte
}

// NewAPI starts a fake API. Unknown paths answer 404.
func NewAPI(t *testing.T, routes map[string]Route) *API {
	t.Helper()

	bodies := make(map[string][]byte, len(routes))
	for path, r := range routes {
		if r.File != "" {
			bodies[path] = LoadTestdata(t, r.File)
		}
	}

	api := &API{bodies: bodies}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		api.mu.Lock()
		api.requests = append(api.requests, Request{
			Method: r.Method,
			URL:    r.URL,
			Header: r.Header.Clone(),
			Body:   body,
		})
		api.mu.Unlock()

		route, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		status := route.Status
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = w.Write(api.bodies[r.URL.Path])
	}))
	t.Cleanup(api.Close)
	return api
}

// Requests returns the requests received so far.
func (a *API) Requests() []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Request, len(a.requests))
	copy(out, a.requests)
	return out
}
