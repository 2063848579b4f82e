package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// FakeEndpoint is an httptest SPARQL endpoint that answers every query with
// a canned response and records what it received.
//
// Thread-safety: all methods are safe for concurrent use.
type FakeEndpoint struct {
	URL string

	mu      sync.Mutex
	status  int
	body    string
	queries []string
}

// NewFakeEndpoint starts an endpoint answering 200 with body. The server is
// closed when the test ends.
func NewFakeEndpoint(t testing.TB, body string) *FakeEndpoint {
	t.Helper()

	fe := &FakeEndpoint{status: http.StatusOK, body: body}
	srv := httptest.NewServer(http.HandlerFunc(fe.serve))
	t.Cleanup(srv.Close)
	fe.URL = srv.URL
	return fe
}

// Respond changes the canned response.
func (fe *FakeEndpoint) Respond(status int, body string) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	fe.status, fe.body = status, body
}

// Calls returns the number of requests served.
func (fe *FakeEndpoint) Calls() int {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return len(fe.queries)
}

// LastQuery returns the query text of the most recent request, or "".
func (fe *FakeEndpoint) LastQuery() string {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	if len(fe.queries) == 0 {
		return ""
	}
	return fe.queries[len(fe.queries)-1]
}

func (fe *FakeEndpoint) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	values, _ := url.ParseQuery(string(raw))

	fe.mu.Lock()
	fe.queries = append(fe.queries, values.Get("query"))
	status, body := fe.status, fe.body
	fe.mu.Unlock()

	w.Header().Set("Content-Type", "application/sparql-results+json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
