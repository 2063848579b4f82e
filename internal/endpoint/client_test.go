package endpoint

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparqlq/internal/testutil"
)

const queryText = "SELECT ?s\nWHERE { ?s ?p ?o . } LIMIT 1"

func TestClient_QueryRawSendsProtocolRequest(t *testing.T) {
	var gotMethod, gotContentType, gotAccept, gotQuery string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		body, _ := io.ReadAll(r.Body)
		values, _ := url.ParseQuery(string(body))
		gotQuery = values.Get("query")

		w.Header().Set("Content-Type", resultsMediaType)
		_, _ = w.Write([]byte(sampleResults))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	body, err := c.QueryRaw(context.Background(), queryText)
	require.NoError(t, err)

	assert.Equal(t, sampleResults, string(body))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, resultsMediaType, gotAccept)
	assert.Equal(t, queryText, gotQuery)
}

func TestClient_Query(t *testing.T) {
	fe := testutil.NewFakeEndpoint(t, sampleResults)

	rs, err := NewClient(fe.URL).Query(context.Background(), queryText)
	require.NoError(t, err)
	assert.Len(t, rs.Rows, 2)
	assert.Equal(t, queryText, fe.LastQuery())
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Parse error: unexpected token\n"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).QueryRaw(context.Background(), queryText)
	require.Error(t, err)
	assert.True(t, IsHTTPError(err))

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, "Parse error: unexpected token", httpErr.Body)
	assert.Equal(t, "endpoint returned 400: Parse error: unexpected token", err.Error())
}

func TestClient_HTTPErrorBodyIsTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("x", maxErrorBodySize*2)))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).QueryRaw(context.Background(), queryText)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Len(t, httpErr.Body, maxErrorBodySize)
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL).QueryRaw(ctx, queryText)
	require.Error(t, err)
	assert.False(t, IsHTTPError(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClient_Metrics(t *testing.T) {
	fe := testutil.NewFakeEndpoint(t, sampleResults)

	reg := prometheus.NewRegistry()
	c := NewClient(fe.URL)
	c.Metrics = NewMetrics(reg)

	_, err := c.QueryRaw(context.Background(), queryText)
	require.NoError(t, err)
	_, err = c.QueryRaw(context.Background(), queryText)
	require.NoError(t, err)

	fe.Respond(http.StatusServiceUnavailable, "busy")
	_, err = c.QueryRaw(context.Background(), queryText)
	require.Error(t, err)

	assert.Equal(t, float64(2), promtest.ToFloat64(c.Metrics.requestsTotal.WithLabelValues(OutcomeOK)))
	assert.Equal(t, float64(1), promtest.ToFloat64(c.Metrics.requestsTotal.WithLabelValues(OutcomeHTTPError)))
}

func TestClient_QueryDecodeFailure(t *testing.T) {
	fe := testutil.NewFakeEndpoint(t, "<sparql/>")

	c := NewClient(fe.URL)
	c.Metrics = NewMetrics(prometheus.NewRegistry())

	_, err := c.Query(context.Background(), queryText)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode results")
	assert.Equal(t, float64(1), promtest.ToFloat64(c.Metrics.requestsTotal.WithLabelValues(OutcomeDecode)))
}

func TestNewMetrics_NilRegistererDisablesMetrics(t *testing.T) {
	m := NewMetrics(nil)
	assert.Nil(t, m)

	// Nil metrics must be safe to record against
	m.recordRequest(OutcomeOK, time.Second)
	m.recordCache(true)
}
