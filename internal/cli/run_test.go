package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparqlq/internal/querydef"
	"github.com/roach88/sparqlq/internal/querysparql"
	"github.com/roach88/sparqlq/internal/store"
	"github.com/roach88/sparqlq/internal/testutil"
)

const thingsResults = `{
  "head": {"vars": ["s"]},
  "results": {"bindings": [
    {"s": {"type": "uri", "value": "http://example.org/a"}},
    {"s": {"type": "uri", "value": "http://example.org/b"}}
  ]}
}`

func TestRun_Text(t *testing.T) {
	fe := testutil.NewFakeEndpoint(t, thingsResults)
	path := writeDefinition(t, "things.yaml", thingsYAML)

	out, err := execute(t, "run", "--endpoint", fe.URL, path)
	require.NoError(t, err)

	assert.Equal(t, 1, fe.Calls())
	assert.Equal(t, wantThingsText, fe.LastQuery())
	assert.Contains(t, out, "?s")
	assert.Contains(t, out, "<http://example.org/a>")
	assert.Contains(t, out, "<http://example.org/b>")
	assert.Contains(t, out, "_2 rows_")
}

func TestRun_JSON(t *testing.T) {
	fe := testutil.NewFakeEndpoint(t, thingsResults)
	path := writeDefinition(t, "things.yaml", thingsYAML)

	out, err := execute(t, "--format", "json", "run", "--endpoint", fe.URL, path)
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "things", resp.Data.Query)
	assert.Equal(t, querysparql.Fingerprint(wantThingsText), resp.Data.Fingerprint)
	assert.Equal(t, []string{"s"}, resp.Data.Vars)
	assert.Equal(t, [][]string{{"<http://example.org/a>"}, {"<http://example.org/b>"}}, resp.Data.Rows)
}

func TestRun_NoRows(t *testing.T) {
	fe := testutil.NewFakeEndpoint(t, `{"head":{"vars":["s"]},"results":{"bindings":[]}}`)
	path := writeDefinition(t, "things.yaml", thingsYAML)

	out, err := execute(t, "run", "--endpoint", fe.URL, path)
	require.NoError(t, err)
	assert.Contains(t, out, "_No rows_")
}

func TestRun_EndpointErrorIsFailure(t *testing.T) {
	fe := testutil.NewFakeEndpoint(t, "")
	fe.Respond(http.StatusBadRequest, "Parse error")
	path := writeDefinition(t, "things.yaml", thingsYAML)

	out, err := execute(t, "run", "--endpoint", fe.URL, path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "endpoint returned 400: Parse error")
}

func TestRun_CachesWithDatabase(t *testing.T) {
	fe := testutil.NewFakeEndpoint(t, thingsResults)
	path := writeDefinition(t, "things.yaml", thingsYAML)
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	for i := 0; i < 2; i++ {
		_, err := execute(t, "run", "--endpoint", fe.URL, "--db", dbPath, path)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, fe.Calls(), "second run must be answered from the cache")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	rec, err := st.GetQuery(ctx, "things")
	require.NoError(t, err)
	assert.Equal(t, wantThingsText, rec.Text)

	body, found, err := st.GetResult(ctx, rec.Fingerprint, fe.URL)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, thingsResults, string(body))
}

func TestRun_SelectsDefinition(t *testing.T) {
	const two = `
queries:
  first:
    where: [{triple: ["?s", "?p", "?o"]}]
  second:
    select: ["?s"]
    where: [{triple: ["?s", "?p", "?o"]}]
`
	fe := testutil.NewFakeEndpoint(t, thingsResults)
	path := writeDefinition(t, "two.yaml", two)

	t.Run("ambiguous without --query", func(t *testing.T) {
		out, err := execute(t, "run", "--endpoint", fe.URL, path)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, out, "choose one with --query")
	})

	t.Run("by name", func(t *testing.T) {
		_, err := execute(t, "run", "--endpoint", fe.URL, "--query", "second", path)
		require.NoError(t, err)
		assert.Equal(t, "SELECT ?s\nWHERE { ?s ?p ?o . }", fe.LastQuery())
	})

	t.Run("unknown name", func(t *testing.T) {
		out, err := execute(t, "run", "--endpoint", fe.URL, "--query", "third", path)
		require.Error(t, err)
		assert.Contains(t, out, `query "third" not found`)
		assert.Contains(t, out, querydef.ErrCodeNotFound)
	})
}
