package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/sparqlq/internal/endpoint"
	"github.com/roach88/sparqlq/internal/querydef"
	"github.com/roach88/sparqlq/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Endpoint string
	Query    string        // definition name; optional when the file defines one query
	Database string        // result cache and catalog
	Timeout  time.Duration // whole-request timeout

	// HTTPClient overrides the endpoint HTTP client (for testing).
	HTTPClient *http.Client
}

// RunResult is the JSON payload of a successful run.
type RunResult struct {
	Query       string     `json:"query"`
	Fingerprint string     `json:"fingerprint"`
	Vars        []string   `json:"vars"`
	Rows        [][]string `json:"rows"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Compile a query and execute it against an endpoint",
		Long: `Compile one query definition and execute it against a SPARQL endpoint.

With --db, the compiled text is saved to the catalog and responses are
cached by query fingerprint and endpoint, so repeated runs of an
unchanged query are answered locally.

Example:
  sparqlq run --endpoint https://query.example.org/sparql queries/things.yaml
  sparqlq run --endpoint http://localhost:3030/ds/sparql --query things --db ./catalog.db queries/all.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "", "SPARQL endpoint query URL (required)")
	cmd.Flags().StringVar(&opts.Query, "query", "", "name of the query to run")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite catalog and result cache")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", endpoint.DefaultTimeout, "request timeout")
	_ = cmd.MarkFlagRequired("endpoint")

	return cmd
}

func runQuery(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loadResult, loadErrors := querydef.Load(querydef.LoadModeFailFast, path)
	if loadResult == nil && len(loadErrors) > 0 {
		return outputCommandError(formatter, loadErrors[0])
	}
	if len(loadErrors) > 0 {
		return outputLoadErrors(formatter, loadErrors)
	}

	def, err := selectDefinition(loadResult.Definitions, opts.Query)
	if err != nil {
		return outputCommandError(formatter, err)
	}

	compiled, err := compileDefinition(def, false, false)
	if err != nil {
		return outputLoadErrors(formatter, []error{err})
	}
	formatter.VerboseLog("Compiled %s (%s)", compiled.Name, compiled.Fingerprint)

	client := endpoint.NewClient(opts.Endpoint)
	client.HTTPClient = opts.HTTPClient
	if client.HTTPClient == nil {
		client.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}

	var exec endpoint.Executor = client
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return outputCommandError(formatter, &querydef.LoadError{
				Code:    querydef.ErrCodeNotFound,
				Message: fmt.Sprintf("opening catalog: %v", err),
			})
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing catalog", "error", closeErr)
			}
		}()

		ctx := commandContext(cmd)
		if _, _, err := st.SaveQuery(ctx, compiled.Name, compiled.Text); err != nil {
			return outputCommandError(formatter, &querydef.LoadError{
				Code:    querydef.ErrCodeWriteFailed,
				Message: fmt.Sprintf("saving %s: %v", compiled.Name, err),
			})
		}
		exec = &endpoint.CachingExecutor{Next: client, Cache: st, Endpoint: opts.Endpoint}
	}

	ctx, cancel := signalContext(commandContext(cmd))
	defer cancel()

	slog.Debug("executing query", "query", compiled.Name, "endpoint", opts.Endpoint)
	rs, err := exec.Query(ctx, compiled.Text)
	if err != nil {
		_ = formatter.Error(querydef.ErrCodeGeneric, fmt.Sprintf("executing %s: %v", compiled.Name, err), nil)
		return WrapExitError(ExitFailure, "query execution failed", err)
	}

	return outputRunSuccess(formatter, RunResult{
		Query:       compiled.Name,
		Fingerprint: compiled.Fingerprint,
		Vars:        rs.Vars,
		Rows:        rs.Table(),
	})
}

// selectDefinition picks the definition named name, or the only one when
// name is empty.
func selectDefinition(defs []querydef.Definition, name string) (querydef.Definition, error) {
	if name == "" {
		if len(defs) == 1 {
			return defs[0], nil
		}
		names := make([]string, len(defs))
		for i, d := range defs {
			names[i] = d.Name
		}
		return querydef.Definition{}, &querydef.LoadError{
			Code:    querydef.ErrCodeNotFound,
			Message: fmt.Sprintf("file defines %d queries %v; choose one with --query", len(defs), names),
		}
	}
	for _, d := range defs {
		if d.Name == name {
			return d, nil
		}
	}
	return querydef.Definition{}, &querydef.LoadError{
		Code:    querydef.ErrCodeNotFound,
		Message: fmt.Sprintf("query %q not found", name),
	}
}

func outputRunSuccess(formatter *OutputFormatter, result RunResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if len(result.Rows) == 0 {
		fmt.Fprintf(formatter.Writer, "_Columns: %v_\n\n_No rows_\n", result.Vars)
		return nil
	}

	headers := make([]string, len(result.Vars))
	for i, v := range result.Vars {
		headers[i] = "?" + v
	}
	if err := formatter.Table(headers, result.Rows); err != nil {
		return WrapExitError(ExitFailure, "rendering results", err)
	}
	fmt.Fprintf(formatter.Writer, "\n_%d rows_\n", len(result.Rows))
	return nil
}

// commandContext returns the command's context, or Background when run
// outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, cancelling query", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan) // Prevent signal handler leak
		cancel()
	}
}
