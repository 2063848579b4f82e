package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sparqlq/internal/querydef"
	"github.com/roach88/sparqlq/internal/querysparql"
	"github.com/roach88/sparqlq/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Pretty        bool
	PrunePrefixes bool
	Database      string // save compiled text to this catalog
	Output        string // output file path
}

// CompiledQuery is one compiled definition.
type CompiledQuery struct {
	Name        string   `json:"name"`
	Source      string   `json:"source"`
	Fingerprint string   `json:"fingerprint"`
	Text        string   `json:"text"`
	Namespaces  []string `json:"namespaces,omitempty"`
	Saved       bool     `json:"saved,omitempty"` // newly inserted into the catalog
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <pattern>...",
		Short: "Compile query definitions to SPARQL text",
		Long: `Compile CUE or YAML query definitions to SPARQL SELECT text.

Patterns are files or doublestar globs such as "queries/**/*.cue".
Every matched file is loaded, every definition is compiled, and the
query text is printed in definition order.

Example:
  sparqlq compile queries/things.yaml
  sparqlq compile --pretty --db ./catalog.db 'queries/**/*.cue'`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "indent nested blocks, one modifier per line")
	cmd.Flags().BoolVar(&opts.PrunePrefixes, "prune-prefixes", false, "emit PREFIX lines only for namespaces the query uses")
	cmd.Flags().StringVar(&opts.Database, "db", "", "save compiled queries to this SQLite catalog")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, patterns []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loadResult, loadErrors := querydef.Load(querydef.LoadModeCollectAll, patterns...)
	if loadResult == nil && len(loadErrors) > 0 {
		return outputCommandError(formatter, loadErrors[0])
	}

	formatter.VerboseLog("Found %d definition file(s)", len(loadResult.Files))

	if len(loadErrors) > 0 {
		return outputLoadErrors(formatter, loadErrors)
	}

	compiled := make([]CompiledQuery, 0, len(loadResult.Definitions))
	for _, def := range loadResult.Definitions {
		formatter.VerboseLog("Compiling query: %s", def.Name)
		cq, err := compileDefinition(def, opts.Pretty, opts.PrunePrefixes)
		if err != nil {
			return outputLoadErrors(formatter, []error{err})
		}
		compiled = append(compiled, cq)
	}

	if opts.Database != "" {
		if err := saveCompiled(cmd.Context(), opts.Database, compiled); err != nil {
			return outputCommandError(formatter, err)
		}
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(joinTexts(compiled)), 0644); err != nil {
			return outputCommandError(formatter, &querydef.LoadError{
				Code:    querydef.ErrCodeWriteFailed,
				Message: fmt.Sprintf("writing output file: %v", err),
			})
		}
	}

	return outputCompileSuccess(formatter, compiled, opts.Output)
}

// compileDefinition compiles one definition with its own prefixes.
func compileDefinition(def querydef.Definition, pretty, prune bool) (CompiledQuery, error) {
	compiler := querysparql.NewSPARQLCompiler(def.Prefixes)
	compiler.PruneUnusedPrefixes = prune
	if pretty {
		compiler.Indent = "  "
	}

	result, err := compiler.Compile(def.Query)
	if err != nil {
		return CompiledQuery{}, &querydef.LoadError{
			Code:    querydef.ErrCodeInvalidQuery,
			Message: fmt.Sprintf("%s (%s): %v", def.Name, def.Source, err),
		}
	}

	return CompiledQuery{
		Name:        def.Name,
		Source:      def.Source,
		Fingerprint: result.Fingerprint(),
		Text:        result.Text,
		Namespaces:  result.Namespaces,
	}, nil
}

// saveCompiled records every compiled query in the catalog at path.
func saveCompiled(ctx context.Context, path string, compiled []CompiledQuery) error {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(path)
	if err != nil {
		return &querydef.LoadError{Code: querydef.ErrCodeNotFound, Message: fmt.Sprintf("opening catalog: %v", err)}
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing catalog", "error", closeErr)
		}
	}()

	for i := range compiled {
		_, inserted, err := st.SaveQuery(ctx, compiled[i].Name, compiled[i].Text)
		if err != nil {
			return &querydef.LoadError{Code: querydef.ErrCodeWriteFailed, Message: fmt.Sprintf("saving %s: %v", compiled[i].Name, err)}
		}
		compiled[i].Saved = inserted
	}
	return nil
}

// joinTexts renders compiled queries separated by blank lines, each with a
// trailing newline.
func joinTexts(compiled []CompiledQuery) string {
	var b strings.Builder
	for i, cq := range compiled {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "# %s\n%s\n", cq.Name, cq.Text)
	}
	return b.String()
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, compiled []CompiledQuery, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(compiled)
	}

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "✓ Compiled %d query(ies)\n", len(compiled))
		fmt.Fprintf(formatter.Writer, "Wrote query text to %s\n", outputFile)
		return nil
	}

	fmt.Fprint(formatter.Writer, joinTexts(compiled))
	return nil
}
