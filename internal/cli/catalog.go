package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/sparqlq/internal/querydef"
	"github.com/roach88/sparqlq/internal/store"
)

// CatalogOptions holds flags for the catalog command.
type CatalogOptions struct {
	*RootOptions
	Database string
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List queries saved in a catalog",
		Long: `List every compiled query saved with "compile --db" or "run --db",
in save order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite catalog (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runCatalog(opts *CatalogOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	// Listing must not create an empty catalog as a side effect
	if _, err := os.Stat(opts.Database); err != nil {
		return outputCommandError(formatter, &querydef.LoadError{
			Code:    querydef.ErrCodeNotFound,
			Message: fmt.Sprintf("catalog not found: %s", opts.Database),
		})
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return outputCommandError(formatter, &querydef.LoadError{
			Code:    querydef.ErrCodeLoadFailed,
			Message: fmt.Sprintf("opening catalog: %v", err),
		})
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing catalog", "error", closeErr)
		}
	}()

	records, err := st.ListQueries(commandContext(cmd))
	if err != nil {
		return outputCommandError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(formatter.Writer, "_Catalog is empty_")
		return nil
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = []string{strconv.FormatInt(rec.Seq, 10), rec.Name, shortFingerprint(rec.Fingerprint), rec.ID}
	}
	if err := formatter.Table([]string{"seq", "name", "fingerprint", "id"}, rows); err != nil {
		return WrapExitError(ExitFailure, "rendering catalog", err)
	}
	return nil
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
