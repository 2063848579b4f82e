package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/sparqlq/internal/query"
	"github.com/roach88/sparqlq/internal/querydef"
)

// DefinitionReport holds the structural warnings for one definition.
type DefinitionReport struct {
	Name     string   `json:"name"`
	Source   string   `json:"source"`
	Warnings []string `json:"warnings,omitempty"`
}

// ValidationReport holds validation results for every loaded definition.
type ValidationReport struct {
	Valid       bool               `json:"valid"`
	Definitions []DefinitionReport `json:"definitions"`
	Errors      []CLIError         `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <pattern>...",
		Short: "Check definitions and report structural warnings",
		Long: `Load query definitions and report structural warnings without
compiling them: empty groups, single-branch unions, OPTIONAL groups
used directly as union alternatives, LIMIT 0, and the like.

Warnings never fail the command. Definitions that fail to load do.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, patterns []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loadResult, loadErrors := querydef.Load(querydef.LoadModeCollectAll, patterns...)
	if loadResult == nil && len(loadErrors) > 0 {
		return outputCommandError(formatter, loadErrors[0])
	}

	formatter.VerboseLog("Found %d definition file(s)", len(loadResult.Files))

	report := ValidationReport{
		Valid:       len(loadErrors) == 0,
		Definitions: make([]DefinitionReport, 0, len(loadResult.Definitions)),
	}
	for _, def := range loadResult.Definitions {
		formatter.VerboseLog("Validating query: %s", def.Name)
		result := query.Validate(def.Query)
		report.Definitions = append(report.Definitions, DefinitionReport{
			Name:     def.Name,
			Source:   def.Source,
			Warnings: result.Warnings,
		})
	}
	for _, err := range loadErrors {
		code, message := errorCode(err)
		cliErr := CLIError{Code: code, Message: message}
		if loc := errorLocation(err); loc != "" {
			cliErr.Details = map[string]string{"location": loc}
		}
		report.Errors = append(report.Errors, cliErr)
	}

	if err := outputValidationReport(formatter, report); err != nil {
		return err
	}
	if !report.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(report.Errors)))
	}
	return nil
}

// outputValidationReport prints the report. Text mode marks clean
// definitions green, warnings yellow and load errors red.
func outputValidationReport(formatter *OutputFormatter, report ValidationReport) error {
	if formatter.Format == "json" {
		return formatter.Success(report)
	}

	w := formatter.Writer
	warningCount := 0
	for _, def := range report.Definitions {
		if len(def.Warnings) == 0 {
			fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), def.Name)
			continue
		}
		fmt.Fprintf(w, "%s %s (%d warning(s))\n", color.YellowString("!"), def.Name, len(def.Warnings))
		for _, warning := range def.Warnings {
			fmt.Fprintf(w, "    %s\n", warning)
		}
		warningCount += len(def.Warnings)
	}
	for _, e := range report.Errors {
		fmt.Fprintf(w, "%s %s: %s\n", color.RedString("✗"), e.Code, e.Message)
		if details, ok := e.Details.(map[string]string); ok {
			fmt.Fprintf(w, "    at %s\n", details["location"])
		}
	}

	fmt.Fprintln(w)
	switch {
	case !report.Valid:
		fmt.Fprintln(w, color.RedString("✗ %d definition error(s)", len(report.Errors)))
	case warningCount > 0:
		fmt.Fprintln(w, color.YellowString("✓ %d query(ies) valid, %d warning(s)", len(report.Definitions), warningCount))
	default:
		fmt.Fprintln(w, color.GreenString("✓ %d query(ies) valid", len(report.Definitions)))
	}
	return nil
}
