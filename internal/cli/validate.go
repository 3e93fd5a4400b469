package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/fluentfrontbase/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Models int                        `json:"models"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <models-dir>",
		Short: "Validate CUE model definitions",
		Long: `Validate CUE model definitions without touching a database.

Reports every compile error, missing identifier, bad reference and
reference cycle found in the directory.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, modelsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadModels(modelsDir, LoadModeCollectAll)
	if loadResult == nil {
		return loadFailure(formatter, loadErrors[0])
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, modelsDir)
	for _, m := range loadResult.Models {
		formatter.VerboseLog("Validating model: %s", m.Name)
	}

	var validationErrors []compiler.ValidationError
	for _, err := range loadErrors {
		validationErrors = append(validationErrors, loadErrorToValidation(err))
	}
	validationErrors = append(validationErrors, compiler.Validate(loadResult.Models)...)

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}

	result := ValidationResult{Valid: true, Models: len(loadResult.Models)}
	warnings := compiler.Warnings(loadResult.Models)
	if formatter.Format == "json" {
		return formatter.Success(result, warnings...)
	}
	return formatter.Success(fmt.Sprintf("✓ All models valid (%d model(s))", result.Models), warnings...)
}

// loadFailure reports an error that prevented loading the directory.
func loadFailure(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return commandError(formatter, loadErr.Code, loadErr.Message)
	}
	return commandError(formatter, ErrCodeGeneric, err.Error())
}

func loadErrorToValidation(err error) compiler.ValidationError {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		v := compiler.ValidationError{Field: "load", Message: loadErr.Message, Code: loadErr.Code}
		if loadErr.Pos.IsValid() {
			v.Line = loadErr.Pos.Line()
		}
		return v
	}
	return compiler.ValidationError{Field: "load", Message: err.Error(), Code: ErrCodeGeneric}
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

// loadValidModels loads, validates and orders the models in dir for the
// commands that act on them. Any problem is reported through formatter.
func loadValidModels(formatter *OutputFormatter, dir string) ([]compiler.Model, error) {
	loadResult, loadErrors := LoadModels(dir, LoadModeCollectAll)
	if loadResult == nil {
		return nil, loadFailure(formatter, loadErrors[0])
	}

	var errs []compiler.ValidationError
	for _, err := range loadErrors {
		errs = append(errs, loadErrorToValidation(err))
	}
	errs = append(errs, compiler.Validate(loadResult.Models)...)
	if len(errs) > 0 {
		return nil, outputValidationErrors(formatter, errs)
	}

	formatter.Warn(compiler.Warnings(loadResult.Models)...)
	return compiler.Order(loadResult.Models)
}
