package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/fluentfrontbase/internal/compiler"
	"github.com/roach88/fluentfrontbase/internal/dialect"
	"github.com/roach88/fluentfrontbase/internal/queryir"
	"github.com/roach88/fluentfrontbase/internal/querysql"
)

// DDLOptions holds flags for the ddl command.
type DDLOptions struct {
	*RootOptions
	Drop   bool
	Output string // output file path
}

// DDLResult holds the rendered statements in execution order.
type DDLResult struct {
	Statements []string `json:"statements"`
}

// NewDDLCommand creates the ddl command.
func NewDDLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DDLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ddl <models-dir>",
		Short: "Print the Frontbase DDL for CUE models",
		Long: `Render CREATE TABLE statements for the models in dependency order:
referenced tables come first. With --drop, render the DROP TABLE
statements in the reverse order instead.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDDL(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Drop, "drop", false, "render DROP TABLE statements")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runDDL(opts *DDLOptions, modelsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	models, err := loadValidModels(formatter, modelsDir)
	if err != nil {
		return err
	}

	statements, err := renderDDL(dialect.New(), models, opts.Drop)
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, err.Error())
	}
	result := DDLResult{Statements: statements}
	script := strings.Join(statements, ";\n") + ";\n"

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(script), 0644); err != nil {
			return commandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
		if formatter.Format == "json" {
			return formatter.Success(result)
		}
		return formatter.Success(fmt.Sprintf("Wrote %d statement(s) to %s", len(statements), opts.Output))
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprint(formatter.Writer, script)
	return nil
}

// renderDDL serializes the schema statements for ordered models.
func renderDDL(db *dialect.Database, models []compiler.Model, drop bool) ([]string, error) {
	var schemas []queryir.Schema
	if drop {
		for i := len(models) - 1; i >= 0; i-- {
			schemas = append(schemas, queryir.DropTable{Table: models[i].Spec.Entity})
		}
	} else {
		for i := range models {
			schemas = append(schemas, models[i].Schema(db))
		}
	}

	statements := make([]string, 0, len(schemas))
	for _, schema := range schemas {
		stmt, err := db.SchemaStatement(schema)
		if err != nil {
			return nil, err
		}
		sql, _, err := querysql.Serialize(stmt)
		if err != nil {
			return nil, err
		}
		statements = append(statements, sql)
	}
	return statements, nil
}
