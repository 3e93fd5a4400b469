package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/fluentfrontbase/internal/compiler"
	"github.com/roach88/fluentfrontbase/internal/dialect"
	"github.com/roach88/fluentfrontbase/internal/queryir"
	"github.com/roach88/fluentfrontbase/internal/store"
)

// MigrateOptions holds flags for the migrate command.
type MigrateOptions struct {
	*RootOptions
	Revert bool
}

// MigrateResult lists the tables created or dropped, in execution order.
type MigrateResult struct {
	Tables   []string `json:"tables"`
	Reverted bool     `json:"reverted"`
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "migrate [models-dir]",
		Short: "Create or drop the tables for CUE models",
		Long: `Create the tables for the models in one transaction, referenced
tables first. With --revert, drop them in the reverse order.

The models directory defaults to the models setting of the config.

Example:
  fbsql migrate --driver sqlite3 --dsn ./app.db ./models
  fbsql migrate --config fbsql.yaml --revert`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Revert, "revert", false, "drop the tables instead of creating them")

	return cmd
}

func runMigrate(opts *MigrateOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := opts.LoadConfig()
	if err != nil {
		return commandError(formatter, ErrCodeConfig, err.Error())
	}
	logger, err := cfg.Log.Logger(cmd.ErrOrStderr())
	if err != nil {
		return commandError(formatter, ErrCodeConfig, err.Error())
	}

	modelsDir := cfg.Models
	if len(args) > 0 {
		modelsDir = args[0]
	}
	models, err := loadValidModels(formatter, modelsDir)
	if err != nil {
		return err
	}

	logger.Info("opening database", "driver", cfg.Database.Driver)
	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN, store.WithLogger(logger))
	if err != nil {
		return commandError(formatter, ErrCodeDatabase, err.Error())
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Database.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Database.Timeout)
		defer cancel()
	}

	db := dialect.New(dialect.WithLogger(logger))
	result := MigrateResult{Reverted: opts.Revert}
	err = db.TransactionExecute(ctx, st, func(tx dialect.Conn) error {
		if opts.Revert {
			specs := make([]queryir.ModelSpec, len(models))
			for i, m := range models {
				specs[i] = m.Spec
			}
			return db.Revert(ctx, tx, specs...)
		}
		return createTables(ctx, db, tx, models)
	})
	if err != nil {
		return commandError(formatter, ErrCodeDatabase, fmt.Sprintf("migration failed: %v", err))
	}

	for _, m := range models {
		result.Tables = append(result.Tables, m.Spec.Entity)
	}
	if opts.Revert {
		for i, j := 0, len(result.Tables)-1; i < j; i, j = i+1, j-1 {
			result.Tables[i], result.Tables[j] = result.Tables[j], result.Tables[i]
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	verb := "Created"
	if opts.Revert {
		verb = "Dropped"
	}
	return formatter.Success(fmt.Sprintf("✓ %s %d table(s)", verb, len(result.Tables)))
}

func createTables(ctx context.Context, db *dialect.Database, conn dialect.Conn, models []compiler.Model) error {
	for i := range models {
		if err := db.SchemaExecute(ctx, conn, models[i].Schema(db)); err != nil {
			return fmt.Errorf("create %s: %w", models[i].Spec.Entity, err)
		}
	}
	return nil
}
