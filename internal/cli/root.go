package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"DisasterPipeline/internal/app"
	"DisasterPipeline/internal/config"
	"DisasterPipeline/internal/domain"
	"DisasterPipeline/internal/logging"
)

const usageText = `Please provide the filepaths of the messages and categories datasets as the first and second argument respectively, as well as the filepath of the database to save the cleaned data to as the third argument.

Example: processdata disaster_messages.csv disaster_categories.csv DisasterResponse.db`

// Runner executes one job with the resolved configuration.
type Runner func(ctx context.Context, cfg config.Config, job domain.Job) error

// Main runs the root command with args and returns the process exit code.
// Usage goes to stdout; a failed run is logged to stderr and yields 1.
func Main(ctx context.Context, run Runner, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(run)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		logging.NewWithWriter(stderr, "error").Error("application stopped", "error", err)
		return 1
	}
	return 0
}

// RunApplication builds the application from cfg and processes job.
func RunApplication(ctx context.Context, cfg config.Config, job domain.Job) error {
	application, err := app.New(cfg, nil)
	if err != nil {
		return err
	}
	_, err = application.Run(ctx, job)
	return err
}

// NewRootCommand builds the command. Any argument count other than three
// prints the usage text and returns without touching the filesystem.
func NewRootCommand(run Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "processdata <messages_path> <categories_path> <database_name>",
		Short: "Clean disaster messages and categories into a relational table",
		Long: `processdata joins a messages CSV and a categories CSV on their id column,
expands the packed "name-value;..." categories into one 0/1 column each,
drops duplicate rows and writes the result to message_table.

The database argument is a SQLite file name (".db" is appended when missing)
or a postgres:// URL.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				fmt.Fprintln(cmd.OutOrStdout(), usageText)
				return nil
			}

			_ = godotenv.Load()

			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg, domain.Job{
				MessagesPath:   args[0],
				CategoriesPath: args[1],
				Database:       args[2],
			})
		},
	}

	cmd.Flags().String("config", "", "Path to a YAML config file (default $MESSAGE_ETL_CONFIG)")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().String("if-exists", "", "When message_table exists: fail, replace or append")
	cmd.Flags().Bool("strict", false, "Reject category values other than 0 and 1")

	return cmd
}

// resolveConfig layers explicitly set flags over the loaded configuration.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("read config flag: %w", err)
	}
	cfg := config.Load(path)

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("if-exists") {
		cfg.Storage.IfExists, _ = cmd.Flags().GetString("if-exists")
	}
	if cmd.Flags().Changed("strict") {
		cfg.Cleaning.Strict, _ = cmd.Flags().GetBool("strict")
	}

	return cfg, nil
}
