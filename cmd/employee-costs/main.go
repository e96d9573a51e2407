// Command employee-costs serves the employee cost API and manages its
// PostgreSQL schema.
package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/erp-platform/employee-service/pkg/logger"
)

const serviceName = "employee-costs"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code. Failures
// raised before the process logger is configured are written to stderr.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		log := logger.Get()
		if log.GetLevel() == zerolog.Disabled {
			log = logger.New(logger.Options{Output: stderr, Service: serviceName})
		}
		log.Error().Err(err).Msg("command failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var envFile string

	serve := newServeCmd()
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Employee cost tracking service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Values already in the environment win over the file.
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		},
		// Without a subcommand the server starts.
		RunE: serve.RunE,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before reading the environment")

	root.AddCommand(serve, newMigrateCmd())
	return root
}
