package main

import (
	"fmt"

	"github.com/erp/posprint/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	verbose   bool
	schemaDir string
}

func (o *rootOptions) logger() *zap.Logger {
	return logger.NewForCLI(o.verbose)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "posprint-render",
		Short: "Render ESC/POS receipts from schemas",
		Long: `posprint-render draws a document context with a receipt schema and writes
the resulting ESC/POS stream to a file, stdout or a network printer.`,
		Version:       fmt.Sprintf("%s (built %s)", version, buildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	cmd.PersistentFlags().StringVar(&opts.schemaDir, "schema-dir", "", "Directory with schemas overriding or extending the built-in ones")

	cmd.AddCommand(
		newRenderCmd(opts),
		newSchemasCmd(opts),
		newTokenCmd(),
	)
	return cmd
}
