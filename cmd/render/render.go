package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	printingapp "github.com/erp/posprint/internal/application/printing"
	"github.com/erp/posprint/internal/domain/printing"
	"github.com/erp/posprint/internal/infrastructure/escpos"
	infra "github.com/erp/posprint/internal/infrastructure/printing"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type renderOptions struct {
	*rootOptions
	contextFile string
	schemaName  string
	schemaFile  string
	logo        string
	out         string
	printer     string
	timeout     time.Duration
	copies      int
	trace       bool
	strict      bool
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "render [context.json]",
		Short: "Render a document context to an ESC/POS stream",
		Long: `Render draws a document context with a schema. The schema comes from
--schema-file, then --schema, then the default schema of the document type.
Without --printer the stream is written to --out ("-" is stdout).`,
		Example: `  posprint-render render closing.json --out closing.bin
  posprint-render render closing.json --schema cashflow_closing_compact --trace
  posprint-render render regular.json --schema-file custom.yaml --printer 10.0.0.20:9100`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.contextFile = args[0]
			}
			return runRender(cmd.Context(), cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.contextFile, "context", "c", "", "Document context JSON file")
	f.StringVarP(&opts.schemaName, "schema", "s", "", "Name of a built-in or --schema-dir schema")
	f.StringVarP(&opts.schemaFile, "schema-file", "f", "", "Schema file (YAML or JSON)")
	f.StringVar(&opts.logo, "logo", "", "PNG drawn by the image step, replacing the context's logo")
	f.StringVarP(&opts.out, "out", "o", "-", "Output file for the stream")
	f.StringVarP(&opts.printer, "printer", "p", "", "Send the stream to a raw TCP printer (host:port)")
	f.DurationVar(&opts.timeout, "timeout", 5*time.Second, "Printer dial and write timeout")
	f.IntVarP(&opts.copies, "copies", "n", 1, "Number of copies to send")
	f.BoolVarP(&opts.trace, "trace", "t", false, "Print step timings to stderr after the render")
	f.BoolVar(&opts.strict, "strict", false, "Fail when a step is unknown or fails")
	return cmd
}

func runRender(ctx context.Context, cmd *cobra.Command, opts *renderOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.logger()
	defer func() { _ = log.Sync() }()

	if opts.contextFile == "" {
		return errors.New("a document context file is required")
	}
	if opts.copies < 1 {
		return fmt.Errorf("copies must be at least 1, got %d", opts.copies)
	}

	doc, err := readContext(opts.contextFile)
	if err != nil {
		return err
	}
	if opts.logo != "" {
		if doc.Logo, err = readLogo(opts.logo, doc.Printer); err != nil {
			return err
		}
	}
	schema, err := resolveSchema(opts, doc, log)
	if err != nil {
		return err
	}

	renderer := infra.NewSchemaRenderer(nil, infra.WithLogger(log))
	result, err := renderer.Render(ctx, schema, doc, infra.WithTrace(opts.trace))
	if err != nil {
		return err
	}

	for _, m := range result.Markers {
		log.Warn("Unknown step", zap.String("step", m.Error), zap.Int("position", m.Position))
	}
	for _, se := range result.StepErrors {
		log.Warn("Step failed", zap.String("step", se.Step), zap.Error(se.Err))
	}
	if opts.strict && !result.Complete() {
		return fmt.Errorf("render of %s incomplete: %d unknown steps, %d failed steps",
			schema.Name, len(result.Markers), len(result.StepErrors))
	}

	transport, closeOut, err := openTransport(cmd, opts)
	if err != nil {
		return err
	}
	defer closeOut()

	data := result.Bytes()
	for i := 0; i < opts.copies; i++ {
		if err := transport.Send(ctx, result.Stream.CopyBytes(i, opts.copies)); err != nil {
			return fmt.Errorf("copy %d: %w", i+1, err)
		}
	}
	log.Debug("Render finished",
		zap.String("schema", schema.Name),
		zap.Int("size", len(data)),
		zap.Int("copies", opts.copies),
		zap.Strings("visited", result.Visited),
	)

	if result.Trace != nil {
		if err := result.Trace.Send(cmd.ErrOrStderr()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	return nil
}

func readContext(path string) (*printing.DocumentContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read context: %w", err)
	}
	var doc printing.DocumentContext
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse context %s: %w", path, err)
	}
	if err := printingapp.NewContextValidator().Struct(&doc); err != nil {
		return nil, fmt.Errorf("invalid context %s: %w", path, err)
	}
	return &doc, nil
}

// dotsPerColumn is the width of a font A character in printer dots
const dotsPerColumn = 12

// readLogo rasterises a PNG, cropped to the printable width of p
func readLogo(path string, p printing.Printer) (*printing.Logo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode logo %s: %w", path, err)
	}
	r := escpos.RasterFromImage(img, p.WithDefaults().NormalWidth*dotsPerColumn)
	if r.Width == 0 || r.Height == 0 {
		return nil, fmt.Errorf("logo %s is empty", path)
	}
	return &printing.Logo{Width: r.Width, Height: r.Height, Data: r.Data}, nil
}

func resolveSchema(opts *renderOptions, doc *printing.DocumentContext, log *zap.Logger) (printing.Schema, error) {
	if opts.schemaFile != "" {
		return readSchemaFile(opts.schemaFile)
	}

	store, err := infra.NewSchemaStore(&infra.SchemaStoreConfig{ExternalDir: opts.schemaDir, Logger: log})
	if err != nil {
		return printing.Schema{}, err
	}
	if opts.schemaName != "" {
		schema, ok := store.GetByName(opts.schemaName)
		if !ok {
			return printing.Schema{}, fmt.Errorf("schema not found: %s", opts.schemaName)
		}
		return schema, nil
	}
	if doc.Document == nil {
		return printing.Schema{}, errors.New("context has no document; pass --schema or --schema-file")
	}
	schema, ok := store.GetDefault(doc.Document.Type)
	if !ok {
		return printing.Schema{}, fmt.Errorf("no default schema for document type %s", doc.Document.Type)
	}
	return schema, nil
}

func readSchemaFile(path string) (printing.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return printing.Schema{}, fmt.Errorf("read schema: %w", err)
	}

	var schema printing.Schema
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		schema, err = printing.ParseSchemaYAML(data)
	default:
		schema, err = printing.ParseSchemaJSON(data)
	}
	if err != nil {
		return printing.Schema{}, fmt.Errorf("parse schema %s: %w", path, err)
	}
	if schema.Name == "" {
		schema.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := schema.Validate(); err != nil {
		return printing.Schema{}, fmt.Errorf("invalid schema %s: %w", path, err)
	}
	return schema, nil
}

func openTransport(cmd *cobra.Command, opts *renderOptions) (escpos.Transport, func(), error) {
	if opts.printer != "" {
		return escpos.NewNetworkTransport(opts.printer, escpos.WithTimeout(opts.timeout)), func() {}, nil
	}
	if opts.out == "" || opts.out == "-" {
		return escpos.NewWriterTransport(cmd.OutOrStdout()), func() {}, nil
	}

	file, err := os.Create(opts.out)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return escpos.NewWriterTransport(file), func() { _ = file.Close() }, nil
}
