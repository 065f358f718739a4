package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tordrt/erd2prisma"
	"github.com/tordrt/erd2prisma/internal/formatter"
)

var (
	outputFile    string
	outputDir     string
	tables        string
	excludeTables string
	provider      string
	format        string
	namespace     string
	strict        bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [source]",
	Short: "Compile a design into a Prisma schema",
	Long: `Compile reads a design from a JSON or YAML model file or from a store URL
(file://, sqlite://, postgres://, mysql://) and writes the Prisma schema.
Without a source the configured store is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	compileCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for a multi-file schema folder")
	compileCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	compileCmd.Flags().StringVarP(&excludeTables, "exclude", "x", "", "Tables to leave out (comma-separated, optional)")
	compileCmd.Flags().StringVarP(&provider, "provider", "p", "", "Datasource provider (default: from config, postgresql)")
	compileCmd.Flags().StringVarP(&format, "format", "f", formatter.FormatPrisma, "Output format: prisma or markdown")
	compileCmd.Flags().StringVar(&namespace, "namespace", "", "Document key when reading from a store")
	compileCmd.Flags().BoolVar(&strict, "strict", false, "Fail when the design has problems the compiler had to work around")
}

func runCompile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	source := cfg.Store.URL
	if len(args) > 0 {
		source = args[0]
	}

	opts := &erd2prisma.Options{
		Provider:      cfg.Provider,
		Tables:        parseList(tables),
		ExcludeTables: parseList(excludeTables),
		Namespace:     cfg.Store.Namespace,
	}
	if provider != "" {
		opts.Provider = provider
	}
	if namespace != "" {
		opts.Namespace = namespace
	}

	// Validate flag combinations
	if outputDir != "" && outputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}
	if format != formatter.FormatPrisma && format != formatter.FormatMarkdown {
		return fmt.Errorf("invalid format: %s (must be 'prisma' or 'markdown')", format)
	}

	doc, err := erd2prisma.LoadDocument(ctx, source, opts.Namespace)
	if err != nil {
		return fmt.Errorf("failed to load design from %s: %w", source, err)
	}

	_, diags := erd2prisma.CompileWithDiagnostics(doc.Snapshot, opts)
	for _, d := range diags {
		warnf(stderr, "%s", d)
	}
	if strict && len(diags) > 0 {
		return fmt.Errorf("design has %d problem(s)", len(diags))
	}

	outOpts := &erd2prisma.OutputOptions{
		Writer:    cmd.OutOrStdout(),
		OutputDir: outputDir,
		Format:    format,
	}

	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				warnf(stderr, "failed to close output file: %v", err)
			}
		}()
		outOpts.Writer = f
	}

	if err := erd2prisma.FormatSchema(doc.Snapshot, opts, outOpts); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	switch {
	case outputDir != "":
		_, _ = fmt.Fprintln(stderr, successFmt("wrote schema folder %s", outputDir))
	case outputFile != "":
		_, _ = fmt.Fprintln(stderr, successFmt("wrote %s", outputFile))
	}
	return nil
}
