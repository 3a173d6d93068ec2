// Package main provides the CLI entry point for xlsxpack.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/ukaji3/xlsxpack-go/internal/config"
	"github.com/ukaji3/xlsxpack-go/internal/dashboard"
	"github.com/ukaji3/xlsxpack-go/internal/server"
	"github.com/ukaji3/xlsxpack-go/internal/source"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/book"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/emit"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/models"
	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/output"
)

type app struct {
	configPath string
	outputPath string
	pretty     bool
	sheetsDir  string
	parts      bool

	cfg    config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout}

	rootCmd := &cobra.Command{
		Use:   "xlsxpack",
		Short: "Export tabular records as xlsx spreadsheets",
		Long: `xlsxpack turns record sections, dashboard snapshots and SQL reports
into xlsx workbooks, and inspects existing workbooks as JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("XLSXPACK_CONFIG"), "Configuration file (YAML)")

	buildCmd := &cobra.Command{
		Use:   "build [sections.yaml|-]",
		Short: "Build a workbook from a sections document",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runBuild,
	}
	buildCmd.Flags().StringVarP(&a.outputPath, "output", "o", "", "Output xlsx path (default: input name with .xlsx)")

	dashboardCmd := &cobra.Command{
		Use:   "dashboard [dashboard.json|-]",
		Short: "Build the dashboard export workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runDashboard,
	}
	dashboardCmd.Flags().StringVarP(&a.outputPath, "output", "o", "", "Output xlsx path")

	reportCmd := &cobra.Command{
		Use:   "report [name]",
		Short: "Run a configured SQL report",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runReport,
	}
	reportCmd.Flags().StringVarP(&a.outputPath, "output", "o", "", "Output directory (default: current directory)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve exports over HTTP",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [input.xlsx]",
		Short: "Print the contents of a workbook as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runInspect,
	}
	inspectCmd.Flags().StringVarP(&a.outputPath, "output", "o", "", "Output file path (default: stdout)")
	inspectCmd.Flags().BoolVar(&a.pretty, "pretty", false, "Pretty-print JSON output")
	inspectCmd.Flags().StringVar(&a.sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	inspectCmd.Flags().BoolVar(&a.parts, "parts", false, "Include the archive part listing")

	rootCmd.AddCommand(buildCmd, dashboardCmd, reportCmd, serveCmd, inspectCmd)
	return rootCmd
}

func (a *app) options() xlsxpack.Options {
	return xlsxpack.Options{
		Creator:      a.cfg.Creator,
		Application:  a.cfg.Application,
		MaxCellChars: a.cfg.MaxCellChars,
	}
}

func (a *app) open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(a.stdin), nil
	}
	return os.Open(path)
}

// save writes wb to path through a directory host.
func (a *app) save(wb *models.Workbook, path string) error {
	host := emit.DirHost{Dir: filepath.Dir(path)}
	if err := xlsxpack.WriteArchive(wb, filepath.Base(path), host, a.options()); err != nil {
		return err
	}
	a.logger.Info("workbook written", "path", host.Path(filepath.Base(path)), "sheets", wb.SheetNames)
	return nil
}

func outputFor(input, output, fallback string) string {
	if output != "" {
		return output
	}
	if input == "-" {
		return fallback
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".xlsx"
}

func (a *app) runBuild(cmd *cobra.Command, args []string) error {
	r, err := a.open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	sections, err := source.Decode(r)
	if err != nil {
		return fmt.Errorf("read sections: %w", err)
	}
	wb := book.FromSections(sections)
	if skipped := len(sections) - wb.Len(); skipped > 0 {
		a.logger.Warn("empty sections skipped", "count", skipped)
	}
	return a.save(wb, outputFor(args[0], a.outputPath, "export.xlsx"))
}

func (a *app) runDashboard(cmd *cobra.Command, args []string) error {
	r, err := a.open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	var d dashboard.Dashboard
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return fmt.Errorf("read dashboard: %w", err)
	}
	f, err := dashboard.ParseFormatter(a.cfg.Locale, a.cfg.Timezone)
	if err != nil {
		return err
	}
	name := "dashboard_" + time.Now().Format("20060102_150405") + ".xlsx"
	return a.save(dashboard.Build(d, f), outputFor(args[0], a.outputPath, name))
}

func (a *app) runReport(cmd *cobra.Command, args []string) error {
	rep, ok := a.cfg.Report(args[0])
	if !ok {
		return fmt.Errorf("unknown report %q", args[0])
	}
	ctx := cmd.Context()
	db, err := source.Open(ctx, a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	queries := make([]source.Query, len(rep.Sections))
	for i, sec := range rep.Sections {
		queries[i] = source.Query{Sheet: sec.Sheet, SQL: sec.Query}
	}
	sections, err := source.QuerySections(ctx, db, queries)
	if err != nil {
		return err
	}
	return a.save(book.FromSections(sections), filepath.Join(a.outputPath, config.ReportFilename(rep, time.Now())))
}

func (a *app) runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if a.cfg.Database.DSN != "" {
		var err error
		db, err = source.Open(ctx, a.cfg.Database.Driver, a.cfg.Database.DSN)
		if err != nil {
			a.logger.Error("database unavailable", "driver", a.cfg.Database.Driver, "err", err)
			return err
		}
		defer db.Close()
	}

	s, err := server.New(a.cfg, db, a.logger)
	if err != nil {
		return err
	}
	return s.ListenAndServe(ctx)
}

func (a *app) runInspect(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	wb, err := xlsxpack.Extract(inputPath, xlsxpack.InspectOptions{IncludeParts: a.parts})
	if err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}

	jsonData, err := output.ToJSON(wb, a.pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if a.outputPath != "" {
		if err := os.WriteFile(a.outputPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else if a.sheetsDir == "" {
		fmt.Fprintln(a.stdout, string(jsonData))
	}

	if a.sheetsDir != "" {
		if err := a.writeSheetFiles(wb, a.sheetsDir); err != nil {
			return fmt.Errorf("failed to write sheet files: %w", err)
		}
	}
	return nil
}

func (a *app) writeSheetFiles(wb *models.WorkbookData, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, sheetName := range wb.SheetOrder {
		sheet, ok := wb.Sheets[sheetName]
		if !ok {
			continue
		}
		jsonData, err := output.SheetToJSON(&sheet, a.pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, book.SanitizeSheetName(sheetName)+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}
	return nil
}
