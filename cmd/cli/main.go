package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"sheetdash/adapters/excel"
	"sheetdash/adapters/memory"
	"sheetdash/app"
	"sheetdash/domain/grid"
	"sheetdash/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetdash-cli",
		Short: "SheetDash CLI for inspecting and exporting workbooks",
	}

	rootCmd.AddCommand(
		newInspectCmd(),
		newExportCmd(),
		newBriefCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadService decodes the workbook at path into a fresh service backed by
// the in-memory history store.
func loadService(ctx context.Context, path string) (*app.DashboardService, error) {
	data := config.DataConfig{
		DefaultPageSize: 10,
		DefaultTopN:     10,
		MaxExportCols:   10,
	}
	service := app.NewDashboardService(excel.NewDataReader(), memory.NewSnapshotRepository(), data)
	if err := service.LoadFile(ctx, path); err != nil {
		return nil, err
	}
	return service, nil
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show sheets, sizes and column kinds for a workbook",
		Long: `Decode a workbook and print its structure: every sheet with its row and
column counts, and each sheet's columns partitioned into numeric,
categorical and empty.

Example: sheetdash-cli inspect portfolio.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0])
		},
	}
}

func runInspect(ctx context.Context, path string) error {
	service, err := loadService(ctx, path)
	if err != nil {
		return err
	}

	sheets := service.Sheets()
	fmt.Printf("Workbook: %s\n", service.Source())
	fmt.Printf("Sheets:   %d\n\n", len(sheets))

	for _, sheet := range sheets {
		records, err := service.Records(sheet.Name)
		if err != nil {
			return err
		}
		kinds, err := service.Kinds(sheet.Name)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d rows, %d columns\n", sheet.Name, sheet.Rows, sheet.Columns)
		fmt.Printf("  numeric:     %s\n", columnList(kinds.Numeric))
		fmt.Printf("  categorical: %s\n", columnList(kinds.Categorical))

		var empty []string
		for _, column := range records.Columns {
			if kinds.KindOf(column) == grid.KindEmpty {
				empty = append(empty, column)
			}
		}
		if len(empty) > 0 {
			fmt.Printf("  empty:       %s\n", columnList(empty))
		}
		fmt.Println()
	}
	return nil
}

func newExportCmd() *cobra.Command {
	var sheet string
	var format string
	var columns string
	var out string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export a sheet as CSV or JSON",
		Long: `Decode a workbook and write one sheet in the requested format to stdout
or a file.

Example: sheetdash-cli export portfolio.xlsx --sheet "Dashboard Data" --format csv --columns Project,Region`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), args[0], sheet, format, columns, out)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to export (default: primary sheet)")
	cmd.Flags().StringVar(&format, "format", "csv", "Export format: csv or json")
	cmd.Flags().StringVar(&columns, "columns", "", "Comma-separated column selection (default: all)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default: stdout)")

	return cmd
}

func runExport(ctx context.Context, path, sheet, format, columns, out string) error {
	service, err := loadService(ctx, path)
	if err != nil {
		return err
	}

	if sheet == "" {
		primary, ok := service.PrimarySheet()
		if !ok {
			return fmt.Errorf("workbook has no usable sheet")
		}
		sheet = primary
	}

	var selection []string
	for _, part := range strings.Split(columns, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			selection = append(selection, trimmed)
		}
	}

	filename, content, err := service.Export(sheet, selection, format)
	if err != nil {
		return err
	}

	if out == "" {
		fmt.Print(content)
		return nil
	}
	if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Printf("Wrote %s (%d bytes, export name %s)\n", out, len(content), filename)
	return nil
}

func newBriefCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "brief [file]",
		Short: "Generate a markdown data brief for a workbook",
		Long: `Decode a workbook and write its markdown brief: per-sheet shape, column
kinds, headline metrics and top categorical values.

Example: sheetdash-cli brief portfolio.xlsx --out brief.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrief(cmd.Context(), args[0], out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (default: stdout)")

	return cmd
}

func runBrief(ctx context.Context, path, out string) error {
	service, err := loadService(ctx, path)
	if err != nil {
		return err
	}

	b, err := service.Brief()
	if err != nil {
		return err
	}

	md := b.Markdown()
	if out == "" {
		fmt.Print(md)
		return nil
	}
	if err := os.WriteFile(out, []byte(md), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", out, len(md))
	return nil
}

func columnList(columns []string) string {
	if len(columns) == 0 {
		return "-"
	}
	return strings.Join(columns, ", ")
}
