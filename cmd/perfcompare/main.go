package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"perfcli/internal/comparison"
	"perfcli/internal/config"
	"perfcli/internal/exporter"
	"perfcli/internal/infrastructure"
	"perfcli/internal/services"
)

func main() {
	sla := flag.Float64("sla", comparison.DefaultThreshold, "response time SLA in seconds; averages strictly above it count as breaches")
	outDir := flag.String("out", "", "directory for CSV exports (default: no CSV export)")
	workbook := flag.String("xlsx", "", "path for an XLSX workbook export (default: no workbook)")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: perfcompare [flags] report.html [report2.html ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	logger := infrastructure.InitializeLogger(config.LoggingConfig{Level: "warn", Format: "text"})

	files := make([]services.ReportFile, 0, flag.NArg())
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Error("Failed to read report", "path", path, "error", err)
			os.Exit(1)
		}
		files = append(files, services.ReportFile{Name: filepath.Base(path), Data: data})
	}

	service := services.NewCompareService(logger, nil, 0)
	result, err := service.Compare(context.Background(), services.CompareRequest{
		Files:            files,
		ThresholdSeconds: *sla,
	})
	if err != nil {
		slog.Error("Comparison failed", "error", err)
		os.Exit(1)
	}

	printResult(result)

	if *outDir != "" {
		writer := exporter.NewCSVWriter(*outDir)
		if err := exporter.WriteComparisonCSV(writer, result.Comparison, result.Annotated); err != nil {
			slog.Error("CSV export failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("CSV tables written to %s\n", *outDir)
	}
	if *workbook != "" {
		if err := exporter.WriteComparisonWorkbook(*workbook, result.Comparison, result.Annotated); err != nil {
			slog.Error("Workbook export failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Workbook written to %s\n", *workbook)
	}
}

func printResult(result *services.CompareResult) {
	fmt.Printf("Compared %d report(s), %d transaction(s)\n",
		len(result.Reports), len(result.Comparison.Transactions.Rows))

	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w.Message)
	}

	total := result.Compliance.Within + result.Compliance.Above
	if total == 0 {
		fmt.Println("No numeric transaction data found.")
		return
	}
	fmt.Printf("SLA %.2fs: %d within, %d above (%.1f%% compliant)\n",
		result.Threshold,
		result.Compliance.Within,
		result.Compliance.Above,
		result.Compliance.Rate()*100)

	for _, row := range result.Annotated.Rows {
		for i, cell := range row.Cells {
			if cell.Breach {
				fmt.Printf("  breach: %s in %s (%.3fs)\n",
					row.Name, result.Annotated.Reports[i], cell.Value.Float)
			}
		}
	}
}
