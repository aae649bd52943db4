package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/go-gota/gota/series"
	"github.com/spf13/cobra"

	"osccli/internal/dataprocessing"
	apperrors "osccli/internal/errors"
	"osccli/internal/exporter"
	"osccli/internal/pipeline"
)

const noDataMessage = "no data available"

func newFilesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List the source files found in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			files := a.pipeline.Locate(a.paths.DataDir)
			if len(files) == 0 {
				fmt.Fprintln(a.out, "no source files found in", a.paths.DataDir)
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tFORMAT\tSIZE\tMODIFIED")
			for _, f := range files {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", f.Name, f.Format, f.Size, f.ModTime.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}

func newSourcesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the sources that contributed data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.result(cmd.Context())
			if err != nil {
				return err
			}
			if res.Dataset.IsEmpty() {
				fmt.Fprintln(a.out, noDataMessage)
				return nil
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SOURCE\tSAMPLES")
			for _, tag := range res.Dataset.Sources() {
				fmt.Fprintf(tw, "%s\t%d\n", tag, len(res.Dataset.View(tag)))
			}
			return tw.Flush()
		},
	}
}

func newSummaryCommand(a *app) *cobra.Command {
	var (
		source string
		asJSON bool
		out    string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show frequency and magnitude statistics per source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			res, err := a.result(ctx)
			if err != nil {
				return err
			}
			if res.Dataset.IsEmpty() {
				fmt.Fprintln(a.out, noDataMessage)
				return nil
			}

			summarizer := dataprocessing.NewSummarizer(a.logger)
			var summaries []dataprocessing.Summary
			if source != "" {
				if err := requireSource(res, source); err != nil {
					return err
				}
				summaries = []dataprocessing.Summary{dataprocessing.Summarize(source, res.Dataset.View(source))}
			} else {
				summaries = summarizer.SummarizeDataset(ctx, res.Dataset)
			}

			if out != "" {
				if err := summarizer.WriteCSV(ctx, out, summaries); err != nil {
					return err
				}
			}
			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "SOURCE\tSAMPLES\tMAX HZ\tMIN HZ\tP2P HZ\tMEAN HZ\tSTD HZ\tMEAN VPM\tVPM MISSING\t")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%d\t\n",
					s.Source, s.Samples, s.FreqMax, s.FreqMin, s.PeakToPeak, s.FreqMean, s.FreqStdDev,
					s.MagnitudeMean, s.MagnitudeMissing)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "summarize only this source")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().StringVar(&out, "out", "", "also write the summaries to this CSV file")
	return cmd
}

func newPreviewCommand(a *app) *cobra.Command {
	var (
		source string
		rows   int
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the first rows of the reconstructed data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rows < 1 {
				return apperrors.NewValidationError("--rows must be at least 1", nil)
			}
			res, err := a.result(cmd.Context())
			if err != nil {
				return err
			}
			if res.Dataset.IsEmpty() {
				fmt.Fprintln(a.out, noDataMessage)
				return nil
			}
			if source != "" {
				if err := requireSource(res, source); err != nil {
					return err
				}
			}

			df := res.Dataset.Frame(source)
			if df.Nrow() > rows {
				idx := make([]int, rows)
				for i := range idx {
					idx[i] = i
				}
				df = df.Subset(series.Ints(idx))
			}
			if df.Err != nil {
				return fmt.Errorf("failed to build preview: %w", df.Err)
			}
			fmt.Fprintln(a.out, df.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "preview only this source")
	cmd.Flags().IntVar(&rows, "rows", 10, "number of rows to show")
	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	var (
		source string
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write one source's reconstructed data to CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == "" {
				format = a.cfg.Export.Format
			}
			f, err := exporter.ParseFormat(format)
			if err != nil {
				return err
			}

			res, err := a.result(cmd.Context())
			if err != nil {
				return err
			}
			if res.Dataset.IsEmpty() {
				fmt.Fprintln(a.out, noDataMessage)
				return nil
			}
			if err := requireSource(res, source); err != nil {
				return err
			}

			if out == "" {
				if err := a.paths.EnsureExportDir(); err != nil {
					return apperrors.NewStorageError("failed to prepare export directory", err)
				}
				out = filepath.Join(a.paths.ExportDir, exporter.DefaultFileName(source, f))
			}
			if err := a.validator.ValidateOutputPath(out); err != nil {
				return err
			}

			writer, err := exporter.NewWriter(f, a.logger)
			if err != nil {
				return err
			}
			view := res.Dataset.View(source)
			opts := exporter.WriteOptions{BOMPrefix: a.cfg.Export.BOM, SheetName: sheetName(source)}
			if err := writer.WriteRecords(out, view, res.Dataset.ExtraColumns(), opts); err != nil {
				return apperrors.NewStorageError("failed to export "+source, err).WithContext("path", out)
			}

			fmt.Fprintf(a.out, "exported %d rows to %s\n", len(view), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "source to export (required)")
	cmd.Flags().StringVar(&format, "format", "", "csv or xlsx (default from config)")
	cmd.Flags().StringVar(&out, "out", "", "output path (default <export dir>/<source>_reconstructed.<format>)")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

// requireSource fails with NOT_FOUND when tag contributed no data
func requireSource(res *pipeline.Result, tag string) error {
	for _, s := range res.Dataset.Sources() {
		if s == tag {
			return nil
		}
	}
	return apperrors.NewNotFoundError(fmt.Sprintf("source %q", tag)).WithContext("source", tag)
}

// sheetName fits a source tag into a worksheet name: at most 31 characters
// and none of : \ / ? * [ ]
func sheetName(tag string) string {
	r := []rune(strings.Map(func(c rune) rune {
		if strings.ContainsRune(`:\/?*[]`, c) {
			return '_'
		}
		return c
	}, tag))
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}
